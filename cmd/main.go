package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tryon-bot/config"
	telegram "tryon-bot/internal/api"
	"tryon-bot/internal/api/rest"
	"tryon-bot/internal/container"
	"tryon-bot/internal/domain/port"
	"tryon-bot/internal/infrastructure/cache"
	"tryon-bot/internal/infrastructure/logger"
	"tryon-bot/internal/infrastructure/storage"
	"tryon-bot/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Детектор точек тела, при наличии Redis — с кешем
	poseClient := vision.NewPoseClient(cfg.PoseServiceURL, cfg.RequestTimeout)
	var landmarks port.LandmarkProvider = poseClient
	if cfg.Redis.Addr != "" {
		store := cache.NewRedisLandmarkStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err := store.Ping(ctx); err != nil {
			log.Warn("redis connection failed, landmark cache disabled", zap.Error(err))
			_ = store.Close()
		} else {
			log.Info("redis connected, landmark cache enabled", zap.String("addr", cfg.Redis.Addr))
			landmarks = cache.NewCachedLandmarkProvider(poseClient, store, log.Named("cache"))
			defer store.Close()
		}
	}
	defer landmarks.Close()

	checks := map[string]rest.HealthCheck{"pose": poseClient.CheckHealth}

	var remover port.BackgroundRemover
	if cfg.RembgServiceURL != "" {
		rembg := vision.NewRembgClient(cfg.RembgServiceURL, cfg.RequestTimeout)
		remover = rembg
		checks["rembg"] = rembg.CheckHealth
	}

	resizer := vision.NewResizer()
	log.Info("image resizer", zap.String("backend", resizer.Backend()))

	appContainer := container.New(container.Deps{
		Users:     storage.NewMemoryUserRepository(),
		Sessions:  storage.NewMemorySessionRepository(),
		Landmarks: landmarks,
		Remover:   remover,
		Codec:     vision.NewCodec(),
		Resizer:   resizer,
		Logger:    log,
		Timeout:   cfg.RequestTimeout,
	})

	go appContainer.TryOnService.RunSweeper(ctx, cfg.SessionTTL)

	// HTTP API
	gin.SetMode(cfg.Mode)
	handler := rest.NewTryOnHandler(appContainer.TryOnService, log.Named("http"), cfg.MaxUploadSize)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           rest.NewRouter(handler, log.Named("http"), checks),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	// Telegram-бот необязателен: без токена работает только HTTP API
	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer, log.Named("bot"), cfg.MaxUploadSize)
		if err != nil {
			log.Fatal("failed to create bot", zap.Error(err))
		}
		go func() {
			log.Info("bot is running")
			if err := bot.Run(ctx); err != nil {
				log.Error("bot stopped", zap.Error(err))
			}
		}()
	} else {
		log.Warn("TELEGRAM_TOKEN is empty, bot disabled")
	}

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
}
