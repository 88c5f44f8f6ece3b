package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	TelegramToken string
	HTTPAddr      string
	Mode          string // debug | release

	PoseServiceURL  string
	RembgServiceURL string

	Redis RedisConfig

	RequestTimeout time.Duration
	MaxUploadSize  int64
	SessionTTL     time.Duration
}

type RedisConfig struct {
	Addr     string // пусто — кеш точек выключен
	Password string
	DB       int
	TTL      time.Duration
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		TelegramToken:   v.GetString("TELEGRAM_TOKEN"),
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		Mode:            v.GetString("APP_MODE"),
		PoseServiceURL:  v.GetString("POSE_SERVICE_URL"),
		RembgServiceURL: v.GetString("REMBG_SERVICE_URL"),
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("LANDMARK_CACHE_TTL"),
		},
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		MaxUploadSize:  v.GetInt64("MAX_UPLOAD_SIZE"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("APP_MODE", "debug")
	v.SetDefault("POSE_SERVICE_URL", "http://localhost:8001")
	v.SetDefault("REMBG_SERVICE_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LANDMARK_CACHE_TTL", 24*time.Hour)
	v.SetDefault("REQUEST_TIMEOUT", 30*time.Second)
	v.SetDefault("MAX_UPLOAD_SIZE", 10*1024*1024)
	v.SetDefault("SESSION_TTL", 30*time.Minute)
}

func (c *Config) validate() error {
	if c.Mode != "debug" && c.Mode != "release" {
		return fmt.Errorf("APP_MODE must be debug or release, got %q", c.Mode)
	}
	if c.PoseServiceURL == "" {
		return fmt.Errorf("POSE_SERVICE_URL is required")
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}
