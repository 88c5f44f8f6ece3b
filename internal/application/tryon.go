package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tryon-bot/internal/domain/entity"
	"tryon-bot/internal/domain/port"
	"tryon-bot/internal/domain/tryon"
	"tryon-bot/internal/infrastructure/metrics"
)

// Тексты успешной примерки.
const (
	UpperBodySuccess = "Cloth overlay successful."
	LowerBodySuccess = "Lower body try-on successful."
)

// TryOnService ведёт сессии примерки: первичная отрисовка с проверкой позы
// и последующие подгонки по сохранённым точкам.
type TryOnService struct {
	provider   port.LandmarkProvider
	remover    port.BackgroundRemover
	codec      port.ImageCodec
	compositor *tryon.Compositor
	sessions   port.SessionRepository
	logger     *zap.Logger
	timeout    time.Duration
}

// StartRequest входные данные первичной примерки.
type StartRequest struct {
	ModelImage   []byte
	GarmentImage []byte
	Class        entity.GarmentClass
}

// TryOnOutput результат отрисовки.
type TryOnOutput struct {
	SessionID   string
	Class       entity.GarmentClass
	Image       *entity.Image
	JPEG        []byte
	Rect        entity.TargetRect
	Suitability entity.SuitabilityResult
	Message     string
}

// NewTryOnService создаёт сервис примерки. remover может быть nil:
// тогда одежда должна приходить уже с прозрачным фоном.
func NewTryOnService(
	provider port.LandmarkProvider,
	remover port.BackgroundRemover,
	codec port.ImageCodec,
	resizer port.ImageResizer,
	sessions port.SessionRepository,
	logger *zap.Logger,
	timeout time.Duration,
) *TryOnService {
	return &TryOnService{
		provider:   provider,
		remover:    remover,
		codec:      codec,
		compositor: tryon.NewCompositor(resizer),
		sessions:   sessions,
		logger:     logger,
		timeout:    timeout,
	}
}

func (s *TryOnService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

// Start проверяет позу и делает первую отрисовку.
//
// NoPoseDetected и SuitabilityRejected завершают сессию. Если отказала
// только отрисовка (InvalidGeometry и т.п.), сессия сохраняется в состоянии
// gated и её ID возвращается вместе с ошибкой: можно пробовать подгонку.
func (s *TryOnService) Start(ctx context.Context, req StartRequest) (*TryOnOutput, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if req.Class != entity.UpperBody && req.Class != entity.LowerBody {
		return nil, fmt.Errorf("unknown garment class %q", req.Class)
	}

	model, err := s.codec.Decode(req.ModelImage)
	if err != nil {
		return nil, entity.WrapError(entity.KindImageLoadFailure, "Failed to load model image", err)
	}
	base := model.ToRGB()

	garment, err := s.loadGarment(ctx, req.GarmentImage)
	if err != nil {
		s.observe(req.Class, "start", err)
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("try-on start aborted: %w", err)
	}

	session := entity.NewSession(uuid.NewString(), req.Class, base, garment)
	log := s.logger.With(zap.String("session", session.ID), zap.String("class", string(req.Class)))

	set, err := s.detect(ctx, base)
	if err != nil {
		session.SetState(entity.SessionTerminal)
		s.observe(req.Class, "start", err)
		return nil, err
	}
	if set.Empty() {
		session.SetState(entity.SessionTerminal)
		s.observe(req.Class, "start", entity.ErrNoPoseDetected)
		log.Info("no pose detected")
		return nil, entity.ErrNoPoseDetected
	}

	suitability := tryon.EvaluateSuitability(base, set, req.Class)
	if !suitability.Accepted {
		session.SetState(entity.SessionTerminal)
		metrics.GateRejections.WithLabelValues(string(req.Class), suitability.Reason).Inc()
		rejected := entity.NewError(entity.KindSuitabilityRejected, suitability.Message)
		s.observe(req.Class, "start", rejected)
		log.Info("pose rejected", zap.String("reason", suitability.Reason))
		return &TryOnOutput{Class: req.Class, Suitability: suitability}, rejected
	}
	session.Landmarks = set
	session.SetState(entity.SessionGated)

	out, err := s.render(ctx, session, set, entity.DefaultAdjustment())
	s.observe(req.Class, "start", err)
	if err != nil {
		if ctx.Err() != nil {
			session.SetState(entity.SessionTerminal)
			return nil, err
		}
		if saveErr := s.store(ctx, session); saveErr != nil {
			return nil, saveErr
		}
		log.Warn("initial render failed", zap.Error(err))
		return &TryOnOutput{SessionID: session.ID, Class: req.Class, Suitability: suitability}, err
	}

	session.SetState(entity.SessionRendered)
	if err := s.store(ctx, session); err != nil {
		return nil, err
	}
	out.Suitability = suitability

	log.Info("try-on rendered", zap.Int("x", out.Rect.X), zap.Int("y", out.Rect.Y),
		zap.Int("width", out.Rect.Width), zap.Int("height", out.Rect.Height))
	return out, nil
}

// Adjust перерисовывает одежду с новыми поправками по сохранённым точкам.
// Ошибка подгонки не закрывает сессию.
func (s *TryOnService) Adjust(ctx context.Context, sessionID string, adj entity.AdjustmentParams) (*TryOnOutput, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	session, release, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	out, err := s.render(ctx, session, session.Landmarks, adj)
	s.observe(session.Class, "adjust", err)
	if err != nil {
		s.logger.Info("adjustment failed", zap.String("session", sessionID), zap.Error(err))
		return nil, err
	}

	session.SetState(entity.SessionAdjusting)
	return out, nil
}

// Redetect заново ищет точки на исходном фото и перерисовывает с поправками.
// Проверка позы повторно не выполняется; если человек не найден,
// сессия остаётся со старыми точками.
func (s *TryOnService) Redetect(ctx context.Context, sessionID string, adj entity.AdjustmentParams) (*TryOnOutput, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	session, release, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	set, err := s.detect(ctx, session.Base)
	if err != nil {
		s.observe(session.Class, "redetect", err)
		return nil, err
	}
	if set.Empty() {
		s.observe(session.Class, "redetect", entity.ErrNoPoseDetected)
		return nil, entity.ErrNoPoseDetected
	}

	out, err := s.render(ctx, session, set, adj)
	s.observe(session.Class, "redetect", err)
	if err != nil {
		return nil, err
	}

	session.Landmarks = set
	session.SetState(entity.SessionAdjusting)
	return out, nil
}

// Close завершает сессию. Повторное закрытие даёт ErrSessionNotFound.
func (s *TryOnService) Close(ctx context.Context, sessionID string) error {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	session.SetState(entity.SessionTerminal)
	removed, err := s.sessions.Delete(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	// сессию уже забрал параллельный Close или Sweep, гейдж они поправили сами
	if !removed {
		return entity.ErrSessionNotFound
	}
	metrics.ActiveSessions.Dec()
	s.logger.Debug("session closed", zap.String("session", sessionID))
	return nil
}

// Sweep удаляет простаивающие сессии
func (s *TryOnService) Sweep(ctx context.Context, ttl time.Duration) int {
	n := s.sessions.Sweep(ctx, ttl)
	if n > 0 {
		metrics.SessionsSwept.Add(float64(n))
		metrics.ActiveSessions.Sub(float64(n))
		s.logger.Info("expired sessions swept", zap.Int("count", n))
	}
	return n
}

// RunSweeper чистит сессии каждые ttl/2, пока жив ctx.
func (s *TryOnService) RunSweeper(ctx context.Context, ttl time.Duration) {
	interval := ttl / 2
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx, ttl)
		}
	}
}

func (s *TryOnService) loadGarment(ctx context.Context, data []byte) (*entity.Image, error) {
	if s.remover != nil {
		cleaned, err := s.remover.Remove(ctx, data)
		if err != nil {
			return nil, entity.WrapError(entity.KindImageLoadFailure, "Failed to remove garment background", err)
		}
		data = cleaned
	}

	garment, err := s.codec.Decode(data)
	if err != nil {
		return nil, entity.WrapError(entity.KindImageLoadFailure, "Failed to load clothes image", err)
	}
	if !garment.HasAlpha() {
		return nil, entity.ErrMissingAlphaChannel
	}
	return garment, nil
}

func (s *TryOnService) detect(ctx context.Context, img *entity.Image) (entity.LandmarkSet, error) {
	start := time.Now()
	set, err := s.provider.Detect(ctx, img)
	metrics.LandmarkDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("detect landmarks: %w", err)
	}
	return set, nil
}

// acquire берёт сессию под исключительную подгонку.
func (s *TryOnService) acquire(ctx context.Context, sessionID string) (*entity.Session, func(), error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.Closed() {
		return nil, nil, entity.ErrSessionClosed
	}
	if !session.TryAcquire() {
		return nil, nil, entity.ErrSessionBusy
	}
	return session, session.Release, nil
}

// render рисует одежду на свежей копии исходного фото. Результат
// отдаётся только если контекст ещё жив и сессия не закрыта.
func (s *TryOnService) render(ctx context.Context, session *entity.Session, set entity.LandmarkSet, adj entity.AdjustmentParams) (*TryOnOutput, error) {
	base := session.Base
	rect, err := tryon.SolvePlacement(base.Width, base.Height, set, session.Class, adj)
	if err != nil {
		return nil, err
	}

	canvas := base.Clone()
	start := time.Now()
	if err := s.compositor.Composite(canvas, session.Garment, rect); err != nil {
		return nil, err
	}
	metrics.CompositeDuration.WithLabelValues(string(session.Class)).Observe(time.Since(start).Seconds())

	jpeg, err := s.codec.EncodeJPEG(canvas)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("try-on result discarded: %w", err)
	}
	if session.Closed() {
		return nil, entity.ErrSessionClosed
	}

	return &TryOnOutput{
		SessionID: session.ID,
		Class:     session.Class,
		Image:     canvas,
		JPEG:      jpeg,
		Rect:      rect,
		Message:   successMessage(session.Class),
	}, nil
}

func (s *TryOnService) store(ctx context.Context, session *entity.Session) error {
	if err := s.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	metrics.ActiveSessions.Inc()
	return nil
}

func (s *TryOnService) observe(class entity.GarmentClass, operation string, err error) {
	result := "ok"
	if err != nil {
		result = string(entity.KindOf(err))
		if result == "" {
			result = "error"
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			result = "timeout"
		}
	}
	metrics.Renders.WithLabelValues(string(class), operation, result).Inc()
}

func successMessage(class entity.GarmentClass) string {
	if class == entity.LowerBody {
		return LowerBodySuccess
	}
	return UpperBodySuccess
}
