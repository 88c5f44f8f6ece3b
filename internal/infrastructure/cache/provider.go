package cache

import (
	"context"
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"tryon-bot/internal/domain/entity"
	"tryon-bot/internal/domain/port"
)

// LandmarkStore хранилище точек по хешу кадра
type LandmarkStore interface {
	Get(ctx context.Context, hash string) (entity.LandmarkSet, bool, error)
	Set(ctx context.Context, hash string, set entity.LandmarkSet) error
}

// CachedLandmarkProvider оборачивает детектор кешем и склеивает
// одновременные запросы на один и тот же кадр.
type CachedLandmarkProvider struct {
	next   port.LandmarkProvider
	store  LandmarkStore
	group  singleflight.Group
	logger *zap.Logger
}

// NewCachedLandmarkProvider создаёт кеширующий детектор
func NewCachedLandmarkProvider(next port.LandmarkProvider, store LandmarkStore, logger *zap.Logger) *CachedLandmarkProvider {
	return &CachedLandmarkProvider{
		next:   next,
		store:  store,
		logger: logger,
	}
}

// Detect отдаёт точки из кеша или вызывает детектор.
// Ошибки кеша не мешают детекту, только пишутся в лог.
func (p *CachedLandmarkProvider) Detect(ctx context.Context, img *entity.Image) (entity.LandmarkSet, error) {
	hash := ImageHash(img)

	if set, ok, err := p.store.Get(ctx, hash); err != nil {
		p.logger.Warn("failed to get landmarks from cache", zap.String("hash", hash), zap.Error(err))
	} else if ok {
		p.logger.Debug("landmark cache hit", zap.String("hash", hash))
		return set, nil
	}

	// Общий вызов не зависит от отмены первого из ожидающих: каждый
	// выходит по своему ctx, детект доводится до конца для остальных.
	// Сверху его ограничивает таймаут HTTP-клиента детектора.
	detectCtx := context.WithoutCancel(ctx)
	ch := p.group.DoChan(hash, func() (interface{}, error) {
		set, err := p.next.Detect(detectCtx, img)
		if err != nil {
			return nil, err
		}
		if err := p.store.Set(detectCtx, hash, set); err != nil {
			p.logger.Warn("failed to set landmarks cache", zap.String("hash", hash), zap.Error(err))
		}
		return set, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			p.logger.Debug("landmark detection shared", zap.String("hash", hash))
		}
		return res.Val.(entity.LandmarkSet), nil
	}
}

// Close закрывает вложенный детектор
func (p *CachedLandmarkProvider) Close() error {
	return p.next.Close()
}

// ImageHash MD5 от размеров и пикселей изображения
func ImageHash(img *entity.Image) string {
	h := md5.New()
	var hdr [12]byte
	binary.BigEndian.PutUint32(hdr[0:], uint32(img.Width))
	binary.BigEndian.PutUint32(hdr[4:], uint32(img.Height))
	binary.BigEndian.PutUint32(hdr[8:], uint32(img.Channels))
	h.Write(hdr[:])
	h.Write(img.Pix)
	return hex.EncodeToString(h.Sum(nil))
}

var _ port.LandmarkProvider = (*CachedLandmarkProvider)(nil)
