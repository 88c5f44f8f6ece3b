package port

import (
	"context"

	"tryon-bot/internal/domain/entity"
)

// LandmarkProvider интерфейс детектора точек тела
type LandmarkProvider interface {
	// Detect возвращает точки одного человека или пустой набор, если никого не нашли
	Detect(ctx context.Context, img *entity.Image) (entity.LandmarkSet, error)

	// Close освобождает ресурсы детектора
	Close() error
}
