package port

import (
	"context"
	"time"

	"tryon-bot/internal/domain/entity"
)

// SessionRepository интерфейс хранилища сессий примерки
type SessionRepository interface {
	Get(ctx context.Context, id string) (*entity.Session, error)
	Save(ctx context.Context, session *entity.Session) error

	// Delete удаляет сессию и сообщает, была ли она в хранилище.
	// Из конкурирующих удалений одной сессии true получает только одно.
	Delete(ctx context.Context, id string) (bool, error)

	// Sweep удаляет сессии, простаивающие дольше ttl, и возвращает их число
	Sweep(ctx context.Context, ttl time.Duration) int
}
