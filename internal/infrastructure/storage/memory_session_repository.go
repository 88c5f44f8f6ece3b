package storage

import (
	"context"
	"sync"
	"time"

	"tryon-bot/internal/domain/entity"
	"tryon-bot/internal/domain/port"
)

// MemorySessionRepository держит сессии примерки в памяти процесса.
// Сессии живут минуты, переживать рестарт им незачем.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
}

// NewMemorySessionRepository создаёт пустое хранилище сессий
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*entity.Session),
	}
}

// Get возвращает сессию или ErrSessionNotFound
func (r *MemorySessionRepository) Get(ctx context.Context, id string) (*entity.Session, error) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return session, nil
}

func (r *MemorySessionRepository) Save(ctx context.Context, session *entity.Session) error {
	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false, nil
	}
	delete(r.sessions, id)
	return true, nil
}

// Sweep удаляет сессии, не менявшиеся дольше ttl.
// Занятые подгонкой сессии не трогаем, их заберёт следующий проход.
func (r *MemorySessionRepository) Sweep(ctx context.Context, ttl time.Duration) int {
	deadline := time.Now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, session := range r.sessions {
		if !session.IdleSince().Before(deadline) {
			continue
		}
		if !session.TryAcquire() {
			continue
		}
		session.SetState(entity.SessionTerminal)
		session.Release()
		delete(r.sessions, id)
		removed++
	}
	return removed
}

// Len количество живых сессий
func (r *MemorySessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

var _ port.SessionRepository = (*MemorySessionRepository)(nil)
