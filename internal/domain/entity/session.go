package entity

import (
	"sync"
	"time"
)

// SessionState состояние сессии примерки
type SessionState string

const (
	SessionInit      SessionState = "init"
	SessionGated     SessionState = "gated"
	SessionRendered  SessionState = "rendered"
	SessionAdjusting SessionState = "adjusting"
	SessionTerminal  SessionState = "terminal"
)

// Session хранит исходные изображения и точки для повторных подгонок.
// Base и Garment не изменяются после создания, каждая подгонка рисует
// на свежей копии Base. Область и готовый кадр в сессии не хранятся:
// они пересчитываются при каждой отрисовке и уходят только в ответ.
type Session struct {
	ID        string
	Class     GarmentClass
	Base      *Image
	Garment   *Image
	Landmarks LandmarkSet
	CreatedAt time.Time
	updatedAt time.Time

	mu    sync.Mutex // одна подгонка на сессию
	state SessionState
	smu   sync.RWMutex
}

// NewSession создаёт сессию в состоянии init
func NewSession(id string, class GarmentClass, base, garment *Image) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Class:     class,
		Base:      base,
		Garment:   garment,
		CreatedAt: now,
		updatedAt: now,
		state:     SessionInit,
	}
}

// State возвращает текущее состояние
func (s *Session) State() SessionState {
	s.smu.RLock()
	defer s.smu.RUnlock()
	return s.state
}

// SetState переводит сессию в новое состояние
func (s *Session) SetState(state SessionState) {
	s.smu.Lock()
	s.state = state
	s.updatedAt = time.Now()
	s.smu.Unlock()
}

// Closed сообщает, что сессия завершена
func (s *Session) Closed() bool {
	return s.State() == SessionTerminal
}

// TryAcquire захватывает сессию без ожидания.
func (s *Session) TryAcquire() bool {
	return s.mu.TryLock()
}

// Release освобождает сессию после подгонки
func (s *Session) Release() {
	s.mu.Unlock()
}

// IdleSince время последнего изменения
func (s *Session) IdleSince() time.Time {
	s.smu.RLock()
	defer s.smu.RUnlock()
	return s.updatedAt
}
