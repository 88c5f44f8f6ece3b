package app

import (
	"context"

	"tryon-bot/internal/domain/entity"
	"tryon-bot/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) {
		u.SetState(state)
	})
}

// BeginTryOn начинает новый сценарий примерки, прошлые данные забываются.
func (s *UserService) BeginTryOn(ctx context.Context, userID, chatID int64, class entity.GarmentClass) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) {
		u.Reset()
		u.Class = class
		u.SetState(entity.StateAwaitingModelPhoto)
	})
}

// AcceptModelPhoto запоминает фото человека до прихода одежды
func (s *UserService) AcceptModelPhoto(ctx context.Context, userID, chatID int64, photo []byte) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) {
		u.ModelPhoto = photo
		u.SetState(entity.StateAwaitingGarmentPhoto)
	})
}

// AttachSession привязывает готовую сессию, дальше пользователь может подгонять.
func (s *UserService) AttachSession(ctx context.Context, userID, chatID int64, sessionID string) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) {
		u.ModelPhoto = nil
		u.SessionID = sessionID
		u.SetState(entity.StateAdjusting)
	})
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) {
		u.Reset()
	})
}

func (s *UserService) update(ctx context.Context, userID, chatID int64, fn func(*entity.User)) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	fn(user)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
