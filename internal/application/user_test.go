package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"tryon-bot/internal/domain/entity"
	"tryon-bot/internal/infrastructure/storage"
)

func TestUserService_TryOnDialog(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.BeginTryOn(ctx, 1, 10, entity.LowerBody)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingModelPhoto, user.State)
	require.Equal(t, entity.LowerBody, user.Class)

	user, err = svc.AcceptModelPhoto(ctx, 1, 10, []byte("model"))
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingGarmentPhoto, user.State)
	require.Equal(t, []byte("model"), user.ModelPhoto)

	user, err = svc.AttachSession(ctx, 1, 10, "session-1")
	require.NoError(t, err)
	require.Equal(t, entity.StateAdjusting, user.State)
	require.Equal(t, "session-1", user.SessionID)
	require.Nil(t, user.ModelPhoto)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.Empty(t, user.SessionID)
	require.Empty(t, user.Class)
}

func TestUserService_BeginTryOnForgetsPreviousRun(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.BeginTryOn(ctx, 2, 20, entity.UpperBody)
	require.NoError(t, err)
	_, err = svc.AttachSession(ctx, 2, 20, "old")
	require.NoError(t, err)

	user, err := svc.BeginTryOn(ctx, 2, 20, entity.LowerBody)
	require.NoError(t, err)
	require.Empty(t, user.SessionID)
	require.Equal(t, entity.LowerBody, user.Class)
}

func TestUserService_SetState(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetState(ctx, 3, 30, entity.StateProcessing)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, user.State)
}
