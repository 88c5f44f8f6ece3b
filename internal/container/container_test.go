package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tryon-bot/internal/domain/entity"
	"tryon-bot/internal/infrastructure/storage"
	"tryon-bot/internal/infrastructure/vision"
)

type noPose struct{}

func (noPose) Detect(ctx context.Context, img *entity.Image) (entity.LandmarkSet, error) {
	return entity.LandmarkSet{}, nil
}

func (noPose) Close() error { return nil }

func TestNew(t *testing.T) {
	c := New(Deps{
		Users:     storage.NewMemoryUserRepository(),
		Sessions:  storage.NewMemorySessionRepository(),
		Landmarks: noPose{},
		Codec:     vision.NewCodec(),
		Resizer:   vision.NewResizer(),
		Logger:    zap.NewNop(),
	})
	require.NotNil(t, c.UserService)
	require.NotNil(t, c.TryOnService)

	user, err := c.UserService.BeginTryOn(context.Background(), 1, 1, entity.UpperBody)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingModelPhoto, user.State)
}
