package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tryon-bot/internal/domain/entity"
)

func TestMemorySessionRepository_SaveGetDelete(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	_, err := repo.Get(ctx, "missing")
	require.True(t, errors.Is(err, entity.ErrSessionNotFound))

	s := entity.NewSession("s1", entity.UpperBody, nil, nil)
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.Same(t, s, got)
	require.Equal(t, 1, repo.Len())

	removed, err := repo.Delete(ctx, "s1")
	require.NoError(t, err)
	require.True(t, removed)
	_, err = repo.Get(ctx, "s1")
	require.True(t, errors.Is(err, entity.ErrSessionNotFound))

	removed, err = repo.Delete(ctx, "s1")
	require.NoError(t, err)
	require.False(t, removed)
}

func TestMemorySessionRepository_ConcurrentDeleteRemovesOnce(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, entity.NewSession("s1", entity.UpperBody, nil, nil)))

	var (
		wg      sync.WaitGroup
		removed atomic.Int32
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.Delete(ctx, "s1")
			if err == nil && ok {
				removed.Add(1)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), removed.Load())
}

func TestMemorySessionRepository_Sweep(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	old := entity.NewSession("old", entity.UpperBody, nil, nil)
	require.NoError(t, repo.Save(ctx, old))
	time.Sleep(20 * time.Millisecond)
	fresh := entity.NewSession("fresh", entity.LowerBody, nil, nil)
	require.NoError(t, repo.Save(ctx, fresh))

	removed := repo.Sweep(ctx, 10*time.Millisecond)
	require.Equal(t, 1, removed)
	require.True(t, old.Closed())
	require.False(t, fresh.Closed())

	_, err := repo.Get(ctx, "fresh")
	require.NoError(t, err)
}

func TestMemorySessionRepository_SweepSkipsBusy(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	s := entity.NewSession("busy", entity.UpperBody, nil, nil)
	require.NoError(t, repo.Save(ctx, s))
	require.True(t, s.TryAcquire())
	time.Sleep(5 * time.Millisecond)

	require.Equal(t, 0, repo.Sweep(ctx, time.Millisecond))
	s.Release()
	require.Equal(t, 1, repo.Sweep(ctx, time.Millisecond))
}
