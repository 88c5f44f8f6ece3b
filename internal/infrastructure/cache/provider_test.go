package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tryon-bot/internal/domain/entity"
)

type countingProvider struct {
	calls atomic.Int32
	set   entity.LandmarkSet
	err   error
}

func (p *countingProvider) Detect(ctx context.Context, img *entity.Image) (entity.LandmarkSet, error) {
	p.calls.Add(1)
	return p.set, p.err
}

func (p *countingProvider) Close() error { return nil }

// blockingProvider держит детект, пока не закроют release.
type blockingProvider struct {
	calls   atomic.Int32
	set     entity.LandmarkSet
	started chan struct{}
	release chan struct{}
}

func (p *blockingProvider) Detect(ctx context.Context, img *entity.Image) (entity.LandmarkSet, error) {
	if p.calls.Add(1) == 1 {
		close(p.started)
	}
	select {
	case <-p.release:
		return p.set, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *blockingProvider) Close() error { return nil }

func newStore(t *testing.T) (*RedisLandmarkStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisLandmarkStore(mr.Addr(), "", 0, time.Hour)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func testImage(t *testing.T, v uint8) *entity.Image {
	t.Helper()
	img, err := entity.NewImage(4, 4, 3)
	require.NoError(t, err)
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestRedisLandmarkStore_RoundTrip(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.Ping(ctx))

	_, ok, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.False(t, ok)

	set := entity.NewLandmarkSet(entity.Landmark{Name: entity.LeftHip, X: 0.4, Y: 0.5, Visibility: 0.9})
	require.NoError(t, store.Set(ctx, "abc", set))
	require.True(t, mr.Exists("landmarks:abc"))

	got, ok, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, set, got)

	mr.FastForward(2 * time.Hour)
	_, ok, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCachedLandmarkProvider_CachesByImage(t *testing.T) {
	store, _ := newStore(t)
	next := &countingProvider{set: entity.NewLandmarkSet(entity.Landmark{Name: entity.LeftKnee, Visibility: 1})}
	p := NewCachedLandmarkProvider(next, store, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		set, err := p.Detect(ctx, testImage(t, 1))
		require.NoError(t, err)
		require.Len(t, set, 1)
	}
	require.Equal(t, int32(1), next.calls.Load())

	_, err := p.Detect(ctx, testImage(t, 2))
	require.NoError(t, err)
	require.Equal(t, int32(2), next.calls.Load())
}

func TestCachedLandmarkProvider_ErrorNotCached(t *testing.T) {
	store, _ := newStore(t)
	next := &countingProvider{err: errors.New("pose service down")}
	p := NewCachedLandmarkProvider(next, store, zap.NewNop())

	_, err := p.Detect(context.Background(), testImage(t, 1))
	require.Error(t, err)
	_, err = p.Detect(context.Background(), testImage(t, 1))
	require.Error(t, err)
	require.Equal(t, int32(2), next.calls.Load())
}

func TestCachedLandmarkProvider_StoreDownFallsThrough(t *testing.T) {
	store, mr := newStore(t)
	mr.Close()

	next := &countingProvider{set: entity.LandmarkSet{}}
	p := NewCachedLandmarkProvider(next, store, zap.NewNop())

	set, err := p.Detect(context.Background(), testImage(t, 1))
	require.NoError(t, err)
	require.True(t, set.Empty())
}

func TestCachedLandmarkProvider_CancelledCallerDoesNotFailOthers(t *testing.T) {
	store, _ := newStore(t)
	next := &blockingProvider{
		set:     entity.NewLandmarkSet(entity.Landmark{Name: entity.LeftShoulder, Visibility: 1}),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	p := NewCachedLandmarkProvider(next, store, zap.NewNop())

	type result struct {
		set entity.LandmarkSet
		err error
	}
	img := testImage(t, 7)
	run := func(ctx context.Context) <-chan result {
		ch := make(chan result, 1)
		go func() {
			set, err := p.Detect(ctx, img)
			ch <- result{set, err}
		}()
		return ch
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()
	first := run(ctxA)
	<-next.started
	second := run(context.Background())
	time.Sleep(50 * time.Millisecond)

	cancelA()
	select {
	case res := <-first:
		require.ErrorIs(t, res.err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller still waits for detection")
	}

	close(next.release)
	select {
	case res := <-second:
		require.NoError(t, res.err)
		require.Equal(t, next.set, res.set)
	case <-time.After(time.Second):
		t.Fatal("second caller did not get landmarks")
	}
	require.Equal(t, int32(1), next.calls.Load())

	// результат общего вызова попал в кеш
	set, err := p.Detect(context.Background(), img)
	require.NoError(t, err)
	require.Equal(t, next.set, set)
	require.Equal(t, int32(1), next.calls.Load())
}

func TestImageHash(t *testing.T) {
	require.Equal(t, ImageHash(testImage(t, 5)), ImageHash(testImage(t, 5)))
	require.NotEqual(t, ImageHash(testImage(t, 5)), ImageHash(testImage(t, 6)))
}
