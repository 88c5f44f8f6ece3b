package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"tryon-bot/internal/domain/entity"
)

const keyPrefix = "landmarks:"

// RedisLandmarkStore хранит найденные точки по хешу изображения
type RedisLandmarkStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLandmarkStore создаёт хранилище поверх клиента Redis
func NewRedisLandmarkStore(addr, password string, db int, ttl time.Duration) *RedisLandmarkStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisLandmarkStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisLandmarkStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Get возвращает точки из кеша; found=false при промахе.
func (s *RedisLandmarkStore) Get(ctx context.Context, hash string) (entity.LandmarkSet, bool, error) {
	data, err := s.client.Get(ctx, keyPrefix+hash).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil // промах
		}
		return nil, false, err
	}

	var points []entity.Landmark
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, false, err
	}
	return entity.NewLandmarkSet(points...), true, nil
}

// Set сохраняет точки в кеш. Пустой набор тоже кешируется: повторный
// детект того же кадра даст тот же результат.
func (s *RedisLandmarkStore) Set(ctx context.Context, hash string, set entity.LandmarkSet) error {
	data, err := json.Marshal(set.Points())
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+hash, data, s.ttl).Err()
}

func (s *RedisLandmarkStore) Close() error {
	return s.client.Close()
}
