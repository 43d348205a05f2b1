package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/recipe-catalog/internal/model"
)

// RedisStore keeps sessions in Redis so several server instances share
// them. Keys are "<prefix>:<token>" and carry no TTL.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore builds a store on rdb. An empty prefix defaults to "session".
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "session"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(token string) string { return s.prefix + ":" + token }

func (s *RedisStore) Put(ctx context.Context, token string, chef model.Chef) error {
	chef.Password = ""
	b, err := json.Marshal(chef)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key(token), b, 0).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (model.Chef, bool, error) {
	b, err := s.rdb.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Chef{}, false, nil
	}
	if err != nil {
		return model.Chef{}, false, fmt.Errorf("load session: %w", err)
	}
	var c model.Chef
	if err := json.Unmarshal(b, &c); err != nil {
		return model.Chef{}, false, fmt.Errorf("decode session: %w", err)
	}
	return c, true, nil
}

func (s *RedisStore) Remove(ctx context.Context, token string) (bool, error) {
	n, err := s.rdb.Del(ctx, s.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("remove session: %w", err)
	}
	return n > 0, nil
}
