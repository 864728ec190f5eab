package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// KV stores progress documents as plain Redis strings. SET replaces the value
// in one command, so readers never see a partial document.
type KV struct {
	client *redis.Client
	prefix string
}

func NewKV(client *redis.Client, prefix string) *KV {
	return &KV{client: client, prefix: prefix}
}

func (s *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *KV) Put(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}
