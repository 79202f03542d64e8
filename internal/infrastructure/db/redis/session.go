package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SessionStorage keeps session fields in one hash per browser session under
// <prefix><sid>. Every save refreshes the TTL.
type SessionStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    zerolog.Logger
}

func NewSessionStorage(client *redis.Client, cfg Config, log zerolog.Logger) *SessionStorage {
	cfg = cfg.withDefaults()
	return &SessionStorage{client: client, prefix: cfg.KeyPrefix, ttl: cfg.SessionTTL, log: log}
}

func (s *SessionStorage) Load(ctx context.Context, sid string) (map[string]string, error) {
	fields, err := s.client.HGetAll(ctx, s.key(sid)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return fields, nil
}

// Save replaces the stored fields; empty values are not written.
func (s *SessionStorage) Save(ctx context.Context, sid string, fields map[string]string) error {
	values := make(map[string]any, len(fields))
	for k, v := range fields {
		if v != "" {
			values[k] = v
		}
	}

	key := s.key(sid)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(values) > 0 {
		pipe.HSet(ctx, key, values)
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Delete(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, s.key(sid)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Ping is the readiness check for the console.
func (s *SessionStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SessionStorage) Close() error {
	if err := s.client.Close(); err != nil {
		s.log.Warn().Err(err).Msg("close session store")
		return err
	}
	return nil
}

func (s *SessionStorage) key(sid string) string {
	return s.prefix + sid
}
