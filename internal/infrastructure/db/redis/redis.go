package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout    = 5 * time.Second
	defaultSessionTTL = 12 * time.Hour
	defaultKeyPrefix  = "hospos:session:"
)

// Config describes where the console keeps browser sessions.
type Config struct {
	Addr       string
	DB         int
	KeyPrefix  string        // prepended to every session id
	SessionTTL time.Duration // refreshed on every save
	Timeout    time.Duration // budget for the start-up ping
}

func (c Config) withDefaults() Config {
	if c.KeyPrefix == "" {
		c.KeyPrefix = defaultKeyPrefix
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = defaultSessionTTL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

// Open connects to Redis, checks it answers and returns the session storage
// bound to that connection. Close releases it.
func Open(ctx context.Context, cfg Config, log zerolog.Logger) (*SessionStorage, error) {
	cfg = cfg.withDefaults()
	client := redis.NewClient(&redis.Options{
		Addr:       cfg.Addr,
		DB:         cfg.DB,
		ClientName: "hospos-console",
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	log.Info().
		Str("addr", cfg.Addr).
		Int("db", cfg.DB).
		Str("prefix", cfg.KeyPrefix).
		Dur("ttl", cfg.SessionTTL).
		Msg("session store connected")
	return NewSessionStorage(client, cfg, log), nil
}
