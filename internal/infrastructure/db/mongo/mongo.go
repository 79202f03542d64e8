package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultDatabase = "hospos_till"
)

// Config describes the till's local store.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration // budget for connect, ping and index setup
}

// Store is the till's connection to its local MongoDB.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	log    zerolog.Logger
}

// Open connects, checks the server answers and makes sure the snapshot
// collection is indexed for "latest link" lookups.
func Open(ctx context.Context, cfg Config, log zerolog.Logger) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if cfg.Database == "" {
		cfg.Database = defaultDatabase
	}

	openCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(openCtx, options.Client().ApplyURI(cfg.URI).SetAppName("hospos-till"))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(openCtx, nil); err != nil {
		_ = client.Disconnect(openCtx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	s := &Store{client: client, db: client.Database(cfg.Database), log: log}
	if err := s.ensureIndexes(openCtx); err != nil {
		_ = client.Disconnect(openCtx)
		return nil, err
	}
	log.Info().Str("database", cfg.Database).Msg("till store connected")
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(tillCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "linkedAt", Value: -1}},
		Options: options.Index().SetName("linkedAt_desc"),
	})
	if err != nil {
		return fmt.Errorf("index %s: %w", tillCollection, err)
	}
	return nil
}

func (s *Store) Tills() *TillRepository { return NewTillRepository(s.db) }

// Drop removes the whole till database; tests use it to clean up.
func (s *Store) Drop(ctx context.Context) error { return s.db.Drop(ctx) }

func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		s.log.Warn().Err(err).Msg("close till store")
		return err
	}
	return nil
}
