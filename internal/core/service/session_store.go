package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
)

// SessionStore reads and writes the session fields of one client under a
// fixed storage key. With nil storage every call is a no-op.
type SessionStore struct {
	storage ports.SessionStorage
	key     string
	log     zerolog.Logger
}

var _ ports.SessionStore = (*SessionStore)(nil)

func NewSessionStore(storage ports.SessionStorage, key string, log zerolog.Logger) *SessionStore {
	return &SessionStore{storage: storage, key: key, log: log}
}

func (s *SessionStore) SetAuth(ctx context.Context, token, role, username string) error {
	if s.storage == nil {
		return nil
	}
	sess := domain.Session{Token: token, Role: role, Username: username}
	if err := s.storage.Save(ctx, s.key, sess.Fields()); err != nil {
		return fmt.Errorf("set auth: %w", err)
	}
	return nil
}

// GetAuth never fails: unset or unreadable storage yields empty fields.
func (s *SessionStore) GetAuth(ctx context.Context) domain.Session {
	if s.storage == nil {
		return domain.Session{}
	}
	fields, err := s.storage.Load(ctx, s.key)
	if err != nil {
		s.log.Warn().Err(err).Msg("session storage unreadable, treating as logged out")
		return domain.Session{}
	}
	return domain.SessionFromFields(fields)
}

func (s *SessionStore) ClearAuth(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}
	if err := s.storage.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear auth: %w", err)
	}
	return nil
}
