package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
	"github.com/hospos/hospos-client/internal/infrastructure/metrics"
)

// AuthService logs staff in with name and PIN and keeps the resulting
// session in a SessionStore.
type AuthService struct {
	client   ports.AuthClient
	validate ports.Validator
	log      zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(client ports.AuthClient, validate ports.Validator, log zerolog.Logger) *AuthService {
	return &AuthService{client: client, validate: validate, log: log}
}

// Login checks the credentials locally, authenticates against the backend
// and stores the session. Malformed PINs never reach the network.
func (s *AuthService) Login(ctx context.Context, store ports.SessionStore, name, pin string) (domain.Session, error) {
	creds := domain.Credentials{Name: name, Pin: pin}
	if err := s.validate.Validate(creds); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return domain.Session{}, err
	}

	res, err := s.client.Authenticate(ctx, creds)
	if err != nil {
		result := "error"
		if errors.Is(err, domain.ErrInvalidCredentials) {
			result = "invalid"
		}
		metrics.LoginsTotal.WithLabelValues(result).Inc()
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}
	if res.Token == "" || res.Role == "" {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return domain.Session{}, &domain.Failure{Kind: domain.FailurePayload, Message: "Login response was incomplete"}
	}

	username := res.Name
	if username == "" {
		username = name
	}
	if err := store.SetAuth(ctx, res.Token, res.Role, username); err != nil {
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	s.log.Info().Str("user", username).Str("role", res.Role).Msg("logged in")
	return domain.Session{Token: res.Token, Role: res.Role, Username: username}, nil
}

func (s *AuthService) Logout(ctx context.Context, store ports.SessionStore) error {
	if err := store.ClearAuth(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
