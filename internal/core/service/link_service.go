package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
	"github.com/hospos/hospos-client/internal/infrastructure/metrics"
)

const linkFallbackMessage = "Something went wrong"

// LinkService drives the till linking flow: Idle, Loading, then Success or
// Error. Success is final; Error allows another attempt.
type LinkService struct {
	client   ports.LinkClient
	repo     ports.TillRepository // optional
	store    *SessionStore        // optional
	validate ports.Validator
	platform string
	log      zerolog.Logger
	now      func() time.Time

	mu     sync.Mutex
	status domain.LinkStatus
}

type LinkOption func(*LinkService)

// WithTillRepository persists the snapshot of a successful link.
func WithTillRepository(repo ports.TillRepository) LinkOption {
	return func(s *LinkService) { s.repo = repo }
}

// WithSessionStore records the till identity as the device's session.
func WithSessionStore(store *SessionStore) LinkOption {
	return func(s *LinkService) { s.store = store }
}

func WithClock(now func() time.Time) LinkOption {
	return func(s *LinkService) { s.now = now }
}

func NewLinkService(client ports.LinkClient, validate ports.Validator, platform string, log zerolog.Logger, opts ...LinkOption) *LinkService {
	s := &LinkService{
		client:   client,
		validate: validate,
		platform: platform,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LinkService) Status() domain.LinkStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Submit runs one link attempt. Only one attempt may be in flight; a submit
// during Loading fails with ErrLinkInFlight and sends nothing.
func (s *LinkService) Submit(ctx context.Context, code, deviceName string) (domain.LinkStatus, error) {
	req := domain.LinkRequest{
		LinkCode:   code,
		DeviceInfo: domain.DeviceInfo{Platform: s.platform, DeviceName: deviceName},
	}

	// 1. Gate on the current state and validate before touching the network.
	s.mu.Lock()
	switch s.status.State {
	case domain.LinkLoading:
		st := s.status
		s.mu.Unlock()
		metrics.LinkAttemptsTotal.WithLabelValues("rejected").Inc()
		return st, domain.ErrLinkInFlight
	case domain.LinkSuccess:
		st := s.status
		s.mu.Unlock()
		metrics.LinkAttemptsTotal.WithLabelValues("rejected").Inc()
		return st, domain.ErrAlreadyLinked
	}
	if err := s.validate.Validate(req); err != nil {
		s.status = domain.LinkStatus{State: domain.LinkError, Message: domain.UserMessage(err, linkFallbackMessage)}
		st := s.status
		s.mu.Unlock()
		metrics.LinkAttemptsTotal.WithLabelValues("invalid").Inc()
		return st, err
	}
	s.status = domain.LinkStatus{State: domain.LinkLoading}
	s.mu.Unlock()

	// 2. Exchange the code.
	resp, err := s.client.Link(ctx, req)
	if err == nil {
		switch {
		case resp == nil:
			err = &domain.Failure{Kind: domain.FailurePayload}
		case !resp.Success || resp.TillID == "":
			err = &domain.Failure{Kind: domain.FailurePayload, Message: resp.Error}
		}
	}
	if err != nil {
		msg := domain.UserMessage(err, linkFallbackMessage)
		s.setStatus(domain.LinkStatus{State: domain.LinkError, Message: msg})
		metrics.LinkAttemptsTotal.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Str("device", deviceName).Msg("till link failed")
		return s.Status(), fmt.Errorf("link till: %w", err)
	}

	st := s.setStatus(domain.LinkStatus{State: domain.LinkSuccess, TillID: resp.TillID})
	metrics.LinkAttemptsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("till_id", resp.TillID).Str("device", deviceName).Msg("till linked")

	// 3. Keep the identity locally. The link itself has already happened,
	// so a storage failure is reported without leaving Success.
	if err := s.persist(ctx, resp, req.DeviceInfo); err != nil {
		s.log.Error().Err(err).Str("till_id", resp.TillID).Msg("failed to store till identity")
		return st, fmt.Errorf("link till: %w", err)
	}
	return st, nil
}

func (s *LinkService) persist(ctx context.Context, resp *domain.LinkResponse, dev domain.DeviceInfo) error {
	if s.repo != nil {
		snap := &domain.TillSnapshot{
			TillID:      resp.TillID,
			DeviceInfo:  dev,
			LinkedAt:    s.now().UTC(),
			InitialData: resp.InitialData,
		}
		if err := s.repo.Save(ctx, snap); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
	}
	if s.store != nil {
		if err := s.store.SetAuth(ctx, resp.TillID, domain.RoleTill, dev.DeviceName); err != nil {
			return err
		}
	}
	return nil
}

func (s *LinkService) setStatus(st domain.LinkStatus) domain.LinkStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = st
	return st
}
