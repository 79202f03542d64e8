package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
	"github.com/hospos/hospos-client/internal/infrastructure/metrics"
)

// ScreenState is what a resource screen renders.
type ScreenState[T any] struct {
	Items     []T
	Query     string
	Err       string // user-facing, empty when the last operation succeeded
	Cause     error  // the error behind Err
	Malformed bool   // the last list response was not an array
	Loaded    bool
}

// Screen is the fetch, render, mutate, refetch model shared by every
// resource page. Each list request takes a sequence number; a response that
// is not the latest is dropped.
type Screen[T any] struct {
	name     string
	coll     ports.Collection[T]
	validate ports.Validator
	log      zerolog.Logger

	mu    sync.Mutex
	seq   uint64
	state ScreenState[T]
}

func NewScreen[T any](name string, coll ports.Collection[T], validate ports.Validator, log zerolog.Logger) *Screen[T] {
	return &Screen[T]{
		name:     name,
		coll:     coll,
		validate: validate,
		log:      log.With().Str("screen", name).Logger(),
	}
}

func (s *Screen[T]) Name() string { return s.name }

func (s *Screen[T]) State() ScreenState[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Refresh re-fetches the collection with the current search query.
func (s *Screen[T]) Refresh(ctx context.Context) ScreenState[T] {
	s.mu.Lock()
	s.seq++
	seq, q := s.seq, s.state.Query
	s.mu.Unlock()

	res, err := s.coll.List(ctx, ports.ListQuery{Search: q})

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		metrics.StaleResponsesTotal.WithLabelValues(s.name).Inc()
		s.log.Debug().Uint64("seq", seq).Uint64("latest", s.seq).Msg("stale list response dropped")
		return s.snapshot()
	}

	s.state.Loaded = true
	if err != nil {
		s.log.Warn().Err(err).Msg("list failed")
		s.state.Items = nil
		s.state.Malformed = false
		s.state.Cause = err
		s.state.Err = domain.UserMessage(err, fmt.Sprintf("Failed to load %s. Please try again later.", s.name))
		return s.snapshot()
	}
	if res.Malformed {
		metrics.MalformedPayloadsTotal.WithLabelValues(s.name).Inc()
		s.log.Warn().Msg("list response was not an array")
	}
	s.state.Items = res.Items
	s.state.Malformed = res.Malformed
	s.state.Err = ""
	s.state.Cause = nil
	return s.snapshot()
}

// Get fetches one item by id. The list state is left alone.
func (s *Screen[T]) Get(ctx context.Context, id string) (T, error) {
	item, err := s.coll.Get(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Str("id", id).Msg("get failed")
		return item, fmt.Errorf("%s: %w", s.name, err)
	}
	return item, nil
}

// Search stores q as the screen query and refreshes.
func (s *Screen[T]) Search(ctx context.Context, q string) ScreenState[T] {
	s.mu.Lock()
	s.state.Query = q
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Create validates item, sends it and refetches on success. Items that fail
// validation never reach the backend.
func (s *Screen[T]) Create(ctx context.Context, item T) (ScreenState[T], error) {
	if err := s.validate.Validate(item); err != nil {
		return s.fail(err, "")
	}
	return s.Mutate(ctx, "Failed to add "+s.singular(), func(ctx context.Context) error {
		return s.coll.Create(ctx, item)
	})
}

// Mutate runs op and refetches the collection if it succeeded. fallback is
// shown when the error carries no message of its own.
func (s *Screen[T]) Mutate(ctx context.Context, fallback string, op func(ctx context.Context) error) (ScreenState[T], error) {
	if err := op(ctx); err != nil {
		s.log.Warn().Err(err).Msg("mutation failed")
		return s.fail(err, fallback)
	}
	return s.Refresh(ctx), nil
}

// Delete asks confirm first. A declined or failed confirmation returns
// ErrConfirmationDeclined and nothing is sent.
func (s *Screen[T]) Delete(ctx context.Context, confirm ports.Confirmer, id, label string) (ScreenState[T], error) {
	ok, err := confirm.Confirm(ctx, fmt.Sprintf("Delete %s %q?", s.singular(), label))
	if err != nil || !ok {
		if err != nil {
			s.log.Warn().Err(err).Msg("confirmation failed")
		}
		return s.State(), domain.ErrConfirmationDeclined
	}
	return s.Mutate(ctx, "Failed to delete "+s.singular(), func(ctx context.Context) error {
		return s.coll.Delete(ctx, id)
	})
}

func (s *Screen[T]) fail(err error, fallback string) (ScreenState[T], error) {
	msg := domain.UserMessage(err, fallback)
	if msg == "" {
		msg = err.Error()
	}
	s.mu.Lock()
	s.state.Err = msg
	s.state.Cause = err
	st := s.snapshot()
	s.mu.Unlock()
	if domain.IsFailureKind(err, domain.FailureValidation) || errors.Is(err, domain.ErrConfirmationDeclined) {
		return st, err
	}
	return st, fmt.Errorf("%s: %w", s.name, err)
}

func (s *Screen[T]) singular() string {
	if strings.HasSuffix(s.name, "ies") {
		return strings.TrimSuffix(s.name, "ies") + "y"
	}
	if n := len(s.name); n > 1 && s.name[n-1] == 's' {
		return s.name[:n-1]
	}
	return s.name
}

// snapshot copies the state; callers hold mu.
func (s *Screen[T]) snapshot() ScreenState[T] {
	st := s.state
	if s.state.Items != nil {
		st.Items = make([]T, len(s.state.Items))
		copy(st.Items, s.state.Items)
	}
	return st
}
