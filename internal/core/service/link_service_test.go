package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/validation"
)

func newTestLink(client *stubLinkClient, opts ...LinkOption) *LinkService {
	return NewLinkService(client, validation.New(), "android", zerolog.Nop(), opts...)
}

func TestLinkService_Success(t *testing.T) {
	linkedAt := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	repo := &stubTillRepo{}
	storage := newMemStorage()
	client := &stubLinkClient{linkFn: func(_ context.Context, req domain.LinkRequest) (*domain.LinkResponse, error) {
		if req.LinkCode != "123456789012" || req.DeviceInfo.DeviceName != "Till 1" || req.DeviceInfo.Platform != "android" {
			t.Fatalf("unexpected request: %+v", req)
		}
		return &domain.LinkResponse{
			Success:     true,
			TillID:      "T1",
			InitialData: domain.InitialData{Products: []domain.Product{{ID: "p1", Name: "Tea"}}},
		}, nil
	}}
	svc := newTestLink(client,
		WithTillRepository(repo),
		WithSessionStore(NewSessionStore(storage, "till", zerolog.Nop())),
		WithClock(func() time.Time { return linkedAt }),
	)

	if got := svc.Status().State; got != domain.LinkIdle {
		t.Fatalf("expected idle, got %s", got)
	}

	st, err := svc.Submit(context.Background(), "123456789012", "Till 1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if st.State != domain.LinkSuccess || st.Display() != "Linked! ID: T1" {
		t.Fatalf("unexpected status: %+v (%q)", st, st.Display())
	}
	if repo.saved == nil || repo.saved.TillID != "T1" || !repo.saved.LinkedAt.Equal(linkedAt) {
		t.Fatalf("snapshot not stored: %+v", repo.saved)
	}
	if len(repo.saved.InitialData.Products) != 1 {
		t.Fatalf("initial data not stored: %+v", repo.saved.InitialData)
	}
	if storage.data["till"][domain.KeyToken] != "T1" || storage.data["till"][domain.KeyRole] != domain.RoleTill {
		t.Fatalf("till identity not stored as session: %+v", storage.data)
	}
}

func TestLinkService_SuccessIsTerminal(t *testing.T) {
	client := &stubLinkClient{linkFn: func(context.Context, domain.LinkRequest) (*domain.LinkResponse, error) {
		return &domain.LinkResponse{Success: true, TillID: "T1"}, nil
	}}
	svc := newTestLink(client)

	if _, err := svc.Submit(context.Background(), "123456789012", "Till 1"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	st, err := svc.Submit(context.Background(), "123456789012", "Till 1")
	if !errors.Is(err, domain.ErrAlreadyLinked) {
		t.Fatalf("expected ErrAlreadyLinked, got %v", err)
	}
	if st.State != domain.LinkSuccess {
		t.Fatalf("state changed after success: %s", st.State)
	}
	if links, _ := client.counts(); links != 1 {
		t.Fatalf("expected one request, got %d", links)
	}
}

func TestLinkService_BackendErrorThenResubmit(t *testing.T) {
	attempt := 0
	client := &stubLinkClient{linkFn: func(context.Context, domain.LinkRequest) (*domain.LinkResponse, error) {
		attempt++
		if attempt == 1 {
			return nil, &domain.Failure{Kind: domain.FailureStatus, Status: 400, Message: "invalid link code"}
		}
		return &domain.LinkResponse{Success: true, TillID: "T2"}, nil
	}}
	svc := newTestLink(client)

	st, err := svc.Submit(context.Background(), "123456789012", "Till 1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if st.State != domain.LinkError || st.Display() != "invalid link code" {
		t.Fatalf("unexpected status: %+v", st)
	}

	st, err = svc.Submit(context.Background(), "123456789012", "Till 1")
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if st.State != domain.LinkSuccess || st.TillID != "T2" {
		t.Fatalf("unexpected status after resubmit: %+v", st)
	}
}

func TestLinkService_FallbackMessage(t *testing.T) {
	cases := map[string]func(context.Context, domain.LinkRequest) (*domain.LinkResponse, error){
		"transport": func(context.Context, domain.LinkRequest) (*domain.LinkResponse, error) {
			return nil, &domain.Failure{Kind: domain.FailureTransport, Err: errBoom}
		},
		"unsuccessful body": func(context.Context, domain.LinkRequest) (*domain.LinkResponse, error) {
			return &domain.LinkResponse{Success: false}, nil
		},
		"missing till id": func(context.Context, domain.LinkRequest) (*domain.LinkResponse, error) {
			return &domain.LinkResponse{Success: true}, nil
		},
	}
	for name, fn := range cases {
		svc := newTestLink(&stubLinkClient{linkFn: fn})
		st, err := svc.Submit(context.Background(), "123456789012", "Till 1")
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if st.State != domain.LinkError || st.Message != "Something went wrong" {
			t.Fatalf("%s: unexpected status %+v", name, st)
		}
	}
}

func TestLinkService_BodyErrorSurfacedVerbatim(t *testing.T) {
	svc := newTestLink(&stubLinkClient{linkFn: func(context.Context, domain.LinkRequest) (*domain.LinkResponse, error) {
		return &domain.LinkResponse{Success: false, Error: "code expired"}, nil
	}})
	st, _ := svc.Submit(context.Background(), "123456789012", "Till 1")
	if st.Message != "code expired" {
		t.Fatalf("expected verbatim message, got %q", st.Message)
	}
}

func TestLinkService_ValidationSendsNothing(t *testing.T) {
	client := &stubLinkClient{linkFn: func(context.Context, domain.LinkRequest) (*domain.LinkResponse, error) {
		t.Fatalf("backend must not be called")
		return nil, nil
	}}
	svc := newTestLink(client)

	for _, tc := range []struct{ code, name string }{
		{"12345", "Till 1"},
		{"12345678901a", "Till 1"},
		{"123456789012", ""},
	} {
		st, err := svc.Submit(context.Background(), tc.code, tc.name)
		if !domain.IsFailureKind(err, domain.FailureValidation) {
			t.Fatalf("%+v: expected validation failure, got %v", tc, err)
		}
		if st.State != domain.LinkError || st.Message == "" {
			t.Fatalf("%+v: unexpected status %+v", tc, st)
		}
	}
}

func TestLinkService_RejectsSubmitWhileLoading(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	client := &stubLinkClient{linkFn: func(context.Context, domain.LinkRequest) (*domain.LinkResponse, error) {
		close(entered)
		<-release
		return &domain.LinkResponse{Success: true, TillID: "T1"}, nil
	}}
	svc := newTestLink(client)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), "123456789012", "Till 1")
		done <- err
	}()
	<-entered

	if got := svc.Status(); got.State != domain.LinkLoading || got.Display() != "Contacting server…" {
		t.Fatalf("expected loading, got %+v", got)
	}
	if _, err := svc.Submit(context.Background(), "123456789012", "Till 1"); !errors.Is(err, domain.ErrLinkInFlight) {
		t.Fatalf("expected ErrLinkInFlight, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if links, _ := client.counts(); links != 1 {
		t.Fatalf("expected one request, got %d", links)
	}
}

func TestLinkService_SnapshotSaveFailureKeepsSuccess(t *testing.T) {
	svc := newTestLink(
		&stubLinkClient{linkFn: func(context.Context, domain.LinkRequest) (*domain.LinkResponse, error) {
			return &domain.LinkResponse{Success: true, TillID: "T1"}, nil
		}},
		WithTillRepository(&stubTillRepo{saveErr: errBoom}),
	)

	st, err := svc.Submit(context.Background(), "123456789012", "Till 1")
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if st.State != domain.LinkSuccess {
		t.Fatalf("expected success state, got %s", st.State)
	}
}
