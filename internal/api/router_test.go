package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hospos/hospos-client/internal/api/handler"
	"github.com/hospos/hospos-client/internal/api/middleware"
	"github.com/hospos/hospos-client/internal/api/web"
	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
	"github.com/hospos/hospos-client/internal/core/validation"
)

type emptyCollection[T any] struct{}

func (emptyCollection[T]) List(context.Context, ports.ListQuery) (ports.ListResult[T], error) {
	return ports.ListResult[T]{Items: []T{}}, nil
}
func (emptyCollection[T]) Get(context.Context, string) (T, error) {
	var zero T
	return zero, domain.ErrNotFound
}
func (emptyCollection[T]) Create(context.Context, T) error      { return nil }
func (emptyCollection[T]) Delete(context.Context, string) error { return nil }

// rejectedCollection answers every list as a backend that no longer
// accepts the session token.
type rejectedCollection[T any] struct{ emptyCollection[T] }

func (rejectedCollection[T]) List(context.Context, ports.ListQuery) (ports.ListResult[T], error) {
	return ports.ListResult[T]{}, &domain.Failure{Kind: domain.FailureStatus, Status: http.StatusUnauthorized, Err: domain.ErrNotAuthenticated}
}

type memStorage struct {
	mu   sync.Mutex
	data map[string]map[string]string
}

func newMemStorage() *memStorage { return &memStorage{data: map[string]map[string]string{}} }

func (m *memStorage) Load(_ context.Context, key string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memStorage) Save(_ context.Context, key string, fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fields
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStorage) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

type stubAuthClient struct{}

func (stubAuthClient) Authenticate(_ context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	if creds.Name != "alice" || creds.Pin != "1234" {
		return nil, &domain.Failure{Kind: domain.FailureStatus, Status: http.StatusUnauthorized, Err: domain.ErrInvalidCredentials}
	}
	return &domain.AuthResult{ID: "u1", Name: "alice", Role: domain.RoleAdmin, Token: "jwt"}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	return buildTestRouter(t, nil, emptyCollection[domain.Product]{})
}

func buildTestRouter(t *testing.T, storage ports.SessionStorage, products ports.Collection[domain.Product]) http.Handler {
	t.Helper()
	r, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	return NewRouter(Deps{
		Log:       zerolog.Nop(),
		Renderer:  r,
		Validator: validation.New(),
		Session:   middleware.SessionConfig{Secret: "secret", TTL: time.Hour, Storage: storage},
		Auth:      stubAuthClient{},
		Collections: handler.Collections{
			Products:   products,
			Categories: emptyCollection[domain.Category]{},
			Customers:  emptyCollection[domain.Customer]{},
			Bookings:   emptyCollection[domain.Booking]{},
			Discounts:  emptyCollection[domain.Discount]{},
			Users:      emptyCollection[domain.User]{},
			Roles:      emptyCollection[domain.Role]{},
			Locations:  emptyCollection[domain.Location]{},
			Sales:      emptyCollection[domain.Sale]{},
			Payments:   emptyCollection[domain.Payment]{},
			Receipts:   emptyCollection[domain.Receipt]{},
		},
		Checks: map[string]handler.Check{"backend": func(context.Context) error { return nil }},
	})
}

func TestRouter_ProtectedPagesRedirectToLogin(t *testing.T) {
	router := newTestRouter(t)
	for _, path := range []string{"/dashboard", "/products", "/discounts", "/admin/users", "/finance/sales"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
			t.Fatalf("%s: expected redirect to /login, got %d %q", path, rec.Code, rec.Header().Get("Location"))
		}
	}
}

func TestRouter_LoginPageIsPublic(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), middleware.SessionCookie) {
		t.Fatalf("expected a session cookie to be issued")
	}
}

func TestRouter_Probes(t *testing.T) {
	router := newTestRouter(t)
	for _, path := range []string{"/health", "/health/ready", "/metrics"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

// sessionCookie returns the session cookie set on rec, or nil.
func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func get(router http.Handler, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// login visits the login page for a cookie and signs in with it.
func login(t *testing.T, router http.Handler) (before, after *http.Cookie) {
	t.Helper()
	before = sessionCookie(get(router, "/login", nil))
	if before == nil {
		t.Fatalf("login page issued no session cookie")
	}

	form := url.Values{"name": {"alice"}, "pin": {"1234"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(before)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard" {
		t.Fatalf("login: expected redirect to /dashboard, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	after = sessionCookie(rec)
	if after == nil {
		t.Fatalf("login did not issue a new session cookie")
	}
	return before, after
}

func TestRouter_LoginIssuesNewSessionID(t *testing.T) {
	storage := newMemStorage()
	router := buildTestRouter(t, storage, emptyCollection[domain.Product]{})

	before, after := login(t, router)
	if before.Value == after.Value {
		t.Fatalf("session cookie was not replaced at login")
	}

	// Only the new id carries the signed-in session.
	if rec := get(router, "/categories", before); rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("pre-login cookie: expected redirect to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if rec := get(router, "/categories", after); rec.Code != http.StatusOK {
		t.Fatalf("new cookie: expected 200, got %d", rec.Code)
	}
	if storage.len() != 1 {
		t.Fatalf("expected exactly one stored session, got %d", storage.len())
	}
}

func TestRouter_LogoutRetiresSessionID(t *testing.T) {
	storage := newMemStorage()
	router := buildTestRouter(t, storage, emptyCollection[domain.Product]{})
	_, cookie := login(t, router)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if next := sessionCookie(rec); next == nil || next.Value == cookie.Value {
		t.Fatalf("expected a fresh session cookie after logout")
	}
	if storage.len() != 0 {
		t.Fatalf("expected no stored sessions after logout, got %d", storage.len())
	}
}

func TestRouter_RejectedTokenEndsSession(t *testing.T) {
	storage := newMemStorage()
	router := buildTestRouter(t, storage, rejectedCollection[domain.Product]{})
	_, cookie := login(t, router)

	rec := get(router, "/products", cookie)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if storage.len() != 0 {
		t.Fatalf("expected the session to be cleared, got %d stored", storage.len())
	}
	if rec := get(router, "/categories", cookie); rec.Code != http.StatusSeeOther {
		t.Fatalf("expected the old session to be gone, got %d", rec.Code)
	}
}

func TestRouter_DetailPagesNeedStaff(t *testing.T) {
	router := newTestRouter(t)
	for _, path := range []string{"/customers/c1", "/bookings/b1"} {
		rec := get(router, path, nil)
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
			t.Fatalf("%s: expected redirect to /login, got %d %q", path, rec.Code, rec.Header().Get("Location"))
		}
	}
}
