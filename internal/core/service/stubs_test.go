package service

import (
	"context"
	"errors"
	"sync"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs shared by the service tests
// ---------------------------------------------------------------------------

type memStorage struct {
	mu      sync.Mutex
	data    map[string]map[string]string
	loadErr error
}

func newMemStorage() *memStorage {
	return &memStorage{data: map[string]map[string]string{}}
}

func (m *memStorage) Load(_ context.Context, key string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := map[string]string{}
	for k, v := range m.data[key] {
		out[k] = v
	}
	return out, nil
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

type stubCollection[T any] struct {
	mu        sync.Mutex
	listFn    func(ctx context.Context, q ports.ListQuery) (ports.ListResult[T], error)
	getFn     func(ctx context.Context, id string) (T, error)
	createErr error
	deleteErr error
	lists     int
	creates   []T
	deletes   []string
}

func (c *stubCollection[T]) List(ctx context.Context, q ports.ListQuery) (ports.ListResult[T], error) {
	c.mu.Lock()
	c.lists++
	fn := c.listFn
	c.mu.Unlock()
	if fn == nil {
		return ports.ListResult[T]{}, nil
	}
	return fn(ctx, q)
}

func (c *stubCollection[T]) Get(ctx context.Context, id string) (T, error) {
	if c.getFn == nil {
		var zero T
		return zero, &domain.Failure{Kind: domain.FailureStatus, Status: 404, Err: domain.ErrNotFound}
	}
	return c.getFn(ctx, id)
}

func (c *stubCollection[T]) Create(_ context.Context, item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.createErr != nil {
		return c.createErr
	}
	c.creates = append(c.creates, item)
	return nil
}

func (c *stubCollection[T]) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleteErr != nil {
		return c.deleteErr
	}
	c.deletes = append(c.deletes, id)
	return nil
}

func (c *stubCollection[T]) listCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lists
}

type stubAuthClient struct {
	calls  int
	authFn func(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error)
}

func (s *stubAuthClient) Authenticate(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	s.calls++
	return s.authFn(ctx, creds)
}

type stubLinkClient struct {
	mu          sync.Mutex
	linkFn      func(ctx context.Context, req domain.LinkRequest) (*domain.LinkResponse, error)
	heartbeatFn func(ctx context.Context, hb domain.Heartbeat) error
	links       int
	beats       int
}

func (s *stubLinkClient) Link(ctx context.Context, req domain.LinkRequest) (*domain.LinkResponse, error) {
	s.mu.Lock()
	s.links++
	s.mu.Unlock()
	return s.linkFn(ctx, req)
}

func (s *stubLinkClient) Heartbeat(ctx context.Context, hb domain.Heartbeat) error {
	s.mu.Lock()
	s.beats++
	fn := s.heartbeatFn
	s.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(ctx, hb)
}

func (s *stubLinkClient) counts() (links, beats int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.links, s.beats
}

type stubTillRepo struct {
	saved   *domain.TillSnapshot
	saveErr error
}

func (r *stubTillRepo) Save(_ context.Context, snap *domain.TillSnapshot) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = snap
	return nil
}

func (r *stubTillRepo) Load(_ context.Context) (*domain.TillSnapshot, error) {
	if r.saved == nil {
		return nil, domain.ErrNotLinked
	}
	return r.saved, nil
}

type stubAdminClient struct {
	renewed []string
	pins    map[string]string
	err     error
}

func (a *stubAdminClient) SetUserPin(_ context.Context, id string, c domain.PinChange) error {
	if a.err != nil {
		return a.err
	}
	if a.pins == nil {
		a.pins = map[string]string{}
	}
	a.pins[id] = c.Pin
	return nil
}

func (a *stubAdminClient) SetUserRole(context.Context, string, domain.RoleChange) error { return a.err }

func (a *stubAdminClient) UpdateBooking(context.Context, string, domain.BookingPatch) error {
	return a.err
}

func (a *stubAdminClient) RenewDiscount(_ context.Context, id string) error {
	if a.err != nil {
		return a.err
	}
	a.renewed = append(a.renewed, id)
	return nil
}

func (a *stubAdminClient) CreateLocation(_ context.Context, loc domain.Location) (*domain.Location, error) {
	if a.err != nil {
		return nil, a.err
	}
	loc.ID, loc.LinkCode = "loc1", "123456789012"
	return &loc, nil
}

func (a *stubAdminClient) Business(context.Context) (domain.BusinessInfo, error) {
	return domain.DefaultBusinessInfo(), a.err
}

func (a *stubAdminClient) SaveBusiness(context.Context, domain.BusinessInfo) error { return a.err }

func (a *stubAdminClient) FinanceSummary(context.Context) (domain.FinanceSummary, error) {
	return domain.FinanceSummary{TotalSales: 120, TotalVAT: 20}, a.err
}

func confirmWith(answer bool) (ports.Confirmer, *int) {
	asked := 0
	return ports.ConfirmFunc(func(context.Context, string) (bool, error) {
		asked++
		return answer, nil
	}), &asked
}

var errBoom = errors.New("boom")
