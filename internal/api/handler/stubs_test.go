package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hospos/hospos-client/internal/api/middleware"
	"github.com/hospos/hospos-client/internal/api/web"
	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
	"github.com/hospos/hospos-client/internal/core/validation"
)

// ---------------------------------------------------------------------------
// Stubs and helpers shared by the handler tests
// ---------------------------------------------------------------------------

type stubCollection[T any] struct {
	mu        sync.Mutex
	items     []T
	listErr   error
	getErr    error
	createErr error
	deleteErr error
	lists     int
	queries   []string
	creates   []T
	deletes   []string
	id        func(T) string
}

func (c *stubCollection[T]) List(_ context.Context, q ports.ListQuery) (ports.ListResult[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists++
	c.queries = append(c.queries, q.Search)
	if c.listErr != nil {
		return ports.ListResult[T]{}, c.listErr
	}
	return ports.ListResult[T]{Items: append([]T(nil), c.items...)}, nil
}

// Get finds the item whose c.id matches.
func (c *stubCollection[T]) Get(_ context.Context, id string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	if c.getErr != nil {
		return zero, c.getErr
	}
	for _, item := range c.items {
		if c.id != nil && c.id(item) == id {
			return item, nil
		}
	}
	return zero, &domain.Failure{Kind: domain.FailureStatus, Status: http.StatusNotFound, Err: domain.ErrNotFound}
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

type stubAdminClient struct {
	pins     map[string]string
	roles    map[string]string
	patches  map[string]domain.BookingPatch
	renewed  []string
	saved    *domain.BusinessInfo
	err      error
	location *domain.Location
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

func (a *stubAdminClient) SetUserRole(_ context.Context, id string, c domain.RoleChange) error {
	if a.err != nil {
		return a.err
	}
	if a.roles == nil {
		a.roles = map[string]string{}
	}
	a.roles[id] = c.Role
	return nil
}

func (a *stubAdminClient) UpdateBooking(_ context.Context, id string, p domain.BookingPatch) error {
	if a.err != nil {
		return a.err
	}
	if a.patches == nil {
		a.patches = map[string]domain.BookingPatch{}
	}
	a.patches[id] = p
	return nil
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
	if a.location != nil {
		return a.location, nil
	}
	loc.ID, loc.LinkCode = "loc1", "123456789012"
	return &loc, nil
}

func (a *stubAdminClient) Business(context.Context) (domain.BusinessInfo, error) {
	return domain.DefaultBusinessInfo(), a.err
}

func (a *stubAdminClient) SaveBusiness(_ context.Context, info domain.BusinessInfo) error {
	if a.err != nil {
		return a.err
	}
	a.saved = &info
	return nil
}

func (a *stubAdminClient) FinanceSummary(context.Context) (domain.FinanceSummary, error) {
	return domain.FinanceSummary{TotalSales: 120, TotalVAT: 20, TotalPayments: 100, TotalReceipts: 3}, a.err
}

type fixture struct {
	products   *stubCollection[domain.Product]
	categories *stubCollection[domain.Category]
	customers  *stubCollection[domain.Customer]
	bookings   *stubCollection[domain.Booking]
	discounts  *stubCollection[domain.Discount]
	users      *stubCollection[domain.User]
	roles      *stubCollection[domain.Role]
	locations  *stubCollection[domain.Location]
	admin      *stubAdminClient
	validate   *validation.Validator
}

func newFixture() *fixture {
	return &fixture{
		products:   &stubCollection[domain.Product]{},
		categories: &stubCollection[domain.Category]{},
		customers:  &stubCollection[domain.Customer]{},
		bookings:   &stubCollection[domain.Booking]{},
		discounts:  &stubCollection[domain.Discount]{},
		users:      &stubCollection[domain.User]{},
		roles:      &stubCollection[domain.Role]{},
		locations:  &stubCollection[domain.Location]{},
		admin:      &stubAdminClient{},
		validate:   validation.New(),
	}
}

func (f *fixture) screens() *Screens {
	return NewScreens(Collections{
		Products:   f.products,
		Categories: f.categories,
		Customers:  f.customers,
		Bookings:   f.bookings,
		Discounts:  f.discounts,
		Users:      f.users,
		Roles:      f.roles,
		Locations:  f.locations,
		Sales:      &stubCollection[domain.Sale]{},
		Payments:   &stubCollection[domain.Payment]{},
		Receipts:   &stubCollection[domain.Receipt]{},
	}, f.validate, zerolog.Nop())
}

// newEcho returns an echo instance with the console's renderer and validator.
func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	r, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e := echo.New()
	e.Renderer = r
	e.Validator = validation.New()
	return e
}

// request builds a context for method and target with an admin session. A
// non-nil form is sent url-encoded.
func request(e *echo.Echo, method, target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetSession(c, domain.Session{Token: "jwt", Role: domain.RoleAdmin, Username: "alice"})
	return c, rec
}
