package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
)

var (
	_ ports.AuthClient  = (*Client)(nil)
	_ ports.LinkClient  = (*Client)(nil)
	_ ports.AdminClient = (*Client)(nil)
)

// Resources groups the collections the screens work on.
type Resources struct {
	Products   *Resource[domain.Product]
	Categories *Resource[domain.Category]
	Customers  *Resource[domain.Customer]
	Bookings   *Resource[domain.Booking]
	Discounts  *Resource[domain.Discount]
	Users      *Resource[domain.User]
	Roles      *Resource[domain.Role]
	Locations  *Resource[domain.Location]
	Sales      *Resource[domain.Sale]
	Payments   *Resource[domain.Payment]
	Receipts   *Resource[domain.Receipt]
}

func (c *Client) Resources() Resources {
	return Resources{
		Products:   NewResource[domain.Product](c, "/api/products"),
		Categories: NewResource[domain.Category](c, "/api/categories"),
		Customers:  NewResource[domain.Customer](c, "/api/customers"),
		Bookings:   NewResource[domain.Booking](c, "/api/bookings"),
		Discounts:  NewResource[domain.Discount](c, "/api/discounts"),
		Users:      NewResource[domain.User](c, "/api/users"),
		Roles:      NewResource[domain.Role](c, "/api/roles"),
		Locations:  NewResource[domain.Location](c, "/api/locations"),
		Sales:      NewResource[domain.Sale](c, "/api/sales"),
		Payments:   NewResource[domain.Payment](c, "/api/payments"),
		Receipts:   NewResource[domain.Receipt](c, "/api/receipts"),
	}
}

// Authenticate exchanges name and PIN for a token. A 401 becomes
// ErrInvalidCredentials.
func (c *Client) Authenticate(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	var res domain.AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth", "/api/auth", creds, &res)
	if err != nil {
		var f *domain.Failure
		if errors.As(err, &f) && f.Status == http.StatusUnauthorized {
			f.Err = domain.ErrInvalidCredentials
			if f.Message == "" {
				f.Message = "Invalid name or PIN"
			}
		}
		return nil, err
	}
	return &res, nil
}

// Link posts a pairing code. Error answers keep the backend's message, e.g.
// {"success":false,"error":"invalid link code"}.
func (c *Client) Link(ctx context.Context, req domain.LinkRequest) (*domain.LinkResponse, error) {
	var res domain.LinkResponse
	if err := c.do(ctx, http.MethodPost, "/api/linking/link", "/api/linking/link", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Heartbeat(ctx context.Context, hb domain.Heartbeat) error {
	return c.do(ctx, http.MethodPost, "/api/heartbeat", "/api/heartbeat", hb, nil)
}

func (c *Client) SetUserPin(ctx context.Context, id string, change domain.PinChange) error {
	return c.do(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id)+"/pin", "/api/users/:id/pin", change, nil)
}

func (c *Client) SetUserRole(ctx context.Context, id string, change domain.RoleChange) error {
	return c.do(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id)+"/role", "/api/users/:id/role", change, nil)
}

func (c *Client) UpdateBooking(ctx context.Context, id string, patch domain.BookingPatch) error {
	return c.do(ctx, http.MethodPatch, "/api/bookings/"+url.PathEscape(id), "/api/bookings/:id", patch, nil)
}

// RenewDiscount asks the backend to extend the discount; the new expiry is
// decided server side.
func (c *Client) RenewDiscount(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPatch, "/api/discounts/"+url.PathEscape(id)+"/renew", "/api/discounts/:id/renew", nil, nil)
}

// CreateLocation returns the stored location including its link code.
func (c *Client) CreateLocation(ctx context.Context, loc domain.Location) (*domain.Location, error) {
	var created domain.Location
	if err := c.do(ctx, http.MethodPost, "/api/locations", "/api/locations", loc, &created); err != nil {
		return nil, err
	}
	if created.Name == "" {
		created.Name = loc.Name
	}
	return &created, nil
}

// Business decodes the saved profile over the defaults, so keys the backend
// leaves out keep their default values.
func (c *Client) Business(ctx context.Context) (domain.BusinessInfo, error) {
	info := domain.DefaultBusinessInfo()
	if err := c.do(ctx, http.MethodGet, "/api/business", "/api/business", nil, &info); err != nil {
		return domain.DefaultBusinessInfo(), err
	}
	return info, nil
}

func (c *Client) SaveBusiness(ctx context.Context, info domain.BusinessInfo) error {
	return c.do(ctx, http.MethodPost, "/api/business", "/api/business", info, nil)
}

func (c *Client) FinanceSummary(ctx context.Context) (domain.FinanceSummary, error) {
	var sum domain.FinanceSummary
	err := c.do(ctx, http.MethodGet, "/api/finance/summary", "/api/finance/summary", nil, &sum)
	return sum, err
}
