package ports

import (
	"context"

	"github.com/hospos/hospos-client/internal/core/domain"
)

// SessionStore reads and writes one client's session fields.
type SessionStore interface {
	SetAuth(ctx context.Context, token, role, username string) error
	GetAuth(ctx context.Context) domain.Session
	ClearAuth(ctx context.Context) error
}

type AuthService interface {
	Login(ctx context.Context, store SessionStore, name, pin string) (domain.Session, error)
	Logout(ctx context.Context, store SessionStore) error
}

// AdminService is the set of targeted mutations and singleton reads used by
// the console and hosposctl.
type AdminService interface {
	SetUserPin(ctx context.Context, id, pin string) error
	SetUserRole(ctx context.Context, id, role string) error
	UpdateBooking(ctx context.Context, id string, patch domain.BookingPatch) error
	RenewDiscount(ctx context.Context, id string) error
	CreateLocation(ctx context.Context, name string) (*domain.Location, error)
	Business(ctx context.Context) (domain.BusinessInfo, error)
	SaveBusiness(ctx context.Context, info domain.BusinessInfo) error
	FinanceSummary(ctx context.Context) (domain.FinanceSummary, error)
}
