package ports

import (
	"context"

	"github.com/hospos/hospos-client/internal/core/domain"
)

// Validator runs pre-flight checks; failures are domain.Failure values of
// kind validation.
type Validator interface {
	Validate(i any) error
}

// AdminClient covers the backend calls that do not fit the list/create/delete
// shape of a Collection.
type AdminClient interface {
	SetUserPin(ctx context.Context, id string, change domain.PinChange) error
	SetUserRole(ctx context.Context, id string, change domain.RoleChange) error
	UpdateBooking(ctx context.Context, id string, patch domain.BookingPatch) error
	RenewDiscount(ctx context.Context, id string) error
	CreateLocation(ctx context.Context, loc domain.Location) (*domain.Location, error)
	Business(ctx context.Context) (domain.BusinessInfo, error)
	SaveBusiness(ctx context.Context, info domain.BusinessInfo) error
	FinanceSummary(ctx context.Context) (domain.FinanceSummary, error)
}
