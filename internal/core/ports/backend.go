package ports

import (
	"context"

	"github.com/hospos/hospos-client/internal/core/domain"
)

// ListQuery narrows a collection fetch. Search maps to the q parameter.
type ListQuery struct {
	Search string
}

// ListResult is a decoded collection. Malformed is set when the backend
// answered with something other than a JSON array; Items is then empty.
type ListResult[T any] struct {
	Items     []T
	Malformed bool
}

// Collection is a backend resource supporting list, get, create and delete.
type Collection[T any] interface {
	List(ctx context.Context, q ListQuery) (ListResult[T], error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, item T) error
	Delete(ctx context.Context, id string) error
}

type AuthClient interface {
	Authenticate(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error)
}

type LinkClient interface {
	Link(ctx context.Context, req domain.LinkRequest) (*domain.LinkResponse, error)
	Heartbeat(ctx context.Context, hb domain.Heartbeat) error
}
