package ports

import (
	"context"

	"github.com/hospos/hospos-client/internal/core/domain"
)

// TillRepository stores the identity and data snapshot of a linked till.
type TillRepository interface {
	Save(ctx context.Context, snap *domain.TillSnapshot) error
	// Load returns domain.ErrNotLinked when nothing has been stored.
	Load(ctx context.Context) (*domain.TillSnapshot, error)
}
