package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hospos/hospos-client/internal/core/domain"
)

const tillCollection = "till_snapshots"

// TillRepository stores link snapshots keyed by till id. Load returns the
// most recently linked till.
type TillRepository struct {
	col *mongo.Collection
}

func NewTillRepository(db *mongo.Database) *TillRepository {
	return &TillRepository{col: db.Collection(tillCollection)}
}

func (r *TillRepository) Save(ctx context.Context, snap *domain.TillSnapshot) error {
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": snap.TillID}, snap, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save till snapshot: %w", err)
	}
	return nil
}

func (r *TillRepository) Load(ctx context.Context) (*domain.TillSnapshot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "linkedAt", Value: -1}})

	var snap domain.TillSnapshot
	err := r.col.FindOne(ctx, bson.M{}, opts).Decode(&snap)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotLinked
		}
		return nil, fmt.Errorf("load till snapshot: %w", err)
	}
	return &snap, nil
}
