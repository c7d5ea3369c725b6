package price

import (
	"context"
)

// Repository reads prices from the billing API
type Repository interface {
	Get(ctx context.Context, id string) (*Price, error)
	// List returns the prices for the given ids, unknown ids are skipped
	List(ctx context.Context, ids []string) ([]*Price, error)
}
