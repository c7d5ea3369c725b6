package draft

import "context"

// Repository stores drafts scoped to the tenant and environment in the context
type Repository interface {
	Create(ctx context.Context, d *Draft) error
	Get(ctx context.Context, id string) (*Draft, error)
	Update(ctx context.Context, d *Draft) error
	Delete(ctx context.Context, id string) error
}
