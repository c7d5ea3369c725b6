package priceunit

import "context"

// Repository reads the tenant's price units from the billing API
type Repository interface {
	List(ctx context.Context) ([]*PriceUnit, error)
	GetByCode(ctx context.Context, code string) (*PriceUnit, error)
}
