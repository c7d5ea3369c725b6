package flexprice

import (
	"context"
	"strings"
	"time"

	"github.com/flexprice/console/internal/cache"
	"github.com/flexprice/console/internal/domain/priceunit"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/flexprice"
	"github.com/flexprice/console/internal/logger"
	"github.com/flexprice/console/internal/types"
	"github.com/samber/lo"
)

type priceUnitRepository struct {
	client flexprice.Client
	cache  cache.Cache
	ttl    time.Duration
	log    *logger.Logger
}

// NewPriceUnitRepository reads the tenant's price units through the billing API,
// the whole list is cached per tenant and environment
func NewPriceUnitRepository(client flexprice.Client, c cache.Cache, ttl time.Duration, log *logger.Logger) priceunit.Repository {
	return &priceUnitRepository{
		client: client,
		cache:  c,
		ttl:    ttl,
		log:    log,
	}
}

func (r *priceUnitRepository) List(ctx context.Context) ([]*priceunit.PriceUnit, error) {
	cacheKey := cache.GenerateKey(cache.PrefixPriceUnit, types.GetTenantID(ctx), types.GetEnvironmentID(ctx))

	span := cache.StartCacheSpan(ctx, "priceunit", "get", nil)
	value, found := r.cache.Get(ctx, cacheKey)
	cache.FinishSpan(span)
	if found {
		return value.([]*priceunit.PriceUnit), nil
	}

	r.log.Debugw("listing price units", "tenant_id", types.GetTenantID(ctx))

	units, err := r.client.ListPriceUnits(ctx)
	if err != nil {
		return nil, err
	}
	units = lo.Compact(units)

	r.cache.Set(ctx, cacheKey, units, r.ttl)
	return units, nil
}

func (r *priceUnitRepository) GetByCode(ctx context.Context, code string) (*priceunit.PriceUnit, error) {
	units, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	unit, ok := lo.Find(units, func(u *priceunit.PriceUnit) bool {
		return strings.EqualFold(u.Code, code)
	})
	if !ok {
		return nil, ierr.NewError("price unit not found").
			WithHintf("Price unit %s was not found", code).
			WithReportableDetails(map[string]any{
				"code": code,
			}).
			Mark(ierr.ErrNotFound)
	}
	return unit, nil
}
