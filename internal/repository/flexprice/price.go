package flexprice

import (
	"context"
	"time"

	"github.com/flexprice/console/internal/cache"
	domainPrice "github.com/flexprice/console/internal/domain/price"
	"github.com/flexprice/console/internal/domain/priceunit"
	"github.com/flexprice/console/internal/flexprice"
	"github.com/flexprice/console/internal/logger"
	"github.com/flexprice/console/internal/types"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
)

type priceRepository struct {
	client flexprice.Client
	units  priceunit.Repository
	cache  cache.Cache
	ttl    time.Duration
	log    *logger.Logger
}

// NewPriceRepository reads prices through the billing API. CUSTOM prices get
// their unit symbol filled in from the tenant's price units.
func NewPriceRepository(
	client flexprice.Client,
	units priceunit.Repository,
	c cache.Cache,
	ttl time.Duration,
	log *logger.Logger,
) domainPrice.Repository {
	return &priceRepository{
		client: client,
		units:  units,
		cache:  c,
		ttl:    ttl,
		log:    log,
	}
}

func (r *priceRepository) Get(ctx context.Context, id string) (*domainPrice.Price, error) {
	if p := r.GetCache(ctx, id); p != nil {
		return p, nil
	}

	r.log.Debugw("getting price", "price_id", id, "tenant_id", types.GetTenantID(ctx))

	p, err := r.client.GetPrice(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.fillSymbols(ctx, []*domainPrice.Price{p}, nil); err != nil {
		return nil, err
	}
	r.SetCache(ctx, p)
	return p, nil
}

func (r *priceRepository) List(ctx context.Context, ids []string) ([]*domainPrice.Price, error) {
	ids = lo.Uniq(lo.Compact(ids))
	if len(ids) == 0 {
		return []*domainPrice.Price{}, nil
	}

	found := make(map[string]*domainPrice.Price, len(ids))
	var missing []string
	for _, id := range ids {
		if p := r.GetCache(ctx, id); p != nil {
			found[id] = p
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		r.log.Debugw("listing prices", "price_ids", missing, "cached", len(found))

		var fetched []*domainPrice.Price
		var units []*priceunit.PriceUnit

		// units only matter for CUSTOM prices, fillSymbols retries the load
		// when this one fails
		p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
		p.Go(func(ctx context.Context) error {
			var err error
			fetched, err = r.client.ListPrices(ctx, missing)
			return err
		})
		p.Go(func(ctx context.Context) error {
			var err error
			if units, err = r.units.List(ctx); err != nil {
				r.log.Warnw("failed to load price units", "error", err)
			}
			return nil
		})
		if err := p.Wait(); err != nil {
			return nil, err
		}

		if err := r.fillSymbols(ctx, fetched, units); err != nil {
			return nil, err
		}
		for _, fp := range lo.Compact(fetched) {
			found[fp.ID] = fp
			r.SetCache(ctx, fp)
		}
	}

	// keep the caller's order, unknown ids are skipped
	result := make([]*domainPrice.Price, 0, len(ids))
	for _, id := range ids {
		if p, ok := found[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

// fillSymbols sets PriceUnitSymbol on CUSTOM prices that lack one. units is
// loaded from the registry when nil.
func (r *priceRepository) fillSymbols(ctx context.Context, prices []*domainPrice.Price, units []*priceunit.PriceUnit) error {
	custom := lo.Filter(prices, func(p *domainPrice.Price, _ int) bool {
		return p != nil && p.PriceUnitType == types.PRICE_UNIT_TYPE_CUSTOM && p.PriceUnitSymbol == ""
	})
	if len(custom) == 0 {
		return nil
	}

	if units == nil {
		var err error
		if units, err = r.units.List(ctx); err != nil {
			return err
		}
	}

	idx := priceunit.NewSymbolIndex(units)
	for _, p := range custom {
		code := p.PriceUnit
		if p.PriceUnitConfig != nil {
			code = lo.CoalesceOrEmpty(p.PriceUnitConfig.PriceUnit, code)
		}
		p.PriceUnitSymbol = idx.Lookup(code)
	}
	return nil
}

func (r *priceRepository) SetCache(ctx context.Context, p *domainPrice.Price) {
	span := cache.StartCacheSpan(ctx, "price", "set", map[string]interface{}{
		"price_id": p.ID,
	})
	defer cache.FinishSpan(span)

	cacheKey := cache.GenerateKey(cache.PrefixPrice, types.GetTenantID(ctx), types.GetEnvironmentID(ctx), p.ID)
	r.cache.Set(ctx, cacheKey, p, r.ttl)
}

func (r *priceRepository) GetCache(ctx context.Context, id string) *domainPrice.Price {
	span := cache.StartCacheSpan(ctx, "price", "get", map[string]interface{}{
		"price_id": id,
	})
	defer cache.FinishSpan(span)

	cacheKey := cache.GenerateKey(cache.PrefixPrice, types.GetTenantID(ctx), types.GetEnvironmentID(ctx), id)
	if value, found := r.cache.Get(ctx, cacheKey); found {
		return value.(*domainPrice.Price)
	}
	return nil
}
