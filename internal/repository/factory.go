package repository

import (
	"github.com/flexprice/console/internal/cache"
	"github.com/flexprice/console/internal/config"
	"github.com/flexprice/console/internal/domain/draft"
	"github.com/flexprice/console/internal/domain/price"
	"github.com/flexprice/console/internal/domain/priceunit"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/flexprice"
	"github.com/flexprice/console/internal/logger"
	"github.com/flexprice/console/internal/redis"
	flexpriceRepo "github.com/flexprice/console/internal/repository/flexprice"
	memoryRepo "github.com/flexprice/console/internal/repository/memory"
	redisRepo "github.com/flexprice/console/internal/repository/redis"
	"github.com/flexprice/console/internal/types"
	"go.uber.org/fx"
)

// NewCache returns the cache for billing API reads, a no-op when caching is disabled
func NewCache(cfg *config.Configuration) cache.Cache {
	if !cfg.Cache.Enabled {
		return cache.NoopCache{}
	}
	return cache.NewInMemoryCache(cfg.Cache.TTL, cache.DefaultCleanupInterval)
}

func NewPriceUnitRepository(client flexprice.Client, c cache.Cache, cfg *config.Configuration, logger *logger.Logger) priceunit.Repository {
	return flexpriceRepo.NewPriceUnitRepository(client, c, cfg.Cache.TTL, logger)
}

func NewPriceRepository(client flexprice.Client, units priceunit.Repository, c cache.Cache, cfg *config.Configuration, logger *logger.Logger) price.Repository {
	return flexpriceRepo.NewPriceRepository(client, units, c, cfg.Cache.TTL, logger)
}

// NewDraftRepository selects the draft store configured under drafts.store.
// The redis connection is only opened for the redis store.
func NewDraftRepository(lc fx.Lifecycle, cfg *config.Configuration, logger *logger.Logger) (draft.Repository, error) {
	switch cfg.Drafts.Store {
	case types.DraftStoreMemory:
		c := cache.NewInMemoryCache(cfg.Drafts.TTL, cfg.Drafts.CleanupInterval)
		return memoryRepo.NewDraftRepository(c, cfg.Drafts.TTL, logger), nil
	case types.DraftStoreRedis:
		client, err := redis.NewClient(cfg, logger)
		if err != nil {
			return nil, err
		}
		redis.RegisterHooks(lc, client)
		return redisRepo.NewDraftRepository(client.Client, cfg.Drafts.TTL, logger), nil
	default:
		return nil, ierr.NewErrorf("unknown draft store %q", cfg.Drafts.Store).
			WithHint("drafts.store must be memory or redis").
			Mark(ierr.ErrValidation)
	}
}
