package service

import (
	"github.com/flexprice/console/internal/config"
	"github.com/flexprice/console/internal/domain/draft"
	"github.com/flexprice/console/internal/domain/price"
	"github.com/flexprice/console/internal/domain/priceunit"
	"github.com/flexprice/console/internal/flexprice"
	"github.com/flexprice/console/internal/logger"
	"github.com/flexprice/console/internal/metrics"
	"github.com/flexprice/console/internal/sentry"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger  *logger.Logger
	Config  *config.Configuration
	Metrics *metrics.Metrics
	Sentry  *sentry.Service

	// Repositories
	PriceRepo     price.Repository
	PriceUnitRepo priceunit.Repository
	DraftRepo     draft.Repository

	// Flexprice is the billing API every submit goes to
	Flexprice flexprice.Client
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	metrics *metrics.Metrics,
	sentry *sentry.Service,
	priceRepo price.Repository,
	priceUnitRepo priceunit.Repository,
	draftRepo draft.Repository,
	flexpriceClient flexprice.Client,
) ServiceParams {
	return ServiceParams{
		Logger:        logger,
		Config:        config,
		Metrics:       metrics,
		Sentry:        sentry,
		PriceRepo:     priceRepo,
		PriceUnitRepo: priceUnitRepo,
		DraftRepo:     draftRepo,
		Flexprice:     flexpriceClient,
	}
}
