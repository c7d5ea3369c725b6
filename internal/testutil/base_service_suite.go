package testutil

import (
	"context"
	"time"

	"github.com/flexprice/console/internal/cache"
	"github.com/flexprice/console/internal/config"
	"github.com/flexprice/console/internal/domain/draft"
	"github.com/flexprice/console/internal/logger"
	"github.com/flexprice/console/internal/metrics"
	"github.com/flexprice/console/internal/repository/memory"
	"github.com/flexprice/console/internal/sentry"
	"github.com/flexprice/console/internal/types"
	"github.com/flexprice/console/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	PriceRepo     *InMemoryPriceStore
	PriceUnitRepo *InMemoryPriceUnitStore
	DraftRepo     draft.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	stores    Stores
	flexprice *MockFlexpriceClient
	logger    *logger.Logger
	config    *config.Configuration
	metrics   *metrics.Metrics
	sentry    *sentry.Service
	now       time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelInfo
	cfg.Sentry.Enabled = false

	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
	s.sentry = sentry.NewSentryService(cfg, s.logger)
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.metrics = metrics.NewMetrics()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	prices := NewInMemoryPriceStore()
	units := NewInMemoryPriceUnitStore()
	s.stores = Stores{
		PriceRepo:     prices,
		PriceUnitRepo: units,
		DraftRepo: memory.NewDraftRepository(
			cache.NewInMemoryCache(s.config.Drafts.TTL, s.config.Drafts.CleanupInterval),
			s.config.Drafts.TTL,
			s.logger,
		),
	}
	s.flexprice = NewMockFlexpriceClient(prices, units)
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.PriceRepo.Clear()
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetFlexprice returns the billing API mock shared with the stores
func (s *BaseServiceTestSuite) GetFlexprice() *MockFlexpriceClient {
	return s.flexprice
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetMetrics() *metrics.Metrics {
	return s.metrics
}

func (s *BaseServiceTestSuite) GetSentry() *sentry.Service {
	return s.sentry
}

func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}

func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
