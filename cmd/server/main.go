package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/flexprice/console/internal/api"
	v1 "github.com/flexprice/console/internal/api/v1"
	"github.com/flexprice/console/internal/config"
	"github.com/flexprice/console/internal/flexprice"
	"github.com/flexprice/console/internal/httpclient"
	"github.com/flexprice/console/internal/logger"
	"github.com/flexprice/console/internal/metrics"
	"github.com/flexprice/console/internal/pyroscope"
	"github.com/flexprice/console/internal/repository"
	"github.com/flexprice/console/internal/sentry"
	"github.com/flexprice/console/internal/service"
	"github.com/flexprice/console/internal/types"
	"github.com/flexprice/console/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// @title Flexprice Console API
// @version 1.0
// @description Draft and override backend of the Flexprice web console
// @BasePath /v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the console session token in the format **Bearer &lt;token&gt;**

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Monitoring
			sentry.NewSentryService,
			pyroscope.NewPyroscopeService,
			metrics.NewMetrics,

			// Cache
			repository.NewCache,

			// Billing API
			provideHTTPClientConfig,
			httpclient.NewDefaultClient,
			flexprice.NewClient,

			// Repositories
			repository.NewPriceUnitRepository,
			repository.NewPriceRepository,
			repository.NewDraftRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			service.NewPriceOverrideService,
			service.NewDraftService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			sentry.RegisterHooks,
			pyroscope.RegisterHooks,
			waitForFlexprice,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHTTPClientConfig(cfg *config.Configuration) httpclient.ClientConfig {
	return httpclient.ClientConfig{
		Timeout:      cfg.Flexprice.Timeout,
		RetryMax:     cfg.Flexprice.RetryMax,
		RetryWaitMin: cfg.Flexprice.RetryWaitMin,
		RetryWaitMax: cfg.Flexprice.RetryWaitMax,
	}
}

func provideHandlers(
	logger *logger.Logger,
	flexpriceClient flexprice.Client,
	priceOverrideService service.PriceOverrideService,
	draftService service.DraftService,
) api.Handlers {
	return api.Handlers{
		Health: v1.NewHealthHandler(flexpriceClient, logger),
		Price:  v1.NewPriceHandler(priceOverrideService, logger),
		Draft:  v1.NewDraftHandler(draftService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger, m *metrics.Metrics) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewRouter(handlers, cfg, logger, m)
}

// waitForFlexprice probes the billing API once on startup. The console still
// starts when the API is down, every price read fails until it comes back.
func waitForFlexprice(lc fx.Lifecycle, client flexprice.Client, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := client.WaitUntilReady(context.Background()); err != nil {
					log.Warnw("flexprice API is not reachable", "error", err)
					return
				}
				log.Info("flexprice API is reachable")
			}()
			return nil
		},
	})
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	switch cfg.Deployment.Mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", cfg.Deployment.Mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
