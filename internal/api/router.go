package api

import (
	v1 "github.com/flexprice/console/internal/api/v1"
	"github.com/flexprice/console/internal/config"
	"github.com/flexprice/console/internal/logger"
	"github.com/flexprice/console/internal/metrics"
	"github.com/flexprice/console/internal/rest/middleware"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health *v1.HealthHandler
	Price  *v1.PriceHandler
	Draft  *v1.DraftHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger, m *metrics.Metrics) *gin.Engine {
	router := gin.New()

	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.MetricsMiddleware(m),
		middleware.PyroscopeMiddleware(cfg),
		middleware.ErrorHandler(logger),
	)

	// Public routes
	router.GET("/health", handlers.Health.Health)
	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	v1Private := router.Group("/v1")
	v1Private.Use(middleware.AuthenticateMiddleware(cfg, logger))
	v1Private.Use(middleware.SentryScopeMiddleware)

	prices := v1Private.Group("/prices")
	{
		prices.POST("/preview", handlers.Price.PreviewPrices)
	}

	drafts := v1Private.Group("/drafts")
	{
		drafts.POST("", handlers.Draft.CreateDraft)
		drafts.GET("/:id", handlers.Draft.GetDraft)
		drafts.DELETE("/:id", handlers.Draft.DiscardDraft)

		drafts.PUT("/:id/overrides/:price_id", handlers.Draft.SetPriceOverride)
		drafts.DELETE("/:id/overrides/:price_id", handlers.Draft.RemovePriceOverride)
		drafts.GET("/:id/line_item_overrides", handlers.Draft.GetLineItemOverrides)

		drafts.POST("/:id/credit_grants", handlers.Draft.AddCreditGrant)
		drafts.DELETE("/:id/credit_grants/:grant_id", handlers.Draft.RemoveCreditGrant)
		drafts.POST("/:id/addons", handlers.Draft.AddAddon)
		drafts.DELETE("/:id/addons/:addon_id", handlers.Draft.RemoveAddon)
		drafts.POST("/:id/coupons", handlers.Draft.AddCoupon)
		drafts.DELETE("/:id/coupons/:coupon_id", handlers.Draft.RemoveCoupon)

		drafts.POST("/:id/submit", handlers.Draft.SubmitDraft)
	}

	return router
}
