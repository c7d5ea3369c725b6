package middleware

import (
	"time"

	"github.com/flexprice/console/internal/config"
	"github.com/flexprice/console/internal/types"
	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// SentryMiddleware captures panics and attaches a hub to the request context
func SentryMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	if !cfg.Sentry.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// SentryScopeMiddleware tags the request's hub with the console session,
// it runs after authentication
func SentryScopeMiddleware(c *gin.Context) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		ctx := c.Request.Context()
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetTag("tenant_id", types.GetTenantID(ctx))
			scope.SetTag("environment_id", types.GetEnvironmentID(ctx))
			scope.SetUser(sentry.User{ID: types.GetUserID(ctx)})
		})
		c.Request = c.Request.WithContext(sentry.SetHubOnContext(ctx, hub))
	}
	c.Next()
}
