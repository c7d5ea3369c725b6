package middleware

import (
	"context"
	"strings"

	"github.com/flexprice/console/internal/auth"
	"github.com/flexprice/console/internal/config"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/logger"
	"github.com/flexprice/console/internal/types"
	"github.com/gin-gonic/gin"
)

// GuestAuthenticateMiddleware runs every request as the default tenant and user
func GuestAuthenticateMiddleware(c *gin.Context) {
	ctx := c.Request.Context()
	ctx = context.WithValue(ctx, types.CtxTenantID, types.DefaultTenantID)
	ctx = context.WithValue(ctx, types.CtxUserID, types.DefaultUserID)
	c.Request = c.Request.WithContext(withEnvironment(c, ctx))
	c.Next()
}

// AuthenticateMiddleware validates the console session token sent as a
// Bearer token and sets the user, tenant and environment in the request context.
// With auth disabled it falls back to guest mode.
func AuthenticateMiddleware(cfg *config.Configuration, logger *logger.Logger) gin.HandlerFunc {
	if !cfg.Auth.Enabled {
		logger.Warnw("console auth is disabled, requests run as the default tenant")
		return GuestAuthenticateMiddleware
	}

	authProvider := auth.NewProvider(cfg)

	return func(c *gin.Context) {
		authHeader := c.GetHeader(types.HeaderAuthorization)
		if authHeader == "" {
			abortUnauthorized(c, ierr.NewError("missing authorization header").
				WithHint("Please sign in to continue").
				Mark(ierr.ErrUnauthorized))
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, ierr.NewError("invalid authorization header format").
				WithHint("Invalid authorization header format").
				Mark(ierr.ErrUnauthorized))
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := authProvider.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Debugw("failed to validate token", "error", err)
			abortUnauthorized(c, err)
			return
		}

		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, types.CtxUserID, claims.UserID)
		ctx = context.WithValue(ctx, types.CtxTenantID, claims.TenantID)
		c.Request = c.Request.WithContext(withEnvironment(c, ctx))
		c.Next()
	}
}

// withEnvironment copies the environment header, drafts and billing API
// calls are scoped by it
func withEnvironment(c *gin.Context, ctx context.Context) context.Context {
	if environmentID := c.GetHeader(types.HeaderEnvironment); environmentID != "" {
		return context.WithValue(ctx, types.CtxEnvironmentID, environmentID)
	}
	return ctx
}

func abortUnauthorized(c *gin.Context, err error) {
	c.AbortWithStatusJSON(ierr.HTTPStatusFromErr(err), ierr.NewErrorResponse(err))
}
