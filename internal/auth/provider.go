package auth

import (
	"context"
	"time"

	"github.com/flexprice/console/internal/config"
)

// Claims identify the console user a request runs as
type Claims struct {
	UserID   string
	TenantID string
}

// Provider validates the session tokens the console frontend sends
type Provider interface {
	ValidateToken(ctx context.Context, token string) (*Claims, error)
	GenerateToken(claims Claims, ttl time.Duration) (string, error)
}

func NewProvider(cfg *config.Configuration) Provider {
	return NewFlexpriceAuth(cfg)
}
