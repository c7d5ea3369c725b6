package auth

import (
	"context"
	"testing"
	"time"

	"github.com/flexprice/console/internal/config"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvider(secret, issuer string) Provider {
	cfg := config.GetDefaultConfig()
	cfg.Auth.Enabled = true
	cfg.Auth.Secret = secret
	cfg.Auth.Issuer = issuer
	return NewProvider(cfg)
}

func TestValidateToken(t *testing.T) {
	ctx := context.Background()
	p := newProvider("test-secret", "flexprice")

	token, err := p.GenerateToken(Claims{UserID: "user_1", TenantID: "tenant_1"}, time.Hour)
	require.NoError(t, err)

	claims, err := p.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user_1", claims.UserID)
	assert.Equal(t, "tenant_1", claims.TenantID)

	noTenant, err := p.GenerateToken(Claims{UserID: "user_1"}, time.Hour)
	require.NoError(t, err)
	claims, err = p.ValidateToken(ctx, noTenant)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultTenantID, claims.TenantID)
}

func TestValidateToken_Rejected(t *testing.T) {
	ctx := context.Background()
	p := newProvider("test-secret", "flexprice")

	expired, err := p.GenerateToken(Claims{UserID: "user_1"}, -time.Minute)
	require.NoError(t, err)
	otherSecret, err := newProvider("other-secret", "flexprice").GenerateToken(Claims{UserID: "user_1"}, time.Hour)
	require.NoError(t, err)
	otherIssuer, err := newProvider("test-secret", "someone-else").GenerateToken(Claims{UserID: "user_1"}, time.Hour)
	require.NoError(t, err)
	noUser, err := p.GenerateToken(Claims{TenantID: "tenant_1"}, time.Hour)
	require.NoError(t, err)

	tests := map[string]string{
		"expired":      expired,
		"other secret": otherSecret,
		"other issuer": otherIssuer,
		"no user":      noUser,
		"garbage":      "not-a-token",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := p.ValidateToken(ctx, token)
			require.Error(t, err)
			assert.True(t, ierr.IsUnauthorized(err))
		})
	}
}
