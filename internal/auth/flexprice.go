package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/flexprice/console/internal/config"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/types"
	"github.com/golang-jwt/jwt/v4"
)

type flexpriceAuth struct {
	AuthConfig config.AuthConfig
}

func NewFlexpriceAuth(cfg *config.Configuration) *flexpriceAuth {
	return &flexpriceAuth{
		AuthConfig: cfg.Auth,
	}
}

func (f *flexpriceAuth) ValidateToken(ctx context.Context, token string) (*Claims, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ierr.NewError("unexpected signing method").
				WithHint(fmt.Sprintf("unexpected signing method: %v", token.Header["alg"])).
				Mark(ierr.ErrUnauthorized)
		}
		return []byte(f.AuthConfig.Secret), nil
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Your session is invalid or has expired").
			Mark(ierr.ErrUnauthorized)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, ierr.NewError("invalid token claims").
			WithHint("Invalid token claims").
			Mark(ierr.ErrUnauthorized)
	}

	if f.AuthConfig.Issuer != "" && !claims.VerifyIssuer(f.AuthConfig.Issuer, true) {
		return nil, ierr.NewError("unexpected token issuer").
			WithHint("Invalid token issuer").
			Mark(ierr.ErrUnauthorized)
	}

	userID, userOk := claims["user_id"].(string)
	if !userOk || userID == "" {
		return nil, ierr.NewError("token missing user ID").
			WithHint("Token missing user ID").
			Mark(ierr.ErrUnauthorized)
	}

	tenantID, tenantOk := claims["tenant_id"].(string)
	if !tenantOk || tenantID == "" {
		tenantID = types.DefaultTenantID
	}

	return &Claims{UserID: userID, TenantID: tenantID}, nil
}

// GenerateToken signs a session token, the billing API issues the real ones
func (f *flexpriceAuth) GenerateToken(c Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":   c.UserID,
		"tenant_id": c.TenantID,
		"exp":       now.Add(ttl).Unix(),
		"iat":       now.Unix(),
	}
	if f.AuthConfig.Issuer != "" {
		claims["iss"] = f.AuthConfig.Issuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(f.AuthConfig.Secret))
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to generate token").
			Mark(ierr.ErrSystem)
	}
	return signed, nil
}
