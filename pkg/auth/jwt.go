// Package auth guards the operator endpoints of the bridge API with HS256
// bearer tokens.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/chainsafe/cascoin-bridge/pkg/app/errors"
	apphttp "github.com/chainsafe/cascoin-bridge/pkg/app/http"
)

var ErrNotConfigured = errors.New("admin token secret not configured")

// JWTValidator validates operator tokens signed with a shared secret
type JWTValidator struct {
	secret []byte
	issuer string
}

// NewJWTValidator creates a validator. An empty secret rejects every token.
func NewJWTValidator(secret, issuer string) *JWTValidator {
	return &JWTValidator{secret: []byte(secret), issuer: issuer}
}

// IsConfigured reports whether a secret is set
func (v *JWTValidator) IsConfigured() bool {
	return len(v.secret) > 0
}

// ValidateToken checks the signature, expiry and issuer and returns the claims
func (v *JWTValidator) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	if !v.IsConfigured() {
		return nil, ErrNotConfigured
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	token, err := jwt.Parse(tokenString, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims type")
	}
	return claims, nil
}

// Issue signs a token for subject, valid for ttl
func (v *JWTValidator) Issue(subject string, ttl time.Duration) (string, error) {
	if !v.IsConfigured() {
		return "", ErrNotConfigured
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	if v.issuer != "" {
		claims.Issuer = v.issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Middleware rejects requests without a valid bearer token and stores the
// token subject in the request context
func (v *JWTValidator) Middleware(next http.Handler) http.Handler {
	return apphttp.HandleError(func(w http.ResponseWriter, r *http.Request) error {
		raw, ok := bearerToken(r)
		if !ok {
			return apperrors.UnAuthorizedError(nil, "bearer token required")
		}
		claims, err := v.ValidateToken(raw)
		if err != nil {
			return apperrors.UnAuthorizedError(err, "invalid token")
		}
		subject, _ := claims.GetSubject()
		next.ServeHTTP(w, r.WithContext(WithOperator(r.Context(), subject)))
		return nil
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
