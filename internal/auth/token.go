// Package auth issues and verifies the HS256 bearer tokens used by the HTTP API.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/goalplay-inventory/internal/errs"
	"github.com/and161185/goalplay-inventory/internal/model"
)

// Leeway tolerated on exp/nbf/iat checks.
const Leeway = 30 * time.Second

// Claims is the token payload: sub carries the user id.
type Claims struct {
	jwt.RegisteredClaims
	Wallet string `json:"wallet,omitempty"`
	Chain  string `json:"chain,omitempty"`
}

// Parse verifies an HS256 token and returns the identity it asserts.
// Any failure is reported as errs.ErrUnauthorized wrapping the cause.
func Parse(token string, key []byte) (model.Identity, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	}, jwt.WithLeeway(Leeway))
	if err != nil || !parsed.Valid {
		return model.Identity{}, fmt.Errorf("%w: invalid token", errs.ErrUnauthorized)
	}

	id, err := uuid.FromString(claims.Subject)
	if err != nil || id == uuid.Nil {
		return model.Identity{}, fmt.Errorf("%w: bad subject", errs.ErrUnauthorized)
	}
	return model.Identity{UserID: id, Wallet: claims.Wallet, Chain: claims.Chain}, nil
}

// Issue signs a token for identity valid for ttl.
func Issue(identity model.Identity, key []byte, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Wallet: identity.Wallet,
		Chain:  identity.Chain,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	return signed, exp, err
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	v := strings.TrimSpace(header)
	if len(v) >= 7 && strings.EqualFold(v[:7], "bearer ") {
		if t := strings.TrimSpace(v[7:]); t != "" {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: no bearer token", errs.ErrUnauthorized)
}
