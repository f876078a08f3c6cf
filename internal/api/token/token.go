// Package token contains utilities for bearer tokens and the verified
// identity they carry.
package token

import (
	"context"
	"errors"
	"strconv"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/recetas-abuela/backend/internal/env"
	"github.com/recetas-abuela/backend/internal/jwt"
)

const bearerPrefix = "Bearer "

var (
	ErrNoIdentity       = errors.New("no identity in context")
	ErrNotBearer        = errors.New("authorization header is not a bearer token")
	ErrMissingAppSecret = errors.New("app secret not configured")
)

// Identity is the verified token payload attached to authorized requests.
type Identity struct {
	UserID int64
	Email  string
}

type identityKeyType struct{}

var identityKey identityKeyType

func IdentityWithCtx(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromCtx(ctx context.Context) (Identity, error) {
	if id, ok := ctx.Value(identityKey).(Identity); ok {
		return id, nil
	}
	return Identity{}, ErrNoIdentity
}

// FromAuthorizationHeader strips the bearer prefix from an Authorization
// header value.
func FromAuthorizationHeader(header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrNotBearer
	}
	return strings.TrimPrefix(header, bearerPrefix), nil
}

// NewAccessToken issues a signed token for the given identity using the
// configured app secret.
func NewAccessToken(params jwt.JWTParams, e *env.Env) (string, error) {
	if e.Config.AppSecret.Value == nil {
		return "", ErrMissingAppSecret
	}
	return jwt.GenerateJWT(params, []byte(*e.Config.AppSecret.Value), e.Config.AppSecret.Version)
}

// ValidateAccessToken verifies a raw token against the configured app secret
// and extracts the identity claims.
func ValidateAccessToken(rawToken string, e *env.Env) (Identity, error) {
	if e.Config.AppSecret.Value == nil {
		return Identity{}, ErrMissingAppSecret
	}

	parsed, err := jwt.ValidateJWT(rawToken, e.Config.AppSecret.Version, []byte(*e.Config.AppSecret.Value))
	if err != nil {
		return Identity{}, err
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return Identity{}, err
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return Identity{}, err
	}

	var email string
	if claims, ok := parsed.Claims.(jwtlib.MapClaims); ok {
		email, _ = claims["email"].(string)
	}

	return Identity{UserID: userID, Email: email}, nil
}
