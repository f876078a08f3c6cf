// Package env provides a structure for managing application-wide dependencies.
package env

import (
	"context"
	"log/slog"

	"github.com/recetas-abuela/backend/internal/config"
	"github.com/recetas-abuela/backend/internal/database"
	"github.com/recetas-abuela/backend/internal/email"
	"github.com/recetas-abuela/backend/internal/imagestore"
	"github.com/recetas-abuela/backend/internal/log"
)

type Env struct {
	Logger   *slog.Logger
	Database *database.Database
	Images   *imagestore.Store // nil when object storage is not configured
	SMTP     email.Sender      // nil when SMTP is not configured
	Config   config.Config
}

func New(logger *slog.Logger, db *database.Database, conf config.Config) *Env {
	if logger == nil {
		logger = log.NullLogger()
	}

	return &Env{
		Logger:   logger,
		Database: db,
		Config:   conf,
	}
}

type envKeyType struct{}

var envKey envKeyType

// WithCtx injects an Env into a context.
func WithCtx(ctx context.Context, e *Env) context.Context {
	return context.WithValue(ctx, envKey, e)
}

// EnvFromCtx extracts the Env from a context. A null Env is returned
// when none was injected so callers can always log.
func EnvFromCtx(ctx context.Context) *Env {
	if e, ok := ctx.Value(envKey).(*Env); ok {
		return e
	}
	return &Env{Logger: log.NullLogger()}
}
