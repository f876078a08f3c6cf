// Package setup is responsible for setting up components.
package setup

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/recetas-abuela/backend/internal/argon2id"
	"github.com/recetas-abuela/backend/internal/config"
	"github.com/recetas-abuela/backend/internal/database"
	"github.com/recetas-abuela/backend/internal/email"
	"github.com/recetas-abuela/backend/internal/env"
	"github.com/recetas-abuela/backend/internal/imagestore"
	"github.com/recetas-abuela/backend/internal/password"
)

// Database creates a connection pool from the database configuration and
// ensures the schema exists.
func Database(ctx context.Context, conf config.Config) (*database.Database, error) {
	dbConf := conf.Database
	if dbConf.Host == "" || dbConf.Database == "" || dbConf.User == "" {
		return nil, errors.New("database host, name and user must be configured")
	}

	dbString := fmt.Sprintf("postgresql://%s:%s@%s:%d/%s",
		dbConf.User, dbConf.Password, dbConf.Host, dbConf.Port, dbConf.Database)

	pool, err := pgxpool.New(ctx, dbString)
	if err != nil {
		return nil, fmt.Errorf("creating database pool: %w", err)
	}

	db := database.New(pool)
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	return db, nil
}

// ImageStore creates the object store client and ensures the bucket exists.
// Returns nil when object storage is not configured.
func ImageStore(ctx context.Context, conf config.Config) (*imagestore.Store, error) {
	if !conf.ImageStore.Enabled() {
		return nil, nil
	}

	store, err := imagestore.New(imagestore.Config{
		Endpoint:     conf.ImageStore.Endpoint,
		AccessKey:    conf.ImageStore.AccessKey,
		SecretKey:    conf.ImageStore.SecretKey,
		Bucket:       conf.ImageStore.Bucket,
		PublicURL:    conf.ImageStore.PublicURL,
		UseSSL:       conf.ImageStore.UseSSL,
		MirrorRemote: conf.ImageStore.MirrorRemote,
	})
	if err != nil {
		return nil, fmt.Errorf("creating image store: %w", err)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensuring image bucket: %w", err)
	}

	return store, nil
}

// SMTP creates a new SMTP sender from the configuration. Returns nil when
// SMTP is not configured.
func SMTP(conf config.Config) email.Sender {
	if !conf.SMTP.Enabled() {
		return nil
	}

	return email.NewSMTPSender(email.Config{
		Host:     conf.SMTP.Host,
		Port:     int(conf.SMTP.Port),
		Username: conf.SMTP.Username,
		Password: conf.SMTP.Password,
		From:     conf.SMTP.From,
	})
}

// Admin sets up an admin user if one does not exist. Requires env.Database.
func Admin(ctx context.Context, environment *env.Env) error {
	adminEmail := environment.Config.Admin.Email
	adminPassword := string(environment.Config.Admin.Password)
	if adminEmail == "" || adminPassword == "" {
		environment.Logger.Info("admin email and password not configured, skipping admin setup")
		return nil
	}

	// Validate email and password
	if _, err := mail.ParseAddress(adminEmail); err != nil {
		return fmt.Errorf("parsing admin email: %w", err)
	}
	if err := password.ValidatePassword(adminPassword); err != nil {
		return fmt.Errorf("validating admin password: %w", err)
	}

	// Check whether the admin user already exists
	_, err := environment.Database.GetUserByEmail(ctx, adminEmail)
	if err == nil {
		environment.Logger.Info("admin already setup, skipping setup")
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("looking up admin user: %w", err)
	}

	hashedPassword, err := argon2id.EncodeHash(adminPassword, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if _, err := environment.Database.CreateUser(ctx, adminEmail, hashedPassword); err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	environment.Logger.Info("successfully setup admin!")

	return nil
}
