package config

import (
	"os"
	"path/filepath"
	"testing"
)

func secretPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "secret")
}

func TestLoadConfigFromEnv(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(*testing.T)
		wantError bool
		validate  func(*testing.T, *Config)
	}{
		{
			name: "all defaults",
			setup: func(t *testing.T) {
				t.Setenv("DATABASE_USER", "testuser")
				t.Setenv("DATABASE_PASSWORD", "testpass")
				t.Setenv("DATABASE", "testdb")
				t.Setenv("APP_SECRET_PATH", secretPath(t))
			},
			wantError: false,
			validate: func(t *testing.T, c *Config) {
				if c.Env != EnvDev {
					t.Errorf("expected Env %q, got %q", EnvDev, c.Env)
				}
				if c.Port != 5001 {
					t.Errorf("expected Port 5001, got %d", c.Port)
				}
				if c.HostOrigin != "http://localhost:5001" {
					t.Errorf("expected HostOrigin %q, got %q", "http://localhost:5001", c.HostOrigin)
				}
				if c.AppSecret.Version != "1" {
					t.Errorf("expected AppSecret.Version %q, got %q", "1", c.AppSecret.Version)
				}
				if c.Database.Port != 5432 {
					t.Errorf("expected Database.Port 5432, got %d", c.Database.Port)
				}
				if c.Database.Host != "localhost" {
					t.Errorf("expected Database.Host %q, got %q", "localhost", c.Database.Host)
				}
				if c.Database.Database != "testdb" {
					t.Errorf("expected Database.Database %q, got %q", "testdb", c.Database.Database)
				}
				if c.SMTP.Enabled() {
					t.Error("expected SMTP to be disabled")
				}
				if c.ImageStore.Enabled() {
					t.Error("expected image store to be disabled")
				}
				// AppSecret.Value should be set by loadAppSecret
				if c.AppSecret.Value == nil {
					t.Error("expected AppSecret.Value to be set, got nil")
				}
			},
		},
		{
			name: "custom environment values",
			setup: func(t *testing.T) {
				t.Setenv("ENV", "PROD")
				t.Setenv("PORT", "8080")
				t.Setenv("HOST_ORIGIN", "https://example.com")
				t.Setenv("APP_SECRET", "this-is-a-very-long-secret-key-with-more-than-32-bytes")
				t.Setenv("APP_SECRET_VERSION", "2")
				t.Setenv("DATABASE_USER", "customuser")
				t.Setenv("DATABASE_PASSWORD", "custompass")
				t.Setenv("DATABASE", "customdb")
				t.Setenv("DATABASE_HOST", "db.example.com")
				t.Setenv("DATABASE_PORT", "5433")
				t.Setenv("SMTP_HOST", "smtp.example.com")
				t.Setenv("SMTP_PORT", "465")
				t.Setenv("SMTP_USERNAME", "user@example.com")
				t.Setenv("SMTP_PASSWORD", "smtppass")
				t.Setenv("SMTP_FROM", "noreply@example.com")
				t.Setenv("IMAGE_STORE_ENDPOINT", "minio.example.com:9000")
				t.Setenv("IMAGE_STORE_ACCESS_KEY", "access")
				t.Setenv("IMAGE_STORE_SECRET_KEY", "secret")
				t.Setenv("IMAGE_STORE_BUCKET", "recipe-images")
				t.Setenv("IMAGE_STORE_USE_SSL", "true")
			},
			wantError: false,
			validate: func(t *testing.T, c *Config) {
				if c.Env != EnvProd {
					t.Errorf("expected Env %q, got %q", EnvProd, c.Env)
				}
				if c.Port != 8080 {
					t.Errorf("expected Port 8080, got %d", c.Port)
				}
				if c.AppSecret.Value == nil || string(*c.AppSecret.Value) != "this-is-a-very-long-secret-key-with-more-than-32-bytes" {
					t.Error("expected AppSecret.Value from APP_SECRET")
				}
				if c.AppSecret.Version != "2" {
					t.Errorf("expected AppSecret.Version %q, got %q", "2", c.AppSecret.Version)
				}
				if c.Database.Port != 5433 {
					t.Errorf("expected Database.Port 5433, got %d", c.Database.Port)
				}
				if !c.SMTP.Enabled() || c.SMTP.Port != 465 {
					t.Errorf("expected SMTP enabled on port 465, got %+v", c.SMTP)
				}
				if !c.ImageStore.Enabled() || !c.ImageStore.UseSSL {
					t.Errorf("expected image store enabled with SSL, got %+v", c.ImageStore)
				}
			},
		},
		{
			name: "smtp port defaults when smtp configured",
			setup: func(t *testing.T) {
				t.Setenv("DATABASE_USER", "testuser")
				t.Setenv("DATABASE_PASSWORD", "testpass")
				t.Setenv("DATABASE", "testdb")
				t.Setenv("APP_SECRET_PATH", secretPath(t))
				t.Setenv("SMTP_HOST", "smtp.example.com")
				t.Setenv("SMTP_USERNAME", "user@example.com")
				t.Setenv("SMTP_PASSWORD", "smtppass")
				t.Setenv("SMTP_FROM", "noreply@example.com")
			},
			wantError: false,
			validate: func(t *testing.T, c *Config) {
				if c.SMTP.Port != 587 {
					t.Errorf("expected SMTP.Port 587, got %d", c.SMTP.Port)
				}
			},
		},
		{
			name: "invalid port",
			setup: func(t *testing.T) {
				t.Setenv("PORT", "not-a-port")
				t.Setenv("DATABASE_USER", "testuser")
				t.Setenv("DATABASE_PASSWORD", "testpass")
				t.Setenv("DATABASE", "testdb")
			},
			wantError: true,
		},
		{
			name: "short app secret",
			setup: func(t *testing.T) {
				t.Setenv("APP_SECRET", "too-short")
				t.Setenv("DATABASE_USER", "testuser")
				t.Setenv("DATABASE_PASSWORD", "testpass")
				t.Setenv("DATABASE", "testdb")
			},
			wantError: true,
		},
		{
			name: "partial smtp configuration",
			setup: func(t *testing.T) {
				t.Setenv("DATABASE_USER", "testuser")
				t.Setenv("DATABASE_PASSWORD", "testpass")
				t.Setenv("DATABASE", "testdb")
				t.Setenv("SMTP_HOST", "smtp.example.com")
			},
			wantError: true,
		},
		{
			name: "partial image store configuration",
			setup: func(t *testing.T) {
				t.Setenv("DATABASE_USER", "testuser")
				t.Setenv("DATABASE_PASSWORD", "testpass")
				t.Setenv("DATABASE", "testdb")
				t.Setenv("IMAGE_STORE_ENDPOINT", "minio.example.com:9000")
			},
			wantError: true,
		},
		{
			name: "admin email without password",
			setup: func(t *testing.T) {
				t.Setenv("DATABASE_USER", "testuser")
				t.Setenv("DATABASE_PASSWORD", "testpass")
				t.Setenv("DATABASE", "testdb")
				t.Setenv("ADMIN_EMAIL", "admin@example.com")
			},
			wantError: true,
		},
		{
			name: "weak admin password",
			setup: func(t *testing.T) {
				t.Setenv("DATABASE_USER", "testuser")
				t.Setenv("DATABASE_PASSWORD", "testpass")
				t.Setenv("DATABASE", "testdb")
				t.Setenv("ADMIN_EMAIL", "admin@example.com")
				t.Setenv("ADMIN_PASSWORD", "weak")
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup(t)
			conf, err := loadConfigFromEnv()
			if tt.wantError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("loadConfigFromEnv: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, &conf)
			}
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recetas.yaml")
	contents := `
app_secret:
  path: ` + filepath.Join(dir, "secret") + `
database:
  host: db.example.com
  port: 5433
  database: recetas
  user: recetas
  password: recetas
host_origin: https://recetas.example.com
env: PROD
port: 8080
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	conf, err := loadConfigFromFile(path)
	if err != nil {
		t.Fatalf("loadConfigFromFile: %v", err)
	}

	if conf.Env != EnvProd {
		t.Errorf("expected Env %q, got %q", EnvProd, conf.Env)
	}
	if conf.Port != 8080 {
		t.Errorf("expected Port 8080, got %d", conf.Port)
	}
	if conf.Database.Host != "db.example.com" {
		t.Errorf("expected Database.Host %q, got %q", "db.example.com", conf.Database.Host)
	}
	if conf.AppSecret.Version != "1" {
		t.Errorf("expected defaulted AppSecret.Version %q, got %q", "1", conf.AppSecret.Version)
	}
	if conf.AppSecret.Value == nil {
		t.Error("expected AppSecret.Value to be generated")
	}
}

func TestLoadAppSecret_GeneratesAndRereads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")

	conf := Config{AppSecret: AppSecret{Path: path}}
	if err := loadAppSecret(&conf); err != nil {
		t.Fatalf("loadAppSecret: %v", err)
	}
	if conf.AppSecret.Value == nil {
		t.Fatal("expected generated secret")
	}
	first := string(*conf.AppSecret.Value)

	reread := Config{AppSecret: AppSecret{Path: path}}
	if err := loadAppSecret(&reread); err != nil {
		t.Fatalf("loadAppSecret reread: %v", err)
	}
	if string(*reread.AppSecret.Value) != first {
		t.Error("expected reread secret to match generated secret")
	}
}
