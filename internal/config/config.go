// Package config contains utilities for loading configs
package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/go-playground/validator/v10"
	"github.com/recetas-abuela/backend/internal/password"
)

const (
	configFilePath     = "/data/recetas.yaml"
	appSecretBytes     = 32
	appSecretFilePerms = 0o600
)

const (
	EnvProd = "PROD"
	EnvDev  = "DEV"
)

const (
	defaultPort       = 5001
	defaultSecretPath = "/data/secret"
)

type AdminPassword string

func (a AdminPassword) Validate() error {
	return password.ValidatePassword(string(a))
}

type AppSecretValue string

func (a *AppSecretValue) Validate() error {
	if a == nil {
		return errors.New("secret should not be nil")
	}
	if len([]byte(*a)) < appSecretBytes {
		return errors.New("secret should be at least 32 bytes")
	}
	return nil
}

func splitFieldList(param string) []string {
	// "A,B,C" or "A B C"
	param = strings.ReplaceAll(param, " ", ",")
	parts := strings.Split(param, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// allOrNothing enforces that the fields listed in the tag parameter are
// either all zero-valued or all set. Mixed states fail validation. It must
// be attached to a placeholder field and inspects the parent struct.
func allOrNothing(fl validator.FieldLevel) bool {
	parent := fl.Parent()
	if parent.Kind() == reflect.Pointer {
		if parent.IsNil() {
			return true // nothing to validate
		}
		parent = parent.Elem()
	}
	if parent.Kind() != reflect.Struct {
		return false
	}

	names := splitFieldList(fl.Param())
	if len(names) == 0 {
		return false
	}

	hasZero := false
	hasNonZero := false

	for _, name := range names {
		f := parent.FieldByName(name)
		if !f.IsValid() {
			return false // field name typo / not found
		}

		for (f.Kind() == reflect.Pointer || f.Kind() == reflect.Interface) && !f.IsNil() {
			f = f.Elem()
		}

		if f.IsZero() {
			hasZero = true
		} else {
			hasNonZero = true
		}

		if hasZero && hasNonZero {
			return false
		}
	}

	return true
}

func registerAllOrNothing(v *validator.Validate) {
	_ = v.RegisterValidation("allOrNothing", allOrNothing)
}

type fieldValidator interface {
	Validate() error
}

// validateFn dispatches to the field type's own Validate method.
func validateFn(fl validator.FieldLevel) bool {
	f := fl.Field()
	if v, ok := f.Interface().(fieldValidator); ok {
		return v.Validate() == nil
	}
	if f.CanAddr() {
		if v, ok := f.Addr().Interface().(fieldValidator); ok {
			return v.Validate() == nil
		}
	}
	return false
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	registerAllOrNothing(v)
	_ = v.RegisterValidation("validateFn", validateFn)
	return v
}

type AppSecret struct {
	Value   *AppSecretValue `yaml:"value" validate:"omitempty,validateFn"`
	Path    string          `yaml:"path" validate:"omitempty,filepath"`
	Version string          `yaml:"version"`
}

type Database struct {
	Port     uint16 `yaml:"port"`
	Host     string `yaml:"host" validate:"omitempty,hostname_rfc1123"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=Port Host Database User Password"`
}

// ImageStore configures the optional S3-compatible object store that inline
// recipe images are offloaded to. MirrorRemote additionally re-hosts images
// submitted as http(s) URLs.
type ImageStore struct {
	Endpoint     string `yaml:"endpoint"`
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	Bucket       string `yaml:"bucket"`
	PublicURL    string `yaml:"public_url" validate:"omitempty,url"`
	UseSSL       bool   `yaml:"use_ssl"`
	MirrorRemote bool   `yaml:"mirror_remote"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=Endpoint AccessKey SecretKey Bucket"`
}

func (i ImageStore) Enabled() bool {
	return i.Endpoint != ""
}

type SMTP struct {
	Port     uint16 `yaml:"port"`
	Username string `yaml:"username"`
	Host     string `yaml:"host" validate:"omitempty,hostname_rfc1123"`
	Password string `yaml:"password"`
	From     string `yaml:"from" validate:"omitempty,email"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=From Password Host Username Port"`
}

func (s SMTP) Enabled() bool {
	return s.Host != ""
}

type Admin struct {
	Email    string        `yaml:"email" validate:"omitempty,email"`
	Password AdminPassword `yaml:"password" validate:"omitempty,validateFn"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=Email Password"`
}

type Config struct {
	AppSecret  AppSecret  `yaml:"app_secret"`
	SMTP       SMTP       `yaml:"smtp"`
	Admin      Admin      `yaml:"admin"`
	ImageStore ImageStore `yaml:"image_store"`
	Database   Database   `yaml:"database"`
	HostOrigin string     `yaml:"host_origin" validate:"url"`
	Env        string     `yaml:"env" validate:"omitempty,oneof=DEV PROD"`
	Port       uint16     `yaml:"port"`
}

func newAppSecret() (string, error) {
	token := make([]byte, appSecretBytes)
	if _, err := rand.Reader.Read(token); err != nil {
		return "", fmt.Errorf("creating app secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(token), nil
}

func loadAppSecret(config *Config) error {
	if config.AppSecret.Value != nil {
		return nil
	}

	var secret string
	if f1, err := os.Lstat(config.AppSecret.Path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking secret path: %w", err)
		}

		file, err := os.OpenFile(config.AppSecret.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, appSecretFilePerms)
		if err != nil {
			return fmt.Errorf("creating secret file: %w", err)
		}
		defer func() { _ = file.Close() }()

		secret, err = newAppSecret()
		if err != nil {
			return fmt.Errorf("generating new app secret: %w", err)
		}

		if _, err := file.WriteString(secret); err != nil {
			return fmt.Errorf("writing secret file: %w", err)
		}
	} else {
		if f1.IsDir() {
			return fmt.Errorf("expected file, got directory at %q", config.AppSecret.Path)
		}
		data, err := os.ReadFile(config.AppSecret.Path)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		secret = string(data)
	}
	val := AppSecretValue(secret)
	config.AppSecret.Value = &val
	return nil
}

func loadWithDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func loadConfigFromEnv() (Config, error) {
	conf := Config{
		Env:        loadWithDefault("ENV", EnvDev),
		HostOrigin: loadWithDefault("HOST_ORIGIN", "http://localhost:5001"),
	}

	port := loadWithDefault("PORT", strconv.Itoa(defaultPort))
	if p, err := strconv.ParseUint(port, 10, 16); err != nil {
		return conf, fmt.Errorf("invalid PORT (%q): %w", port, err)
	} else {
		conf.Port = uint16(p)
	}

	// AppSecret
	conf.AppSecret = AppSecret{
		Path:    loadWithDefault("APP_SECRET_PATH", defaultSecretPath),
		Version: loadWithDefault("APP_SECRET_VERSION", "1"),
	}
	if v := os.Getenv("APP_SECRET"); v != "" {
		val := AppSecretValue(v)
		conf.AppSecret.Value = &val
	}

	// Database
	conf.Database = Database{
		Host:     loadWithDefault("DATABASE_HOST", "localhost"),
		Database: loadWithDefault("DATABASE", ""),
		User:     loadWithDefault("DATABASE_USER", ""),
		Password: loadWithDefault("DATABASE_PASSWORD", ""),
	}
	databasePort := loadWithDefault("DATABASE_PORT", "5432")
	if p, err := strconv.ParseUint(databasePort, 10, 16); err != nil {
		return conf, fmt.Errorf("invalid DATABASE_PORT (%q): %w", databasePort, err)
	} else {
		conf.Database.Port = uint16(p)
	}

	// Image store
	conf.ImageStore = ImageStore{
		Endpoint:  loadWithDefault("IMAGE_STORE_ENDPOINT", ""),
		AccessKey: loadWithDefault("IMAGE_STORE_ACCESS_KEY", ""),
		SecretKey: loadWithDefault("IMAGE_STORE_SECRET_KEY", ""),
		Bucket:    loadWithDefault("IMAGE_STORE_BUCKET", ""),
		PublicURL: loadWithDefault("IMAGE_STORE_PUBLIC_URL", ""),
	}
	if b, err := strconv.ParseBool(loadWithDefault("IMAGE_STORE_USE_SSL", "false")); err != nil {
		return conf, fmt.Errorf("invalid IMAGE_STORE_USE_SSL: %w", err)
	} else {
		conf.ImageStore.UseSSL = b
	}
	if b, err := strconv.ParseBool(loadWithDefault("IMAGE_STORE_MIRROR_REMOTE", "false")); err != nil {
		return conf, fmt.Errorf("invalid IMAGE_STORE_MIRROR_REMOTE: %w", err)
	} else {
		conf.ImageStore.MirrorRemote = b
	}

	// SMTP
	conf.SMTP = SMTP{
		Username: loadWithDefault("SMTP_USERNAME", ""),
		Host:     loadWithDefault("SMTP_HOST", ""),
		Password: loadWithDefault("SMTP_PASSWORD", ""),
		From:     loadWithDefault("SMTP_FROM", ""),
	}
	// Only set SMTP_PORT default if SMTP is being configured
	smtpPort := loadWithDefault("SMTP_PORT", "")
	if smtpPort == "" && conf.SMTP.Enabled() {
		smtpPort = "587"
	}
	if smtpPort != "" {
		if p, err := strconv.ParseUint(smtpPort, 10, 16); err != nil {
			return conf, fmt.Errorf("invalid SMTP_PORT (%q): %w", smtpPort, err)
		} else {
			conf.SMTP.Port = uint16(p)
		}
	}

	// Admin
	conf.Admin = Admin{
		Email:    loadWithDefault("ADMIN_EMAIL", ""),
		Password: AdminPassword(loadWithDefault("ADMIN_PASSWORD", "")),
	}

	if err := newValidator().Struct(conf); err != nil {
		return conf, err
	}

	if err := loadAppSecret(&conf); err != nil {
		return conf, fmt.Errorf("loading app secret: %w", err)
	}

	return conf, nil
}

func loadConfigFromFile(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(contents, &config); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Set defaults
	if config.AppSecret.Path == "" {
		config.AppSecret.Path = defaultSecretPath
	}
	if config.AppSecret.Version == "" {
		config.AppSecret.Version = "1"
	}
	if config.Env == "" {
		config.Env = EnvDev
	}
	if config.Port == 0 {
		config.Port = defaultPort
	}
	if config.HostOrigin == "" {
		config.HostOrigin = "http://localhost:5001"
	}
	if config.Database.Host == "" {
		config.Database.Host = "localhost"
	}
	if config.Database.Port == 0 {
		config.Database.Port = 5432
	}
	// Only set SMTP.Port default if SMTP is being configured
	if config.SMTP.Port == 0 && config.SMTP.Enabled() {
		config.SMTP.Port = 587
	}

	if err := newValidator().Struct(config); err != nil {
		return Config{}, err
	}

	if err := loadAppSecret(&config); err != nil {
		return Config{}, fmt.Errorf("loading app secret: %w", err)
	}

	return config, nil
}

func configFileExists(path string) bool {
	f, err := os.Lstat(path)
	if err != nil {
		return false
	}

	return !f.IsDir()
}

func LoadConfig() (Config, error) {
	if configFileExists(configFilePath) {
		return loadConfigFromFile(configFilePath)
	}

	return loadConfigFromEnv()
}
