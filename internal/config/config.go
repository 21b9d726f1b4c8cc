// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store drivers.
const (
	DriverSQLite    = "sqlite"
	DriverMySQL     = "mysql"
	DriverMongo     = "mongo"
	DriverFirestore = "firestore"
)

// Auth providers.
const (
	AuthFirebase = "firebase"
	AuthJWT      = "jwt"
	AuthNone     = "none"
)

// Upload modes.
const (
	UploadDisk   = "disk"
	UploadInline = "inline"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Env           string `env:"INFX_ENV" envDefault:"production"`
	ServerHost    string `env:"INFX_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"INFX_SERVER_PORT" envDefault:"8080"`
	SessionSecret string `env:"INFX_SESSION_SECRET,required"`

	LogLevel      string `env:"INFX_LOG_LEVEL" envDefault:"info"`
	LogFile       string `env:"INFX_LOG_FILE"`                          // Optional rotating log file
	LogMaxSizeMB  int    `env:"INFX_LOG_MAX_SIZE_MB" envDefault:"50"`   // Rotate after this many megabytes
	LogMaxBackups int    `env:"INFX_LOG_MAX_BACKUPS" envDefault:"5"`    // Rotated files to keep

	// Document store
	StoreDriver   string `env:"INFX_STORE_DRIVER" envDefault:"sqlite"`
	DBPath        string `env:"INFX_DB_PATH" envDefault:"./data/infinityx.db"`
	MySQLDSN      string `env:"INFX_MYSQL_DSN"`
	MongoURI      string `env:"INFX_MONGO_URI"`
	MongoDatabase string `env:"INFX_MONGO_DATABASE" envDefault:"infinityx"`

	// Firebase (Firestore backend and token verification)
	FirebaseProjectID       string `env:"INFX_FIREBASE_PROJECT_ID"`
	FirebaseClientEmail     string `env:"INFX_FIREBASE_CLIENT_EMAIL"`
	FirebasePrivateKey      string `env:"INFX_FIREBASE_PRIVATE_KEY"`
	FirebaseCredentialsFile string `env:"INFX_FIREBASE_CREDENTIALS_FILE"`

	// Authentication
	AuthProvider     string        `env:"INFX_AUTH_PROVIDER"` // firebase, jwt or none; empty picks from what is configured
	JWTSecret        string        `env:"INFX_JWT_SECRET"`
	JWTIssuer        string        `env:"INFX_JWT_ISSUER" envDefault:"infinityx"`
	OwnerOpenID      string        `env:"INFX_OWNER_OPEN_ID"`
	DevAuthFallback  bool          `env:"INFX_DEV_AUTH_FALLBACK" envDefault:"false"`
	SessionTTL       time.Duration `env:"INFX_SESSION_TTL" envDefault:"120h"`
	IdentityCacheTTL time.Duration `env:"INFX_IDENTITY_CACHE_TTL" envDefault:"5m"`

	// Uploads and static files
	UploadMode string `env:"INFX_UPLOAD_MODE" envDefault:"disk"`
	UploadsDir string `env:"INFX_UPLOADS_DIR" envDefault:"./public/uploads"`
	PublicDir  string `env:"INFX_PUBLIC_DIR" envDefault:"./public"`

	// Cache configuration
	RedisURL     string `env:"INFX_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"INFX_CACHE_PREFIX" envDefault:"infx:"`   // Redis key prefix
	CacheTTL     int    `env:"INFX_CACHE_TTL" envDefault:"300"`        // Default cache TTL in seconds
	CacheMaxSize int    `env:"INFX_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Public write protection
	PublicRateLimit float64 `env:"INFX_PUBLIC_RATE_LIMIT" envDefault:"0.2"` // requests per second per IP
	PublicRateBurst int     `env:"INFX_PUBLIC_RATE_BURST" envDefault:"5"`
	// Proxies (CIDRs or addresses) whose X-Forwarded-For and X-Real-IP are honored
	TrustedProxies []string `env:"INFX_TRUSTED_PROXIES" envSeparator:","`

	EventRetentionDays int `env:"INFX_EVENT_RETENTION_DAYS" envDefault:"30"`

	// Seeding configuration
	DoSeed bool `env:"INFX_DO_SEED" envDefault:"false"` // Seed default page content on startup
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// DevFallbackEnabled reports whether failed authentication resolves to the
// local admin identity.
func (c Config) DevFallbackEnabled() bool {
	return c.IsDevelopment() && c.DevAuthFallback
}

// ResolvedAuthProvider returns the configured auth provider, falling back to
// firebase when a project is configured and to jwt when a secret is set.
func (c Config) ResolvedAuthProvider() string {
	if c.AuthProvider != "" {
		return c.AuthProvider
	}
	switch {
	case c.FirebaseProjectID != "":
		return AuthFirebase
	case c.JWTSecret != "":
		return AuthJWT
	default:
		return AuthNone
	}
}

// FirebaseConfigured returns true if enough Firebase settings are present to
// build an app.
func (c Config) FirebaseConfigured() bool {
	return c.FirebaseProjectID != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// MinJWTSecretLength is the minimum HMAC key length accepted for HS256.
const MinJWTSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("INFX_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("INFX_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}
	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return errors.New("INFX_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	switch c.Env {
	case "development", "production":
	default:
		return fmt.Errorf("INFX_ENV must be development or production, got %q", c.Env)
	}
	if c.DevAuthFallback && !c.IsDevelopment() {
		return errors.New("INFX_DEV_AUTH_FALLBACK cannot be enabled outside development")
	}

	switch c.StoreDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return errors.New("INFX_DB_PATH is required for the sqlite store")
		}
	case DriverMySQL:
		if c.MySQLDSN == "" {
			return errors.New("INFX_MYSQL_DSN is required for the mysql store")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("INFX_MONGO_URI is required for the mongo store")
		}
	case DriverFirestore:
		if !c.FirebaseConfigured() {
			return errors.New("INFX_FIREBASE_PROJECT_ID is required for the firestore store")
		}
	default:
		return fmt.Errorf("unknown INFX_STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.ResolvedAuthProvider() {
	case AuthFirebase:
		if !c.FirebaseConfigured() {
			return errors.New("INFX_FIREBASE_PROJECT_ID is required for firebase auth")
		}
	case AuthJWT:
		if len(c.JWTSecret) < MinJWTSecretLength {
			return fmt.Errorf("INFX_JWT_SECRET must be at least %d bytes long", MinJWTSecretLength)
		}
	case AuthNone:
	default:
		return fmt.Errorf("unknown INFX_AUTH_PROVIDER %q", c.AuthProvider)
	}

	switch c.UploadMode {
	case UploadDisk, UploadInline:
	default:
		return fmt.Errorf("INFX_UPLOAD_MODE must be disk or inline, got %q", c.UploadMode)
	}

	if c.PublicRateLimit <= 0 || c.PublicRateBurst <= 0 {
		return errors.New("INFX_PUBLIC_RATE_LIMIT and INFX_PUBLIC_RATE_BURST must be positive")
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
