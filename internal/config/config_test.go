// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-key-32-bytes-long!!!"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setEnv(t, "INFX_SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/infinityx.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/infinityx.db")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.Env != "production" {
		t.Errorf("Env = %q, want %q", cfg.Env, "production")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want development to be opt-in")
	}
	if len(cfg.TrustedProxies) != 0 {
		t.Errorf("TrustedProxies = %v, want none", cfg.TrustedProxies)
	}
	if cfg.StoreDriver != DriverSQLite {
		t.Errorf("StoreDriver = %q, want %q", cfg.StoreDriver, DriverSQLite)
	}
	if cfg.UploadMode != UploadDisk {
		t.Errorf("UploadMode = %q, want %q", cfg.UploadMode, UploadDisk)
	}
	if cfg.IdentityCacheTTL != 5*time.Minute {
		t.Errorf("IdentityCacheTTL = %v, want 5m", cfg.IdentityCacheTTL)
	}
	if cfg.ResolvedAuthProvider() != AuthNone {
		t.Errorf("ResolvedAuthProvider() = %q, want %q", cfg.ResolvedAuthProvider(), AuthNone)
	}
	if cfg.DevFallbackEnabled() {
		t.Error("DevFallbackEnabled() = true, want false by default")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "INFX_SESSION_SECRET", testSecret)
	setEnv(t, "INFX_ENV", "production")
	setEnv(t, "INFX_SERVER_HOST", "0.0.0.0")
	setEnv(t, "INFX_SERVER_PORT", "3000")
	setEnv(t, "INFX_STORE_DRIVER", "mongo")
	setEnv(t, "INFX_MONGO_URI", "mongodb://localhost:27017")
	setEnv(t, "INFX_UPLOAD_MODE", "inline")
	setEnv(t, "INFX_JWT_SECRET", strings.Repeat("k", 32))
	setEnv(t, "INFX_TRUSTED_PROXIES", "10.0.0.0/8,192.0.2.1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "0.0.0.0:3000")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
	if cfg.ResolvedAuthProvider() != AuthJWT {
		t.Errorf("ResolvedAuthProvider() = %q, want %q", cfg.ResolvedAuthProvider(), AuthJWT)
	}
	if cfg.UploadMode != UploadInline {
		t.Errorf("UploadMode = %q, want %q", cfg.UploadMode, UploadInline)
	}
	if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[1] != "192.0.2.1" {
		t.Errorf("TrustedProxies = %v", cfg.TrustedProxies)
	}
}

func TestLoad_MissingSessionSecret(t *testing.T) {
	os.Clearenv()

	if _, err := Load(); err == nil {
		t.Error("Load() should fail without INFX_SESSION_SECRET")
	}
}

func TestLoad_ShortSessionSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "INFX_SESSION_SECRET", "short")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail with a short secret")
	}
	if !strings.Contains(err.Error(), "at least 32 bytes") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_WeakSecretRejected(t *testing.T) {
	os.Clearenv()
	setEnv(t, "INFX_SESSION_SECRET", knownWeakSecrets[0])

	if _, err := Load(); err == nil {
		t.Error("Load() should reject a known default secret")
	}
}

func TestLoad_DevFallback(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		wantErr bool
		enabled bool
	}{
		{name: "development", env: "development", enabled: true},
		{name: "production", env: "production", wantErr: true},
		{name: "unset env is production", env: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			setEnv(t, "INFX_SESSION_SECRET", testSecret)
			if tt.env != "" {
				setEnv(t, "INFX_ENV", tt.env)
			}
			setEnv(t, "INFX_DEV_AUTH_FALLBACK", "true")

			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Load() should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if cfg.DevFallbackEnabled() != tt.enabled {
				t.Errorf("DevFallbackEnabled() = %v, want %v", cfg.DevFallbackEnabled(), tt.enabled)
			}
		})
	}
}

func TestValidate_DriverRequirements(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "mysql without dsn", cfg: Config{StoreDriver: DriverMySQL}},
		{name: "mongo without uri", cfg: Config{StoreDriver: DriverMongo}},
		{name: "firestore without project", cfg: Config{StoreDriver: DriverFirestore}},
		{name: "unknown driver", cfg: Config{StoreDriver: "postgres"}},
		{name: "firebase auth without project", cfg: Config{StoreDriver: DriverSQLite, DBPath: "x.db", AuthProvider: AuthFirebase}},
		{name: "jwt auth with short secret", cfg: Config{StoreDriver: DriverSQLite, DBPath: "x.db", AuthProvider: AuthJWT, JWTSecret: "short"}},
		{name: "unknown upload mode", cfg: Config{StoreDriver: DriverSQLite, DBPath: "x.db", UploadMode: "s3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.Env = "development"
			cfg.SessionSecret = testSecret
			cfg.PublicRateLimit = 1
			cfg.PublicRateBurst = 1
			if cfg.UploadMode == "" {
				cfg.UploadMode = UploadDisk
			}
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	if hasMinimumEntropy("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa") {
		t.Error("single character class should not pass")
	}
	if !hasMinimumEntropy("Abc123!xyzAbc123!xyzAbc123!xyz12") {
		t.Error("mixed secret should pass")
	}
}
