package config

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:            "8000",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		AllowedOrigins:  DefaultAllowedOrigins,
		DataBackend:     "memory",
		CacheSize:       128,
		CacheTTL:        5 * time.Minute,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid memory backend config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "valid sqlite backend config",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = filepath.Join(t.TempDir(), "nested", "operadoras.db")
			},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "sheets" },
			wantErr:     true,
			errorString: "invalid data backend 'sheets': must be one of [memory sqlite]",
		},
		{
			name: "sqlite backend missing database path",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = ""
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name:        "invalid CORS origin",
			mutate:      func(c *Config) { c.AllowedOrigins = []string{"localhost:3000"} },
			wantErr:     true,
			errorString: "invalid CORS origin 'localhost:3000'",
		},
		{
			name:        "negative cache size",
			mutate:      func(c *Config) { c.CacheSize = -1 },
			wantErr:     true,
			errorString: "invalid cache size -1",
		},
		{
			name:        "cache enabled without TTL",
			mutate:      func(c *Config) { c.CacheTTL = 0 },
			wantErr:     true,
			errorString: "invalid cache TTL",
		},
		{
			name: "cache disabled without TTL",
			mutate: func(c *Config) {
				c.CacheSize = 0
				c.CacheTTL = 0
			},
			wantErr: false,
		},
		{
			name:   "trusted proxy networks",
			mutate: func(c *Config) { c.TrustedProxies = []string{"203.0.113.0/24", "2001:db8::/32"} },
		},
		{
			name:        "invalid trusted proxy",
			mutate:      func(c *Config) { c.TrustedProxies = []string{"10.0.0.0/8", "203.0.113.5"} },
			wantErr:     true,
			errorString: "invalid trusted proxy '203.0.113.5'",
		},
		{
			name:        "negative rate limit",
			mutate:      func(c *Config) { c.RateLimitRPM = -5 },
			wantErr:     true,
			errorString: "invalid rate limit -5",
		},
		{
			name:        "zero shutdown timeout",
			mutate:      func(c *Config) { c.ShutdownTimeout = 0 },
			wantErr:     true,
			errorString: "invalid shutdown timeout",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
		{
			name:        "invalid log format",
			mutate:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name: "multiple errors are combined",
			mutate: func(c *Config) {
				c.Port = "abc"
				c.LogFormat = "xml"
			},
			wantErr:     true,
			errorString: "configuration validation failed:\n- ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Config.Validate() error = %q, want it to contain %q", err.Error(), tt.errorString)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_BACKEND", "SQLITE_DB_PATH", "SEED", "CORS_ALLOWED_ORIGINS", "TRUSTED_PROXIES", "CACHE_SIZE", "CACHE_TTL", "RATE_LIMIT_RPM", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8000" {
			t.Errorf("Load() Port = %v, want 8000", cfg.Port)
		}
		if cfg.Addr() != ":8000" {
			t.Errorf("Load() Addr = %v, want :8000", cfg.Addr())
		}
		if cfg.DataBackend != "memory" {
			t.Errorf("Load() DataBackend = %v, want memory", cfg.DataBackend)
		}
		if cfg.Seed != 0 {
			t.Errorf("Load() Seed = %v, want 0", cfg.Seed)
		}
		if !reflect.DeepEqual(cfg.AllowedOrigins, DefaultAllowedOrigins) {
			t.Errorf("Load() AllowedOrigins = %v, want %v", cfg.AllowedOrigins, DefaultAllowedOrigins)
		}
		if cfg.RateLimitRPM != 0 {
			t.Errorf("Load() RateLimitRPM = %v, want 0", cfg.RateLimitRPM)
		}
		if len(cfg.TrustedProxies) != 0 {
			t.Errorf("Load() TrustedProxies = %v, want none", cfg.TrustedProxies)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("defaults should validate: %v", err)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("DATA_BACKEND", "sqlite")
		t.Setenv("SQLITE_DB_PATH", "/tmp/test.db")
		t.Setenv("SEED", "42")
		t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test , ,https://b.test")
		t.Setenv("CACHE_TTL", "45s")
		t.Setenv("RATE_LIMIT_RPM", "120")
		t.Setenv("TRUSTED_PROXIES", "203.0.113.0/24, 198.51.100.0/24")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.DataBackend != "sqlite" {
			t.Errorf("Load() DataBackend = %v, want sqlite", cfg.DataBackend)
		}
		if cfg.SQLiteDBPath != "/tmp/test.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want /tmp/test.db", cfg.SQLiteDBPath)
		}
		if cfg.Seed != 42 {
			t.Errorf("Load() Seed = %v, want 42", cfg.Seed)
		}
		want := []string{"http://a.test", "https://b.test"}
		if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
			t.Errorf("Load() AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
		}
		if cfg.CacheTTL != 45*time.Second {
			t.Errorf("Load() CacheTTL = %v, want 45s", cfg.CacheTTL)
		}
		if cfg.RateLimitRPM != 120 {
			t.Errorf("Load() RateLimitRPM = %v, want 120", cfg.RateLimitRPM)
		}
		wantProxies := []string{"203.0.113.0/24", "198.51.100.0/24"}
		if !reflect.DeepEqual(cfg.TrustedProxies, wantProxies) {
			t.Errorf("Load() TrustedProxies = %v, want %v", cfg.TrustedProxies, wantProxies)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		t.Setenv("SEED", "invalid")
		t.Setenv("CACHE_SIZE", "invalid")
		t.Setenv("CACHE_TTL", "invalid")

		cfg := Load()

		if cfg.Seed != 0 {
			t.Errorf("Load() Seed = %v, want 0 (default for invalid input)", cfg.Seed)
		}
		if cfg.CacheSize != 128 {
			t.Errorf("Load() CacheSize = %v, want 128 (default for invalid input)", cfg.CacheSize)
		}
		if cfg.CacheTTL != 5*time.Minute {
			t.Errorf("Load() CacheTTL = %v, want 5m (default for invalid input)", cfg.CacheTTL)
		}
	})
}
