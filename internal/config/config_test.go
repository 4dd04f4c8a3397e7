package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:             "development",
		Port:            "3000",
		JWTSecret:       "secure-secret-at-least-32-chars-long",
		DBDriver:        "postgres",
		DBPassword:      "secure-password",
		DBSSLMode:       "require",
		Argon2MemoryKB:  4096,
		Argon2Time:      1,
		Argon2Threads:   1,
		HashConcurrency: 1,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"valid development", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"negative ttl", func(c *Config) { c.TokenTTLMinutes = -1 }, true},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"sqlite driver", func(c *Config) { c.DBDriver = "sqlite" }, false},
		{"zero argon2 time", func(c *Config) { c.Argon2Time = 0 }, true},
		{"argon2 time above decoder limit", func(c *Config) { c.Argon2Time = 17 }, true},
		{"argon2 time at limit", func(c *Config) { c.Argon2Time = 16 }, false},
		{"argon2 memory too small", func(c *Config) { c.Argon2MemoryKB = 7 }, true},
		{"argon2 memory above decoder limit", func(c *Config) { c.Argon2MemoryKB = 1<<20 + 1 }, true},
		{"argon2 memory at limit", func(c *Config) { c.Argon2MemoryKB = 1 << 20 }, false},
		{"argon2 threads overflow a byte", func(c *Config) { c.Argon2Threads = 256 }, true},
		{"argon2 threads at limit", func(c *Config) { c.Argon2Threads = 255 }, false},
		{"zero argon2 threads", func(c *Config) { c.Argon2Threads = 0 }, true},
		{"zero hash concurrency", func(c *Config) { c.HashConcurrency = 0 }, true},
		{"production default secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = defaultJWTSecret
		}, true},
		{"production short secret", func(c *Config) {
			c.Env = "prod"
			c.JWTSecret = "short"
		}, true},
		{"production weak db password", func(c *Config) {
			c.Env = "production"
			c.DBPassword = "password"
		}, true},
		{"production database url", func(c *Config) {
			c.Env = "production"
			c.DBPassword = ""
			c.DatabaseURL = "postgres://blog:s3cret@db/blog"
		}, false},
		{"development short secret only warns", func(c *Config) { c.JWTSecret = "dev" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	c := validConfig()
	c.DBHost = "db"
	c.DBPort = "5432"
	c.DBUser = "blog"
	c.DBName = "blog"
	assert.Equal(t, "host=db port=5432 user=blog password=secure-password dbname=blog sslmode=require", c.DSN())

	c.DatabaseURL = "postgres://override/blog"
	assert.Equal(t, "postgres://override/blog", c.DSN())

	c.DatabaseURL = ""
	c.DBDriver = "sqlite"
	assert.Equal(t, "blog.db", c.DSN())
}

func TestConfig_TokenTTL(t *testing.T) {
	c := validConfig()
	assert.Zero(t, c.TokenTTL())
	c.TokenTTLMinutes = 90
	assert.Equal(t, 90*time.Minute, c.TokenTTL())
}

func TestConfig_LogValueRedactsSecret(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	c := validConfig()

	logger.Info("config loaded", slog.Any("config", c))

	assert.NotContains(t, buf.String(), c.JWTSecret)
	assert.NotContains(t, buf.String(), c.DBPassword)
	assert.Contains(t, buf.String(), "[REDACTED]")
}

func TestLoadConfig_EnvironmentDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("JWT_SECRET", "test-secret-that-is-long-enough-1234")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "test", c.Env)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, "blog_test", c.DBName)
	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, "3000", c.Port)
}
