package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("RATE_LIMIT_PER_SECOND", "")
	t.Setenv("MONGO_DATABASE", "")
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 20.0, cfg.RateLimitPerSecond)
	assert.Equal(t, "connectin", cfg.MongoDatabase)
	assert.Equal(t, 40, cfg.PostgresMaxOpenConns)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("POSTGRES_CONN_STR", "host=localhost user=app dbname=connectin")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("GCS_BUCKET", "connectin-media")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.True(t, cfg.EmailEnabled())
	assert.True(t, cfg.ImageStorageEnabled())
	require.NoError(t, cfg.Validate())
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")

	assert.Equal(t, 587, Load().SMTPPort)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Env:                  "development",
			PostgresUrl:          "host=localhost",
			MongoURI:             "mongodb://localhost:27017",
			JWTSecret:            defaultJWTSecret,
			PostgresMaxOpenConns: 10,
			RateLimitPerSecond:   10,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid development config", mutate: func(c *Config) {}},
		{name: "missing postgres", mutate: func(c *Config) { c.PostgresUrl = "" }, wantErr: true},
		{name: "missing mongo", mutate: func(c *Config) { c.MongoURI = "" }, wantErr: true},
		{name: "tiny postgres pool", mutate: func(c *Config) { c.PostgresMaxOpenConns = 1 }, wantErr: true},
		{name: "zero rate limit", mutate: func(c *Config) { c.RateLimitPerSecond = 0 }, wantErr: true},
		{
			name:    "production with default secret",
			mutate:  func(c *Config) { c.Env = "production" },
			wantErr: true,
		},
		{
			name: "production with short secret",
			mutate: func(c *Config) {
				c.Env = "production"
				c.JWTSecret = "short"
			},
			wantErr: true,
		},
		{
			name: "production with strong secret",
			mutate: func(c *Config) {
				c.Env = "production"
				c.JWTSecret = "this_is_a_production_secret_with_32_chars"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
