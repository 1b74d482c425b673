package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.Share.DefaultValidity)
	assert.Equal(t, 720*time.Hour, cfg.Share.MaxValidity)
	assert.Equal(t, 30*time.Second, cfg.Share.CacheTTL)
	assert.Equal(t, "http://localhost:8080", cfg.Server.PublicOrigin)
	assert.Equal(t, "s3", cfg.Media.Driver)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.OIDC.RequiredScopes)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SHARE_DEFAULT_VALIDITY", "72h")
	t.Setenv("PUBLIC_ORIGIN", "https://imagehub.example/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("OIDC_REQUIRED_SCOPES", "images,shares")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 72*time.Hour, cfg.Share.DefaultValidity)
	assert.Equal(t, "https://imagehub.example", cfg.Server.PublicOrigin)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, []string{"images", "shares"}, cfg.OIDC.RequiredScopes)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("share:\n  default_validity: 48h\nmedia:\n  driver: memory\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 48*time.Hour, cfg.Share.DefaultValidity)
	assert.Equal(t, "memory", cfg.Media.Driver)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server: Server{PublicOrigin: "http://localhost:8080"},
			Share:  Share{DefaultValidity: time.Hour, MaxValidity: 2 * time.Hour},
			Media:  Media{Driver: "memory"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero default validity", func(c *Config) { c.Share.DefaultValidity = 0 }, true},
		{"max below default", func(c *Config) { c.Share.MaxValidity = time.Minute }, true},
		{"bad origin", func(c *Config) { c.Server.PublicOrigin = "localhost" }, true},
		{"unknown media driver", func(c *Config) { c.Media.Driver = "cloudinary" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
