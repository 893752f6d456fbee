package ai

import (
	"testing"
	"time"

	"github.com/poiesic/probatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.Host)
	assert.Equal(t, 2*time.Minute, cfg.AttemptTimeout)
	assert.Empty(t, cfg.APIKey)
}

func TestNewConfig_AppliesOptions(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://localhost:11434/v1"),
		WithAPIKey("test-key"),
		WithAttemptTimeout(30*time.Second),
		WithAttribution("https://example.org", "probatch"),
	)

	assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, 30*time.Second, cfg.AttemptTimeout)
	assert.Equal(t, "https://example.org", cfg.Referer)
	assert.Equal(t, "probatch", cfg.Title)
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"adds v1 suffix", "http://localhost:11434", "http://localhost:11434/v1"},
		{"strips trailing slash first", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"keeps existing v1", "https://openrouter.ai/api/v1", "https://openrouter.ai/api/v1"},
		{"empty host untouched", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Host: tt.host}
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.Host)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := NewConfig(WithAPIKey("key"))
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing API key is a configuration error", func(t *testing.T) {
		cfg := NewConfig()
		err := cfg.Validate()
		require.Error(t, err)
		assert.True(t, core.IsConfiguration(err))
	})

	t.Run("missing host", func(t *testing.T) {
		cfg := &Config{APIKey: "key"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.True(t, core.IsConfiguration(err))
	})

	t.Run("negative timeout", func(t *testing.T) {
		cfg := NewConfig(WithAPIKey("key"), WithAttemptTimeout(-time.Second))
		assert.Error(t, cfg.Validate())
	})

	t.Run("validate normalizes host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:9100"), WithAPIKey("key"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:9100/v1", cfg.Host)
	})
}
