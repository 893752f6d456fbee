// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"strings"
	"time"

	"github.com/poiesic/probatch/core"
)

// Config holds configuration for text-generation service providers.
type Config struct {
	// Host is the base URL for the OpenAI-compatible API.
	// Example: "https://openrouter.ai/api/v1"
	Host string

	// APIKey is the bearer credential for the service.
	APIKey string

	// AttemptTimeout bounds a single remote call. Zero disables the
	// per-attempt deadline and leaves only the transport's defaults.
	AttemptTimeout time.Duration

	// Referer and Title are attribution headers some gateways
	// (OpenRouter) use for request accounting. Optional.
	Referer string
	Title   string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the service base URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithAPIKey sets the bearer credential.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithAttemptTimeout sets the per-attempt deadline.
func WithAttemptTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.AttemptTimeout = timeout
	}
}

// WithAttribution sets the optional referer and title headers.
func WithAttribution(referer, title string) ConfigOption {
	return func(c *Config) {
		c.Referer = referer
		c.Title = title
	}
}

// DefaultConfig returns a Config with sensible defaults for OpenRouter.
// The API key must still be supplied by the caller.
func DefaultConfig() *Config {
	return &Config{
		Host:           "https://openrouter.ai/api/v1",
		AttemptTimeout: 2 * time.Minute,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options. This is the recommended way to create a Config.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:11434/v1"),
//	    WithAPIKey("none"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to the host if missing, which is required by most
// OpenAI-compatible APIs (OpenRouter, Ollama, LocalAI, vLLM).
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
// A missing credential is a *core.ConfigurationError: fatal, never retried.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return core.NewConfigurationError("ai config: Host is required")
	}
	if c.APIKey == "" {
		return core.NewConfigurationError("ai config: APIKey is required (set OPENROUTER_API_KEY)")
	}
	if c.AttemptTimeout < 0 {
		return core.NewConfigurationError("ai config: AttemptTimeout cannot be negative")
	}
	return nil
}
