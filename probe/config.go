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


package probe

import (
	"time"

	"github.com/poiesic/probatch/core"
)

// Config holds configuration for a batch dispatch run.
type Config struct {
	// MaxAttempts is the attempt ceiling per task, including the first try.
	MaxAttempts int

	// BaseDelay is the base delay for exponential backoff between attempts.
	BaseDelay time.Duration

	// MaxDelay caps the backoff delay. Zero means uncapped.
	MaxDelay time.Duration

	// RateInterval is the minimum spacing between the start times of
	// consecutive remote calls, global to the batch. Zero disables
	// rate limiting.
	RateInterval time.Duration

	// Workers is the number of concurrent dispatch workers.
	// 1 (the default) runs the batch strictly sequentially.
	Workers int

	// MaxTokens is the response-size ceiling passed to the service.
	MaxTokens int

	// Temperature is the sampling temperature passed to the service.
	Temperature float64

	// ReportInterval is how often to report progress (number of tasks).
	ReportInterval int

	// Resume reuses archived successful outcomes instead of re-calling
	// the service. Requires an attempt archive to be configured.
	Resume bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:    3,
		BaseDelay:      4 * time.Second,
		MaxDelay:       60 * time.Second,
		RateInterval:   1 * time.Second,
		Workers:        1,
		MaxTokens:      2000,
		Temperature:    0.7,
		ReportInterval: 10,
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxAttempts <= 0 {
		return core.NewConfigurationError("max attempts must be greater than 0")
	}
	if c.BaseDelay < 0 {
		return core.NewConfigurationError("base delay cannot be negative")
	}
	if c.MaxDelay < 0 {
		return core.NewConfigurationError("max delay cannot be negative")
	}
	if c.RateInterval < 0 {
		return core.NewConfigurationError("rate interval cannot be negative")
	}
	if c.Workers < 1 {
		return core.NewConfigurationError("workers must be at least 1")
	}
	if c.MaxTokens <= 0 {
		return core.NewConfigurationError("max tokens must be greater than 0")
	}
	if c.ReportInterval <= 0 {
		return core.NewConfigurationError("report interval must be greater than 0")
	}
	return nil
}
