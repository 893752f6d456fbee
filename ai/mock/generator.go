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


package mock

import (
	"context"
	"sync"

	"github.com/poiesic/probatch/ai"
	"github.com/poiesic/probatch/core"
)

// MockGenerator is a test double for ai.Generator.
// By default it returns a canned response; tests can script a number of
// leading failures or inject fully custom behavior.
type MockGenerator struct {
	mu       sync.Mutex
	calls    int
	failures int
	response string
	err      error

	// GenerateFunc, when set, fully overrides the default behavior.
	// The call counter is still maintained.
	GenerateFunc func(ctx context.Context, req ai.GenerationRequest) (string, error)
}

var _ ai.Generator = (*MockGenerator)(nil)

// NewMockGenerator creates a mock that succeeds with a fixed response.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{response: "mock response"}
}

// SetResponse sets the text returned by successful calls.
func (m *MockGenerator) SetResponse(response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.response = response
}

// FailTimes makes the next n calls fail with a RemoteCallError before
// succeeding again.
func (m *MockGenerator) FailTimes(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = n
}

// SetError makes every call fail with err until cleared.
func (m *MockGenerator) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Generate has been invoked.
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Generate implements ai.Generator.
func (m *MockGenerator) Generate(ctx context.Context, req ai.GenerationRequest) (string, error) {
	m.mu.Lock()
	m.calls++
	fn := m.GenerateFunc
	err := m.err
	response := m.response
	failing := m.failures > 0
	if failing {
		m.failures--
	}
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	if err != nil {
		return "", err
	}
	if failing {
		return "", &core.RemoteCallError{Service: req.Model, Err: core.ErrEmptyResponse}
	}
	return response, nil
}
