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
	"context"
	"sync"
	"time"
)

// RateLimiter enforces a minimum spacing between the start times of
// consecutive remote calls across the whole batch. The limit is global:
// there is no per-service or per-language partitioning, and the guarantee
// holds across concurrent workers.
type RateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time // earliest start time of the next call
}

// NewRateLimiter creates a rate limiter with the given minimum interval
// between call starts. An interval <= 0 disables limiting.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{interval: interval}
}

// Wait blocks until the configured interval has elapsed since the
// previously granted call start, then reserves the next slot. The sleep is
// context-aware; a reserved slot is kept even if the caller is cancelled,
// which errs on the side of calling the remote service less often.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r.interval <= 0 {
		return nil
	}

	r.mu.Lock()
	now := time.Now()
	start := r.next
	if start.Before(now) {
		start = now
	}
	r.next = start.Add(r.interval)
	r.mu.Unlock()

	wait := time.Until(start)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Interval returns the configured minimum spacing.
func (r *RateLimiter) Interval() time.Duration {
	return r.interval
}
