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
	"log/slog"
	"math"
	"time"

	"github.com/poiesic/probatch/core"
)

// RetryWithBackoff retries an operation with capped exponential backoff.
// maxAttempts: maximum number of attempts (must be > 0)
// baseDelay: delay before the second attempt (doubles on each retry)
// maxDelay: ceiling on the backoff delay (0 = uncapped)
//
// Only errors classified as *core.RemoteCallError are retried; anything
// else (configuration errors, programming errors) propagates immediately
// rather than burning attempts on a call that cannot succeed.
// Returns the error from the last attempt if all attempts fail.
func RetryWithBackoff(ctx context.Context, operation func() error, maxAttempts int, baseDelay, maxDelay time.Duration) error {
	if maxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		// Check context before attempting
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil // Success
		}

		if !core.IsRemoteCall(lastErr) {
			// Not retryable
			return lastErr
		}

		// Don't sleep after the last attempt
		if attempt == maxAttempts {
			break
		}

		delay := backoffDelay(baseDelay, maxDelay, attempt)
		slog.Warn("remote call failed, backing off before retry",
			"attempt", attempt,
			"maxAttempts", maxAttempts,
			"delay", delay,
			"error", lastErr)

		// Sleep with context awareness
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			// Continue to next attempt
		}
	}

	return lastErr
}

// backoffDelay computes min(maxDelay, baseDelay * 2^(attempt-1)).
// Doubling saturates at the maximum Duration so an uncapped sequence
// with a large attempt count cannot overflow negative.
func backoffDelay(baseDelay, maxDelay time.Duration, attempt int) time.Duration {
	delay := baseDelay
	for i := 1; i < attempt; i++ {
		if maxDelay > 0 && delay >= maxDelay {
			return maxDelay
		}
		doubled := delay * 2
		if doubled < delay {
			delay = time.Duration(math.MaxInt64)
			break
		}
		delay = doubled
	}
	if maxDelay > 0 && delay > maxDelay {
		return maxDelay
	}
	return delay
}
