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

import "sync/atomic"

// RunCounters tracks dispatch totals for a single batch run. Safe for
// concurrent use.
type RunCounters struct {
	total     atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
}

// RecordSuccess counts one task that produced a usable response.
func (c *RunCounters) RecordSuccess() {
	c.total.Add(1)
	c.succeeded.Add(1)
}

// RecordFailure counts one task that exhausted its attempts.
func (c *RunCounters) RecordFailure() {
	c.total.Add(1)
	c.failed.Add(1)
}

// Total returns the number of tasks counted so far.
func (c *RunCounters) Total() int64 {
	return c.total.Load()
}

// Succeeded returns the number of successful tasks.
func (c *RunCounters) Succeeded() int64 {
	return c.succeeded.Load()
}

// Failed returns the number of failed tasks.
func (c *RunCounters) Failed() int64 {
	return c.failed.Load()
}

// SuccessRate returns succeeded/total, or 0 when nothing has been counted.
func (c *RunCounters) SuccessRate() float64 {
	total := c.total.Load()
	if total == 0 {
		return 0
	}
	return float64(c.succeeded.Load()) / float64(total)
}
