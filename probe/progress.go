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
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports batch progress to a writer at a fixed task
// interval. Remote calls dominate the runtime, so reporting stays coarse;
// the tracker never slows dispatch down.
type ProgressTracker struct {
	mu           sync.Mutex
	writer       io.Writer
	total        int
	done         int
	interval     int
	lastReported int
	startedAt    time.Time
	running      bool
}

// NewProgressTracker creates a tracker that reports every interval tasks.
// writer is typically os.Stderr.
func NewProgressTracker(writer io.Writer, total, interval int) *ProgressTracker {
	return &ProgressTracker{
		writer:   writer,
		total:    total,
		interval: interval,
	}
}

// Start resets the tracker and begins timing.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startedAt = time.Now()
	p.running = true
	p.done = 0
	p.lastReported = 0
}

// Increment records one completed task, reporting if the interval has been
// crossed.
func (p *ProgressTracker) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	p.done++
	if p.done > p.total {
		p.done = p.total
	}

	if p.done-p.lastReported >= p.interval {
		p.report()
		p.lastReported = p.done
	}
}

// Finish prints a final progress line and stops the tracker.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	p.report()
	fmt.Fprintln(p.writer)
	p.running = false
}

// Elapsed returns the time since Start.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.startedAt.IsZero() {
		return 0
	}
	return time.Since(p.startedAt)
}

// report prints the current progress. Must be called with lock held.
func (p *ProgressTracker) report() {
	elapsed := time.Since(p.startedAt)
	rate := float64(p.done) / elapsed.Seconds()

	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.done) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rProgress: %d/%d (%.1f%%) - %.1f tasks/s",
		p.done, p.total, percentage, rate)
}
