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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/probatch/ai"
	"github.com/poiesic/probatch/core"
	"github.com/poiesic/probatch/storage"
)

// Coordinator drives a batch of tasks through the rate limiter, the retry
// governor, and the generator, producing exactly one outcome per task.
// A failed task never aborts the batch; its outcome records the failure
// and dispatch moves on.
type Coordinator struct {
	generator      ai.Generator
	config         *Config
	limiter        *RateLimiter
	counters       *RunCounters
	journal        *FailureJournal
	archive        storage.AttemptArchive
	progressWriter io.Writer
	logger         *slog.Logger
}

// Option configures optional coordinator collaborators.
type Option func(*Coordinator)

// WithJournal attaches a failure journal. Without one, failures are only
// logged and reflected in outcomes.
func WithJournal(journal *FailureJournal) Option {
	return func(c *Coordinator) {
		c.journal = journal
	}
}

// WithArchive attaches an attempt archive for persistence and resume.
func WithArchive(archive storage.AttemptArchive) Option {
	return func(c *Coordinator) {
		c.archive = archive
	}
}

// WithProgressWriter sets where progress lines are written.
// Progress reporting is disabled when no writer is configured.
func WithProgressWriter(w io.Writer) Option {
	return func(c *Coordinator) {
		c.progressWriter = w
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// NewCoordinator creates a batch coordinator.
func NewCoordinator(generator ai.Generator, config *Config, opts ...Option) (*Coordinator, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Coordinator{
		generator: generator,
		config:    config,
		limiter:   NewRateLimiter(config.RateInterval),
		counters:  &RunCounters{},
		logger:    slog.Default().With("component", "coordinator"),
	}

	for _, opt := range opts {
		opt(c)
	}

	if config.Resume && c.archive == nil {
		return nil, core.NewConfigurationError("resume requires an attempt archive")
	}

	return c, nil
}

// Counters returns the run counters for this coordinator.
func (c *Coordinator) Counters() *RunCounters {
	return c.counters
}

// Run dispatches all tasks and returns one outcome per task, in task
// order. Individual task failures are recorded, not propagated; the only
// error Run returns is cancellation, in which case the outcomes recorded
// so far are returned alongside it.
func (c *Coordinator) Run(ctx context.Context, tasks []core.Task) ([]*core.Outcome, error) {
	var archived map[core.ID]*core.Outcome
	if c.config.Resume {
		var err error
		archived, err = c.archive.SucceededOutcomes(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load archived outcomes: %w", err)
		}
		c.logger.Info("resuming from archive", "archivedSuccesses", len(archived))
	}

	c.logger.Info("starting batch dispatch",
		"tasks", len(tasks),
		"workers", c.config.Workers,
		"maxAttempts", c.config.MaxAttempts,
		"rateInterval", c.config.RateInterval)

	var tracker *ProgressTracker
	if c.progressWriter != nil {
		tracker = NewProgressTracker(c.progressWriter, len(tasks), c.config.ReportInterval)
		tracker.Start()
	}

	started := time.Now()
	outcomes := make([]*core.Outcome, len(tasks))

	var runErr error
	if c.config.Workers > 1 {
		runErr = c.runConcurrent(ctx, tasks, archived, outcomes, tracker)
	} else {
		runErr = c.runSequential(ctx, tasks, archived, outcomes, tracker)
	}

	if tracker != nil {
		tracker.Finish()
	}

	// Cancellation leaves holes in the slice; return only what completed.
	if runErr != nil {
		completed := make([]*core.Outcome, 0, len(outcomes))
		for _, o := range outcomes {
			if o != nil {
				completed = append(completed, o)
			}
		}
		c.logger.Warn("batch dispatch interrupted",
			"completed", len(completed),
			"tasks", len(tasks),
			"error", runErr)
		return completed, runErr
	}

	c.logger.Info("batch dispatch complete",
		"tasks", len(tasks),
		"succeeded", c.counters.Succeeded(),
		"failed", c.counters.Failed(),
		"elapsed", time.Since(started).Round(time.Millisecond))

	return outcomes, nil
}

// runSequential dispatches tasks one at a time in expansion order.
func (c *Coordinator) runSequential(ctx context.Context, tasks []core.Task, archived map[core.ID]*core.Outcome, outcomes []*core.Outcome, tracker *ProgressTracker) error {
	for i := range tasks {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		task := &tasks[i]
		if outcome, ok := archived[task.ArchiveID()]; ok {
			c.recordArchived(task, outcome, outcomes, tracker)
			continue
		}

		outcome := c.executeTask(ctx, task)
		if outcome == nil {
			return ctx.Err()
		}
		c.record(task, outcome, outcomes, tracker)

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return nil
}

// runConcurrent dispatches tasks through a worker pool. The rate limiter
// still spaces out call starts globally, so concurrency overlaps waiting
// on slow services rather than multiplying the request rate.
func (c *Coordinator) runConcurrent(ctx context.Context, tasks []core.Task, archived map[core.ID]*core.Outcome, outcomes []*core.Outcome, tracker *ProgressTracker) error {
	pool, err := ants.NewPool(c.config.Workers)
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range tasks {
		if ctx.Err() != nil {
			break
		}

		task := &tasks[i]
		if outcome, ok := archived[task.ArchiveID()]; ok {
			c.recordArchived(task, outcome, outcomes, tracker)
			continue
		}

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			if outcome := c.executeTask(ctx, task); outcome != nil {
				c.record(task, outcome, outcomes, tracker)
			}
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return fmt.Errorf("failed to submit task: %w", submitErr)
		}
	}

	wg.Wait()
	return ctx.Err()
}

// executeTask runs one task to completion: rate limit, then the remote
// call under the retry governor. Returns nil when cancellation pre-empts
// the task; a task that never ran to completion must not leave an outcome
// or a journal entry behind.
func (c *Coordinator) executeTask(ctx context.Context, task *core.Task) *core.Outcome {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil
	}

	outcome := &core.Outcome{
		PromptID: task.PromptID,
		Service:  task.Service,
		Language: task.Language,
		Prompt:   task.Prompt,
	}

	var response string
	err := RetryWithBackoff(ctx, func() error {
		var genErr error
		response, genErr = c.generator.Generate(ctx, ai.GenerationRequest{
			Prompt:      task.Prompt,
			Model:       task.Model,
			MaxTokens:   c.config.MaxTokens,
			Temperature: c.config.Temperature,
		})
		return genErr
	}, c.config.MaxAttempts, c.config.BaseDelay, c.config.MaxDelay)

	outcome.Timestamp = time.Now().UTC()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil
		}
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Response = response
	outcome.Success = true
	return outcome
}

// record stores a freshly produced outcome in its slot and runs the
// bookkeeping: counters, failure journal, attempt archive, progress.
// Journal and archive errors are logged, never fatal; losing a side
// record must not fail the batch.
func (c *Coordinator) record(task *core.Task, outcome *core.Outcome, outcomes []*core.Outcome, tracker *ProgressTracker) {
	outcomes[task.Index] = outcome

	if outcome.Success {
		c.counters.RecordSuccess()
	} else {
		c.counters.RecordFailure()
		c.logger.Error("task failed",
			"promptID", task.PromptID,
			"service", task.Service,
			"language", task.Language,
			"error", outcome.Error)

		if c.journal != nil {
			record := &core.FailureRecord{
				Timestamp: outcome.Timestamp,
				ContentID: task.PromptID,
				Service:   task.Service,
				Language:  task.Language,
				Prompt:    task.Prompt,
				Error:     outcome.Error,
			}
			if err := c.journal.Append(record); err != nil {
				c.logger.Error("failed to journal failure", "error", err)
			}
		}
	}

	if c.archive != nil {
		// Detached context: an archived outcome already cost a remote
		// call, so cancellation must not lose it.
		if err := c.archive.SaveOutcome(context.Background(), outcome); err != nil {
			c.logger.Error("failed to archive outcome",
				"promptID", task.PromptID,
				"error", err)
		}
	}

	if tracker != nil {
		tracker.Increment()
	}
}

// recordArchived fills a task's slot from a previously archived success.
func (c *Coordinator) recordArchived(task *core.Task, outcome *core.Outcome, outcomes []*core.Outcome, tracker *ProgressTracker) {
	outcomes[task.Index] = outcome
	c.counters.RecordSuccess()
	c.logger.Debug("reusing archived outcome",
		"promptID", task.PromptID,
		"service", task.Service,
		"language", task.Language)
	if tracker != nil {
		tracker.Increment()
	}
}
