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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/probatch/ai"
	"github.com/poiesic/probatch/ai/openai"
	"github.com/poiesic/probatch/core"
	"github.com/poiesic/probatch/probe"
	"github.com/poiesic/probatch/prompts"
	"github.com/poiesic/probatch/storage/badger"
)

const apiKeyEnv = "OPENROUTER_API_KEY"

func main() {
	app := &cli.App{
		Name:  "probatch",
		Usage: "Batch prompt dispatch across text-generation services",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Expand prompts across languages and services and dispatch the batch",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "prompt-file",
						Aliases:  []string{"p"},
						Usage:    "Path to YAML prompt file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Output path (.csv, .json, .jsonl or .xlsx)",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "services",
						Usage: "Service names to dispatch to",
						Value: cli.NewStringSlice("Llama-3.3-70B", "Qwen-2.5-72B", "GPT-4o", "Claude-3.5-Sonnet"),
					},
					&cli.StringSliceFlag{
						Name:  "prompt-ids",
						Usage: "Restrict the batch to these prompt IDs",
					},
					&cli.StringSliceFlag{
						Name:  "languages",
						Usage: "Language codes to expand",
						Value: cli.NewStringSlice("en", "cn"),
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "Generation service host URL",
						Value: "https://openrouter.ai/api/v1",
					},
					&cli.DurationFlag{
						Name:  "rate-limit",
						Usage: "Minimum spacing between remote call starts",
						Value: 1 * time.Second,
					},
					&cli.IntFlag{
						Name:  "max-attempts",
						Usage: "Maximum attempts per task, including the first",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "base-delay",
						Usage: "Base delay for exponential backoff",
						Value: 4 * time.Second,
					},
					&cli.DurationFlag{
						Name:  "max-delay",
						Usage: "Ceiling on the backoff delay",
						Value: 60 * time.Second,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent dispatch workers",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "max-tokens",
						Usage: "Response token ceiling per call",
						Value: 2000,
					},
					&cli.Float64Flag{
						Name:  "temperature",
						Usage: "Sampling temperature",
						Value: 0.7,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N tasks",
						Value: 10,
					},
					&cli.StringFlag{
						Name:  "log-dir",
						Usage: "Directory for failure journals",
						Value: "logs",
					},
					&cli.StringFlag{
						Name:  "archive",
						Usage: "Path to BadgerDB attempt archive directory",
					},
					&cli.BoolFlag{
						Name:  "resume",
						Usage: "Reuse archived successes instead of re-calling (requires --archive)",
					},
				},
			},
			{
				Name:   "prompts",
				Usage:  "List the prompts in a prompt file",
				Action: promptsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "prompt-file",
						Aliases:  []string{"p"},
						Usage:    "Path to YAML prompt file",
						Required: true,
					},
				},
			},
			{
				Name:   "export",
				Usage:  "Export archived outcomes to a results file",
				Action: exportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "archive",
						Usage:    "Path to BadgerDB attempt archive directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Output path (.csv, .json, .jsonl or .xlsx)",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runCommand(c *cli.Context) error {
	ctx, stop := signalContext()
	defer stop()

	// Reject a bad output path before any remote work
	outputPath := c.String("output")
	if err := probe.ValidateOutputPath(outputPath); err != nil {
		return err
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithAPIKey(os.Getenv(apiKeyEnv)),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid service configuration: %w", err)
	}

	// --languages selects what to expand; the prompt file is validated
	// against the recognized set, so a subset run leaves the other
	// variants loaded but unused.
	languages := c.StringSlice("languages")
	manager, err := loadPrompts(c.String("prompt-file"))
	if err != nil {
		return fmt.Errorf("failed to load prompts: %w", err)
	}

	items := manager.Items()
	if ids := c.StringSlice("prompt-ids"); len(ids) > 0 {
		var missing []string
		items, missing = manager.Subset(ids)
		if len(missing) > 0 {
			slog.Warn("some prompt IDs matched nothing", "missing", missing)
		}
	}
	if len(items) == 0 {
		return fmt.Errorf("no prompts selected")
	}

	services, unknown := probe.ResolveServices(c.StringSlice("services"), nil)
	for _, name := range unknown {
		slog.Warn("unknown service, skipping", "service", name)
	}
	if len(services) == 0 {
		return fmt.Errorf("no valid services selected")
	}

	tasks, warnings := probe.ExpandTasks(items, languages, services)
	for _, warning := range warnings {
		slog.Warn(warning.String())
	}
	if len(tasks) == 0 {
		return fmt.Errorf("expansion produced no tasks")
	}

	generator, err := openai.NewGenerator(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	journal, err := probe.OpenFailureJournal(c.String("log-dir"))
	if err != nil {
		return fmt.Errorf("failed to open failure journal: %w", err)
	}
	defer journal.Close()

	config := &probe.Config{
		MaxAttempts:    c.Int("max-attempts"),
		BaseDelay:      c.Duration("base-delay"),
		MaxDelay:       c.Duration("max-delay"),
		RateInterval:   c.Duration("rate-limit"),
		Workers:        c.Int("workers"),
		MaxTokens:      c.Int("max-tokens"),
		Temperature:    c.Float64("temperature"),
		ReportInterval: c.Int("report-interval"),
		Resume:         c.Bool("resume"),
	}

	opts := []probe.Option{
		probe.WithJournal(journal),
		probe.WithProgressWriter(os.Stderr),
	}
	if archivePath := c.String("archive"); archivePath != "" {
		archive, err := badger.NewArchive(archivePath)
		if err != nil {
			return fmt.Errorf("failed to open attempt archive: %w", err)
		}
		defer archive.Close()
		opts = append(opts, probe.WithArchive(archive))
	}

	coordinator, err := probe.NewCoordinator(generator, config, opts...)
	if err != nil {
		return fmt.Errorf("failed to create coordinator: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Prompt file: %s (version %s)\n", c.String("prompt-file"), manager.Version())
	fmt.Fprintf(os.Stderr, "Prompts: %d, languages: %s\n", len(items), strings.Join(languages, ", "))
	fmt.Fprintf(os.Stderr, "Services: %s\n", serviceNames(services))
	fmt.Fprintf(os.Stderr, "Tasks: %d\n", len(tasks))
	fmt.Fprintln(os.Stderr)

	outcomes, runErr := coordinator.Run(ctx, tasks)
	if len(outcomes) > 0 {
		if err := probe.WriteResults(outcomes, outputPath); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
	}
	if runErr != nil {
		return fmt.Errorf("batch dispatch failed: %w", runErr)
	}

	counters := coordinator.Counters()
	fmt.Fprintf(os.Stderr, "Done: %d tasks, %d succeeded, %d failed (%.1f%% success)\n",
		counters.Total(), counters.Succeeded(), counters.Failed(), counters.SuccessRate()*100)
	fmt.Fprintf(os.Stderr, "Results: %s\n", outputPath)
	if counters.Failed() > 0 {
		fmt.Fprintf(os.Stderr, "Failure journal: %s\n", journal.Path())
	}

	return nil
}

func promptsCommand(c *cli.Context) error {
	manager, err := loadPrompts(c.String("prompt-file"))
	if err != nil {
		return fmt.Errorf("failed to load prompts: %w", err)
	}

	fmt.Printf("Version: %s\n", manager.Version())
	for _, category := range manager.Categories() {
		fmt.Printf("\n%s:\n", category)
		for _, item := range manager.Items() {
			if item.Category != category {
				continue
			}
			fmt.Printf("  %s [%s]", item.ID, strings.Join(item.Languages(), ", "))
			if item.Description != "" {
				fmt.Printf("  %s", item.Description)
			}
			fmt.Println()
		}
	}

	counts := manager.CategoryCounts()
	categories := make([]string, 0, len(counts))
	for category := range counts {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	fmt.Printf("\nTotal: %d prompts in %d categories\n", len(manager.Items()), len(categories))
	return nil
}

func exportCommand(c *cli.Context) error {
	outputPath := c.String("output")
	if err := probe.ValidateOutputPath(outputPath); err != nil {
		return err
	}

	archive, err := badger.NewArchive(c.String("archive"))
	if err != nil {
		return fmt.Errorf("failed to open attempt archive: %w", err)
	}
	defer archive.Close()

	outcomes, err := archive.ListOutcomes(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list archived outcomes: %w", err)
	}
	if len(outcomes) == 0 {
		return fmt.Errorf("archive contains no outcomes")
	}

	if err := probe.WriteResults(outcomes, outputPath); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Exported %d outcomes to %s\n", len(outcomes), outputPath)
	return nil
}

// loadPrompts validates the prompt file against the recognized language
// set, independent of which languages a run expands.
func loadPrompts(path string) (*prompts.Manager, error) {
	return prompts.NewManager(path, core.DefaultLanguages)
}

// signalContext returns a context cancelled on SIGINT/SIGTERM, so an
// interrupted run still flushes the outcomes it has already paid for.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func serviceNames(services []core.ServiceTarget) string {
	names := make([]string, len(services))
	for i, service := range services {
		names[i] = service.Name
	}
	return strings.Join(names, ", ")
}

func setupLogger(c *cli.Context) error {
	// Pick up OPENROUTER_API_KEY and friends from a local .env, if present
	_ = godotenv.Load()

	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	return nil
}
