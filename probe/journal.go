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
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/poiesic/probatch/core"
)

// FailureJournal appends one JSON line per exhausted task to a
// timestamp-named file. Records are flushed to disk on every append so the
// journal survives a crash mid-batch.
type FailureJournal struct {
	mu     sync.Mutex
	f      *os.File
	path   string
	logger *slog.Logger
}

// OpenFailureJournal creates a journal file named
// failed_prompts_<timestamp>.jsonl under dir, creating the directory if
// needed. Each run gets its own file.
func OpenFailureJournal(dir string) (*FailureJournal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	name := fmt.Sprintf("failed_prompts_%s.jsonl", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}

	return &FailureJournal{
		f:      f,
		path:   path,
		logger: slog.Default().With("component", "failure-journal"),
	}, nil
}

// Append writes one failure record as a single JSON line and syncs it to
// disk.
func (j *FailureJournal) Append(record *core.FailureRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal failure record: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := j.f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append failure record: %w", err)
	}
	if err := j.f.Sync(); err != nil {
		return fmt.Errorf("failed to sync journal: %w", err)
	}

	j.logger.Debug("failure journaled",
		"contentID", record.ContentID,
		"service", record.Service,
		"language", record.Language)
	return nil
}

// Path returns the journal file path.
func (j *FailureJournal) Path() string {
	return j.path
}

// Close closes the underlying file.
func (j *FailureJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.f.Close()
}
