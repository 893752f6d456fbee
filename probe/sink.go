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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/poiesic/probatch/core"
)

// resultColumns is the column order used by the tabular sinks (.csv and
// .xlsx). It matches the JSON field names of core.Outcome.
var resultColumns = []string{
	"prompt_id", "service", "language", "prompt",
	"response", "timestamp", "success", "error",
}

// ValidateOutputPath checks that the output path carries a supported
// extension. Called before any remote work so a typo in the path fails the
// run up front instead of after the whole batch has been paid for.
func ValidateOutputPath(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".json", ".jsonl", ".xlsx":
		return nil
	default:
		return core.NewConfigurationError("unsupported output format %q (use .csv, .json, .jsonl or .xlsx)", filepath.Ext(path))
	}
}

// WriteResults writes the batch outcomes to path, dispatching on the file
// extension. The parent directory is created if missing.
func WriteResults(outcomes []*core.Outcome, path string) error {
	if err := ValidateOutputPath(path); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return writeCSV(outcomes, path)
	case ".json":
		return writeJSON(outcomes, path)
	case ".jsonl":
		return writeJSONLines(outcomes, path)
	case ".xlsx":
		return writeXLSX(outcomes, path)
	}
	return nil // unreachable, ValidateOutputPath already rejected
}

func outcomeRow(o *core.Outcome) []string {
	return []string{
		o.PromptID,
		o.Service,
		o.Language,
		o.Prompt,
		o.Response,
		o.Timestamp.Format(time.RFC3339),
		strconv.FormatBool(o.Success),
		o.Error,
	}
}

func writeCSV(outcomes []*core.Outcome, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(resultColumns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, o := range outcomes {
		if err := w.Write(outcomeRow(o)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func writeJSON(outcomes []*core.Outcome, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcomes); err != nil {
		return fmt.Errorf("failed to encode outcomes: %w", err)
	}
	return nil
}

func writeJSONLines(outcomes []*core.Outcome, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, o := range outcomes {
		if err := enc.Encode(o); err != nil {
			return fmt.Errorf("failed to encode outcome: %w", err)
		}
	}
	return nil
}

func writeXLSX(outcomes []*core.Outcome, path string) error {
	book := excelize.NewFile()
	defer book.Close()

	sheet := book.GetSheetName(0)

	header := make([]interface{}, len(resultColumns))
	for i, col := range resultColumns {
		header[i] = col
	}
	if err := book.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write sheet header: %w", err)
	}

	for i, o := range outcomes {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		row := []interface{}{
			o.PromptID,
			o.Service,
			o.Language,
			o.Prompt,
			o.Response,
			o.Timestamp.Format(time.RFC3339),
			o.Success,
			o.Error,
		}
		if err := book.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write sheet row: %w", err)
		}
	}

	if err := book.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
