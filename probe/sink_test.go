package probe

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/poiesic/probatch/core"
)

func sampleOutcomes() []*core.Outcome {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []*core.Outcome{
		{
			PromptID:  "q001",
			Service:   "GPT-4o",
			Language:  "en",
			Prompt:    "What year did the Berlin Wall fall?",
			Response:  "1989.",
			Timestamp: now,
			Success:   true,
		},
		{
			PromptID:  "q001",
			Service:   "Claude-3.5-Sonnet",
			Language:  "cn",
			Prompt:    "柏林墙是哪一年倒塌的？",
			Timestamp: now.Add(time.Second),
			Success:   false,
			Error:     "remote call to Claude-3.5-Sonnet failed: status 503",
		},
	}
}

func TestValidateOutputPath(t *testing.T) {
	for _, path := range []string{"out.csv", "out.json", "out.jsonl", "out.xlsx", "OUT.CSV"} {
		assert.NoError(t, ValidateOutputPath(path), path)
	}

	err := ValidateOutputPath("out.txt")
	require.Error(t, err)
	assert.True(t, core.IsConfiguration(err))
	assert.Contains(t, err.Error(), ".txt")

	assert.Error(t, ValidateOutputPath("no-extension"))
}

func TestWriteResults_UnsupportedExtensionWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.parquet")
	err := WriteResults(sampleOutcomes(), path)
	require.Error(t, err)
	assert.True(t, core.IsConfiguration(err))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteResults_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	outcomes := sampleOutcomes()
	require.NoError(t, WriteResults(outcomes, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 outcomes

	assert.Equal(t, resultColumns, rows[0])
	assert.Equal(t, "q001", rows[1][0])
	assert.Equal(t, "GPT-4o", rows[1][1])
	assert.Equal(t, "1989.", rows[1][4])
	assert.Equal(t, "true", rows[1][6])
	assert.Equal(t, "false", rows[2][6])
	assert.Equal(t, "remote call to Claude-3.5-Sonnet failed: status 503", rows[2][7])
}

func TestWriteResults_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	outcomes := sampleOutcomes()
	require.NoError(t, WriteResults(outcomes, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []core.Outcome
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, outcomes[0].Response, decoded[0].Response)
	assert.Equal(t, outcomes[1].Error, decoded[1].Error)
}

func TestWriteResults_JSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	require.NoError(t, WriteResults(sampleOutcomes(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var count int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var outcome core.Outcome
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &outcome))
		count++
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, 2, count)
}

func TestWriteResults_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteResults(sampleOutcomes(), path))

	book, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(book.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, resultColumns, rows[0])
	assert.Equal(t, "q001", rows[1][0])
}

func TestWriteResults_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "out.csv")
	require.NoError(t, WriteResults(sampleOutcomes(), path))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteResults_EmptyBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteResults(nil, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only
}
