package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/probatch/core"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("q001|en|GPT-4o")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotNil(t, data)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalOutcome(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name    string
		outcome *core.Outcome
	}{
		{
			name: "successful outcome",
			outcome: &core.Outcome{
				PromptID:  "q001",
				Service:   "GPT-4o",
				Language:  "en",
				Prompt:    "What year did the Berlin Wall fall?",
				Response:  "The Berlin Wall fell in 1989.",
				Timestamp: now,
				Success:   true,
			},
		},
		{
			name: "failed outcome with error",
			outcome: &core.Outcome{
				PromptID:  "q002",
				Service:   "Claude-3.5-Sonnet",
				Language:  "cn",
				Prompt:    "柏林墙是哪一年倒塌的？",
				Timestamp: now,
				Success:   false,
				Error:     "remote call to Claude-3.5-Sonnet failed: status 503",
			},
		},
		{
			name: "empty response",
			outcome: &core.Outcome{
				PromptID:  "q003",
				Service:   "Qwen-2.5-72B",
				Language:  "en",
				Prompt:    "Describe the event.",
				Timestamp: now,
				Success:   false,
				Error:     "empty response",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalOutcome(tt.outcome)
			require.NotNil(t, data)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalOutcome(data)
			require.NoError(t, err)
			require.NotNil(t, decoded)

			assert.Equal(t, tt.outcome.PromptID, decoded.PromptID)
			assert.Equal(t, tt.outcome.Service, decoded.Service)
			assert.Equal(t, tt.outcome.Language, decoded.Language)
			assert.Equal(t, tt.outcome.Prompt, decoded.Prompt)
			assert.Equal(t, tt.outcome.Response, decoded.Response)
			assert.True(t, tt.outcome.Timestamp.Equal(decoded.Timestamp))
			assert.Equal(t, tt.outcome.Success, decoded.Success)
			assert.Equal(t, tt.outcome.Error, decoded.Error)
		})
	}
}

func TestUnmarshalOutcome_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"partial data", []byte{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalOutcome(tt.data)
			assert.Error(t, err)
		})
	}
}
