package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/probatch/core"
	"github.com/poiesic/probatch/storage"
)

func newTestArchive(t *testing.T) storage.AttemptArchive {
	t.Helper()
	archive, err := NewMemoryArchive()
	require.NoError(t, err)
	t.Cleanup(func() { archive.Close() })
	return archive
}

func makeOutcome(promptID, language, service string, success bool, at time.Time) *core.Outcome {
	return &core.Outcome{
		PromptID:  promptID,
		Service:   service,
		Language:  language,
		Prompt:    "prompt for " + promptID,
		Response:  "response for " + promptID,
		Timestamp: at,
		Success:   success,
	}
}

func TestArchive_SaveAndGet(t *testing.T) {
	archive := newTestArchive(t)
	ctx := context.Background()

	outcome := makeOutcome("q001", "en", "GPT-4o", true, time.Now().UTC())
	require.NoError(t, archive.SaveOutcome(ctx, outcome))

	got, err := archive.GetOutcome(ctx, outcome.ArchiveID())
	require.NoError(t, err)
	assert.Equal(t, outcome.PromptID, got.PromptID)
	assert.Equal(t, outcome.Service, got.Service)
	assert.Equal(t, outcome.Language, got.Language)
	assert.Equal(t, outcome.Response, got.Response)
	assert.True(t, got.Success)
}

func TestArchive_GetMissing(t *testing.T) {
	archive := newTestArchive(t)

	_, err := archive.GetOutcome(context.Background(), core.IDFromContent("absent"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestArchive_SaveOverwritesSameIdentity(t *testing.T) {
	archive := newTestArchive(t)
	ctx := context.Background()

	first := makeOutcome("q001", "en", "GPT-4o", false, time.Now().UTC())
	first.Error = "remote call to GPT-4o failed: status 503"
	require.NoError(t, archive.SaveOutcome(ctx, first))

	second := makeOutcome("q001", "en", "GPT-4o", true, time.Now().UTC())
	require.NoError(t, archive.SaveOutcome(ctx, second))

	got, err := archive.GetOutcome(ctx, second.ArchiveID())
	require.NoError(t, err)
	assert.True(t, got.Success)
	assert.Empty(t, got.Error)
}

func TestArchive_SucceededOutcomes(t *testing.T) {
	archive := newTestArchive(t)
	ctx := context.Background()
	now := time.Now().UTC()

	ok1 := makeOutcome("q001", "en", "GPT-4o", true, now)
	ok2 := makeOutcome("q002", "cn", "Qwen-2.5-72B", true, now)
	bad := makeOutcome("q003", "en", "Claude-3.5-Sonnet", false, now)
	bad.Error = "empty response"

	for _, o := range []*core.Outcome{ok1, ok2, bad} {
		require.NoError(t, archive.SaveOutcome(ctx, o))
	}

	succeeded, err := archive.SucceededOutcomes(ctx)
	require.NoError(t, err)
	assert.Len(t, succeeded, 2)
	assert.Contains(t, succeeded, ok1.ArchiveID())
	assert.Contains(t, succeeded, ok2.ArchiveID())
	assert.NotContains(t, succeeded, bad.ArchiveID())
}

func TestArchive_ListOutcomesOrdered(t *testing.T) {
	archive := newTestArchive(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	// Save out of timestamp order
	third := makeOutcome("q003", "en", "GPT-4o", true, base.Add(2*time.Second))
	first := makeOutcome("q001", "en", "GPT-4o", true, base)
	second := makeOutcome("q002", "en", "GPT-4o", false, base.Add(time.Second))

	for _, o := range []*core.Outcome{third, first, second} {
		require.NoError(t, archive.SaveOutcome(ctx, o))
	}

	outcomes, err := archive.ListOutcomes(ctx)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.Equal(t, "q001", outcomes[0].PromptID)
	assert.Equal(t, "q002", outcomes[1].PromptID)
	assert.Equal(t, "q003", outcomes[2].PromptID)
}

func TestArchive_ClosedReturnsError(t *testing.T) {
	archive, err := NewMemoryArchive()
	require.NoError(t, err)
	require.NoError(t, archive.Close())

	outcome := makeOutcome("q001", "en", "GPT-4o", true, time.Now().UTC())
	assert.ErrorIs(t, archive.SaveOutcome(context.Background(), outcome), storage.ErrStorageClosed)

	_, err = archive.ListOutcomes(context.Background())
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
