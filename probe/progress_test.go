package probe

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_ReportsAtInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 5)

	tracker.Start()
	for i := 0; i < 4; i++ {
		tracker.Increment()
	}
	assert.Empty(t, buf.String(), "no report before interval crossed")

	tracker.Increment()
	assert.Contains(t, buf.String(), "5/10")
	assert.Contains(t, buf.String(), "50.0%")
	assert.Contains(t, buf.String(), "tasks/s")
}

func TestProgressTracker_Finish(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 3, 10)

	tracker.Start()
	tracker.Increment()
	tracker.Increment()
	tracker.Increment()
	tracker.Finish()

	assert.Contains(t, buf.String(), "3/3")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestProgressTracker_IgnoredWhenNotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Increment()
	tracker.Finish()
	assert.Empty(t, buf.String())
}

func TestProgressTracker_Elapsed(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	assert.Zero(t, tracker.Elapsed())
	tracker.Start()
	assert.GreaterOrEqual(t, tracker.Elapsed().Nanoseconds(), int64(0))
}

func TestRunCounters(t *testing.T) {
	var counters RunCounters

	assert.Zero(t, counters.Total())
	assert.Zero(t, counters.SuccessRate())

	counters.RecordSuccess()
	counters.RecordSuccess()
	counters.RecordSuccess()
	counters.RecordFailure()

	assert.Equal(t, int64(4), counters.Total())
	assert.Equal(t, int64(3), counters.Succeeded())
	assert.Equal(t, int64(1), counters.Failed())
	assert.InDelta(t, 0.75, counters.SuccessRate(), 1e-9)
}
