package storage

import (
	"context"

	"github.com/poiesic/probatch/core"
)

// AttemptArchive persists task outcomes keyed by their content-addressed
// archive IDs. It backs resumable runs: a batch restarted with the same
// inputs can reuse archived successes instead of paying for the remote
// calls again. Implementations must be thread-safe.
type AttemptArchive interface {
	// SaveOutcome stores an outcome under its ArchiveID, overwriting any
	// previous outcome for the same task identity. Re-running a task thus
	// keeps only the latest attempt's result.
	SaveOutcome(ctx context.Context, outcome *core.Outcome) error

	// GetOutcome retrieves the outcome for an archive ID.
	// Returns ErrNotFound if nothing is archived under the ID.
	GetOutcome(ctx context.Context, id core.ID) (*core.Outcome, error)

	// SucceededOutcomes returns all archived outcomes with Success=true,
	// keyed by archive ID. Used to seed a resumed run.
	SucceededOutcomes(ctx context.Context) (map[core.ID]*core.Outcome, error)

	// ListOutcomes returns every archived outcome ordered by timestamp
	// ascending.
	ListOutcomes(ctx context.Context) ([]*core.Outcome, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
