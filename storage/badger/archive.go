package badger

import (
	"context"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/probatch/core"
	"github.com/poiesic/probatch/storage"
)

// Archive implements storage.AttemptArchive for BadgerDB.
type Archive struct {
	backend *Backend
}

var _ storage.AttemptArchive = (*Archive)(nil)

// NewArchive opens an attempt archive backed by a BadgerDB database at path.
func NewArchive(path string) (storage.AttemptArchive, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return &Archive{backend: backend}, nil
}

// SaveOutcome stores an outcome under its archive ID, replacing any
// previous outcome for the same task identity.
func (a *Archive) SaveOutcome(ctx context.Context, outcome *core.Outcome) error {
	if a.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return a.backend.WithTx(func(tx *badger.Txn) error {
		key := makeOutcomeKey(outcome.ArchiveID())
		value := storage.MarshalOutcome(outcome)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetOutcome retrieves the outcome archived under id.
func (a *Archive) GetOutcome(ctx context.Context, id core.ID) (*core.Outcome, error) {
	if a.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var outcome *core.Outcome
	err := a.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		outcome, err = readOutcome(tx, makeOutcomeKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if outcome == nil {
		return nil, storage.ErrNotFound
	}
	return outcome, nil
}

// SucceededOutcomes returns all archived outcomes with Success=true, keyed
// by archive ID.
func (a *Archive) SucceededOutcomes(ctx context.Context) (map[core.ID]*core.Outcome, error) {
	if a.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	succeeded := make(map[core.ID]*core.Outcome)
	err := a.backend.WithTx(func(tx *badger.Txn) error {
		return iterateOutcomes(tx, func(outcome *core.Outcome) {
			if outcome.Success {
				succeeded[outcome.ArchiveID()] = outcome
			}
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return succeeded, nil
}

// ListOutcomes returns every archived outcome ordered by timestamp
// ascending.
func (a *Archive) ListOutcomes(ctx context.Context) ([]*core.Outcome, error) {
	if a.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var outcomes []*core.Outcome
	err := a.backend.WithTx(func(tx *badger.Txn) error {
		return iterateOutcomes(tx, func(outcome *core.Outcome) {
			outcomes = append(outcomes, outcome)
		})
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(outcomes, func(a, b *core.Outcome) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return outcomes, nil
}

// Close closes the underlying backend.
func (a *Archive) Close() error {
	return a.backend.Close()
}

// Helper methods

// readOutcome reads an outcome from the transaction.
// Returns nil (not an error) when the key is absent.
func readOutcome(tx *badger.Txn, key []byte) (*core.Outcome, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var outcome *core.Outcome
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		outcome, unmarshalErr = storage.UnmarshalOutcome(val)
		return unmarshalErr
	})
	return outcome, err
}

// iterateOutcomes visits every archived outcome within the transaction.
func iterateOutcomes(tx *badger.Txn, visit func(*core.Outcome)) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(outcomePrefix)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		var outcome *core.Outcome
		err := iter.Item().Value(func(val []byte) error {
			var unmarshalErr error
			outcome, unmarshalErr = storage.UnmarshalOutcome(val)
			return unmarshalErr
		})
		if err != nil {
			return err
		}
		if outcome != nil {
			visit(outcome)
		}
	}
	return nil
}
