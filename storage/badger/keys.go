package badger

import (
	"fmt"

	"github.com/poiesic/probatch/core"
)

// Key prefixes for different data types
const (
	outcomePrefix = "outrec"
)

// makeOutcomeKey generates a key for an archived outcome by ID.
func makeOutcomeKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", outcomePrefix, id))
}
