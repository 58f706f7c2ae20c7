package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/lattice-foundation/lattice-go/model/lattice"
	"github.com/lattice-foundation/lattice-go/storage/badger/operation"
)

// EpochTallies implements persistent storage for per-epoch participation
// tallies.
type EpochTallies struct {
	db *badger.DB
}

func NewEpochTallies(db *badger.DB) *EpochTallies {
	return &EpochTallies{
		db: db,
	}
}

func (t *EpochTallies) Save(tally *lattice.EpochTally) error {
	err := operation.RetryOnConflict(t.db.Update, operation.UpsertEpochTally(tally))
	if err != nil {
		return fmt.Errorf("could not save epoch tally: %w", err)
	}
	return nil
}

func (t *EpochTallies) ByContractAndEpoch(target lattice.Address, epochNum uint64) (*lattice.EpochTally, error) {
	var tally lattice.EpochTally
	err := t.db.View(operation.RetrieveEpochTally(target, epochNum, &tally))
	if err != nil {
		return nil, err
	}
	return &tally, nil
}
