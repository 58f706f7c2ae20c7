package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/lattice-foundation/lattice-go/model/lattice"
	"github.com/lattice-foundation/lattice-go/storage/badger/operation"
)

// DistributionWatermarks implements persistent storage for per-contract
// distribution watermarks.
type DistributionWatermarks struct {
	db *badger.DB
}

func NewDistributionWatermarks(db *badger.DB) *DistributionWatermarks {
	return &DistributionWatermarks{
		db: db,
	}
}

func (w *DistributionWatermarks) Update(target lattice.Address, epochNum uint64) error {
	err := operation.RetryOnConflict(w.db.Update, operation.UpsertRewardsWatermark(target, epochNum))
	if err != nil {
		return fmt.Errorf("could not update rewards watermark: %w", err)
	}
	return nil
}

func (w *DistributionWatermarks) ByContract(target lattice.Address) (uint64, error) {
	var epochNum uint64
	err := w.db.View(operation.RetrieveRewardsWatermark(target, &epochNum))
	if err != nil {
		return 0, err
	}
	return epochNum, nil
}
