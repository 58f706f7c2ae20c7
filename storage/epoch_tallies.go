package storage

import (
	"github.com/lattice-foundation/lattice-go/model/lattice"
)

// EpochTallies represents persistent storage for per-epoch participation
// tallies, keyed by (target contract, epoch number).
type EpochTallies interface {

	// Save persists the tally under (tally.TargetContract,
	// tally.Epoch.EpochNum), overwriting any previous version.
	Save(tally *lattice.EpochTally) error

	// ByContractAndEpoch returns the tally of the given contract for the
	// given epoch number.
	// Error returns:
	//   - storage.ErrNotFound if no participation was recorded for that epoch
	ByContractAndEpoch(target lattice.Address, epochNum uint64) (*lattice.EpochTally, error)
}
