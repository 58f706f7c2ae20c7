package storage

import (
	"github.com/lattice-foundation/lattice-go/model/lattice"
)

// DistributionWatermarks represents persistent storage for the highest epoch
// number already paid out per target contract. An absent watermark means no
// epoch was ever paid for that contract.
type DistributionWatermarks interface {

	// Update sets the watermark of the given contract to the given epoch
	// number, creating it if absent. Watermarks only ever move forward;
	// enforcing that is the engine's job, not the store's.
	Update(target lattice.Address, epochNum uint64) error

	// ByContract returns the highest epoch number paid for the given
	// contract.
	// Error returns:
	//   - storage.ErrNotFound if nothing was ever paid for that contract
	ByContract(target lattice.Address) (uint64, error)
}
