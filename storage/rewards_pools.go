package storage

import (
	"github.com/lattice-foundation/lattice-go/model/lattice"
)

// RewardsPools represents persistent storage for per-contract reward pools.
type RewardsPools interface {

	// Save persists the pool under its target contract, overwriting any
	// previous version.
	Save(pool *lattice.RewardsPool) error

	// ByContract returns the pool of the given target contract.
	// Error returns:
	//   - storage.ErrNotFound if the pool was never funded
	ByContract(target lattice.Address) (*lattice.RewardsPool, error)
}
