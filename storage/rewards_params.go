package storage

import (
	"github.com/lattice-foundation/lattice-go/model/lattice"
)

// RewardsParams represents persistent storage for the active reward parameter
// set and its epoch checkpoint. There is exactly one StoredParams record.
type RewardsParams interface {

	// Store persists the initial parameter set.
	// Error returns:
	//   - storage.ErrAlreadyExists if params were already initialized
	Store(params *lattice.StoredParams) error

	// Save replaces the parameter set.
	// Error returns:
	//   - storage.ErrNotFound if params were never initialized
	Save(params *lattice.StoredParams) error

	// Retrieve returns the active parameter set.
	// Error returns:
	//   - storage.ErrNotFound if params were never initialized
	Retrieve() (*lattice.StoredParams, error)
}
