package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/lattice-foundation/lattice-go/model/lattice"
	"github.com/lattice-foundation/lattice-go/storage/badger/operation"
)

// RewardsParams implements persistent storage for the singleton reward
// parameter set.
type RewardsParams struct {
	db *badger.DB
}

func NewRewardsParams(db *badger.DB) *RewardsParams {
	return &RewardsParams{
		db: db,
	}
}

func (p *RewardsParams) Store(params *lattice.StoredParams) error {
	err := operation.RetryOnConflict(p.db.Update, operation.InsertRewardsParams(params))
	if err != nil {
		return fmt.Errorf("could not insert rewards params: %w", err)
	}
	return nil
}

func (p *RewardsParams) Save(params *lattice.StoredParams) error {
	err := operation.RetryOnConflict(p.db.Update, operation.UpdateRewardsParams(params))
	if err != nil {
		return fmt.Errorf("could not update rewards params: %w", err)
	}
	return nil
}

func (p *RewardsParams) Retrieve() (*lattice.StoredParams, error) {
	var params lattice.StoredParams
	err := p.db.View(operation.RetrieveRewardsParams(&params))
	if err != nil {
		return nil, err
	}
	return &params, nil
}
