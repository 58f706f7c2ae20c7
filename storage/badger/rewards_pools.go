package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/lattice-foundation/lattice-go/model/lattice"
	"github.com/lattice-foundation/lattice-go/storage/badger/operation"
)

// RewardsPools implements persistent storage for per-contract reward pools.
type RewardsPools struct {
	db *badger.DB
}

func NewRewardsPools(db *badger.DB) *RewardsPools {
	return &RewardsPools{
		db: db,
	}
}

func (p *RewardsPools) Save(pool *lattice.RewardsPool) error {
	err := operation.RetryOnConflict(p.db.Update, operation.UpsertRewardsPool(pool))
	if err != nil {
		return fmt.Errorf("could not save rewards pool: %w", err)
	}
	return nil
}

func (p *RewardsPools) ByContract(target lattice.Address) (*lattice.RewardsPool, error) {
	var pool lattice.RewardsPool
	err := p.db.View(operation.RetrieveRewardsPool(target, &pool))
	if err != nil {
		return nil, err
	}
	return &pool, nil
}
