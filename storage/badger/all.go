package badger

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/lattice-foundation/lattice-go/storage"
)

func InitAll(db *badger.DB) *storage.All {
	return &storage.All{
		RewardsParams:       NewRewardsParams(db),
		ParticipationEvents: NewParticipationEvents(db),
		EpochTallies:        NewEpochTallies(db),
		RewardsPools:        NewRewardsPools(db),
		Watermarks:          NewDistributionWatermarks(db),
	}
}
