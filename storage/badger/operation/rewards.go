package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/lattice-foundation/lattice-go/model/lattice"
)

func InsertRewardsParams(params *lattice.StoredParams) func(*badger.Txn) error {
	return insert(makePrefix(codeRewardsParams), params)
}

func UpdateRewardsParams(params *lattice.StoredParams) func(*badger.Txn) error {
	return update(makePrefix(codeRewardsParams), params)
}

func RetrieveRewardsParams(params *lattice.StoredParams) func(*badger.Txn) error {
	return retrieve(makePrefix(codeRewardsParams), params)
}

func InsertParticipationEvent(event *lattice.ParticipationEvent) func(*badger.Txn) error {
	return insert(makePrefix(codeParticipationEvent, event.TargetContract, event.EventID), event)
}

func RetrieveParticipationEvent(target lattice.Address, eventID string, event *lattice.ParticipationEvent) func(*badger.Txn) error {
	return retrieve(makePrefix(codeParticipationEvent, target, eventID), event)
}

func UpsertEpochTally(tally *lattice.EpochTally) func(*badger.Txn) error {
	return upsert(makePrefix(codeEpochTally, tally.TargetContract, tally.Epoch.EpochNum), tally)
}

func RetrieveEpochTally(target lattice.Address, epochNum uint64, tally *lattice.EpochTally) func(*badger.Txn) error {
	return retrieve(makePrefix(codeEpochTally, target, epochNum), tally)
}

func UpsertRewardsPool(pool *lattice.RewardsPool) func(*badger.Txn) error {
	return upsert(makePrefix(codeRewardsPool, pool.TargetContract), pool)
}

func RetrieveRewardsPool(target lattice.Address, pool *lattice.RewardsPool) func(*badger.Txn) error {
	return retrieve(makePrefix(codeRewardsPool, target), pool)
}

func UpsertRewardsWatermark(target lattice.Address, epochNum uint64) func(*badger.Txn) error {
	return upsert(makePrefix(codeRewardsWatermark, target), epochNum)
}

func RetrieveRewardsWatermark(target lattice.Address, epochNum *uint64) func(*badger.Txn) error {
	return retrieve(makePrefix(codeRewardsWatermark, target), epochNum)
}
