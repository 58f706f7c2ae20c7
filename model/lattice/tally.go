package lattice

import (
	"math/bits"

	"github.com/holiman/uint256"
)

// EpochTally aggregates participation for one (target contract, epoch) pair.
// ParamsSnapshot freezes the parameter set in effect when the tally was first
// created, so later governance changes never retroactively alter the payout
// rules of a past epoch.
//
// Invariant: Participation[w] <= EventCount for every worker w.
type EpochTally struct {
	TargetContract Address            `json:"target_contract"`
	Epoch          Epoch              `json:"epoch"`
	EventCount     uint64             `json:"event_count"`
	Participation  map[Address]uint64 `json:"participation"`
	ParamsSnapshot Params             `json:"params_snapshot"`
}

// NewEpochTally returns an empty tally for the given contract and epoch,
// snapshotting the currently active params.
func NewEpochTally(target Address, epoch Epoch, params Params) *EpochTally {
	return &EpochTally{
		TargetContract: target,
		Epoch:          epoch,
		EventCount:     0,
		Participation:  make(map[Address]uint64),
		ParamsSnapshot: params,
	}
}

// RecordParticipation increments the participation count of the given worker.
func (t *EpochTally) RecordParticipation(worker Address) {
	if t.Participation == nil {
		t.Participation = make(map[Address]uint64)
	}
	t.Participation[worker]++
}

// WorkerRewards computes the payout of each threshold-eligible worker for this
// tally's epoch. The per-epoch reward is split evenly between all eligible
// workers using integer division; the remainder stays in the pool. A tally
// with no eligible workers yields an empty map.
func (t *EpochTally) WorkerRewards() map[Address]*uint256.Int {
	rewards := make(map[Address]*uint256.Int)

	eligible := uint64(0)
	for _, count := range t.Participation {
		if t.meetsThreshold(count) {
			eligible++
		}
	}
	if eligible == 0 {
		return rewards
	}

	share := new(uint256.Int).Div(t.ParamsSnapshot.RewardsPerEpoch, uint256.NewInt(eligible))
	if share.IsZero() {
		return rewards
	}
	for worker, count := range t.Participation {
		if t.meetsThreshold(count) {
			rewards[worker] = share.Clone()
		}
	}
	return rewards
}

// meetsThreshold reports whether count/EventCount >= Numerator/Denominator.
// The comparison cross-multiplies into 128 bits so it can never overflow.
func (t *EpochTally) meetsThreshold(count uint64) bool {
	th := t.ParamsSnapshot.ParticipationThreshold
	lhsHi, lhsLo := bits.Mul64(count, th.Denominator)
	rhsHi, rhsLo := bits.Mul64(t.EventCount, th.Numerator)
	if lhsHi != rhsHi {
		return lhsHi > rhsHi
	}
	return lhsLo >= rhsLo
}

// MergeRewards adds every payout in src into dst, initializing entries for
// workers that dst has not seen yet.
func MergeRewards(dst, src map[Address]*uint256.Int) map[Address]*uint256.Int {
	for worker, amount := range src {
		if existing, ok := dst[worker]; ok {
			dst[worker] = new(uint256.Int).Add(existing, amount)
			continue
		}
		dst[worker] = amount.Clone()
	}
	return dst
}
