package lattice

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// ErrBlockHeightInPast is returned when an operation references a block height
// lower than the height at which the epoch checkpoint was taken. Heights are
// supplied by the host and must never move backwards, so hitting this error
// indicates a caller inconsistency rather than a transient condition.
var ErrBlockHeightInPast = errors.New("block height is in the past")

// Epoch is a fixed-length accounting period, identified by a monotonically
// increasing number and anchored at the block height where it began. Epoch
// values are derived on the fly from the current height; only the checkpoint
// epoch inside StoredParams is ever persisted.
type Epoch struct {
	EpochNum           uint64 `json:"epoch_num"`
	BlockHeightStarted uint64 `json:"block_height_started"`
}

// Threshold is the minimum fraction of a tally's events a worker must have
// participated in to qualify for rewards.
type Threshold struct {
	Numerator   uint64 `json:"numerator"`
	Denominator uint64 `json:"denominator"`
}

// Params are the governance-controlled settings of the rewards engine.
type Params struct {
	// EpochDuration is the length of an epoch in blocks.
	EpochDuration uint64 `json:"epoch_duration"`
	// RewardsPerEpoch is the amount split between all eligible workers of a
	// single epoch.
	RewardsPerEpoch *uint256.Int `json:"rewards_per_epoch"`
	// ParticipationThreshold is the minimum participation ratio required for
	// a worker to receive a share of an epoch's rewards.
	ParticipationThreshold Threshold `json:"participation_threshold"`
}

// Validate checks the invariants of the parameter set.
func (p Params) Validate() error {
	if p.EpochDuration == 0 {
		return fmt.Errorf("epoch duration must be positive")
	}
	if p.RewardsPerEpoch == nil || p.RewardsPerEpoch.IsZero() {
		return fmt.Errorf("rewards per epoch must be positive")
	}
	if p.ParticipationThreshold.Denominator == 0 {
		return fmt.Errorf("participation threshold denominator must be positive")
	}
	if p.ParticipationThreshold.Numerator > p.ParticipationThreshold.Denominator {
		return fmt.Errorf("participation threshold must not exceed 1")
	}
	return nil
}

// StoredParams couples the active parameter set with the epoch checkpoint
// taken when the epoch duration was last changed. All epoch arithmetic is
// anchored at this checkpoint, never at height zero, so epoch numbering of
// past events stays stable across duration changes.
type StoredParams struct {
	Params      Params `json:"params"`
	LastUpdated Epoch  `json:"last_updated"`
}

// CurrentEpoch derives the epoch containing the given block height from the
// stored checkpoint. The returned epoch start is the greatest duration-aligned
// boundary at or below height, anchored at the checkpoint.
//
// Expected error returns:
//   - ErrBlockHeightInPast if height precedes the checkpoint height
func (sp StoredParams) CurrentEpoch(height uint64) (Epoch, error) {
	last := sp.LastUpdated
	if height < last.BlockHeightStarted {
		return Epoch{}, fmt.Errorf("height %d precedes epoch %d started at %d: %w",
			height, last.EpochNum, last.BlockHeightStarted, ErrBlockHeightInPast)
	}
	// elapsed*duration <= height-start, so neither operation below can overflow
	elapsed := (height - last.BlockHeightStarted) / sp.Params.EpochDuration
	return Epoch{
		EpochNum:           last.EpochNum + elapsed,
		BlockHeightStarted: last.BlockHeightStarted + elapsed*sp.Params.EpochDuration,
	}, nil
}
