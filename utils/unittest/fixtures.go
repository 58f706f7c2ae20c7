package unittest

import (
	"github.com/holiman/uint256"

	"github.com/lattice-foundation/lattice-go/model/lattice"
)

// StoredParamsFixture returns a valid parameter set with its epoch checkpoint.
func StoredParamsFixture() lattice.StoredParams {
	return lattice.StoredParams{
		Params: lattice.Params{
			EpochDuration:   100,
			RewardsPerEpoch: uint256.NewInt(1000),
			ParticipationThreshold: lattice.Threshold{
				Numerator:   2,
				Denominator: 3,
			},
		},
		LastUpdated: lattice.Epoch{
			EpochNum:           1,
			BlockHeightStarted: 250,
		},
	}
}

// EpochTallyFixture returns an empty tally for the given contract and epoch
// number, with the epoch assumed to start at epochNum * duration.
func EpochTallyFixture(target lattice.Address, epochNum uint64) *lattice.EpochTally {
	params := StoredParamsFixture().Params
	epoch := lattice.Epoch{
		EpochNum:           epochNum,
		BlockHeightStarted: epochNum * params.EpochDuration,
	}
	return lattice.NewEpochTally(target, epoch, params)
}
