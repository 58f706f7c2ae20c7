package rewards

import (
	"errors"
)

var (
	// ErrUnauthorized is returned when a parameter update comes from an
	// address other than the configured governance address.
	ErrUnauthorized = errors.New("sender is not the governance address")

	// ErrNoRewardsToDistribute is returned when no epoch is eligible for
	// payout yet, either because the payout delay has not elapsed or because
	// all eligible epochs were already settled. This is a benign condition;
	// callers polling for distribution are expected to see it regularly.
	ErrNoRewardsToDistribute = errors.New("no rewards ready for distribution")
)
