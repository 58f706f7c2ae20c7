package lattice

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// ErrInsufficientBalance is returned when a pool debit would drive the balance
// negative. The debit is rejected outright, never clamped; topping up the pool
// and retrying is the expected recovery.
var ErrInsufficientBalance = errors.New("insufficient pool balance")

// RewardsPool holds the funds available for payout to workers of a single
// target contract.
type RewardsPool struct {
	TargetContract Address      `json:"target_contract"`
	Balance        *uint256.Int `json:"balance"`
}

// NewRewardsPool returns an empty pool for the given contract.
func NewRewardsPool(target Address) *RewardsPool {
	return &RewardsPool{
		TargetContract: target,
		Balance:        uint256.NewInt(0),
	}
}

// Add credits the pool by the given amount.
func (p *RewardsPool) Add(amount *uint256.Int) error {
	sum, overflow := new(uint256.Int).AddOverflow(p.Balance, amount)
	if overflow {
		return fmt.Errorf("pool balance overflow for contract %s", p.TargetContract)
	}
	p.Balance = sum
	return nil
}

// Sub debits the pool by the given amount.
//
// Expected error returns:
//   - ErrInsufficientBalance if the pool holds less than amount; the balance
//     is left unchanged in that case
func (p *RewardsPool) Sub(amount *uint256.Int) error {
	if p.Balance.Lt(amount) {
		return fmt.Errorf("pool for contract %s holds %s, need %s: %w",
			p.TargetContract, p.Balance.Dec(), amount.Dec(), ErrInsufficientBalance)
	}
	p.Balance = new(uint256.Int).Sub(p.Balance, amount)
	return nil
}
