package lattice

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewardsPoolAdd(t *testing.T) {
	pool := NewRewardsPool("contract")
	require.True(t, pool.Balance.IsZero())

	require.NoError(t, pool.Add(uint256.NewInt(100)))
	assert.Equal(t, uint256.NewInt(100), pool.Balance)

	require.NoError(t, pool.Add(uint256.NewInt(500)))
	assert.Equal(t, uint256.NewInt(600), pool.Balance)
}

func TestRewardsPoolAddOverflow(t *testing.T) {
	pool := NewRewardsPool("contract")
	max := new(uint256.Int).SetAllOne()
	require.NoError(t, pool.Add(max))

	err := pool.Add(uint256.NewInt(1))
	require.Error(t, err)
	// balance untouched on overflow
	assert.Equal(t, max, pool.Balance)
}

func TestRewardsPoolSub(t *testing.T) {
	pool := NewRewardsPool("contract")
	require.NoError(t, pool.Add(uint256.NewInt(100)))

	require.NoError(t, pool.Sub(uint256.NewInt(60)))
	assert.Equal(t, uint256.NewInt(40), pool.Balance)

	// a debit below zero is rejected, not clamped
	err := pool.Sub(uint256.NewInt(41))
	require.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, uint256.NewInt(40), pool.Balance)

	// draining the pool exactly is fine
	require.NoError(t, pool.Sub(uint256.NewInt(40)))
	assert.True(t, pool.Balance.IsZero())
}
