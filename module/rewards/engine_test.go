package rewards_test

import (
	"fmt"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-foundation/lattice-go/model/lattice"
	"github.com/lattice-foundation/lattice-go/module/metrics"
	"github.com/lattice-foundation/lattice-go/module/rewards"
	"github.com/lattice-foundation/lattice-go/storage"
	"github.com/lattice-foundation/lattice-go/storage/inmem"
	"github.com/lattice-foundation/lattice-go/utils/unittest"
)

const governance = lattice.Address("governance")

// testEngine returns an engine over fresh in-memory stores, seeded with the
// given parameter checkpoint.
func testEngine(t *testing.T, stored lattice.StoredParams) (*rewards.Engine, *storage.All) {
	stores := inmem.NewRewardsState().All()
	engine, err := rewards.New(unittest.Logger(), metrics.NewNoopCollector(), rewards.Config{Governance: governance}, stores)
	require.NoError(t, err)
	require.NoError(t, stores.RewardsParams.Store(&stored))
	return engine, stores
}

func storedParams(epochNum, heightStarted, duration, rewardsPerEpoch, numerator, denominator uint64) lattice.StoredParams {
	return lattice.StoredParams{
		Params: lattice.Params{
			EpochDuration:   duration,
			RewardsPerEpoch: uint256.NewInt(rewardsPerEpoch),
			ParticipationThreshold: lattice.Threshold{
				Numerator:   numerator,
				Denominator: denominator,
			},
		},
		LastUpdated: lattice.Epoch{
			EpochNum:           epochNum,
			BlockHeightStarted: heightStarted,
		},
	}
}

func TestInitialize(t *testing.T) {
	stores := inmem.NewRewardsState().All()
	engine, err := rewards.New(unittest.Logger(), metrics.NewNoopCollector(), rewards.Config{Governance: governance}, stores)
	require.NoError(t, err)

	params := storedParams(0, 0, 100, 1000, 2, 3).Params
	err = engine.Initialize(params, 500)
	require.NoError(t, err)

	stored, err := engine.Params()
	require.NoError(t, err)
	assert.Equal(t, params, stored.Params)
	assert.Equal(t, lattice.Epoch{EpochNum: 0, BlockHeightStarted: 500}, stored.LastUpdated)

	// a second initialization must be rejected
	err = engine.Initialize(params, 600)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestInitializeInvalidParams(t *testing.T) {
	stores := inmem.NewRewardsState().All()
	engine, err := rewards.New(unittest.Logger(), metrics.NewNoopCollector(), rewards.Config{Governance: governance}, stores)
	require.NoError(t, err)

	params := storedParams(0, 0, 100, 1000, 2, 3).Params
	params.EpochDuration = 0
	require.Error(t, engine.Initialize(params, 0))
}

func TestRecordParticipationMultipleEvents(t *testing.T) {
	engine, stores := testEngine(t, storedParams(1, 250, 100, 1000, 2, 3))
	target := lattice.Address("some contract")

	participation := map[lattice.Address]uint64{
		"worker_1": 10,
		"worker_2": 5,
		"worker_3": 7,
	}

	// each worker reports the first N of 10 events, one event per block
	eventCount := uint64(10)
	height := uint64(250)
	for i := uint64(0); i < eventCount; i++ {
		for worker, count := range participation {
			if i < count {
				err := engine.RecordParticipation(fmt.Sprintf("%d", i), worker, target, height)
				require.NoError(t, err)
			}
		}
		height++
	}

	tally, err := stores.EpochTallies.ByContractAndEpoch(target, 1)
	require.NoError(t, err)
	assert.Equal(t, eventCount, tally.EventCount)
	assert.Len(t, tally.Participation, len(participation))
	for worker, count := range participation {
		assert.Equal(t, count, tally.Participation[worker])
	}
}

func TestRecordParticipationEpochBoundary(t *testing.T) {
	engine, stores := testEngine(t, storedParams(1, 250, 100, 1000, 2, 3))
	target := lattice.Address("some contract")

	workers := []lattice.Address{"worker_1", "worker_2", "worker_3"}

	// reports of the same event arrive in consecutive blocks, straddling the
	// epoch boundary at height 350
	heightAtEpochEnd := uint64(250 + 100 - 1)
	for i, worker := range workers {
		err := engine.RecordParticipation("some event", worker, target, heightAtEpochEnd+uint64(i))
		require.NoError(t, err)
	}

	// the event stays bound to the epoch of its first report
	tally, err := stores.EpochTallies.ByContractAndEpoch(target, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tally.EventCount)
	assert.Len(t, tally.Participation, len(workers))
	for _, worker := range workers {
		assert.Equal(t, uint64(1), tally.Participation[worker])
	}

	_, err = stores.EpochTallies.ByContractAndEpoch(target, 2)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRecordParticipationMultipleContracts(t *testing.T) {
	engine, stores := testEngine(t, storedParams(1, 250, 100, 1000, 2, 3))

	participation := map[lattice.Address]struct {
		target lattice.Address
		events uint64
	}{
		"worker_1": {"contract_1", 3},
		"worker_2": {"contract_2", 4},
		"worker_3": {"contract_3", 2},
	}

	for worker, p := range participation {
		for i := uint64(0); i < p.events; i++ {
			err := engine.RecordParticipation(fmt.Sprintf("%d", i), worker, p.target, 250)
			require.NoError(t, err)
		}
	}

	for worker, p := range participation {
		tally, err := stores.EpochTallies.ByContractAndEpoch(p.target, 1)
		require.NoError(t, err)
		assert.Equal(t, p.events, tally.EventCount)
		assert.Len(t, tally.Participation, 1)
		assert.Equal(t, p.events, tally.Participation[worker])
	}
}

func TestRecordParticipationHeightInPast(t *testing.T) {
	engine, _ := testEngine(t, storedParams(1, 250, 100, 1000, 2, 3))

	err := engine.RecordParticipation("event", "worker", "contract", 249)
	require.ErrorIs(t, err, lattice.ErrBlockHeightInPast)
}

func TestUpdateParams(t *testing.T) {
	initial := storedParams(1, 250, 100, 100, 1, 2)
	engine, _ := testEngine(t, initial)

	// keep the duration unchanged so the epoch computation is unaffected
	curHeight := uint64(250 + 100*10 + 2)
	expectedEpoch, err := initial.CurrentEpoch(curHeight)
	require.NoError(t, err)

	newParams := lattice.Params{
		EpochDuration:          100,
		RewardsPerEpoch:        uint256.NewInt(200),
		ParticipationThreshold: lattice.Threshold{Numerator: 2, Denominator: 3},
	}
	err = engine.UpdateParams(newParams, curHeight, governance)
	require.NoError(t, err)

	stored, err := engine.Params()
	require.NoError(t, err)
	assert.Equal(t, newParams, stored.Params)

	// updating the params snapshots the current epoch as the new checkpoint
	assert.Equal(t, expectedEpoch, stored.LastUpdated)

	cur, err := stored.CurrentEpoch(curHeight)
	require.NoError(t, err)
	assert.Equal(t, expectedEpoch, cur)
}

func TestUpdateParamsUnauthorized(t *testing.T) {
	initial := storedParams(1, 250, 100, 100, 1, 2)
	engine, _ := testEngine(t, initial)

	err := engine.UpdateParams(initial.Params, 260, "some worker")
	require.ErrorIs(t, err, rewards.ErrUnauthorized)

	// params must be unchanged
	stored, err := engine.Params()
	require.NoError(t, err)
	assert.Equal(t, &initial, stored)
}

// Extending the epoch duration must not change the current epoch.
func TestUpdateParamsExtendEpochDuration(t *testing.T) {
	initial := storedParams(1, 250, 100, 1000, 2, 3)
	engine, _ := testEngine(t, initial)

	// a little past the boundary, 5 epochs in
	curHeight := uint64(250 + 100*5 + 10)
	epochBefore, err := initial.CurrentEpoch(curHeight)
	require.NoError(t, err)

	newParams := initial.Params
	newParams.EpochDuration = 200
	err = engine.UpdateParams(newParams, curHeight, governance)
	require.NoError(t, err)

	stored, err := engine.Params()
	require.NoError(t, err)

	epoch, err := stored.CurrentEpoch(curHeight)
	require.NoError(t, err)
	assert.Equal(t, epochBefore, epoch)

	// the old duration no longer ends the epoch
	epoch, err = stored.CurrentEpoch(curHeight + 100)
	require.NoError(t, err)
	assert.Equal(t, epochBefore, epoch)

	// the next epoch starts one new duration after the old start
	next, err := stored.CurrentEpoch(curHeight + 200)
	require.NoError(t, err)
	assert.Equal(t, epochBefore.EpochNum+1, next.EpochNum)
	assert.Equal(t, epochBefore.BlockHeightStarted+200, next.BlockHeightStarted)
}

// Shortening the duration while staying within the new bound keeps the
// current epoch.
func TestUpdateParamsShortenEpochDurationSameEpoch(t *testing.T) {
	initial := storedParams(1, 256, 100, 1000, 2, 3)
	engine, _ := testEngine(t, initial)

	// exactly on an epoch boundary, so we are 0 blocks into the epoch
	curHeight := uint64(256 + 100*10)
	epochBefore, err := initial.CurrentEpoch(curHeight)
	require.NoError(t, err)
	require.Less(t, curHeight-epochBefore.BlockHeightStarted, uint64(50))

	newParams := initial.Params
	newParams.EpochDuration = 50
	err = engine.UpdateParams(newParams, curHeight, governance)
	require.NoError(t, err)

	stored, err := engine.Params()
	require.NoError(t, err)

	epoch, err := stored.CurrentEpoch(curHeight)
	require.NoError(t, err)
	assert.Equal(t, epochBefore, epoch)

	// one new duration later the epoch number advances by exactly one
	epoch, err = stored.CurrentEpoch(curHeight + 50)
	require.NoError(t, err)
	assert.Equal(t, epochBefore.EpochNum+1, epoch.EpochNum)
	assert.Equal(t, epochBefore.BlockHeightStarted+50, epoch.BlockHeightStarted)
}

// Shortening the duration below the blocks already elapsed opens a new epoch
// at the update height, advancing the number by exactly one.
func TestUpdateParamsShortenEpochDurationNewEpoch(t *testing.T) {
	initial := storedParams(1, 250, 100, 1000, 2, 3)
	engine, _ := testEngine(t, initial)

	// 20 blocks into the epoch, then shorten the duration to 10
	curHeight := uint64(250 + 100*100 + 10*2)
	epochBefore, err := initial.CurrentEpoch(curHeight)
	require.NoError(t, err)

	newParams := initial.Params
	newParams.EpochDuration = 10
	err = engine.UpdateParams(newParams, curHeight, governance)
	require.NoError(t, err)

	stored, err := engine.Params()
	require.NoError(t, err)

	epoch, err := stored.CurrentEpoch(curHeight)
	require.NoError(t, err)
	assert.Equal(t, epochBefore.EpochNum+1, epoch.EpochNum)
	assert.Equal(t, curHeight, epoch.BlockHeightStarted)

	epoch, err = stored.CurrentEpoch(curHeight + 10)
	require.NoError(t, err)
	assert.Equal(t, epochBefore.EpochNum+2, epoch.EpochNum)
	assert.Equal(t, curHeight+10, epoch.BlockHeightStarted)
}

func TestAddRewards(t *testing.T) {
	engine, _ := testEngine(t, storedParams(1, 250, 100, 1000, 2, 3))
	target := lattice.Address("some contract")

	balance, err := engine.PoolBalance(target)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	err = engine.AddRewards(target, uint256.NewInt(100))
	require.NoError(t, err)

	balance, err = engine.PoolBalance(target)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(100), balance)

	err = engine.AddRewards(target, uint256.NewInt(500))
	require.NoError(t, err)

	balance, err = engine.PoolBalance(target)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(600), balance)
}

func TestAddRewardsZeroAmount(t *testing.T) {
	engine, _ := testEngine(t, storedParams(1, 250, 100, 1000, 2, 3))

	require.Error(t, engine.AddRewards("some contract", uint256.NewInt(0)))
	require.Error(t, engine.AddRewards("some contract", nil))
}

func TestAddRewardsMultipleContracts(t *testing.T) {
	engine, _ := testEngine(t, storedParams(1, 250, 100, 1000, 2, 3))

	funding := map[lattice.Address][]uint64{
		"contract_1": {100, 200, 50},
		"contract_2": {25, 500, 70},
		"contract_3": {1000, 500, 2000},
	}

	for target, amounts := range funding {
		for _, amount := range amounts {
			err := engine.AddRewards(target, uint256.NewInt(amount))
			require.NoError(t, err)
		}
	}

	for target, amounts := range funding {
		total := uint64(0)
		for _, amount := range amounts {
			total += amount
		}
		balance, err := engine.PoolBalance(target)
		require.NoError(t, err)
		assert.Equal(t, uint256.NewInt(total), balance)
	}
}

func TestDistributeRewards(t *testing.T) {
	// epoch numbering starts at 0 with rewards of 100 per epoch and a 2/3
	// participation threshold
	engine, _ := testEngine(t, storedParams(0, 0, 1000, 100, 2, 3))
	target := lattice.Address("worker_contract")

	// Four epochs of activity with three possible events per epoch. The
	// values name the events each worker reported in that epoch:
	//   epoch 0: 3 events, worker1 and worker3 meet the threshold
	//   epoch 1: no events at all
	//   epoch 2: 3 events, nobody meets the threshold
	//   epoch 3: 3 events, everybody meets the threshold
	participation := map[lattice.Address][4][]int{
		"worker1": {{1, 2, 3}, {}, {1}, {2, 3}},
		"worker2": {{}, {}, {2}, {1, 2, 3}},
		"worker3": {{1, 2}, {}, {3}, {1, 2}},
		"worker4": {{1}, {}, {2}, {2, 3}},
	}
	expected := map[lattice.Address]*uint256.Int{
		"worker1": uint256.NewInt(50 + 25),
		"worker2": uint256.NewInt(25),
		"worker3": uint256.NewInt(50 + 25),
		"worker4": uint256.NewInt(25),
	}

	for worker, perEpoch := range participation {
		for epoch, events := range perEpoch {
			for _, event := range events {
				eventID := fmt.Sprintf("%d%devent", event, epoch)
				err := engine.RecordParticipation(eventID, worker, target, uint64(epoch)*1000)
				require.NoError(t, err)
			}
		}
	}

	// only two of the four epochs pay out, so two epochs worth of funding
	// must cover the whole distribution
	err := engine.AddRewards(target, uint256.NewInt(2*100))
	require.NoError(t, err)

	payouts, err := engine.DistributeRewards(target, 6*1000, 0)
	require.NoError(t, err)
	assert.Equal(t, expected, payouts)

	// the pool is fully drained
	balance, err := engine.PoolBalance(target)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestDistributeRewardsEpochCount(t *testing.T) {
	engine, _ := testEngine(t, storedParams(0, 0, 1000, 100, 1, 2))
	target := lattice.Address("worker_contract")
	worker := lattice.Address("worker")

	// one event per block for 9 epochs, all reported by the same worker
	for height := uint64(0); height < 9*1000; height++ {
		err := engine.RecordParticipation(fmt.Sprintf("%devent", height), worker, target, height)
		require.NoError(t, err)
	}

	err := engine.AddRewards(target, uint256.NewInt(1000))
	require.NoError(t, err)

	// at epoch 9, epochs 0 through 7 are payable; settle the first 5
	curHeight := uint64(9 * 1000)
	payouts, err := engine.DistributeRewards(target, curHeight, 5)
	require.NoError(t, err)
	require.Len(t, payouts, 1)
	assert.Equal(t, uint256.NewInt(5*100), payouts[worker])

	// the default limit covers the remaining 3 epochs
	payouts, err = engine.DistributeRewards(target, curHeight, 0)
	require.NoError(t, err)
	require.Len(t, payouts, 1)
	assert.Equal(t, uint256.NewInt(3*100), payouts[worker])
}

func TestDistributeRewardsTooEarly(t *testing.T) {
	engine, _ := testEngine(t, storedParams(0, 0, 1000, 100, 8, 10))
	target := lattice.Address("worker_contract")
	worker := lattice.Address("worker")

	err := engine.RecordParticipation("event", worker, target, 0)
	require.NoError(t, err)

	err = engine.AddRewards(target, uint256.NewInt(1000))
	require.NoError(t, err)

	// still in the same epoch
	_, err = engine.DistributeRewards(target, 0, 0)
	require.ErrorIs(t, err, rewards.ErrNoRewardsToDistribute)

	// next epoch, but the payout delay has not elapsed
	_, err = engine.DistributeRewards(target, 1000, 0)
	require.ErrorIs(t, err, rewards.ErrNoRewardsToDistribute)

	// two epochs after participation the epoch becomes payable
	payouts, err := engine.DistributeRewards(target, 2*1000, 0)
	require.NoError(t, err)
	assert.Len(t, payouts, 1)

	// settling again at the same height yields nothing new
	_, err = engine.DistributeRewards(target, 2*1000, 0)
	require.ErrorIs(t, err, rewards.ErrNoRewardsToDistribute)
}

func TestDistributeRewardsLowBalance(t *testing.T) {
	engine, stores := testEngine(t, storedParams(0, 0, 1000, 100, 8, 10))
	target := lattice.Address("worker_contract")
	worker := lattice.Address("worker")

	err := engine.RecordParticipation("event", worker, target, 0)
	require.NoError(t, err)

	// the epoch pays 100, but only 10 is funded
	err = engine.AddRewards(target, uint256.NewInt(10))
	require.NoError(t, err)

	_, err = engine.DistributeRewards(target, 2*1000, 0)
	require.ErrorIs(t, err, lattice.ErrInsufficientBalance)

	// the failed distribution must leave pool and watermark untouched
	balance, err := engine.PoolBalance(target)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(10), balance)
	_, err = stores.Watermarks.ByContract(target)
	require.ErrorIs(t, err, storage.ErrNotFound)

	// topping up makes the same distribution succeed
	err = engine.AddRewards(target, uint256.NewInt(90))
	require.NoError(t, err)

	payouts, err := engine.DistributeRewards(target, 2*1000, 0)
	require.NoError(t, err)
	require.Len(t, payouts, 1)
	assert.Equal(t, uint256.NewInt(100), payouts[worker])
}

func TestDistributeRewardsAlreadyDistributed(t *testing.T) {
	engine, stores := testEngine(t, storedParams(0, 0, 1000, 100, 8, 10))
	target := lattice.Address("worker_contract")
	worker := lattice.Address("worker")

	err := engine.RecordParticipation("event", worker, target, 0)
	require.NoError(t, err)

	err = engine.AddRewards(target, uint256.NewInt(1000))
	require.NoError(t, err)

	payouts, err := engine.DistributeRewards(target, 2*1000, 0)
	require.NoError(t, err)
	assert.Len(t, payouts, 1)

	watermark, err := stores.Watermarks.ByContract(target)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), watermark)

	_, err = engine.DistributeRewards(target, 2*1000, 0)
	require.ErrorIs(t, err, rewards.ErrNoRewardsToDistribute)
}
