// Package rewards implements the accounting core of the reward distribution
// module. It tracks worker participation in verifiable events per epoch and
// periodically converts accumulated participation into payouts drawn from a
// per-contract reward pool.
//
// The engine executes inside the host state machine's transaction model: every
// operation is synchronous and serial, heights are supplied by the host, and
// an error return means no state was committed by the failed operation.
package rewards

import (
	"errors"
	"fmt"
	"math"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"github.com/lattice-foundation/lattice-go/model/lattice"
	"github.com/lattice-foundation/lattice-go/module"
	"github.com/lattice-foundation/lattice-go/storage"
)

const (
	// DefaultEpochsToProcess bounds how many epochs a single distribution
	// call settles when the caller does not specify a limit.
	DefaultEpochsToProcess uint64 = 10

	// EpochPayoutDelay is the number of epochs that must fully elapse before
	// an epoch becomes payable. The delay leaves a window for participation
	// reports of an epoch's final moments to arrive before settlement.
	EpochPayoutDelay uint64 = 2
)

// Config holds the static configuration of the rewards engine.
type Config struct {
	// Governance is the only address allowed to update reward parameters.
	Governance lattice.Address
}

// Engine orchestrates participation recording, reward distribution, pool
// funding and parameter updates over the rewards storage abstractions.
type Engine struct {
	log        zerolog.Logger
	metrics    module.RewardsMetrics
	cfg        Config
	params     storage.RewardsParams
	events     storage.ParticipationEvents
	tallies    storage.EpochTallies
	pools      storage.RewardsPools
	watermarks storage.DistributionWatermarks
}

// New returns a rewards engine operating on the given stores.
func New(log zerolog.Logger, metrics module.RewardsMetrics, cfg Config, stores *storage.All) (*Engine, error) {
	if cfg.Governance == lattice.EmptyAddress {
		return nil, fmt.Errorf("governance address must be set")
	}

	e := &Engine{
		log:        log.With().Str("engine", "rewards").Logger(),
		metrics:    metrics,
		cfg:        cfg,
		params:     stores.RewardsParams,
		events:     stores.ParticipationEvents,
		tallies:    stores.EpochTallies,
		pools:      stores.RewardsPools,
		watermarks: stores.Watermarks,
	}
	return e, nil
}

// Initialize seeds the engine with its genesis parameter set. Epoch numbering
// starts at zero, anchored at the given genesis height.
//
// Expected error returns:
//   - storage.ErrAlreadyExists if the engine was already initialized
func (e *Engine) Initialize(params lattice.Params, genesisHeight uint64) error {
	err := params.Validate()
	if err != nil {
		return fmt.Errorf("invalid genesis params: %w", err)
	}

	stored := &lattice.StoredParams{
		Params: params,
		LastUpdated: lattice.Epoch{
			EpochNum:           0,
			BlockHeightStarted: genesisHeight,
		},
	}
	err = e.params.Store(stored)
	if err != nil {
		return fmt.Errorf("could not store genesis params: %w", err)
	}

	e.log.Info().
		Uint64("genesis_height", genesisHeight).
		Uint64("epoch_duration", params.EpochDuration).
		Msg("rewards engine initialized")
	return nil
}

// RecordParticipation records that the given worker participated in the given
// event for the target contract. The first report of an event binds the event
// to the current epoch permanently; all later reports of the same event are
// tallied against that original epoch, even after the current epoch advances.
//
// Expected error returns:
//   - lattice.ErrBlockHeightInPast if height precedes the epoch checkpoint
func (e *Engine) RecordParticipation(eventID string, worker, target lattice.Address, height uint64) error {
	if eventID == "" {
		return fmt.Errorf("event ID must not be empty")
	}
	if worker == lattice.EmptyAddress || target == lattice.EmptyAddress {
		return fmt.Errorf("worker and target contract addresses must not be empty")
	}

	stored, err := e.params.Retrieve()
	if err != nil {
		return fmt.Errorf("could not load rewards params: %w", err)
	}
	curEpoch, err := stored.CurrentEpoch(height)
	if err != nil {
		return err
	}

	event, isNew, err := e.loadOrStoreEvent(eventID, target, curEpoch.EpochNum)
	if err != nil {
		return err
	}

	tally, err := e.tallies.ByContractAndEpoch(target, event.EpochNum)
	if errors.Is(err, storage.ErrNotFound) {
		tally = lattice.NewEpochTally(target, curEpoch, stored.Params)
	} else if err != nil {
		return fmt.Errorf("could not load epoch tally: %w", err)
	}

	tally.RecordParticipation(worker)
	if isNew {
		// an event counts once, no matter how many workers report it
		tally.EventCount++
	}

	err = e.tallies.Save(tally)
	if err != nil {
		return fmt.Errorf("could not save epoch tally: %w", err)
	}

	e.metrics.ParticipationRecorded(target.String())
	e.log.Debug().
		Str("event_id", eventID).
		Str("worker", worker.String()).
		Str("target_contract", target.String()).
		Uint64("epoch", event.EpochNum).
		Msg("participation recorded")
	return nil
}

// loadOrStoreEvent returns the stored event for (eventID, target), creating
// it bound to the given epoch if it does not exist yet. The second return
// value reports whether the event was newly created.
func (e *Engine) loadOrStoreEvent(eventID string, target lattice.Address, curEpochNum uint64) (*lattice.ParticipationEvent, bool, error) {
	event, err := e.events.ByEventID(eventID, target)
	if err == nil {
		return event, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, false, fmt.Errorf("could not load participation event: %w", err)
	}

	event = lattice.NewParticipationEvent(eventID, target, curEpochNum)
	err = e.events.Store(event)
	if err != nil {
		return nil, false, fmt.Errorf("could not store participation event: %w", err)
	}
	return event, true, nil
}

// DistributeRewards settles all payable epochs of the target contract up to
// the payout delay, bounded by epochLimit (0 selects DefaultEpochsToProcess),
// and returns the payout owed to each worker. The caller performs the actual
// token transfer. The call is atomic: on any error, neither the pool balance
// nor the watermark is modified.
//
// Expected error returns:
//   - lattice.ErrBlockHeightInPast if height precedes the epoch checkpoint
//   - ErrNoRewardsToDistribute if every payable epoch was already settled
//   - lattice.ErrInsufficientBalance if the pool cannot cover the payouts
func (e *Engine) DistributeRewards(target lattice.Address, height uint64, epochLimit uint64) (map[lattice.Address]*uint256.Int, error) {
	if target == lattice.EmptyAddress {
		return nil, fmt.Errorf("target contract address must not be empty")
	}
	limit := epochLimit
	if limit == 0 {
		limit = DefaultEpochsToProcess
	}

	stored, err := e.params.Retrieve()
	if err != nil {
		return nil, fmt.Errorf("could not load rewards params: %w", err)
	}
	curEpoch, err := stored.CurrentEpoch(height)
	if err != nil {
		return nil, err
	}

	from := uint64(0)
	watermark, err := e.watermarks.ByContract(target)
	if err == nil {
		from = watermark + 1
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("could not load rewards watermark: %w", err)
	}

	to := min64(satAdd(from, limit-1), satSub(curEpoch.EpochNum, EpochPayoutDelay))
	if to < from || curEpoch.EpochNum < EpochPayoutDelay {
		return nil, fmt.Errorf("contract %s has no payable epoch before epoch %d at epoch %d: %w",
			target, from, curEpoch.EpochNum, ErrNoRewardsToDistribute)
	}

	payouts, err := e.cumulateRewards(target, from, to)
	if err != nil {
		return nil, err
	}

	total := uint256.NewInt(0)
	for _, amount := range payouts {
		total, err = safeAdd(total, amount)
		if err != nil {
			return nil, err
		}
	}

	pool, err := e.pools.ByContract(target)
	if errors.Is(err, storage.ErrNotFound) {
		pool = lattice.NewRewardsPool(target)
	} else if err != nil {
		return nil, fmt.Errorf("could not load rewards pool: %w", err)
	}

	// the balance check happens before any write, so an underfunded pool
	// leaves both the pool and the watermark untouched
	err = pool.Sub(total)
	if err != nil {
		return nil, err
	}

	err = e.pools.Save(pool)
	if err != nil {
		return nil, fmt.Errorf("could not save rewards pool: %w", err)
	}
	err = e.watermarks.Update(target, to)
	if err != nil {
		return nil, fmt.Errorf("could not update rewards watermark: %w", err)
	}

	e.metrics.RewardsDistributed(target.String(), to-from+1, len(payouts))
	e.log.Info().
		Str("target_contract", target.String()).
		Uint64("from_epoch", from).
		Uint64("to_epoch", to).
		Int("workers", len(payouts)).
		Str("total", total.Dec()).
		Msg("rewards distributed")
	return payouts, nil
}

// cumulateRewards sums the per-worker payouts of every tallied epoch in the
// inclusive range [from, to]. Epochs without a tally contribute nothing.
func (e *Engine) cumulateRewards(target lattice.Address, from, to uint64) (map[lattice.Address]*uint256.Int, error) {
	payouts := make(map[lattice.Address]*uint256.Int)
	for epochNum := from; epochNum <= to; epochNum++ {
		tally, err := e.tallies.ByContractAndEpoch(target, epochNum)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("could not load tally for epoch %d: %w", epochNum, err)
		}
		payouts = lattice.MergeRewards(payouts, tally.WorkerRewards())
	}
	return payouts, nil
}

// UpdateParams replaces the active parameter set. If the new epoch duration
// would immediately end the current epoch, a new epoch is opened at exactly
// the current height with the next epoch number, so past events keep a dense,
// gap-free epoch numbering no matter how drastically the duration shrinks.
//
// Expected error returns:
//   - ErrUnauthorized if the sender is not the governance address
//   - lattice.ErrBlockHeightInPast if height precedes the epoch checkpoint
func (e *Engine) UpdateParams(newParams lattice.Params, height uint64, sender lattice.Address) error {
	if sender != e.cfg.Governance {
		return fmt.Errorf("params update from %s: %w", sender, ErrUnauthorized)
	}
	err := newParams.Validate()
	if err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}

	stored, err := e.params.Retrieve()
	if err != nil {
		return fmt.Errorf("could not load rewards params: %w", err)
	}
	curEpoch, err := stored.CurrentEpoch(height)
	if err != nil {
		return err
	}

	// If the update shortens the epoch duration so much that the current
	// epoch would already be over, open a new epoch at this height with the
	// next number. Advancing by exactly one keeps epoch numbers dense and
	// leaves the numbering of all prior events intact.
	if height-curEpoch.BlockHeightStarted > newParams.EpochDuration {
		curEpoch = lattice.Epoch{
			EpochNum:           curEpoch.EpochNum + 1,
			BlockHeightStarted: height,
		}
	}

	err = e.params.Save(&lattice.StoredParams{
		Params:      newParams,
		LastUpdated: curEpoch,
	})
	if err != nil {
		return fmt.Errorf("could not save rewards params: %w", err)
	}

	e.log.Info().
		Uint64("height", height).
		Uint64("epoch", curEpoch.EpochNum).
		Uint64("epoch_duration", newParams.EpochDuration).
		Msg("rewards params updated")
	return nil
}

// AddRewards credits the pool of the target contract by the given amount,
// creating the pool on first funding. Funding has no epoch interaction.
func (e *Engine) AddRewards(target lattice.Address, amount *uint256.Int) error {
	if target == lattice.EmptyAddress {
		return fmt.Errorf("target contract address must not be empty")
	}
	if amount == nil || amount.IsZero() {
		return fmt.Errorf("amount must be positive")
	}

	pool, err := e.pools.ByContract(target)
	if errors.Is(err, storage.ErrNotFound) {
		pool = lattice.NewRewardsPool(target)
	} else if err != nil {
		return fmt.Errorf("could not load rewards pool: %w", err)
	}

	err = pool.Add(amount)
	if err != nil {
		return err
	}
	err = e.pools.Save(pool)
	if err != nil {
		return fmt.Errorf("could not save rewards pool: %w", err)
	}

	e.metrics.PoolFunded(target.String())
	e.log.Debug().
		Str("target_contract", target.String()).
		Str("amount", amount.Dec()).
		Msg("rewards pool funded")
	return nil
}

// PoolBalance returns the balance available for payout to workers of the
// given contract. An unfunded pool reads as zero.
func (e *Engine) PoolBalance(target lattice.Address) (*uint256.Int, error) {
	pool, err := e.pools.ByContract(target)
	if errors.Is(err, storage.ErrNotFound) {
		return uint256.NewInt(0), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not load rewards pool: %w", err)
	}
	return pool.Balance, nil
}

// Params returns the active parameter set and its epoch checkpoint.
//
// Expected error returns:
//   - storage.ErrNotFound if the engine was never initialized
func (e *Engine) Params() (*lattice.StoredParams, error) {
	return e.params.Retrieve()
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func satAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

func satSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

func safeAdd(a, b *uint256.Int) (*uint256.Int, error) {
	sum, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, fmt.Errorf("payout total overflows")
	}
	return sum, nil
}
