// Package inmem provides in-memory implementations of the rewards storage
// interfaces. They are the reference implementation used by engine unit
// tests and are not meant for production use.
package inmem

import (
	"sync"

	"github.com/lattice-foundation/lattice-go/model/lattice"
	"github.com/lattice-foundation/lattice-go/storage"
)

type eventKey struct {
	eventID string
	target  lattice.Address
}

type tallyKey struct {
	target   lattice.Address
	epochNum uint64
}

// RewardsState implements all rewards storage interfaces over plain maps.
// Values are deep-copied on the way in and out, so callers can never observe
// aliasing effects that the persistent implementation would not exhibit.
type RewardsState struct {
	mu         sync.RWMutex
	params     *lattice.StoredParams
	events     map[eventKey]lattice.ParticipationEvent
	tallies    map[tallyKey]lattice.EpochTally
	pools      map[lattice.Address]lattice.RewardsPool
	watermarks map[lattice.Address]uint64
}

func NewRewardsState() *RewardsState {
	return &RewardsState{
		events:     make(map[eventKey]lattice.ParticipationEvent),
		tallies:    make(map[tallyKey]lattice.EpochTally),
		pools:      make(map[lattice.Address]lattice.RewardsPool),
		watermarks: make(map[lattice.Address]uint64),
	}
}

// All returns the state bundled as a storage.All.
func (s *RewardsState) All() *storage.All {
	return &storage.All{
		RewardsParams:       (*paramsStore)(s),
		ParticipationEvents: (*eventsStore)(s),
		EpochTallies:        (*talliesStore)(s),
		RewardsPools:        (*poolsStore)(s),
		Watermarks:          (*watermarksStore)(s),
	}
}

type paramsStore RewardsState

var _ storage.RewardsParams = (*paramsStore)(nil)

func (s *paramsStore) Store(params *lattice.StoredParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.params != nil {
		return storage.ErrAlreadyExists
	}
	cp := copyStoredParams(*params)
	s.params = &cp
	return nil
}

func (s *paramsStore) Save(params *lattice.StoredParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.params == nil {
		return storage.ErrNotFound
	}
	cp := copyStoredParams(*params)
	s.params = &cp
	return nil
}

func (s *paramsStore) Retrieve() (*lattice.StoredParams, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.params == nil {
		return nil, storage.ErrNotFound
	}
	cp := copyStoredParams(*s.params)
	return &cp, nil
}

type eventsStore RewardsState

var _ storage.ParticipationEvents = (*eventsStore)(nil)

func (s *eventsStore) Store(event *lattice.ParticipationEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := eventKey{eventID: event.EventID, target: event.TargetContract}
	if _, ok := s.events[key]; ok {
		return storage.ErrAlreadyExists
	}
	s.events[key] = *event
	return nil
}

func (s *eventsStore) ByEventID(eventID string, target lattice.Address) (*lattice.ParticipationEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.events[eventKey{eventID: eventID, target: target}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &event, nil
}

type talliesStore RewardsState

var _ storage.EpochTallies = (*talliesStore)(nil)

func (s *talliesStore) Save(tally *lattice.EpochTally) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := tallyKey{target: tally.TargetContract, epochNum: tally.Epoch.EpochNum}
	s.tallies[key] = copyTally(*tally)
	return nil
}

func (s *talliesStore) ByContractAndEpoch(target lattice.Address, epochNum uint64) (*lattice.EpochTally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tally, ok := s.tallies[tallyKey{target: target, epochNum: epochNum}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := copyTally(tally)
	return &cp, nil
}

type poolsStore RewardsState

var _ storage.RewardsPools = (*poolsStore)(nil)

func (s *poolsStore) Save(pool *lattice.RewardsPool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools[pool.TargetContract] = copyPool(*pool)
	return nil
}

func (s *poolsStore) ByContract(target lattice.Address) (*lattice.RewardsPool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pool, ok := s.pools[target]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := copyPool(pool)
	return &cp, nil
}

type watermarksStore RewardsState

var _ storage.DistributionWatermarks = (*watermarksStore)(nil)

func (s *watermarksStore) Update(target lattice.Address, epochNum uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watermarks[target] = epochNum
	return nil
}

func (s *watermarksStore) ByContract(target lattice.Address) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	epochNum, ok := s.watermarks[target]
	if !ok {
		return 0, storage.ErrNotFound
	}
	return epochNum, nil
}

func copyStoredParams(sp lattice.StoredParams) lattice.StoredParams {
	if sp.Params.RewardsPerEpoch != nil {
		sp.Params.RewardsPerEpoch = sp.Params.RewardsPerEpoch.Clone()
	}
	return sp
}

func copyTally(t lattice.EpochTally) lattice.EpochTally {
	participation := make(map[lattice.Address]uint64, len(t.Participation))
	for worker, count := range t.Participation {
		participation[worker] = count
	}
	t.Participation = participation
	t.ParamsSnapshot = copyStoredParams(lattice.StoredParams{Params: t.ParamsSnapshot}).Params
	return t
}

func copyPool(p lattice.RewardsPool) lattice.RewardsPool {
	if p.Balance != nil {
		p.Balance = p.Balance.Clone()
	}
	return p
}
