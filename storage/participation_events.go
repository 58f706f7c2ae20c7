package storage

import (
	"github.com/lattice-foundation/lattice-go/model/lattice"
)

// ParticipationEvents represents persistent storage for participation events.
// Events are immutable once stored; the epoch an event was first observed in
// never changes.
type ParticipationEvents interface {

	// Store persists a new participation event.
	// Error returns:
	//   - storage.ErrAlreadyExists if the (event ID, contract) pair was
	//     already recorded
	Store(event *lattice.ParticipationEvent) error

	// ByEventID returns the event with the given ID for the given target
	// contract.
	// Error returns:
	//   - storage.ErrNotFound if no such event was recorded
	ByEventID(eventID string, target lattice.Address) (*lattice.ParticipationEvent, error)
}
