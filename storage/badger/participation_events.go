package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/lattice-foundation/lattice-go/model/lattice"
	"github.com/lattice-foundation/lattice-go/storage/badger/operation"
)

// ParticipationEvents implements persistent storage for participation events.
type ParticipationEvents struct {
	db *badger.DB
}

func NewParticipationEvents(db *badger.DB) *ParticipationEvents {
	return &ParticipationEvents{
		db: db,
	}
}

func (e *ParticipationEvents) Store(event *lattice.ParticipationEvent) error {
	err := operation.RetryOnConflict(e.db.Update, operation.InsertParticipationEvent(event))
	if err != nil {
		return fmt.Errorf("could not insert participation event: %w", err)
	}
	return nil
}

func (e *ParticipationEvents) ByEventID(eventID string, target lattice.Address) (*lattice.ParticipationEvent, error) {
	var event lattice.ParticipationEvent
	err := e.db.View(operation.RetrieveParticipationEvent(target, eventID, &event))
	if err != nil {
		return nil, err
	}
	return &event, nil
}
