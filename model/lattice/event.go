package lattice

// ParticipationEvent is a verifiable event that workers participate in. An
// event is identified by (EventID, TargetContract) and is bound forever to the
// epoch in which it was first observed: later reports for the same event reuse
// the original epoch even if the current epoch has advanced since.
type ParticipationEvent struct {
	EventID        string  `json:"event_id"`
	TargetContract Address `json:"target_contract"`
	EpochNum       uint64  `json:"epoch_num"`
}

// NewParticipationEvent returns an event bound to the given epoch.
func NewParticipationEvent(eventID string, target Address, epochNum uint64) *ParticipationEvent {
	return &ParticipationEvent{
		EventID:        eventID,
		TargetContract: target,
		EpochNum:       epochNum,
	}
}
