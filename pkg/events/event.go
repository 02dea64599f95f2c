package events

import "time"

// Event types flowing through the NATS bus.
const (
	TypeNoteCreated   = "NOTE_CREATED"
	TypeNoteLiked     = "NOTE_LIKED"
	TypeNoteCommented = "NOTE_COMMENTED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "NOTE_LIKED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic Event implementation used on both the publish and
// consume sides.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewNoteCreated announces a freshly generated note.
func NewNoteCreated(noteID, ownerID, title, sourceType string) Event {
	return BaseEvent{
		Type: TypeNoteCreated,
		Data: map[string]interface{}{
			"noteId":     noteID,
			"ownerId":    ownerID,
			"title":      title,
			"sourceType": sourceType,
		},
		OccurredAt: time.Now(),
	}
}

// NewNoteLiked announces a like on a shared note. actorName is denormalized
// so consumers can render a notification without a user lookup.
func NewNoteLiked(noteID, ownerID, actorID, actorName string) Event {
	return BaseEvent{
		Type: TypeNoteLiked,
		Data: map[string]interface{}{
			"noteId":    noteID,
			"ownerId":   ownerID,
			"actorId":   actorID,
			"actorName": actorName,
		},
		OccurredAt: time.Now(),
	}
}

// NewNoteCommented announces a comment on a shared note.
func NewNoteCommented(noteID, ownerID, actorID, actorName, preview string) Event {
	return BaseEvent{
		Type: TypeNoteCommented,
		Data: map[string]interface{}{
			"noteId":    noteID,
			"ownerId":   ownerID,
			"actorId":   actorID,
			"actorName": actorName,
			"preview":   preview,
		},
		OccurredAt: time.Now(),
	}
}
