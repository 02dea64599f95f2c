package dto

import "github.com/google/uuid"

// PublishEmbedNoteMessage asks the embedding consumer to (re)index a note.
type PublishEmbedNoteMessage struct {
	NoteId uuid.UUID `json:"note_id"`
}
