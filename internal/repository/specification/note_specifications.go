package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SharedOnly restricts to notes visible on the community feed.
type SharedOnly struct{}

func (s SharedOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notes.is_shared = ?", true)
}

type ByNoteID struct {
	NoteID uuid.UUID
}

func (s ByNoteID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("note_id = ?", s.NoteID)
}
