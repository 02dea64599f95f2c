package entity

import (
	"time"

	"github.com/google/uuid"
)

// NoteLike is one user's like on a shared note. One row per (note, user).
type NoteLike struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	NoteId    uuid.UUID `gorm:"type:uuid;index"`
	UserId    uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
}

type NoteComment struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	NoteId    uuid.UUID `gorm:"type:uuid;index"`
	UserId    uuid.UUID `gorm:"type:uuid;index"`
	Content   string
	CreatedAt time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
