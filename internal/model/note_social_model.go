package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteLike struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NoteId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_note_likes_note_user,priority:1"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_note_likes_note_user,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (NoteLike) TableName() string {
	return "note_likes"
}

type NoteComment struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NoteId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Content   string         `gorm:"type:text;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (NoteComment) TableName() string {
	return "note_comments"
}
