package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Note struct {
	Id          uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Title       string                      `gorm:"type:varchar(255);not null"`
	Content     string                      `gorm:"type:text"`
	KeyPoints   datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Highlights  datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	SourceType  string                      `gorm:"type:varchar(20);not null;index"`
	SummaryType string                      `gorm:"type:varchar(20);not null"`
	Language    string                      `gorm:"type:varchar(50)"`
	SourceName  string                      `gorm:"type:varchar(512)"`
	Degraded    bool                        `gorm:"default:false"`
	IsShared    bool                        `gorm:"default:false;index"`
	CreatedAt   time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                   `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt              `gorm:"index"`
}

func (Note) TableName() string {
	return "notes"
}
