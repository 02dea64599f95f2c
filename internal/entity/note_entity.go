package entity

import (
	"time"

	"github.com/google/uuid"
)

type SourceType string

const (
	SourceAudio    SourceType = "audio"
	SourceVideo    SourceType = "video"
	SourceText     SourceType = "text"
	SourceYouTube  SourceType = "youtube"
	SourceDocument SourceType = "document"
	SourceSlides   SourceType = "slides"
)

func (s SourceType) IsValid() bool {
	switch s {
	case SourceAudio, SourceVideo, SourceText, SourceYouTube, SourceDocument, SourceSlides:
		return true
	}
	return false
}

type SummaryType string

const (
	SummaryShort    SummaryType = "short"
	SummaryDetailed SummaryType = "detailed"
	SummaryBullet   SummaryType = "bullet"
)

func (s SummaryType) IsValid() bool {
	switch s {
	case SummaryShort, SummaryDetailed, SummaryBullet:
		return true
	}
	return false
}

type Note struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId      uuid.UUID `gorm:"type:uuid;index"`
	Title       string
	Content     string
	KeyPoints   []string
	Highlights  []string
	SourceType  SourceType
	SummaryType SummaryType
	Language    string
	SourceName  string
	Degraded    bool
	IsShared    bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
