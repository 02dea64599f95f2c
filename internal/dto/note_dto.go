package dto

import (
	"time"

	"github.com/google/uuid"
)

// GenerateNoteRequest carries the non-file fields of the multipart generate
// request. Text and YoutubeUrl are mutually exclusive with an uploaded file.
type GenerateNoteRequest struct {
	SourceType  string `json:"source_type" form:"source_type" validate:"required,oneof=audio video text youtube document"`
	SummaryType string `json:"summary_type" form:"summary_type" validate:"omitempty,oneof=short detailed bullet"`
	Language    string `json:"language" form:"language"`
	Title       string `json:"title" form:"title"`
	Text        string `json:"text" form:"text"`
	YoutubeUrl  string `json:"youtube_url" form:"youtube_url"`
}

type NoteResponse struct {
	Id          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Notes       string     `json:"notes"`
	KeyPoints   []string   `json:"keyPoints"`
	Highlights  []string   `json:"highlights"`
	SourceType  string     `json:"source_type"`
	SummaryType string     `json:"summary_type"`
	Language    string     `json:"language,omitempty"`
	SourceName  string     `json:"source_name,omitempty"`
	Degraded    bool       `json:"degraded,omitempty"`
	IsShared    bool       `json:"is_shared"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type ListNotesResponse struct {
	Notes []NoteResponse `json:"notes"`
	Total int64          `json:"total"`
}

type ToggleShareRequest struct {
	IsShared bool `json:"is_shared"`
}

type ToggleShareResponse struct {
	Id       uuid.UUID `json:"id"`
	IsShared bool      `json:"is_shared"`
}

type SemanticSearchResponse struct {
	Id             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Snippet        string     `json:"snippet"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
	RelevanceScore float64    `json:"relevance_score"`
}
