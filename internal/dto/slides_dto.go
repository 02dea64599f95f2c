package dto

import (
	"time"

	"github.com/google/uuid"
)

type SlideSectionResponse struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

type SlideOutlineResponse struct {
	Overview  string                 `json:"overview"`
	Sections  []SlideSectionResponse `json:"sections"`
	Takeaways []string               `json:"takeaways"`
}

type ConvertSlidesResponse struct {
	NoteId    uuid.UUID            `json:"note_id"`
	Title     string               `json:"title"`
	Outline   SlideOutlineResponse `json:"outline"`
	Markdown  string               `json:"markdown"`
	CreatedAt time.Time            `json:"created_at"`
}
