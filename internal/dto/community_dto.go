package dto

import (
	"time"

	"github.com/google/uuid"
)

type CommunityNoteResponse struct {
	Id           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Snippet      string    `json:"snippet"`
	SourceType   string    `json:"source_type"`
	AuthorName   string    `json:"author_name"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	LikedByMe    bool      `json:"liked_by_me"`
	CreatedAt    time.Time `json:"created_at"`
}

type CommunityFeedResponse struct {
	Notes []CommunityNoteResponse `json:"notes"`
	Total int64                   `json:"total"`
}

type ToggleLikeResponse struct {
	NoteId    uuid.UUID `json:"note_id"`
	Liked     bool      `json:"liked"`
	LikeCount int64     `json:"like_count"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

type CommentResponse struct {
	Id         uuid.UUID `json:"id"`
	NoteId     uuid.UUID `json:"note_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type ListCommentsResponse struct {
	Comments []CommentResponse `json:"comments"`
	Total    int64             `json:"total"`
}
