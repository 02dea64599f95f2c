package contract

import (
	"context"

	"lecturenotes-be/internal/entity"
	"lecturenotes-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NoteLikeRepository interface {
	Create(ctx context.Context, like *entity.NoteLike) error
	// DeleteByNoteAndUser removes the user's like and reports whether a row existed.
	DeleteByNoteAndUser(ctx context.Context, noteId, userId uuid.UUID) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NoteLike, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// CountByNoteIds returns like counts keyed by note ID for feed assembly.
	CountByNoteIds(ctx context.Context, noteIds []uuid.UUID) (map[uuid.UUID]int64, error)
}

type NoteCommentRepository interface {
	Create(ctx context.Context, comment *entity.NoteComment) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NoteComment, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteComment, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	CountByNoteIds(ctx context.Context, noteIds []uuid.UUID) (map[uuid.UUID]int64, error)
}
