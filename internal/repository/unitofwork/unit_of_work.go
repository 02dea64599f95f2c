package unitofwork

import (
	"context"

	"lecturenotes-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	NoteRepository() contract.NoteRepository
	NoteEmbeddingRepository() contract.NoteEmbeddingRepository
	NoteLikeRepository() contract.NoteLikeRepository
	NoteCommentRepository() contract.NoteCommentRepository
}
