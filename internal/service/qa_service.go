package service

import (
	"context"
	"strings"

	"lecturenotes-be/internal/dto"
	"lecturenotes-be/internal/repository/specification"
	"lecturenotes-be/internal/repository/unitofwork"
	"lecturenotes-be/pkg/apperror"
	"lecturenotes-be/pkg/qa"

	"github.com/google/uuid"
)

// minQASourceChars is the floor for raw text submitted directly for question
// generation.
const minQASourceChars = 20

type IQAService interface {
	Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateQARequest) (*dto.GenerateQAResponse, error)
}

type qaService struct {
	uowFactory unitofwork.RepositoryFactory
	generator  *qa.Generator
}

func NewQAService(uowFactory unitofwork.RepositoryFactory, generator *qa.Generator) IQAService {
	return &qaService{
		uowFactory: uowFactory,
		generator:  generator,
	}
}

// Generate produces questions from a stored note (ownership enforced) or
// from raw text. Items are ephemeral: nothing is persisted.
func (s *qaService) Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateQARequest) (*dto.GenerateQAResponse, error) {
	source, err := s.resolveSource(ctx, userId, req)
	if err != nil {
		return nil, err
	}

	items, err := s.generator.Generate(ctx, source,
		qa.QuestionType(req.QuestionType),
		qa.Difficulty(req.Difficulty),
	)
	if err != nil {
		return nil, err
	}

	res := &dto.GenerateQAResponse{
		Items: make([]dto.QAItemResponse, len(items)),
	}
	for i, item := range items {
		options := make([]dto.QAOptionResponse, len(item.Options))
		for j, opt := range item.Options {
			options[j] = dto.QAOptionResponse{Label: opt.Label, Text: opt.Text}
		}
		res.Items[i] = dto.QAItemResponse{
			Id:            item.ID,
			Type:          string(item.Type),
			Difficulty:    string(item.Difficulty),
			Question:      item.Question,
			Options:       options,
			CorrectOption: item.CorrectOption,
			Answer:        item.Answer,
		}
	}
	return res, nil
}

func (s *qaService) resolveSource(ctx context.Context, userId uuid.UUID, req *dto.GenerateQARequest) (string, error) {
	if req.NoteId != "" {
		noteId, err := uuid.Parse(req.NoteId)
		if err != nil {
			return "", apperror.NewValidation("Invalid note ID")
		}

		uow := s.uowFactory.NewUnitOfWork(ctx)
		note, err := uow.NoteRepository().FindOne(ctx,
			specification.ByID{ID: noteId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return "", err
		}
		if note == nil {
			return "", apperror.NewNotFound("note")
		}

		var parts []string
		parts = append(parts, note.Title, note.Content)
		parts = append(parts, note.KeyPoints...)
		return strings.Join(parts, "\n"), nil
	}

	text := strings.TrimSpace(req.Text)
	if len(text) < minQASourceChars {
		return "", apperror.NewValidation("Provide a note_id or at least 20 characters of text")
	}
	return text, nil
}
