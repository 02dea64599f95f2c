package service

import (
	"context"
	"sort"
	"strings"

	"lecturenotes-be/internal/entity"
	"lecturenotes-be/internal/pkg/logger"
	"lecturenotes-be/internal/repository/contract"
	"lecturenotes-be/internal/repository/specification"
	"lecturenotes-be/internal/repository/unitofwork"
	"lecturenotes-be/pkg/llm"

	"github.com/google/uuid"
)

// In-memory unit of work over plain slices. Specifications are matched by
// type switching on the same structs the services pass, so tests exercise
// the exact filter combinations production queries use.

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeUow struct {
	users      *fakeUserRepo
	notes      *fakeNoteRepo
	embeddings *fakeEmbeddingRepo
	likes      *fakeLikeRepo
	comments   *fakeCommentRepo

	began      int
	committed  int
	rolledBack int
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		users:      &fakeUserRepo{},
		notes:      &fakeNoteRepo{},
		embeddings: &fakeEmbeddingRepo{},
		likes:      &fakeLikeRepo{},
		comments:   &fakeCommentRepo{},
	}
}

func newFakeFactory() (*fakeFactory, *fakeUow) {
	uow := newFakeUow()
	return &fakeFactory{uow: uow}, uow
}

func (u *fakeUow) Begin(ctx context.Context) error { u.began++; return nil }
func (u *fakeUow) Commit() error                   { u.committed++; return nil }
func (u *fakeUow) Rollback() error                 { u.rolledBack++; return nil }

func (u *fakeUow) UserRepository() contract.UserRepository                   { return u.users }
func (u *fakeUow) NoteRepository() contract.NoteRepository                   { return u.notes }
func (u *fakeUow) NoteEmbeddingRepository() contract.NoteEmbeddingRepository { return u.embeddings }
func (u *fakeUow) NoteLikeRepository() contract.NoteLikeRepository           { return u.likes }
func (u *fakeUow) NoteCommentRepository() contract.NoteCommentRepository     { return u.comments }

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// fakeNoteRepo

type fakeNoteRepo struct {
	rows []*entity.Note

	findOneErr error
	createErr  error
}

func (r *fakeNoteRepo) matches(note *entity.Note, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if note.Id != s.ID {
				return false
			}
		case specification.ByIDs:
			if !containsID(s.IDs, note.Id) {
				return false
			}
		case specification.UserOwnedBy:
			if note.UserId != s.UserID {
				return false
			}
		case specification.SharedOnly:
			if !note.IsShared {
				return false
			}
		}
	}
	return true
}

func (r *fakeNoteRepo) Create(ctx context.Context, note *entity.Note) error {
	if r.createErr != nil {
		return r.createErr
	}
	copied := *note
	r.rows = append(r.rows, &copied)
	return nil
}

func (r *fakeNoteRepo) Update(ctx context.Context, note *entity.Note) error {
	for i, row := range r.rows {
		if row.Id == note.Id {
			copied := *note
			r.rows[i] = &copied
			return nil
		}
	}
	return nil
}

func (r *fakeNoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.Id != id {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeNoteRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	if r.findOneErr != nil {
		return nil, r.findOneErr
	}
	for _, row := range r.rows {
		if r.matches(row, specs) {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeNoteRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	matched := make([]*entity.Note, 0)
	for _, row := range r.rows {
		if r.matches(row, specs) {
			copied := *row
			matched = append(matched, &copied)
		}
	}
	for _, spec := range specs {
		if order, ok := spec.(specification.OrderBy); ok && order.Field == "created_at" {
			sort.SliceStable(matched, func(i, j int) bool {
				if order.Desc {
					return matched[i].CreatedAt.After(matched[j].CreatedAt)
				}
				return matched[i].CreatedAt.Before(matched[j].CreatedAt)
			})
		}
	}
	for _, spec := range specs {
		if page, ok := spec.(specification.Pagination); ok {
			if page.Offset >= len(matched) {
				return []*entity.Note{}, nil
			}
			matched = matched[page.Offset:]
			if page.Limit > 0 && page.Limit < len(matched) {
				matched = matched[:page.Limit]
			}
		}
	}
	return matched, nil
}

func (r *fakeNoteRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if r.matches(row, specs) {
			count++
		}
	}
	return count, nil
}

// fakeUserRepo

type fakeUserRepo struct {
	rows   []*entity.User
	tokens []*entity.EmailVerificationToken

	activated []uuid.UUID
}

func (r *fakeUserRepo) matches(user *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if user.Id != s.ID {
				return false
			}
		case specification.ByIDs:
			if !containsID(s.IDs, user.Id) {
				return false
			}
		case specification.ByEmail:
			if !strings.EqualFold(user.Email, s.Email) {
				return false
			}
		}
	}
	return true
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	copied := *user
	r.rows = append(r.rows, &copied)
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	for i, row := range r.rows {
		if row.Id == user.Id {
			copied := *user
			r.rows[i] = &copied
		}
	}
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, row := range r.rows {
		if r.matches(row, specs) {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	matched := make([]*entity.User, 0)
	for _, row := range r.rows {
		if r.matches(row, specs) {
			copied := *row
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if r.matches(row, specs) {
			count++
		}
	}
	return count, nil
}

func (r *fakeUserRepo) ActivateUser(ctx context.Context, userId uuid.UUID) error {
	r.activated = append(r.activated, userId)
	for _, row := range r.rows {
		if row.Id == userId {
			row.Status = entity.UserStatusActive
			row.EmailVerified = true
		}
	}
	return nil
}

func (r *fakeUserRepo) CreateEmailVerificationToken(ctx context.Context, token *entity.EmailVerificationToken) error {
	copied := *token
	r.tokens = append(r.tokens, &copied)
	return nil
}

func (r *fakeUserRepo) FindEmailVerificationToken(ctx context.Context, specs ...specification.Specification) (*entity.EmailVerificationToken, error) {
	for _, token := range r.tokens {
		ok := true
		for _, spec := range specs {
			if byToken, isToken := spec.(specification.ByToken); isToken && token.Token != byToken.Token {
				ok = false
			}
		}
		if ok {
			copied := *token
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) DeleteEmailVerificationToken(ctx context.Context, id uuid.UUID) error {
	kept := r.tokens[:0]
	for _, token := range r.tokens {
		if token.Id != id {
			kept = append(kept, token)
		}
	}
	r.tokens = kept
	return nil
}

// fakeEmbeddingRepo

type fakeEmbeddingRepo struct {
	rows []*entity.NoteEmbedding

	scored    []*contract.ScoredNoteEmbedding
	searchErr error

	deletedNoteIds []uuid.UUID
}

func (r *fakeEmbeddingRepo) CreateBulk(ctx context.Context, embeddings []*entity.NoteEmbedding) error {
	for _, e := range embeddings {
		copied := *e
		r.rows = append(r.rows, &copied)
	}
	return nil
}

func (r *fakeEmbeddingRepo) DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error {
	r.deletedNoteIds = append(r.deletedNoteIds, noteId)
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.NoteId != noteId {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeEmbeddingRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteEmbedding, error) {
	matched := make([]*entity.NoteEmbedding, 0, len(r.rows))
	matched = append(matched, r.rows...)
	return matched, nil
}

func (r *fakeEmbeddingRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.rows)), nil
}

func (r *fakeEmbeddingRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, threshold float64) ([]*contract.ScoredNoteEmbedding, error) {
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	return r.scored, nil
}

// fakeLikeRepo

type fakeLikeRepo struct {
	rows []*entity.NoteLike
}

func (r *fakeLikeRepo) matches(like *entity.NoteLike, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByNoteID:
			if like.NoteId != s.NoteID {
				return false
			}
		case specification.UserOwnedBy:
			if like.UserId != s.UserID {
				return false
			}
		}
	}
	return true
}

func (r *fakeLikeRepo) Create(ctx context.Context, like *entity.NoteLike) error {
	copied := *like
	r.rows = append(r.rows, &copied)
	return nil
}

func (r *fakeLikeRepo) DeleteByNoteAndUser(ctx context.Context, noteId, userId uuid.UUID) (bool, error) {
	kept := r.rows[:0]
	removed := false
	for _, row := range r.rows {
		if row.NoteId == noteId && row.UserId == userId {
			removed = true
			continue
		}
		kept = append(kept, row)
	}
	r.rows = kept
	return removed, nil
}

func (r *fakeLikeRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NoteLike, error) {
	for _, row := range r.rows {
		if r.matches(row, specs) {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeLikeRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if r.matches(row, specs) {
			count++
		}
	}
	return count, nil
}

func (r *fakeLikeRepo) CountByNoteIds(ctx context.Context, noteIds []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64)
	for _, row := range r.rows {
		if containsID(noteIds, row.NoteId) {
			counts[row.NoteId]++
		}
	}
	return counts, nil
}

// fakeCommentRepo

type fakeCommentRepo struct {
	rows []*entity.NoteComment
}

func (r *fakeCommentRepo) matches(comment *entity.NoteComment, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if comment.Id != s.ID {
				return false
			}
		case specification.ByNoteID:
			if comment.NoteId != s.NoteID {
				return false
			}
		case specification.UserOwnedBy:
			if comment.UserId != s.UserID {
				return false
			}
		}
	}
	return true
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment *entity.NoteComment) error {
	copied := *comment
	r.rows = append(r.rows, &copied)
	return nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.Id != id {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeCommentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NoteComment, error) {
	for _, row := range r.rows {
		if r.matches(row, specs) {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeCommentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteComment, error) {
	matched := make([]*entity.NoteComment, 0)
	for _, row := range r.rows {
		if r.matches(row, specs) {
			copied := *row
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (r *fakeCommentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if r.matches(row, specs) {
			count++
		}
	}
	return count, nil
}

func (r *fakeCommentRepo) CountByNoteIds(ctx context.Context, noteIds []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64)
	for _, row := range r.rows {
		if containsID(noteIds, row.NoteId) {
			counts[row.NoteId]++
		}
	}
	return counts, nil
}

// Collaborator fakes outside the repository layer.

type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (p *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if len(history) > 0 {
		p.prompts = append(p.prompts, history[len(history)-1].Content)
	}
	return p.response, p.err
}

func (p *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	p.prompts = append(p.prompts, prompt)
	return p.response, p.err
}

type fakeEmbedder struct {
	vector []float32
	err    error
	inputs []string
}

func (p *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	p.inputs = append(p.inputs, text)
	if p.err != nil {
		return nil, p.err
	}
	return p.vector, nil
}

type fakeTranscriber struct {
	transcript string
	err        error
	paths      []string
}

func (t *fakeTranscriber) Transcribe(ctx context.Context, mediaPath string) (string, error) {
	t.paths = append(t.paths, mediaPath)
	return t.transcript, t.err
}

type capturingPublisher struct {
	payloads [][]byte
	err      error
}

func (p *capturingPublisher) Publish(ctx context.Context, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{}) {}
func (nopLogger) Warn(module, message string, details map[string]interface{}) {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error { return nil }

var _ logger.ILogger = nopLogger{}
