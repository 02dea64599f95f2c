package implementation

import (
	"context"
	"errors"

	"lecturenotes-be/internal/entity"
	"lecturenotes-be/internal/mapper"
	"lecturenotes-be/internal/model"
	"lecturenotes-be/internal/repository/contract"
	"lecturenotes-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteLikeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteSocialMapper
}

func NewNoteLikeRepository(db *gorm.DB) contract.NoteLikeRepository {
	return &NoteLikeRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteSocialMapper(),
	}
}

func (r *NoteLikeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteLikeRepositoryImpl) Create(ctx context.Context, like *entity.NoteLike) error {
	m := r.mapper.LikeToModel(like)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*like = *r.mapper.LikeToEntity(m)
	return nil
}

func (r *NoteLikeRepositoryImpl) DeleteByNoteAndUser(ctx context.Context, noteId, userId uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("note_id = ? AND user_id = ?", noteId, userId).
		Delete(&model.NoteLike{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *NoteLikeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NoteLike, error) {
	var m model.NoteLike
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.LikeToEntity(&m), nil
}

func (r *NoteLikeRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.NoteLike{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *NoteLikeRepositoryImpl) CountByNoteIds(ctx context.Context, noteIds []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(noteIds))
	if len(noteIds) == 0 {
		return counts, nil
	}

	type row struct {
		NoteId uuid.UUID
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.NoteLike{}).
		Select("note_id, COUNT(*) as total").
		Where("note_id IN ?", noteIds).
		Group("note_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		counts[r.NoteId] = r.Total
	}
	return counts, nil
}

type NoteCommentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteSocialMapper
}

func NewNoteCommentRepository(db *gorm.DB) contract.NoteCommentRepository {
	return &NoteCommentRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteSocialMapper(),
	}
}

func (r *NoteCommentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteCommentRepositoryImpl) Create(ctx context.Context, comment *entity.NoteComment) error {
	m := r.mapper.CommentToModel(comment)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*comment = *r.mapper.CommentToEntity(m)
	return nil
}

func (r *NoteCommentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.NoteComment{}, id).Error
}

func (r *NoteCommentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NoteComment, error) {
	var m model.NoteComment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.CommentToEntity(&m), nil
}

func (r *NoteCommentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteComment, error) {
	var models []*model.NoteComment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.CommentsToEntities(models), nil
}

func (r *NoteCommentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.NoteComment{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *NoteCommentRepositoryImpl) CountByNoteIds(ctx context.Context, noteIds []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(noteIds))
	if len(noteIds) == 0 {
		return counts, nil
	}

	type row struct {
		NoteId uuid.UUID
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.NoteComment{}).
		Select("note_id, COUNT(*) as total").
		Where("note_id IN ?", noteIds).
		Group("note_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		counts[r.NoteId] = r.Total
	}
	return counts, nil
}
