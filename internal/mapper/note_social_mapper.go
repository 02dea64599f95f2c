package mapper

import (
	"time"

	"lecturenotes-be/internal/entity"
	"lecturenotes-be/internal/model"

	"gorm.io/gorm"
)

type NoteSocialMapper struct{}

func NewNoteSocialMapper() *NoteSocialMapper {
	return &NoteSocialMapper{}
}

func (m *NoteSocialMapper) LikeToEntity(l *model.NoteLike) *entity.NoteLike {
	if l == nil {
		return nil
	}
	return &entity.NoteLike{
		Id:        l.Id,
		NoteId:    l.NoteId,
		UserId:    l.UserId,
		CreatedAt: l.CreatedAt,
	}
}

func (m *NoteSocialMapper) LikeToModel(l *entity.NoteLike) *model.NoteLike {
	if l == nil {
		return nil
	}
	return &model.NoteLike{
		Id:        l.Id,
		NoteId:    l.NoteId,
		UserId:    l.UserId,
		CreatedAt: l.CreatedAt,
	}
}

func (m *NoteSocialMapper) CommentToEntity(c *model.NoteComment) *entity.NoteComment {
	if c == nil {
		return nil
	}

	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		deletedAt = &t
	}

	return &entity.NoteComment{
		Id:        c.Id,
		NoteId:    c.NoteId,
		UserId:    c.UserId,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		DeletedAt: deletedAt,
		IsDeleted: c.DeletedAt.Valid,
	}
}

func (m *NoteSocialMapper) CommentToModel(c *entity.NoteComment) *model.NoteComment {
	if c == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if c.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	} else if c.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	return &model.NoteComment{
		Id:        c.Id,
		NoteId:    c.NoteId,
		UserId:    c.UserId,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *NoteSocialMapper) CommentsToEntities(comments []*model.NoteComment) []*entity.NoteComment {
	entities := make([]*entity.NoteComment, len(comments))
	for i, c := range comments {
		entities[i] = m.CommentToEntity(c)
	}
	return entities
}
