package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lecturenotes-be/internal/dto"
	"lecturenotes-be/internal/entity"
	"lecturenotes-be/internal/pkg/logger"
	"lecturenotes-be/internal/repository/specification"
	"lecturenotes-be/internal/repository/unitofwork"
	"lecturenotes-be/pkg/apperror"
	"lecturenotes-be/pkg/events"
	pkgNats "lecturenotes-be/pkg/nats"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const (
	feedCacheTTL     = 30 * time.Second
	feedPageSize     = 20
	commentPreview   = 120
	snippetMaxLength = 240
)

type ICommunityService interface {
	Feed(ctx context.Context, userId uuid.UUID, page int) (*dto.CommunityFeedResponse, error)
	ToggleLike(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) (*dto.ToggleLikeResponse, error)
	AddComment(ctx context.Context, userId uuid.UUID, noteId uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, noteId uuid.UUID) (*dto.ListCommentsResponse, error)
}

type communityService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pkgNats.Publisher
	feedCache      *gocache.Cache
	log            logger.ILogger
}

func NewCommunityService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) ICommunityService {
	return &communityService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		feedCache:      gocache.New(feedCacheTTL, 2*feedCacheTTL),
		log:            log,
	}
}

// cachedFeedPage is the user-independent part of a feed page. LikedByMe is
// layered on per request since it varies per viewer.
type cachedFeedPage struct {
	notes []dto.CommunityNoteResponse
	total int64
	ids   []uuid.UUID
}

func (s *communityService) Feed(ctx context.Context, userId uuid.UUID, page int) (*dto.CommunityFeedResponse, error) {
	if page < 1 {
		page = 1
	}

	cacheKey := fmt.Sprintf("feed:%d", page)
	var cached *cachedFeedPage

	if v, found := s.feedCache.Get(cacheKey); found {
		cached = v.(*cachedFeedPage)
	} else {
		built, err := s.buildFeedPage(ctx, page)
		if err != nil {
			return nil, err
		}
		s.feedCache.Set(cacheKey, built, gocache.DefaultExpiration)
		cached = built
	}

	res := &dto.CommunityFeedResponse{
		Notes: make([]dto.CommunityNoteResponse, len(cached.notes)),
		Total: cached.total,
	}
	copy(res.Notes, cached.notes)

	// Per-viewer like flags come fresh from the database.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	for i, id := range cached.ids {
		like, err := uow.NoteLikeRepository().FindOne(ctx,
			specification.ByNoteID{NoteID: id},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		res.Notes[i].LikedByMe = like != nil
	}

	return res, nil
}

func (s *communityService) buildFeedPage(ctx context.Context, page int) (*cachedFeedPage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.SharedOnly{},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: feedPageSize, Offset: (page - 1) * feedPageSize},
	)
	if err != nil {
		return nil, err
	}

	total, err := uow.NoteRepository().Count(ctx, specification.SharedOnly{})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(notes))
	authorIds := make([]uuid.UUID, 0, len(notes))
	seenAuthors := make(map[uuid.UUID]bool)
	for i, note := range notes {
		ids[i] = note.Id
		if !seenAuthors[note.UserId] {
			authorIds = append(authorIds, note.UserId)
			seenAuthors[note.UserId] = true
		}
	}

	likeCounts, err := uow.NoteLikeRepository().CountByNoteIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	commentCounts, err := uow.NoteCommentRepository().CountByNoteIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	authorNames := make(map[uuid.UUID]string, len(authorIds))
	if len(authorIds) > 0 {
		authors, err := uow.UserRepository().FindAll(ctx, specification.ByIDs{IDs: authorIds})
		if err != nil {
			return nil, err
		}
		for _, author := range authors {
			authorNames[author.Id] = author.FullName
		}
	}

	built := &cachedFeedPage{
		notes: make([]dto.CommunityNoteResponse, len(notes)),
		total: total,
		ids:   ids,
	}
	for i, note := range notes {
		built.notes[i] = dto.CommunityNoteResponse{
			Id:           note.Id,
			Title:        note.Title,
			Snippet:      feedSnippet(note.Content),
			SourceType:   string(note.SourceType),
			AuthorName:   authorNames[note.UserId],
			LikeCount:    likeCounts[note.Id],
			CommentCount: commentCounts[note.Id],
			CreatedAt:    note.CreatedAt,
		}
	}
	return built, nil
}

// ToggleLike adds the user's like, or removes it if already present.
func (s *communityService) ToggleLike(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) (*dto.ToggleLikeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := s.findSharedNote(ctx, uow, noteId)
	if err != nil {
		return nil, err
	}

	removed, err := uow.NoteLikeRepository().DeleteByNoteAndUser(ctx, noteId, userId)
	if err != nil {
		return nil, err
	}

	liked := false
	if !removed {
		like := entity.NoteLike{
			Id:        uuid.New(),
			NoteId:    noteId,
			UserId:    userId,
			CreatedAt: time.Now(),
		}
		if err := uow.NoteLikeRepository().Create(ctx, &like); err != nil {
			return nil, err
		}
		liked = true
		s.publishSocialEvent(ctx, uow, note, userId, events.TypeNoteLiked, "")
	}

	count, err := uow.NoteLikeRepository().Count(ctx, specification.ByNoteID{NoteID: noteId})
	if err != nil {
		return nil, err
	}

	s.invalidateFeed()

	return &dto.ToggleLikeResponse{
		NoteId:    noteId,
		Liked:     liked,
		LikeCount: count,
	}, nil
}

func (s *communityService) AddComment(ctx context.Context, userId uuid.UUID, noteId uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := s.findSharedNote(ctx, uow, noteId)
	if err != nil {
		return nil, err
	}

	comment := entity.NoteComment{
		Id:        uuid.New(),
		NoteId:    noteId,
		UserId:    userId,
		Content:   strings.TrimSpace(req.Content),
		CreatedAt: time.Now(),
	}
	if err := uow.NoteCommentRepository().Create(ctx, &comment); err != nil {
		return nil, err
	}

	preview := comment.Content
	if len(preview) > commentPreview {
		preview = preview[:commentPreview]
	}
	s.publishSocialEvent(ctx, uow, note, userId, events.TypeNoteCommented, preview)

	authorName := s.lookupUserName(ctx, uow, userId)

	s.invalidateFeed()

	return &dto.CommentResponse{
		Id:         comment.Id,
		NoteId:     comment.NoteId,
		AuthorName: authorName,
		Content:    comment.Content,
		CreatedAt:  comment.CreatedAt,
	}, nil
}

func (s *communityService) ListComments(ctx context.Context, noteId uuid.UUID) (*dto.ListCommentsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.findSharedNote(ctx, uow, noteId); err != nil {
		return nil, err
	}

	comments, err := uow.NoteCommentRepository().FindAll(ctx,
		specification.ByNoteID{NoteID: noteId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	authorIds := make([]uuid.UUID, 0, len(comments))
	seen := make(map[uuid.UUID]bool)
	for _, c := range comments {
		if !seen[c.UserId] {
			authorIds = append(authorIds, c.UserId)
			seen[c.UserId] = true
		}
	}
	authorNames := make(map[uuid.UUID]string, len(authorIds))
	if len(authorIds) > 0 {
		authors, err := uow.UserRepository().FindAll(ctx, specification.ByIDs{IDs: authorIds})
		if err != nil {
			return nil, err
		}
		for _, author := range authors {
			authorNames[author.Id] = author.FullName
		}
	}

	res := &dto.ListCommentsResponse{
		Comments: make([]dto.CommentResponse, len(comments)),
		Total:    int64(len(comments)),
	}
	for i, c := range comments {
		res.Comments[i] = dto.CommentResponse{
			Id:         c.Id,
			NoteId:     c.NoteId,
			AuthorName: authorNames[c.UserId],
			Content:    c.Content,
			CreatedAt:  c.CreatedAt,
		}
	}
	return res, nil
}

func (s *communityService) findSharedNote(ctx context.Context, uow unitofwork.UnitOfWork, noteId uuid.UUID) (*entity.Note, error) {
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: noteId},
		specification.SharedOnly{},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.NewNotFound("shared note")
	}
	return note, nil
}

func (s *communityService) lookupUserName(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) string {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil || user == nil {
		return ""
	}
	return user.FullName
}

func (s *communityService) publishSocialEvent(ctx context.Context, uow unitofwork.UnitOfWork, note *entity.Note, actorId uuid.UUID, eventType, preview string) {
	if s.eventPublisher == nil {
		return
	}
	// Self-interactions do not notify.
	if note.UserId == actorId {
		return
	}

	actorName := s.lookupUserName(ctx, uow, actorId)

	var evt events.Event
	switch eventType {
	case events.TypeNoteLiked:
		evt = events.NewNoteLiked(note.Id.String(), note.UserId.String(), actorId.String(), actorName)
	case events.TypeNoteCommented:
		evt = events.NewNoteCommented(note.Id.String(), note.UserId.String(), actorId.String(), actorName, preview)
	default:
		return
	}

	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("community", "Failed to publish social event", map[string]interface{}{
			"type":   eventType,
			"noteId": note.Id.String(),
			"error":  err.Error(),
		})
	}
}

func (s *communityService) invalidateFeed() {
	s.feedCache.Flush()
}

func feedSnippet(content string) string {
	content = strings.TrimSpace(content)
	if len(content) > snippetMaxLength {
		return content[:snippetMaxLength] + "..."
	}
	return content
}
