package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lecturenotes-be/internal/dto"
	"lecturenotes-be/internal/entity"
	"lecturenotes-be/internal/pkg/logger"
	"lecturenotes-be/internal/repository/unitofwork"
	"lecturenotes-be/pkg/slides"
	"lecturenotes-be/pkg/summarizer"

	"github.com/google/uuid"
)

type ISlidesService interface {
	Convert(ctx context.Context, userId uuid.UUID, file *UploadedFile, language string) (*dto.ConvertSlidesResponse, error)
}

type slidesService struct {
	uowFactory        unitofwork.RepositoryFactory
	publisherService  IPublisherService
	summarizerService *summarizer.Service
	log               logger.ILogger
}

func NewSlidesService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	summarizerService *summarizer.Service,
	log logger.ILogger,
) ISlidesService {
	return &slidesService{
		uowFactory:        uowFactory,
		publisherService:  publisherService,
		summarizerService: summarizerService,
		log:               log,
	}
}

// Convert turns a pptx deck into a structured outline note: extract slide
// text, have the model produce the outline, render it to markdown, persist.
func (s *slidesService) Convert(ctx context.Context, userId uuid.UUID, file *UploadedFile, language string) (*dto.ConvertSlidesResponse, error) {
	if file != nil && file.Path != "" {
		defer os.Remove(file.Path)
	}

	data, err := os.ReadFile(file.Path)
	if err != nil {
		return nil, err
	}

	deckText, err := slides.ExtractText(data, file.Filename)
	if err != nil {
		return nil, err
	}

	outline, err := s.summarizerService.OutlineSlides(ctx, summarizer.Input{
		Text:     deckText,
		Language: language,
	})
	if err != nil {
		return nil, err
	}

	markdown := slides.RenderMarkdown(outline)

	// Each section's leading bullet doubles as a highlight.
	highlights := make([]string, 0, len(outline.Sections))
	for _, sec := range outline.Sections {
		if len(sec.Bullets) > 0 {
			highlights = append(highlights, sec.Bullets[0])
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	note := entity.Note{
		Id:          uuid.New(),
		UserId:      userId,
		Title:       strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename)),
		Content:     markdown,
		KeyPoints:   outline.Takeaways,
		Highlights:  highlights,
		SourceType:  entity.SourceSlides,
		SummaryType: entity.SummaryDetailed,
		Language:    language,
		SourceName:  file.Filename,
		CreatedAt:   time.Now(),
	}

	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}

	// Embedding is auxiliary: the note is already persisted, a failed enqueue
	// only costs semantic search until the next re-index.
	if msgJson, err := json.Marshal(dto.PublishEmbedNoteMessage{NoteId: note.Id}); err != nil {
		s.log.Warn("slides", "Failed to marshal embed message", map[string]interface{}{
			"noteId": note.Id.String(),
			"error":  err.Error(),
		})
	} else if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		s.log.Warn("slides", "Failed to enqueue note for embedding", map[string]interface{}{
			"noteId": note.Id.String(),
			"error":  err.Error(),
		})
	}

	sections := make([]dto.SlideSectionResponse, len(outline.Sections))
	for i, sec := range outline.Sections {
		sections[i] = dto.SlideSectionResponse{
			Title:   sec.Title,
			Bullets: sec.Bullets,
		}
	}

	return &dto.ConvertSlidesResponse{
		NoteId: note.Id,
		Title:  note.Title,
		Outline: dto.SlideOutlineResponse{
			Overview:  outline.Overview,
			Sections:  sections,
			Takeaways: outline.Takeaways,
		},
		Markdown:  markdown,
		CreatedAt: note.CreatedAt,
	}, nil
}
