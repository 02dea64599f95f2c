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
	"lecturenotes-be/internal/repository/specification"
	"lecturenotes-be/internal/repository/unitofwork"
	"lecturenotes-be/pkg/apperror"
	"lecturenotes-be/pkg/docparse"
	"lecturenotes-be/pkg/embedding"
	"lecturenotes-be/pkg/events"
	pkgNats "lecturenotes-be/pkg/nats"
	"lecturenotes-be/pkg/summarizer"
	"lecturenotes-be/pkg/transcribe"
	"lecturenotes-be/pkg/youtube"

	"github.com/google/uuid"
)

// UploadedFile is a request upload already written to the temp dir. The
// service owns removal of the temp file.
type UploadedFile struct {
	Path     string
	Filename string
	MimeType string
}

type INoteService interface {
	Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateNoteRequest, file *UploadedFile) (*dto.NoteResponse, error)
	List(ctx context.Context, userId uuid.UUID) (*dto.ListNotesResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	ToggleShare(ctx context.Context, userId uuid.UUID, id uuid.UUID, isShared bool) (*dto.ToggleShareResponse, error)
	SemanticSearch(ctx context.Context, userId uuid.UUID, search string) ([]*dto.SemanticSearchResponse, error)
}

type noteService struct {
	uowFactory        unitofwork.RepositoryFactory
	publisherService  IPublisherService
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pkgNats.Publisher
	summarizerService *summarizer.Service
	transcriber       transcribe.Transcriber
	ytIngester        *youtube.Ingester
	log               logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pkgNats.Publisher,
	summarizerService *summarizer.Service,
	transcriber transcribe.Transcriber,
	ytIngester *youtube.Ingester,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:        uowFactory,
		publisherService:  publisherService,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		summarizerService: summarizerService,
		transcriber:       transcriber,
		ytIngester:        ytIngester,
		log:               log,
	}
}

// Generate runs the full pipeline: resolve raw text from the source, ask the
// model for a structured summary, persist the note, and kick off embedding
// plus the feed event. Nothing is persisted when any earlier stage fails.
func (c *noteService) Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateNoteRequest, file *UploadedFile) (*dto.NoteResponse, error) {
	if file != nil && file.Path != "" {
		defer os.Remove(file.Path)
	}

	sourceType := entity.SourceType(req.SourceType)
	if !sourceType.IsValid() || sourceType == entity.SourceSlides {
		return nil, apperror.NewUnsupportedSource(req.SourceType)
	}

	text, sourceName, err := c.resolveSourceText(ctx, sourceType, req, file)
	if err != nil {
		return nil, err
	}

	summary, err := c.summarizerService.Summarize(ctx, summarizer.Input{
		Text:        text,
		SummaryType: summarizer.SummaryType(req.SummaryType),
		Language:    req.Language,
	})
	if err != nil {
		return nil, err
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	note := entity.Note{
		Id:          uuid.New(),
		UserId:      userId,
		Title:       c.resolveTitle(req.Title, sourceName, summary.Notes),
		Content:     summary.Notes,
		KeyPoints:   summary.KeyPoints,
		Highlights:  summary.Highlights,
		SourceType:  sourceType,
		SummaryType: c.resolveSummaryType(req.SummaryType),
		Language:    req.Language,
		SourceName:  sourceName,
		Degraded:    summary.Degraded,
		CreatedAt:   time.Now(),
	}

	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}

	// Embedding is auxiliary too: the note is already persisted, a failed
	// enqueue only costs semantic search until the next re-index.
	if msgJson, err := json.Marshal(dto.PublishEmbedNoteMessage{NoteId: note.Id}); err != nil {
		c.log.Warn("note", "Failed to marshal embed message", map[string]interface{}{
			"noteId": note.Id.String(),
			"error":  err.Error(),
		})
	} else if err := c.publisherService.Publish(ctx, msgJson); err != nil {
		c.log.Warn("note", "Failed to enqueue note for embedding", map[string]interface{}{
			"noteId": note.Id.String(),
			"error":  err.Error(),
		})
	}

	// Feed event is auxiliary; failures are logged, not surfaced.
	if c.eventPublisher != nil {
		evt := events.NewNoteCreated(note.Id.String(), userId.String(), note.Title, string(note.SourceType))
		if err := c.eventPublisher.Publish(ctx, evt); err != nil {
			c.log.Warn("note", "Failed to publish NOTE_CREATED event", map[string]interface{}{
				"noteId": note.Id.String(),
				"error":  err.Error(),
			})
		}
	}

	return noteToResponse(&note), nil
}

func (c *noteService) resolveSourceText(ctx context.Context, sourceType entity.SourceType, req *dto.GenerateNoteRequest, file *UploadedFile) (string, string, error) {
	switch sourceType {
	case entity.SourceText:
		text := strings.TrimSpace(req.Text)
		if text == "" {
			return "", "", apperror.NewValidation("Text input is empty",
				apperror.FieldError{Field: "text", Message: "text is required"})
		}
		return text, "", nil

	case entity.SourceAudio, entity.SourceVideo:
		if file == nil || file.Path == "" {
			return "", "", apperror.NewValidation("A media file is required for this source type")
		}
		transcript, err := c.transcriber.Transcribe(ctx, file.Path)
		if err != nil {
			return "", "", err
		}
		return transcript, file.Filename, nil

	case entity.SourceYouTube:
		if strings.TrimSpace(req.YoutubeUrl) == "" {
			return "", "", apperror.NewValidation("A YouTube URL is required for this source type")
		}
		transcript, err := c.ytIngester.Transcript(ctx, req.YoutubeUrl)
		if err != nil {
			return "", "", err
		}
		return transcript, req.YoutubeUrl, nil

	case entity.SourceDocument:
		if file == nil || file.Path == "" {
			return "", "", apperror.NewValidation("A document file is required for this source type")
		}
		data, err := os.ReadFile(file.Path)
		if err != nil {
			return "", "", err
		}
		text, err := docparse.Extract(data, file.Filename, file.MimeType)
		if err != nil {
			return "", "", err
		}
		return text, file.Filename, nil

	default:
		return "", "", apperror.NewUnsupportedSource(string(sourceType))
	}
}

func (c *noteService) resolveTitle(requested, sourceName, notes string) string {
	if t := strings.TrimSpace(requested); t != "" {
		return t
	}
	if sourceName != "" && !strings.HasPrefix(sourceName, "http") {
		base := strings.TrimSuffix(sourceName, filepath.Ext(sourceName))
		if base != "" {
			return base
		}
	}
	// Fall back to the first line of the generated notes.
	if line := strings.TrimSpace(strings.SplitN(notes, "\n", 2)[0]); line != "" {
		line = strings.TrimLeft(line, "# ")
		if len(line) > 80 {
			line = line[:80]
		}
		if line != "" {
			return line
		}
	}
	return "Lecture Notes"
}

func (c *noteService) resolveSummaryType(requested string) entity.SummaryType {
	st := entity.SummaryType(requested)
	if !st.IsValid() {
		return entity.SummaryShort
	}
	return st
}

func (c *noteService) List(ctx context.Context, userId uuid.UUID) (*dto.ListNotesResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.ListNotesResponse{
		Notes: make([]dto.NoteResponse, len(notes)),
		Total: int64(len(notes)),
	}
	for i, note := range notes {
		res.Notes[i] = *noteToResponse(note)
	}
	return res, nil
}

func (c *noteService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.NewNotFound("note")
	}

	return noteToResponse(note), nil
}

func (c *noteService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if note == nil {
		return apperror.NewNotFound("note")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.NoteRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.NoteEmbeddingRepository().DeleteByNoteId(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

func (c *noteService) ToggleShare(ctx context.Context, userId uuid.UUID, id uuid.UUID, isShared bool) (*dto.ToggleShareResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.NewNotFound("note")
	}

	now := time.Now()
	note.IsShared = isShared
	note.UpdatedAt = &now

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}

	return &dto.ToggleShareResponse{
		Id:       note.Id,
		IsShared: note.IsShared,
	}, nil
}

const semanticSearchThreshold = 0.35

func (c *noteService) SemanticSearch(ctx context.Context, userId uuid.UUID, search string) ([]*dto.SemanticSearchResponse, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return nil, apperror.NewValidation("Search query is required")
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	queryVector, err := c.embeddingProvider.Embed(ctx, search, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}

	scoredResults, err := uow.NoteEmbeddingRepository().SearchSimilarWithScore(ctx, queryVector, 10, userId, semanticSearchThreshold)
	if err != nil {
		return nil, err
	}
	if len(scoredResults) == 0 {
		return []*dto.SemanticSearchResponse{}, nil
	}

	// Deduplicate chunks by note, keeping the best score per note.
	ids := make([]uuid.UUID, 0)
	scoreMap := make(map[uuid.UUID]float64)
	snippetMap := make(map[uuid.UUID]string)
	for _, sr := range scoredResults {
		if _, seen := scoreMap[sr.Embedding.NoteId]; !seen {
			ids = append(ids, sr.Embedding.NoteId)
			scoreMap[sr.Embedding.NoteId] = sr.Similarity
			snippetMap[sr.Embedding.NoteId] = snippet(sr.Embedding.Document)
		}
	}

	fetchedNotes, err := uow.NoteRepository().FindAll(ctx,
		specification.ByIDs{IDs: ids},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	notesById := make(map[uuid.UUID]*entity.Note, len(fetchedNotes))
	for _, note := range fetchedNotes {
		notesById[note.Id] = note
	}

	// Preserve scored order: most relevant first.
	response := make([]*dto.SemanticSearchResponse, 0, len(ids))
	for _, id := range ids {
		note, ok := notesById[id]
		if !ok {
			continue
		}
		response = append(response, &dto.SemanticSearchResponse{
			Id:             note.Id,
			Title:          note.Title,
			Snippet:        snippetMap[id],
			CreatedAt:      note.CreatedAt,
			UpdatedAt:      note.UpdatedAt,
			RelevanceScore: scoreMap[id],
		})
	}

	return response, nil
}

func snippet(document string) string {
	document = strings.TrimSpace(document)
	if len(document) > 240 {
		return document[:240] + "..."
	}
	return document
}

func noteToResponse(note *entity.Note) *dto.NoteResponse {
	keyPoints := note.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}
	highlights := note.Highlights
	if highlights == nil {
		highlights = []string{}
	}
	return &dto.NoteResponse{
		Id:          note.Id,
		Title:       note.Title,
		Notes:       note.Content,
		KeyPoints:   keyPoints,
		Highlights:  highlights,
		SourceType:  string(note.SourceType),
		SummaryType: string(note.SummaryType),
		Language:    note.Language,
		SourceName:  note.SourceName,
		Degraded:    note.Degraded,
		IsShared:    note.IsShared,
		CreatedAt:   note.CreatedAt,
		UpdatedAt:   note.UpdatedAt,
	}
}
