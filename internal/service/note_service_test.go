package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lecturenotes-be/internal/dto"
	"lecturenotes-be/internal/entity"
	"lecturenotes-be/internal/repository/contract"
	"lecturenotes-be/pkg/apperror"
	"lecturenotes-be/pkg/summarizer"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const summaryJSON = `{
	"notes": "# Thermodynamics Basics\nHeat flows from hot to cold.",
	"keyPoints": ["First law", "Second law"],
	"highlights": ["Entropy never decreases in a closed system"]
}`

func newNoteServiceForTest(t *testing.T) (INoteService, *fakeUow, *fakeLLM, *capturingPublisher, *fakeEmbedder, *fakeTranscriber) {
	t.Helper()

	factory, uow := newFakeFactory()
	provider := &fakeLLM{response: summaryJSON}
	publisher := &capturingPublisher{}
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2, 0.3}}
	transcriber := &fakeTranscriber{transcript: "Today we cover the laws of thermodynamics in detail."}

	svc := NewNoteService(
		factory,
		publisher,
		embedder,
		nil,
		summarizer.NewService(provider, "primary-model", "fallback-model"),
		transcriber,
		nil,
		nopLogger{},
	)
	return svc, uow, provider, publisher, embedder, transcriber
}

func TestNoteServiceGenerate(t *testing.T) {
	ctx := context.Background()
	userId := uuid.New()

	t.Run("Text Source Produces Persisted Note", func(t *testing.T) {
		svc, uow, provider, publisher, _, _ := newNoteServiceForTest(t)

		res, err := svc.Generate(ctx, userId, &dto.GenerateNoteRequest{
			SourceType:  "text",
			SummaryType: "detailed",
			Language:    "en",
			Title:       "Thermo Lecture 1",
			Text:        "  Heat is energy in transit between systems at different temperatures.  ",
		}, nil)
		require.NoError(t, err)

		// The trimmed input text must reach the model verbatim.
		require.Len(t, provider.prompts, 1)
		assert.Contains(t, provider.prompts[0], "Heat is energy in transit between systems at different temperatures.")
		assert.NotContains(t, provider.prompts[0], "  Heat is energy")

		assert.Equal(t, "Thermo Lecture 1", res.Title)
		assert.Equal(t, "# Thermodynamics Basics\nHeat flows from hot to cold.", res.Notes)
		assert.Equal(t, []string{"First law", "Second law"}, res.KeyPoints)
		assert.Equal(t, "detailed", res.SummaryType)
		assert.False(t, res.Degraded)

		require.Len(t, uow.notes.rows, 1)
		stored := uow.notes.rows[0]
		assert.Equal(t, userId, stored.UserId)
		assert.Equal(t, entity.SourceText, stored.SourceType)
		assert.False(t, stored.IsShared)

		// Embedding work is queued for the new note.
		require.Len(t, publisher.payloads, 1)
		var msg dto.PublishEmbedNoteMessage
		require.NoError(t, json.Unmarshal(publisher.payloads[0], &msg))
		assert.Equal(t, stored.Id, msg.NoteId)
	})

	t.Run("Embed Enqueue Failure Does Not Fail Generation", func(t *testing.T) {
		factory, uow := newFakeFactory()
		provider := &fakeLLM{response: summaryJSON}
		publisher := &capturingPublisher{err: errors.New("queue closed")}
		svc := NewNoteService(
			factory,
			publisher,
			&fakeEmbedder{vector: []float32{0.1}},
			nil,
			summarizer.NewService(provider, "primary-model", "fallback-model"),
			&fakeTranscriber{},
			nil,
			nopLogger{},
		)

		res, err := svc.Generate(ctx, userId, &dto.GenerateNoteRequest{
			SourceType: "text",
			Text:       "Content that summarizes fine but fails to enqueue.",
		}, nil)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, res.Id)
		require.Len(t, uow.notes.rows, 1)
	})

	t.Run("Missing Title Falls Back To First Notes Line", func(t *testing.T) {
		svc, _, _, _, _, _ := newNoteServiceForTest(t)

		res, err := svc.Generate(ctx, userId, &dto.GenerateNoteRequest{
			SourceType: "text",
			Text:       "A sufficiently long piece of lecture content.",
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Thermodynamics Basics", res.Title)
	})

	t.Run("Invalid Summary Type Defaults To Short", func(t *testing.T) {
		svc, uow, _, _, _, _ := newNoteServiceForTest(t)

		res, err := svc.Generate(ctx, userId, &dto.GenerateNoteRequest{
			SourceType:  "text",
			SummaryType: "gibberish",
			Text:        "Some lecture content worth summarizing.",
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "short", res.SummaryType)
		assert.Equal(t, entity.SummaryShort, uow.notes.rows[0].SummaryType)
	})

	t.Run("Empty Text Rejected Without Persisting", func(t *testing.T) {
		svc, uow, provider, publisher, _, _ := newNoteServiceForTest(t)

		_, err := svc.Generate(ctx, userId, &dto.GenerateNoteRequest{
			SourceType: "text",
			Text:       "   ",
		}, nil)
		require.Error(t, err)

		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
		require.Len(t, appErr.Errs, 1)
		assert.Equal(t, "text", appErr.Errs[0].Field)

		assert.Empty(t, provider.prompts)
		assert.Empty(t, uow.notes.rows)
		assert.Empty(t, publisher.payloads)
	})

	t.Run("Slides Source Rejected", func(t *testing.T) {
		svc, uow, _, _, _, _ := newNoteServiceForTest(t)

		_, err := svc.Generate(ctx, userId, &dto.GenerateNoteRequest{SourceType: "slides"}, nil)
		require.Error(t, err)

		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeUnsupportedSource, appErr.Code)
		assert.Empty(t, uow.notes.rows)
	})

	t.Run("Audio Source Transcribes And Removes Upload", func(t *testing.T) {
		svc, uow, provider, _, _, transcriber := newNoteServiceForTest(t)

		mediaPath := filepath.Join(t.TempDir(), "lecture.mp3")
		require.NoError(t, os.WriteFile(mediaPath, []byte("fake audio"), 0o644))

		res, err := svc.Generate(ctx, userId, &dto.GenerateNoteRequest{
			SourceType: "audio",
		}, &UploadedFile{Path: mediaPath, Filename: "lecture.mp3", MimeType: "audio/mpeg"})
		require.NoError(t, err)

		require.Equal(t, []string{mediaPath}, transcriber.paths)
		assert.Contains(t, provider.prompts[0], transcriber.transcript)
		assert.Equal(t, "lecture", res.Title)
		assert.Equal(t, "lecture.mp3", uow.notes.rows[0].SourceName)

		_, statErr := os.Stat(mediaPath)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("Audio Source Without File Rejected", func(t *testing.T) {
		svc, _, _, _, _, _ := newNoteServiceForTest(t)

		_, err := svc.Generate(ctx, userId, &dto.GenerateNoteRequest{SourceType: "audio"}, nil)
		require.Error(t, err)

		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})
}

func TestNoteServiceShow(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	svc, uow, _, _, _, _ := newNoteServiceForTest(t)
	note := &entity.Note{
		Id:        uuid.New(),
		UserId:    owner,
		Title:     "Owned note",
		Content:   "Body",
		CreatedAt: time.Now(),
	}
	uow.notes.rows = append(uow.notes.rows, note)

	t.Run("Owner Sees Note", func(t *testing.T) {
		res, err := svc.Show(ctx, owner, note.Id)
		require.NoError(t, err)
		assert.Equal(t, "Owned note", res.Title)
	})

	t.Run("Other User Gets Not Found", func(t *testing.T) {
		_, err := svc.Show(ctx, stranger, note.Id)
		require.Error(t, err)

		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeNotFound, appErr.Code)
	})
}

func TestNoteServiceDelete(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	svc, uow, _, _, _, _ := newNoteServiceForTest(t)
	note := &entity.Note{Id: uuid.New(), UserId: owner, CreatedAt: time.Now()}
	uow.notes.rows = append(uow.notes.rows, note)

	require.NoError(t, svc.Delete(ctx, owner, note.Id))

	assert.Empty(t, uow.notes.rows)
	assert.Equal(t, []uuid.UUID{note.Id}, uow.embeddings.deletedNoteIds)
	assert.Equal(t, 1, uow.began)
	assert.Equal(t, 1, uow.committed)

	err := svc.Delete(ctx, owner, note.Id)
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeNotFound, appErr.Code)
}

func TestNoteServiceToggleShare(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	svc, uow, _, _, _, _ := newNoteServiceForTest(t)
	note := &entity.Note{Id: uuid.New(), UserId: owner, CreatedAt: time.Now()}
	uow.notes.rows = append(uow.notes.rows, note)

	res, err := svc.ToggleShare(ctx, owner, note.Id, true)
	require.NoError(t, err)
	assert.True(t, res.IsShared)
	assert.True(t, uow.notes.rows[0].IsShared)
	require.NotNil(t, uow.notes.rows[0].UpdatedAt)

	res, err = svc.ToggleShare(ctx, owner, note.Id, false)
	require.NoError(t, err)
	assert.False(t, res.IsShared)
	assert.False(t, uow.notes.rows[0].IsShared)
}

func TestNoteServiceSemanticSearch(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	svc, uow, _, _, embedder, _ := newNoteServiceForTest(t)

	note := &entity.Note{
		Id:        uuid.New(),
		UserId:    owner,
		Title:     "Entropy",
		CreatedAt: time.Now(),
	}
	uow.notes.rows = append(uow.notes.rows, note)

	// Two chunks of the same note; the first (best) score must win.
	uow.embeddings.scored = []*contract.ScoredNoteEmbedding{
		{Embedding: &entity.NoteEmbedding{NoteId: note.Id, Document: "Entropy measures disorder."}, Similarity: 0.91},
		{Embedding: &entity.NoteEmbedding{NoteId: note.Id, Document: "A second chunk."}, Similarity: 0.77},
	}

	t.Run("Deduplicates Chunks By Note", func(t *testing.T) {
		results, err := svc.SemanticSearch(ctx, owner, "what is entropy")
		require.NoError(t, err)

		assert.Equal(t, []string{"what is entropy"}, embedder.inputs)
		require.Len(t, results, 1)
		assert.Equal(t, note.Id, results[0].Id)
		assert.Equal(t, "Entropy", results[0].Title)
		assert.InDelta(t, 0.91, results[0].RelevanceScore, 1e-9)
		assert.Equal(t, "Entropy measures disorder.", results[0].Snippet)
	})

	t.Run("Blank Query Rejected", func(t *testing.T) {
		_, err := svc.SemanticSearch(ctx, owner, "   ")
		require.Error(t, err)

		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})

	t.Run("No Matches Returns Empty Slice", func(t *testing.T) {
		uow.embeddings.scored = nil
		results, err := svc.SemanticSearch(ctx, owner, "unrelated topic")
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})
}
