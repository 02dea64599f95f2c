package service

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"lecturenotes-be/internal/entity"
	"lecturenotes-be/pkg/apperror"
	"lecturenotes-be/pkg/summarizer"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const outlineJSON = `{
	"overview": "A walkthrough of heat engines.",
	"sections": [
		{"title": "Carnot Cycle", "bullets": ["Isothermal expansion", "Adiabatic expansion"]}
	],
	"takeaways": ["Efficiency is bounded by temperatures"]
}`

func writeTestDeck(t *testing.T) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("ppt/slides/slide1.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0"?><p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">` +
		`<p:cSld><p:spTree><a:p><a:r><a:t>Heat engines convert heat into work.</a:t></a:r></a:p></p:spTree></p:cSld></p:sld>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "heat-engines.pptx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func newSlidesServiceForTest(t *testing.T) (ISlidesService, *fakeUow, *capturingPublisher) {
	t.Helper()

	factory, uow := newFakeFactory()
	publisher := &capturingPublisher{}
	provider := &fakeLLM{response: outlineJSON}
	svc := NewSlidesService(factory, publisher, summarizer.NewService(provider, "primary-model", "fallback-model"), nopLogger{})
	return svc, uow, publisher
}

func TestSlidesServiceConvert(t *testing.T) {
	ctx := context.Background()
	userId := uuid.New()

	t.Run("Deck Becomes Outline Note", func(t *testing.T) {
		svc, uow, publisher := newSlidesServiceForTest(t)
		deckPath := writeTestDeck(t)

		res, err := svc.Convert(ctx, userId, &UploadedFile{
			Path:     deckPath,
			Filename: "heat-engines.pptx",
			MimeType: "application/vnd.openxmlformats-officedocument.presentationml.presentation",
		}, "en")
		require.NoError(t, err)

		assert.Equal(t, "heat-engines", res.Title)
		assert.Equal(t, "A walkthrough of heat engines.", res.Outline.Overview)
		require.Len(t, res.Outline.Sections, 1)
		assert.Equal(t, "Carnot Cycle", res.Outline.Sections[0].Title)
		assert.Contains(t, res.Markdown, "## Carnot Cycle")
		assert.Contains(t, res.Markdown, "- Isothermal expansion")

		require.Len(t, uow.notes.rows, 1)
		stored := uow.notes.rows[0]
		assert.Equal(t, entity.SourceSlides, stored.SourceType)
		assert.Equal(t, []string{"Efficiency is bounded by temperatures"}, stored.KeyPoints)
		assert.Equal(t, []string{"Isothermal expansion"}, stored.Highlights)

		require.Len(t, publisher.payloads, 1)

		// The uploaded deck is removed after conversion.
		_, statErr := os.Stat(deckPath)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("Non Pptx File Rejected", func(t *testing.T) {
		svc, uow, _ := newSlidesServiceForTest(t)

		path := filepath.Join(t.TempDir(), "deck.pdf")
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 not a deck"), 0o644))

		_, err := svc.Convert(ctx, userId, &UploadedFile{Path: path, Filename: "deck.pdf"}, "")
		require.Error(t, err)

		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeUnsupportedSlideFormat, appErr.Code)
		assert.Empty(t, uow.notes.rows)
	})

	t.Run("Malformed Model Output Surfaces Error", func(t *testing.T) {
		factory, uow := newFakeFactory()
		provider := &fakeLLM{response: "not json at all"}
		svc := NewSlidesService(factory, &capturingPublisher{}, summarizer.NewService(provider, "primary-model", "fallback-model"), nopLogger{})

		_, err := svc.Convert(ctx, userId, &UploadedFile{
			Path:     writeTestDeck(t),
			Filename: "heat-engines.pptx",
		}, "")
		require.Error(t, err)
		assert.Empty(t, uow.notes.rows)
	})

	t.Run("Empty Language Persisted As Given", func(t *testing.T) {
		svc, uow, _ := newSlidesServiceForTest(t)

		_, err := svc.Convert(ctx, userId, &UploadedFile{
			Path:     writeTestDeck(t),
			Filename: "heat-engines.pptx",
		}, "")
		require.NoError(t, err)
		assert.Equal(t, "", uow.notes.rows[0].Language)
	})
}
