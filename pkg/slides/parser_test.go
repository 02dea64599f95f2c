package slides

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"

	"lecturenotes-be/pkg/apperror"
	"lecturenotes-be/pkg/summarizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPptx(t *testing.T, slideXML map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range slideXML {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// buildPdf writes a minimal one-font PDF with one page per text string,
// computing the xref offsets as it goes.
func buildPdf(t *testing.T, pages ...string) []byte {
	t.Helper()

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}
	for i, pageText := range pages {
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			5+2*i))
		content := fmt.Sprintf("BT /F1 24 Tf 72 720 Td (%s) Tj ET", pageText)
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefPos)
	return buf.Bytes()
}

func slideXMLWith(paragraphs ...string) string {
	var body bytes.Buffer
	for _, p := range paragraphs {
		fmt.Fprintf(&body, `<a:p><a:r><a:t>%s</a:t></a:r></a:p>`, p)
	}
	return `<?xml version="1.0"?><p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"><p:cSld><p:spTree>` +
		body.String() + `</p:spTree></p:cSld></p:sld>`
}

func TestExtractText(t *testing.T) {
	t.Run("multi slide deck in order", func(t *testing.T) {
		data := buildPptx(t, map[string]string{
			"ppt/slides/slide2.xml":           slideXMLWith("Second slide"),
			"ppt/slides/slide1.xml":           slideXMLWith("Title", "Subtitle"),
			"ppt/slides/slide10.xml":          slideXMLWith("Tenth slide"),
			"ppt/notesSlides/notesSlide1.xml": slideXMLWith("Speaker notes ignored"),
		})

		text, err := ExtractText(data, "deck.pptx")
		require.NoError(t, err)
		assert.Contains(t, text, "Slide 1:\nTitle\nSubtitle")
		assert.Contains(t, text, "Slide 2:\nSecond slide")
		assert.Contains(t, text, "Slide 10:\nTenth slide")
		assert.NotContains(t, text, "Speaker notes")
		// Numeric order, not lexicographic.
		assert.Less(t, bytes.Index([]byte(text), []byte("Slide 2:")), bytes.Index([]byte(text), []byte("Slide 10:")))
	})

	t.Run("pdf deck pages become slides", func(t *testing.T) {
		data := buildPdf(t, "Heat engines overview", "Carnot cycle")

		text, err := ExtractText(data, "lecture-deck.pdf")
		require.NoError(t, err)
		assert.Contains(t, text, "Slide 1:\nHeat engines overview")
		assert.Contains(t, text, "Slide 2:\nCarnot cycle")
	})

	t.Run("pdf without magic rejected", func(t *testing.T) {
		_, err := ExtractText([]byte("plain text"), "deck.pdf")
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeUnsupportedSlideFormat, appErr.Code)
	})

	t.Run("wrong extension rejected", func(t *testing.T) {
		_, err := ExtractText([]byte("PK..."), "deck.ppt")
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeUnsupportedSlideFormat, appErr.Code)
	})

	t.Run("not a zip rejected", func(t *testing.T) {
		_, err := ExtractText([]byte("plain text"), "deck.pptx")
		assert.Error(t, err)
	})

	t.Run("no slides", func(t *testing.T) {
		data := buildPptx(t, map[string]string{
			"ppt/presentation.xml": "<p:presentation/>",
		})
		_, err := ExtractText(data, "deck.pptx")
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, "Presentation contains no slides", appErr.Message)
	})

	t.Run("slides without text", func(t *testing.T) {
		data := buildPptx(t, map[string]string{
			"ppt/slides/slide1.xml": slideXMLWith(),
		})
		_, err := ExtractText(data, "deck.pptx")
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, "Presentation contains no readable text", appErr.Message)
	})
}

func TestRenderMarkdown(t *testing.T) {
	outline := &summarizer.SlideOutline{
		Overview: "Course intro",
		Sections: []summarizer.OutlineSection{
			{Title: "Basics", Bullets: []string{"point one", "point two"}},
			{Title: "Advanced", Bullets: nil},
		},
		Takeaways: []string{"study hard"},
	}

	md := RenderMarkdown(outline)
	assert.Contains(t, md, "## Overview")
	assert.Contains(t, md, "Course intro")
	assert.Contains(t, md, "## Basics")
	assert.Contains(t, md, "- point one")
	assert.Contains(t, md, "## Advanced")
	assert.Contains(t, md, "## Key Takeaways")
	assert.Contains(t, md, "- study hard")
}
