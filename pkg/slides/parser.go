package slides

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"lecturenotes-be/pkg/apperror"

	"github.com/ledongthuc/pdf"
)

// ExtractText pulls the visible text out of a slide deck, one "Slide N:"
// block per slide in deck order. PPTX decks are read from the OOXML slide
// XML, PDF decks page by page; legacy .ppt binaries are rejected up front.
func ExtractText(data []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pptx":
		return extractPptxText(data, ext)
	case ".pdf":
		return extractPdfText(data, ext)
	default:
		return "", apperror.NewUnsupportedSlideFormat(ext)
	}
}

func extractPptxText(data []byte, ext string) (string, error) {
	if !bytes.HasPrefix(data, []byte("PK")) {
		return "", apperror.NewUnsupportedSlideFormat(ext)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperror.NewUnsupportedSlideFormat(ext).WithCause(err)
	}

	type slideFile struct {
		index int
		file  *zip.File
	}
	var slideFiles []slideFile
	for _, f := range zr.File {
		idx, ok := slideIndex(f.Name)
		if !ok {
			continue
		}
		slideFiles = append(slideFiles, slideFile{index: idx, file: f})
	}
	if len(slideFiles) == 0 {
		return "", apperror.NewEmptyContent("Presentation contains no slides")
	}
	sort.Slice(slideFiles, func(i, j int) bool { return slideFiles[i].index < slideFiles[j].index })

	var sb strings.Builder
	for _, sf := range slideFiles {
		text, err := slideText(sf.file)
		if err != nil {
			continue
		}
		if text == "" {
			continue
		}
		fmt.Fprintf(&sb, "Slide %d:\n%s\n\n", sf.index, text)
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", apperror.NewEmptyContent("Presentation contains no readable text")
	}
	return out, nil
}

// extractPdfText treats each PDF page as one slide.
func extractPdfText(data []byte, ext string) (string, error) {
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return "", apperror.NewUnsupportedSlideFormat(ext)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperror.NewUnsupportedSlideFormat(ext).WithCause(err)
	}

	totalPages := reader.NumPage()
	if totalPages == 0 {
		return "", apperror.NewEmptyContent("Presentation contains no slides")
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		fmt.Fprintf(&sb, "Slide %d:\n%s\n\n", pageNum, text)
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", apperror.NewEmptyContent("Presentation contains no readable text")
	}
	return out, nil
}

// slideIndex matches ppt/slides/slideN.xml and returns N.
func slideIndex(name string) (int, bool) {
	if !strings.HasPrefix(name, "ppt/slides/slide") || !strings.HasSuffix(name, ".xml") {
		return 0, false
	}
	numStr := strings.TrimSuffix(strings.TrimPrefix(name, "ppt/slides/slide"), ".xml")
	idx, err := strconv.Atoi(numStr)
	if err != nil || idx < 1 {
		return 0, false
	}
	return idx, true
}

// slideText streams the slide XML and collects every DrawingML text run
// (a:t elements), one line per paragraph.
func slideText(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var lines []string
	var current strings.Builder
	inTextRun := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "t" {
				inTextRun = true
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inTextRun = false
			case "p":
				if line := strings.TrimSpace(current.String()); line != "" {
					lines = append(lines, line)
				}
				current.Reset()
			}
		case xml.CharData:
			if inTextRun {
				current.Write(el)
			}
		}
	}
	if line := strings.TrimSpace(current.String()); line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}
