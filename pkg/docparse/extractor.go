package docparse

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"lecturenotes-be/pkg/apperror"
)

const (
	MimePDF  = "application/pdf"
	MimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

// Extract returns the plain text of an uploaded document. The effective type
// is resolved from the declared MIME, the filename extension, and the file's
// magic bytes; a mismatch between declared type and actual content is an
// unsupported-document error, not a silent fallthrough.
func Extract(data []byte, filename, declaredMime string) (string, error) {
	if len(data) == 0 {
		return "", apperror.NewEmptyContent("Uploaded document is empty")
	}

	mime := resolveMime(data, filename, declaredMime)
	switch mime {
	case MimePDF:
		return extractPDF(data)
	case MimeDocx:
		return extractDocx(data)
	case MimeText:
		return extractPlainText(data)
	default:
		return "", apperror.NewUnsupportedDocumentType(declaredMime)
	}
}

func resolveMime(data []byte, filename, declaredMime string) string {
	declared := strings.ToLower(strings.TrimSpace(declaredMime))
	if idx := strings.Index(declared, ";"); idx >= 0 {
		declared = declared[:idx]
	}
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case bytes.HasPrefix(data, []byte("%PDF")):
		return MimePDF
	case bytes.HasPrefix(data, []byte("PK")):
		// Zip container: only docx is accepted here, pptx goes through the
		// slides endpoint.
		if declared == MimeDocx || ext == ".docx" {
			return MimeDocx
		}
		return ""
	}

	if declared == MimeText || strings.HasPrefix(declared, "text/") || ext == ".txt" || ext == ".md" {
		if utf8.Valid(data) {
			return MimeText
		}
	}
	return ""
}

func extractPlainText(data []byte) (string, error) {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", apperror.NewEmptyContent("Document contains no readable text")
	}
	return text, nil
}
