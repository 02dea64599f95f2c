package docparse

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	"lecturenotes-be/pkg/apperror"
)

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperror.NewUnsupportedDocumentType(MimePDF).WithCause(err)
	}

	var sb strings.Builder
	totalPages := reader.NumPage()
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", apperror.NewEmptyContent("PDF contains no extractable text")
	}
	return text, nil
}
