package docparse

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"

	"lecturenotes-be/pkg/apperror"
)

func extractDocx(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperror.NewUnsupportedDocumentType(MimeDocx).WithCause(err)
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch body := item.(type) {
		case *docx.Paragraph:
			line := strings.TrimSpace(body.String())
			if line != "" {
				sb.WriteString(line)
				sb.WriteString("\n")
			}
		case *docx.Table:
			line := strings.TrimSpace(fmt.Sprint(body))
			if line != "" {
				sb.WriteString(line)
				sb.WriteString("\n")
			}
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", apperror.NewEmptyContent("Document contains no readable text")
	}
	return text, nil
}
