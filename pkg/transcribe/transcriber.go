package transcribe

import (
	"context"
	"strings"

	"lecturenotes-be/pkg/apperror"
)

// MinTranscriptChars is the floor below which a transcript is treated as
// unusable noise rather than real speech.
const MinTranscriptChars = 20

// Transcriber turns an audio/video file on disk into text.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath string) (string, error)
}

// ValidateTranscript enforces the minimum usable length after trimming.
func ValidateTranscript(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < MinTranscriptChars {
		return "", apperror.NewTranscription("Transcript is empty or too short to summarize")
	}
	return trimmed, nil
}
