package transcribe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"lecturenotes-be/pkg/apperror"
)

// WhisperTranscriber shells out to a local whisper.cpp style binary. The
// binary is expected to write <media>.txt next to the input when given -otxt.
type WhisperTranscriber struct {
	BinPath   string
	ModelPath string
	Timeout   time.Duration
}

func NewWhisperTranscriber(binPath, modelPath string, timeout time.Duration) *WhisperTranscriber {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &WhisperTranscriber{BinPath: binPath, ModelPath: modelPath, Timeout: timeout}
}

func (w *WhisperTranscriber) Transcribe(ctx context.Context, mediaPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()

	outBase := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
	txtPath := outBase + ".txt"

	cmd := exec.CommandContext(ctx, w.BinPath,
		"-m", w.ModelPath,
		"-f", mediaPath,
		"-otxt",
		"-of", outBase,
		"-np",
	)

	output, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return "", apperror.NewTranscription("Transcription timed out").WithCause(ctx.Err())
	}
	if err != nil {
		return "", apperror.NewTranscription("Transcription process failed").
			WithCause(fmt.Errorf("whisper: %w: %s", err, string(output)))
	}

	data, err := os.ReadFile(txtPath)
	if err != nil {
		return "", apperror.NewTranscription("Transcription produced no output").WithCause(err)
	}
	defer os.Remove(txtPath)

	return ValidateTranscript(string(data))
}
