package youtube

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"lecturenotes-be/pkg/apperror"
	"lecturenotes-be/pkg/transcribe"
)

const (
	videoIDLength      = 11
	transcriptCacheTTL = 24 * time.Hour
)

// ExtractVideoID pulls the canonical 11-character video ID out of the URL
// shapes YouTube actually serves (watch, youtu.be, shorts, embed).
func ExtractVideoID(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return "", apperror.NewInvalidURL(rawURL)
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(parsed.Path, "/")
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		path := strings.Trim(parsed.Path, "/")
		switch {
		case path == "watch":
			id = parsed.Query().Get("v")
		case strings.HasPrefix(path, "shorts/"):
			id = strings.TrimPrefix(path, "shorts/")
		case strings.HasPrefix(path, "embed/"):
			id = strings.TrimPrefix(path, "embed/")
		case strings.HasPrefix(path, "live/"):
			id = strings.TrimPrefix(path, "live/")
		}
	default:
		return "", apperror.NewInvalidURL(rawURL)
	}

	if idx := strings.Index(id, "/"); idx >= 0 {
		id = id[:idx]
	}
	if !validVideoID(id) {
		return "", apperror.NewInvalidURL(rawURL)
	}
	return id, nil
}

func validVideoID(id string) bool {
	if len(id) != videoIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}

// Ingester downloads the audio track of a YouTube video with yt-dlp and runs
// it through the configured transcriber. Transcripts are cached in Redis
// keyed by video ID so repeated requests for the same lecture skip the
// download entirely.
type Ingester struct {
	ytDlpBin    string
	workDir     string
	transcriber transcribe.Transcriber
	redisClient *redis.Client
}

func NewIngester(ytDlpBin, workDir string, transcriber transcribe.Transcriber, redisClient *redis.Client) *Ingester {
	if ytDlpBin == "" {
		ytDlpBin = "yt-dlp"
	}
	return &Ingester{
		ytDlpBin:    ytDlpBin,
		workDir:     workDir,
		transcriber: transcriber,
		redisClient: redisClient,
	}
}

func transcriptCacheKey(videoID string) string {
	return "yt:transcript:" + videoID
}

// Transcript resolves the URL to a video ID and returns its transcript,
// downloading and transcribing only on cache miss.
func (i *Ingester) Transcript(ctx context.Context, rawURL string) (string, error) {
	videoID, err := ExtractVideoID(rawURL)
	if err != nil {
		return "", err
	}

	if i.redisClient != nil {
		cached, err := i.redisClient.Get(ctx, transcriptCacheKey(videoID)).Result()
		if err == nil && strings.TrimSpace(cached) != "" {
			return cached, nil
		}
	}

	wavPath, err := i.downloadAudio(ctx, videoID)
	if err != nil {
		return "", err
	}
	defer os.Remove(wavPath)

	transcript, err := i.transcriber.Transcribe(ctx, wavPath)
	if err != nil {
		if appErr, ok := apperror.As(err); ok {
			return "", appErr
		}
		return "", apperror.NewTranscriptUnavailable(videoID)
	}

	if i.redisClient != nil {
		// Cache failures are non-fatal; next request just re-transcribes.
		_ = i.redisClient.Set(ctx, transcriptCacheKey(videoID), transcript, transcriptCacheTTL).Err()
	}
	return transcript, nil
}

// downloadAudio fetches the audio track as 16kHz mono wav, the format the
// whisper binary expects.
func (i *Ingester) downloadAudio(ctx context.Context, videoID string) (string, error) {
	outPath := filepath.Join(i.workDir, fmt.Sprintf("yt-%s-%d.wav", videoID, time.Now().UnixNano()))

	cmd := exec.CommandContext(ctx, i.ytDlpBin,
		"-x",
		"--audio-format", "wav",
		"--postprocessor-args", "ffmpeg:-ar 16000 -ac 1",
		"-o", outPath,
		"--no-playlist",
		"https://www.youtube.com/watch?v="+videoID,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(outPath)
		return "", apperror.NewTranscriptUnavailable(videoID).
			WithCause(fmt.Errorf("yt-dlp: %w: %s", err, string(output)))
	}
	if _, statErr := os.Stat(outPath); statErr != nil {
		return "", apperror.NewTranscriptUnavailable(videoID).WithCause(statErr)
	}
	return outPath, nil
}
