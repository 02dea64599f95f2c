package transcribe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"lecturenotes-be/pkg/apperror"
)

// GoogleSpeechTranscriber calls the Speech-to-Text v1 recognize endpoint with
// inline audio content. Suitable for short clips; long media should go
// through the whisper path instead.
type GoogleSpeechTranscriber struct {
	APIKey       string
	BaseURL      string
	LanguageCode string
	Client       *http.Client
}

func NewGoogleSpeechTranscriber(apiKey, languageCode string) *GoogleSpeechTranscriber {
	if languageCode == "" {
		languageCode = "en-US"
	}
	return &GoogleSpeechTranscriber{
		APIKey:       apiKey,
		BaseURL:      "https://speech.googleapis.com/v1",
		LanguageCode: languageCode,
		Client:       &http.Client{Timeout: 120 * time.Second},
	}
}

type speechRequest struct {
	Config struct {
		Encoding        string `json:"encoding"`
		SampleRateHertz int    `json:"sampleRateHertz"`
		LanguageCode    string `json:"languageCode"`
	} `json:"config"`
	Audio struct {
		Content string `json:"content"`
	} `json:"audio"`
}

type speechResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"results"`
}

func (g *GoogleSpeechTranscriber) Transcribe(ctx context.Context, mediaPath string) (string, error) {
	data, err := os.ReadFile(mediaPath)
	if err != nil {
		return "", apperror.NewTranscription("Could not read media file").WithCause(err)
	}

	var reqBody speechRequest
	reqBody.Config.Encoding = "LINEAR16"
	reqBody.Config.SampleRateHertz = 16000
	reqBody.Config.LanguageCode = g.LanguageCode
	reqBody.Audio.Content = base64.StdEncoding.EncodeToString(data)

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal speech request: %w", err)
	}

	url := fmt.Sprintf("%s/speech:recognize?key=%s", g.BaseURL, g.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", apperror.NewTranscription("Speech API request failed").WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read speech response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperror.NewTranscription("Speech API returned an error").
			WithCause(fmt.Errorf("speech API status %d: %s", resp.StatusCode, string(body)))
	}

	var speechResp speechResponse
	if err := json.Unmarshal(body, &speechResp); err != nil {
		return "", fmt.Errorf("failed to parse speech response: %w", err)
	}

	var sb strings.Builder
	for _, result := range speechResp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(result.Alternatives[0].Transcript)
	}

	return ValidateTranscript(sb.String())
}
