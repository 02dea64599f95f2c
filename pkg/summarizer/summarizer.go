package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lecturenotes-be/pkg/apperror"
	"lecturenotes-be/pkg/llm"
)

// Summary is the default response shape for note generation.
type Summary struct {
	Notes      string   `json:"notes"`
	KeyPoints  []string `json:"keyPoints"`
	Highlights []string `json:"highlights"`
	// Degraded marks a response the model failed to structure; the raw text
	// is carried in Notes.
	Degraded bool `json:"-"`
}

// SlideOutline is the alternate shape used by the slides flow.
type SlideOutline struct {
	Overview  string           `json:"overview"`
	Sections  []OutlineSection `json:"sections"`
	Takeaways []string         `json:"takeaways"`
}

type OutlineSection struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

type SummaryType string

const (
	SummaryShort    SummaryType = "short"
	SummaryDetailed SummaryType = "detailed"
	SummaryBullet   SummaryType = "bullet"
)

var summaryGuidance = map[SummaryType]string{
	SummaryShort:    "Provide a concise paragraph summary along with 3 bullet highlights.",
	SummaryDetailed: "Craft a detailed multi-paragraph summary, include key insights, numbered takeaways, and study suggestions.",
	SummaryBullet:   "Return a bullet-point outline with hierarchy, key terms, and action items for revision.",
}

// Service builds prompts, walks the model fallback ladder and decodes
// responses. It holds no per-request state.
type Service struct {
	provider      llm.LLMProvider
	summaryModel  string
	fallbackModel string
}

func NewService(provider llm.LLMProvider, summaryModel, fallbackModel string) *Service {
	return &Service{
		provider:      provider,
		summaryModel:  summaryModel,
		fallbackModel: fallbackModel,
	}
}

type Input struct {
	Text        string
	SummaryType SummaryType
	Language    string
}

func (in *Input) normalize() {
	if in.SummaryType == "" {
		in.SummaryType = SummaryShort
	}
	if in.Language == "" {
		in.Language = "English"
	}
}

// Summarize turns extracted plain text into structured notes. A response the
// model failed to structure degrades to raw notes instead of an error.
func (s *Service) Summarize(ctx context.Context, in Input) (*Summary, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, apperror.NewValidation("No text provided for summarization",
			apperror.FieldError{Field: "text", Message: "text is required"})
	}
	in.normalize()

	guidance, ok := summaryGuidance[in.SummaryType]
	if !ok {
		guidance = summaryGuidance[SummaryShort]
	}

	prompt := fmt.Sprintf(`Language: %s
Summary Type: %s

Content:
%s

Instructions:
%s

Respond ONLY in valid JSON with keys:
- notes (string)
- keyPoints (array)
- highlights (array)
`, in.Language, in.SummaryType, in.Text, guidance)

	raw, err := s.generateWithFallback(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return DecodeSummary(raw), nil
}

// OutlineSlides asks for the slide-deck schema instead of the default one.
// Here a malformed response is fatal: the caller renders sections.
func (s *Service) OutlineSlides(ctx context.Context, in Input) (*SlideOutline, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, apperror.NewValidation("No slide text provided",
			apperror.FieldError{Field: "text", Message: "text is required"})
	}
	in.normalize()

	prompt := fmt.Sprintf(`Language: %s
Summary Type: %s

Content extracted from slides:
%s

Instructions:
Create a structured set of notes including:
- overview
- sections (array of { title, bullets[] })
- takeaways (array)

Respond ONLY in valid JSON.
`, in.Language, in.SummaryType, in.Text)

	raw, err := s.generateWithFallback(ctx, prompt)
	if err != nil {
		return nil, err
	}

	outline, err := DecodeOutline(raw)
	if err != nil {
		return nil, apperror.NewSummarizationUnavailable("Failed to parse AI response").WithCause(err)
	}
	return outline, nil
}

// generateWithFallback tries the preferred model, then the fallback, but only
// when the failure was a missing model (404) or a rate limit (429). Anything
// else propagates immediately.
func (s *Service) generateWithFallback(ctx context.Context, prompt string) (string, error) {
	candidates := []string{s.summaryModel}
	if s.fallbackModel != "" && s.fallbackModel != s.summaryModel {
		candidates = append(candidates, s.fallbackModel)
	}

	var lastErr error
	for _, model := range candidates {
		raw, err := s.provider.Generate(ctx, prompt, llm.WithModel(model))
		if err == nil {
			return raw, nil
		}
		lastErr = err

		var statusErr *llm.StatusError
		if !errors.As(err, &statusErr) || !statusErr.Retriable() {
			return "", err
		}
	}

	var statusErr *llm.StatusError
	if errors.As(lastErr, &statusErr) && statusErr.Code == 429 {
		return "", apperror.NewQuotaExceeded().WithCause(lastErr)
	}
	return "", apperror.NewSummarizationUnavailable(
		"Configured AI model is unavailable").WithCause(lastErr)
}
