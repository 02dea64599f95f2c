package qa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"lecturenotes-be/pkg/apperror"
	"lecturenotes-be/pkg/llm"
	"lecturenotes-be/pkg/summarizer"
)

type QuestionType string

const (
	TypeMCQ         QuestionType = "MCQ"
	TypeShortAnswer QuestionType = "Short Answer"
	TypeLongAnswer  QuestionType = "Long Answer"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// MaxNotesChars caps how much note text goes into the prompt. Truncation is
// declared to the model so it does not invent a missing ending.
const MaxNotesChars = 12000

// Option is one labelled MCQ answer choice.
type Option struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Item is one generated question. Options/CorrectOption are present for MCQ
// only. Items are ephemeral: produced per request, never persisted.
type Item struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	Difficulty    Difficulty   `json:"difficulty"`
	Question      string       `json:"question"`
	Options       []Option     `json:"options,omitempty"`
	CorrectOption string       `json:"correctOption,omitempty"`
	Answer        string       `json:"answer"`
}

var typeInstructions = map[QuestionType][]string{
	TypeMCQ: {
		"Return 4 answer choices per question, labelled A-D.",
		"Populate `options` as an array of { label, text } objects.",
		"Set `correctOption` to the letter of the right answer and explain why in `answer`.",
	},
	TypeShortAnswer: {
		"Ask short-answer questions answerable in 2-3 sentences.",
		"Keep `answer` concise but informative and reference the source material.",
	},
	TypeLongAnswer: {
		"Ask analytical questions requiring multi-paragraph responses.",
		"Provide structured `answer` guidance that references key ideas from the notes.",
	},
}

var difficultyGuidance = map[Difficulty]string{
	DifficultyEasy:   "Focus on factual recall or direct definitions.",
	DifficultyMedium: "Blend concept understanding with light application or comparison across ideas.",
	DifficultyHard:   "Lean into synthesis, multi-step reasoning, or scenario-based application.",
}

// Generator produces assessment questions from note text.
type Generator struct {
	provider      llm.LLMProvider
	qaModel       string
	fallbackModel string
}

func NewGenerator(provider llm.LLMProvider, qaModel, fallbackModel string) *Generator {
	return &Generator{
		provider:      provider,
		qaModel:       qaModel,
		fallbackModel: fallbackModel,
	}
}

// BuildPrompt assembles the instruction string. Exported so tests can assert
// on truncation handling without a model call.
func BuildPrompt(notes string, questionType QuestionType, difficulty Difficulty) string {
	trimmed := strings.TrimSpace(notes)
	truncated := trimmed
	truncNote := "."
	if len(trimmed) > MaxNotesChars {
		truncated = trimmed[:MaxNotesChars]
		truncNote = fmt.Sprintf(" (truncated to %d chars for the model input).", MaxNotesChars)
	}

	instructions, ok := typeInstructions[questionType]
	if !ok {
		instructions = typeInstructions[TypeMCQ]
	}
	hint, ok := difficultyGuidance[difficulty]
	if !ok {
		hint = difficultyGuidance[DifficultyMedium]
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are an academic assessment designer. Create %s questions
grounded strictly in the provided notes.

Notes length: %d characters%s

Notes:
"""
%s
"""

Expectations:
- Generate between 10 and 20 high-quality questions.
- Difficulty setting: %s. %s
`, questionType, len(trimmed), truncNote, truncated, difficulty, hint)

	for _, line := range instructions {
		fmt.Fprintf(&b, "- %s\n", line)
	}

	fmt.Fprintf(&b, `- Avoid inventing facts not present in the notes.

Return ONLY valid JSON matching this schema:
{
  "items": [
    {
      "id": "string identifier",
      "type": "%s",
      "difficulty": "%s",
      "question": "The prompt",
      "options": [
        { "label": "A", "text": "Option A text" },
        { "label": "B", "text": "Option B text" },
        { "label": "C", "text": "Option C text" },
        { "label": "D", "text": "Option D text" }
      ],
      "correctOption": "Letter of correct choice",
      "answer": "Short explanation / reference answer"
    }
  ]
}

If the question type is not MCQ, omit the options array and correctOption but
still include the 'answer' field.
`, questionType, difficulty)

	return b.String()
}

// Generate asks the model for questions and decodes the response. Parsing
// failures degrade to an empty slice; the caller owns the "no questions"
// messaging.
func (g *Generator) Generate(ctx context.Context, notes string, questionType QuestionType, difficulty Difficulty) ([]Item, error) {
	if questionType == "" {
		questionType = TypeMCQ
	}
	if difficulty == "" {
		difficulty = DifficultyMedium
	}

	prompt := BuildPrompt(notes, questionType, difficulty)

	raw, err := g.generateWithFallback(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return DecodeItems(raw, questionType, difficulty), nil
}

// generateWithFallback tries the preferred model, then the fallback, but only
// when the failure was a missing model (404) or a rate limit (429). An
// exhausted ladder maps to a quota or availability error for the HTTP layer.
func (g *Generator) generateWithFallback(ctx context.Context, prompt string) (string, error) {
	candidates := []string{g.qaModel}
	if g.fallbackModel != "" && g.fallbackModel != g.qaModel {
		candidates = append(candidates, g.fallbackModel)
	}

	var lastErr error
	for _, model := range candidates {
		raw, err := g.provider.Generate(ctx, prompt, llm.WithModel(model))
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

// DecodeItems parses the model response into validated items. Malformed JSON
// or a missing items array yields an empty slice, never an error. MCQ items
// that do not carry exactly 4 options labelled A-D with a matching
// correctOption are dropped.
func DecodeItems(raw string, questionType QuestionType, difficulty Difficulty) []Item {
	candidate := summarizer.StripFences(raw)

	var wrapper struct {
		Items []Item `json:"items"`
	}
	if err := json.Unmarshal([]byte(candidate), &wrapper); err != nil {
		// Some models return a bare array
		var bare []Item
		if err := json.Unmarshal([]byte(candidate), &bare); err != nil {
			return []Item{}
		}
		wrapper.Items = bare
	}
	if wrapper.Items == nil {
		return []Item{}
	}

	valid := make([]Item, 0, len(wrapper.Items))
	for i, item := range wrapper.Items {
		if strings.TrimSpace(item.Question) == "" {
			continue
		}
		if item.ID == "" {
			item.ID = fmt.Sprintf("q-%d", i+1)
		}
		item.Type = questionType
		item.Difficulty = difficulty

		if questionType == TypeMCQ {
			if !validMCQ(&item) {
				continue
			}
		} else {
			item.Options = nil
			item.CorrectOption = ""
		}
		valid = append(valid, item)
	}
	return valid
}

func validMCQ(item *Item) bool {
	if len(item.Options) != 4 {
		return false
	}
	wanted := []string{"A", "B", "C", "D"}
	for i, opt := range item.Options {
		if !strings.EqualFold(opt.Label, wanted[i]) {
			return false
		}
		item.Options[i].Label = wanted[i]
	}
	item.CorrectOption = strings.ToUpper(strings.TrimSpace(item.CorrectOption))
	for _, label := range wanted {
		if item.CorrectOption == label {
			return true
		}
	}
	return false
}
