package qa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"lecturenotes-be/pkg/apperror"
	"lecturenotes-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcqItemJSON(id string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"question": "What is X?",
		"options": [
			{"label": "A", "text": "one"},
			{"label": "B", "text": "two"},
			{"label": "C", "text": "three"},
			{"label": "D", "text": "four"}
		],
		"correctOption": "b",
		"answer": "two, because"
	}`, id)
}

func TestDecodeItems(t *testing.T) {
	t.Run("items wrapper", func(t *testing.T) {
		raw := fmt.Sprintf(`{"items":[%s]}`, mcqItemJSON("q1"))
		items := DecodeItems(raw, TypeMCQ, DifficultyMedium)
		require.Len(t, items, 1)
		assert.Equal(t, "q1", items[0].ID)
		assert.Equal(t, TypeMCQ, items[0].Type)
		assert.Equal(t, DifficultyMedium, items[0].Difficulty)
		assert.Equal(t, "B", items[0].CorrectOption)
	})

	t.Run("bare array", func(t *testing.T) {
		raw := fmt.Sprintf(`[%s]`, mcqItemJSON("q1"))
		items := DecodeItems(raw, TypeMCQ, DifficultyEasy)
		require.Len(t, items, 1)
	})

	t.Run("code fences stripped", func(t *testing.T) {
		raw := "```json\n" + fmt.Sprintf(`{"items":[%s]}`, mcqItemJSON("q1")) + "\n```"
		items := DecodeItems(raw, TypeMCQ, DifficultyMedium)
		require.Len(t, items, 1)
	})

	t.Run("missing id gets generated", func(t *testing.T) {
		raw := fmt.Sprintf(`{"items":[%s]}`, mcqItemJSON(""))
		items := DecodeItems(raw, TypeMCQ, DifficultyMedium)
		require.Len(t, items, 1)
		assert.Equal(t, "q-1", items[0].ID)
	})

	t.Run("mcq with wrong option count dropped", func(t *testing.T) {
		raw := `{"items":[{
			"question": "Broken?",
			"options": [{"label":"A","text":"one"},{"label":"B","text":"two"}],
			"correctOption": "A",
			"answer": "one"
		}]}`
		items := DecodeItems(raw, TypeMCQ, DifficultyMedium)
		assert.Empty(t, items)
	})

	t.Run("mcq with bad correct option dropped", func(t *testing.T) {
		raw := strings.Replace(
			fmt.Sprintf(`{"items":[%s]}`, mcqItemJSON("q1")),
			`"correctOption": "b"`, `"correctOption": "E"`, 1)
		items := DecodeItems(raw, TypeMCQ, DifficultyMedium)
		assert.Empty(t, items)
	})

	t.Run("non-mcq clears options", func(t *testing.T) {
		raw := fmt.Sprintf(`{"items":[%s]}`, mcqItemJSON("q1"))
		items := DecodeItems(raw, TypeShortAnswer, DifficultyHard)
		require.Len(t, items, 1)
		assert.Nil(t, items[0].Options)
		assert.Empty(t, items[0].CorrectOption)
		assert.Equal(t, TypeShortAnswer, items[0].Type)
	})

	t.Run("empty question dropped", func(t *testing.T) {
		raw := `{"items":[{"question":"  ","answer":"x"}]}`
		items := DecodeItems(raw, TypeShortAnswer, DifficultyMedium)
		assert.Empty(t, items)
	})

	t.Run("garbage yields empty slice", func(t *testing.T) {
		items := DecodeItems("totally not json", TypeMCQ, DifficultyMedium)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})
}

func TestBuildPrompt(t *testing.T) {
	t.Run("short notes are untouched", func(t *testing.T) {
		prompt := BuildPrompt("brief notes", TypeMCQ, DifficultyEasy)
		assert.Contains(t, prompt, "brief notes")
		assert.NotContains(t, prompt, "truncated")
	})

	t.Run("long notes truncated and declared", func(t *testing.T) {
		long := strings.Repeat("a", MaxNotesChars+500)
		prompt := BuildPrompt(long, TypeMCQ, DifficultyMedium)
		assert.Contains(t, prompt, fmt.Sprintf("truncated to %d chars", MaxNotesChars))
		assert.NotContains(t, prompt, strings.Repeat("a", MaxNotesChars+1))
	})

	t.Run("difficulty guidance included", func(t *testing.T) {
		prompt := BuildPrompt("notes", TypeLongAnswer, DifficultyHard)
		assert.Contains(t, prompt, string(DifficultyHard))
		assert.Contains(t, prompt, difficultyGuidance[DifficultyHard])
	})
}

// modelFakeProvider returns canned responses or errors keyed by model name.
type modelFakeProvider struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (f *modelFakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	opts := &llm.Options{}
	for _, o := range options {
		o(opts)
	}
	f.calls = append(f.calls, opts.Model)
	if err, ok := f.errs[opts.Model]; ok {
		return "", err
	}
	return f.responses[opts.Model], nil
}

func (f *modelFakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("not implemented")
}

func TestGenerateFallback(t *testing.T) {
	itemsRaw := fmt.Sprintf(`{"items":[%s]}`, mcqItemJSON("q1"))

	t.Run("primary succeeds", func(t *testing.T) {
		p := &modelFakeProvider{responses: map[string]string{"primary": itemsRaw}}
		g := NewGenerator(p, "primary", "backup")

		items, err := g.Generate(context.Background(), "some lecture notes", TypeMCQ, DifficultyMedium)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, []string{"primary"}, p.calls)
	})

	t.Run("missing model falls back", func(t *testing.T) {
		p := &modelFakeProvider{
			responses: map[string]string{"backup": itemsRaw},
			errs:      map[string]error{"primary": &llm.StatusError{Code: 404}},
		}
		g := NewGenerator(p, "primary", "backup")

		items, err := g.Generate(context.Background(), "some lecture notes", TypeMCQ, DifficultyMedium)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, []string{"primary", "backup"}, p.calls)
	})

	t.Run("non-retriable error propagates without fallback", func(t *testing.T) {
		boom := errors.New("network down")
		p := &modelFakeProvider{errs: map[string]error{"primary": boom}}
		g := NewGenerator(p, "primary", "backup")

		_, err := g.Generate(context.Background(), "some lecture notes", TypeMCQ, DifficultyMedium)
		require.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"primary"}, p.calls)
	})

	t.Run("exhausted rate limits map to quota error", func(t *testing.T) {
		p := &modelFakeProvider{errs: map[string]error{
			"primary": &llm.StatusError{Code: 429, Body: "quota"},
			"backup":  &llm.StatusError{Code: 429, Body: "quota"},
		}}
		g := NewGenerator(p, "primary", "backup")

		_, err := g.Generate(context.Background(), "some lecture notes", TypeMCQ, DifficultyMedium)
		require.Error(t, err)

		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, 503, appErr.Status)
	})

	t.Run("both models missing map to unavailable", func(t *testing.T) {
		p := &modelFakeProvider{errs: map[string]error{
			"primary": &llm.StatusError{Code: 404},
			"backup":  &llm.StatusError{Code: 404},
		}}
		g := NewGenerator(p, "primary", "backup")

		_, err := g.Generate(context.Background(), "some lecture notes", TypeMCQ, DifficultyMedium)
		require.Error(t, err)

		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, 502, appErr.Status)
		assert.Equal(t, apperror.CodeSummarizationFailed, appErr.Code)
	})
}
