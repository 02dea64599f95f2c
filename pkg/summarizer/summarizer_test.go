package summarizer

import (
	"context"
	"errors"
	"testing"

	"lecturenotes-be/pkg/apperror"
	"lecturenotes-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider returns canned responses or errors keyed by model name.
type fakeProvider struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
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

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("not implemented")
}

func TestDecodeSummary(t *testing.T) {
	t.Run("valid json", func(t *testing.T) {
		got := DecodeSummary(`{"notes":"body","keyPoints":["a"],"highlights":["b"]}`)
		assert.Equal(t, "body", got.Notes)
		assert.Equal(t, []string{"a"}, got.KeyPoints)
		assert.Equal(t, []string{"b"}, got.Highlights)
		assert.False(t, got.Degraded)
	})

	t.Run("code fenced json", func(t *testing.T) {
		got := DecodeSummary("```json\n{\"notes\":\"fenced\",\"keyPoints\":[],\"highlights\":[]}\n```")
		assert.Equal(t, "fenced", got.Notes)
		assert.False(t, got.Degraded)
	})

	t.Run("prose around json", func(t *testing.T) {
		got := DecodeSummary("Sure! Here you go:\n{\"notes\":\"inner\"}\nHope this helps.")
		assert.Equal(t, "inner", got.Notes)
		assert.False(t, got.Degraded)
	})

	t.Run("malformed degrades to raw", func(t *testing.T) {
		got := DecodeSummary("just plain text the model returned")
		assert.True(t, got.Degraded)
		assert.Equal(t, "just plain text the model returned", got.Notes)
		assert.Empty(t, got.KeyPoints)
		assert.Empty(t, got.Highlights)
	})

	t.Run("nil arrays become empty", func(t *testing.T) {
		got := DecodeSummary(`{"notes":"body"}`)
		assert.NotNil(t, got.KeyPoints)
		assert.NotNil(t, got.Highlights)
	})
}

func TestDecodeOutline(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		outline, err := DecodeOutline(`{"overview":"o","sections":[{"title":"t","bullets":["b1"]}],"takeaways":["x"]}`)
		require.NoError(t, err)
		assert.Equal(t, "o", outline.Overview)
		require.Len(t, outline.Sections, 1)
		assert.Equal(t, "t", outline.Sections[0].Title)
		assert.Equal(t, []string{"x"}, outline.Takeaways)
	})

	t.Run("malformed is fatal", func(t *testing.T) {
		_, err := DecodeOutline("not json at all")
		assert.Error(t, err)
	})
}

func TestSummarizeFallback(t *testing.T) {
	t.Run("primary succeeds", func(t *testing.T) {
		p := &fakeProvider{responses: map[string]string{
			"primary": `{"notes":"ok"}`,
		}}
		svc := NewService(p, "primary", "backup")

		got, err := svc.Summarize(context.Background(), Input{Text: "some lecture"})
		require.NoError(t, err)
		assert.Equal(t, "ok", got.Notes)
		assert.Equal(t, []string{"primary"}, p.calls)
	})

	t.Run("retriable error falls back", func(t *testing.T) {
		p := &fakeProvider{
			responses: map[string]string{"backup": `{"notes":"from backup"}`},
			errs:      map[string]error{"primary": &llm.StatusError{Code: 404}},
		}
		svc := NewService(p, "primary", "backup")

		got, err := svc.Summarize(context.Background(), Input{Text: "some lecture"})
		require.NoError(t, err)
		assert.Equal(t, "from backup", got.Notes)
		assert.Equal(t, []string{"primary", "backup"}, p.calls)
	})

	t.Run("non-retriable error propagates without fallback", func(t *testing.T) {
		boom := errors.New("network down")
		p := &fakeProvider{errs: map[string]error{"primary": boom}}
		svc := NewService(p, "primary", "backup")

		_, err := svc.Summarize(context.Background(), Input{Text: "some lecture"})
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"primary"}, p.calls)
	})

	t.Run("exhausted rate limit maps to quota exceeded", func(t *testing.T) {
		p := &fakeProvider{errs: map[string]error{
			"primary": &llm.StatusError{Code: 429},
			"backup":  &llm.StatusError{Code: 429},
		}}
		svc := NewService(p, "primary", "backup")

		_, err := svc.Summarize(context.Background(), Input{Text: "some lecture"})
		require.Error(t, err)
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, 503, appErr.Status)
	})

	t.Run("empty text rejected", func(t *testing.T) {
		p := &fakeProvider{}
		svc := NewService(p, "primary", "")

		_, err := svc.Summarize(context.Background(), Input{Text: "   "})
		require.Error(t, err)
		assert.Empty(t, p.calls)
	})
}
