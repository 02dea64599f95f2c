package summarizer

import (
	"encoding/json"
	"strings"
)

// StripFences removes a markdown code-fence wrapper if the model added one,
// then slices the outermost JSON object so trailing prose does not break the
// parse.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start != -1 && end > start {
		return s[start : end+1]
	}
	return s
}

// DecodeSummary parses a model response into a Summary. A response that is
// not valid JSON is not an error: the raw text becomes the notes and the
// structured fields stay empty, so one model hiccup never sinks the request.
func DecodeSummary(raw string) *Summary {
	candidate := StripFences(raw)

	var parsed struct {
		Notes      string   `json:"notes"`
		KeyPoints  []string `json:"keyPoints"`
		Highlights []string `json:"highlights"`
	}
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return &Summary{
			Notes:      strings.TrimSpace(raw),
			KeyPoints:  []string{},
			Highlights: []string{},
			Degraded:   true,
		}
	}

	if parsed.KeyPoints == nil {
		parsed.KeyPoints = []string{}
	}
	if parsed.Highlights == nil {
		parsed.Highlights = []string{}
	}

	return &Summary{
		Notes:      parsed.Notes,
		KeyPoints:  parsed.KeyPoints,
		Highlights: parsed.Highlights,
	}
}

// DecodeOutline parses the slide-outline schema. Unlike DecodeSummary this
// fails on malformed JSON: the slides flow needs the sections to render
// anything useful.
func DecodeOutline(raw string) (*SlideOutline, error) {
	candidate := StripFences(raw)

	var outline SlideOutline
	if err := json.Unmarshal([]byte(candidate), &outline); err != nil {
		return nil, err
	}
	if outline.Sections == nil {
		outline.Sections = []OutlineSection{}
	}
	if outline.Takeaways == nil {
		outline.Takeaways = []string{}
	}
	return &outline, nil
}
