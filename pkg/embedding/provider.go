package embedding

import (
	"context"
	"fmt"
	"math"
)

// Task types understood by the Gemini embedding API. Ollama ignores them.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// EmbeddingProvider generates a vector embedding for a piece of text.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
}

// NewEmbeddingProvider selects a provider by name.
func NewEmbeddingProvider(providerType, geminiAPIKey, ollamaBaseURL, modelName string) (EmbeddingProvider, error) {
	switch providerType {
	case "gemini":
		return NewGeminiProvider(geminiAPIKey, modelName), nil
	case "ollama":
		return NewOllamaProvider(ollamaBaseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider type: %s", providerType)
	}
}

// normalizeVector scales a vector to unit length. Cosine distance in
// pgvector assumes normalized vectors.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
