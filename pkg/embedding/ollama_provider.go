package embedding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
)

// OllamaProvider implements EmbeddingProvider for local Ollama models (e.g., nomic-embed-text)
type OllamaProvider struct {
	BaseURL string
	Model   string
}

func NewOllamaProvider(baseURL string, model string) EmbeddingProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "nomic-embed-text"
	}
	return &OllamaProvider{
		BaseURL: baseURL,
		Model:   model,
	}
}

type ollamaEmbedRequest struct {
	Model string      `json:"model"`
	Input interface{} `json:"input"` // string or []string
}

type ollamaEmbedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

func (p *OllamaProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	// TaskType is ignored for Nomic/Ollama, kept for interface compatibility
	vectors, err := p.embed(text)
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("ollama returned %d embeddings for a single input", len(vectors))
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{
			Values: vectors[0],
		},
	}, nil
}

// GenerateBatch sends the whole batch in one /api/embed call, trading
// latency for throughput: one round-trip per sync pass instead of one
// per node.
func (p *OllamaProvider) GenerateBatch(texts []string, taskType string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors, err := p.embed(texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("ollama returned %d embeddings for %d inputs", len(vectors), len(texts))
	}
	return vectors, nil
}

func (p *OllamaProvider) embed(input interface{}) ([][]float32, error) {
	reqBody := ollamaEmbedRequest{
		Model: p.Model,
		Input: input,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/api/embed", p.BaseURL)
	resp, err := http.Post(endpoint, "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama embedding error: %s", string(bodyBytes))
	}

	var ollamaResp ollamaEmbedResponse
	if err := json.Unmarshal(bodyBytes, &ollamaResp); err != nil {
		return nil, err
	}

	out := make([][]float32, len(ollamaResp.Embeddings))
	for i, vec := range ollamaResp.Embeddings {
		values := make([]float32, len(vec))
		for j, v := range vec {
			values[j] = float32(v)
		}
		// Cosine distance in pgvector expects unit-length vectors.
		out[i] = normalizeVector(values)
	}
	return out, nil
}

// normalizeVector normalizes a vector to unit length (magnitude = 1).
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	// Avoid division by zero
	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
