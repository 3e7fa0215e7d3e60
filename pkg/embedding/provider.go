package embedding

// EmbeddingProvider defines the interface for generating text embeddings.
// GenerateBatch is one-to-one and order-preserving: result[i] is the vector
// for texts[i]. The sync pipeline relies on that ordering to join vectors
// back to their content rows.
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
	GenerateBatch(texts []string, taskType string) ([][]float32, error)
}

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}
