package embedding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const geminiEmbeddingModel = "text-embedding-004"

type GeminiProvider struct {
	ApiKey string
}

func NewGeminiProvider(apiKey string) EmbeddingProvider {
	return &GeminiProvider{
		ApiKey: apiKey,
	}
}

type geminiContentPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiContentPart `json:"parts"`
}

type geminiEmbedRequest struct {
	Model    string        `json:"model"`
	Content  geminiContent `json:"content"`
	TaskType string        `json:"task_type,omitempty"`
}

type geminiBatchEmbedRequest struct {
	Requests []geminiEmbedRequest `json:"requests"`
}

type geminiEmbedding struct {
	Values []float32 `json:"values"`
}

type geminiEmbedResponse struct {
	Embedding geminiEmbedding `json:"embedding"`
}

type geminiBatchEmbedResponse struct {
	Embeddings []geminiEmbedding `json:"embeddings"`
}

func (p *GeminiProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	req := geminiEmbedRequest{
		Model: "models/" + geminiEmbeddingModel,
		Content: geminiContent{
			Parts: []geminiContentPart{{Text: text}},
		},
		TaskType: taskType,
	}

	var res geminiEmbedResponse
	if err := p.call("embedContent", req, &res); err != nil {
		return nil, err
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{
			Values: res.Embedding.Values,
		},
	}, nil
}

func (p *GeminiProvider) GenerateBatch(texts []string, taskType string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	batch := geminiBatchEmbedRequest{
		Requests: make([]geminiEmbedRequest, len(texts)),
	}
	for i, text := range texts {
		batch.Requests[i] = geminiEmbedRequest{
			Model: "models/" + geminiEmbeddingModel,
			Content: geminiContent{
				Parts: []geminiContentPart{{Text: text}},
			},
			TaskType: taskType,
		}
	}

	var res geminiBatchEmbedResponse
	if err := p.call("batchEmbedContents", batch, &res); err != nil {
		return nil, err
	}
	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini returned %d embeddings for %d inputs", len(res.Embeddings), len(texts))
	}

	out := make([][]float32, len(res.Embeddings))
	for i, e := range res.Embeddings {
		out[i] = e.Values
	}
	return out, nil
}

func (p *GeminiProvider) call(method string, payload interface{}, out interface{}) error {
	reqJson, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:%s",
		geminiEmbeddingModel,
		method,
	)

	req, err := http.NewRequest("POST", endpoint, bytes.NewBuffer(reqJson))
	if err != nil {
		return err
	}
	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("error from gemini response, code %d, body %s", res.StatusCode, string(resByte))
	}

	return json.Unmarshal(resByte, out)
}
