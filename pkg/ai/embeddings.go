package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/interview-assistant-team/interview-assistant/pkg/config"
)

// EmbeddingClient produces sentence embeddings for semantic relevance ranking
type EmbeddingClient interface {
	// Embed returns one vector per input text, in input order
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// NewEmbeddingClient creates an embedding client using the provided config.
// With UseMock set, a deterministic in-process client is returned so the
// pipeline runs without the embedding service.
func NewEmbeddingClient(cfg *config.EmbeddingConfig) EmbeddingClient {
	if cfg != nil && cfg.UseMock {
		return &mockEmbeddingClient{}
	}
	var baseURL, apiKey, model string
	if cfg != nil {
		baseURL = cfg.BaseURL
		apiKey = cfg.APIKey
		model = cfg.Model
	}
	if baseURL == "" {
		baseURL = "http://localhost:8100"
	}
	if model == "" {
		model = "all-MiniLM-L6-v2"
	}
	return &httpEmbeddingClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type httpEmbeddingClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// embedRequest is the payload for /v1/embeddings
type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embedResponse is a minimal response shape
type embedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed requests embeddings for the given texts
func (c *httpEmbeddingClient) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	b, err := json.Marshal(embedRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/v1/embeddings"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("embedding service returned status %d", resp.StatusCode)
	}

	var er embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, err
	}
	if len(er.Data) != len(texts) {
		return nil, fmt.Errorf("embedding service returned %d vectors for %d inputs", len(er.Data), len(texts))
	}

	vectors := make([][]float64, len(texts))
	for _, d := range er.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("embedding service returned out-of-range index %d", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

// mockEmbeddingClient hashes tokens into a fixed-size bag-of-words vector.
// Texts sharing vocabulary get high cosine similarity, which is enough for
// development and tests.
type mockEmbeddingClient struct{}

const mockEmbeddingDim = 256

// Embed returns deterministic vectors derived from the input tokens
func (m *mockEmbeddingClient) Embed(_ context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vec := make([]float64, mockEmbeddingDim)
		for _, token := range strings.Fields(strings.ToLower(text)) {
			token = strings.Trim(token, ".,!?;:\"'()")
			if token == "" {
				continue
			}
			h := fnv.New32a()
			h.Write([]byte(token))
			vec[h.Sum32()%mockEmbeddingDim]++
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// CosineSimilarity returns the cosine of the angle between two vectors,
// or 0 when either vector is zero or lengths differ
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
