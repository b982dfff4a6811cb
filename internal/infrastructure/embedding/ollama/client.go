package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/medscope/textbook-qa/internal/core/domain"
	"github.com/medscope/textbook-qa/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	embedModel string
	httpClient *http.Client
}

func New(baseURL, embedModel string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Embedder produces fixed-length vectors for chunk and query text. The same
// model serves both paths so index and query vectors stay comparable.
type Embedder struct {
	client    *Client
	dimension int
	executor  *resilience.Executor
}

type EmbedderOptions struct {
	// Dimension, when positive, is enforced on every returned vector.
	Dimension int
	Executor  *resilience.Executor
}

func NewEmbedder(client *Client, options EmbedderOptions) *Embedder {
	return &Embedder{
		client:    client,
		dimension: options.Dimension,
		executor:  options.Executor,
	}
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	request := map[string]any{
		"model": e.client.embedModel,
		"input": texts,
	}

	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	call := func(ctx context.Context) error {
		return e.client.postJSON(ctx, "/api/embed", request, &response, "embed")
	}

	var err error
	if e.executor != nil {
		err = e.executor.Execute(ctx, "ollama.embed", call, classifyEmbedError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, wrapTemporaryIfNeeded("embed", err)
	}

	if len(response.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d for %d texts", len(response.Embeddings), len(texts))
	}
	if e.dimension > 0 {
		for i, vector := range response.Embeddings {
			if len(vector) != e.dimension {
				return nil, domain.WrapError(
					domain.ErrConfiguration,
					"embed",
					fmt.Errorf("vector %d has dimension %d, expected %d", i, len(vector), e.dimension),
				)
			}
		}
	}
	return response.Embeddings, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return vectors[0], nil
}
