package match

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Embedder turns free text into a fixed-length vector. Implementations must
// be safe for concurrent use and deterministic: identical input, identical
// output. The engine never substitutes a neutral score when embedding fails.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// DefaultEmbeddingModel is the OpenAI model used when none is configured.
const DefaultEmbeddingModel = openai.SmallEmbedding3

// OpenAIEmbedder implements Embedder on top of the OpenAI embeddings API
// with retry and exponential backoff. One instance is meant to be created at
// startup and shared across all ranking calls; the underlying client is
// stateless and safe for concurrent requests.
type OpenAIEmbedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	maxRetries int
	retryDelay time.Duration
}

// NewOpenAIEmbedder builds an embedder for the given API key. The model can
// be overridden through the EMBEDDING_MODEL environment variable by the
// caller; pass it via model, or "" for the default.
func NewOpenAIEmbedder(apiKey string, model openai.EmbeddingModel) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &OpenAIEmbedder{
		client:     openai.NewClient(apiKey),
		model:      model,
		maxRetries: 3,
		retryDelay: 2 * time.Second,
	}, nil
}

// Embed generates the embedding vector for text. Empty or whitespace-only
// text is ErrEmptyText; callers must guard against empty lifestyle
// descriptions upstream rather than rely on a silent zero vector. Transport
// or API failures surface as ErrModelUnavailable after retries.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(e.retryDelay * time.Duration(1<<(attempt-1))):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, ctx.Err())
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		resp, err := e.client.CreateEmbeddings(attemptCtx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: e.model,
		})
		cancel()

		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Data) == 0 {
			lastErr = fmt.Errorf("no embeddings returned")
			continue
		}

		vec32 := resp.Data[0].Embedding
		vec := make([]float64, len(vec32))
		for i, v := range vec32 {
			vec[i] = float64(v)
		}
		return vec, nil
	}

	return nil, fmt.Errorf("%w: after %d attempts: %v", ErrModelUnavailable, e.maxRetries+1, lastErr)
}
