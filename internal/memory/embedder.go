// Package memory implements the relationship-memory engine: interaction
// logging, long-term facts, bounded emotional state, episodic memories, and
// the context assembly consumed by the prompt builder.
package memory

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Embedder converts text into vector representations.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
}

const embeddingDimensions = 768

// OpenAIEmbedder embeds text through the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder creates an OpenAI-backed embedder.
func NewOpenAIEmbedder(apiKey, modelName string) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required for embeddings")
	}
	if modelName == "" {
		modelName = "text-embedding-3-small"
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIEmbedder{
		client: &client,
		model:  modelName,
	}, nil
}

func (e *OpenAIEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text)
}

func (e *OpenAIEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text)
}

func (e *OpenAIEmbedder) embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, nil
	}
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model:      openai.EmbeddingModel(e.model),
		Dimensions: openai.Int(embeddingDimensions),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}
	if resp == nil || len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	values := resp.Data[0].Embedding
	result := make([]float32, len(values))
	for i, v := range values {
		result[i] = float32(v)
	}
	if len(result) != embeddingDimensions {
		return nil, fmt.Errorf("embedding dimensions mismatch: got %d want %d", len(result), embeddingDimensions)
	}
	return result, nil
}
