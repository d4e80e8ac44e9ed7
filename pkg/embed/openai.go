package embed

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAILoader returns a loader for an OpenAI-compatible embeddings endpoint,
// e.g. a local sentence-transformers server, ollama or a hosted API.
func OpenAILoader(endpoint, apiKey, model string) Loader {
	return func(_ context.Context) (Backend, error) {
		// local OpenAI-compatible services don't require authentication, but the client wants a token
		token := apiKey
		if token == "" {
			token = "none"
		}

		client, err := openai.New(
			openai.WithBaseURL(endpoint),
			openai.WithToken(token),
			openai.WithEmbeddingModel(model),
		)
		if err != nil {
			return nil, fmt.Errorf("make embeddings client for %s: %w", endpoint, err)
		}

		embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
		if err != nil {
			return nil, fmt.Errorf("make embedder: %w", err)
		}
		return embedder, nil
	}
}
