package gemini

import (
	"context"
	"iter"

	provider "github.com/Cyclone1070/warden/internal/provider/models"
)

// GeminiProvider streams responses from a single Gemini model.
// Primary and fallback models are two providers sharing one client.
type GeminiProvider struct {
	client    GeminiClient
	modelName string
}

// New creates a new GeminiProvider with the specified client and model.
func New(client GeminiClient, modelName string) (*GeminiProvider, error) {
	if modelName == "" {
		return nil, provider.ErrEmptyModelName
	}
	return &GeminiProvider{
		client:    client,
		modelName: modelName,
	}, nil
}

// Model returns the model name requests are sent to.
func (p *GeminiProvider) Model() string {
	return p.modelName
}

// Stream sends one round to Gemini and yields chunks as they arrive.
// Errors are mapped to *provider.ProviderError, except context cancellation which is passed through.
func (p *GeminiProvider) Stream(ctx context.Context, req provider.Request) iter.Seq2[*provider.Chunk, error] {
	return func(yield func(*provider.Chunk, error) bool) {
		contents := toGeminiContents(req.Messages)
		config := toGeminiConfig(req)

		for resp, err := range p.client.GenerateContentStream(ctx, p.modelName, contents, config) {
			if err != nil {
				yield(nil, mapGeminiError(err))
				return
			}

			chunk, err := fromGeminiResponse(resp, p.modelName)
			if err != nil {
				yield(nil, err)
				return
			}
			if chunk.Text == "" && len(chunk.ToolCalls) == 0 {
				continue
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}
}
