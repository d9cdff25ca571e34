package config

import (
	"context"
	"fmt"

	"github.com/tripwise/prompt-svc/internal/providers/llm"
)

// InitLLM builds the provider selected by LLM_PROVIDER.
func InitLLM(ctx context.Context, c *Config) (llm.Provider, error) {
	switch c.LLM.Provider {
	case ProviderOpenAI:
		return llm.NewOpenAI(llm.OpenAIConfig{
			APIKey:         c.LLM.APIKey,
			BaseURL:        c.LLM.BaseURL,
			Model:          c.LLM.Model,
			EmbeddingModel: c.LLM.EmbeddingModel,
			ImageModel:     c.LLM.ImageModel,
			Temperature:    c.LLM.Temperature,
		})
	case ProviderVertex:
		model := c.Vertex.Model
		if c.LLM.Model != "" {
			model = c.LLM.Model
		}
		return llm.NewVertexGemini(ctx, llm.VertexConfig{
			ProjectID:       c.Vertex.ProjectID,
			Location:        c.Vertex.Location,
			Model:           model,
			CredentialsFile: c.Vertex.CredentialsFile,
			Temperature:     c.LLM.Temperature,
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
}
