package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/tripwise/prompt-svc/internal/models"
)

const (
	DefaultOpenAIModel          = "gpt-3.5-turbo"
	DefaultOpenAIEmbeddingModel = "text-embedding-ada-002"
	DefaultOpenAIImageModel     = "dall-e-2"
)

type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	EmbeddingModel string
	ImageModel     string
	Temperature    float64
	HTTPClient     *http.Client
}

type OpenAI struct {
	client openai.Client
	cfg    OpenAIConfig
}

func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultOpenAIEmbeddingModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = DefaultOpenAIImageModel
	}

	// Retries are disabled: a failed call is reported to the caller as is.
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &OpenAI{client: openai.NewClient(opts...), cfg: cfg}, nil
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Close() error { return nil }

func (o *OpenAI) Chat(ctx context.Context, messages []models.ChatMessage) (*Completion, error) {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for i, m := range messages {
		p, err := toOpenAIMessage(m)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		params = append(params, p)
	}

	res, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:         params,
		Model:            o.cfg.Model,
		Temperature:      openai.Float(o.cfg.Temperature),
		TopP:             openai.Float(1),
		FrequencyPenalty: openai.Float(0),
		PresencePenalty:  openai.Float(0),
	})
	if err != nil {
		return nil, err
	}
	if len(res.Choices) == 0 {
		return nil, errors.New("openai: completion has no choices")
	}

	choice := res.Choices[0]
	return &Completion{
		Role:         string(choice.Message.Role),
		Content:      choice.Message.Content,
		Model:        res.Model,
		FinishReason: choice.FinishReason,
		Usage: Usage{
			PromptTokens:     res.Usage.PromptTokens,
			CompletionTokens: res.Usage.CompletionTokens,
		},
	}, nil
}

func (o *OpenAI) Embed(ctx context.Context, text string) ([]float64, string, error) {
	res, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: o.cfg.EmbeddingModel,
	})
	if err != nil {
		return nil, "", err
	}
	if len(res.Data) == 0 {
		return nil, "", errors.New("openai: embedding response is empty")
	}
	return res.Data[0].Embedding, res.Model, nil
}

func (o *OpenAI) GenerateImages(ctx context.Context, prompt string, n int, size string) ([]Image, error) {
	params := openai.ImageGenerateParams{
		Prompt: prompt,
		N:      openai.Int(int64(n)),
		Model:  o.cfg.ImageModel,
	}
	if size != "" {
		params.Size = openai.ImageGenerateParamsSize(size)
	}

	res, err := o.client.Images.Generate(ctx, params)
	if err != nil {
		return nil, err
	}

	out := make([]Image, 0, len(res.Data))
	for _, d := range res.Data {
		out = append(out, Image{URL: d.URL, B64JSON: d.B64JSON, RevisedPrompt: d.RevisedPrompt})
	}
	return out, nil
}

func toOpenAIMessage(m models.ChatMessage) (openai.ChatCompletionMessageParamUnion, error) {
	text := m.Text()
	switch m.Role {
	case models.RoleSystem:
		return openai.SystemMessage(text), nil
	case models.RoleUser:
		return openai.UserMessage(text), nil
	case models.RoleAssistant:
		return openai.AssistantMessage(text), nil
	case "developer":
		return openai.DeveloperMessage(text), nil
	default:
		return openai.ChatCompletionMessageParamUnion{}, fmt.Errorf("unsupported role %q", m.Role)
	}
}
