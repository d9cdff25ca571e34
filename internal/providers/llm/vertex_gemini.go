package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"

	"github.com/tripwise/prompt-svc/internal/models"
)

type VertexConfig struct {
	ProjectID       string
	Location        string
	Model           string
	CredentialsFile string
	Temperature     float64
}

type VertexGemini struct {
	client    *vertexgenai.Client
	modelName string
	temp      float32
}

func NewVertexGemini(ctx context.Context, cfg VertexConfig) (*VertexGemini, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	c, err := vertexgenai.NewClient(ctx, cfg.ProjectID, cfg.Location, opts...)
	if err != nil {
		return nil, err
	}

	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}

	return &VertexGemini{client: c, modelName: cfg.Model, temp: float32(cfg.Temperature)}, nil
}

func (v *VertexGemini) Name() string { return "vertex" }

func (v *VertexGemini) Close() error { return v.client.Close() }

// Chat replays messages as a Gemini chat session. System turns become the
// system instruction; the last turn must come from the user.
func (v *VertexGemini) Chat(ctx context.Context, messages []models.ChatMessage) (*Completion, error) {
	system, history, last, err := splitForGemini(messages)
	if err != nil {
		return nil, err
	}

	m := v.client.GenerativeModel(v.modelName)
	m.SetTemperature(v.temp)
	if system != "" {
		m.SystemInstruction = &vertexgenai.Content{Parts: []vertexgenai.Part{vertexgenai.Text(system)}}
	}

	cs := m.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, vertexgenai.Text(last))
	if err != nil {
		return nil, err
	}

	out := &Completion{Role: models.RoleAssistant, Model: v.modelName}
	if resp.UsageMetadata != nil {
		out.Usage = Usage{
			PromptTokens:     int64(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
		}
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				b.WriteString(string(t))
			}
		}
		out.FinishReason = strings.ToLower(strings.TrimPrefix(cand.FinishReason.String(), "FinishReason"))
		break
	}
	if b.Len() == 0 {
		return nil, errors.New("vertex: empty candidate")
	}
	out.Content = b.String()
	return out, nil
}

func (v *VertexGemini) Embed(context.Context, string) ([]float64, string, error) {
	return nil, "", fmt.Errorf("vertex embedding: %w", ErrUnsupported)
}

func (v *VertexGemini) GenerateImages(context.Context, string, int, string) ([]Image, error) {
	return nil, fmt.Errorf("vertex image generation: %w", ErrUnsupported)
}

func splitForGemini(messages []models.ChatMessage) (string, []*vertexgenai.Content, string, error) {
	var system []string
	var turns []models.ChatMessage
	for _, m := range messages {
		if m.Role == models.RoleSystem {
			system = append(system, m.Text())
			continue
		}
		turns = append(turns, m)
	}
	if len(turns) == 0 || turns[len(turns)-1].Role != models.RoleUser {
		return "", nil, "", errors.New("vertex: conversation must end with a user turn")
	}

	history := make([]*vertexgenai.Content, 0, len(turns)-1)
	for _, m := range turns[:len(turns)-1] {
		role := "user"
		switch m.Role {
		case models.RoleUser:
		case models.RoleAssistant:
			role = "model"
		default:
			return "", nil, "", fmt.Errorf("vertex: unsupported role %q", m.Role)
		}
		history = append(history, &vertexgenai.Content{Role: role, Parts: []vertexgenai.Part{vertexgenai.Text(m.Text())}})
	}

	return strings.Join(system, "\n"), history, turns[len(turns)-1].Text(), nil
}
