package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tripwise/prompt-svc/internal/models"
)

// Mode selects which provider capability a prompt is sent to.
type Mode int

const (
	ModeChat Mode = iota + 1
	ModeEmbedding
	ModeImage
)

func (m Mode) String() string {
	switch m {
	case ModeChat:
		return "chat"
	case ModeEmbedding:
		return "embedding"
	case ModeImage:
		return "image"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ErrInvalidMode is returned for a mode the client does not know. It signals
// a caller bug and is never wrapped in a ProviderError.
var ErrInvalidMode = errors.New("invalid prompt mode: use chat, embedding or image")

// ErrUnsupported is wrapped in a ProviderError when the configured provider
// lacks a capability.
var ErrUnsupported = errors.New("not supported by provider")

// ProviderError is any failure of the upstream call itself.
type ProviderError struct {
	Provider string
	Mode     Mode
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("Error processing request: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
}

// Completion is the first choice of a chat completion.
type Completion struct {
	Role         string
	Content      string
	Model        string
	FinishReason string
	Usage        Usage
}

// Message returns the completion as a conversation turn.
func (c *Completion) Message() models.ChatMessage {
	role := c.Role
	if role == "" {
		role = models.RoleAssistant
	}
	return models.NewTextMessage(role, c.Content)
}

type Image struct {
	URL           string `json:"url,omitempty"`
	B64JSON       string `json:"b64_json,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// Provider is an upstream model vendor.
type Provider interface {
	Name() string
	Chat(ctx context.Context, messages []models.ChatMessage) (*Completion, error)
	Embed(ctx context.Context, text string) (embedding []float64, model string, err error)
	GenerateImages(ctx context.Context, prompt string, n int, size string) ([]Image, error)
	Close() error
}

// Request carries the input of every mode. Chat reads Messages; embedding and
// image read Text.
type Request struct {
	Messages   []models.ChatMessage
	Text       string
	ImageCount int
	ImageSize  string
}

type Response struct {
	Mode       Mode
	Provider   string
	Completion *Completion
	Embedding  []float64
	Images     []Image
}

// CallRecord describes one finished provider call.
type CallRecord struct {
	Mode     Mode
	Provider string
	Model    string
	Usage    Usage
	Latency  time.Duration
	Err      error
}

// Recorder receives a CallRecord after every provider call.
type Recorder interface {
	Record(ctx context.Context, rec CallRecord)
}

type Client struct {
	provider Provider
	timeout  time.Duration
	recorder Recorder
}

type ClientOption func(*Client)

// WithTimeout bounds each provider call.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

func WithRecorder(r Recorder) ClientOption {
	return func(c *Client) { c.recorder = r }
}

func NewClient(p Provider, opts ...ClientOption) *Client {
	c := &Client{provider: p}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) ProviderName() string { return c.provider.Name() }

func (c *Client) Close() error { return c.provider.Close() }

// Prompt sends req to the provider capability picked by mode. An unknown mode
// yields ErrInvalidMode; every upstream failure is a *ProviderError.
func (c *Client) Prompt(ctx context.Context, mode Mode, req Request) (*Response, error) {
	switch mode {
	case ModeChat, ModeEmbedding, ModeImage:
	default:
		return nil, fmt.Errorf("%w (got %s)", ErrInvalidMode, mode)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp := &Response{Mode: mode, Provider: c.provider.Name()}
	rec := CallRecord{Mode: mode, Provider: resp.Provider}

	var err error
	switch mode {
	case ModeChat:
		if len(req.Messages) == 0 {
			err = errors.New("at least one message must be provided")
			break
		}
		resp.Completion, err = c.provider.Chat(ctx, req.Messages)
		if err == nil {
			rec.Model = resp.Completion.Model
			rec.Usage = resp.Completion.Usage
		}
	case ModeEmbedding:
		resp.Embedding, rec.Model, err = c.provider.Embed(ctx, req.Text)
	case ModeImage:
		n := req.ImageCount
		if n <= 0 {
			n = 2
		}
		resp.Images, err = c.provider.GenerateImages(ctx, req.Text, n, req.ImageSize)
	}

	rec.Latency = time.Since(start)
	if err != nil {
		err = &ProviderError{Provider: resp.Provider, Mode: mode, Err: err}
		rec.Err = err
	}
	if c.recorder != nil {
		c.recorder.Record(ctx, rec)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Chat is Prompt in chat mode returning only the completion.
func (c *Client) Chat(ctx context.Context, messages []models.ChatMessage) (*Completion, error) {
	resp, err := c.Prompt(ctx, ModeChat, Request{Messages: messages})
	if err != nil {
		return nil, err
	}
	return resp.Completion, nil
}
