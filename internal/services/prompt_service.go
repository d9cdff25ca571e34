package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tripwise/prompt-svc/internal/cache"
	"github.com/tripwise/prompt-svc/internal/models"
	"github.com/tripwise/prompt-svc/internal/prompt"
	"github.com/tripwise/prompt-svc/internal/providers/llm"
	"github.com/tripwise/prompt-svc/internal/utils"
)

// ErrInvalidForecast means the model answered a weather request with text
// that is not JSON.
var ErrInvalidForecast = errors.New("forecast is not valid JSON")

// Prompter runs any completion mode.
type Prompter interface {
	Completer
	Prompt(ctx context.Context, mode llm.Mode, req llm.Request) (*llm.Response, error)
}

// PromptService covers the stateless routes: nothing here touches the
// database.
type PromptService interface {
	Converse(ctx context.Context, messages []models.ChatMessage) ([]models.ChatMessage, error)
	LocalInfo(ctx context.Context, p prompt.LocalInfoParams) ([]models.ChatMessage, error)
	Weather(ctx context.Context, location string) (json.RawMessage, error)
	Run(ctx context.Context, mode llm.Mode, req llm.Request) (*llm.Response, error)
}

type promptService struct {
	llm        Prompter
	cache      cache.Cache
	weatherTTL time.Duration
	log        logrus.FieldLogger
}

func NewPromptService(llm Prompter, c cache.Cache, weatherTTL time.Duration, log logrus.FieldLogger) PromptService {
	if c == nil {
		c = cache.Noop{}
	}
	return &promptService{llm: llm, cache: c, weatherTTL: weatherTTL, log: log}
}

// Converse returns messages followed by the model's reply.
func (s *promptService) Converse(ctx context.Context, messages []models.ChatMessage) ([]models.ChatMessage, error) {
	const op = "PromptService.Converse"

	comp, err := s.llm.Chat(ctx, messages)
	if err != nil {
		return nil, providerErr(op, err)
	}
	out := make([]models.ChatMessage, 0, len(messages)+1)
	out = append(out, messages...)
	return append(out, comp.Message()), nil
}

func (s *promptService) LocalInfo(ctx context.Context, p prompt.LocalInfoParams) ([]models.ChatMessage, error) {
	const op = "PromptService.LocalInfo"

	msgs := prompt.LocalInfo(p)
	comp, err := s.llm.Chat(ctx, msgs)
	if err != nil {
		return nil, providerErr(op, err)
	}
	return append(msgs, comp.Message()), nil
}

// Weather returns the model's forecast for location. Only forecasts that
// parse as JSON are cached, stored as the exact text the model produced.
func (s *promptService) Weather(ctx context.Context, location string) (json.RawMessage, error) {
	const op = "PromptService.Weather"

	key := cache.WeatherKey(location)
	var cached string
	hit, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("weather cache read failed")
	}
	if hit {
		if json.Valid([]byte(cached)) {
			return json.RawMessage(cached), nil
		}
		if err := s.cache.Del(ctx, key); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("weather cache delete failed")
		}
	}

	comp, err := s.llm.Chat(ctx, prompt.HourlyForecast(location))
	if err != nil {
		return nil, providerErr(op, err)
	}

	text := strings.TrimSpace(comp.Content)
	if !json.Valid([]byte(text)) {
		return nil, utils.E(utils.CodeUpstream, op, "model returned a malformed forecast", ErrInvalidForecast)
	}

	if s.weatherTTL > 0 {
		if err := s.cache.SetJSON(ctx, key, text, s.weatherTTL); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("weather cache write failed")
		}
	}
	return json.RawMessage(text), nil
}

// Run exposes every completion mode, including embedding and image.
func (s *promptService) Run(ctx context.Context, mode llm.Mode, req llm.Request) (*llm.Response, error) {
	const op = "PromptService.Run"

	resp, err := s.llm.Prompt(ctx, mode, req)
	if err != nil {
		return nil, providerErr(op, err)
	}
	return resp, nil
}
