package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/tripwise/prompt-svc/internal/models"
	"github.com/tripwise/prompt-svc/internal/prompt"
	"github.com/tripwise/prompt-svc/internal/providers/llm"
	pgrepo "github.com/tripwise/prompt-svc/internal/repositories/postgres"
	"github.com/tripwise/prompt-svc/internal/utils"
)

// MsgNotTripOwner is returned to callers asking for a trip they do not own.
const MsgNotTripOwner = "Unauthorized, this trip does not belong to you."

// Completer is the slice of llm.Client the services call.
type Completer interface {
	Chat(ctx context.Context, messages []models.ChatMessage) (*llm.Completion, error)
	ProviderName() string
}

type PlanResult struct {
	TripID int64
	Reply  string
}

type TripView struct {
	Trip *models.Trip
	// Itinerary is nil when the trip has no itinerary turn yet.
	Itinerary *string
}

type UpdateResult struct {
	Reply       string
	Destination string
}

type TripService interface {
	Plan(ctx context.Context, userID *string, p prompt.TripParams) (*PlanResult, error)
	Get(ctx context.Context, tripID int64, userID *string) (*TripView, error)
	History(ctx context.Context, userID string) ([]models.Trip, error)
	Chat(ctx context.Context, tripID int64, message string) (string, error)
	Update(ctx context.Context, tripID int64) (*UpdateResult, error)
}

type tripService struct {
	trips    pgrepo.TripRepository
	messages pgrepo.MessageRepository
	llm      Completer
	log      logrus.FieldLogger
}

func NewTripService(trips pgrepo.TripRepository, messages pgrepo.MessageRepository, llm Completer, log logrus.FieldLogger) TripService {
	return &tripService{trips: trips, messages: messages, llm: llm, log: log}
}

func (s *tripService) Plan(ctx context.Context, userID *string, p prompt.TripParams) (*PlanResult, error) {
	const op = "TripService.Plan"

	msgs := prompt.InitialPlan(p)
	comp, err := s.llm.Chat(ctx, msgs)
	if err != nil {
		return nil, providerErr(op, err)
	}

	trip := &models.Trip{
		UserID:            userID,
		Destination:       p.Destination,
		DaysNum:           p.DaysNum,
		TravelersNum:      p.TravelersNum,
		Budget:            p.Budget,
		TravelPreferences: p.Preferences,
	}
	if err := s.trips.Create(ctx, trip); err != nil {
		return nil, dbErr(op, "failed to create trip", err)
	}

	rows := []*models.Message{
		turnRow(trip.TripID, msgs[0], models.CategorySystemPrompt),
		turnRow(trip.TripID, msgs[1], models.CategoryUserPrompt),
		s.replyRow(trip.TripID, comp, models.CategoryItinerary),
	}
	for _, m := range rows {
		if err := s.messages.Insert(ctx, m); err != nil {
			return nil, dbErr(op, "failed to insert message", err)
		}
	}

	s.log.WithFields(logrus.Fields{"trip_id": trip.TripID, "destination": trip.Destination}).Info("trip planned")
	return &PlanResult{TripID: trip.TripID, Reply: comp.Content}, nil
}

func (s *tripService) Get(ctx context.Context, tripID int64, userID *string) (*TripView, error) {
	const op = "TripService.Get"

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "trip not found", err)
		}
		return nil, dbErr(op, "failed to get trip", err)
	}
	if !trip.OwnedBy(userID) {
		return nil, utils.E(utils.CodeUnauthorized, op, MsgNotTripOwner, nil)
	}

	view := &TripView{Trip: trip}
	it, err := s.messages.RecentItinerary(ctx, tripID)
	switch {
	case err == nil:
		view.Itinerary = &it.ContentText
	case errors.Is(err, utils.ErrNotFound):
	default:
		return nil, dbErr(op, "failed to get itinerary", err)
	}
	return view, nil
}

func (s *tripService) History(ctx context.Context, userID string) ([]models.Trip, error) {
	const op = "TripService.History"

	if userID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "user id is required", nil)
	}
	trips, err := s.trips.ListByUser(ctx, userID)
	if err != nil {
		return nil, dbErr(op, "failed to list trips", err)
	}
	if trips == nil {
		trips = []models.Trip{}
	}
	return trips, nil
}

// Chat sends the trip's history plus message to the model. The stored user
// turn is message as typed; the model sees it with a formatting hint.
func (s *tripService) Chat(ctx context.Context, tripID int64, message string) (string, error) {
	const op = "TripService.Chat"

	ctx = utils.WithTripID(ctx, tripID)
	history, err := s.history(ctx, op, tripID)
	if err != nil {
		return "", err
	}

	comp, err := s.llm.Chat(ctx, append(history, prompt.TripChatTurn(message)))
	if err != nil {
		return "", providerErr(op, err)
	}

	userRow := turnRow(tripID, models.NewTextMessage(models.RoleUser, message), models.CategoryUserChat)
	if err := s.messages.Insert(ctx, userRow); err != nil {
		return "", dbErr(op, "failed to insert user turn", err)
	}
	if err := s.messages.Insert(ctx, s.replyRow(tripID, comp, models.CategoryGPTChat)); err != nil {
		return "", dbErr(op, "failed to insert reply", err)
	}
	return comp.Content, nil
}

func (s *tripService) Update(ctx context.Context, tripID int64) (*UpdateResult, error) {
	const op = "TripService.Update"

	ctx = utils.WithTripID(ctx, tripID)
	history, err := s.history(ctx, op, tripID)
	if err != nil {
		return nil, err
	}

	ask := models.NewTextMessage(models.RoleUser, prompt.UpdateTripText())
	comp, err := s.llm.Chat(ctx, append(history, ask))
	if err != nil {
		return nil, providerErr(op, err)
	}

	if err := s.messages.Insert(ctx, turnRow(tripID, ask, models.CategoryUserChat)); err != nil {
		return nil, dbErr(op, "failed to insert revision request", err)
	}
	if err := s.messages.Insert(ctx, s.replyRow(tripID, comp, models.CategoryItinerary)); err != nil {
		return nil, dbErr(op, "failed to insert itinerary", err)
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, dbErr(op, "failed to get trip", err)
	}
	return &UpdateResult{Reply: comp.Content, Destination: trip.Destination}, nil
}

// history loads the conversation of tripID. An empty history is only valid
// for a trip that exists.
func (s *tripService) history(ctx context.Context, op string, tripID int64) ([]models.ChatMessage, error) {
	rows, err := s.messages.ChatHistory(ctx, tripID)
	if err != nil {
		return nil, dbErr(op, "failed to load chat history", err)
	}
	if len(rows) == 0 {
		if _, err := s.trips.GetByID(ctx, tripID); err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return nil, utils.E(utils.CodeNotFound, op, "trip not found", err)
			}
			return nil, dbErr(op, "failed to get trip", err)
		}
	}

	out := make([]models.ChatMessage, 0, len(rows)+1)
	for _, r := range rows {
		if !r.Category.Known() {
			s.log.WithFields(logrus.Fields{
				"trip_id":    tripID,
				"message_id": r.MessageID,
				"category":   r.Category,
			}).Warn("message has an unknown category")
		}
		out = append(out, r.ChatMessage())
	}
	return out, nil
}

func (s *tripService) replyRow(tripID int64, c *llm.Completion, cat models.Category) *models.Message {
	row := turnRow(tripID, c.Message(), cat)
	meta, err := json.Marshal(map[string]any{
		"provider":          s.llm.ProviderName(),
		"model":             c.Model,
		"finish_reason":     c.FinishReason,
		"prompt_tokens":     c.Usage.PromptTokens,
		"completion_tokens": c.Usage.CompletionTokens,
	})
	if err == nil {
		row.Metadata = datatypes.JSON(meta)
	}
	return row
}

func turnRow(tripID int64, m models.ChatMessage, cat models.Category) *models.Message {
	return &models.Message{
		TripID:      tripID,
		Role:        m.Role,
		ContentType: models.ContentTypeText,
		ContentText: m.Text(),
		Category:    cat,
	}
}
