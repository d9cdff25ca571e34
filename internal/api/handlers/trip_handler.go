package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tripwise/prompt-svc/internal/api/middleware"
	"github.com/tripwise/prompt-svc/internal/models"
	"github.com/tripwise/prompt-svc/internal/prompt"
	"github.com/tripwise/prompt-svc/internal/services"
)

type TripHandler struct {
	svc services.TripService
}

func NewTripHandler(svc services.TripService) *TripHandler {
	return &TripHandler{svc: svc}
}

type planRequest struct {
	Destination flexString  `json:"destination"`
	NumUsers    flexString  `json:"num-users"`
	NumDays     flexString  `json:"num-days"`
	Preferences flexString  `json:"preferences"`
	Budget      flexString  `json:"budget"`
	UserID      *flexString `json:"user_id"`
}

// Plan handles the initial planning request. A null user_id creates a trip
// without an owner.
func (h *TripHandler) Plan(c *gin.Context) {
	var req planRequest
	if !bindRequired(c, &req, "destination", "num-users", "num-days", "preferences", "budget", "user_id") {
		return
	}

	params := prompt.TripParams{
		Destination:  req.Destination.String(),
		TravelersNum: req.NumUsers.String(),
		DaysNum:      req.NumDays.String(),
		Preferences:  req.Preferences.String(),
		Budget:       req.Budget.String(),
	}
	var userID *string
	if req.UserID != nil && *req.UserID != "" {
		s := req.UserID.String()
		userID = &s
	}

	res, err := h.svc.Plan(c.Request.Context(), userID, params)
	if err != nil {
		writeError(c, err, prompt.InitialPlan(params))
		return
	}

	c.JSON(http.StatusOK, gin.H{"gpt-message": res.Reply, "trip_id": res.TripID})
}

// Get returns the trip's latest itinerary. Without a bearer the caller has a
// nil identity, which only matches trips stored without an owner.
func (h *TripHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("trip_id"), 10, 64)
	if err != nil {
		badRequest(c)
		return
	}

	view, err := h.svc.Get(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		writeError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gpt-message": view.Itinerary,
		"trip_id":     view.Trip.TripID,
		"destination": view.Trip.Destination,
	})
}

func (h *TripHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c, gin.H{"code": "no auth header", "description": msgMissingHeader})
	if !ok {
		return
	}

	trips, err := h.svc.History(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": trips})
}

type chatRequest struct {
	TripID  tripID     `json:"trip_id"`
	Message flexString `json:"message"`
}

func (h *TripHandler) Chat(c *gin.Context) {
	var req chatRequest
	if !bindRequired(c, &req, "trip_id", "message") {
		return
	}

	reply, err := h.svc.Chat(c.Request.Context(), int64(req.TripID), req.Message.String())
	if err != nil {
		writeError(c, err, req.Message.String())
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": reply})
}

type updateRequest struct {
	TripID tripID `json:"trip_id"`
}

func (h *TripHandler) Update(c *gin.Context) {
	var req updateRequest
	if !bindRequired(c, &req, "trip_id") {
		return
	}

	res, err := h.svc.Update(c.Request.Context(), int64(req.TripID))
	if err != nil {
		writeError(c, err, []models.ChatMessage{models.NewTextMessage(models.RoleUser, prompt.UpdateTripText())})
		return
	}
	c.JSON(http.StatusOK, gin.H{"gpt-message": res.Reply, "destination": res.Destination})
}
