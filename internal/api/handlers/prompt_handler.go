package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tripwise/prompt-svc/internal/models"
	"github.com/tripwise/prompt-svc/internal/prompt"
	"github.com/tripwise/prompt-svc/internal/services"
)

type PromptHandler struct {
	svc services.PromptService
}

func NewPromptHandler(svc services.PromptService) *PromptHandler {
	return &PromptHandler{svc: svc}
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"svc": svcName, "msg": "prompt service is up and running!"})
}

type converseRequest struct {
	Messages []models.ChatMessage `json:"messages"`
}

// Converse sends a client-held conversation to the model and returns it with
// the reply appended. Nothing is stored.
func (h *PromptHandler) Converse(c *gin.Context) {
	var req converseRequest
	if !bindRequired(c, &req, "messages") {
		return
	}

	out, err := h.svc.Converse(c.Request.Context(), req.Messages)
	if err != nil {
		writeError(c, err, req.Messages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"svc": svcName, "messages": out})
}

type localInfoRequest struct {
	Destination          flexString `json:"destination"`
	Time                 flexString `json:"time"`
	Date                 flexString `json:"date"`
	ResterauntConditions flexString `json:"resterauntConditions"`
}

func (h *PromptHandler) LocalInfo(c *gin.Context) {
	var req localInfoRequest
	if !bindRequired(c, &req, "destination", "time", "date", "resterauntConditions") {
		return
	}

	params := prompt.LocalInfoParams{
		Destination:          req.Destination.String(),
		Time:                 req.Time.String(),
		Date:                 req.Date.String(),
		RestaurantConditions: req.ResterauntConditions.String(),
	}
	out, err := h.svc.LocalInfo(c.Request.Context(), params)
	if err != nil {
		writeError(c, err, prompt.LocalInfo(params))
		return
	}
	c.JSON(http.StatusOK, gin.H{"svc": svcName, "messages": out})
}

type weatherRequest struct {
	Location flexString `json:"location"`
}

// Weather returns the forecast text as the model produced it, once it has
// been checked to be JSON.
func (h *PromptHandler) Weather(c *gin.Context) {
	var req weatherRequest
	if !bindRequired(c, &req, "location") {
		return
	}

	raw, err := h.svc.Weather(c.Request.Context(), req.Location.String())
	if err != nil {
		writeError(c, err, prompt.HourlyForecast(req.Location.String()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"weather-update": string(raw)})
}
