package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tripwise/prompt-svc/internal/models"
	"github.com/tripwise/prompt-svc/internal/services"
)

type ProfileHandler struct {
	svc services.ProfileService
}

func NewProfileHandler(svc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// unauthorizedBody is returned by the profile routes when no caller is
// identified.
func unauthorizedBody() gin.H { return gin.H{"error": msgUnauthorized} }

func (h *ProfileHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c, unauthorizedBody())
	if !ok {
		return
	}

	p, err := h.svc.GetMe(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, p)
}

type updateProfileRequest struct {
	Age                 flexString `json:"age"`
	TravelStyle         flexString `json:"travel-style"`
	TravelPriorities    flexString `json:"travel-priorities"`
	TravelAvoidances    flexString `json:"travel-avoidances"`
	DietaryRestrictions flexString `json:"dietary-restrictions"`
	Accomodations       flexString `json:"accomodations"`
}

// Update creates or overwrites the caller's profile in one upsert.
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c, unauthorizedBody())
	if !ok {
		return
	}

	var req updateProfileRequest
	if !bindRequired(c, &req, "age", "travel-style", "travel-priorities", "travel-avoidances", "dietary-restrictions", "accomodations") {
		return
	}

	p := &models.Profile{
		UserID:              userID,
		Age:                 req.Age.String(),
		TravelStyle:         req.TravelStyle.String(),
		TravelPriorities:    req.TravelPriorities.String(),
		TravelAvoidances:    req.TravelAvoidances.String(),
		DietaryRestrictions: req.DietaryRestrictions.String(),
		Accomodations:       req.Accomodations.String(),
	}
	if err := h.svc.Upsert(c.Request.Context(), p); err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": p.ProfileID})
}
