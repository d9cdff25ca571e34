package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tripwise/prompt-svc/internal/api/handlers"
	"github.com/tripwise/prompt-svc/internal/api/middleware"
)

type Deps struct {
	Trip    *handlers.TripHandler
	Prompt  *handlers.PromptHandler
	Profile *handlers.ProfileHandler
	WS      *handlers.WSHandler

	// JWTSecret switches bearer tokens from raw user ids to signed JWTs.
	JWTSecret string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/", handlers.Health)

	v1 := r.Group("/v1")
	v1.Use(middleware.BearerIdentity(d.JWTSecret))

	p := v1.Group("/prompt")
	p.POST("/initial-trip-planning-req", d.Trip.Plan)
	p.GET("/get-trip/:trip_id", d.Trip.Get)
	p.GET("/get-trip-history", d.Trip.History)
	p.POST("/itinerary", d.Prompt.Converse)
	p.POST("/weather", d.Prompt.Weather)
	p.POST("/trip-planning-chat", d.Trip.Chat)
	p.POST("/trip-planning-update", d.Trip.Update)
	p.GET("/profile", d.Profile.Me)
	p.POST("/profile", d.Profile.Update)

	v1.POST("/localInfo", d.Prompt.LocalInfo)

	if d.WS != nil {
		v1.GET("/ws/trip-planning-chat/:trip_id", d.WS.TripChat)
	}
}
