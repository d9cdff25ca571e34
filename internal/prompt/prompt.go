// Package prompt builds the instruction messages sent to the model. Every
// builder is pure string interpolation; nothing here validates its inputs.
package prompt

import (
	"fmt"
	"strings"

	"github.com/tripwise/prompt-svc/internal/models"
)

// SchemaField is one entry of a JSON shape described to the model in prose.
type SchemaField struct {
	Name string
	Type string
}

// Schema is an ordered field list rendered as `{"name": "type", ...}`.
type Schema []SchemaField

func (s Schema) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range s {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: %q", f.Name, f.Type)
	}
	b.WriteByte('}')
	return b.String()
}

var ItinerarySchema = Schema{
	{"time", "string"},
	{"location", "string"},
	{"activity", "string"},
	{"average duration", "number"},
	{"cost", "number"},
	{"travel methods", "string"},
	{"nearby resteraunts", "string"},
	{"tips", "string"},
	{"nearby activity", "string"},
}

var WeatherSchema = Schema{
	{"time", "string"},
	{"temperature", "number"},
	{"condition", "string"},
	{"FahrenheitorCelsius", "string"},
	{"chance_of_rain", "number"},
}

const SystemItinerary = `You are a professional vacation planner helping users
	plan trips abroad. You will recommend hotels,
	attractions, restaurants, shopping area, natural sites
	or any other places that the user requests. You will
	plan according to the budget and vacation length given
	by the user. You will present the result in a format of
	detailed itinerary of each day, begin from day 1 to the
	last day.`

const SystemWeather = `You are a weather service.`

// ChatFormattingSuffix is appended to free-form trip chat turns before they
// reach the model. The stored turn keeps the user's text as typed.
const ChatFormattingSuffix = " Answer in normal formatting."

// TripParams are the free-form values of an initial planning request.
type TripParams struct {
	Destination  string
	TravelersNum string
	DaysNum      string
	Preferences  string
	Budget       string
}

// LocalInfoParams drive the local-info query.
type LocalInfoParams struct {
	Destination          string
	Time                 string
	Date                 string
	RestaurantConditions string
}

// Clean collapses every whitespace run to a single space.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Pair wraps a system and a user text into the fixed two-turn conversation.
func Pair(systemText, userText string) []models.ChatMessage {
	return []models.ChatMessage{
		models.NewTextMessage(models.RoleSystem, systemText),
		models.NewTextMessage(models.RoleUser, userText),
	}
}

func itineraryFormat() string {
	return fmt.Sprintf(`Use the following json format with this schema:
		%s
		where time is based on 12 hour clock, cost is a dollar amount,
		and average duration is in hours. It will be housed within this
		structure " "Day 1": [], "Day 2": [], "Day 3": [] " and so on
		until the last day.`, ItinerarySchema)
}

// PlanTripText is the user turn of an initial planning request.
func PlanTripText(p TripParams) string {
	return Clean(fmt.Sprintf(`Plan me a %s days trip to %s.
		This is for a party of %s adults aging
		from 35-38. We are interested in visiting shopping
		area, enjoying local food, with a one or two night
		life. We will strictly stay in %s. Budget should
		be %s per person without airfare, but include
		hotels, meals and other expenses. %s
		%s`,
		p.DaysNum, p.Destination, p.TravelersNum, p.Destination, p.Budget, p.Preferences, itineraryFormat()))
}

// InitialPlan returns the system/user pair that opens a trip conversation.
func InitialPlan(p TripParams) []models.ChatMessage {
	return Pair(Clean(SystemItinerary), PlanTripText(p))
}

// UpdateTripText asks for a revised itinerary. It carries no parameters; the
// conversation history supplies the context.
func UpdateTripText() string {
	return Clean(`Give me an updated itinerary of everything we discussed up
		to this point. ` + fmt.Sprintf(`Use the following json format with this
		schema: %s where time is based on 12 hour
		clock, cost is a dollar amount, and average duration is in
		hours. It will be housed within this structure
		" "Day 1": [], "Day 2": [], "Day 3": [] " and so on until
		the last day.`, ItinerarySchema))
}

// HourlyForecast asks for a 24 hour forecast of location.
func HourlyForecast(location string) []models.ChatMessage {
	text := fmt.Sprintf(`give me an hourly forcast for weather in
		%s for the next 24 hours in
		json format with this schema: %s
		using a 12 hour clock. The WEATHER_JSON formatted output
		will be housed within this structure "forecast":[].
		Weather conditions will be identified as "Clear Night",
		"Rainy Night", "Cloudy Night", "Sunny", "Partly Cloudy",
		"Rainy", "Stormy", "Cloudy", or "Snowy"`, location, WeatherSchema)
	return Pair(Clean(SystemWeather), Clean(text))
}

// LocalInfo asks for weather, travel options, restaurants and nearby
// activities around an event.
func LocalInfo(p LocalInfoParams) []models.ChatMessage {
	text := fmt.Sprintf(`Give me the weather for %s at
		%s on %s. Give me travel options to
		%s. Give me good resteraunts near
		%s. Also, give me alternative things
		to do around this area. %s`,
		p.Destination, p.Time, p.Date, p.Destination, p.Destination, p.RestaurantConditions)
	return Pair(Clean(SystemItinerary), Clean(text))
}

// TripChatTurn is the user turn sent to the model for a free-form chat
// message.
func TripChatTurn(message string) models.ChatMessage {
	return models.NewTextMessage(models.RoleUser, message+ChatFormattingSuffix)
}

