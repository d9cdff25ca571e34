package models

import "gorm.io/datatypes"

type Category string

const (
	CategorySystemPrompt Category = "SYSTEMPROMPT" // system prompt first sent to the model
	CategoryUserPrompt   Category = "USERPROMPT"   // user prompt first sent to the model
	CategoryUserChat     Category = "USERCHAT"     // any later user turn
	CategoryGPTChat      Category = "GPTCHAT"      // model reply that is not an itinerary
	CategoryItinerary    Category = "ITINERARY"    // model reply holding an itinerary
)

// Known reports whether c is one of the categories this service writes.
// Storage does not constrain the column, so reads may see other values.
func (c Category) Known() bool {
	switch c {
	case CategorySystemPrompt, CategoryUserPrompt, CategoryUserChat, CategoryGPTChat, CategoryItinerary:
		return true
	}
	return false
}

// Message is one persisted conversation turn. message_id order is
// conversation order.
type Message struct {
	MessageID   int64          `gorm:"column:message_id;primaryKey;autoIncrement" json:"message_id"`
	TripID      int64          `gorm:"column:trip_id;index" json:"trip_id"`
	Role        string         `gorm:"column:role;type:varchar(255)" json:"role"`
	ContentType string         `gorm:"column:content_type;type:varchar(255)" json:"content_type"`
	ContentText string         `gorm:"column:content_text;type:text" json:"content_text"`
	Category    Category       `gorm:"column:message_category;type:varchar(255)" json:"message_category"`
	Metadata    datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
}

func (Message) TableName() string { return "messages" }

// ChatMessage converts the row back into the wire shape sent to the model.
func (m Message) ChatMessage() ChatMessage {
	return ChatMessage{
		Role:    m.Role,
		Content: []ContentBlock{{Type: m.ContentType, Text: m.ContentText}},
	}
}
