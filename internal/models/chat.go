package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"

	ContentTypeText = "text"
)

type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ChatMessage is one turn of a model conversation.
type ChatMessage struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

func NewTextMessage(role, text string) ChatMessage {
	return ChatMessage{Role: role, Content: []ContentBlock{{Type: ContentTypeText, Text: text}}}
}

// Text joins the text blocks of the message.
func (m ChatMessage) Text() string {
	if len(m.Content) == 1 {
		return m.Content[0].Text
	}
	parts := make([]string, 0, len(m.Content))
	for _, b := range m.Content {
		if b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

var ErrInvalidChatMessage = errors.New("chat message needs a role and string or block content")

// UnmarshalJSON accepts content either as a block array or as a plain string.
func (m *ChatMessage) UnmarshalJSON(data []byte) error {
	var raw struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Role == "" {
		return ErrInvalidChatMessage
	}
	m.Role = raw.Role
	m.Content = nil

	content := bytes.TrimSpace(raw.Content)
	switch {
	case len(content) == 0 || bytes.Equal(content, []byte("null")):
		return nil
	case content[0] == '"':
		var s string
		if err := json.Unmarshal(content, &s); err != nil {
			return err
		}
		m.Content = []ContentBlock{{Type: ContentTypeText, Text: s}}
		return nil
	case content[0] == '[':
		return json.Unmarshal(content, &m.Content)
	default:
		return ErrInvalidChatMessage
	}
}
