package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AIResponse mirrors the chat completion envelope returned by the AI service.
type AIResponse struct {
	Message AIMessage `json:"message"`
}

type AIMessage struct {
	Role    string         `json:"role,omitempty"`
	Content MessageContent `json:"content"`
}

type ContentPart struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
}

// MessageContent is either plain text or a list of content parts.
type MessageContent struct {
	text   string
	parts  []ContentPart
	isList bool
}

func NewTextContent(text string) MessageContent {
	return MessageContent{text: text}
}

func NewListContent(parts ...ContentPart) MessageContent {
	return MessageContent{parts: parts, isList: true}
}

func (m MessageContent) IsList() bool {
	return m.isList
}

// Text resolves the content into one string: the plain text, or the text of
// the first part of a list.
func (m MessageContent) Text() string {
	if !m.isList {
		return m.text
	}
	if len(m.parts) == 0 {
		return ""
	}
	return m.parts[0].Text
}

func (m MessageContent) MarshalJSON() ([]byte, error) {
	if m.isList {
		parts := m.parts
		if parts == nil {
			parts = []ContentPart{}
		}
		return json.Marshal(parts)
	}
	return json.Marshal(m.text)
}

func (m *MessageContent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty message content")
	}

	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*m = NewTextContent(text)
		return nil
	case '[':
		var parts []ContentPart
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		*m = NewListContent(parts...)
		return nil
	}

	return fmt.Errorf("unsupported message content: %s", string(data))
}

// Text returns the normalized message text; a nil response yields "".
func (r *AIResponse) Text() string {
	if r == nil {
		return ""
	}
	return r.Message.Content.Text()
}
