package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const feedbackSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["ATS"],
  "properties": {
    "overallScore": {"type": "number"},
    "ATS": {
      "type": "object",
      "required": ["score", "tips"],
      "properties": {
        "score": {"type": "number"},
        "tips": {"$ref": "#/definitions/tips"}
      }
    },
    "toneAndStyle": {"$ref": "#/definitions/category"},
    "content": {"$ref": "#/definitions/category"},
    "structure": {"$ref": "#/definitions/category"},
    "skills": {"$ref": "#/definitions/category"}
  },
  "definitions": {
    "tip": {
      "oneOf": [
        {"type": "string"},
        {
          "type": "object",
          "required": ["tip"],
          "properties": {
            "type": {"type": "string"},
            "tip": {"type": "string"},
            "explanation": {"type": "string"}
          }
        }
      ]
    },
    "tips": {
      "type": "array",
      "items": {"$ref": "#/definitions/tip"}
    },
    "category": {
      "type": "object",
      "properties": {
        "score": {"type": "number"},
        "tips": {"$ref": "#/definitions/tips"}
      }
    }
  }
}`

// FeedbackValidator checks AI feedback against the feedback schema.
type FeedbackValidator struct {
	schema *gojsonschema.Schema
}

func NewFeedbackValidator() (*FeedbackValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(feedbackSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile feedback schema: %w", err)
	}
	return &FeedbackValidator{schema: schema}, nil
}

func (v *FeedbackValidator) Validate(raw json.RawMessage) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("failed to validate feedback: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid feedback: %s", strings.Join(msgs, "; "))
}

// ParseFeedback extracts the JSON object from a model answer and validates it.
func (v *FeedbackValidator) ParseFeedback(text string) (json.RawMessage, error) {
	raw := json.RawMessage(extractJSON(text))
	if !json.Valid(raw) {
		return nil, fmt.Errorf("feedback is not valid JSON")
	}
	if err := v.Validate(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// extractJSON strips markdown fences and surrounding prose from a model answer.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	endObj := strings.LastIndex(text, "}")
	if startObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	}

	return strings.TrimSpace(text)
}
