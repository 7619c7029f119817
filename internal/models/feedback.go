package models

import (
	"encoding/json"
	"strings"
)

type Tip struct {
	Type        string `json:"type,omitempty"`
	Tip         string `json:"tip"`
	Explanation string `json:"explanation,omitempty"`
}

// UnmarshalJSON also accepts a bare string, which some model outputs use for tips.
func (t *Tip) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*t = Tip{Tip: strings.TrimSpace(text)}
		return nil
	}

	type plain Tip
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Tip(p)
	return nil
}

type ATSFeedback struct {
	Score float64 `json:"score"`
	Tips  []Tip   `json:"tips"`
}

type CategoryFeedback struct {
	Score float64 `json:"score"`
	Tips  []Tip   `json:"tips"`
}

type FeedbackContent struct {
	OverallScore float64          `json:"overallScore"`
	ATS          ATSFeedback      `json:"ATS"`
	ToneAndStyle CategoryFeedback `json:"toneAndStyle"`
	Content      CategoryFeedback `json:"content"`
	Structure    CategoryFeedback `json:"structure"`
	Skills       CategoryFeedback `json:"skills"`
}

// Categories returns the detail sections in display order.
func (c *FeedbackContent) Categories() []NamedCategory {
	return []NamedCategory{
		{Name: "Tone & Style", CategoryFeedback: c.ToneAndStyle},
		{Name: "Content", CategoryFeedback: c.Content},
		{Name: "Structure", CategoryFeedback: c.Structure},
		{Name: "Skills", CategoryFeedback: c.Skills},
	}
}

type NamedCategory struct {
	Name string `json:"name"`
	CategoryFeedback
}

// JobDescriptionAnalysis is the AI answer for the two-document flow.
type JobDescriptionAnalysis struct {
	JobDescription string          `json:"jobDescription"`
	JobTitle       string          `json:"jobTitle"`
	CompanyName    string          `json:"companyName"`
	Feedback       json.RawMessage `json:"feedback"`
}
