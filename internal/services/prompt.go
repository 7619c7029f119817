package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// feedbackFormat is the JSON shape every feedback answer must follow.
const feedbackFormat = `{
  "overallScore": <number 0-100>,
  "ATS": {
    "score": <number 0-100, how well the resume passes applicant tracking systems>,
    "tips": [{ "type": "good" | "improve", "tip": "<short tip>" }]
  },
  "toneAndStyle": {
    "score": <number 0-100>,
    "tips": [{ "type": "good" | "improve", "tip": "<title>", "explanation": "<detailed explanation>" }]
  },
  "content": {
    "score": <number 0-100>,
    "tips": [{ "type": "good" | "improve", "tip": "<title>", "explanation": "<detailed explanation>" }]
  },
  "structure": {
    "score": <number 0-100>,
    "tips": [{ "type": "good" | "improve", "tip": "<title>", "explanation": "<detailed explanation>" }]
  },
  "skills": {
    "score": <number 0-100>,
    "tips": [{ "type": "good" | "improve", "tip": "<title>", "explanation": "<detailed explanation>" }]
  }
}`

// BuildFeedbackInstructions creates the instructions for the single-document flow.
func (pb *PromptBuilder) BuildFeedbackInstructions(jobTitle, jobDescription, guidance string) string {
	return fmt.Sprintf(`You are an expert in ATS (Applicant Tracking System) and resume analysis.
Analyze and rate the attached resume and suggest how to improve it.
The rating can be low if the resume is bad. Be thorough and detailed; do not be afraid to point out mistakes or areas for improvement.
If provided, take the job description into consideration.

JOB TITLE:
%s

JOB DESCRIPTION:
%s
%s
Give 3-4 tips per section.
Return the analysis as a JSON object, without any other text and without backticks, in this format:
%s`,
		jobTitle, jobDescription, guidanceSection(guidance), feedbackFormat)
}

// BuildJobDescriptionInstructions creates the instructions for the two-document flow,
// where the job metadata is extracted from the job description PDF.
func (pb *PromptBuilder) BuildJobDescriptionInstructions(guidance string) string {
	return fmt.Sprintf(`You are an expert in ATS (Applicant Tracking System) and resume analysis.
You are given two PDF documents: a candidate resume and a job description.

First, extract from the job description the company name, the job title and a plain-text summary of the job description.
Then analyze and rate the resume against that job description and suggest how to improve it.
The rating can be low if the resume is a poor match. Be thorough and detailed.
%s
Give 3-4 tips per section.
Return a JSON object, without any other text and without backticks, in this format:
{
  "companyName": "<company name, or empty string if not stated>",
  "jobTitle": "<job title>",
  "jobDescription": "<job description summary>",
  "feedback": %s
}`,
		guidanceSection(guidance), feedbackFormat)
}

// BuildGuidanceQuery creates the retrieval query for ATS guidance.
func (pb *PromptBuilder) BuildGuidanceQuery(jobTitle, jobDescription string) string {
	if strings.TrimSpace(jobTitle) == "" && strings.TrimSpace(jobDescription) == "" {
		return "Resume screening criteria, ATS keyword matching and formatting guidelines"
	}
	return fmt.Sprintf("Resume requirements and ATS screening criteria for %s: %s", jobTitle, jobDescription)
}

func guidanceSection(guidance string) string {
	guidance = strings.TrimSpace(guidance)
	if guidance == "" {
		return ""
	}
	return fmt.Sprintf("\nREFERENCE ATS GUIDELINES:\n%s\n", guidance)
}

// FormatGuidance joins retrieved guideline passages for the prompt.
func FormatGuidance(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Guideline %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}
