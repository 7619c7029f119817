package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func candidate(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		{Content: genai.NewContentFromParts(parts, genai.RoleModel)},
	}}
}

func TestToAIResponse(t *testing.T) {
	resp, err := toAIResponse(candidate(genai.NewPartFromText(`{"ATS":{}}`)))
	require.NoError(t, err)
	assert.False(t, resp.Message.Content.IsList())
	assert.Equal(t, `{"ATS":{}}`, resp.Text())

	thought := genai.NewPartFromText("thinking...")
	thought.Thought = true
	resp, err = toAIResponse(candidate(thought, genai.NewPartFromText("first"), genai.NewPartFromText("second")))
	require.NoError(t, err)
	assert.True(t, resp.Message.Content.IsList())
	assert.Equal(t, "first", resp.Text())
}

func TestToAIResponse_Empty(t *testing.T) {
	_, err := toAIResponse(nil)
	assert.Error(t, err)

	_, err = toAIResponse(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = toAIResponse(candidate(genai.NewPartFromText("   ")))
	assert.Error(t, err)
}

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "short", truncateUTF8("short", 10))

	// "é" is two bytes, so a five byte cut lands inside the third rune
	out := truncateUTF8("ééé", 5)
	assert.Equal(t, "éé", out)
	assert.True(t, utf8.ValidString(out))

	long := strings.Repeat("a", 39999) + "日本"
	out = truncateUTF8(long, 40000)
	assert.Len(t, out, 39999)
	assert.True(t, utf8.ValidString(out))
}
