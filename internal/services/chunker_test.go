package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText_ShortTextIsOneChunk(t *testing.T) {
	chunks := NewTextChunker().ChunkText("Use clear section headings.\n\nAvoid tables.", 1000, 200)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Use clear section headings.\n\nAvoid tables.", chunks[0])
}

func TestChunkText_EmptyText(t *testing.T) {
	assert.Empty(t, NewTextChunker().ChunkText("  \n\n  ", 100, 10))
}

func TestChunkText_RespectsMaxSize(t *testing.T) {
	var paras []string
	for i := 0; i < 40; i++ {
		paras = append(paras, strings.Repeat("keyword match matters. ", 8))
	}
	text := strings.Join(paras, "\n\n")

	chunks := NewTextChunker().ChunkText(text, 300, 50)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 300)
		assert.NotEmpty(t, strings.TrimSpace(c))
	}
}

func TestChunkText_OverlapCarriesTail(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta. ", 10) + "\n\n" + strings.Repeat("epsilon zeta eta theta. ", 10)

	chunks := NewTextChunker().ChunkText(text, 280, 30)
	require.Len(t, chunks, 2)
	tail := tailAtWord(chunks[0], 30)
	require.NotEmpty(t, tail)
	assert.True(t, strings.HasPrefix(chunks[1], tail))
}

func TestChunkText_HardWrapsLongWords(t *testing.T) {
	chunks := NewTextChunker().ChunkText(strings.Repeat("x", 250), 100, 0)
	require.Len(t, chunks, 3)
	assert.Equal(t, 100, len(chunks[0]))
	assert.Equal(t, 50, len(chunks[2]))
}
