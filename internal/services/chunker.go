package services

import (
	"strings"
	"unicode/utf8"
)

// TextChunker splits guideline documents into overlapping passages for embedding.
type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText packs paragraphs (or sentences of oversized paragraphs) into chunks
// of at most maxChunkSize runes. Each new chunk starts with the last overlap
// runes of the previous one, cut at a word boundary.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	var units []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.Join(strings.Fields(para), " ")
		if para == "" {
			continue
		}
		if utf8.RuneCountInString(para) <= maxChunkSize {
			units = append(units, para)
			continue
		}
		for _, sentence := range splitIntoSentences(para) {
			units = append(units, hardWrap(sentence, maxChunkSize)...)
		}
	}

	var chunks []string
	var current []string
	currentLen := 0
	pending := false

	flush := func() {
		chunk := strings.Join(current, "\n\n")
		chunks = append(chunks, chunk)
		current = current[:0]
		currentLen = 0
		pending = false
		if tail := tailAtWord(chunk, overlap); tail != "" {
			current = append(current, tail)
			currentLen = utf8.RuneCountInString(tail)
		}
	}

	for _, unit := range units {
		unitLen := utf8.RuneCountInString(unit)
		if currentLen > 0 && currentLen+2+unitLen > maxChunkSize {
			if pending {
				flush()
			}
			// The overlap alone may not leave room for the unit.
			if currentLen > 0 && currentLen+2+unitLen > maxChunkSize {
				current = current[:0]
				currentLen = 0
			}
		}
		if currentLen > 0 {
			currentLen += 2
		}
		current = append(current, unit)
		currentLen += unitLen
		pending = true
	}

	if pending {
		chunks = append(chunks, strings.Join(current, "\n\n"))
	}

	return chunks
}

func splitIntoSentences(text string) []string {
	var result []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				result = append(result, s)
			}
			start = i + utf8.RuneLen(r)
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		result = append(result, s)
	}
	return result
}

// hardWrap breaks a run of text longer than size into size-rune pieces.
func hardWrap(text string, size int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}
	var parts []string
	for len(runes) > 0 {
		n := size
		if len(runes) < n {
			n = len(runes)
		}
		parts = append(parts, strings.TrimSpace(string(runes[:n])))
		runes = runes[n:]
	}
	return parts
}

func tailAtWord(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return ""
	}
	tail := string(runes[len(runes)-n:])
	if idx := strings.IndexAny(tail, " \n"); idx >= 0 && idx < len(tail)-1 {
		tail = tail[idx+1:]
	}
	return strings.TrimSpace(tail)
}
