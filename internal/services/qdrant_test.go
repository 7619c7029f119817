package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) GenerateEmbedding(context.Context, string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeVectorStore struct {
	QdrantService
	results  []SearchResult
	docType  string
	limit    int
	searchFn func() error
}

func (f *fakeVectorStore) SearchSimilar(_ context.Context, _ []float32, docType string, limit int) ([]SearchResult, error) {
	f.docType = docType
	f.limit = limit
	if f.searchFn != nil {
		if err := f.searchFn(); err != nil {
			return nil, err
		}
	}
	return f.results, nil
}

func TestGuidanceService_Retrieve(t *testing.T) {
	store := &fakeVectorStore{results: []SearchResult{{Text: "Use a single column layout.", Score: 0.9}}}
	svc := NewGuidanceService(&fakeEmbedder{}, store, 0)

	text, err := svc.Retrieve(context.Background(), "resume screening")
	require.NoError(t, err)
	assert.Contains(t, text, "Use a single column layout.")
	assert.Equal(t, GuidelineDocType, store.docType)
	assert.Equal(t, 3, store.limit)
}

func TestGuidanceService_Errors(t *testing.T) {
	_, err := NewGuidanceService(&fakeEmbedder{err: errBoom}, &fakeVectorStore{}, 2).Retrieve(context.Background(), "q")
	assert.ErrorIs(t, err, errBoom)

	store := &fakeVectorStore{searchFn: func() error { return errBoom }}
	_, err = NewGuidanceService(&fakeEmbedder{}, store, 2).Retrieve(context.Background(), "q")
	assert.ErrorIs(t, err, errBoom)
}
