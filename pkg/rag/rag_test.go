package rag_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/kbase/internal/models"
	"github.com/xhad/kbase/pkg/rag"
)

type stubEmbedder struct {
	err error
}

func (e stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	return []float32{1, 0, 0}, e.err
}

type stubStore struct {
	matches []models.Match
	limit   int
	err     error
}

func (s *stubStore) Upsert(context.Context, models.Record) error { return nil }
func (s *stubStore) List(context.Context) ([]models.Row, error)  { return nil, nil }
func (s *stubStore) Match(_ context.Context, _ []float32, limit int) ([]models.Match, error) {
	s.limit = limit
	return s.matches, s.err
}

type recordingGenerator struct {
	question string
	passages []string
}

func (g *recordingGenerator) Generate(_ context.Context, question string, passages []string) (string, error) {
	g.question = question
	g.passages = passages
	return "the answer", nil
}

func TestAskPassesMatchesAsContext(t *testing.T) {
	store := &stubStore{matches: []models.Match{
		{Row: models.Row{Content: "first"}, Similarity: 0.9},
		{Row: models.Row{Content: "second"}, Similarity: 0.8},
	}}
	gen := &recordingGenerator{}

	svc, err := rag.NewWithConfig(rag.ServiceConfig{
		Embedder:  stubEmbedder{},
		Store:     store,
		Generator: gen,
	})
	require.NoError(t, err)

	answer, err := svc.Ask(context.Background(), "what is the secret code?")
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)
	assert.Equal(t, 3, store.limit)
	assert.Equal(t, "what is the secret code?", gen.question)
	assert.Equal(t, []string{"first", "second"}, gen.passages)
}

func TestAskErrors(t *testing.T) {
	ctx := context.Background()

	svc, err := rag.NewWithConfig(rag.ServiceConfig{
		Embedder:  stubEmbedder{},
		Store:     &stubStore{},
		Generator: &recordingGenerator{},
	})
	require.NoError(t, err)
	_, err = svc.Ask(ctx, "   ")
	assert.ErrorIs(t, err, rag.ErrEmptyPrompt)

	embedFail, err := rag.NewWithConfig(rag.ServiceConfig{
		Embedder:  stubEmbedder{err: errors.New("ollama down")},
		Store:     &stubStore{},
		Generator: &recordingGenerator{},
	})
	require.NoError(t, err)
	_, err = embedFail.Ask(ctx, "hello")
	assert.ErrorContains(t, err, "ollama down")

	storeFail, err := rag.NewWithConfig(rag.ServiceConfig{
		Embedder:   stubEmbedder{},
		Store:      &stubStore{err: errors.New("rpc failed")},
		Generator:  &recordingGenerator{},
		MatchCount: 5,
	})
	require.NoError(t, err)
	_, err = storeFail.Ask(ctx, "hello")
	assert.ErrorContains(t, err, "rpc failed")
}

func TestNewWithConfigRequiresDependencies(t *testing.T) {
	_, err := rag.NewWithConfig(rag.ServiceConfig{Embedder: stubEmbedder{}})
	assert.Error(t, err)
}
