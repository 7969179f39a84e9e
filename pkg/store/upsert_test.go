package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xhad/kbase/internal/models"
)

func TestUpsertRejectsInvalidUTF8(t *testing.T) {
	// rejected before the pool is touched
	vs := &VectorStore{config: VectorStoreConfig{VectorDim: 3}}

	err := vs.Upsert(context.Background(), models.Record{Content: "Mercy\xff Shop", Embedding: []float32{1, 0, 0}})
	assert.ErrorIs(t, err, ErrInvalidContent)
}
