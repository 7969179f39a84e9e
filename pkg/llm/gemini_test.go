package llm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xhad/kbase/pkg/llm"
)

func TestNewGeminiRequiresAPIKey(t *testing.T) {
	_, err := llm.NewGemini(context.Background(), llm.GeminiConfig{})
	assert.Error(t, err)
}
