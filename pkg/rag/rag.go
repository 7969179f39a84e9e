package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xhad/kbase/internal/types"
	"github.com/xhad/kbase/pkg/logger"
	"github.com/xhad/kbase/pkg/metrics"
)

// ErrEmptyPrompt is returned by Ask when the prompt is blank.
var ErrEmptyPrompt = errors.New("missing prompt")

type ServiceConfig struct {
	Embedder   types.Embedder
	Store      types.KnowledgeStore
	Generator  types.Generator
	MatchCount int
}

// Service answers free-form questions by retrieving the closest stored
// documents and handing them to a generator as context.
type Service struct {
	config ServiceConfig
	log    *logger.Logger
}

func NewWithConfig(config ServiceConfig) (*Service, error) {
	if config.Embedder == nil || config.Store == nil || config.Generator == nil {
		return nil, errors.New("rag: embedder, store and generator are required")
	}
	if config.MatchCount <= 0 {
		config.MatchCount = 3
	}
	return &Service{
		config: config,
		log:    logger.New("rag"),
	}, nil
}

func (s *Service) Ask(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	embedding, err := s.config.Embedder.Embed(ctx, prompt)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("rag", "error").Inc()
		return "", fmt.Errorf("failed to embed prompt: %w", err)
	}

	matches, err := s.config.Store.Match(ctx, embedding, s.config.MatchCount)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("rag", "error").Inc()
		return "", fmt.Errorf("failed to match documents: %w", err)
	}

	passages := make([]string, len(matches))
	for i, m := range matches {
		passages[i] = m.Content
	}
	s.log.Debug("retrieved context", "matches", len(matches))

	answer, err := s.config.Generator.Generate(ctx, prompt, passages)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("rag", "error").Inc()
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}
	metrics.QueriesTotal.WithLabelValues("rag", "answered").Inc()
	return answer, nil
}
