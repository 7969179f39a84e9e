package main

import (
	"context"
	"fmt"

	"github.com/xhad/kbase/internal/types"
	"github.com/xhad/kbase/pkg/llm"
	"github.com/xhad/kbase/pkg/store"
)

// deps holds the clients every subcommand shares. Built once per run.
type deps struct {
	store       *store.VectorStore
	marketplace *store.Marketplace
	embedder    *llm.Embedder
}

func newDeps(ctx context.Context) (*deps, error) {
	vectorStore, err := store.NewWithConfig(ctx, store.VectorStoreConfig{
		ConnString:  cfg.Database.URL,
		ServiceKey:  cfg.Database.ServiceKey,
		TableName:   cfg.Database.TableName,
		VectorDim:   cfg.Database.VectorDim,
		SearchLimit: cfg.Database.MatchCount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vector store: %w", err)
	}

	embedder, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		Model:         cfg.LLM.EmbeddingModel,
		BaseURL:       cfg.LLM.BaseURL,
		Dimension:     cfg.Database.VectorDim,
		WindowSize:    cfg.Processor.WindowSize,
		WindowOverlap: cfg.Processor.WindowOverlap,
	})
	if err != nil {
		vectorStore.Close()
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	return &deps{
		store:       vectorStore,
		marketplace: store.NewMarketplace(vectorStore.Pool()),
		embedder:    embedder,
	}, nil
}

func (d *deps) Close() {
	d.store.Close()
}

func newGenerator(ctx context.Context) (types.Generator, error) {
	switch cfg.LLM.Provider {
	case "gemini":
		return llm.NewGemini(ctx, llm.GeminiConfig{
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		})
	default:
		return llm.NewWithConfig(llm.ChatConfig{
			Model:       cfg.LLM.Model,
			BaseURL:     cfg.LLM.BaseURL,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		})
	}
}
