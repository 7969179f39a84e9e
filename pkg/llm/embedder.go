package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/xhad/kbase/pkg/processor"
)

// EmbedderConfig represents the configuration for an Embedder.
type EmbedderConfig struct {
	Model         string
	BaseURL       string // Ollama server URL
	Dimension int
	// WindowSize enables windowed embedding when positive. Zero sends the
	// whole text as one input and leaves truncation to the model runtime.
	WindowSize    int
	WindowOverlap int
	BatchSize     int
}

// Embedder turns text into a single fixed-length vector. The model runtime
// tokenises, truncates and mean-pools token states. With a WindowSize set,
// text longer than one window is embedded per window and the window
// vectors are mean-pooled.
type Embedder struct {
	config    EmbedderConfig
	embedder  embeddings.Embedder
	processor processor.Processor
}

func withDefaults(config EmbedderConfig) EmbedderConfig {
	if config.Model == "" {
		config.Model = "all-minilm" // sentence-transformers/all-MiniLM-L6-v2
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434" // Default Ollama URL
	}
	if config.Dimension == 0 {
		config.Dimension = 384
	}
	if config.BatchSize == 0 {
		config.BatchSize = 16
	}
	return config
}

// NewEmbedderWithConfig connects an Embedder to an Ollama server.
func NewEmbedderWithConfig(config EmbedderConfig) (*Embedder, error) {
	config = withDefaults(config)

	client, err := ollama.New(ollama.WithModel(config.Model), ollama.WithServerURL(config.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding model: %w", err)
	}
	return NewEmbedderWithClient(config, client)
}

// NewEmbedderWithClient builds an Embedder on any langchaingo embedding client.
func NewEmbedderWithClient(config EmbedderConfig, client embeddings.EmbedderClient) (*Embedder, error) {
	config = withDefaults(config)

	emb, err := embeddings.NewEmbedder(client,
		embeddings.WithStripNewLines(false),
		embeddings.WithBatchSize(config.BatchSize),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	return &Embedder{
		config:   config,
		embedder: emb,
		processor: processor.NewWithConfig(processor.ProcessorConfig{
			WindowSize:    config.WindowSize,
			WindowOverlap: config.WindowOverlap,
		}),
	}, nil
}

// Dimension is the length of every vector Embed returns.
func (e *Embedder) Dimension() int {
	return e.config.Dimension
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	windows := e.inputs(text)

	vectors, err := e.embedder.EmbedDocuments(ctx, windows)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}
	if len(vectors) != len(windows) {
		return nil, fmt.Errorf("embedding model returned %d vectors for %d windows", len(vectors), len(windows))
	}

	pooled, err := MeanPool(vectors)
	if err != nil {
		return nil, err
	}
	if len(pooled) != e.config.Dimension {
		return nil, fmt.Errorf("embedding dimension %d does not match configured %d", len(pooled), e.config.Dimension)
	}
	return pooled, nil
}

func (e *Embedder) inputs(text string) []string {
	if e.config.WindowSize <= 0 {
		return []string{processor.SanitizeUTF8(text)}
	}
	return e.processor.Windows(text)
}

// MeanPool averages equal-length vectors element-wise.
func MeanPool(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, errors.New("no vectors to pool")
	}
	dim := len(vectors[0])
	if len(vectors) == 1 {
		return vectors[0], nil
	}

	sum := make([]float64, dim)
	for _, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("cannot pool vectors of length %d and %d", dim, len(v))
		}
		for i, x := range v {
			sum[i] += float64(x)
		}
	}

	pooled := make([]float32, dim)
	n := float64(len(vectors))
	for i, s := range sum {
		pooled[i] = float32(s / n)
	}
	return pooled, nil
}
