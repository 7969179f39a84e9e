package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type GeminiConfig struct {
	APIKey         string
	Model          string
	Temperature    float64
	MaxTokens      int
	SystemTemplate string
}

// GeminiEngine answers questions with the Gemini API.
type GeminiEngine struct {
	config GeminiConfig
	client *genai.Client
}

func NewGemini(ctx context.Context, config GeminiConfig) (*GeminiEngine, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if config.Model == "" {
		config.Model = "gemini-2.0-flash"
	}
	if config.SystemTemplate == "" {
		config.SystemTemplate = "You are the marketplace assistant. Answer questions using the knowledge base passages provided with the question."
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiEngine{config: config, client: client}, nil
}

func (g *GeminiEngine) Generate(ctx context.Context, question string, passages []string) (string, error) {
	temperature := float32(g.config.Temperature)
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: g.config.SystemTemplate}},
		},
		Temperature: &temperature,
	}
	if g.config.MaxTokens > 0 {
		contentConfig.MaxOutputTokens = int32(g.config.MaxTokens)
	}

	result, err := g.client.Models.GenerateContent(ctx, g.config.Model,
		genai.Text(BuildPrompt(question, passages)), contentConfig)
	if err != nil {
		return "", fmt.Errorf("gemini error: %w", err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return NoResponse, nil
	}
	return text, nil
}
