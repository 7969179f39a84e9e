package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate LLM config
	switch c.LLM.Provider {
	case "ollama":
	case "gemini":
		if c.LLM.APIKey == "" {
			errors = append(errors, ValidationError{
				Field:   "llm.api_key",
				Message: "api_key is required for the gemini provider",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "llm.provider",
			Message: fmt.Sprintf("unknown provider: %s", c.LLM.Provider),
		})
	}

	if c.LLM.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "Ollama base URL is required",
		})
	} else if u, err := url.Parse(c.LLM.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "invalid Ollama base URL",
		})
	}

	if c.LLM.MaxTokens < 1 || c.LLM.MaxTokens > 4096 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be between 1 and 4096",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	// Validate Database config
	if c.Database.URL != "" {
		if u, err := url.Parse(c.Database.URL); err != nil || u.Scheme == "" {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: "invalid database URL",
			})
		}
	}

	if c.Database.VectorDim < 1 {
		errors = append(errors, ValidationError{
			Field:   "database.vector_dim",
			Message: "vector_dim must be positive",
		})
	}

	if c.Database.MatchCount < 1 {
		errors = append(errors, ValidationError{
			Field:   "database.match_count",
			Message: "match_count must be positive",
		})
	}

	// Validate Collector config
	if c.Collector.DocsURL != "" {
		if u, err := url.Parse(c.Collector.DocsURL); err != nil || u.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "collector.docs_url",
				Message: "invalid docs URL",
			})
		}
	}

	if c.Collector.MaxDepth < 1 {
		errors = append(errors, ValidationError{
			Field:   "collector.max_depth",
			Message: "max_depth must be positive",
		})
	}

	if c.Collector.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "collector.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	// Validate Processor config
	// window_size 0 disables windowing
	if c.Processor.WindowSize < 0 {
		errors = append(errors, ValidationError{
			Field:   "processor.window_size",
			Message: "window_size must not be negative",
		})
	}

	if c.Processor.WindowOverlap < 0 || (c.Processor.WindowSize > 0 && c.Processor.WindowOverlap >= c.Processor.WindowSize) {
		errors = append(errors, ValidationError{
			Field:   "processor.window_overlap",
			Message: "window_overlap must be non-negative and less than window_size",
		})
	}

	return errors
}
