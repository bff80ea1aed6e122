package llm

import (
	"context"
	"os"
	"time"

	"resumerag/internal/domain"
	"resumerag/internal/llm/anthropic"
	"resumerag/internal/llm/openai"
)

// Config selects and configures a language-model backend.
type Config struct {
	Provider  string
	Model     string
	BaseURL   string
	APIKeyEnv string
	MaxTokens int
	Timeout   time.Duration
}

// Unconfigured stands in for a backend whose credential is missing.
// Startup succeeds; every Generate call reports the configuration error.
type Unconfigured struct {
	Err error
}

func (u Unconfigured) Generate(context.Context, string, string) (string, error) {
	return "", u.Err
}

// New builds the generator for cfg.Provider. A missing credential yields an
// Unconfigured generator instead of an error; an unknown provider is an error.
func New(cfg Config) (domain.Generator, error) {
	switch cfg.Provider {
	case "", "anthropic":
		keyEnv := envName(cfg.APIKeyEnv, "ANTHROPIC_API_KEY")
		key := os.Getenv(keyEnv)
		if key == "" {
			return Unconfigured{Err: domain.ConfigurationError("%s not configured", keyEnv)}, nil
		}
		return anthropic.NewClient(anthropic.Config{
			APIKey:    key,
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			Timeout:   cfg.Timeout,
		})
	case "openai":
		keyEnv := envName(cfg.APIKeyEnv, "OPENAI_API_KEY")
		key := os.Getenv(keyEnv)
		if key == "" {
			return Unconfigured{Err: domain.ConfigurationError("%s not configured", keyEnv)}, nil
		}
		return openai.NewClient(openai.Config{
			APIKey:    key,
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
		})
	default:
		return nil, domain.ConfigurationError("unknown llm provider %q", cfg.Provider)
	}
}

func envName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
