package embedding

import (
	"context"

	"resumerag/internal/domain"
	"resumerag/internal/embedding/hashing"
	"resumerag/internal/embedding/openai"
)

// Config selects and configures an embedding backend.
type Config struct {
	Backend   string
	Dimension int
	Model     string
	BaseURL   string
	APIKeyEnv string
}

// Unconfigured stands in for a backend whose credential is missing.
// Startup succeeds; every Embed call reports the configuration error.
type Unconfigured struct {
	Backend string
	Dim     int
	Err     error
}

func (u Unconfigured) Name() string { return u.Backend }

func (u Unconfigured) Dimension() int { return u.Dim }

func (u Unconfigured) Embed(context.Context, []string) ([][]float64, error) {
	return nil, u.Err
}

// New builds the embedder named by cfg.Backend ("hashing" when empty).
// A missing credential yields an Unconfigured embedder instead of an error.
func New(cfg Config) (domain.Embedder, error) {
	switch cfg.Backend {
	case "", "hashing":
		return hashing.NewEmbedder(cfg.Dimension), nil
	case "openai":
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.BaseURL,
			APIKeyEnv: cfg.APIKeyEnv,
			Model:     cfg.Model,
			Dimension: cfg.Dimension,
		})
		if domain.IsConfigurationError(err) {
			dim := cfg.Dimension
			if dim <= 0 {
				dim = openai.DefaultDimension
			}
			return Unconfigured{Backend: "openai", Dim: dim, Err: err}, nil
		}
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, domain.ConfigurationError("unknown embedder backend %q", cfg.Backend)
	}
}
