package openai

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"resumerag/internal/domain"
)

const (
	DefaultModel     = openai.SmallEmbedding3
	DefaultDimension = 1536
)

// Config configures the OpenAI embeddings client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Dimension int
}

// Client is an OpenAI-compatible embeddings client.
type Client struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	dimension int
}

// NewClient builds a client from the key found in cfg.APIKeyEnv.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, domain.ConfigurationError("%s not configured", cfg.APIKeyEnv)
	}
	oc := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	model := DefaultModel
	if cfg.Model != "" {
		model = openai.EmbeddingModel(cfg.Model)
	}
	dim := cfg.Dimension
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &Client{client: openai.NewClientWithConfig(oc), model: model, dimension: dim}, nil
}

func (c *Client) Name() string { return "openai" }

func (c *Client) Dimension() int { return c.dimension }

// Embed sends all texts in a single batch request.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: c.model,
	})
	if err != nil {
		return nil, domain.NewError(domain.KindIndex, "create embeddings", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, domain.NewError(domain.KindIndex, fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(resp.Data)), nil)
	}

	out := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, domain.NewError(domain.KindIndex, fmt.Sprintf("embedding index %d out of range", d.Index), nil)
		}
		vec := make([]float64, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float64(v)
		}
		out[d.Index] = vec
	}
	return out, nil
}
