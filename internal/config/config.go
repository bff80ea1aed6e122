package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"resumerag/internal/domain"
)

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host                string          `yaml:"host"`
	Port                int             `yaml:"port" validate:"gt=0,lte=65535"`
	RequestTimeoutSecs  int             `yaml:"request_timeout_secs" validate:"gte=0"`
	ShutdownTimeoutSecs int             `yaml:"shutdown_timeout_secs" validate:"gte=0"`
	ResumeJSONPath      string          `yaml:"resume_json_path"`
	RateLimit           RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig throttles the query endpoint. Zero RequestsPerSecond disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gte=0"`
	Burst             int     `yaml:"burst" validate:"gte=0"`
}

// SourceConfig locates the resume document.
type SourceConfig struct {
	URL              string `yaml:"url"`
	FetchTimeoutSecs int    `yaml:"fetch_timeout_secs" validate:"gte=0"`
	ScratchDir       string `yaml:"scratch_dir"`
}

// ChunkerConfig configures how the document is split into chunks.
type ChunkerConfig struct {
	Size    int `yaml:"size" validate:"gt=0"`
	Overlap int `yaml:"overlap" validate:"gte=0,ltfield=Size"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type      string                `yaml:"type" validate:"oneof=hashing openai"`
	Dimension int                   `yaml:"dimension" validate:"gte=0"`
	OpenAI    *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type       string        `yaml:"type" validate:"oneof=sqlite memory qdrant"`
	PersistDir string        `yaml:"persist_dir"`
	Collection string        `yaml:"collection" validate:"required"`
	Qdrant     *QdrantConfig `yaml:"qdrant,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

type RetrievalConfig struct {
	TopK int `yaml:"top_k" validate:"gt=0"`
}

// LLMConfig selects the answer generator. The credential is read from APIKeyEnv.
type LLMConfig struct {
	Provider    string `yaml:"provider" validate:"oneof=anthropic openai"`
	Model       string `yaml:"model"`
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	MaxTokens   int    `yaml:"max_tokens" validate:"gt=0"`
	TimeoutSecs int    `yaml:"timeout_secs" validate:"gte=0"`
}

type PromptConfig struct {
	CandidateName    string `yaml:"candidate_name"`
	SystemPromptFile string `yaml:"system_prompt_file"`
}

// SummarizerConfig selects and configures the rebuild summarizer.
type SummarizerConfig struct {
	Type         string `yaml:"type" validate:"oneof=frequency none"`
	MaxSentences int    `yaml:"max_sentences" validate:"gte=0"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server      ServerConfig      `yaml:"server"`
	Source      SourceConfig      `yaml:"source"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	LLM         LLMConfig         `yaml:"llm"`
	Prompt      PromptConfig      `yaml:"prompt"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Logging     LoggingConfig     `yaml:"logging"`
}

var validate = validator.New()

// Load reads a config from path, fills defaults and applies environment overrides.
// A missing file yields the defaults.
func Load(path string) (*AppConfig, error) {
	cfg := baseConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.NewError(domain.KindConfiguration, fmt.Sprintf("parse %s", path), err)
		}
	}
	applyEnvOverrides(cfg)
	applyConfigDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then the XDG config file resumerag/config.yaml.
// If neither exists, it writes defaults to the XDG location and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); errors.Is(err, os.ErrNotExist) {
		// provider-dependent fields stay empty so editing llm.provider alone is enough
		if err := Save(userPath, baseConfig()); err != nil {
			return nil, "", err
		}
	}
	cfg, err := Load(userPath)
	return cfg, userPath, err
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks field ranges and backend names.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return domain.ConfigurationError("invalid config: %s", strings.Join(msgs, "; "))
		}
		return domain.NewError(domain.KindConfiguration, "invalid config", err)
	}
	return nil
}

// SystemPrompt returns the contents of Prompt.SystemPromptFile, or "" when unset.
func (c *AppConfig) SystemPrompt() (string, error) {
	if c.Prompt.SystemPromptFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.Prompt.SystemPromptFile)
	if err != nil {
		return "", domain.NewError(domain.KindConfiguration, "read system prompt file", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (c *AppConfig) FetchTimeout() time.Duration {
	return time.Duration(c.Source.FetchTimeoutSecs) * time.Second
}

func (c *AppConfig) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSecs) * time.Second
}

func (c *AppConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSecs) * time.Second
}

func (c *AppConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSecs) * time.Second
}

func (c *AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func defaultUserConfigPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("resumerag", "config.yaml"))
}

func defaultConfig() *AppConfig {
	cfg := baseConfig()
	applyConfigDefaults(cfg)
	return cfg
}

// baseConfig holds the defaults that do not depend on the selected backends.
func baseConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                8000,
			RequestTimeoutSecs:  120,
			ShutdownTimeoutSecs: 10,
			ResumeJSONPath:      filepath.Join("assets", "resume.json"),
		},
		Source:      SourceConfig{FetchTimeoutSecs: 30},
		Chunker:     ChunkerConfig{Size: 1000, Overlap: 200},
		Embedder:    EmbedderConfig{Type: "hashing", Dimension: 384},
		VectorStore: VectorStoreConfig{Type: "sqlite", PersistDir: "./vector_db", Collection: "resume"},
		Retrieval:   RetrievalConfig{TopK: 4},
		LLM:         LLMConfig{Provider: "anthropic", MaxTokens: 1024, TimeoutSecs: 60},
		Summarizer:  SummarizerConfig{Type: "frequency", MaxSentences: 3},
		Logging:     LoggingConfig{Level: "info", Format: "json"},
	}
}

// applyConfigDefaults fills fields a partial file may have zeroed.
func applyConfigDefaults(cfg *AppConfig) {
	d := baseConfig()
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = d.Embedder.Type
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = d.VectorStore.Type
	}
	if cfg.VectorStore.Collection == "" {
		cfg.VectorStore.Collection = d.VectorStore.Collection
	}
	if cfg.VectorStore.PersistDir == "" {
		cfg.VectorStore.PersistDir = d.VectorStore.PersistDir
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = d.Summarizer.Type
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = d.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = d.Logging.Format
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = d.LLM.Provider
	}
	dropOtherProviderDefaults(&cfg.LLM)
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = llmKeyEnv(cfg.LLM.Provider)
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = llmModel(cfg.LLM.Provider)
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
	}
	if cfg.VectorStore.Type == "qdrant" {
		if cfg.VectorStore.Qdrant == nil {
			cfg.VectorStore.Qdrant = &QdrantConfig{}
		}
		if cfg.VectorStore.Qdrant.URL == "" {
			cfg.VectorStore.Qdrant.URL = "http://localhost:6333"
		}
		if cfg.VectorStore.Qdrant.TimeoutSecs == 0 {
			cfg.VectorStore.Qdrant.TimeoutSecs = 15
		}
	}
}

// dropOtherProviderDefaults clears a model or key variable that is another
// provider's default, as left behind when only llm.provider was edited.
func dropOtherProviderDefaults(c *LLMConfig) {
	for _, p := range []string{"anthropic", "openai"} {
		if p == c.Provider {
			continue
		}
		if c.Model == llmModel(p) {
			c.Model = ""
		}
		if c.APIKeyEnv == llmKeyEnv(p) {
			c.APIKeyEnv = ""
		}
	}
}

func llmModel(provider string) string {
	if provider == "openai" {
		return "gpt-4o-mini"
	}
	return "claude-haiku-4-5-20251001"
}

func llmKeyEnv(provider string) string {
	if provider == "openai" {
		return "OPENAI_API_KEY"
	}
	return "ANTHROPIC_API_KEY"
}
