package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumerag/internal/domain"
)

var overrideVars = []string{
	"RESUME_URL", "VECTOR_PERSIST_DIR", "CHUNK_SIZE", "CHUNK_OVERLAP", "LLM_PROVIDER", "LLM_MODEL",
	"HOST", "PORT", "LOG_LEVEL", "LOG_FORMAT", "RESUME_JSON_PATH",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range overrideVars {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Chunker.Size)
	assert.Equal(t, 200, cfg.Chunker.Overlap)
	assert.Equal(t, 4, cfg.Retrieval.TopK)
	assert.Equal(t, "resume", cfg.VectorStore.Collection)
	assert.Equal(t, "sqlite", cfg.VectorStore.Type)
	assert.Equal(t, "./vector_db", cfg.VectorStore.PersistDir)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.LLM.Model)
	assert.Equal(t, "ANTHROPIC_API_KEY", cfg.LLM.APIKeyEnv)
	assert.Equal(t, 1024, cfg.LLM.MaxTokens)
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Empty(t, cfg.Source.URL)
}

func TestLoad_FileThenEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
source:
  url: https://files.example.com/old.pdf
chunker:
  size: 500
  overlap: 50
llm:
  provider: openai
vector_store:
  type: memory
`)
	t.Setenv("RESUME_URL", "https://files.example.com/new.pdf")
	t.Setenv("CHUNK_OVERLAP", "100")
	t.Setenv("PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/new.pdf", cfg.Source.URL)
	assert.Equal(t, 500, cfg.Chunker.Size)
	assert.Equal(t, 100, cfg.Chunker.Overlap)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.VectorStore.Type)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.LLM.APIKeyEnv)
}

func TestLoad_ProviderOverrideResetsModel(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "openai")

	cfg, err := Load(writeConfig(t, "llm:\n  model: claude-custom\n"))
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)

	t.Setenv("LLM_MODEL", "gpt-4.1")
	cfg, err = Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1", cfg.LLM.Model)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"overlap not below size", "chunker:\n  size: 100\n  overlap: 100\n"},
		{"zero top k", "retrieval:\n  top_k: -1\n"},
		{"unknown store", "vector_store:\n  type: chroma\n"},
		{"unknown provider", "llm:\n  provider: palm\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, tc.body))
			require.Error(t, err)
			assert.True(t, domain.IsConfigurationError(err))
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "chunker: [unclosed"))
	assert.True(t, domain.IsConfigurationError(err))
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, Save(path, defaultConfig()))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestSystemPrompt(t *testing.T) {
	cfg := defaultConfig()
	prompt, err := cfg.SystemPrompt()
	require.NoError(t, err)
	assert.Empty(t, prompt)

	cfg.Prompt.SystemPromptFile = writeConfig(t, "  You represent Jane.\n")
	prompt, err = cfg.SystemPrompt()
	require.NoError(t, err)
	assert.Equal(t, "You represent Jane.", prompt)

	cfg.Prompt.SystemPromptFile = filepath.Join(t.TempDir(), "missing.txt")
	_, err = cfg.SystemPrompt()
	assert.True(t, domain.IsConfigurationError(err))
}

func TestLoad_ProviderEditedInFileDropsOtherDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
llm:
  provider: openai
  model: claude-haiku-4-5-20251001
  api_key_env: ANTHROPIC_API_KEY
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.LLM.APIKeyEnv)

	cfg, err = Load(writeConfig(t, "llm:\n  provider: openai\n  model: gpt-4.1\n  api_key_env: MY_KEY\n"))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1", cfg.LLM.Model)
	assert.Equal(t, "MY_KEY", cfg.LLM.APIKeyEnv)
}

func TestLoadDefault_FirstRunFileFollowsProvider(t *testing.T) {
	clearEnv(t)
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()

	cfg, path, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.LLM.Model)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "claude-haiku")
	assert.NotContains(t, string(data), "ANTHROPIC_API_KEY")

	edited := strings.Replace(string(data), "provider: anthropic", "provider: openai", 1)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o644))

	cfg, _, err = LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.LLM.APIKeyEnv)
}
