package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resumerag/internal/config"
	"resumerag/internal/domain"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	for _, k := range []string{"RESUME_URL", "VECTOR_PERSIST_DIR", "CHUNK_SIZE", "CHUNK_OVERLAP", "LLM_PROVIDER", "LLM_MODEL", "ANTHROPIC_API_KEY", "OPENAI_API_KEY"} {
		t.Setenv(k, "")
	}
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.VectorStore.PersistDir = t.TempDir()
	return cfg
}

func TestBuild_SQLiteWithoutCredentials(t *testing.T) {
	cfg := testConfig(t)

	a, err := Build(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.False(t, a.Orchestrator.Ready(context.Background()))
	assert.FileExists(t, filepath.Join(cfg.VectorStore.PersistDir, "resume.db"))

	// No source configured: the automatic rebuild reports it.
	_, err = a.Orchestrator.Answer(context.Background(), "What does the candidate do?", "default")
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
}

func TestBuild_MemoryStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.VectorStore.Type = "memory"
	cfg.Summarizer.Type = "none"

	a, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Index.Count(context.Background()))
	assert.NoError(t, a.Close())
}

func TestBuild_RejectsBadSettings(t *testing.T) {
	cfg := testConfig(t)
	cfg.Chunker.Overlap = cfg.Chunker.Size
	_, err := Build(context.Background(), cfg, nil)
	assert.True(t, domain.IsConfigurationError(err))

	cfg = testConfig(t)
	cfg.VectorStore.Type = "chroma"
	_, err = Build(context.Background(), cfg, nil)
	assert.True(t, domain.IsConfigurationError(err))

	cfg = testConfig(t)
	cfg.LLM.Provider = "cohere"
	_, err = Build(context.Background(), cfg, nil)
	assert.True(t, domain.IsConfigurationError(err))

	cfg = testConfig(t)
	cfg.Prompt.SystemPromptFile = filepath.Join(t.TempDir(), "nope.txt")
	_, err = Build(context.Background(), cfg, nil)
	assert.True(t, domain.IsConfigurationError(err))
}

func TestBuild_OpenAIEmbedderWithoutKeyFailsOnUse(t *testing.T) {
	cfg := testConfig(t)
	cfg.VectorStore.Type = "memory"
	cfg.Embedder.Type = "openai"
	cfg.Embedder.OpenAI = &config.OpenAIEmbedderConfig{APIKeyEnv: "OPENAI_API_KEY"}

	a, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	_, err = a.Index.AddAll(context.Background(), []string{"Experience: Go services."})
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "OPENAI_API_KEY not configured")
}
