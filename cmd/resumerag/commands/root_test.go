package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "resumerag", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Contains(t, cmd.Long, "RESUME_URL")

	for _, name := range []string{"config", "verbose", "quiet"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "--%s flag", name)
	}

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "rebuild", "reset", "ask", "chat", "mcp", "version"}, names)
}

func TestSubcommandsDescribed(t *testing.T) {
	for _, cmd := range []*cobra.Command{NewServeCmd(), NewRebuildCmd(), NewResetCmd(), NewAskCmd(), NewChatCmd(), NewMCPCmd()} {
		t.Run(cmd.Name(), func(t *testing.T) {
			assert.NotEmpty(t, cmd.Short)
			assert.NotEmpty(t, cmd.Long)
			assert.NotNil(t, cmd.RunE)
		})
	}
}

func TestAskCmd_Flags(t *testing.T) {
	cmd := NewAskCmd()
	flag := cmd.Flags().Lookup("persona")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "default", flag.DefValue)
	assert.Error(t, cmd.Args(cmd, nil))
}

func TestMCPCmd_Description(t *testing.T) {
	cmd := NewMCPCmd()
	assert.Contains(t, cmd.Long, "stdio")
	assert.Contains(t, cmd.Long, "ask_resume")
	assert.Contains(t, cmd.Long, "rebuild_index")
	assert.NotEmpty(t, cmd.Example)
}

func TestVersionCmd(t *testing.T) {
	SetVersion("1.2.3", "abc123", "2026-01-01")
	t.Cleanup(func() { SetVersion("dev", "none", "unknown") })

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "resumerag 1.2.3")
	assert.Contains(t, out.String(), "abc123")
}

func TestAsk_WithoutSourceFails(t *testing.T) {
	for _, k := range []string{"RESUME_URL", "LLM_PROVIDER", "LLM_MODEL", "ANTHROPIC_API_KEY", "CHUNK_SIZE", "CHUNK_OVERLAP"} {
		t.Setenv(k, "")
	}
	t.Setenv("VECTOR_PERSIST_DIR", t.TempDir())

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--quiet", "--config", filepath.Join(t.TempDir(), "config.yaml"), "ask", "What", "languages?"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESUME_URL not configured")
}

func TestReset_DeletesStoreFile(t *testing.T) {
	for _, k := range []string{"RESUME_URL", "LLM_PROVIDER", "LLM_MODEL", "ANTHROPIC_API_KEY", "CHUNK_SIZE", "CHUNK_OVERLAP"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Setenv("VECTOR_PERSIST_DIR", dir)
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")

	root := NewRootCmd()
	root.SetArgs([]string{"--quiet", "--config", cfgFile, "reset"})
	assert.ErrorContains(t, root.Execute(), "--yes")

	root = NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--quiet", "--config", cfgFile, "reset", "--yes"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), `Deleted sqlite vector store "resume"`)
	assert.NoFileExists(t, filepath.Join(dir, "resume.db"))
}
