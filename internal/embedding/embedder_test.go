package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumerag/internal/domain"
)

func TestNew(t *testing.T) {
	e, err := New(Config{Dimension: 64})
	require.NoError(t, err)
	assert.Equal(t, "hashing", e.Name())
	assert.Equal(t, 64, e.Dimension())

	_, err = New(Config{Backend: "word2vec"})
	assert.True(t, domain.IsConfigurationError(err))

	t.Setenv("RESUMERAG_TEST_NO_KEY", "")
	e, err = New(Config{Backend: "openai", APIKeyEnv: "RESUMERAG_TEST_NO_KEY"})
	require.NoError(t, err)
	assert.Equal(t, "openai", e.Name())
	assert.Equal(t, 1536, e.Dimension())

	vectors, err := e.Embed(context.Background(), []string{"Go engineer"})
	assert.Nil(t, vectors)
	assert.True(t, domain.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "RESUMERAG_TEST_NO_KEY not configured")
}
