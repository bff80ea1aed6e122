package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumerag/internal/domain"
)

func TestNewWindowChunker_RejectsBadSettings(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{"zero size", 0, 0},
		{"negative overlap", 100, -1},
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 150},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewWindowChunker(tc.size, tc.overlap)
			assert.Nil(t, c)
			assert.True(t, domain.IsConfigurationError(err))
		})
	}
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	chunks := Split("  Senior engineer. Ships things.  ", 1000, 200)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Senior engineer. Ships things.", chunks[0])
}

func TestSplit_EmptyAndWhitespace(t *testing.T) {
	assert.Empty(t, Split("", 1000, 200))
	assert.Empty(t, Split(" \n\t ", 1000, 200))
}

func TestSplit_OverlapWithoutSentenceCuts(t *testing.T) {
	text := strings.Repeat("abcdefghij", 50) // 500 chars, no periods
	chunks := Split(text, 100, 20)

	require.Greater(t, len(chunks), 1)
	for i := 0; i < len(chunks)-1; i++ {
		assert.LessOrEqual(t, len(chunks[i]), 100)
		tail := chunks[i][len(chunks[i])-20:]
		head := chunks[i+1][:20]
		assert.Equal(t, tail, head, "chunk %d and %d should share the overlap", i, i+1)
	}
}

func TestSplit_CoversEveryCharacter(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 120; i++ {
		fmt.Fprintf(&b, "token%d ", i)
		if i%17 == 0 {
			b.WriteString("Stop. ")
		}
	}
	text := b.String()
	chunks := Split(text, 120, 30)

	rebuilt := chunks[0]
	for _, c := range chunks[1:] {
		// each chunk starts inside the text already covered
		idx := strings.Index(text, c)
		require.GreaterOrEqual(t, idx, 0)
		require.LessOrEqual(t, idx, len(rebuilt))
		if idx+len(c) > len(rebuilt) {
			rebuilt = text[:idx+len(c)]
		}
	}
	assert.Equal(t, strings.TrimSpace(text), strings.TrimSpace(rebuilt))
}

func TestSplit_PrefersSentenceBoundaryPastMidpoint(t *testing.T) {
	text := strings.Repeat("a", 700) + "." + strings.Repeat("b", 600)
	chunks := Split(text, 1000, 200)

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Len(t, chunks[0], 701)
	assert.True(t, strings.HasSuffix(chunks[0], "."))
	// next window restarts overlap characters before the cut
	assert.Equal(t, text[501:], chunks[1])
}

func TestSplit_IgnoresBoundaryBeforeMidpoint(t *testing.T) {
	text := "A. B. " + strings.Repeat("x", 1200)
	chunks := Split(text, 1000, 200)

	require.Len(t, chunks, 2)
	assert.Equal(t, text[:1000], chunks[0])
	assert.Equal(t, text[800:], chunks[1])
}

func TestSplit_TerminatesWhenCutRewindsCursor(t *testing.T) {
	text := strings.Repeat("x", 60) + "." + strings.Repeat("y", 200)
	chunks := Split(text, 100, 90)

	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(c))
	}
}

func TestWindowChunker_Chunk(t *testing.T) {
	c, err := NewWindowChunker(50, 10)
	require.NoError(t, err)

	chunks := c.Chunk(strings.Repeat("z", 120))
	assert.Equal(t, Split(strings.Repeat("z", 120), 50, 10), chunks)
}
