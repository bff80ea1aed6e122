package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumerag/internal/domain"
)

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float64{1, 2}, []float64{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float64{1, 0}, []float64{-3, 0}), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity([]float64{0, 0}, []float64{1, 1}))
}

func TestRankTopK(t *testing.T) {
	chunks := []domain.IndexedChunk{
		{ID: "chunk_0", Vector: []float64{0, 1}},
		{ID: "chunk_1", Vector: []float64{1, 0}},
		{ID: "chunk_2", Vector: []float64{1, 1}},
	}

	got := RankTopK(chunks, []float64{1, 0}, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "chunk_1", got[0].Chunk.ID)
	assert.Equal(t, "chunk_2", got[1].Chunk.ID)

	assert.Len(t, RankTopK(chunks, []float64{1, 0}, 10), 3)
	assert.Empty(t, RankTopK(nil, []float64{1, 0}, 4))
}
