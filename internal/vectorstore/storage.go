package vectorstore

import (
	"context"
	"math"
	"sort"

	"resumerag/internal/domain"
)

// Storage persists indexed chunks and supports similarity search.
// Replace swaps the whole stored set; readers never observe a partial write.
// Clear empties the collection; Delete also removes what backs it (files,
// physical collections). Both leave the store usable for a later Replace.
type Storage interface {
	Replace(ctx context.Context, chunks []domain.IndexedChunk) error
	Search(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error)
	Clear(ctx context.Context) error
	Delete(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	Close() error
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0 when either is a zero vector.
func CosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// RankTopK scores every chunk against vector and keeps the best topK, highest first.
// Ties keep chunk order.
func RankTopK(chunks []domain.IndexedChunk, vector []float64, topK int) []domain.SearchResult {
	results := make([]domain.SearchResult, len(chunks))
	for i, c := range chunks {
		results[i] = domain.SearchResult{Chunk: c, Score: CosineSimilarity(c.Vector, vector)}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK > 0 && topK < len(results) {
		results = results[:topK]
	}
	return results
}
