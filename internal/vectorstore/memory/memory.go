package memory

import (
	"context"
	"sync"

	"resumerag/internal/domain"
	"resumerag/internal/vectorstore"
)

// Storage is an in-memory vector store using brute-force cosine similarity.
type Storage struct {
	mu     sync.RWMutex
	chunks []domain.IndexedChunk
}

func NewStorage() *Storage { return &Storage{} }

// Replace swaps the stored set under the write lock.
func (s *Storage) Replace(_ context.Context, chunks []domain.IndexedChunk) error {
	next := make([]domain.IndexedChunk, len(chunks))
	copy(next, chunks)

	s.mu.Lock()
	s.chunks = next
	s.mu.Unlock()
	return nil
}

func (s *Storage) Search(_ context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	chunks := s.chunks
	s.mu.RUnlock()
	// chunks is never mutated in place, only swapped, so ranking can run unlocked
	return vectorstore.RankTopK(chunks, vector, topK), nil
}

func (s *Storage) Clear(_ context.Context) error {
	s.mu.Lock()
	s.chunks = nil
	s.mu.Unlock()
	return nil
}

// Delete drops the stored set. Nothing is persisted, so it is the same as Clear.
func (s *Storage) Delete(ctx context.Context) error {
	return s.Clear(ctx)
}

func (s *Storage) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

func (s *Storage) Close() error { return nil }
