package index

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"resumerag/internal/domain"
	"resumerag/internal/vectorstore"
)

// VectorIndex embeds chunks and keeps them in a Storage.
type VectorIndex struct {
	embedder domain.Embedder
	storage  vectorstore.Storage
	logger   *zap.Logger
}

func New(embedder domain.Embedder, storage vectorstore.Storage, logger *zap.Logger) *VectorIndex {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VectorIndex{embedder: embedder, storage: storage, logger: logger}
}

// AddAll replaces the stored set with chunks and returns how many were written.
// Chunk i is stored as chunk_<i> with metadata {index: i}. Empty input is a no-op.
func (x *VectorIndex) AddAll(ctx context.Context, chunks []string) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}
	vectors, err := x.embedder.Embed(ctx, chunks)
	if err != nil {
		return 0, domain.NewError(domain.KindIndex, "embed chunks", err)
	}
	if len(vectors) != len(chunks) {
		return 0, domain.NewError(domain.KindIndex, fmt.Sprintf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks)), nil)
	}

	indexed := make([]domain.IndexedChunk, len(chunks))
	for i, text := range chunks {
		indexed[i] = domain.IndexedChunk{
			ID:       fmt.Sprintf("chunk_%d", i),
			Index:    i,
			Text:     text,
			Metadata: map[string]any{"index": i},
			Vector:   vectors[i],
		}
	}
	if err := x.storage.Replace(ctx, indexed); err != nil {
		return 0, err
	}
	x.logger.Info("index replaced", zap.Int("chunks", len(indexed)), zap.String("embedder", x.embedder.Name()))
	return len(indexed), nil
}

// Search returns up to limit chunk texts, most similar first.
// An empty store yields an empty result rather than an error.
func (x *VectorIndex) Search(ctx context.Context, query string, limit int) ([]string, error) {
	n := x.Count(ctx)
	if n == 0 {
		return nil, nil
	}
	if limit <= 0 || limit > n {
		limit = n
	}
	vectors, err := x.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, domain.NewError(domain.KindIndex, "embed query", err)
	}
	if len(vectors) != 1 {
		return nil, domain.NewError(domain.KindIndex, "embedder returned no query vector", nil)
	}

	results, err := x.storage.Search(ctx, vectors[0], limit)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.Chunk.Text)
	}
	return texts, nil
}

// Clear drops every stored chunk. Failures are logged, not returned.
func (x *VectorIndex) Clear(ctx context.Context) {
	if err := x.storage.Clear(ctx); err != nil {
		x.logger.Warn("clear index", zap.Error(err))
	}
}

// Delete removes the persisted collection entirely. Unlike Clear, failures are
// returned: a caller asking for deletion needs to know whether data remains.
func (x *VectorIndex) Delete(ctx context.Context) error {
	if err := x.storage.Delete(ctx); err != nil {
		return err
	}
	x.logger.Info("index deleted")
	return nil
}

// Count reports the stored chunk count, treating any storage fault as empty.
func (x *VectorIndex) Count(ctx context.Context) int {
	n, err := x.storage.Count(ctx)
	if err != nil {
		x.logger.Warn("count index", zap.Error(err))
		return 0
	}
	return n
}

func (x *VectorIndex) IsInitialized(ctx context.Context) bool {
	return x.Count(ctx) > 0
}

func (x *VectorIndex) Close() error {
	return x.storage.Close()
}
