package index

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resumerag/internal/domain"
	"resumerag/internal/embedding/hashing"
	"resumerag/internal/vectorstore/memory"
)

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Replace(ctx context.Context, chunks []domain.IndexedChunk) error {
	return m.Called(ctx, chunks).Error(0)
}

func (m *mockStorage) Search(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	args := m.Called(ctx, vector, topK)
	res, _ := args.Get(0).([]domain.SearchResult)
	return res, args.Error(1)
}

func (m *mockStorage) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStorage) Delete(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStorage) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockStorage) Close() error { return nil }

func newMemoryIndex() *VectorIndex {
	return New(hashing.NewEmbedder(256), memory.NewStorage(), zap.NewNop())
}

func TestAddAll_AssignsIDsAndMetadata(t *testing.T) {
	ctx := context.Background()
	store := &mockStorage{}
	var stored []domain.IndexedChunk
	store.On("Replace", ctx, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).([]domain.IndexedChunk)
	}).Return(nil)

	x := New(hashing.NewEmbedder(32), store, zap.NewNop())
	n, err := x.AddAll(ctx, []string{"first", "second"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, stored, 2)
	assert.Equal(t, "chunk_0", stored[0].ID)
	assert.Equal(t, "chunk_1", stored[1].ID)
	assert.Equal(t, map[string]any{"index": 1}, stored[1].Metadata)
	assert.Len(t, stored[0].Vector, 32)
	store.AssertExpectations(t)
}

func TestAddAll_EmptyIsNoop(t *testing.T) {
	store := &mockStorage{}
	x := New(hashing.NewEmbedder(32), store, zap.NewNop())

	n, err := x.AddAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	store.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
}

func TestAddAll_RebuildIsNotAdditive(t *testing.T) {
	ctx := context.Background()
	x := newMemoryIndex()

	_, err := x.AddAll(ctx, []string{"a one", "b two", "c three"})
	require.NoError(t, err)
	n, err := x.AddAll(ctx, []string{"a one", "b two"})
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, 2, x.Count(ctx))
}

func TestSearch_RanksBySimilarity(t *testing.T) {
	ctx := context.Background()
	x := newMemoryIndex()
	_, err := x.AddAll(ctx, []string{
		"Education: MSc Computer Science, University of Edinburgh",
		"Experience: built Kafka streaming pipelines in Go",
		"Interests: climbing, photography",
	})
	require.NoError(t, err)

	got, err := x.Search(ctx, "Kafka pipelines Go experience", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "Kafka")
}

func TestSearch_EmptyStoreAndLimitClamp(t *testing.T) {
	ctx := context.Background()
	x := newMemoryIndex()

	got, err := x.Search(ctx, "anything", 4)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = x.AddAll(ctx, []string{"only chunk"})
	require.NoError(t, err)
	x.Clear(ctx)
	got, err = x.Search(ctx, "anything", 4)
	require.NoError(t, err)
	assert.Empty(t, got)

	store := &mockStorage{}
	store.On("Count", ctx).Return(2, nil)
	store.On("Search", ctx, mock.Anything, 2).Return([]domain.SearchResult{{Chunk: domain.IndexedChunk{Text: "x"}}}, nil)
	clamped := New(hashing.NewEmbedder(8), store, zap.NewNop())
	_, err = clamped.Search(ctx, "q", 10)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestCountAndClear_SwallowStorageFaults(t *testing.T) {
	ctx := context.Background()
	store := &mockStorage{}
	store.On("Count", ctx).Return(0, errors.New("disk gone"))
	store.On("Clear", ctx).Return(errors.New("disk gone"))

	x := New(hashing.NewEmbedder(8), store, zap.NewNop())
	assert.Zero(t, x.Count(ctx))
	assert.False(t, x.IsInitialized(ctx))
	assert.NotPanics(t, func() { x.Clear(ctx) })
}

func TestDelete_EmptiesIndex(t *testing.T) {
	ctx := context.Background()
	x := newMemoryIndex()
	_, err := x.AddAll(ctx, []string{"Go engineer", "Kubernetes operator"})
	require.NoError(t, err)
	require.True(t, x.IsInitialized(ctx))

	require.NoError(t, x.Delete(ctx))
	assert.Equal(t, 0, x.Count(ctx))
	assert.False(t, x.IsInitialized(ctx))
	hits, err := x.Search(ctx, "Go", 4)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestDelete_PropagatesStorageFault(t *testing.T) {
	ctx := context.Background()
	store := &mockStorage{}
	store.On("Delete", ctx).Return(domain.NewError(domain.KindIndex, "remove resume.db", errors.New("permission denied")))

	err := New(hashing.NewEmbedder(8), store, zap.NewNop()).Delete(ctx)
	assert.Equal(t, domain.KindIndex, domain.KindOf(err))
	store.AssertExpectations(t)
}
