package domain

import "context"

// Document is the text extracted from the configured source together with its chunks.
// It lives only for the duration of a rebuild.
type Document struct {
	Source string
	Text   string
	Chunks []string
}

// IndexedChunk is a chunk as persisted in the vector store.
type IndexedChunk struct {
	ID       string
	Index    int
	Text     string
	Metadata map[string]any
	Vector   []float64
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk IndexedChunk
	Score float64
}

// Answer is the outcome of a question answered against the indexed document.
type Answer struct {
	Text         string `json:"answer"`
	Persona      string `json:"persona"`
	SourcesCount int    `json:"sources_count"`
}

// RebuildResult reports a completed index rebuild.
type RebuildResult struct {
	Status           string `json:"status"`
	DocumentsIndexed int    `json:"documents_indexed"`
	Summary          string `json:"summary,omitempty"`
}

// Chunker splits extracted text into overlapping segments.
type Chunker interface {
	Chunk(text string) []string
}

// Embedder converts free text into numeric vectors.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Generator produces text from a system instruction and a single user message.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
