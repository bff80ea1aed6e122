package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumerag/internal/domain"
)

const DefaultFetchTimeout = 30 * time.Second

// Options configures an Ingestor.
type Options struct {
	SourceURL    string
	FetchTimeout time.Duration
	// ScratchDir receives a copy of the last downloaded document. Empty disables it.
	ScratchDir string
}

// Ingestor fetches the source document, extracts its text and chunks it.
type Ingestor struct {
	opts      Options
	client    *http.Client
	extractor TextExtractor
	chunker   domain.Chunker
	logger    *zap.Logger
}

func NewIngestor(opts Options, extractor TextExtractor, chunker domain.Chunker, logger *zap.Logger) *Ingestor {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if extractor == nil {
		extractor = NewPDFExtractor()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingestor{
		opts:      opts,
		client:    &http.Client{Timeout: opts.FetchTimeout},
		extractor: extractor,
		chunker:   chunker,
		logger:    logger,
	}
}

// Fetch downloads the document at url.
func (i *Ingestor) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, domain.ConfigurationError("RESUME_URL not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.NewError(domain.KindFetch, "build request", err)
	}

	i.logger.Info("downloading document", zap.String("url", url))
	resp, err := i.client.Do(req)
	if err != nil {
		return nil, domain.NewError(domain.KindFetch, "download document", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.NewError(domain.KindFetch, fmt.Sprintf("download document: status %d", resp.StatusCode), nil)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewError(domain.KindFetch, "read response body", err)
	}
	i.logger.Info("document downloaded", zap.Int("bytes", len(data)))
	i.keepScratchCopy(data)
	return data, nil
}

// ExtractText delegates to the configured extractor.
func (i *Ingestor) ExtractText(data []byte) (string, error) {
	return i.extractor.ExtractText(data)
}

// LoadDocument runs fetch, extract and chunk for the configured source.
func (i *Ingestor) LoadDocument(ctx context.Context) (*domain.Document, error) {
	data, err := i.Fetch(ctx, i.opts.SourceURL)
	if err != nil {
		return nil, err
	}
	text, err := i.ExtractText(data)
	if err != nil {
		return nil, err
	}
	chunks := i.chunker.Chunk(text)
	i.logger.Info("document chunked", zap.Int("characters", len(text)), zap.Int("chunks", len(chunks)))
	return &domain.Document{Source: i.opts.SourceURL, Text: text, Chunks: chunks}, nil
}

// LoadAndChunk returns only the chunks of the configured source.
func (i *Ingestor) LoadAndChunk(ctx context.Context) ([]string, error) {
	doc, err := i.LoadDocument(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Chunks, nil
}

func (i *Ingestor) keepScratchCopy(data []byte) {
	if i.opts.ScratchDir == "" {
		return
	}
	if err := os.MkdirAll(i.opts.ScratchDir, 0o755); err != nil {
		i.logger.Warn("scratch dir unavailable", zap.Error(err))
		return
	}
	path := filepath.Join(i.opts.ScratchDir, "resume.pdf")
	tmp := filepath.Join(i.opts.ScratchDir, ".resume-"+uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		i.logger.Warn("write scratch copy", zap.Error(err))
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		i.logger.Warn("replace scratch copy", zap.Error(err))
		return
	}
	i.logger.Debug("scratch copy written", zap.String("path", path))
}
