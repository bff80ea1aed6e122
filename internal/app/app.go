package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"resumerag/internal/chunker"
	"resumerag/internal/config"
	"resumerag/internal/domain"
	"resumerag/internal/embedding"
	"resumerag/internal/index"
	"resumerag/internal/ingest"
	"resumerag/internal/llm"
	"resumerag/internal/service"
	"resumerag/internal/summarizer"
	"resumerag/internal/vectorstore"
	"resumerag/internal/vectorstore/memory"
	"resumerag/internal/vectorstore/qdrant"
	"resumerag/internal/vectorstore/sqlite"
)

// App holds the wired retrieval pipeline.
type App struct {
	Config       *config.AppConfig
	Logger       *zap.Logger
	Ingestor     *ingest.Ingestor
	Index        *index.VectorIndex
	Orchestrator *service.Orchestrator
}

// Build assembles every component from cfg. A missing LLM credential is not an
// error here; it surfaces on the first question instead.
func Build(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ch, err := chunker.NewWindowChunker(cfg.Chunker.Size, cfg.Chunker.Overlap)
	if err != nil {
		return nil, err
	}
	ingestor := ingest.NewIngestor(ingest.Options{
		SourceURL:    cfg.Source.URL,
		FetchTimeout: cfg.FetchTimeout(),
		ScratchDir:   cfg.Source.ScratchDir,
	}, ingest.NewPDFExtractor(), ch, logger.Named("ingest"))

	emb, err := newEmbedder(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}
	if u, ok := emb.(embedding.Unconfigured); ok {
		logger.Warn("embedder not configured, indexing will fail until the credential is set", zap.Error(u.Err))
	}

	storage, err := newStorage(cfg, logger.Named("vectorstore"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vector store: %w", err)
	}
	idx := index.New(emb, storage, logger.Named("index"))

	gen, err := llm.New(llm.Config{
		Provider:  cfg.LLM.Provider,
		Model:     cfg.LLM.Model,
		BaseURL:   cfg.LLM.BaseURL,
		APIKeyEnv: cfg.LLM.APIKeyEnv,
		MaxTokens: cfg.LLM.MaxTokens,
		Timeout:   cfg.LLMTimeout(),
	})
	if err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("failed to initialize generator: %w", err)
	}
	if u, ok := gen.(llm.Unconfigured); ok {
		logger.Warn("generator not configured, questions will fail until the credential is set", zap.Error(u.Err))
	}

	prompt, err := cfg.SystemPrompt()
	if err != nil {
		_ = idx.Close()
		return nil, err
	}
	if prompt == "" {
		prompt = service.DefaultSystemPrompt(cfg.Prompt.CandidateName)
	}

	var sum domain.Summarizer
	if cfg.Summarizer.Type == "frequency" {
		sum = summarizer.NewFrequencySummarizer()
	}

	orch := service.NewOrchestrator(ingestor, idx, gen, sum, service.Options{
		TopK:                cfg.Retrieval.TopK,
		SystemPrompt:        prompt,
		SummaryMaxSentences: cfg.Summarizer.MaxSentences,
	}, logger.Named("service"))

	logger.Info("pipeline initialized",
		zap.String("embedder", emb.Name()),
		zap.Int("dimension", emb.Dimension()),
		zap.String("vector_store", cfg.VectorStore.Type),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.Bool("indexed", idx.IsInitialized(ctx)))

	return &App{
		Config:       cfg,
		Logger:       logger,
		Ingestor:     ingestor,
		Index:        idx,
		Orchestrator: orch,
	}, nil
}

// Close releases the vector store.
func (a *App) Close() error {
	return a.Index.Close()
}

func newEmbedder(cfg *config.AppConfig) (domain.Embedder, error) {
	ec := embedding.Config{Backend: cfg.Embedder.Type}
	switch cfg.Embedder.Type {
	case "openai":
		if o := cfg.Embedder.OpenAI; o != nil {
			ec.BaseURL, ec.Model, ec.APIKeyEnv = o.BaseURL, o.Model, o.APIKeyEnv
		}
	default:
		ec.Dimension = cfg.Embedder.Dimension
	}
	return embedding.New(ec)
}

func newStorage(cfg *config.AppConfig, logger *zap.Logger) (vectorstore.Storage, error) {
	vs := cfg.VectorStore
	switch vs.Type {
	case "memory":
		return memory.NewStorage(), nil
	case "qdrant":
		qc := qdrant.Config{URL: "http://localhost:6333", Collection: vs.Collection}
		if q := vs.Qdrant; q != nil {
			qc.URL = q.URL
			qc.Timeout = time.Duration(q.TimeoutSecs) * time.Second
			if q.APIKeyEnv != "" {
				qc.APIKey = os.Getenv(q.APIKeyEnv)
			}
		}
		return qdrant.NewStorage(qc, logger), nil
	case "sqlite", "":
		st, err := sqlite.Open(vs.PersistDir, vs.Collection)
		if err != nil {
			return nil, err
		}
		logger.Info("sqlite vector store opened", zap.String("path", st.Path()))
		return st, nil
	default:
		return nil, domain.ConfigurationError("unknown vector store %q", vs.Type)
	}
}
