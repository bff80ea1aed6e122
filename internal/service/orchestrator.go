package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"resumerag/internal/domain"
)

const (
	DefaultTopK           = 4
	DefaultRebuildTimeout = 5 * time.Minute

	// NoResumeAnswer is returned when retrieval finds nothing, even after a rebuild.
	NoResumeAnswer = "I couldn't find any resume information. Please check your RESUME_URL configuration."
)

// DocumentLoader produces the chunked source document.
type DocumentLoader interface {
	LoadDocument(ctx context.Context) (*domain.Document, error)
}

// Index is the slice of the vector index the orchestrator needs.
type Index interface {
	AddAll(ctx context.Context, chunks []string) (int, error)
	Search(ctx context.Context, query string, limit int) ([]string, error)
	IsInitialized(ctx context.Context) bool
}

type Options struct {
	TopK                int
	SystemPrompt        string
	SummaryMaxSentences int
	RebuildTimeout      time.Duration
}

// Orchestrator ties ingestion, retrieval and generation together.
// It holds no state of its own besides the rebuild coalescing group.
type Orchestrator struct {
	loader     DocumentLoader
	index      Index
	generator  domain.Generator
	summarizer domain.Summarizer
	opts       Options
	logger     *zap.Logger
	rebuilds   singleflight.Group
}

// NewOrchestrator wires the pipeline. summarizer may be nil to skip rebuild summaries.
func NewOrchestrator(loader DocumentLoader, index Index, generator domain.Generator, summarizer domain.Summarizer, opts Options, logger *zap.Logger) *Orchestrator {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.RebuildTimeout <= 0 {
		opts.RebuildTimeout = DefaultRebuildTimeout
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = DefaultSystemPrompt("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		loader:     loader,
		index:      index,
		generator:  generator,
		summarizer: summarizer,
		opts:       opts,
		logger:     logger,
	}
}

// Answer responds to question in the voice selected by persona.
func (o *Orchestrator) Answer(ctx context.Context, question, persona string) (*domain.Answer, error) {
	if persona == "" {
		persona = DefaultPersona
	}

	if !o.index.IsInitialized(ctx) {
		o.logger.Warn("vector index empty, rebuilding before query")
		if _, err := o.RebuildIndex(ctx); err != nil {
			return nil, err
		}
	}

	chunks, err := o.index.Search(ctx, question, o.opts.TopK)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return &domain.Answer{Text: NoResumeAnswer, Persona: persona, SourcesCount: 0}, nil
	}

	system := o.SystemInstruction(persona)
	user := buildUserMessage(strings.Join(chunks, contextSeparator), question)

	text, err := o.generator.Generate(ctx, system, user)
	if err != nil {
		if domain.KindOf(err) != "" {
			return nil, err
		}
		return nil, domain.NewError(domain.KindGeneration, "generate answer", err)
	}
	return &domain.Answer{Text: text, Persona: persona, SourcesCount: len(chunks)}, nil
}

// SystemInstruction returns the system prompt with the persona suffix appended.
func (o *Orchestrator) SystemInstruction(persona string) string {
	return o.opts.SystemPrompt + personaModifier(persona)
}

// RebuildIndex re-ingests the source unconditionally. Concurrent callers share
// one run, which is detached from any single caller's cancellation and bounded
// by RebuildTimeout instead. A caller whose ctx ends stops waiting; the run continues.
func (o *Orchestrator) RebuildIndex(ctx context.Context) (*domain.RebuildResult, error) {
	ch := o.rebuilds.DoChan("rebuild", func() (any, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.opts.RebuildTimeout)
		defer cancel()
		return o.rebuild(runCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			o.logger.Debug("rebuild result shared with concurrent caller")
		}
		result := *res.Val.(*domain.RebuildResult)
		return &result, nil
	}
}

func (o *Orchestrator) rebuild(ctx context.Context) (*domain.RebuildResult, error) {
	doc, err := o.loader.LoadDocument(ctx)
	if err != nil {
		return nil, err
	}
	count, err := o.index.AddAll(ctx, doc.Chunks)
	if err != nil {
		return nil, err
	}
	result := &domain.RebuildResult{Status: "success", DocumentsIndexed: count}

	if o.summarizer != nil && doc.Text != "" {
		summary, err := o.summarizer.Summarize(doc.Text, o.opts.SummaryMaxSentences)
		if err != nil {
			o.logger.Warn("summarize document", zap.Error(err))
		} else {
			result.Summary = summary
		}
	}
	o.logger.Info("index rebuilt", zap.String("source", doc.Source), zap.Int("documents_indexed", count))
	return result, nil
}

// Ready reports whether the index holds any chunks.
func (o *Orchestrator) Ready(ctx context.Context) bool {
	return o.index.IsInitialized(ctx)
}
