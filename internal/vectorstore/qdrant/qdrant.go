package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumerag/internal/domain"
)

// Storage is a minimal REST client to Qdrant.
// Collection is an alias; every Replace builds a fresh physical collection,
// repoints the alias at it in one action and drops the previous one.
type Storage struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
	logger     *zap.Logger
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

var errNotFound = errors.New("qdrant: not found")

func NewStorage(cfg Config, logger *zap.Logger) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Storage{
		url:        strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (s *Storage) Replace(ctx context.Context, chunks []domain.IndexedChunk) error {
	if len(chunks) == 0 {
		return s.Clear(ctx)
	}
	previous, err := s.aliasTarget(ctx)
	if err != nil {
		return domain.NewError(domain.KindIndex, "resolve collection alias", err)
	}

	shadow := fmt.Sprintf("%s_%s", s.collection, strings.ReplaceAll(uuid.NewString(), "-", ""))
	body := map[string]any{
		"vectors": map[string]any{
			"size":     len(chunks[0].Vector),
			"distance": "Cosine",
		},
	}
	if err := s.do(ctx, http.MethodPut, "/collections/"+shadow, body, nil); err != nil {
		return domain.NewError(domain.KindIndex, "create shadow collection", err)
	}

	points := make([]map[string]any, len(chunks))
	for i, c := range chunks {
		points[i] = map[string]any{
			"id":     i,
			"vector": c.Vector,
			"payload": map[string]any{
				"chunk_id": c.ID,
				"index":    c.Index,
				"text":     c.Text,
				"metadata": c.Metadata,
			},
		}
	}
	if err := s.do(ctx, http.MethodPut, "/collections/"+shadow+"/points?wait=true", map[string]any{"points": points}, nil); err != nil {
		s.dropCollection(ctx, shadow)
		return domain.NewError(domain.KindIndex, "upsert points", err)
	}

	var actions []map[string]any
	if previous != "" {
		actions = append(actions, map[string]any{"delete_alias": map[string]any{"alias_name": s.collection}})
	}
	actions = append(actions, map[string]any{"create_alias": map[string]any{"collection_name": shadow, "alias_name": s.collection}})
	if err := s.do(ctx, http.MethodPost, "/collections/aliases", map[string]any{"actions": actions}, nil); err != nil {
		s.dropCollection(ctx, shadow)
		return domain.NewError(domain.KindIndex, "swap collection alias", err)
	}

	if previous != "" {
		s.dropCollection(ctx, previous)
	}
	s.logger.Info("qdrant collection swapped", zap.String("alias", s.collection), zap.String("collection", shadow), zap.Int("points", len(chunks)))
	return nil
}

func (s *Storage) Search(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = 4
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64 `json:"score"`
			Payload struct {
				ChunkID  string         `json:"chunk_id"`
				Index    int            `json:"index"`
				Text     string         `json:"text"`
				Metadata map[string]any `json:"metadata"`
			} `json:"payload"`
		} `json:"result"`
	}
	err := s.do(ctx, http.MethodPost, "/collections/"+s.collection+"/points/search", req, &resp)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewError(domain.KindIndex, "search points", err)
	}

	results := make([]domain.SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		results = append(results, domain.SearchResult{
			Chunk: domain.IndexedChunk{
				ID:       r.Payload.ChunkID,
				Index:    r.Payload.Index,
				Text:     r.Payload.Text,
				Metadata: r.Payload.Metadata,
			},
			Score: r.Score,
		})
	}
	return results, nil
}

// Clear removes the alias and the collection behind it. A missing collection is not an error.
func (s *Storage) Clear(ctx context.Context) error {
	target, err := s.aliasTarget(ctx)
	if err != nil {
		return domain.NewError(domain.KindIndex, "resolve collection alias", err)
	}
	if target == "" {
		return nil
	}
	actions := []map[string]any{{"delete_alias": map[string]any{"alias_name": s.collection}}}
	if err := s.do(ctx, http.MethodPost, "/collections/aliases", map[string]any{"actions": actions}, nil); err != nil && !errors.Is(err, errNotFound) {
		return domain.NewError(domain.KindIndex, "delete collection alias", err)
	}
	s.dropCollection(ctx, target)
	return nil
}

// Delete clears the alias and its collection, then drops any physical
// collection created under the bare name. Missing collections are ignored.
func (s *Storage) Delete(ctx context.Context) error {
	if err := s.Clear(ctx); err != nil {
		return err
	}
	if err := s.do(ctx, http.MethodDelete, "/collections/"+s.collection, nil, nil); err != nil && !errors.Is(err, errNotFound) {
		return domain.NewError(domain.KindIndex, "delete collection", err)
	}
	s.logger.Info("qdrant collection deleted", zap.String("collection", s.collection))
	return nil
}

func (s *Storage) Count(ctx context.Context) (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	err := s.do(ctx, http.MethodPost, "/collections/"+s.collection+"/points/count", map[string]any{"exact": true}, &resp)
	if errors.Is(err, errNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, domain.NewError(domain.KindIndex, "count points", err)
	}
	return resp.Result.Count, nil
}

func (s *Storage) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *Storage) aliasTarget(ctx context.Context) (string, error) {
	var resp struct {
		Result struct {
			Aliases []struct {
				AliasName      string `json:"alias_name"`
				CollectionName string `json:"collection_name"`
			} `json:"aliases"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodGet, "/aliases", nil, &resp); err != nil {
		return "", err
	}
	for _, a := range resp.Result.Aliases {
		if a.AliasName == s.collection {
			return a.CollectionName, nil
		}
	}
	return "", nil
}

func (s *Storage) dropCollection(ctx context.Context, name string) {
	if err := s.do(ctx, http.MethodDelete, "/collections/"+name, nil, nil); err != nil && !errors.Is(err, errNotFound) {
		s.logger.Warn("drop qdrant collection", zap.String("collection", name), zap.Error(err))
	}
}

func (s *Storage) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.url+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("qdrant %s %s failed: %s: %s", method, path, resp.Status, strings.TrimSpace(string(msg)))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
