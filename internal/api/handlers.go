package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"resumerag/internal/domain"
	"resumerag/internal/service"
)

const (
	ServiceName = "Resume RAG API"
	Version     = "1.0.0"
)

// ResumeService is the orchestrator surface the API calls.
type ResumeService interface {
	Answer(ctx context.Context, question, persona string) (*domain.Answer, error)
	RebuildIndex(ctx context.Context) (*domain.RebuildResult, error)
	Ready(ctx context.Context) bool
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type InfoResponse struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
	Personas  []string          `json:"personas"`
	Ready     bool              `json:"ready"`
}

// Handler serves the HTTP API.
type Handler struct {
	svc            ResumeService
	resumeJSONPath string
	logger         *zap.Logger
}

func NewHandler(svc ResumeService, resumeJSONPath string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, resumeJSONPath: resumeJSONPath, logger: logger}
}

// HandleInfo handles GET /.
func (h *Handler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	h.write(w, http.StatusOK, InfoResponse{
		Name:    ServiceName,
		Version: Version,
		Endpoints: map[string]string{
			"GET /health":       "Health check",
			"POST /api/query":   "Ask a question",
			"POST /api/rebuild": "Rebuild vector store",
			"GET /api/resume":   "Structured resume data",
		},
		Personas: service.Personas(),
		Ready:    h.svc.Ready(r.Context()),
	})
}

// HandleHealth handles GET /health. It always answers 200.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.write(w, http.StatusOK, StatusResponse{
		Status:  "healthy",
		Message: fmt.Sprintf("Ready: %t", h.svc.Ready(r.Context())),
	})
}

// HandleQuery handles POST /api/query.
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleServiceError(w, "Query", err, h.logger)
		return
	}
	if req.Persona == "" {
		req.Persona = service.DefaultPersona
	}

	answer, err := h.svc.Answer(r.Context(), req.Question, req.Persona)
	if err != nil {
		handleServiceError(w, "Query", err, h.logger)
		return
	}
	h.write(w, http.StatusOK, answer)
}

// HandleRebuild handles POST /api/rebuild.
func (h *Handler) HandleRebuild(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.RebuildIndex(r.Context())
	if err != nil {
		handleServiceError(w, "Rebuild", err, h.logger)
		return
	}
	h.write(w, http.StatusOK, result)
}

// HandleResume handles GET /api/resume by serving the configured JSON file.
func (h *Handler) HandleResume(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(h.resumeJSONPath)
	if errors.Is(err, os.ErrNotExist) {
		_ = WriteError(w, http.StatusNotFound, "not_found", "resume.json not found", nil)
		return
	}
	if err != nil {
		h.logger.Error("read resume json", zap.Error(err))
		_ = WriteError(w, http.StatusInternalServerError, "internal_error", "Failed to read resume: "+err.Error(), nil)
		return
	}

	var payload json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		_ = WriteError(w, http.StatusInternalServerError, "internal_error", "Invalid JSON: "+err.Error(), nil)
		return
	}
	h.write(w, http.StatusOK, payload)
}

func (h *Handler) write(w http.ResponseWriter, status int, data any) {
	if err := WriteJSON(w, status, data); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}
