package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"resumerag/internal/domain"
)

// ResumeService is the orchestrator surface exposed as tools.
type ResumeService interface {
	Answer(ctx context.Context, question, persona string) (*domain.Answer, error)
	RebuildIndex(ctx context.Context) (*domain.RebuildResult, error)
}

// RegisterTools registers the resume tools with the server.
func RegisterTools(server *mcpserver.MCPServer, svc ResumeService, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	handlers := &Handlers{svc: svc, logger: logger}

	server.AddTool(mcp.Tool{
		Name:        "ask_resume",
		Description: "Answer a question about the candidate using only the indexed resume. Rebuilds the index first if it is empty.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question about the candidate's experience, skills or background",
				},
				"persona": map[string]interface{}{
					"type":        "string",
					"description": "Audience: default, hr, peer or founder",
					"enum":        []string{"default", "hr", "peer", "founder"},
					"default":     "default",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskResume)

	server.AddTool(mcp.Tool{
		Name:        "rebuild_index",
		Description: "Download the resume again and rebuild the vector index from scratch.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.RebuildIndex)

	return handlers
}
