package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// Handlers implements the resume tools.
type Handlers struct {
	svc    ResumeService
	logger *zap.Logger
}

// AskResume handles the ask_resume tool.
func (h *Handlers) AskResume(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil || question == "" {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}
	persona := request.GetString("persona", "default")

	answer, err := h.svc.Answer(ctx, question, persona)
	if err != nil {
		h.logger.Warn("ask_resume failed", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}
	return mcp.NewToolResultText(answer.Text), nil
}

// RebuildIndex handles the rebuild_index tool.
func (h *Handlers) RebuildIndex(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.svc.RebuildIndex(ctx)
	if err != nil {
		h.logger.Warn("rebuild_index failed", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("rebuild failed: %v", err)), nil
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
