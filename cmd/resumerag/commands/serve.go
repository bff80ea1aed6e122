package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resumerag/internal/api"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Endpoints:
  GET  /              service info
  GET  /health        readiness
  POST /api/query     {"question": "...", "persona": "hr"}
  POST /api/rebuild   re-download the resume and rebuild the index
  GET  /api/resume    structured resume JSON

The index is built on the first question when the store is empty.`,
		Example: `  resumerag serve
  PORT=9000 RESUME_URL=https://example.com/cv.pdf resumerag serve`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer closeApp(a)

	cfg := a.Config
	handler := api.NewHandler(a.Orchestrator, cfg.Server.ResumeJSONPath, a.Logger.Named("api"))
	router := api.NewRouter(handler, api.RouterOptions{
		RequestTimeout:    cfg.RequestTimeout(),
		RequestsPerSecond: cfg.Server.RateLimit.RequestsPerSecond,
		Burst:             cfg.Server.RateLimit.Burst,
	})

	ready := a.Orchestrator.Ready(ctx)
	a.Logger.Info(api.ServiceName+" starting",
		zap.String("version", api.Version),
		zap.String("addr", cfg.Addr()),
		zap.Bool("ready", ready),
		zap.Int("chunks", a.Index.Count(ctx)))
	if !ready {
		a.Logger.Info("vector store is empty, the index will be built on the first question")
	}

	if err := api.NewServer(cfg.Addr(), router, cfg.ShutdownTimeout(), a.Logger.Named("http")).Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	a.Logger.Info("shutdown complete")
	return nil
}
