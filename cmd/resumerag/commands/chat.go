package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"resumerag/internal/service"
	"resumerag/internal/tui"
)

// NewChatCmd creates the chat command.
func NewChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive terminal chat",
		Long: `Open an interactive terminal chat about the candidate.

Press Tab to cycle through personas and Enter to ask. Logs go to
stderr; use --quiet to keep them off the screen.`,
		Args: cobra.NoArgs,
		RunE: runChat,
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp(a)

	status := fmt.Sprintf("%d chunks indexed", a.Index.Count(cmd.Context()))
	if !a.Orchestrator.Ready(cmd.Context()) {
		status = "Index is empty; the first question builds it."
	}

	m := tui.New(a.Orchestrator, service.Personas(), status, a.Config.RequestTimeout())
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	return nil
}
