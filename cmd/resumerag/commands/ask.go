package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"resumerag/internal/service"
)

var askPersona string

// NewAskCmd creates the ask command.
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question",
		Long: `Ask a single question about the candidate and print the answer.

The index is built first if the vector store is empty. Personas adjust
the tone: hr is formal, peer is technical, founder focuses on impact.`,
		Example: `  resumerag ask "What databases has the candidate used?"
  resumerag ask --persona founder "What has the candidate shipped?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}
	cmd.Flags().StringVarP(&askPersona, "persona", "p", service.DefaultPersona,
		"Persona: "+strings.Join(service.Personas(), ", "))
	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("question must not be empty")
	}

	a, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp(a)

	answer, err := a.Orchestrator.Answer(cmd.Context(), question, askPersona)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), answer.Text)
	return nil
}
