package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var rebuildJSON bool

// NewRebuildCmd creates the rebuild command.
func NewRebuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Download the resume and rebuild the index",
		Long: `Download the resume from RESUME_URL, extract and chunk its text, and
replace the contents of the vector store. Readers never see a partially
written index.`,
		Example: `  resumerag rebuild
  resumerag rebuild --json`,
		Args: cobra.NoArgs,
		RunE: runRebuild,
	}
	cmd.Flags().BoolVar(&rebuildJSON, "json", false, "Print the result as JSON")
	return cmd
}

func runRebuild(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp(a)

	result, err := a.Orchestrator.RebuildIndex(cmd.Context())
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if rebuildJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(out, "%s\n", data)
		return nil
	}
	fmt.Fprintf(out, "Indexed %d chunks.\n", result.DocumentsIndexed)
	if result.Summary != "" {
		fmt.Fprintf(out, "\nSummary:\n%s\n", result.Summary)
	}
	return nil
}
