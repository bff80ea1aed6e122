package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetConfirmed bool

// NewResetCmd creates the reset command.
func NewResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the vector store",
		Long: `Delete the persisted vector store: the SQLite file with its WAL files,
or the Qdrant alias and collections. The next question or rebuild
downloads the resume and creates the store again.`,
		Example: `  resumerag reset --yes`,
		Args:    cobra.NoArgs,
		RunE:    runReset,
	}
	cmd.Flags().BoolVar(&resetConfirmed, "yes", false, "Confirm deletion")
	return cmd
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetConfirmed {
		return fmt.Errorf("refusing to delete the vector store without --yes")
	}

	a, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp(a)

	if err := a.Index.Delete(cmd.Context()); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s vector store %q.\n", a.Config.VectorStore.Type, a.Config.VectorStore.Collection)
	return nil
}
