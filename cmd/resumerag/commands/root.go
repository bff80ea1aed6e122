package commands

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	quiet      bool
)

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resumerag",
		Short: "Ask grounded questions about a resume",
		Long: `resumerag answers questions about a single resume.

The resume PDF is downloaded from RESUME_URL, split into overlapping
chunks and indexed in a local vector store. Each question retrieves the
most relevant chunks and an LLM answers from them alone, in the tone of
the selected persona (default, hr, peer or founder).

Configuration is read from --config, ./config.yaml or the user config
directory. Environment variables and a .env file override the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors")

	cmd.AddCommand(
		NewServeCmd(),
		NewRebuildCmd(),
		NewResetCmd(),
		NewAskCmd(),
		NewChatCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
