package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mkarlsen/quarry/internal/syncer"
)

// errDocumentFailures marks a run that completed but left at least one
// schema document unprocessed.
var errDocumentFailures = errors.New("one or more schema documents failed")

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "quarry",
		Short:   "Quarry - typed code generation from resource-manager schemas",
		Version: "1.0.0",

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().Timestamp().Logger()
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	root.AddCommand(GenerateCommand(), SyncCommand())

	return root
}

// Execute runs the CLI and maps the outcome to an exit status: 0 on full
// success, 1 when documents failed, 2 on an abort-level environment failure.
func Execute() int {
	err := RootCmd().Execute()
	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	if syncer.IsEnvironmentError(err) {
		return 2
	}
	return 1
}
