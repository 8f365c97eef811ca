package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mkarlsen/quarry/internal/codegen"
	"github.com/mkarlsen/quarry/internal/config"
	"github.com/mkarlsen/quarry/internal/syncer"
)

func SyncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Regenerate code for a whole schema corpus and report changes",
		RunE:  runSync,
	}

	config.BindCommonFlags(cmd)

	flags := cmd.Flags()
	flags.String("root", "", "Schema corpus root directory")
	flags.StringSlice("include", nil, "Base-name patterns to include (default: all schema files)")
	flags.Int("concurrency", 0, "Worker pool size (default: 4)")
	flags.Duration("timeout", 0, "Per-document timeout (default: 30s)")
	flags.String("report", "", "Write the JSON report to this file instead of stdout")

	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd, nil)
	if err != nil {
		return err
	}
	if len(cfg.Targets) == 0 {
		cfg.Targets = config.ExpandTargets([]string{"all"})
	}
	if cfg.Sync.Root == "" {
		return fmt.Errorf("schema corpus root is required (--root)")
	}

	gen, err := codegen.New(cfg)
	if err != nil {
		return fmt.Errorf("creating generator: %w", err)
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")

	s := syncer.New(
		&syncer.DirSource{Root: cfg.Sync.Root, Include: cfg.Sync.Include},
		&syncer.DirStore{Root: cfg.OutputDir},
		gen,
		syncer.Options{
			Concurrency: cfg.Sync.Concurrency,
			Timeout:     cfg.Sync.Timeout,
			DryRun:      dryRun,
		},
		log.Logger,
	)

	report, err := s.Run(cmd.Context())
	if err != nil {
		return err
	}

	encoded, err := report.Encode()
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	if cfg.Sync.Report != "" {
		if err := os.WriteFile(cfg.Sync.Report, append(encoded, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		cmd.PrintErrf("Report written: %s\n", cfg.Sync.Report)
	} else {
		cmd.Println(string(encoded))
	}

	if report.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", errDocumentFailures, report.Failed, report.Discovered)
	}
	return nil
}
