package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkarlsen/quarry/internal/codegen"
	"github.com/mkarlsen/quarry/internal/config"
	"github.com/mkarlsen/quarry/internal/model"
	"github.com/mkarlsen/quarry/internal/parser"
	"github.com/mkarlsen/quarry/internal/syncer"
)

func GenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Go code from a single schema document",
	}

	config.BindCommonFlags(cmd)
	cmd.PersistentFlags().StringP("schema", "s", "", "Schema document path")

	cmd.AddCommand(
		newTypesCmd(),
		newValidatorsCmd(),
		newConstructsCmd(),
		newAllCmd(),
	)

	return cmd
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "Generate typed property structs",
		RunE:  runGenerate("types"),
	}
}

func newValidatorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validators",
		Short: "Generate runtime validators",
		RunE:  runGenerate("validators"),
	}
}

func newConstructsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "constructs",
		Short: "Generate resource construct wrappers",
		RunE:  runGenerate("constructs"),
	}
	cmd.Flags().String("resource", "", "Generate only this fully-qualified resource type")
	return cmd
}

func newAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Generate all targets (types, validators, constructs)",
		RunE:  runGenerate("all"),
	}
}

func runGenerate(target string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd, config.ExpandTargets([]string{target}))
		if err != nil {
			return err
		}
		if cfg.Schema == "" {
			return fmt.Errorf("schema document path is required (--schema)")
		}

		data, err := os.ReadFile(cfg.Schema)
		if err != nil {
			return fmt.Errorf("reading schema: %w", err)
		}

		parsed, err := parser.Parse(cfg.Schema, data)
		if err != nil {
			return fmt.Errorf("parsing schema: %w", err)
		}

		for _, w := range parsed.Warnings {
			cmd.PrintErrf("Warning: %s\n", w)
		}

		if resourceType, _ := cmd.Flags().GetString("resource"); resourceType != "" {
			res, ok := parsed.IR.Resource(resourceType)
			if !ok {
				return fmt.Errorf("resource %q not found in %s", resourceType, cfg.Schema)
			}
			parsed.IR.Resources = []model.ResourceDefinition{*res}
		}

		cmd.PrintErrf("Loaded %s %s\n", parsed.IR.Provider, parsed.IR.APIVersion)
		cmd.PrintErrf("  Resources: %d\n", len(parsed.IR.Resources))
		cmd.PrintErrf("  Definitions: %d\n", len(parsed.IR.Definitions))

		gen, err := codegen.New(cfg)
		if err != nil {
			return fmt.Errorf("creating generator: %w", err)
		}

		outputs, err := gen.Generate(parsed.IR)
		if err != nil {
			return fmt.Errorf("generating code: %w", err)
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if dryRun {
			for _, out := range outputs {
				cmd.Printf("// %s\n%s\n", out.Filename, out.Content)
			}
			return nil
		}

		store := &syncer.DirStore{Root: cfg.OutputDir}
		for _, out := range outputs {
			if err := store.Write(out.Filename, []byte(out.Content)); err != nil {
				return fmt.Errorf("writing %s: %w", out.Filename, err)
			}
			cmd.PrintErrf("Written: %s\n", out.Filename)
		}

		return nil
	}
}
