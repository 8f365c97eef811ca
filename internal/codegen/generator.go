// Package codegen runs the configured generation targets over one document's
// IR and returns the formatted output files.
package codegen

import (
	"fmt"
	"path"

	"github.com/mkarlsen/quarry/internal/config"
	"github.com/mkarlsen/quarry/internal/golang"
	"github.com/mkarlsen/quarry/internal/model"
	"github.com/mkarlsen/quarry/internal/targets/constructs"
	"github.com/mkarlsen/quarry/internal/targets/types"
	"github.com/mkarlsen/quarry/internal/targets/validators"
	"github.com/mkarlsen/quarry/internal/templates"
	embeddedtmpl "github.com/mkarlsen/quarry/templates"
)

type Generator struct {
	config *config.Config
	engine templates.Engine
}

// Output is one generated file. Filename is relative to the output root:
// <provider>/<version>/<file>, stable and collision-free per run.
type Output struct {
	Filename string
	Content  string
}

func New(cfg *config.Config) (*Generator, error) {
	if len(cfg.Output.AdditionalInitialisms) > 0 {
		golang.SetAdditionalInitialisms(cfg.Output.AdditionalInitialisms)
	}

	engine, err := templates.NewEngine(embeddedtmpl.FS, cfg.Templates.Dir, golang.TemplateFuncs())
	if err != nil {
		return nil, fmt.Errorf("creating template engine: %w", err)
	}

	return &Generator{
		config: cfg,
		engine: engine,
	}, nil
}

// Generate runs every configured target over ir. The IR is consumed
// read-only, and output is purely a function of IR and configuration, so
// generating twice from the same IR yields byte-identical files.
func (g *Generator) Generate(ir *model.SchemaIR) ([]Output, error) {
	pkg := g.config.Package
	if pkg == "" {
		pkg = golang.PackageName(ir.Provider)
	}
	dir := path.Join(golang.ProviderDir(ir.Provider), golang.VersionDir(ir.APIVersion))

	var outputs []Output

	if g.config.HasTarget("types") {
		content, err := types.New().Generate(g.engine, ir, pkg)
		if err != nil {
			return nil, fmt.Errorf("generating types: %w", err)
		}
		formatted, err := golang.Format([]byte(content))
		if err != nil {
			return nil, fmt.Errorf("formatting types: %w", err)
		}
		outputs = append(outputs, Output{
			Filename: path.Join(dir, "types.go"),
			Content:  string(formatted),
		})
	}

	if g.config.HasTarget("validators") {
		content, err := validators.New().Generate(g.engine, ir, pkg)
		if err != nil {
			return nil, fmt.Errorf("generating validators: %w", err)
		}
		formatted, err := golang.Format([]byte(content))
		if err != nil {
			return nil, fmt.Errorf("formatting validators: %w", err)
		}
		outputs = append(outputs, Output{
			Filename: path.Join(dir, "validators.go"),
			Content:  string(formatted),
		})
	}

	if g.config.HasTarget("constructs") {
		files, err := constructs.New().Generate(g.engine, ir, pkg)
		if err != nil {
			return nil, fmt.Errorf("generating constructs: %w", err)
		}
		for _, f := range files {
			formatted, err := golang.Format([]byte(f.Content))
			if err != nil {
				return nil, fmt.Errorf("formatting construct %s: %w", f.Filename, err)
			}
			outputs = append(outputs, Output{
				Filename: path.Join(dir, f.Filename),
				Content:  string(formatted),
			})
		}
	}

	return outputs, nil
}
