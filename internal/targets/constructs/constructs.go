// Package constructs generates one resource-wrapper source file per
// ResourceDefinition: identity constants, constructor-time validation
// against the generated validator, and deterministic template emission.
package constructs

import (
	"github.com/mkarlsen/quarry/internal/golang"
	"github.com/mkarlsen/quarry/internal/model"
	"github.com/mkarlsen/quarry/internal/templates"
)

const runtimeImport = "github.com/mkarlsen/quarry/pkg/construct"

type Target struct{}

func New() *Target {
	return &Target{}
}

func (t *Target) Name() string {
	return "constructs"
}

type templateData struct {
	Package       string
	Name          string
	PropsName     string
	ResourceType  string
	APIVersion    string
	Doc           []string
	RuntimeImport string
}

// Output is one generated wrapper file.
type Output struct {
	Filename string
	Content  string
}

// Generate renders a wrapper file per resource. Filenames derive from the
// resource name, so they are stable and collision-free as long as resource
// names are (the types target fails on name collisions first).
func (t *Target) Generate(engine templates.Engine, ir *model.SchemaIR, pkg string) ([]Output, error) {
	var outputs []Output
	for i := range ir.Resources {
		res := &ir.Resources[i]
		name := golang.ResourceName(res.ResourceType)

		doc := []string{name + " is an L1 construct for " + res.ResourceType + "."}
		if res.Description != "" {
			doc = append(doc, "", res.Description)
		}

		content, err := engine.Execute("go/construct.tmpl", templateData{
			Package:       pkg,
			Name:          name,
			PropsName:     golang.PropsName(res.ResourceType),
			ResourceType:  res.ResourceType,
			APIVersion:    ir.APIVersion,
			Doc:           doc,
			RuntimeImport: runtimeImport,
		})
		if err != nil {
			return nil, err
		}

		outputs = append(outputs, Output{
			Filename: golang.ConstructFile(res.ResourceType),
			Content:  content,
		})
	}
	return outputs, nil
}
