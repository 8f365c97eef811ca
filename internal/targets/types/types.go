// Package types generates the typed property-bag file for one document:
// a struct per resource, a declaration per definition, and named nested
// types for inline enums, unions and objects.
package types

import (
	"github.com/mkarlsen/quarry/internal/golang"
	"github.com/mkarlsen/quarry/internal/model"
	"github.com/mkarlsen/quarry/internal/templates"
)

type Target struct{}

func New() *Target {
	return &Target{}
}

func (t *Target) Name() string {
	return "types"
}

type resourceView struct {
	Name      string
	PropsName string
	Doc       []string
	Fields    []golang.FieldView
}

type templateData struct {
	Package    string
	Provider   string
	APIVersion string
	Resources  []resourceView
	Decls      []golang.Decl
}

// Generate renders the types file. Output is purely a function of the IR:
// the same IR produces the same bytes on every run.
func (t *Target) Generate(engine templates.Engine, ir *model.SchemaIR, pkg string) (string, error) {
	resolver := golang.NewResolver(ir)

	// definitions first so their names are claimed before inline types
	var decls []golang.Decl
	for _, key := range ir.DefinitionOrder {
		decl, err := resolver.DefinitionDecl(key)
		if err != nil {
			return "", err
		}
		decls = append(decls, decl)
	}

	var resources []resourceView
	for i := range ir.Resources {
		res := &ir.Resources[i]
		name := golang.ResourceName(res.ResourceType)
		propsName := golang.PropsName(res.ResourceType)
		// the construct target emits a type named after the resource itself,
		// so both symbols are claimed here
		if err := resolver.Claim(name, "resource "+res.ResourceType); err != nil {
			return "", err
		}
		if err := resolver.Claim(propsName, "resource "+res.ResourceType); err != nil {
			return "", err
		}

		fields, err := resolver.StructFields(res.Properties, res.Required, name)
		if err != nil {
			return "", err
		}

		doc := []string{propsName + " is the property bag for " + res.ResourceType + "."}
		if res.Description != "" {
			doc = append(doc, "", res.Description)
		}

		resources = append(resources, resourceView{
			Name:      name,
			PropsName: propsName,
			Doc:       doc,
			Fields:    fields,
		})
	}

	data := templateData{
		Package:    pkg,
		Provider:   ir.Provider,
		APIVersion: ir.APIVersion,
		Resources:  resources,
		Decls:      append(decls, resolver.Nested()...),
	}

	return engine.Execute("go/types.tmpl", data)
}
