// Package validators generates the runtime-validator file for one document:
// a registry of definition descriptors plus one descriptor and entry point
// per resource property bag. Descriptors mirror the IR constraint set
// exactly; the pkg/validate runtime interprets them.
package validators

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mkarlsen/quarry/internal/golang"
	"github.com/mkarlsen/quarry/internal/model"
	"github.com/mkarlsen/quarry/internal/templates"
)

const runtimeImport = "github.com/mkarlsen/quarry/pkg/validate"

type Target struct{}

func New() *Target {
	return &Target{}
}

func (t *Target) Name() string {
	return "validators"
}

type registryEntry struct {
	Key  string
	Expr string
}

type resourceValidator struct {
	Name         string
	ResourceType string
	VarName      string
	Expr         string
}

type templateData struct {
	Package       string
	Provider      string
	APIVersion    string
	RuntimeImport string
	Registry      []registryEntry
	Resources     []resourceValidator
}

func (t *Target) Generate(engine templates.Engine, ir *model.SchemaIR, pkg string) (string, error) {
	var registry []registryEntry
	for _, key := range ir.DefinitionOrder {
		registry = append(registry, registryEntry{
			Key:  key,
			Expr: nodeExpr(ir.Definitions[key], 1),
		})
	}

	var resources []resourceValidator
	for i := range ir.Resources {
		res := &ir.Resources[i]
		bag := &model.TypeDefinition{
			Kind:       model.KindObject,
			Properties: res.Properties,
			Required:   res.Required,
		}
		name := golang.ResourceName(res.ResourceType)
		resources = append(resources, resourceValidator{
			Name:         name,
			ResourceType: res.ResourceType,
			VarName:      golang.CamelCase(name) + "PropsNode",
			Expr:         nodeExpr(bag, 0),
		})
	}

	data := templateData{
		Package:       pkg,
		Provider:      ir.Provider,
		APIVersion:    ir.APIVersion,
		RuntimeImport: runtimeImport,
		Registry:      registry,
		Resources:     resources,
	}

	return engine.Execute("go/validators.tmpl", data)
}

// nodeExpr renders the validate.Node composite literal for a type. indent is
// the tab depth of the expression's first line; continuation lines indent one
// deeper.
func nodeExpr(t *model.TypeDefinition, indent int) string {
	if t == nil {
		return "&validate.Any{}"
	}

	switch t.Kind {
	case model.KindPrimitive:
		return primitiveExpr(t)
	case model.KindEnum:
		return enumExpr(t)
	case model.KindReference:
		return fmt.Sprintf("&validate.Ref{Key: %q}", t.Ref)
	case model.KindArray:
		return arrayExpr(t, indent)
	case model.KindUnion:
		return unionExpr(t, indent)
	case model.KindObject:
		return objectExpr(t, indent)
	default:
		return "&validate.Any{}"
	}
}

func primitiveExpr(t *model.TypeDefinition) string {
	c := t.Constraints
	switch t.Primitive {
	case model.PrimitiveString:
		var parts []string
		if c.Pattern != "" {
			parts = append(parts, fmt.Sprintf("Pattern: %s", patternLiteral(c.Pattern)))
		}
		if c.MinLength != nil {
			parts = append(parts, fmt.Sprintf("MinLength: validate.Int(%d)", *c.MinLength))
		}
		if c.MaxLength != nil {
			parts = append(parts, fmt.Sprintf("MaxLength: validate.Int(%d)", *c.MaxLength))
		}
		return "&validate.String{" + strings.Join(parts, ", ") + "}"
	case model.PrimitiveInteger, model.PrimitiveNumber:
		var parts []string
		if t.Primitive == model.PrimitiveInteger {
			parts = append(parts, "Integer: true")
		}
		if c.Minimum != nil {
			parts = append(parts, fmt.Sprintf("Minimum: validate.Float(%s)", floatLiteral(*c.Minimum)))
		}
		if c.Maximum != nil {
			parts = append(parts, fmt.Sprintf("Maximum: validate.Float(%s)", floatLiteral(*c.Maximum)))
		}
		return "&validate.Number{" + strings.Join(parts, ", ") + "}"
	case model.PrimitiveBoolean:
		return "&validate.Bool{}"
	case model.PrimitiveNull:
		return "&validate.Null{}"
	default:
		return "&validate.Any{}"
	}
}

func enumExpr(t *model.TypeDefinition) string {
	var values []string
	for _, v := range t.Enum {
		values = append(values, literal(v))
	}
	return "&validate.Enum{Values: []any{" + strings.Join(values, ", ") + "}}"
}

func arrayExpr(t *model.TypeDefinition, indent int) string {
	c := t.Constraints
	var parts []string
	parts = append(parts, "Elem: "+nodeExpr(t.Items, indent))
	if c.MinItems != nil {
		parts = append(parts, fmt.Sprintf("MinItems: validate.Int(%d)", *c.MinItems))
	}
	if c.MaxItems != nil {
		parts = append(parts, fmt.Sprintf("MaxItems: validate.Int(%d)", *c.MaxItems))
	}
	return "&validate.Array{" + strings.Join(parts, ", ") + "}"
}

func unionExpr(t *model.TypeDefinition, indent int) string {
	inner := tabs(indent + 1)
	var b strings.Builder
	b.WriteString("&validate.Union{Members: []validate.Node{\n")
	for _, m := range t.Members {
		b.WriteString(inner)
		b.WriteString(nodeExpr(m, indent+1))
		b.WriteString(",\n")
	}
	b.WriteString(tabs(indent))
	b.WriteString("}}")
	return b.String()
}

func objectExpr(t *model.TypeDefinition, indent int) string {
	inner := tabs(indent + 1)
	var b strings.Builder
	b.WriteString("&validate.Object{\n")

	if len(t.Properties) > 0 {
		b.WriteString(inner)
		b.WriteString("Fields: []validate.Field{\n")
		for _, prop := range t.Properties {
			b.WriteString(tabs(indent + 2))
			fmt.Fprintf(&b, "{Name: %q, Node: %s},\n", prop.Name, nodeExpr(prop.Type, indent+2))
		}
		b.WriteString(inner)
		b.WriteString("},\n")
	}

	if len(t.Required) > 0 {
		var quoted []string
		for _, name := range t.Required {
			quoted = append(quoted, strconv.Quote(name))
		}
		b.WriteString(inner)
		b.WriteString("Required: []string{" + strings.Join(quoted, ", ") + "},\n")
	}

	if t.Additional != nil {
		b.WriteString(inner)
		b.WriteString("Additional: " + nodeExpr(t.Additional, indent+1) + ",\n")
	}

	b.WriteString(tabs(indent))
	b.WriteString("}")
	return b.String()
}

// patternLiteral prefers a raw string so regex escapes survive verbatim.
func patternLiteral(pattern string) string {
	if !strings.ContainsAny(pattern, "`") {
		return "`" + pattern + "`"
	}
	return strconv.Quote(pattern)
}

func floatLiteral(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func literal(v any) string {
	switch n := v.(type) {
	case string:
		return strconv.Quote(n)
	default:
		return fmt.Sprintf("%v", n)
	}
}

func tabs(n int) string {
	return strings.Repeat("\t", n)
}
