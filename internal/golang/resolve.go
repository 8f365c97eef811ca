package golang

import (
	"fmt"
	"strings"

	"github.com/mkarlsen/quarry/internal/model"
)

type DeclKind string

const (
	DeclStruct DeclKind = "struct"
	DeclEnum   DeclKind = "enum"
	DeclAlias  DeclKind = "alias"
)

// Decl is one named declaration the types target renders: a definition from
// the document or a nested type synthesized for an inline enum, union or
// object.
type Decl struct {
	Kind DeclKind
	Name string
	Doc  []string

	// struct
	Fields []FieldView

	// enum
	Base    string
	Members []EnumMember

	// alias
	Target string
}

type FieldView struct {
	Name     string
	Type     string
	Tag      string
	Doc      []string
	Required bool
}

type EnumMember struct {
	Name    string
	Literal string
}

// Resolver maps IR types to Go type expressions for one document. It is the
// single naming authority shared by all targets: every generated symbol is
// claimed here, so two schema entities lowering to the same Go name surface
// as a NameCollisionError instead of a silent overwrite.
type Resolver struct {
	ir      *model.SchemaIR
	origins map[string]string
	seen    map[string]bool
	nested  []Decl
}

func NewResolver(ir *model.SchemaIR) *Resolver {
	return &Resolver{
		ir:      ir,
		origins: make(map[string]string),
		seen:    make(map[string]bool),
	}
}

// Claim reserves a generated symbol name for origin. Claiming an
// already-reserved name fails generation for the whole document.
func (r *Resolver) Claim(name, origin string) error {
	if prev, taken := r.origins[name]; taken {
		return &model.NameCollisionError{Name: name, First: prev, Second: origin}
	}
	r.origins[name] = origin
	return nil
}

// Nested returns the declarations synthesized for inline types, in
// discovery order.
func (r *Resolver) Nested() []Decl {
	return r.nested
}

// DefinitionDecl builds the top-level declaration for one definitions entry.
func (r *Resolver) DefinitionDecl(key string) (Decl, error) {
	t := r.ir.Definitions[key]
	name := DefinitionName(key)
	if err := r.Claim(name, "definition "+key); err != nil {
		return Decl{}, err
	}

	doc := docLines(t.Description, t.Constraints, t.Deprecated)

	switch t.Kind {
	case model.KindObject:
		if t.Additional != nil || len(t.Properties) == 0 {
			target, err := r.TypeExpr(t, name, "Value")
			if err != nil {
				return Decl{}, err
			}
			return Decl{Kind: DeclAlias, Name: name, Doc: doc, Target: target}, nil
		}
		fields, err := r.StructFields(t.Properties, t.Required, name)
		if err != nil {
			return Decl{}, err
		}
		return Decl{Kind: DeclStruct, Name: name, Doc: doc, Fields: fields}, nil

	case model.KindEnum:
		return r.enumDecl(name, t, doc)

	case model.KindUnion:
		return Decl{Kind: DeclAlias, Name: name, Doc: append(doc, unionDoc(t)), Target: "any"}, nil

	case model.KindPrimitive:
		return Decl{Kind: DeclAlias, Name: name, Doc: doc, Target: primitiveExpr(t.Primitive)}, nil

	case model.KindArray:
		elem, err := r.TypeExpr(t.Items, name, "Item")
		if err != nil {
			return Decl{}, err
		}
		return Decl{Kind: DeclAlias, Name: name, Doc: doc, Target: "[]" + elem}, nil

	case model.KindReference:
		return Decl{Kind: DeclAlias, Name: name, Doc: doc, Target: DefinitionName(t.Ref)}, nil

	default:
		return Decl{}, fmt.Errorf("definition %q has unknown kind %q", key, t.Kind)
	}
}

// StructFields builds the field views for an ordered property list.
// parent is the owning declaration's name, used to name inline types.
func (r *Resolver) StructFields(props []model.Property, required []string, parent string) ([]FieldView, error) {
	var fields []FieldView
	for _, prop := range props {
		isRequired := contains(required, prop.Name)

		expr, err := r.TypeExpr(prop.Type, parent, prop.Name)
		if err != nil {
			return nil, err
		}
		if !isRequired && r.needsPointer(prop.Type, nil) {
			expr = "*" + expr
		}

		doc := docLines(prop.Description, constraintsOf(prop.Type), prop.Deprecated)
		if prop.ReadOnly {
			doc = append(doc, "Read-only.")
		}

		fields = append(fields, FieldView{
			Name:     ToGoIdentifier(prop.Name),
			Type:     expr,
			Tag:      jsonTag(prop.Name, isRequired),
			Doc:      doc,
			Required: isRequired,
		})
	}
	return fields, nil
}

// TypeExpr returns the Go type expression for t. Inline enums, unions and
// objects synthesize a named nested declaration from parent+field so every
// named shape has exactly one canonical declaration.
func (r *Resolver) TypeExpr(t *model.TypeDefinition, parent, field string) (string, error) {
	if t == nil {
		return "any", nil
	}

	switch t.Kind {
	case model.KindPrimitive:
		return primitiveExpr(t.Primitive), nil

	case model.KindReference:
		name := DefinitionName(t.Ref)
		if target, ok := r.ir.Definition(t.Ref); ok && target.Kind == model.KindObject &&
			target.Additional == nil && len(target.Properties) > 0 {
			// struct-backed definitions are referenced through a pointer so
			// self-referential graphs stay representable
			return "*" + name, nil
		}
		return name, nil

	case model.KindArray:
		elem, err := r.TypeExpr(t.Items, parent, field+"Item")
		if err != nil {
			return "", err
		}
		return "[]" + elem, nil

	case model.KindObject:
		if t.Additional != nil {
			value, err := r.TypeExpr(t.Additional, parent, field+"Value")
			if err != nil {
				return "", err
			}
			return "map[string]" + value, nil
		}
		if len(t.Properties) == 0 {
			return "map[string]any", nil
		}
		return r.nestedStruct(t, parent+PascalCase(field))

	case model.KindEnum:
		return r.nestedEnum(t, parent+PascalCase(field))

	case model.KindUnion:
		return r.nestedUnion(t, parent+PascalCase(field))

	default:
		return "", fmt.Errorf("unknown type kind %q", t.Kind)
	}
}

func (r *Resolver) nestedStruct(t *model.TypeDefinition, name string) (string, error) {
	if r.seen[name] {
		return name, nil
	}
	if err := r.Claim(name, "inline object"); err != nil {
		return "", err
	}
	r.seen[name] = true

	fields, err := r.StructFields(t.Properties, t.Required, name)
	if err != nil {
		return "", err
	}
	r.nested = append(r.nested, Decl{
		Kind:   DeclStruct,
		Name:   name,
		Doc:    docLines(t.Description, model.Constraints{}, t.Deprecated),
		Fields: fields,
	})
	return name, nil
}

func (r *Resolver) nestedEnum(t *model.TypeDefinition, name string) (string, error) {
	if r.seen[name] {
		return name, nil
	}
	if err := r.Claim(name, "inline enum"); err != nil {
		return "", err
	}
	r.seen[name] = true

	decl, err := r.enumDecl(name, t, docLines(t.Description, model.Constraints{}, t.Deprecated))
	if err != nil {
		return "", err
	}
	r.nested = append(r.nested, decl)
	return name, nil
}

func (r *Resolver) nestedUnion(t *model.TypeDefinition, name string) (string, error) {
	if r.seen[name] {
		return name, nil
	}
	if err := r.Claim(name, "inline union"); err != nil {
		return "", err
	}
	r.seen[name] = true

	r.nested = append(r.nested, Decl{
		Kind:   DeclAlias,
		Name:   name,
		Doc:    append(docLines(t.Description, model.Constraints{}, t.Deprecated), unionDoc(t)),
		Target: "any",
	})
	return name, nil
}

// enumDecl renders an enum declaration. String enums get a string-backed
// named type with one constant per member in IR order; numeric enums get a
// numeric base with the allowed values documented (the validator enforces
// membership either way).
func (r *Resolver) enumDecl(name string, t *model.TypeDefinition, doc []string) (Decl, error) {
	allStrings, allIntegers := true, true
	for _, v := range t.Enum {
		if _, ok := v.(string); !ok {
			allStrings = false
		}
		switch n := v.(type) {
		case int, int64, uint64:
		case float64:
			if n != float64(int64(n)) {
				allIntegers = false
			}
		default:
			allIntegers = false
		}
	}

	if allStrings {
		var members []EnumMember
		memberSeen := map[string]string{}
		for _, v := range t.Enum {
			s := v.(string)
			memberName := name + ToGoIdentifier(s)
			if prev, taken := memberSeen[memberName]; taken {
				return Decl{}, &model.NameCollisionError{Name: memberName, First: "enum value " + prev, Second: "enum value " + s}
			}
			memberSeen[memberName] = s
			members = append(members, EnumMember{Name: memberName, Literal: fmt.Sprintf("%q", s)})
		}
		return Decl{Kind: DeclEnum, Name: name, Doc: doc, Base: "string", Members: members}, nil
	}

	base := "float64"
	if allIntegers {
		base = "int64"
	}
	var labels []string
	for _, v := range t.Enum {
		labels = append(labels, fmt.Sprintf("%v", v))
	}
	doc = append(doc, "Allowed values: "+strings.Join(labels, ", ")+".")
	return Decl{Kind: DeclEnum, Name: name, Doc: doc, Base: base}, nil
}

// needsPointer reports whether an optional field of this type needs pointer
// wrapping to distinguish absent from zero. Slices, maps, any-typed values
// and struct references are already nil-able.
func (r *Resolver) needsPointer(t *model.TypeDefinition, visited map[string]bool) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case model.KindPrimitive:
		return t.Primitive != model.PrimitiveNull
	case model.KindEnum:
		return true
	case model.KindObject:
		return t.Additional == nil && len(t.Properties) > 0
	case model.KindReference:
		if visited[t.Ref] {
			return false
		}
		target, ok := r.ir.Definition(t.Ref)
		if !ok {
			return false
		}
		if target.Kind == model.KindObject {
			// struct references already render as pointers
			return false
		}
		if visited == nil {
			visited = map[string]bool{}
		}
		visited[t.Ref] = true
		return r.needsPointer(target, visited)
	default:
		return false
	}
}

func primitiveExpr(p model.PrimitiveType) string {
	switch p {
	case model.PrimitiveString:
		return "string"
	case model.PrimitiveInteger:
		return "int64"
	case model.PrimitiveNumber:
		return "float64"
	case model.PrimitiveBoolean:
		return "bool"
	default:
		return "any"
	}
}

// TypeLabel is a human-readable name for a type, used in union member docs.
func (r *Resolver) TypeLabel(t *model.TypeDefinition) string {
	if t == nil {
		return "any"
	}
	switch t.Kind {
	case model.KindPrimitive:
		return primitiveExpr(t.Primitive)
	case model.KindReference:
		return DefinitionName(t.Ref)
	case model.KindEnum:
		var labels []string
		for _, v := range t.Enum {
			labels = append(labels, fmt.Sprintf("%v", v))
		}
		return "enum{" + strings.Join(labels, ", ") + "}"
	case model.KindArray:
		return "[]" + r.TypeLabel(t.Items)
	case model.KindObject:
		return "object"
	case model.KindUnion:
		return unionLabel(r, t)
	default:
		return "any"
	}
}

func unionLabel(r *Resolver, t *model.TypeDefinition) string {
	var labels []string
	for _, m := range t.Members {
		labels = append(labels, r.TypeLabel(m))
	}
	return strings.Join(labels, " | ")
}

func unionDoc(t *model.TypeDefinition) string {
	r := &Resolver{}
	return "One of: " + unionLabel(r, t) + "."
}

func docLines(description string, c model.Constraints, deprecated bool) []string {
	var lines []string
	if description != "" {
		lines = append(lines, strings.Split(strings.TrimSpace(description), "\n")...)
	}
	lines = append(lines, c.Describe()...)
	if deprecated {
		lines = append(lines, "Deprecated: this property is deprecated in the source schema.")
	}
	return lines
}

func constraintsOf(t *model.TypeDefinition) model.Constraints {
	if t == nil {
		return model.Constraints{}
	}
	return t.Constraints
}

func jsonTag(name string, required bool) string {
	if required {
		return fmt.Sprintf("`json:\"%s\"`", name)
	}
	return fmt.Sprintf("`json:\"%s,omitempty\"`", name)
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
