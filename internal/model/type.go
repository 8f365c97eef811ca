package model

import "fmt"

type Kind string

const (
	KindPrimitive Kind = "primitive"
	KindObject    Kind = "object"
	KindArray     Kind = "array"
	KindEnum      Kind = "enum"
	KindUnion     Kind = "union"
	KindReference Kind = "reference"
)

type PrimitiveType string

const (
	PrimitiveString  PrimitiveType = "string"
	PrimitiveNumber  PrimitiveType = "number"
	PrimitiveInteger PrimitiveType = "integer"
	PrimitiveBoolean PrimitiveType = "boolean"
	PrimitiveNull    PrimitiveType = "null"
)

// TypeDefinition is a tagged variant: Kind selects which field group is
// meaningful. One struct rather than an interface hierarchy keeps the parser
// and the generators symmetric over the same shape.
type TypeDefinition struct {
	Kind        Kind
	Description string
	Deprecated  bool

	// primitive
	Primitive   PrimitiveType
	Constraints Constraints

	// object
	Properties []Property
	Required   []string
	// Additional, when set, marks an open dictionary shape whose values all
	// have this type.
	Additional *TypeDefinition

	// array
	Items *TypeDefinition

	// enum; order preserved, de-duplicated by first occurrence
	Enum []any

	// union; at least two members after single-branch collapse
	Members []*TypeDefinition

	// reference; key into SchemaIR.Definitions
	Ref string
}

// Fingerprint returns a canonical structural key for a type. Two types with
// the same fingerprint are structurally identical; the parser uses this to
// de-duplicate union branches.
func (t *TypeDefinition) Fingerprint() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindPrimitive:
		return fmt.Sprintf("p:%s:%s", t.Primitive, t.Constraints.fingerprint())
	case KindReference:
		return "r:" + t.Ref
	case KindEnum:
		return fmt.Sprintf("e:%v", t.Enum)
	case KindArray:
		return fmt.Sprintf("a:%s:%s", t.Items.Fingerprint(), t.Constraints.fingerprint())
	case KindUnion:
		s := "u:"
		for _, m := range t.Members {
			s += m.Fingerprint() + "|"
		}
		return s
	case KindObject:
		s := "o:"
		for _, p := range t.Properties {
			s += p.Name + "=" + p.Type.Fingerprint() + ";"
		}
		s += fmt.Sprintf("req:%v", t.Required)
		if t.Additional != nil {
			s += ":add:" + t.Additional.Fingerprint()
		}
		return s
	default:
		return "?"
	}
}
