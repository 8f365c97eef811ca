package model

import "fmt"

// ParseError is the all-or-nothing failure of parsing one schema document.
// Doc is the document's identifying path, Loc a pointer-style location
// within the document.
type ParseError struct {
	Doc    string
	Loc    string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Loc != "" {
		return fmt.Sprintf("parsing %s: %s at %s", e.Doc, e.Reason, e.Loc)
	}
	return fmt.Sprintf("parsing %s: %s", e.Doc, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DanglingReferenceError reports a $ref with no matching definition in the
// same document.
type DanglingReferenceError struct {
	Ref string
	Loc string
}

func (e *DanglingReferenceError) Error() string {
	if e.Loc != "" {
		return fmt.Sprintf("reference %q at %s does not resolve to a definition", e.Ref, e.Loc)
	}
	return fmt.Sprintf("reference %q does not resolve to a definition", e.Ref)
}

// RequiredPropertyError reports a required-property name with no matching
// entry in the property list.
type RequiredPropertyError struct {
	Name string
	Loc  string
}

func (e *RequiredPropertyError) Error() string {
	if e.Loc != "" {
		return fmt.Sprintf("required property %q at %s is not declared", e.Name, e.Loc)
	}
	return fmt.Sprintf("required property %q is not declared", e.Name)
}

// NameCollisionError reports two schema entities resolving to the same
// generated Go symbol. Generation for the document fails rather than one
// declaration silently overwriting the other.
type NameCollisionError struct {
	Name   string
	First  string
	Second string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("generated name %q collides: %s and %s", e.Name, e.First, e.Second)
}
