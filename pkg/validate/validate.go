// Package validate is the runtime behind generated validator files. A
// generated file declares a Registry of node descriptors mirroring its
// document's definitions plus one descriptor per resource property bag;
// Value walks a descriptor against an untyped value and reports every
// violated constraint with its property path.
//
// Descriptors are plain data and Value keeps all walk state on the stack, so
// validators are safe to invoke repeatedly and concurrently.
package validate

import (
	"fmt"
	"regexp"
)

// Node is one validation descriptor. Implementations are the exported node
// structs below; generated code builds them as composite literals.
type Node interface {
	check(w *walker, path string, v any)
}

// Registry maps definition keys to their descriptors. Ref nodes resolve
// through it, which is what lets cyclic definition graphs validate finite
// values without unbounded expansion.
type Registry map[string]Node

// Value validates v against n and returns every violated constraint.
// A nil return means v is valid.
func Value(reg Registry, n Node, v any) Issues {
	w := &walker{reg: reg}
	n.check(w, "", v)
	return w.issues
}

type walker struct {
	reg    Registry
	issues Issues
}

func (w *walker) report(path, code, format string, args ...any) {
	w.issues = append(w.issues, Issue{Path: path, Code: code, Message: fmt.Sprintf(format, args...)})
}

type String struct {
	Pattern   string
	MinLength *int64
	MaxLength *int64
}

func (n *String) check(w *walker, path string, v any) {
	s, ok := v.(string)
	if !ok {
		w.report(path, CodeInvalidType, "expected string, got %T", v)
		return
	}
	if n.MinLength != nil && int64(len(s)) < *n.MinLength {
		w.report(path, CodeTooShort, "length %d is below minimum %d", len(s), *n.MinLength)
	}
	if n.MaxLength != nil && int64(len(s)) > *n.MaxLength {
		w.report(path, CodeTooLong, "length %d exceeds maximum %d", len(s), *n.MaxLength)
	}
	if n.Pattern != "" {
		re, err := regexp.Compile(n.Pattern)
		if err != nil {
			w.report(path, CodePattern, "invalid pattern %q", n.Pattern)
			return
		}
		if !re.MatchString(s) {
			w.report(path, CodePattern, "%q does not match pattern %q", s, n.Pattern)
		}
	}
}

type Number struct {
	// Integer rejects values with a fractional part.
	Integer bool
	Minimum *float64
	Maximum *float64
}

func (n *Number) check(w *walker, path string, v any) {
	f, ok := toFloat(v)
	if !ok {
		w.report(path, CodeInvalidType, "expected number, got %T", v)
		return
	}
	if n.Integer && f != float64(int64(f)) {
		w.report(path, CodeInvalidType, "expected integer, got %v", v)
		return
	}
	if n.Minimum != nil && f < *n.Minimum {
		w.report(path, CodeTooSmall, "%v is below minimum %v", f, *n.Minimum)
	}
	if n.Maximum != nil && f > *n.Maximum {
		w.report(path, CodeTooBig, "%v exceeds maximum %v", f, *n.Maximum)
	}
}

type Bool struct{}

func (n *Bool) check(w *walker, path string, v any) {
	if _, ok := v.(bool); !ok {
		w.report(path, CodeInvalidType, "expected boolean, got %T", v)
	}
}

type Null struct{}

func (n *Null) check(w *walker, path string, v any) {
	if v != nil {
		w.report(path, CodeInvalidType, "expected null, got %T", v)
	}
}

// Any accepts every value. It backs union member types that carry no
// standalone declaration of their own.
type Any struct{}

func (n *Any) check(w *walker, path string, v any) {}

type Enum struct {
	Values []any
}

func (n *Enum) check(w *walker, path string, v any) {
	for _, allowed := range n.Values {
		if literalEqual(v, allowed) {
			return
		}
	}
	w.report(path, CodeInvalidEnum, "%v is not one of the allowed values", v)
}

type Array struct {
	Elem     Node
	MinItems *int64
	MaxItems *int64
}

func (n *Array) check(w *walker, path string, v any) {
	items, ok := v.([]any)
	if !ok {
		w.report(path, CodeInvalidType, "expected array, got %T", v)
		return
	}
	if n.MinItems != nil && int64(len(items)) < *n.MinItems {
		w.report(path, CodeTooFew, "%d items is below minimum %d", len(items), *n.MinItems)
	}
	if n.MaxItems != nil && int64(len(items)) > *n.MaxItems {
		w.report(path, CodeTooMany, "%d items exceeds maximum %d", len(items), *n.MaxItems)
	}
	if n.Elem == nil {
		return
	}
	for i, item := range items {
		n.Elem.check(w, fmt.Sprintf("%s/%d", path, i), item)
	}
}

type Field struct {
	Name string
	Node Node
}

type Object struct {
	Fields   []Field
	Required []string
	// Additional validates values of keys outside Fields; when nil, unknown
	// keys are accepted unchecked (resource-manager schemas are open by
	// default).
	Additional Node
}

func (n *Object) check(w *walker, path string, v any) {
	m, ok := v.(map[string]any)
	if !ok {
		w.report(path, CodeInvalidType, "expected object, got %T", v)
		return
	}
	for _, name := range n.Required {
		if _, present := m[name]; !present {
			w.report(path+"/"+name, CodeRequired, "required property %q is missing", name)
		}
	}
	known := map[string]bool{}
	for _, f := range n.Fields {
		known[f.Name] = true
		value, present := m[f.Name]
		if !present {
			continue
		}
		f.Node.check(w, path+"/"+f.Name, value)
	}
	if n.Additional != nil {
		for key, value := range m {
			if known[key] {
				continue
			}
			n.Additional.check(w, path+"/"+key, value)
		}
	}
}

// Union validates against at least one member. On failure it reports a
// single aggregate issue at the union's path rather than every member's
// individual complaints; the aggregate wording depends only on the member
// count, keeping failure output deterministic across runs.
type Union struct {
	Members []Node
}

func (n *Union) check(w *walker, path string, v any) {
	for _, m := range n.Members {
		probe := &walker{reg: w.reg}
		m.check(probe, path, v)
		if len(probe.issues) == 0 {
			return
		}
	}
	w.report(path, CodeInvalidUnion, "value matches none of the %d union members", len(n.Members))
}

type Ref struct {
	Key string
}

func (n *Ref) check(w *walker, path string, v any) {
	target, ok := w.reg[n.Key]
	if !ok {
		w.report(path, CodeUnresolvedRef, "no definition registered for %q", n.Key)
		return
	}
	target.check(w, path, v)
}

// Int and Float let generated descriptor literals express optional bounds.
func Int(v int64) *int64 { return &v }

func Float(v float64) *float64 { return &v }

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func literalEqual(v, allowed any) bool {
	if v == allowed {
		return true
	}
	// decoded JSON numbers arrive as float64 while schema literals may be ints
	vf, vok := toFloat(v)
	af, aok := toFloat(allowed)
	return vok && aok && vf == af
}
