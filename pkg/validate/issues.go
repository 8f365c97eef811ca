package validate

import (
	"fmt"
	"strings"
)

// Issue codes reported by generated validators.
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodePattern       = "pattern"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooFew        = "too_few_items"
	CodeTooMany       = "too_many_items"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidUnion  = "invalid_union"
	CodeUnresolvedRef = "unresolved_reference"
)

// Issue is a single violated constraint with the offending property path.
type Issue struct {
	// Path is a pointer-style location, e.g. /parts/2/name.
	Path    string
	Code    string
	Message string
}

// Issues is an ordered collection of violations. A nil or empty Issues means
// the value validated cleanly. Issues implements error so callers can carry
// the full violation list through error returns.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	var b strings.Builder
	shown := len(iss)
	if shown > maxShown {
		shown = maxShown
	}
	for i := 0; i < shown; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s at %s", iss[i].Code, pathOrRoot(iss[i].Path))
	}
	if len(iss) > shown {
		fmt.Fprintf(&b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

func pathOrRoot(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
