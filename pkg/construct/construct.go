// Package construct is the runtime behind generated resource wrappers. A
// generated wrapper validates its property bag at construction time and
// emits a deployment Document through the helpers here.
package construct

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/mkarlsen/quarry/pkg/validate"
)

// Document is the deployment-template shape a wrapper emits. Field order is
// fixed by declaration order so emission stays diff-friendly.
type Document struct {
	Type       string `json:"type"`
	APIVersion string `json:"apiVersion"`
	Properties any    `json:"properties,omitempty"`
}

// MarshalDocument serializes a Document deterministically.
func MarshalDocument(d Document) ([]byte, error) {
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling template document: %w", err)
	}
	return out, nil
}

// ToBag converts a typed property bag into the untyped map shape generated
// validators consume.
func ToBag(props any) (map[string]any, error) {
	raw, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("encoding properties: %w", err)
	}
	var bag map[string]any
	if err := json.Unmarshal(raw, &bag); err != nil {
		return nil, fmt.Errorf("decoding properties: %w", err)
	}
	return bag, nil
}

// PropsValidationError reports a property bag rejected at wrapper
// construction. It carries the full violation list; the wrapper is never
// partially constructed.
type PropsValidationError struct {
	ResourceType string
	Issues       validate.Issues
}

func (e *PropsValidationError) Error() string {
	return fmt.Sprintf("invalid properties for %s: %s", e.ResourceType, e.Issues.Error())
}

func (e *PropsValidationError) Unwrap() error { return e.Issues }
