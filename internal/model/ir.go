package model

// SchemaIR is the canonical result of parsing one schema document. It is
// immutable after construction: generators consume it read-only, which makes
// it safe to run all targets concurrently over the same instance.
type SchemaIR struct {
	Provider   string
	APIVersion string
	Resources  []ResourceDefinition

	// Definitions maps a reference key to its type. DefinitionOrder records
	// the keys in document order so generators iterate deterministically.
	Definitions     map[string]*TypeDefinition
	DefinitionOrder []string

	Metadata Metadata
}

// Metadata carries document-level descriptive fields. It never affects the
// shape of generated code.
type Metadata struct {
	Title       string
	Description string
	SourcePath  string
}

type ResourceDefinition struct {
	// ResourceType is the fully-qualified type string, e.g.
	// "Provider.Example/widgets". Together with the document's APIVersion it
	// is the stable identity of a generated wrapper across regenerations.
	ResourceType string
	Description  string
	Properties   []Property
	Required     []string
}

type Property struct {
	Name        string
	Type        *TypeDefinition
	ReadOnly    bool
	Deprecated  bool
	Description string
}

// Definition looks up a reference key.
func (ir *SchemaIR) Definition(key string) (*TypeDefinition, bool) {
	def, ok := ir.Definitions[key]
	return def, ok
}

// Resource looks up a resource definition by its fully-qualified type.
func (ir *SchemaIR) Resource(resourceType string) (*ResourceDefinition, bool) {
	for i := range ir.Resources {
		if ir.Resources[i].ResourceType == resourceType {
			return &ir.Resources[i], true
		}
	}
	return nil, false
}

// Validate re-checks the structural invariants the parser establishes:
// every reference resolves to a definition and every required property name
// exists in the property list it belongs to.
func (ir *SchemaIR) Validate() error {
	for _, key := range ir.DefinitionOrder {
		if err := ir.validateType(ir.Definitions[key]); err != nil {
			return err
		}
	}
	for i := range ir.Resources {
		res := &ir.Resources[i]
		if err := ir.validateRequired(res.Properties, res.Required); err != nil {
			return err
		}
		for _, prop := range res.Properties {
			if err := ir.validateType(prop.Type); err != nil {
				return err
			}
		}
	}
	return nil
}

func (ir *SchemaIR) validateType(t *TypeDefinition) error {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case KindReference:
		if _, ok := ir.Definitions[t.Ref]; !ok {
			return &DanglingReferenceError{Ref: t.Ref}
		}
	case KindObject:
		if err := ir.validateRequired(t.Properties, t.Required); err != nil {
			return err
		}
		for _, prop := range t.Properties {
			if err := ir.validateType(prop.Type); err != nil {
				return err
			}
		}
		return ir.validateType(t.Additional)
	case KindArray:
		return ir.validateType(t.Items)
	case KindUnion:
		for _, m := range t.Members {
			if err := ir.validateType(m); err != nil {
				return err
			}
		}
	}
	return nil
}

func (ir *SchemaIR) validateRequired(props []Property, required []string) error {
	for _, name := range required {
		found := false
		for i := range props {
			if props[i].Name == name {
				found = true
				break
			}
		}
		if !found {
			return &RequiredPropertyError{Name: name}
		}
	}
	return nil
}
