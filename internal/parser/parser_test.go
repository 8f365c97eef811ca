package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkarlsen/quarry/internal/model"
)

const widgetsDoc = `{
  "provider": "Provider.Example",
  "apiVersion": "2023-01-01",
  "title": "Example widgets",
  "resources": [
    {
      "type": "Provider.Example/widgets",
      "description": "A widget.",
      "properties": {
        "name": {"type": "string", "pattern": "^[a-z][a-z0-9-]*$", "minLength": 1, "maxLength": 63},
        "size": {"type": "integer", "minimum": 1, "maximum": 100},
        "tier": {"enum": ["basic", "standard", "premium"]},
        "settings": {"$ref": "#/definitions/WidgetSettings"},
        "tags": {"type": "array", "items": {"type": "string"}, "maxItems": 50},
        "state": {"type": "string", "readOnly": true}
      },
      "required": ["name", "size"]
    }
  ],
  "definitions": {
    "WidgetSettings": {
      "type": "object",
      "properties": {
        "enabled": {"type": "boolean"},
        "nested": {"$ref": "#/definitions/WidgetSettings"}
      }
    }
  }
}`

func TestParseScenarioDocument(t *testing.T) {
	result, err := Parse("widgets.json", []byte(widgetsDoc))
	require.NoError(t, err)
	require.Empty(t, result.Warnings)

	ir := result.IR
	require.Equal(t, "Provider.Example", ir.Provider)
	require.Equal(t, "2023-01-01", ir.APIVersion)
	require.Equal(t, "Example widgets", ir.Metadata.Title)
	require.Equal(t, "widgets.json", ir.Metadata.SourcePath)
	require.Len(t, ir.Resources, 1)

	res := ir.Resources[0]
	require.Equal(t, "Provider.Example/widgets", res.ResourceType)
	require.Equal(t, []string{"name", "size"}, res.Required)

	// property order follows the document
	var names []string
	for _, p := range res.Properties {
		names = append(names, p.Name)
	}
	require.Equal(t, []string{"name", "size", "tier", "settings", "tags", "state"}, names)

	name := res.Properties[0]
	require.Equal(t, model.KindPrimitive, name.Type.Kind)
	require.Equal(t, model.PrimitiveString, name.Type.Primitive)
	require.Equal(t, "^[a-z][a-z0-9-]*$", name.Type.Constraints.Pattern)
	require.Equal(t, int64(1), *name.Type.Constraints.MinLength)
	require.Equal(t, int64(63), *name.Type.Constraints.MaxLength)

	size := res.Properties[1]
	require.Equal(t, model.PrimitiveInteger, size.Type.Primitive)
	require.Equal(t, float64(1), *size.Type.Constraints.Minimum)
	require.Equal(t, float64(100), *size.Type.Constraints.Maximum)

	tier := res.Properties[2]
	require.Equal(t, model.KindEnum, tier.Type.Kind)
	require.Equal(t, []any{"basic", "standard", "premium"}, tier.Type.Enum)

	settings := res.Properties[3]
	require.Equal(t, model.KindReference, settings.Type.Kind)
	require.Equal(t, "WidgetSettings", settings.Type.Ref)

	tags := res.Properties[4]
	require.Equal(t, model.KindArray, tags.Type.Kind)
	require.Equal(t, model.PrimitiveString, tags.Type.Items.Primitive)
	require.Equal(t, int64(50), *tags.Type.Constraints.MaxItems)

	require.True(t, res.Properties[5].ReadOnly)

	// recursive definitions stay as reference nodes, so the IR is finite
	def, ok := ir.Definition("WidgetSettings")
	require.True(t, ok)
	require.Equal(t, model.KindObject, def.Kind)
	require.Equal(t, model.KindReference, def.Properties[1].Type.Kind)

	require.NoError(t, ir.Validate())
}

func TestParseYAMLDocument(t *testing.T) {
	doc := `
provider: Provider.Example
apiVersion: v1
resources:
  - type: Provider.Example/things
    properties:
      name:
        type: string
`
	result, err := Parse("things.yaml", []byte(doc))
	require.NoError(t, err)
	require.Equal(t, "Provider.Example/things", result.IR.Resources[0].ResourceType)
}

func TestParseBooleanSpellings(t *testing.T) {
	doc := `
provider: Provider.Example
apiVersion: v1
resources:
  - type: Provider.Example/things
    properties:
      state:
        type: string
        readOnly: True
      legacy:
        type: string
        deprecated: TRUE
      name:
        type: string
        readOnly: false
`
	result, err := Parse("things.yaml", []byte(doc))
	require.NoError(t, err)

	props := result.IR.Resources[0].Properties
	require.True(t, props[0].ReadOnly)
	require.True(t, props[1].Deprecated)
	require.False(t, props[2].ReadOnly)
}

func TestParseNonBooleanReadOnly(t *testing.T) {
	doc := `{
  "provider": "P.X", "apiVersion": "v1",
  "resources": [{
    "type": "P.X/a",
    "properties": {"v": {"type": "string", "readOnly": "banana"}}
  }]
}`
	_, err := Parse("a.json", []byte(doc))
	require.Error(t, err)
	require.Contains(t, err.Error(), "boolean")
}

func TestParseDanglingReference(t *testing.T) {
	doc := `{
  "provider": "P.X", "apiVersion": "v1",
  "resources": [{
    "type": "P.X/a",
    "properties": {"cfg": {"$ref": "#/definitions/Missing"}}
  }]
}`
	_, err := Parse("a.json", []byte(doc))
	require.Error(t, err)

	var dangling *model.DanglingReferenceError
	require.True(t, errors.As(err, &dangling))
	require.Equal(t, "Missing", dangling.Ref)
}

func TestParseRequiredUnknownProperty(t *testing.T) {
	doc := `{
  "provider": "P.X", "apiVersion": "v1",
  "resources": [{
    "type": "P.X/a",
    "properties": {"name": {"type": "string"}},
    "required": ["name", "ghost"]
  }]
}`
	_, err := Parse("a.json", []byte(doc))
	require.Error(t, err)
	require.Contains(t, err.Error(), "ghost")
}

func TestParseEnumDeduplication(t *testing.T) {
	doc := `{
  "provider": "P.X", "apiVersion": "v1",
  "resources": [{
    "type": "P.X/a",
    "properties": {"tier": {"enum": ["a", "b", "a", "c", "b"]}}
  }]
}`
	result, err := Parse("a.json", []byte(doc))
	require.NoError(t, err)
	require.Equal(t, []any{"a", "b", "c"}, result.IR.Resources[0].Properties[0].Type.Enum)
}

func TestParseEnumKeepsDistinctKindsApart(t *testing.T) {
	// "1" the string and 1 the integer are distinct literals
	doc := `{
  "provider": "P.X", "apiVersion": "v1",
  "resources": [{
    "type": "P.X/a",
    "properties": {"v": {"enum": ["1", 1]}}
  }]
}`
	result, err := Parse("a.json", []byte(doc))
	require.NoError(t, err)
	require.Len(t, result.IR.Resources[0].Properties[0].Type.Enum, 2)
}

func TestParseUnionCollapsesSingleBranch(t *testing.T) {
	doc := `{
  "provider": "P.X", "apiVersion": "v1",
  "resources": [{
    "type": "P.X/a",
    "properties": {
      "v": {"oneOf": [{"type": "string"}, {"type": "string"}]}
    }
  }]
}`
	result, err := Parse("a.json", []byte(doc))
	require.NoError(t, err)

	v := result.IR.Resources[0].Properties[0].Type
	require.Equal(t, model.KindPrimitive, v.Kind)
	require.Equal(t, model.PrimitiveString, v.Primitive)
}

func TestParseUnionKeepsDistinctMembers(t *testing.T) {
	doc := `{
  "provider": "P.X", "apiVersion": "v1",
  "resources": [{
    "type": "P.X/a",
    "properties": {
      "v": {"oneOf": [{"type": "string"}, {"type": "integer"}, {"type": "string"}]}
    }
  }]
}`
	result, err := Parse("a.json", []byte(doc))
	require.NoError(t, err)

	v := result.IR.Resources[0].Properties[0].Type
	require.Equal(t, model.KindUnion, v.Kind)
	require.Len(t, v.Members, 2)
}

func TestParseUnknownKeywordWarns(t *testing.T) {
	doc := `{
  "provider": "P.X", "apiVersion": "v1",
  "resources": [{
    "type": "P.X/a",
    "properties": {"v": {"type": "string", "format": "uri"}}
  }]
}`
	result, err := Parse("a.json", []byte(doc))
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	require.Contains(t, result.Warnings[0], "format")
}

func TestParseInvalidPattern(t *testing.T) {
	doc := `{
  "provider": "P.X", "apiVersion": "v1",
  "resources": [{
    "type": "P.X/a",
    "properties": {"v": {"type": "string", "pattern": "[unclosed"}}
  }]
}`
	_, err := Parse("a.json", []byte(doc))
	require.Error(t, err)
	require.Contains(t, err.Error(), "pattern")
}

func TestParseAllOrNothing(t *testing.T) {
	// second resource is malformed, so the whole document fails
	doc := `{
  "provider": "P.X", "apiVersion": "v1",
  "resources": [
    {"type": "P.X/good", "properties": {"name": {"type": "string"}}},
    {"type": "P.X/bad", "properties": {"v": {"type": "array"}}}
  ]
}`
	result, err := Parse("a.json", []byte(doc))
	require.Error(t, err)
	require.Nil(t, result)
	require.Contains(t, err.Error(), "items")
}

func TestParseMissingProvider(t *testing.T) {
	_, err := Parse("a.json", []byte(`{"apiVersion": "v1", "resources": []}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "provider")
}

func TestParseMalformedDocument(t *testing.T) {
	_, err := Parse("a.json", []byte(`{not json`))
	require.Error(t, err)

	var parseErr *model.ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Equal(t, "a.json", parseErr.Doc)
}

func TestParseUnsupportedReferenceTarget(t *testing.T) {
	doc := `{
  "provider": "P.X", "apiVersion": "v1",
  "resources": [{
    "type": "P.X/a",
    "properties": {"v": {"$ref": "http://example.com/schema#thing"}}
  }]
}`
	_, err := Parse("a.json", []byte(doc))
	require.Error(t, err)
	require.Contains(t, err.Error(), "#/definitions/")
}

func TestParseAdditionalProperties(t *testing.T) {
	doc := `{
  "provider": "P.X", "apiVersion": "v1",
  "resources": [{
    "type": "P.X/a",
    "properties": {
      "labels": {"type": "object", "additionalProperties": {"type": "string"}}
    }
  }]
}`
	result, err := Parse("a.json", []byte(doc))
	require.NoError(t, err)

	labels := result.IR.Resources[0].Properties[0].Type
	require.Equal(t, model.KindObject, labels.Kind)
	require.NotNil(t, labels.Additional)
	require.Equal(t, model.PrimitiveString, labels.Additional.Primitive)
}
