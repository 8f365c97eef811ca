package codegen

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkarlsen/quarry/internal/config"
	"github.com/mkarlsen/quarry/internal/golang"
	"github.com/mkarlsen/quarry/internal/parser"
)

const widgetsDoc = `{
  "provider": "Provider.Example",
  "apiVersion": "2023-01-01",
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

func testConfig(targets ...string) *config.Config {
	return &config.Config{
		OutputDir: "gen",
		Targets:   targets,
	}
}

func generate(t *testing.T, cfg *config.Config) []Output {
	t.Helper()

	parsed, err := parser.Parse("widgets.json", []byte(widgetsDoc))
	require.NoError(t, err)

	gen, err := New(cfg)
	require.NoError(t, err)

	outputs, err := gen.Generate(parsed.IR)
	require.NoError(t, err)
	return outputs
}

func TestGenerateAllTargets(t *testing.T) {
	outputs := generate(t, testConfig("types", "validators", "constructs"))

	var filenames []string
	for _, out := range outputs {
		filenames = append(filenames, out.Filename)
	}
	require.Equal(t, []string{
		"provider_example/2023_01_01/types.go",
		"provider_example/2023_01_01/validators.go",
		"provider_example/2023_01_01/widgets_construct.go",
	}, filenames)
}

func TestGenerateMatchesGolden(t *testing.T) {
	outputs := generate(t, testConfig("types", "validators", "constructs"))
	require.Len(t, outputs, 3)

	for _, out := range outputs {
		golden, err := os.ReadFile(filepath.Join("testdata", path.Base(out.Filename)+".golden"))
		require.NoError(t, err)

		// goldens are committed in readable form; pushing them through the
		// same formatter as generated output keeps the comparison about
		// content, not gofmt details
		want, err := golang.Format(golden)
		require.NoError(t, err)
		require.Equal(t, string(want), out.Content, out.Filename)
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	cfg := testConfig("types", "validators", "constructs")
	first := generate(t, cfg)
	second := generate(t, cfg)

	require.Equal(t, first, second)
}

func TestGenerateTypesContent(t *testing.T) {
	outputs := generate(t, testConfig("types"))
	require.Len(t, outputs, 1)

	content := outputs[0].Content
	require.Contains(t, content, "Code generated by quarry. DO NOT EDIT.")
	require.Contains(t, content, "package example")
	require.Contains(t, content, "type WidgetsProps struct")
	require.Contains(t, content, "type WidgetSettings struct")
	require.Contains(t, content, "type WidgetsTier string")
	require.Contains(t, content, "WidgetsTierBasic")
	// required fields keep plain tags, optional ones add omitempty
	require.Contains(t, content, "`json:\"name\"`")
	require.Contains(t, content, "`json:\"tier,omitempty\"`")
	require.Contains(t, content, "*WidgetsTier")
	// struct-backed references go through a pointer so recursion terminates
	require.Contains(t, content, "*WidgetSettings")
	require.Contains(t, content, "Read-only.")
}

func TestGenerateValidatorsContent(t *testing.T) {
	outputs := generate(t, testConfig("validators"))
	require.Len(t, outputs, 1)

	content := outputs[0].Content
	require.Contains(t, content, "var registry = validate.Registry{")
	require.Contains(t, content, `"WidgetSettings"`)
	require.Contains(t, content, "func ValidateWidgetsProps(v any) validate.Issues")
	require.Contains(t, content, "Pattern: `^[a-z][a-z0-9-]*$`")
	require.Contains(t, content, `Required: []string{"name", "size"}`)
	require.Contains(t, content, `&validate.Ref{Key: "WidgetSettings"}`)
}

func TestGenerateConstructContent(t *testing.T) {
	outputs := generate(t, testConfig("constructs"))
	require.Len(t, outputs, 1)
	require.Equal(t, "provider_example/2023_01_01/widgets_construct.go", outputs[0].Filename)

	content := outputs[0].Content
	require.Contains(t, content, `WidgetsResourceType = "Provider.Example/widgets"`)
	require.Contains(t, content, `WidgetsAPIVersion   = "2023-01-01"`)
	require.Contains(t, content, "func NewWidgets(props WidgetsProps) (*Widgets, error)")
	require.Contains(t, content, "func (r *Widgets) Template() construct.Document")
}

func TestGeneratePackageOverride(t *testing.T) {
	cfg := testConfig("types")
	cfg.Package = "custom"

	outputs := generate(t, cfg)
	require.Contains(t, outputs[0].Content, "package custom")
}

func TestGenerateOutputIsFormatted(t *testing.T) {
	for _, out := range generate(t, testConfig("types", "validators", "constructs")) {
		require.True(t, strings.HasSuffix(out.Content, "\n"))
		require.NotContains(t, out.Content, "\n\n\n\n")
	}
}
