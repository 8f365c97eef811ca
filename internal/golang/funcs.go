package golang

import (
	"strings"
	"text/template"
)

func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"pascalCase": PascalCase,
		"camelCase":  CamelCase,
		"snakeCase":  SnakeCase,
		"comment":    Comment,
		"join":       strings.Join,
		"lower":      strings.ToLower,
		"upper":      strings.ToUpper,
	}
}

// Comment renders doc lines as a Go comment block.
func Comment(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("// ")
		b.WriteString(strings.TrimSpace(line))
	}
	return b.String()
}
