package golang

import (
	"strings"
	"unicode"
)

var commonInitialisms = map[string]bool{
	"ACL":   true,
	"API":   true,
	"ARN":   true,
	"CIDR":  true,
	"CPU":   true,
	"DNS":   true,
	"GPU":   true,
	"HTTP":  true,
	"HTTPS": true,
	"IAM":   true,
	"ID":    true,
	"IP":    true,
	"JSON":  true,
	"OS":    true,
	"RAM":   true,
	"SKU":   true,
	"SQL":   true,
	"SSH":   true,
	"SSL":   true,
	"TCP":   true,
	"TLS":   true,
	"TTL":   true,
	"UDP":   true,
	"UID":   true,
	"URI":   true,
	"URL":   true,
	"UUID":  true,
	"VM":    true,
	"VPC":   true,
	"VPN":   true,
}

// SetAdditionalInitialisms adds custom initialisms to the naming rules.
// Call once during initialization, before any generation.
func SetAdditionalInitialisms(initialisms []string) {
	for _, init := range initialisms {
		commonInitialisms[strings.ToUpper(init)] = true
	}
}

func PascalCase(s string) string {
	words := splitWords(s)
	var result strings.Builder
	for _, word := range words {
		upper := strings.ToUpper(word)
		if commonInitialisms[upper] {
			result.WriteString(upper)
		} else {
			result.WriteString(capitalize(word))
		}
	}
	return result.String()
}

func CamelCase(s string) string {
	words := splitWords(s)
	var result strings.Builder
	for i, word := range words {
		if i == 0 {
			result.WriteString(strings.ToLower(word))
			continue
		}
		upper := strings.ToUpper(word)
		if commonInitialisms[upper] {
			result.WriteString(upper)
		} else {
			result.WriteString(capitalize(word))
		}
	}
	return result.String()
}

func SnakeCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, "_")
}

func splitWords(s string) []string {
	var words []string
	var current strings.Builder

	for i, r := range s {
		if r == '_' || r == '-' || r == ' ' || r == '.' || r == '/' {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
			continue
		}

		if unicode.IsUpper(r) && i > 0 {
			prev := rune(s[i-1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				if current.Len() > 0 {
					words = append(words, current.String())
					current.Reset()
				}
			}
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	for i := 1; i < len(runes); i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// ToGoIdentifier produces a valid exported identifier from an arbitrary
// schema name.
func ToGoIdentifier(s string) string {
	result := PascalCase(s)
	if len(result) == 0 {
		return "X"
	}
	if unicode.IsDigit(rune(result[0])) {
		return "X" + result
	}
	return result
}

// ResourceName derives a construct type name from a fully-qualified resource
// type: the provider namespace before the last '/' is stripped, the rest is
// PascalCase word-joined. "Provider.Example/widgets" becomes "Widgets".
func ResourceName(resourceType string) string {
	kind := resourceType
	if idx := strings.LastIndex(resourceType, "/"); idx >= 0 {
		kind = resourceType[idx+1:]
	}
	return ToGoIdentifier(kind)
}

// PropsName is the generated property-bag type name for a resource.
func PropsName(resourceType string) string {
	return ResourceName(resourceType) + "Props"
}

// DefinitionName maps a definitions key to its Go declaration name.
func DefinitionName(key string) string {
	return ToGoIdentifier(key)
}

// PackageName derives a Go package name from a provider identifier:
// the last namespace segment, lowercased with separators removed.
// "Provider.Example" becomes "example".
func PackageName(provider string) string {
	seg := provider
	if idx := strings.LastIndex(provider, "."); idx >= 0 {
		seg = provider[idx+1:]
	}
	return strings.ToLower(strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, seg))
}

// ProviderDir and VersionDir build the stable per-document output directory:
// <provider>/<version> with every separator normalized to '_'.
func ProviderDir(provider string) string {
	return SnakeCase(provider)
}

func VersionDir(apiVersion string) string {
	return SnakeCase(apiVersion)
}

// ConstructFile names the wrapper source file for one resource.
func ConstructFile(resourceType string) string {
	return SnakeCase(ResourceName(resourceType)) + "_construct.go"
}

var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

func EscapeKeyword(s string) string {
	if goKeywords[strings.ToLower(s)] {
		return s + "_"
	}
	return s
}
