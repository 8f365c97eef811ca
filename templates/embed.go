// Package templates embeds the built-in generation templates.
package templates

import "embed"

//go:embed go/*.tmpl
var FS embed.FS
