// Package locales embeds the bundled message catalogs. They are used when no
// locale directory is configured.
package locales

import "embed"

//go:embed *.yaml
var FS embed.FS
