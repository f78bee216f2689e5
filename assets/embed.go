// Package assets bundles the stack definition torn down by composeclean.
package assets

import "embed"

// ComposeFile is the logical name of the bundled stack definition.
const ComposeFile = "docker-compose.yml"

//go:embed docker-compose.yml
var FS embed.FS
