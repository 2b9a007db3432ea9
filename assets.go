// Package recordsui provides embedded assets for production builds.
package recordsui

import "embed"

// In dev mode (IS_DEV=true) templates and static files are read from disk for
// hot reloading; otherwise they are served from these embedded trees.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
