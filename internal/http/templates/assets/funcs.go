package assets

import (
	"html/template"

	httpassets "github.com/target/records-ui/internal/http/assets"
)

// Options configures asset-related template helpers.
type Options struct {
	Resolver    *httpassets.Resolver
	DevMode     bool
	CriticalCSS func() string
}

// Funcs returns template helpers for asset resolution and critical CSS embedding.
func Funcs(opts Options) template.FuncMap {
	return template.FuncMap{
		"asset": func(logicalName string) string {
			return httpassets.ResolveAsset(opts.Resolver, logicalName, opts.DevMode)
		},
		"criticalCSS": func() template.CSS {
			if opts.CriticalCSS == nil {
				return ""
			}
			// #nosec G203 - critical CSS is read from our own static tree
			return template.CSS(opts.CriticalCSS())
		},
	}
}
