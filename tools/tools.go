//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are installed globally via `go install` and are not tracked in go.mod
// since they are development tools, not runtime dependencies.
package tools

// Development tools (install via `go install`):
//
// Air - Live reload for Go apps; pair it with DEV=true so templates and
// static files are read from ./frontend on every request.
//   Install: go install github.com/air-verse/air@v1.63.0
//   Docs: https://github.com/air-verse/air
//
// mockgen - regenerates internal/mocks (see internal/mocks/generate.go).
//   Run: go generate ./internal/mocks
//   Version: pinned by go.uber.org/mock in go.mod
