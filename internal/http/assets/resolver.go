// Package assets maps logical static asset names to the fingerprinted files
// listed in frontend/static/manifest.json.
package assets

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"sync"
	"time"
)

const (
	// ManifestName is the manifest file inside the static filesystem.
	ManifestName = "manifest.json"

	staticPrefix       = "/static/"
	devReloadThreshold = 500 * time.Millisecond
)

// Resolver resolves logical asset names ("js/app.js") to served paths
// ("/static/js/app.3f2a9c1b.js"). Names missing from the manifest resolve
// to themselves, so a tree without a build step still works.
type Resolver struct {
	fsys   fs.FS
	logger *slog.Logger

	mu         sync.RWMutex
	manifest   map[string]string
	lastReload time.Time
}

// NewResolver reads the manifest from fsys. A missing manifest is not an error.
func NewResolver(fsys fs.FS, logger *slog.Logger) (*Resolver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Resolver{fsys: fsys, logger: logger, manifest: map[string]string{}}
	return r, r.Reload()
}

// Reload re-reads the manifest.
func (r *Resolver) Reload() error {
	manifest, err := readManifest(r.fsys)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastReload = time.Now()
	if err != nil {
		return err
	}
	r.manifest = manifest
	return nil
}

// Resolve returns the served path of logicalName.
func (r *Resolver) Resolve(logicalName string) string {
	if r == nil {
		return staticPrefix + logicalName
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if hashed, ok := r.manifest[logicalName]; ok {
		return staticPrefix + hashed
	}
	return staticPrefix + logicalName
}

// ResolveAsset resolves logicalName, reloading the manifest first in dev mode
// at most once per devReloadThreshold so rebuilt assets show up without a restart.
func ResolveAsset(r *Resolver, logicalName string, devMode bool) string {
	if r == nil {
		return staticPrefix + logicalName
	}
	if devMode && r.stale() {
		if err := r.Reload(); err != nil {
			r.logger.Warn("asset manifest reload failed", slog.Any("error", err))
		}
	}
	return r.Resolve(logicalName)
}

func (r *Resolver) stale() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return time.Since(r.lastReload) >= devReloadThreshold
}

func readManifest(fsys fs.FS) (map[string]string, error) {
	if fsys == nil {
		return map[string]string{}, nil
	}
	data, err := fs.ReadFile(fsys, ManifestName)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	manifest := map[string]string{}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}
