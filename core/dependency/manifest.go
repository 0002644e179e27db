package dependency

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tristendillon/weexscan/core/models"
)

var ErrManifestNotFound = errors.New("package manifest not found")

// ManifestResolver finds installed package manifests the way node does:
// <dir>/node_modules/<name>/package.json, walking up from Root.
type ManifestResolver struct {
	Root string
}

func NewManifestResolver(root string) *ManifestResolver {
	return &ManifestResolver{Root: root}
}

func (r *ManifestResolver) Resolve(name string) (*models.Manifest, error) {
	root := r.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}
	dir, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	for {
		candidate := filepath.Join(dir, "node_modules", filepath.FromSlash(name), "package.json")
		data, err := os.ReadFile(candidate)
		if err == nil {
			var m models.Manifest
			if err := json.Unmarshal(data, &m); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", candidate, err)
			}
			m.Path = candidate
			return &m, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", candidate, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, name)
		}
		dir = parent
	}
}
