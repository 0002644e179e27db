// Package walker lists the assets of an existing build output directory.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tristendillon/weexscan/core/logger"
	"github.com/tristendillon/weexscan/core/models"
)

type AssetWalker interface {
	Walk(root string) ([]models.Asset, error)
}

type AssetWalkerImpl struct {
	Exclude []string
}

func NewAssetWalker(exclude ...string) *AssetWalkerImpl {
	return &AssetWalkerImpl{
		Exclude: append([]string{".git", "node_modules", ".DS_Store"}, exclude...),
	}
}

func (w *AssetWalkerImpl) excluded(name string) bool {
	for _, ex := range w.Exclude {
		if name == ex {
			return true
		}
	}
	return false
}

// Walk returns every regular file under root, named relative to root with
// forward slashes and sorted by name.
func (w *AssetWalkerImpl) Walk(root string) ([]models.Asset, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat output directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var assets []models.Asset
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && w.excluded(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		assets = append(assets, models.Asset{Name: filepath.ToSlash(rel), Size: int(fi.Size())})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Slice(assets, func(i, j int) bool { return strings.Compare(assets[i].Name, assets[j].Name) < 0 })
	logger.Debug("Found %d asset(s) in %s", len(assets), root)
	return assets, nil
}
