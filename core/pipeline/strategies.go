package pipeline

import (
	"context"

	"github.com/tristendillon/weexscan/core/generator"
	"github.com/tristendillon/weexscan/core/models"
)

// Builder runs the host build.
type Builder interface {
	Build(ctx context.Context, cfg *models.BuildConfig) (*models.BuildStats, error)
}

// PackageEnsurer makes sure the resolved packages are installed and
// reports their peer dependencies.
type PackageEnsurer interface {
	Ensure(ctx context.Context, pkgs []string) (map[string]string, error)
}

// EntryWriter produces the entry source for the resolved packages.
type EntryWriter interface {
	WriteEntry(pkgs []string, peers map[string]string) (string, error)
}

// FileEntryWriter writes the entry to Path.
type FileEntryWriter struct {
	Path string
}

func (w FileEntryWriter) WriteEntry(pkgs []string, peers map[string]string) (string, error) {
	return generator.Emit(w.Path, pkgs, peers)
}

// ReturnEntryWriter only renders the entry; the source is returned on the
// result.
type ReturnEntryWriter struct{}

func (ReturnEntryWriter) WriteEntry(pkgs []string, peers map[string]string) (string, error) {
	return generator.RenderEntry(pkgs, peers)
}
