// Package pipeline wires the scan steps together: metadata, instrumented
// build, asset scan, reconciliation, install and entry emission.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/tristendillon/weexscan/core/bundler"
	"github.com/tristendillon/weexscan/core/instrument"
	"github.com/tristendillon/weexscan/core/logger"
	"github.com/tristendillon/weexscan/core/metadata"
	"github.com/tristendillon/weexscan/core/models"
	"github.com/tristendillon/weexscan/core/reconcile"
	"github.com/tristendillon/weexscan/core/scanner"
	"github.com/tristendillon/weexscan/core/walker"
)

type Pipeline struct {
	workDir    string
	includeAli bool
	metadata   metadata.Source
	builder    Builder
	installer  PackageEnsurer
	entry      EntryWriter
	scanner    *scanner.Scanner
	walker     walker.AssetWalker
}

type Option func(*Pipeline)

func WithMetadata(src metadata.Source) Option {
	return func(p *Pipeline) { p.metadata = src }
}

func WithBuilder(b Builder) Option {
	return func(p *Pipeline) { p.builder = b }
}

func WithInstaller(i PackageEnsurer) Option {
	return func(p *Pipeline) { p.installer = i }
}

func WithEntryWriter(w EntryWriter) Option {
	return func(p *Pipeline) { p.entry = w }
}

func WithScanner(s *scanner.Scanner) Option {
	return func(p *Pipeline) { p.scanner = s }
}

func WithWalker(w walker.AssetWalker) Option {
	return func(p *Pipeline) { p.walker = w }
}

// WithAli merges the ali component and module maps into the catalog.
func WithAli(include bool) Option {
	return func(p *Pipeline) { p.includeAli = include }
}

// WithWorkDir sets the directory relative build output paths resolve
// against.
func WithWorkDir(dir string) Option {
	return func(p *Pipeline) { p.workDir = dir }
}

// New returns a pipeline that fetches the default metadata, builds with
// esbuild in the work dir and only reports. Options replace any step.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{workDir: "."}
	for _, opt := range opts {
		opt(p)
	}
	if p.metadata == nil {
		p.metadata = metadata.NewFetcher(metadata.DefaultURL, metadata.DefaultTimeout)
	}
	if p.builder == nil {
		p.builder = bundler.NewESBuild(p.workDir)
	}
	if p.scanner == nil {
		p.scanner = scanner.New()
	}
	if p.walker == nil {
		p.walker = walker.NewAssetWalker()
	}
	return p
}

func (p *Pipeline) outputDir(cfg *models.BuildConfig) string {
	out := cfg.Output.Path
	if out == "" {
		out = bundler.DefaultOutputPath
	}
	if filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(p.workDir, out)
}

// Run builds cfg with the template hook injected and resolves what the
// build used. cfg itself is left untouched.
func (p *Pipeline) Run(ctx context.Context, cfg *models.BuildConfig) (*models.Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("missing build config")
	}

	catalog := reconcile.NewCatalog(p.metadata.Fetch(ctx), p.includeAli)
	state := instrument.NewState(catalog.SeedUsage())

	buildCfg := cfg.Clone()
	if _, err := instrument.Inject(buildCfg, instrument.NewHook(state)); err != nil {
		if errors.Is(err, instrument.ErrMissingRules) {
			logger.Error("Build config has no module.rules or module.loaders, nothing to scan")
			return models.NewResult(), nil
		}
		return nil, fmt.Errorf("failed to instrument build config: %w", err)
	}

	logger.Info("Building...")
	stats, err := p.builder.Build(ctx, buildCfg)
	if err != nil {
		logger.Error("Build failed: %v", err)
		return nil, fmt.Errorf("failed to build: %w", err)
	}
	for _, w := range stats.Warnings {
		logger.Warn("%s", w)
	}
	for _, e := range stats.Errors {
		logger.Error("%s", e)
	}

	usage, seen := state.Snapshot()
	return p.resolve(ctx, catalog, usage, seen, stats.Assets, p.outputDir(buildCfg))
}

// ScanAssets resolves the modules requested by an existing build output.
// No build runs, so no template tags are counted.
func (p *Pipeline) ScanAssets(ctx context.Context, dir string) (*models.Result, error) {
	catalog := reconcile.NewCatalog(p.metadata.Fetch(ctx), p.includeAli)

	assets, err := p.walker.Walk(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return p.resolve(ctx, catalog, catalog.SeedUsage(), models.NewCounter(), assets, dir)
}

func (p *Pipeline) resolve(ctx context.Context, catalog *reconcile.Catalog, usage, seen models.Counter, assets []models.Asset, base string) (*models.Result, error) {
	modules, err := p.scanner.Scan(assets, base)
	if err != nil {
		return nil, fmt.Errorf("failed to scan assets: %w", err)
	}

	result := reconcile.Reconcile(catalog, usage, modules)
	result.AllTags = catalog.WithoutIgnored(seen)
	logger.Info("Found %d component(s) and %d module(s) in %d package(s)",
		len(result.Components), len(result.Modules), len(result.Pkgs))

	if len(result.Pkgs) == 0 {
		return result, nil
	}

	if p.installer != nil {
		peers, err := p.installer.Ensure(ctx, result.Pkgs)
		if err != nil {
			return nil, fmt.Errorf("failed to install packages: %w", err)
		}
		result.PeerDependencies = peers
	}

	if p.entry != nil {
		src, err := p.entry.WriteEntry(result.Pkgs, result.PeerDependencies)
		if err != nil {
			return nil, err
		}
		result.Entry = src
	}
	return result, nil
}
