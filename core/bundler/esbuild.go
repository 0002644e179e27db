// Package bundler runs the host build with esbuild.
package bundler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/tristendillon/weexscan/core/logger"
	"github.com/tristendillon/weexscan/core/models"
)

const DefaultOutputPath = "dist"

var formats = map[string]api.Format{
	"":     api.FormatIIFE,
	"iife": api.FormatIIFE,
	"cjs":  api.FormatCommonJS,
	"esm":  api.FormatESModule,
}

var targets = map[string]api.Target{
	"":       api.ESNext,
	"esnext": api.ESNext,
	"es5":    api.ES5,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
}

var loaders = map[string]api.Loader{
	"js":      api.LoaderJS,
	"jsx":     api.LoaderJSX,
	"ts":      api.LoaderTS,
	"tsx":     api.LoaderTSX,
	"json":    api.LoaderJSON,
	"text":    api.LoaderText,
	"css":     api.LoaderCSS,
	"file":    api.LoaderFile,
	"dataurl": api.LoaderDataURL,
	"base64":  api.LoaderBase64,
	"binary":  api.LoaderBinary,
	"copy":    api.LoaderCopy,
	"empty":   api.LoaderEmpty,
}

// ESBuild builds a BuildConfig with esbuild. Relative paths in the config
// resolve against WorkDir.
type ESBuild struct {
	WorkDir string
}

func NewESBuild(workDir string) *ESBuild {
	return &ESBuild{WorkDir: workDir}
}

// entryNames turns a webpack output filename into an esbuild entry
// name template.
func entryNames(filename string) string {
	if filename == "" {
		return "[name]"
	}
	name := strings.ReplaceAll(filename, "[chunkhash]", "[hash]")
	name = strings.ReplaceAll(name, "[contenthash]", "[hash]")
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func (b *ESBuild) options(cfg *models.BuildConfig) (api.BuildOptions, error) {
	workDir := b.WorkDir
	if workDir == "" {
		workDir = "."
	}
	absWorkDir, err := filepath.Abs(workDir)
	if err != nil {
		return api.BuildOptions{}, fmt.Errorf("failed to resolve work dir: %w", err)
	}

	format, ok := formats[strings.ToLower(cfg.Output.Format)]
	if !ok {
		return api.BuildOptions{}, fmt.Errorf("unsupported output format %q", cfg.Output.Format)
	}
	target, ok := targets[strings.ToLower(cfg.Target)]
	if !ok {
		return api.BuildOptions{}, fmt.Errorf("unsupported target %q", cfg.Target)
	}

	loader := make(map[string]api.Loader, len(cfg.Loader))
	for ext, name := range cfg.Loader {
		l, ok := loaders[name]
		if !ok {
			return api.BuildOptions{}, fmt.Errorf("unsupported loader %q for %s", name, ext)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		loader[ext] = l
	}

	outdir := cfg.Output.Path
	if outdir == "" {
		outdir = DefaultOutputPath
	}
	if !filepath.IsAbs(outdir) {
		outdir = filepath.Join(absWorkDir, outdir)
	}

	return api.BuildOptions{
		EntryPoints:       cfg.Entry,
		Bundle:            true,
		Write:             true,
		Metafile:          true,
		Outdir:            outdir,
		EntryNames:        entryNames(cfg.Output.Filename),
		Format:            format,
		Platform:          api.PlatformBrowser,
		Target:            target,
		External:          cfg.Externals,
		Define:            cfg.Define,
		Loader:            loader,
		MinifyWhitespace:  cfg.Minify,
		MinifyIdentifiers: cfg.Minify,
		MinifySyntax:      cfg.Minify,
		LogLevel:          api.LogLevelSilent,
		AbsWorkingDir:     absWorkDir,
		Plugins:           []api.Plugin{vuePlugin(cfg)},
	}, nil
}

func formatMessages(msgs []api.Message, kind api.MessageKind) []string {
	if len(msgs) == 0 {
		return nil
	}
	out := api.FormatMessages(msgs, api.FormatMessagesOptions{Kind: kind})
	for i := range out {
		out[i] = strings.TrimSpace(out[i])
	}
	return out
}

// Build runs one build. Compile errors are reported on the returned stats;
// an error is returned only when the build could not run at all.
func (b *ESBuild) Build(ctx context.Context, cfg *models.BuildConfig) (*models.BuildStats, error) {
	if cfg == nil {
		return nil, fmt.Errorf("missing build config")
	}
	if len(cfg.Entry) == 0 {
		return nil, fmt.Errorf("build config has no entry")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build cancelled: %w", err)
	}
	opts, err := b.options(cfg)
	if err != nil {
		return nil, err
	}

	bctx, cerr := api.Context(opts)
	if cerr != nil {
		msgs := formatMessages(cerr.Errors, api.ErrorMessage)
		return nil, fmt.Errorf("failed to create esbuild context: %s", strings.Join(msgs, "; "))
	}
	defer bctx.Dispose()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			bctx.Cancel()
		case <-done:
		}
	}()

	logger.Debug("Building %v into %s", cfg.Entry, opts.Outdir)
	result := bctx.Rebuild()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build cancelled: %w", err)
	}

	stats := &models.BuildStats{
		Errors:   formatMessages(result.Errors, api.ErrorMessage),
		Warnings: formatMessages(result.Warnings, api.WarningMessage),
	}
	if result.Metafile == "" {
		return stats, nil
	}

	var meta Metafile
	if err := json.Unmarshal([]byte(result.Metafile), &meta); err != nil {
		return nil, fmt.Errorf("failed to parse metafile: %w", err)
	}
	assets, err := collectAssets(&meta, opts.AbsWorkingDir, opts.Outdir)
	if err != nil {
		return nil, err
	}
	stats.Assets = assets
	return stats, nil
}

func collectAssets(meta *Metafile, workDir, outdir string) ([]models.Asset, error) {
	assets := make([]models.Asset, 0, len(meta.Outputs))
	for out, info := range meta.Outputs {
		abs := filepath.Join(workDir, filepath.FromSlash(out))
		name, err := filepath.Rel(outdir, abs)
		if err != nil {
			return nil, fmt.Errorf("failed to relate %s to %s: %w", out, outdir, err)
		}
		size := info.Bytes
		if fi, err := os.Stat(abs); err == nil {
			size = int(fi.Size())
		}
		assets = append(assets, models.Asset{Name: filepath.ToSlash(name), Size: size})
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Name < assets[j].Name })
	return assets, nil
}
