package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tristendillon/weexscan/core/instrument"
	"github.com/tristendillon/weexscan/core/models"
)

type staticSource struct{ desc *models.Descriptor }

func (s staticSource) Fetch(context.Context) *models.Descriptor { return s.desc }

func descriptor() *models.Descriptor {
	return &models.Descriptor{
		BuiltIn: models.PackageSet{
			Component: map[string]string{"text": "weex-vue-text", "div": "weex-vue-div", "slider": "weex-vue-slider"},
			Module:    map[string]string{"modal": "weex-vue-modal", "stream": "weex-vue-stream"},
		},
		Ali: &models.PackageSet{
			Component: map[string]string{"richtext": "@ali/weex-vue-richtext"},
		},
		Ignore: []string{"div"},
	}
}

// fakeBuilder visits tags with the injected compiler modules and writes
// the given bundle to <outdir>/main.js.
type fakeBuilder struct {
	dir    string
	tags   []string
	bundle string
	err    error
	stats  models.BuildStats
	got    *models.BuildConfig
}

func (b *fakeBuilder) Build(_ context.Context, cfg *models.BuildConfig) (*models.BuildStats, error) {
	b.got = cfg
	if b.err != nil {
		return nil, b.err
	}
	for _, rule := range instrument.TemplateRules(cfg) {
		for _, m := range instrument.CompilerModules(cfg, rule) {
			for _, tag := range b.tags {
				m.PostTransformNode(&models.Element{Tag: tag})
			}
		}
	}
	out := filepath.Join(b.dir, cfg.Output.Path)
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(out, "main.js"), []byte(b.bundle), 0o644); err != nil {
		return nil, err
	}
	stats := b.stats
	stats.Assets = append(stats.Assets, models.Asset{Name: "main.js", Size: len(b.bundle)})
	return &stats, nil
}

type fakeEnsurer struct {
	got   []string
	peers map[string]string
	err   error
}

func (e *fakeEnsurer) Ensure(_ context.Context, pkgs []string) (map[string]string, error) {
	e.got = pkgs
	return e.peers, e.err
}

func buildConfig() *models.BuildConfig {
	return &models.BuildConfig{
		Entry:  []string{"./src/main.js"},
		Output: models.OutputConfig{Path: "dist"},
		Module: &models.ModuleConfig{Rules: []models.Rule{
			{Test: `\.vue$`, Use: []models.UseEntry{{Loader: "vue-loader", Bare: true}}},
		}},
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	b := &fakeBuilder{
		dir:    dir,
		tags:   []string{"div", "text", "text", "richtext", "custom"},
		bundle: "weex.requireModule('modal').toast({}); weex.requireModule('unknown')",
		stats:  models.BuildStats{Errors: []string{"src/Broken.vue: oops"}},
	}
	ensurer := &fakeEnsurer{peers: map[string]string{"weex-vue-event": "^0.1.0", "weex-vue-render": "^1.0.0"}}
	cfg := buildConfig()

	p := New(
		WithWorkDir(dir),
		WithMetadata(staticSource{descriptor()}),
		WithBuilder(b),
		WithInstaller(ensurer),
		WithEntryWriter(ReturnEntryWriter{}),
	)
	res, err := p.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"text": "weex-vue-text"}, res.Components)
	assert.Equal(t, map[string]string{"modal": "weex-vue-modal"}, res.Modules)
	assert.Equal(t, []string{"weex-vue-text", "weex-vue-modal"}, res.Pkgs)
	assert.Equal(t, res.Pkgs, ensurer.got)
	assert.Equal(t, ensurer.peers, res.PeerDependencies)
	assert.Equal(t, 2, res.AllTags["text"])
	assert.Equal(t, 1, res.AllTags["custom"])
	assert.NotContains(t, res.AllTags, "div")
	assert.Equal(t, `import 'weex-vue-event'
import textMod from 'weex-vue-text'
import modalMod from 'weex-vue-modal'
export default [
  textMod,
  modalMod
]
`, res.Entry)

	assert.True(t, cfg.Module.Rules[0].Use[0].Bare, "caller config is not mutated")
	assert.False(t, b.got.Module.Rules[0].Use[0].Bare)
}

func TestRun_Ali(t *testing.T) {
	dir := t.TempDir()
	b := &fakeBuilder{dir: dir, tags: []string{"richtext"}}
	p := New(WithWorkDir(dir), WithMetadata(staticSource{descriptor()}), WithBuilder(b), WithAli(true))

	res, err := p.Run(context.Background(), buildConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"@ali/weex-vue-richtext"}, res.Pkgs)
	assert.Empty(t, res.Entry)
}

func TestRun_FileEntryWriter(t *testing.T) {
	dir := t.TempDir()
	b := &fakeBuilder{dir: dir, tags: []string{"text"}}
	entry := filepath.Join(dir, "src", "plugins.js")
	p := New(WithWorkDir(dir), WithMetadata(staticSource{descriptor()}), WithBuilder(b),
		WithEntryWriter(FileEntryWriter{Path: entry}))

	res, err := p.Run(context.Background(), buildConfig())
	require.NoError(t, err)

	content, err := os.ReadFile(entry)
	require.NoError(t, err)
	assert.Equal(t, res.Entry, string(content))
	assert.Contains(t, res.Entry, "import textMod from 'weex-vue-text'")
}

func TestRun_NoPackagesSkipsInstallAndEntry(t *testing.T) {
	dir := t.TempDir()
	b := &fakeBuilder{dir: dir, tags: []string{"div"}}
	ensurer := &fakeEnsurer{}
	entry := filepath.Join(dir, "plugins.js")
	p := New(WithWorkDir(dir), WithMetadata(staticSource{descriptor()}), WithBuilder(b),
		WithInstaller(ensurer), WithEntryWriter(FileEntryWriter{Path: entry}))

	res, err := p.Run(context.Background(), buildConfig())
	require.NoError(t, err)
	assert.Empty(t, res.Pkgs)
	assert.Nil(t, ensurer.got)
	assert.NoFileExists(t, entry)
}

func TestRun_MissingRules(t *testing.T) {
	b := &fakeBuilder{dir: t.TempDir()}
	p := New(WithMetadata(staticSource{descriptor()}), WithBuilder(b))

	res, err := p.Run(context.Background(), &models.BuildConfig{Entry: []string{"x.js"}})
	require.NoError(t, err)
	assert.Empty(t, res.Pkgs)
	assert.Empty(t, res.Components)
	assert.Nil(t, b.got, "no build runs")
}

func TestRun_BuildFailure(t *testing.T) {
	b := &fakeBuilder{dir: t.TempDir(), err: errors.New("esbuild exploded")}
	p := New(WithMetadata(staticSource{descriptor()}), WithBuilder(b))

	_, err := p.Run(context.Background(), buildConfig())
	assert.ErrorContains(t, err, "esbuild exploded")

	_, err = p.Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestRun_InstallFailure(t *testing.T) {
	dir := t.TempDir()
	b := &fakeBuilder{dir: dir, tags: []string{"text"}}
	p := New(WithWorkDir(dir), WithMetadata(staticSource{descriptor()}), WithBuilder(b),
		WithInstaller(&fakeEnsurer{err: errors.New("registry down")}))

	_, err := p.Run(context.Background(), buildConfig())
	assert.ErrorContains(t, err, "registry down")
}

func TestRun_WithESBuild(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "App.vue"), []byte(`<template>
  <div><slider><text>hi</text></slider></div>
</template>
<script>
export default {
  created() { weex.requireModule('stream').fetch({}) }
}
</script>
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.js"),
		[]byte("import App from './App.vue'\nglobalThis.App = App\n"), 0o644))

	p := New(WithWorkDir(dir), WithMetadata(staticSource{descriptor()}))
	res, err := p.Run(context.Background(), buildConfig())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"slider": "weex-vue-slider", "text": "weex-vue-text"}, res.Components)
	assert.Equal(t, map[string]string{"stream": "weex-vue-stream"}, res.Modules)
	assert.Equal(t, []string{"weex-vue-slider", "weex-vue-text", "weex-vue-stream"}, res.Pkgs)
}

func TestScanAssets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"),
		[]byte("weex.requireModule('stream'); weex.requireModule('modal'); weex.requireModule('modal')"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.css"), []byte(".a{}"), 0o644))

	p := New(WithMetadata(staticSource{descriptor()}))
	res, err := p.ScanAssets(context.Background(), dir)
	require.NoError(t, err)

	assert.Empty(t, res.Components)
	assert.Equal(t, map[string]string{"modal": "weex-vue-modal", "stream": "weex-vue-stream"}, res.Modules)
	assert.Equal(t, []string{"weex-vue-modal", "weex-vue-stream"}, res.Pkgs)

	_, err = p.ScanAssets(context.Background(), filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
