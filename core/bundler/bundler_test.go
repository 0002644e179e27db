package bundler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tristendillon/weexscan/core/instrument"
	"github.com/tristendillon/weexscan/core/models"
)

const appVue = `<template>
  <div>
    <text>hello</text>
    <image src="a.png"/>
    <my-widget></my-widget>
  </div>
</template>

<script>
export default {
  methods: {
    tap() {
      weex.requireModule('modal').toast({ message: 'hi' })
    }
  }
}
</script>

<style>
.a { color: red; }
</style>
`

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "App.vue"), []byte(appVue), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.js"), []byte(
		"import App from './App.vue'\nglobalThis.App = App\n"), 0o644))
	return dir
}

func buildConfig() *models.BuildConfig {
	return &models.BuildConfig{
		Entry:  []string{"./src/main.js"},
		Output: models.OutputConfig{Path: "dist", Filename: "[name].js"},
		Module: &models.ModuleConfig{Rules: []models.Rule{
			{Test: `\.vue$`, Use: []models.UseEntry{{Loader: "vue-loader", Bare: true}}},
		}},
	}
}

func TestESBuild_Build(t *testing.T) {
	dir := writeProject(t)
	cfg := buildConfig()
	state := instrument.NewState(models.Counter{"text": 0, "image": 0, "slider": 0})
	_, err := instrument.Inject(cfg, instrument.NewHook(state))
	require.NoError(t, err)

	stats, err := NewESBuild(dir).Build(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, stats.HasErrors(), "%v", stats.Errors)

	require.Len(t, stats.Assets, 1)
	assert.Equal(t, "main.js", stats.Assets[0].Name)
	assert.Positive(t, stats.Assets[0].Size)

	out, err := os.ReadFile(filepath.Join(dir, "dist", "main.js"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "requireModule")

	usage, seen := state.Snapshot()
	assert.Equal(t, 1, usage["text"])
	assert.Equal(t, 1, usage["image"])
	assert.Equal(t, 0, usage["slider"])
	assert.Equal(t, 1, seen["div"])
	assert.Equal(t, 1, seen["my-widget"])
}

func TestESBuild_CompileErrorsAreReported(t *testing.T) {
	dir := writeProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.js"), []byte(
		"import App from './App.vue'\nimport Missing from './missing.js'\nglobalThis.App = [App, Missing]\n"), 0o644))

	stats, err := NewESBuild(dir).Build(context.Background(), buildConfig())
	require.NoError(t, err)
	assert.True(t, stats.HasErrors())
	assert.Contains(t, stats.Errors[0], "missing.js")
}

func TestESBuild_InvalidOptions(t *testing.T) {
	dir := writeProject(t)
	b := NewESBuild(dir)

	_, err := b.Build(context.Background(), nil)
	assert.Error(t, err)

	cfg := buildConfig()
	cfg.Entry = nil
	_, err = b.Build(context.Background(), cfg)
	assert.Error(t, err)

	cfg = buildConfig()
	cfg.Output.Format = "amd"
	_, err = b.Build(context.Background(), cfg)
	assert.ErrorContains(t, err, "unsupported output format")

	cfg = buildConfig()
	cfg.Loader = map[string]string{".weird": "yaml"}
	_, err = b.Build(context.Background(), cfg)
	assert.ErrorContains(t, err, "unsupported loader")
}

func TestESBuild_CancelledContext(t *testing.T) {
	dir := writeProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewESBuild(dir).Build(ctx, buildConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEntryNames(t *testing.T) {
	assert.Equal(t, "[name]", entryNames(""))
	assert.Equal(t, "[name]", entryNames("[name].js"))
	assert.Equal(t, "[name].[hash]", entryNames("[name].[chunkhash].js"))
	assert.Equal(t, "bundle.weex", entryNames("bundle.weex.js"))
}

func TestCollectAssets(t *testing.T) {
	work := t.TempDir()
	meta := &Metafile{Outputs: map[string]MetafileOutput{
		"dist/b.js":        {Bytes: 20},
		"dist/nested/a.js": {Bytes: 10},
	}}
	assets, err := collectAssets(meta, work, filepath.Join(work, "dist"))
	require.NoError(t, err)
	assert.Equal(t, []models.Asset{{Name: "b.js", Size: 20}, {Name: "nested/a.js", Size: 10}}, assets)
}
