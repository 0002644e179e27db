package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tristendillon/weexscan/core/models"
)

func result() *models.Result {
	return &models.Result{
		Components:       map[string]string{"text": "weex-vue-text"},
		Modules:          map[string]string{"modal": "weex-vue-modal"},
		Pkgs:             []string{"weex-vue-text", "weex-vue-modal"},
		PeerDependencies: map[string]string{"weex-vue-event": "^0.1.0"},
		AllTags:          models.Counter{"text": 3, "div": 2, "my-widget": 1},
		Entry:            "export default []",
	}
}

func TestRender_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, result(), "table"))
	out := buf.String()
	assert.Contains(t, out, "weex-vue-text")
	assert.Contains(t, out, "weex-vue-modal")
	assert.Contains(t, out, "weex-vue-event")
	assert.Contains(t, out, "2 package(s)")
	assert.NotContains(t, out, "PACKAGE(S)")
	assert.Contains(t, out, "Unmapped tags: div, my-widget")
}

func TestRender_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, result(), "md"))
	assert.Contains(t, buf.String(), "| component | text | weex-vue-text | 3 |")
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, models.NewResult(), ""))
	assert.Equal(t, "(no plugin packages used)\n", buf.String())
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, result(), "json"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []any{"weex-vue-text", "weex-vue-modal"}, got["pkgs"])
	assert.Equal(t, map[string]any{"weex-vue-event": "^0.1.0"}, got["peerDependencies"])
	assert.NotContains(t, got, "Entry")
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, result(), "yaml"))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, map[string]any{"text": "weex-vue-text"}, got["components"])
}

func TestRender_UnknownFormat(t *testing.T) {
	assert.ErrorContains(t, Render(&bytes.Buffer{}, result(), "xml"), "unknown format")
}
