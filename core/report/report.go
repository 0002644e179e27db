// Package report renders a scan result for the terminal or for tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/tristendillon/weexscan/core/models"
)

var Formats = []string{"table", "md", "json", "yaml"}

func Render(w io.Writer, res *models.Result, format string) error {
	switch strings.ToLower(format) {
	case "", "table":
		return renderTable(w, res, false)
	case "md", "markdown":
		return renderTable(w, res, true)
	case "json":
		return renderJSON(w, res)
	case "yaml", "yml":
		return renderYAML(w, res)
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Unmapped lists the tags that were seen but did not resolve to a package.
func Unmapped(res *models.Result) []string {
	var out []string
	for _, tag := range res.AllTags.Used() {
		if _, ok := res.Components[tag]; !ok {
			out = append(out, tag)
		}
	}
	return out
}

func renderTable(w io.Writer, res *models.Result, markdown bool) error {
	if len(res.Pkgs) == 0 {
		_, _ = fmt.Fprintln(w, "(no plugin packages used)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"Kind", "Name", "Package", "Uses"})

	for _, tag := range sortedKeys(res.Components) {
		t.AppendRow(table.Row{"component", tag, res.Components[tag], res.AllTags.Get(tag)})
	}
	if len(res.Components) > 0 && len(res.Modules) > 0 {
		t.AppendSeparator()
	}
	for _, name := range sortedKeys(res.Modules) {
		t.AppendRow(table.Row{"module", name, res.Modules[name], ""})
	}
	if len(res.PeerDependencies) > 0 {
		t.AppendSeparator()
		for _, name := range sortedKeys(res.PeerDependencies) {
			t.AppendRow(table.Row{"peer", name, res.PeerDependencies[name], ""})
		}
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d package(s)", len(res.Pkgs)), ""})

	if markdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}

	if unmapped := Unmapped(res); len(unmapped) > 0 {
		_, _ = fmt.Fprintf(w, "\nUnmapped tags: %s\n", strings.Join(unmapped, ", "))
	}
	return nil
}

func renderJSON(w io.Writer, res *models.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func renderYAML(w io.Writer, res *models.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return err
	}
	return enc.Close()
}
