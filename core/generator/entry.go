// Package generator emits the entry file that registers the resolved
// plugin packages with the render core.
package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tristendillon/weexscan/core/dependency"
	"github.com/tristendillon/weexscan/core/logger"
	"github.com/tristendillon/weexscan/core/shared"
	"github.com/tristendillon/weexscan/core/template_engine"
)

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9_$]`)

// ModName derives the import identifier of a package:
// weex-vue-text is textMod, @ali/weex-vue-richtext is aliRichtextMod.
func ModName(pkg string) string {
	name := pkg
	if strings.HasPrefix(name, "@") {
		if i := strings.Index(name, "/"); i > 0 {
			name = name[1:i] + "-" + name[i+1:]
		}
	}
	name = strings.Replace(name, "weex-vue-", "", 1)
	name = nonIdent.ReplaceAllString(shared.ToCamel(name), "")
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name + "Mod"
}

type entryImport struct {
	Name    string
	Package string
}

type entryData struct {
	PeerImports []string
	Imports     []entryImport
	Names       []string
}

func newEntryData(pkgs []string, peers map[string]string) entryData {
	data := entryData{}
	inPkgs := make(map[string]bool, len(pkgs))
	used := make(map[string]int, len(pkgs))
	for _, pkg := range pkgs {
		if inPkgs[pkg] {
			continue
		}
		inPkgs[pkg] = true

		name := ModName(pkg)
		if n := used[name]; n > 0 {
			used[name] = n + 1
			name += strconv.Itoa(n + 1)
		} else {
			used[name] = 1
		}
		data.Imports = append(data.Imports, entryImport{Name: name, Package: pkg})
		data.Names = append(data.Names, name)
	}

	for peer := range peers {
		if dependency.IsExcludedPeer(peer) || inPkgs[peer] {
			continue
		}
		data.PeerImports = append(data.PeerImports, peer)
	}
	sort.Strings(data.PeerImports)
	return data
}

// RenderEntry returns the entry source registering pkgs, preceded by a bare
// import of every peer dependency that is not part of the render core.
func RenderEntry(pkgs []string, peers map[string]string) (string, error) {
	engine := template_engine.NewTemplateEngine()
	out, err := engine.Render(template_engine.TEMPLATES.ENTRY.JS, newEntryData(pkgs, peers))
	if err != nil {
		return "", fmt.Errorf("failed to render entry: %w", err)
	}
	return out, nil
}

// Emit writes the entry source to path and returns it.
func Emit(path string, pkgs []string, peers map[string]string) (string, error) {
	src, err := RenderEntry(pkgs, peers)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create entry directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		return "", fmt.Errorf("failed to write entry %s: %w", path, err)
	}
	logger.Info("Entry file written to %s", path)
	return src, nil
}
