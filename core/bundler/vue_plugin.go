package bundler

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/tristendillon/weexscan/core/instrument"
	"github.com/tristendillon/weexscan/core/logger"
	"github.com/tristendillon/weexscan/core/models"
	"github.com/tristendillon/weexscan/core/vue"
)

const defaultVueFilter = `\.vue$`

// vuePlugin stands in for the template loader: every matched single file
// component has its template walked by the rule's compiler modules before
// the component is handed to esbuild as a JavaScript module.
func vuePlugin(cfg *models.BuildConfig) api.Plugin {
	rules := instrument.TemplateRules(cfg)
	return api.Plugin{
		Name: "weexscan-vue",
		Setup: func(build api.PluginBuild) {
			if len(rules) == 0 {
				build.OnLoad(api.OnLoadOptions{Filter: defaultVueFilter}, loadComponent(nil, nil))
				return
			}
			for _, rule := range rules {
				filter := rule.Test
				if filter == "" {
					filter = defaultVueFilter
				}
				var exclude *regexp.Regexp
				if rule.Exclude != "" {
					re, err := regexp.Compile(rule.Exclude)
					if err != nil {
						logger.Warn("Ignoring invalid exclude pattern %q: %v", rule.Exclude, err)
					} else {
						exclude = re
					}
				}
				mods := instrument.CompilerModules(cfg, rule)
				build.OnLoad(api.OnLoadOptions{Filter: filter}, loadComponent(mods, exclude))
			}
		},
	}
}

func loadComponent(mods []models.CompilerModule, exclude *regexp.Regexp) func(api.OnLoadArgs) (api.OnLoadResult, error) {
	return func(args api.OnLoadArgs) (api.OnLoadResult, error) {
		if exclude != nil && exclude.MatchString(args.Path) {
			return api.OnLoadResult{}, nil
		}
		src, err := os.ReadFile(args.Path)
		if err != nil {
			return api.OnLoadResult{}, fmt.Errorf("failed to read %s: %w", args.Path, err)
		}
		sfc, err := vue.ParseSFC(src)
		if err != nil {
			return api.OnLoadResult{}, fmt.Errorf("failed to parse %s: %w", args.Path, err)
		}
		if sfc.Template != nil {
			if _, err := vue.WalkTemplate(sfc.Template.Content, mods); err != nil {
				return api.OnLoadResult{}, fmt.Errorf("failed to compile template of %s: %w", args.Path, err)
			}
		}
		contents, err := sfc.Module()
		if err != nil {
			return api.OnLoadResult{}, err
		}

		loader := api.LoaderJS
		if sfc.Script != nil {
			switch sfc.Script.Lang() {
			case "ts":
				loader = api.LoaderTS
			case "tsx":
				loader = api.LoaderTSX
			case "jsx":
				loader = api.LoaderJSX
			}
		}
		return api.OnLoadResult{
			Contents:   &contents,
			ResolveDir: filepath.Dir(args.Path),
			Loader:     loader,
		}, nil
	}
}
