package instrument

import (
	"errors"
	"regexp"

	"github.com/tristendillon/weexscan/core/logger"
	"github.com/tristendillon/weexscan/core/models"
)

var ErrMissingRules = errors.New("build config missing module rules")

var templateLoaderPattern = regexp.MustCompile(`(^|[/\\!])vue(-loader)?($|[?!/\\])`)

// IsTemplateLoader reports whether a loader name refers to the Vue
// template compiler loader.
func IsTemplateLoader(name string) bool {
	return templateLoaderPattern.MatchString(name)
}

func withModule(opts *models.LoaderOptions, mod models.CompilerModule) *models.LoaderOptions {
	if opts == nil {
		opts = &models.LoaderOptions{}
	}
	opts.CompilerModules = append(opts.CompilerModules, mod)
	return opts
}

// Inject appends mod to every template compiler loader in cfg. It returns
// the number of loaders instrumented.
func Inject(cfg *models.BuildConfig, mod models.CompilerModule) (int, error) {
	if cfg == nil || cfg.Module == nil || (cfg.Module.Rules == nil && cfg.Module.Loaders == nil) {
		return 0, ErrMissingRules
	}

	if cfg.Module.Rules == nil {
		// webpack 1: compiler options live at the top level.
		cfg.Vue = withModule(cfg.Vue, mod)
		logger.Debug("Instrumented legacy vue options")
		return 1, nil
	}

	count := 0
	for i := range cfg.Module.Rules {
		rule := &cfg.Module.Rules[i]
		if rule.Loader != "" && IsTemplateLoader(rule.Loader) {
			rule.Options = withModule(rule.Options, mod)
			count++
		}
		for j := range rule.Use {
			use := &rule.Use[j]
			if !IsTemplateLoader(use.Loader) {
				continue
			}
			if use.Bare {
				use.Options = &models.LoaderOptions{}
				use.Bare = false
			}
			use.Options = withModule(use.Options, mod)
			count++
		}
	}
	logger.Debug("Instrumented %d template loader(s)", count)
	return count, nil
}

// CompilerModules returns the compiler modules configured for the
// template loader of rule, falling back to the legacy top-level options.
func CompilerModules(cfg *models.BuildConfig, rule models.Rule) []models.CompilerModule {
	var mods []models.CompilerModule
	if IsTemplateLoader(rule.Loader) {
		if rule.Options != nil {
			mods = append(mods, rule.Options.CompilerModules...)
		}
		if cfg.Module != nil && cfg.Module.Rules == nil && cfg.Vue != nil {
			mods = append(mods, cfg.Vue.CompilerModules...)
		}
	}
	for _, use := range rule.Use {
		if IsTemplateLoader(use.Loader) && use.Options != nil {
			mods = append(mods, use.Options.CompilerModules...)
		}
	}
	return mods
}

// TemplateRules lists the rules that compile Vue templates.
func TemplateRules(cfg *models.BuildConfig) []models.Rule {
	if cfg == nil || cfg.Module == nil {
		return nil
	}
	rules := cfg.Module.Rules
	if rules == nil {
		rules = cfg.Module.Loaders
	}
	var out []models.Rule
	for _, r := range rules {
		if IsTemplateLoader(r.Loader) {
			out = append(out, r)
			continue
		}
		for _, u := range r.Use {
			if IsTemplateLoader(u.Loader) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
