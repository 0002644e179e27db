package models

// Element is a template node as seen by compiler modules.
type Element struct {
	Tag   string
	Attrs map[string]string
	Depth int
}

// CompilerModule is a hook run by the template compiler for every element
// it visits.
type CompilerModule interface {
	PostTransformNode(el *Element)
}

// BuildConfig is the webpack-shaped build description handed to the host
// bundler.
type BuildConfig struct {
	Entry     []string          `koanf:"entry"`
	Output    OutputConfig      `koanf:"output"`
	Module    *ModuleConfig     `koanf:"module"`
	Vue       *LoaderOptions    `koanf:"vue"`
	Externals []string          `koanf:"externals"`
	Define    map[string]string `koanf:"define"`
	Loader    map[string]string `koanf:"loader"`
	Target    string            `koanf:"target"`
	Minify    bool              `koanf:"minify"`
}

type OutputConfig struct {
	Path     string `koanf:"path"`
	Filename string `koanf:"filename"`
	Format   string `koanf:"format"`
}

// ModuleConfig holds either webpack 2+ rules or webpack 1 loaders.
type ModuleConfig struct {
	Rules   []Rule `koanf:"rules"`
	Loaders []Rule `koanf:"loaders"`
}

type Rule struct {
	Test    string         `koanf:"test"`
	Exclude string         `koanf:"exclude"`
	Loader  string         `koanf:"loader"`
	Options *LoaderOptions `koanf:"options"`
	Use     []UseEntry     `koanf:"use"`
}

// UseEntry is one loader in a rule's use chain. Bare is set when the entry
// was written as a plain loader name.
type UseEntry struct {
	Loader  string         `koanf:"loader"`
	Options *LoaderOptions `koanf:"options"`
	Bare    bool           `koanf:"-"`
}

type LoaderOptions struct {
	CompilerModules []CompilerModule `koanf:"-"`
	Settings        map[string]any   `koanf:",remain"`
}

func (o *LoaderOptions) Clone() *LoaderOptions {
	if o == nil {
		return nil
	}
	out := &LoaderOptions{
		CompilerModules: append([]CompilerModule(nil), o.CompilerModules...),
	}
	if o.Settings != nil {
		out.Settings = make(map[string]any, len(o.Settings))
		for k, v := range o.Settings {
			out.Settings[k] = v
		}
	}
	return out
}

func (r Rule) clone() Rule {
	out := r
	out.Options = r.Options.Clone()
	if r.Use != nil {
		out.Use = make([]UseEntry, len(r.Use))
		for i, u := range r.Use {
			u.Options = u.Options.Clone()
			out.Use[i] = u
		}
	}
	return out
}

// Clone returns a deep copy so instrumentation never leaks into the
// caller's configuration.
func (c *BuildConfig) Clone() *BuildConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.Entry = append([]string(nil), c.Entry...)
	out.Externals = append([]string(nil), c.Externals...)
	out.Vue = c.Vue.Clone()
	if c.Define != nil {
		out.Define = make(map[string]string, len(c.Define))
		for k, v := range c.Define {
			out.Define[k] = v
		}
	}
	if c.Loader != nil {
		out.Loader = make(map[string]string, len(c.Loader))
		for k, v := range c.Loader {
			out.Loader[k] = v
		}
	}
	if c.Module != nil {
		mod := &ModuleConfig{}
		if c.Module.Rules != nil {
			mod.Rules = make([]Rule, 0, len(c.Module.Rules))
		}
		if c.Module.Loaders != nil {
			mod.Loaders = make([]Rule, 0, len(c.Module.Loaders))
		}
		for _, r := range c.Module.Rules {
			mod.Rules = append(mod.Rules, r.clone())
		}
		for _, r := range c.Module.Loaders {
			mod.Loaders = append(mod.Loaders, r.clone())
		}
		out.Module = mod
	}
	return &out
}
