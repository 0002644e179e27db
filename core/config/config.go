// Package config loads weexscan.yaml, WEEXSCAN_ environment variables and
// command line flags into one Config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/tristendillon/weexscan/core/logger"
	"github.com/tristendillon/weexscan/core/metadata"
	"github.com/tristendillon/weexscan/core/models"
)

// Delim separates nested keys. Build options such as define and loader
// use dotted keys, so it cannot be ".".
const Delim = "::"

const EnvPrefix = "WEEXSCAN_"

// FileNames are looked up in the working directory when no config file is
// given.
var FileNames = []string{"weexscan.yaml", "weexscan.yml"}

type Config struct {
	// Ali merges the ali component and module catalogue.
	Ali bool `koanf:"ali"`
	// Output is the entry file path. Empty only reports.
	Output string `koanf:"output"`

	AllowInstallPlugins            bool `koanf:"allow_install_plugins"`
	AllowInstallPluginDependencies bool `koanf:"allow_install_plugin_dependencies"`
	AllowInstallRenderCore         bool `koanf:"allow_install_render_core"`

	MetadataURL     string        `koanf:"metadata_url"`
	MetadataTimeout time.Duration `koanf:"metadata_timeout"`

	// RequireNamespace restricts requireModule matches to one receiver.
	RequireNamespace string `koanf:"require_namespace"`

	ProjectDir string `koanf:"project_dir"`
	// Registries maps a package scope prefix to its install tool.
	Registries map[string]string `koanf:"registries"`

	Build   models.BuildConfig `koanf:"build"`
	Verbose bool               `koanf:"verbose"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"ali":                               false,
		"output":                            "",
		"allow_install_plugins":             false,
		"allow_install_plugin_dependencies": false,
		"allow_install_render_core":         false,
		"metadata_url":                      metadata.DefaultURL,
		"metadata_timeout":                  metadata.DefaultTimeout.String(),
		"require_namespace":                 "",
		"project_dir":                       ".",
		"registries":                        map[string]interface{}{"@ali/": "tnpm"},
		"build::entry":                      []string{"./src/entry.js"},
		"build::output::path":               "dist",
		"build::output::filename":           "[name].js",
		"build::output::format":             "iife",
		"verbose":                           false,
	}
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	k := koanf.New(Delim)
	_ = k.Load(confmap.Provider(defaults(), Delim), nil)
	var cfg Config
	if err := unmarshal(k, &cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"ali":              "ali",
	"output":           "output",
	"install":          "allow_install_plugins",
	"install-deps":     "allow_install_plugin_dependencies",
	"install-core":     "allow_install_render_core",
	"metadata-url":     "metadata_url",
	"metadata-timeout": "metadata_timeout",
	"namespace":        "require_namespace",
	"project-dir":      "project_dir",
	"verbose":          "verbose",
	"minify":           "build::minify",
	"out-dir":          "build::output::path",
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range FileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// envKey turns WEEXSCAN_BUILD__OUTPUT__PATH into build::output::path.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", Delim)
}

// Load reads the configuration. Precedence, highest first: changed flags,
// environment variables, the config file, defaults.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(Delim)

	if err := k.Load(confmap.Provider(defaults(), Delim), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
		logger.Debug("Config file found: %s", used)
	} else {
		logger.Debug("No config file found, using defaults")
	}

	if err := k.Load(env.Provider(EnvPrefix, Delim, envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, Delim, k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !f.Changed || !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := unmarshal(k, &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used

	base := "."
	if used != "" {
		base = filepath.Dir(used)
	}
	cfg.ProjectDir = resolvePathRelativeTo(cfg.ProjectDir, base)
	cfg.Output = resolvePathRelativeTo(cfg.Output, cfg.ProjectDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.MetadataTimeout < 0 {
		return fmt.Errorf("metadata_timeout must not be negative")
	}
	if c.AllowInstallPluginDependencies && !c.AllowInstallPlugins {
		logger.Warn("allow_install_plugin_dependencies has no effect without allow_install_plugins")
	}
	return nil
}

func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func unmarshal(k *koanf.Koanf, cfg *Config) error {
	return k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				useEntryHook,
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           cfg,
			WeaklyTypedInput: true,
		},
	})
}

var (
	useEntryType     = reflect.TypeOf(models.UseEntry{})
	useEntryListType = reflect.TypeOf([]models.UseEntry{})
)

// useEntryHook accepts a loader written as a bare name, both as a single
// use entry and as the whole use list.
func useEntryHook(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	if f.Kind() != reflect.String {
		return data, nil
	}
	name := data.(string)
	switch t {
	case useEntryType:
		return models.UseEntry{Loader: name, Bare: true}, nil
	case useEntryListType:
		var out []models.UseEntry
		for _, part := range strings.Split(name, "!") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, models.UseEntry{Loader: part, Bare: true})
			}
		}
		return out, nil
	}
	return data, nil
}
