package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tristendillon/weexscan/core/config"
	"github.com/tristendillon/weexscan/core/dependency"
	"github.com/tristendillon/weexscan/core/logger"
	"github.com/tristendillon/weexscan/core/metadata"
	"github.com/tristendillon/weexscan/core/pipeline"
	"github.com/tristendillon/weexscan/core/scanner"
)

// addScanFlags registers the flags that override scan configuration. The
// flag names map onto config keys in core/config.
func addScanFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Bool("ali", false, "Include the ali component and module catalogue")
	f.StringP("output", "o", "", "Write the entry file to this path")
	f.Bool("install", false, "Install missing plugin packages")
	f.Bool("install-deps", false, "Also install the plugins' peer dependencies")
	f.Bool("install-core", false, "Allow installing the render core as a peer dependency")
	f.String("metadata-url", metadata.DefaultURL, "Component and module metadata URL")
	f.Duration("metadata-timeout", metadata.DefaultTimeout, "Metadata request timeout")
	f.String("namespace", "", "Only count <namespace>.requireModule(...) calls")
	f.String("project-dir", "", "Project root used for builds and installs")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		logger.SetVerbose(true)
	}
	logger.Debug("Config: %+v", *cfg)
	return cfg, nil
}

func newInstaller(cfg *config.Config) *dependency.Installer {
	return dependency.NewInstaller(
		dependency.NewManifestResolver(cfg.ProjectDir),
		dependency.NewExecPackageManager(cfg.ProjectDir, cfg.Registries),
		dependency.Options{
			InstallPeerDependencies: cfg.AllowInstallPluginDependencies,
			InstallRenderCore:       cfg.AllowInstallRenderCore,
		},
	)
}

func newPipeline(cfg *config.Config, entry pipeline.EntryWriter) *pipeline.Pipeline {
	opts := []pipeline.Option{
		pipeline.WithWorkDir(cfg.ProjectDir),
		pipeline.WithAli(cfg.Ali),
		pipeline.WithMetadata(metadata.NewFetcher(cfg.MetadataURL, cfg.MetadataTimeout)),
		pipeline.WithScanner(scanner.New(scanner.WithNamespace(cfg.RequireNamespace))),
	}
	if cfg.AllowInstallPlugins {
		opts = append(opts, pipeline.WithInstaller(newInstaller(cfg)))
	}
	if entry != nil {
		opts = append(opts, pipeline.WithEntryWriter(entry))
	}
	return pipeline.New(opts...)
}

// entryWriter writes to the configured output, or only renders the entry
// when it should be printed instead.
func entryWriter(cfg *config.Config, print bool) pipeline.EntryWriter {
	if cfg.Output != "" {
		return pipeline.FileEntryWriter{Path: cfg.Output}
	}
	if print {
		return pipeline.ReturnEntryWriter{}
	}
	return nil
}
