package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tristendillon/weexscan/core/bundler"
	"github.com/tristendillon/weexscan/core/logger"
	"github.com/tristendillon/weexscan/core/report"
	"github.com/tristendillon/weexscan/core/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rescan whenever the app sources change",
	Long: `Runs a scan, then watches the project directory and runs a full scan again
each time sources change. The build output and the entry file are not watched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		p := newPipeline(cfg, entryWriter(cfg, false))

		root, err := filepath.Abs(cfg.ProjectDir)
		if err != nil {
			return fmt.Errorf("failed to resolve project dir: %w", err)
		}
		outPath := cfg.Build.Output.Path
		if outPath == "" {
			outPath = bundler.DefaultOutputPath
		}
		entryPath := ""
		if cfg.Output != "" {
			if entryPath, err = filepath.Abs(cfg.Output); err != nil {
				return fmt.Errorf("failed to resolve entry path: %w", err)
			}
		}
		exclude := watcher.ExcludeRelative(root, outPath, entryPath)

		fw, err := watcher.NewFileWatcher(root, exclude)
		if err != nil {
			return err
		}
		defer fw.Close()

		run := func() error {
			res, err := p.Run(ctx, &cfg.Build)
			if err != nil {
				return err
			}
			return report.Render(os.Stdout, res, "table")
		}
		fw.FileWatcher.AddOnStartFunc(run)
		fw.FileWatcher.AddOnChangeFunc(run)
		fw.FileWatcher.AddOnCloseFunc(func() error {
			logger.Info("Stopped watching %s", root)
			return nil
		})

		logger.Info("Watching %s", root)
		return fw.Watch(ctx)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	addScanFlags(watchCmd)
}
