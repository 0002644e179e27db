/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tristendillon/weexscan/core/config"
	"github.com/tristendillon/weexscan/core/logger"
	"github.com/tristendillon/weexscan/core/metadata"
	"github.com/tristendillon/weexscan/core/template_engine"
)

var (
	force      bool
	initAli    bool
	initEntry  string
	initOutput string
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a starter weexscan.yaml",
	Long:  `Creates a weexscan.yaml with the default build and scan settings in dir (default: current directory).`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("init called")
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		path := filepath.Join(dir, config.FileNames[0])
		if _, err := os.Stat(path); err == nil {
			if !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			logger.Debug("%s already exists. Overwriting.", path)
		}

		defaults := config.Default()
		data := map[string]any{
			"Ali":                 initAli,
			"Output":              initOutput,
			"ProjectDir":          ".",
			"AllowInstallPlugins": false,
			"MetadataURL":         metadata.DefaultURL,
			"Entry":               initEntry,
			"OutDir":              defaults.Build.Output.Path,
		}
		engine := template_engine.NewTemplateEngine()
		if err := engine.GenerateFile(template_engine.TEMPLATES.INIT.Config, path, data); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		fmt.Printf("Successfully wrote %s\n", path)
		fmt.Printf("Next Steps:\n")
		fmt.Printf("  - check build.entry and build.module.rules in %s\n", path)
		fmt.Printf("  - weexscan scan\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&force, "force", false, "Force overwrite existing files")
	initCmd.Flags().BoolVar(&initAli, "ali", false, "Include the ali catalogue")
	initCmd.Flags().StringVar(&initEntry, "entry", "./src/entry.js", "Build entry point")
	initCmd.Flags().StringVarP(&initOutput, "output", "o", "", "Entry file to write")
}
