package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tristendillon/weexscan/core/logger"
	"github.com/tristendillon/weexscan/core/report"
)

var (
	format     string
	printEntry bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Build the app and report the plugin packages it uses",
	Long: `Runs the configured build with template instrumentation, scans the emitted
bundle for requireModule calls and reports the resolved plugin packages.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if format != "" && format != "table" {
			logger.SetWriterForAll(os.Stderr)
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		p := newPipeline(cfg, entryWriter(cfg, printEntry))
		res, err := p.Run(cmd.Context(), &cfg.Build)
		if err != nil {
			return err
		}

		if err := report.Render(os.Stdout, res, format); err != nil {
			return err
		}
		if printEntry && cfg.Output == "" && res.Entry != "" {
			fmt.Print("\n" + res.Entry)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	addScanFlags(scanCmd)
	scanCmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, md, json or yaml")
	scanCmd.Flags().BoolVar(&printEntry, "print-entry", false, "Print the entry source when no output is set")
	scanCmd.Flags().Bool("minify", false, "Minify the build")
	scanCmd.Flags().String("out-dir", "", "Build output directory")
}
