package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tristendillon/weexscan/core/logger"
	"github.com/tristendillon/weexscan/core/report"
)

var assetsCmd = &cobra.Command{
	Use:   "assets <dir>",
	Short: "Scan an existing build output for requested modules",
	Long: `Scans the bundles in an existing output directory for requireModule calls
without running a build. Template tags are not counted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assetsFormat, _ := cmd.Flags().GetString("format")
		if assetsFormat != "" && assetsFormat != "table" {
			logger.SetWriterForAll(os.Stderr)
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		res, err := newPipeline(cfg, entryWriter(cfg, false)).ScanAssets(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return report.Render(os.Stdout, res, assetsFormat)
	},
}

func init() {
	rootCmd.AddCommand(assetsCmd)

	addScanFlags(assetsCmd)
	assetsCmd.Flags().StringP("format", "f", "table", "Output format: table, md, json or yaml")
}
