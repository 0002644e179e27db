package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tristendillon/weexscan/core/generator"
)

var emitCmd = &cobra.Command{
	Use:   "emit <pkg>...",
	Short: "Write an entry file for the given plugin packages",
	Long: `Writes the entry file registering the given packages, without building or
scanning. With --install the packages are installed first and their peer
dependencies are imported too.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		var peers map[string]string
		if cfg.AllowInstallPlugins {
			peers, err = newInstaller(cfg).Ensure(cmd.Context(), args)
			if err != nil {
				return fmt.Errorf("failed to install packages: %w", err)
			}
		}

		if cfg.Output != "" {
			_, err := generator.Emit(cfg.Output, args, peers)
			return err
		}
		src, err := generator.RenderEntry(args, peers)
		if err != nil {
			return err
		}
		fmt.Print(src)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(emitCmd)

	addScanFlags(emitCmd)
}
