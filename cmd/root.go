/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tristendillon/weexscan/core/logger"
)

var rootCmd = &cobra.Command{
	Use:   "weexscan",
	Short: "Find the weex-vue plugin packages a Vue/Weex app needs.",
	Long: `weexscan builds a Vue/Weex app, records the component tags its templates use
and the native modules its bundle requests, and resolves them to the weex-vue
plugin packages that implement them. It can install those packages and write
an entry file that registers them with the render core.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verbose)
		if logfile == "" {
			return nil
		}
		f, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFileHandle = f
		logger.AddWriterForAll(f)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFileHandle != nil {
			_ = logFileHandle.Close()
		}
	},
}

var cfgFile string
var logfile string
var logFileHandle *os.File
var verbose bool

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default weexscan.yaml)")
	rootCmd.PersistentFlags().StringVar(&logfile, "logfile", "", "File to write logs to")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
}
