package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/planview"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	debugMode bool
)

var rootCmd = &cobra.Command{
	Use:   "planview",
	Short: "Pan, zoom and inspect a floor plan with poster markers",
	Long: `planview shows a floor plan with pointer, touch and wheel navigation,
inertial panning and animated centering on markers. Tuning constants are
read from a YAML config file and PLANVIEW_* environment variables.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "planview.yml", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "panic on illegal interaction state")
}

// loadConfig reads the config named by --config.
func loadConfig() (planview.Config, error) {
	cfg, err := planview.LoadConfig(cfgFile)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// logger builds the logger named by --log-level and --log-format.
func logger() *slog.Logger {
	return newLogger(os.Stderr, logLevel, logFormat)
}
