// Root command for the pantry CLI.
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Version is stamped at build time via -ldflags.
var Version = "0.1.0-dev"

// Global flag values.
var (
	flagConfigDir string
	flagBaseURL   string
	flagJSON      bool
	flagVerbose   bool
)

// logger is configured by PersistentPreRunE so all subcommands share it.
var logger *slog.Logger

var rootCmd = &cobra.Command{
	Use:     "pantry",
	Short:   "Pantry is a reactive todo client",
	Version: Version,
	Long: `Pantry keeps a local reactive store of todos synced against a remote
HTTP API. Commands run actions through the store and print the projections
that result.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		if flagBaseURL == "" {
			flagBaseURL = cfg.GetString(cfgKeyBaseURL)
		}
		callTimeout = time.Duration(cfg.GetInt(cfgKeyTimeoutMS)) * time.Millisecond
		logger = newLogger(flagVerbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.pantry)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "API base URL (overrides config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(removeCmd)
}

// resolveConfigDir returns the configuration directory following the
// precedence --config-dir flag > PANTRY_CONFIG_DIR env > $(CWD)/.pantry.
func resolveConfigDir() (string, error) {
	if flagConfigDir != "" {
		return flagConfigDir, nil
	}
	if v := os.Getenv("PANTRY_CONFIG_DIR"); v != "" {
		return v, nil
	}
	return ".pantry", nil
}

// newLogger builds a colorized slog handler when stderr is a terminal, plain
// text otherwise.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	w := os.Stderr
	if isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()) {
		return slog.New(tint.NewHandler(colorable.NewColorable(w), &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
