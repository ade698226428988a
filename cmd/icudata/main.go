package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jchantrell/icudata/internal/config"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	cfgFile string

	dbPath         string
	formats        []string
	legacy         bool
	workers        int
	minDataVersion string
	logLevel       string
	logFormat      string
	output         string
	noProgress     bool
)

var rootCmd = &cobra.Command{
	Use:   "icudata",
	Short: "ICU binary data file validation tool",
	Long: `icudata validates ICU binary data files: resource bundles (.res) and the
sibling sub-formats such as collation, normalization and break iteration data.

It checks the common header of each file, confirms the declared sub-format and
format version are supported, and for resource bundles decodes the index table
that a resource-tree decoder starts from. Scan results can be recorded in a
SQLite catalog and queried later.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cmd.Flags().Changed("database") {
			cfg.Database = dbPath
		}
		if cmd.Flags().Changed("formats") {
			cfg.Formats = formats
		}
		if cmd.Flags().Changed("legacy") {
			cfg.Legacy = legacy
		}
		if cmd.Flags().Changed("workers") {
			cfg.Workers = workers
		}
		if cmd.Flags().Changed("min-data-version") {
			cfg.MinDataVersion = minDataVersion
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}
		if cmd.Flags().Changed("output") {
			cfg.Output = output
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		var level slog.Level
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		var handler slog.Handler
		if cfg.LogFormat == "json" {
			handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})
		} else {
			handler = tint.NewHandler(os.Stderr, &tint.Options{
				Level: level,
			})
		}

		slog.SetDefault(slog.New(handler))

		slog.Debug("Configuration",
			"database", cfg.Database,
			"formats", cfg.Formats,
			"legacy", cfg.Legacy,
			"workers", cfg.Workers,
			"min_data_version", cfg.MinDataVersion,
			"log_level", cfg.LogLevel,
			"log_format", cfg.LogFormat,
			"output", cfg.Output)

		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is icudata.yaml in ~/.icudata or pwd)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "database", "d", "", "catalog database file path")
	rootCmd.PersistentFlags().StringSliceVar(&formats, "formats", []string{}, "comma-separated list of formats to validate (names or tags)")
	rootCmd.PersistentFlags().BoolVar(&legacy, "legacy", false, "reproduce the legacy tool's BreakIteration check and index addressing")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "number of concurrent workers (0 = one per CPU)")
	rootCmd.PersistentFlags().StringVar(&minDataVersion, "min-data-version", "", "skip files whose data version is older, e.g. 6.3")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "report output (text, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress bar")
}
