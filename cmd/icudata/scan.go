package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sort"

	"github.com/jchantrell/icudata/internal/catalog"
	"github.com/jchantrell/icudata/internal/config"
	"github.com/jchantrell/icudata/internal/scan"
	"github.com/jchantrell/icudata/internal/utils"
	"github.com/spf13/cobra"
)

var noCatalog bool

var scanCmd = &cobra.Command{
	Use:   "scan DIR",
	Short: "Validate every ICU data file under a directory",
	Long: `Scan walks DIR for ICU data files (.res, .icu, .dat, .cnv, .nrm, .brk, .dict,
.spp, .cfu and their .xz, .zst and .gz variants), validates each one concurrently and records
the results in the SQLite catalog.

Each file's sub-format is taken from its own header tag. Use --formats to
restrict which sub-formats are validated and --min-data-version to skip files
built from older data.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		root := args[0]

		selected, err := config.ParseFormats(cfg.Formats)
		if err != nil {
			return err
		}
		floor, err := config.ParseMinDataVersion(cfg.MinDataVersion)
		if err != nil {
			return err
		}

		opts := scan.Options{
			Legacy:         cfg.Legacy,
			Workers:        cfg.Workers,
			MinDataVersion: floor,
		}
		if len(cfg.Formats) > 0 {
			opts.Formats = selected
		}

		paths, err := scan.Discover(root)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			slog.Info("No candidate files found", "root", root)
			return nil
		}

		slog.Info("Starting scan", "root", root, "files", len(paths))

		var (
			cat      *catalog.Catalog
			record   *catalog.Scan
			inserter *catalog.BatchInserter
		)
		if !noCatalog {
			cat, err = catalog.Open(ctx, catalog.DefaultOptions(cfg.Database))
			if err != nil {
				return fmt.Errorf("opening catalog: %w", err)
			}
			defer cat.Close()

			record, err = cat.BeginScan(ctx, root)
			if err != nil {
				return err
			}
			inserter = cat.NewBatchInserter(record, cfg.BatchSize)
		}

		progress := utils.NewProgress(len(paths), !(noProgress || cfg.LogFormat == "json" || cfg.LogLevel == "debug"))

		var failures []scan.Result
		stats, runErr := scan.Run(ctx, paths, opts, func(res scan.Result) error {
			progress.Increment(res.Name, res.Status == scan.StatusFailed)

			switch res.Status {
			case scan.StatusFailed:
				failures = append(failures, res)
				if !progress.Enabled() {
					slog.Warn("Invalid data file", "path", res.Path, "error", res.Err)
				}
			case scan.StatusSkipped:
				slog.Debug("Skipped", "path", res.Path, "reason", res.Reason)
				return nil
			}

			if inserter != nil {
				return inserter.Add(ctx, res.Record)
			}
			return nil
		})
		progress.Finish()

		if runErr != nil {
			return fmt.Errorf("scanning %s: %w", root, runErr)
		}

		if inserter != nil {
			if err := inserter.Flush(ctx); err != nil {
				return err
			}
			if err := cat.FinishScan(ctx, record, stats.Files, stats.Failed); err != nil {
				return err
			}
		}

		printSummary(stats, failures, record)
		return nil
	},
}

func printSummary(stats *scan.Stats, failures []scan.Result, record *catalog.Scan) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	duration := stats.Duration()
	var rate float64
	if secs := duration.Seconds(); secs > 0 {
		rate = float64(stats.Files) / secs
	}

	fmt.Printf("Files scanned: %s (%s)\n", utils.Number(int64(stats.Files)), utils.Bytes(stats.Bytes))
	fmt.Printf("Valid: %s\n", utils.Number(int64(stats.Valid)))
	fmt.Printf("Failed: %s\n", utils.Number(int64(stats.Failed)))
	fmt.Printf("Skipped: %s\n", utils.Number(int64(stats.Skipped)))

	formats := make([]string, 0, len(stats.ByFormat))
	for f := range stats.ByFormat {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	for _, f := range formats {
		fmt.Printf("  %-6s %s\n", f, utils.Number(int64(stats.ByFormat[f])))
	}

	for _, res := range failures {
		fmt.Printf("  FAIL %s: %v\n", res.Path, res.Err)
	}

	fmt.Printf("Duration: %s\n", utils.Duration(duration))
	fmt.Printf("Rate: %s files/sec\n", utils.Rate(rate))
	fmt.Printf("Memory usage: %.2fmb\n", float64(memStats.Alloc)/1024.0/1024.0)
	if record != nil {
		fmt.Printf("Scan id: %s\n", record.ID)
		fmt.Println("Try running: icudata query --scans")
	}
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolVar(&noCatalog, "no-catalog", false, "validate only, do not record results")
}
