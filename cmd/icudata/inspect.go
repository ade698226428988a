package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jchantrell/icudata/internal/format"
	"github.com/jchantrell/icudata/internal/source"
	"github.com/jchantrell/icudata/resb"
	"github.com/spf13/cobra"
)

var inspectFormat string

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Validate a single ICU data file and print its header",
	Long: `Inspect validates one ICU data file against a declared sub-format and prints
the decoded header fields. Resource bundles also have their index table
decoded. Files ending in .xz, .zst or .gz are decompressed first.

With --format auto (the default) the sub-format is taken from the file's own
header tag.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		auto := inspectFormat == "auto"

		var df format.DataFormat
		if !auto {
			var err error
			if df, err = format.Parse(inspectFormat); err != nil {
				return err
			}
		}

		f, err := source.Open(args[0])
		if err != nil {
			return err
		}

		var opts []resb.Option
		if cfg.Legacy {
			opts = append(opts, resb.WithLegacyCompat())
		}

		slog.Debug("Inspecting file", "path", f.Path, "size", f.Size(), "format", inspectFormat)

		rep, err := buildReport(f, df, auto, opts...)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		return writeReport(os.Stdout, rep, cfg.Output)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "auto", "expected format name or tag, or auto")
}
