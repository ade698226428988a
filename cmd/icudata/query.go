package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jchantrell/icudata/internal/cache"
	"github.com/jchantrell/icudata/internal/catalog"
	"github.com/jchantrell/icudata/internal/utils"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [SQL]",
	Short: "Query the scan catalog directly from command line",
	Long: `Query allows you to execute SQL queries against recorded scan results,
list available tables, list scans, or show table schemas.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		listTables, err := cmd.Flags().GetBool("tables")
		if err != nil {
			return fmt.Errorf("failed to get tables flag: %w", err)
		}
		listScans, err := cmd.Flags().GetBool("scans")
		if err != nil {
			return fmt.Errorf("failed to get scans flag: %w", err)
		}
		schemaTable, err := cmd.Flags().GetString("schema")
		if err != nil {
			return fmt.Errorf("failed to get schema flag: %w", err)
		}

		slog.Debug("Query parameters",
			"database", cfg.Database,
			"list-tables", listTables,
			"list-scans", listScans,
			"schema", schemaTable)

		if !cache.FileExists(cfg.Database) {
			return fmt.Errorf("catalog %s does not exist, run icudata scan first", cfg.Database)
		}

		cat, err := catalog.Open(ctx, catalog.DefaultOptions(cfg.Database))
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer cat.Close()

		switch {
		case listTables:
			return printTables(ctx, cat)
		case listScans:
			return printScans(ctx, cat)
		case schemaTable != "":
			return printSchema(ctx, cat, schemaTable)
		case len(args) > 0:
			return runQuery(ctx, cat, args[0])
		}

		return fmt.Errorf("no query provided, use --tables to list tables, --scans to list scans or --schema <table> to show schema")
	},
}

func printTables(ctx context.Context, cat *catalog.Catalog) error {
	tables, err := cat.Tables(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Available tables:")
	for _, name := range tables {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

func printScans(ctx context.Context, cat *catalog.Catalog) error {
	scans, err := cat.ListScans(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%-36s %-25s %-10s %-9s %s\n", "ID", "Started", "Files", "Failures", "Root")
	fmt.Println(strings.Repeat("-", 100))
	for _, s := range scans {
		started := s.StartedAt.Local().Format("2006-01-02 15:04:05")
		files := "running"
		if s.FinishedAt != nil {
			files = utils.Number(int64(s.Files))
		}
		fmt.Printf("%-36s %-25s %-10s %-9d %s\n", s.ID, started, files, s.Failures, s.Root)
	}
	return nil
}

func printSchema(ctx context.Context, cat *catalog.Catalog, table string) error {
	slog.Debug("Getting table schema", "table", table)

	rows, err := cat.Query(ctx, `SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?)`, table)
	if err != nil {
		return fmt.Errorf("getting schema for table %s: %w", table, err)
	}
	defer rows.Close()

	fmt.Printf("Schema for table '%s':\n", table)
	fmt.Printf("%-24s %-10s %-8s %-10s %-7s\n", "Column", "Type", "NotNull", "Default", "Primary")
	fmt.Println(strings.Repeat("-", 64))

	found := false
	for rows.Next() {
		var (
			name, dataType string
			notNull, pk    int
			defaultValue   any
		)
		if err := rows.Scan(&name, &dataType, &notNull, &defaultValue, &pk); err != nil {
			return fmt.Errorf("scanning schema row: %w", err)
		}
		found = true

		defaultStr := "NULL"
		if defaultValue != nil {
			defaultStr = fmt.Sprintf("%v", defaultValue)
		}

		fmt.Printf("%-24s %-10s %-8s %-10s %-7s\n", name, dataType, yesNo(notNull != 0), defaultStr, yesNo(pk != 0))
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating schema: %w", err)
	}
	if !found {
		return fmt.Errorf("no such table: %s", table)
	}
	return nil
}

func runQuery(ctx context.Context, cat *catalog.Catalog, query string) error {
	slog.Debug("Executing SQL query", "query", query)

	rows, err := cat.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("getting column names: %w", err)
	}

	fmt.Println(strings.Join(columns, "\t"))
	separators := make([]string, len(columns))
	for i, col := range columns {
		separators[i] = strings.Repeat("-", len(col))
	}
	fmt.Println(strings.Join(separators, "\t"))

	values := make([]any, len(columns))
	valuePtrs := make([]any, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(valuePtrs...); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}

		cells := make([]string, len(values))
		for i, val := range values {
			switch v := val.(type) {
			case nil:
				cells[i] = "NULL"
			case []byte:
				cells[i] = string(v)
			default:
				cells[i] = fmt.Sprint(v)
			}
		}
		fmt.Println(strings.Join(cells, "\t"))
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows: %w", err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().Bool("tables", false, "List available tables")
	queryCmd.Flags().Bool("scans", false, "List recorded scans")
	queryCmd.Flags().String("schema", "", "Show schema for specified table")
}
