package catalog

import (
	"context"
	"fmt"
	"log/slog"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS _scans (
		id TEXT PRIMARY KEY,
		root TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		files INTEGER NOT NULL DEFAULT 0,
		failures INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS data_files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scan_id TEXT NOT NULL REFERENCES _scans(id) ON DELETE CASCADE,
		path TEXT NOT NULL,
		name TEXT NOT NULL,
		compressed INTEGER NOT NULL,
		size INTEGER NOT NULL,
		digest TEXT NOT NULL,
		format TEXT,
		byte_order TEXT,
		header_size INTEGER,
		format_version TEXT,
		data_version TEXT,
		unicode_release TEXT,
		root_resource INTEGER,
		index_length INTEGER,
		bundle_top INTEGER,
		keys_top INTEGER,
		resources_top INTEGER,
		no_fallback INTEGER,
		is_pool_bundle INTEGER,
		uses_pool_bundle INTEGER,
		pool_string_index_limit INTEGER,
		error TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS data_files_scan ON data_files(scan_id)`,
	`CREATE INDEX IF NOT EXISTS data_files_digest ON data_files(digest)`,
}

func (c *Catalog) createSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := c.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("creating catalog schema: %w", err)
		}
	}
	slog.Debug("Catalog schema ready", "path", c.path)
	return nil
}
