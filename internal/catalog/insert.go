package catalog

import (
	"context"
	"fmt"
	"log/slog"
)

// Record is the outcome of validating one file. Header is nil when the file
// failed before the header was accepted; Bundle is nil for sub-formats
// without an index table and for bundles whose index failed.
type Record struct {
	Path       string
	Name       string
	Compressed bool
	Size       int64
	Digest     string

	Header *HeaderRecord
	Bundle *BundleRecord

	Error string
}

// HeaderRecord holds the validated header fields.
type HeaderRecord struct {
	Format         string
	Order          string
	Size           uint16
	FormatVersion  string
	DataVersion    string
	UnicodeRelease string
}

// BundleRecord holds the decoded index table fields.
type BundleRecord struct {
	RootResource         uint32
	IndexLength          uint32
	BundleTop            uint32
	KeysTop              uint32
	ResourcesTop         uint32
	NoFallback           bool
	IsPoolBundle         bool
	UsesPoolBundle       bool
	PoolStringIndexLimit uint32
}

const insertRecordSQL = `INSERT INTO data_files (
	scan_id, path, name, compressed, size, digest,
	format, byte_order, header_size, format_version, data_version, unicode_release,
	root_resource, index_length, bundle_top, keys_top, resources_top,
	no_fallback, is_pool_bundle, uses_pool_bundle, pool_string_index_limit,
	error
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// BatchInserter buffers records and writes them in one transaction per batch
type BatchInserter struct {
	catalog   *Catalog
	scanID    string
	batchSize int
	pending   []Record
	written   int
}

// DefaultBatchSize is the number of records written per transaction
const DefaultBatchSize = 500

// NewBatchInserter creates an inserter for records belonging to scan
func (c *Catalog) NewBatchInserter(scan *Scan, batchSize int) *BatchInserter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &BatchInserter{
		catalog:   c,
		scanID:    scan.ID,
		batchSize: batchSize,
	}
}

// Add queues rec, flushing when the batch is full
func (bi *BatchInserter) Add(ctx context.Context, rec Record) error {
	bi.pending = append(bi.pending, rec)
	if len(bi.pending) >= bi.batchSize {
		return bi.Flush(ctx)
	}
	return nil
}

// Written returns the number of records committed so far
func (bi *BatchInserter) Written() int {
	return bi.written
}

// Flush writes any queued records
func (bi *BatchInserter) Flush(ctx context.Context) error {
	if len(bi.pending) == 0 {
		return nil
	}

	if err := bi.insertBatch(ctx, bi.pending); err != nil {
		return fmt.Errorf("inserting batch of %d records: %w", len(bi.pending), err)
	}

	slog.Debug("Catalog batch committed", "scan", bi.scanID, "records", len(bi.pending))

	bi.written += len(bi.pending)
	bi.pending = bi.pending[:0]
	return nil
}

// insertBatch inserts a single batch of records within a transaction
func (bi *BatchInserter) insertBatch(ctx context.Context, batch []Record) error {
	tx, err := bi.catalog.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertRecordSQL)
	if err != nil {
		return fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for i := range batch {
		if _, err := stmt.ExecContext(ctx, bi.recordValues(&batch[i])...); err != nil {
			return fmt.Errorf("inserting %s: %w", batch[i].Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// recordValues maps rec onto the insert placeholders. Absent sections
// become NULLs.
func (bi *BatchInserter) recordValues(rec *Record) []any {
	values := []any{
		bi.scanID, rec.Path, rec.Name, boolToInt(rec.Compressed), rec.Size, rec.Digest,
	}

	if h := rec.Header; h != nil {
		values = append(values, h.Format, h.Order, int64(h.Size), h.FormatVersion, h.DataVersion, h.UnicodeRelease)
	} else {
		values = append(values, nil, nil, nil, nil, nil, nil)
	}

	if b := rec.Bundle; b != nil {
		values = append(values,
			int64(b.RootResource), int64(b.IndexLength), int64(b.BundleTop), int64(b.KeysTop), int64(b.ResourcesTop),
			boolToInt(b.NoFallback), boolToInt(b.IsPoolBundle), boolToInt(b.UsesPoolBundle), int64(b.PoolStringIndexLimit))
	} else {
		values = append(values, nil, nil, nil, nil, nil, nil, nil, nil, nil)
	}

	if rec.Error != "" {
		values = append(values, rec.Error)
	} else {
		values = append(values, nil)
	}

	return values
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
