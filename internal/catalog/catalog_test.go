package catalog

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "catalog.db")
	c, err := Open(context.Background(), DefaultOptions(path))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestOpenValidation(t *testing.T) {
	ctx := context.Background()
	if _, err := Open(ctx, nil); err == nil {
		t.Error("expected error for nil options")
	}
	if _, err := Open(ctx, &Options{}); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestBuildConnectionString(t *testing.T) {
	got := buildConnectionString(&Options{Path: "x.db"})
	if got != "x.db?_synchronous=NORMAL" {
		t.Errorf("connection string = %q", got)
	}

	got = buildConnectionString(DefaultOptions("x.db"))
	want := "x.db?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000&_synchronous=NORMAL"
	if got != want {
		t.Errorf("connection string = %q, want %q", got, want)
	}
}

func TestTables(t *testing.T) {
	c := openTestCatalog(t)

	tables, err := c.Tables(context.Background())
	if err != nil {
		t.Fatalf("Tables failed: %v", err)
	}
	if len(tables) != 1 || tables[0] != "data_files" {
		t.Errorf("tables = %v, want [data_files]", tables)
	}
}

func TestScanLifecycle(t *testing.T) {
	ctx := context.Background()
	c := openTestCatalog(t)

	s, err := c.BeginScan(ctx, "/usr/share/icu")
	if err != nil {
		t.Fatalf("BeginScan failed: %v", err)
	}
	if len(s.ID) != 36 {
		t.Errorf("scan id %q is not a uuid", s.ID)
	}

	scans, err := c.ListScans(ctx)
	if err != nil {
		t.Fatalf("ListScans failed: %v", err)
	}
	if len(scans) != 1 || scans[0].FinishedAt != nil {
		t.Fatalf("expected one unfinished scan, got %+v", scans)
	}

	if err := c.FinishScan(ctx, s, 12, 3); err != nil {
		t.Fatalf("FinishScan failed: %v", err)
	}

	scans, err = c.ListScans(ctx)
	if err != nil {
		t.Fatalf("ListScans failed: %v", err)
	}
	got := scans[0]
	if got.ID != s.ID || got.Root != "/usr/share/icu" {
		t.Errorf("scan = %+v", got)
	}
	if got.FinishedAt == nil || got.Files != 12 || got.Failures != 3 {
		t.Errorf("finished scan = %+v", got)
	}
	if !got.StartedAt.Equal(s.StartedAt) {
		t.Errorf("started at %v, want %v", got.StartedAt, s.StartedAt)
	}
}

func TestFinishUnknownScan(t *testing.T) {
	c := openTestCatalog(t)
	if err := c.FinishScan(context.Background(), &Scan{ID: "missing"}, 0, 0); err == nil {
		t.Fatal("expected error for unknown scan")
	}
}

func TestBatchInserter(t *testing.T) {
	ctx := context.Background()
	c := openTestCatalog(t)

	s, err := c.BeginScan(ctx, "testdata")
	if err != nil {
		t.Fatal(err)
	}

	bi := c.NewBatchInserter(s, 2)
	records := []Record{
		{
			Path: "a/root.res", Name: "root.res", Size: 48, Digest: "aa",
			Header: &HeaderRecord{Format: "ResB", Order: "big-endian", Size: 32, FormatVersion: "3.0.0.0", DataVersion: "1.4.0.0", UnicodeRelease: "Unknown"},
			Bundle: &BundleRecord{RootResource: 0x20001878, IndexLength: 8, NoFallback: true},
		},
		{
			Path: "a/nfc.nrm.xz", Name: "nfc.nrm", Compressed: true, Size: 100, Digest: "bb",
			Header: &HeaderRecord{Format: "Nrm2", Order: "little-endian", Size: 32, FormatVersion: "3.0.0.0", DataVersion: "10.0.0.0", UnicodeRelease: "Unicode 10.0"},
		},
		{Path: "a/broken.res", Name: "broken.res", Size: 3, Digest: "cc", Error: "not an ICU data file"},
	}

	for _, rec := range records {
		if err := bi.Add(ctx, rec); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	if bi.Written() != 2 {
		t.Errorf("written before flush = %d, want 2", bi.Written())
	}
	if err := bi.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if bi.Written() != 3 {
		t.Errorf("written after flush = %d, want 3", bi.Written())
	}

	var count int
	if err := c.QueryRow(ctx, `SELECT COUNT(*) FROM data_files WHERE scan_id = ?`, s.ID).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	var (
		root    sql.NullInt64
		noFall  sql.NullInt64
		errText sql.NullString
	)
	row := c.QueryRow(ctx, `SELECT root_resource, no_fallback, error FROM data_files WHERE name = 'root.res'`)
	if err := row.Scan(&root, &noFall, &errText); err != nil {
		t.Fatal(err)
	}
	if !root.Valid || root.Int64 != 0x20001878 || noFall.Int64 != 1 || errText.Valid {
		t.Errorf("root.res row: root=%v no_fallback=%v error=%v", root, noFall, errText)
	}

	row = c.QueryRow(ctx, `SELECT root_resource, format FROM data_files WHERE name = 'nfc.nrm'`)
	var format sql.NullString
	if err := row.Scan(&root, &format); err != nil {
		t.Fatal(err)
	}
	if root.Valid || format.String != "Nrm2" {
		t.Errorf("nfc.nrm row: root=%v format=%v", root, format)
	}

	row = c.QueryRow(ctx, `SELECT format, error FROM data_files WHERE name = 'broken.res'`)
	if err := row.Scan(&format, &errText); err != nil {
		t.Fatal(err)
	}
	if format.Valid || errText.String != "not an ICU data file" {
		t.Errorf("broken.res row: format=%v error=%v", format, errText)
	}
}

func TestFlushEmpty(t *testing.T) {
	c := openTestCatalog(t)
	s, err := c.BeginScan(context.Background(), ".")
	if err != nil {
		t.Fatal(err)
	}
	bi := c.NewBatchInserter(s, 0)
	if bi.batchSize != DefaultBatchSize {
		t.Errorf("batch size = %d, want default", bi.batchSize)
	}
	if err := bi.Flush(context.Background()); err != nil {
		t.Errorf("Flush on empty batch: %v", err)
	}
}
