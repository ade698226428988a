package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Fixed width so started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Scan is one run of the scanner over a directory tree.
type Scan struct {
	ID         string
	Root       string
	StartedAt  time.Time
	FinishedAt *time.Time
	Files      int
	Failures   int
}

// BeginScan registers a new scan of root and returns it.
func (c *Catalog) BeginScan(ctx context.Context, root string) (*Scan, error) {
	s := &Scan{
		ID:        uuid.New().String(),
		Root:      root,
		StartedAt: time.Now().UTC(),
	}

	_, err := c.Exec(ctx,
		`INSERT INTO _scans (id, root, started_at) VALUES (?, ?, ?)`,
		s.ID, s.Root, s.StartedAt.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("registering scan: %w", err)
	}

	return s, nil
}

// FinishScan stamps the scan as finished with its final counts.
func (c *Catalog) FinishScan(ctx context.Context, s *Scan, files, failures int) error {
	now := time.Now().UTC()

	res, err := c.Exec(ctx,
		`UPDATE _scans SET finished_at = ?, files = ?, failures = ? WHERE id = ?`,
		now.Format(timeLayout), files, failures, s.ID)
	if err != nil {
		return fmt.Errorf("finishing scan %s: %w", s.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finishing scan %s: no such scan", s.ID)
	}

	s.FinishedAt = &now
	s.Files = files
	s.Failures = failures
	return nil
}

// ListScans returns every scan, newest first.
func (c *Catalog) ListScans(ctx context.Context) ([]Scan, error) {
	rows, err := c.Query(ctx,
		`SELECT id, root, started_at, finished_at, files, failures FROM _scans ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		var (
			s        Scan
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Root, &started, &finished, &s.Files, &s.Failures); err != nil {
			return nil, fmt.Errorf("scanning scan row: %w", err)
		}

		if s.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parsing start time of scan %s: %w", s.ID, err)
		}
		if finished.Valid {
			t, err := time.Parse(timeLayout, finished.String)
			if err != nil {
				return nil, fmt.Errorf("parsing finish time of scan %s: %w", s.ID, err)
			}
			s.FinishedAt = &t
		}

		scans = append(scans, s)
	}

	return scans, rows.Err()
}
