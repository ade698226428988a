package scan

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/jchantrell/icudata/internal/source"
)

// Stats summarizes a run.
type Stats struct {
	StartTime time.Time
	EndTime   time.Time
	Files     int
	Valid     int
	Failed    int
	Skipped   int
	Bytes     int64
	ByFormat  map[string]int
}

func (s *Stats) add(res Result) {
	s.Files++
	s.Bytes += res.Size
	switch res.Status {
	case StatusValid:
		s.Valid++
		s.ByFormat[res.Header.Format]++
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	}
}

// Duration returns the wall time of the run.
func (s *Stats) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Discover returns every candidate data file under root in lexical order.
func Discover(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !source.IsCandidate(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return paths, nil
}

// Run inspects paths on a bounded pool of workers and hands every result to
// fn on the calling goroutine, in completion order. Each worker loads its
// own files and builds its own readers. Run stops early when fn returns an
// error or ctx is cancelled.
func Run(ctx context.Context, paths []string, opts Options, fn func(Result) error) (*Stats, error) {
	stats := &Stats{
		StartTime: time.Now(),
		ByFormat:  make(map[string]int),
	}
	if len(paths) == 0 {
		stats.EndTime = time.Now()
		return stats, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workChan := make(chan string, len(paths))
	for _, path := range paths {
		workChan <- path
	}
	close(workChan)

	resultsChan := make(chan Result)

	maxConcurrency := opts.Workers
	if maxConcurrency <= 0 {
		maxConcurrency = runtime.NumCPU()
	}
	numWorkers := min(maxConcurrency, len(paths))

	slog.Debug("Starting scan workers", "workers", numWorkers, "files", len(paths))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range workChan {
				if ctx.Err() != nil {
					return
				}
				res := Inspect(path, opts)
				select {
				case resultsChan <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	var fnErr error
	for res := range resultsChan {
		if fnErr != nil {
			continue
		}
		stats.add(res)
		if res.Status == StatusFailed {
			slog.Debug("Validation failed", "path", res.Path, "error", res.Err)
		}
		if err := fn(res); err != nil {
			fnErr = err
			cancel()
		}
	}
	stats.EndTime = time.Now()

	if fnErr != nil {
		return stats, fnErr
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}
