// Package scan validates ICU data files found under a directory tree.
package scan

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/jchantrell/icudata/internal/catalog"
	"github.com/jchantrell/icudata/internal/format"
	"github.com/jchantrell/icudata/internal/header"
	"github.com/jchantrell/icudata/internal/source"
	"github.com/jchantrell/icudata/internal/version"
	"github.com/jchantrell/icudata/resb"
)

var ErrUnknownFormat = errors.New("unknown data format tag")

// Status is the outcome of inspecting one file.
type Status int

const (
	StatusValid Status = iota
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Options controls which files are validated and how.
type Options struct {
	// Formats restricts validation to these sub-formats. Empty means all.
	Formats []format.DataFormat
	Legacy  bool
	// Workers bounds concurrency. Zero means one per CPU.
	Workers int
	// MinDataVersion skips files whose data version is older.
	MinDataVersion *version.Quad
}

func (o Options) wants(f format.DataFormat) bool {
	if len(o.Formats) == 0 {
		return true
	}
	for _, want := range o.Formats {
		if want == f {
			return true
		}
	}
	return false
}

func (o Options) readerOptions() []resb.Option {
	if o.Legacy {
		return []resb.Option{resb.WithLegacyCompat()}
	}
	return nil
}

// Result is the catalog record for one file plus its outcome.
type Result struct {
	catalog.Record
	Status Status
	Err    error
	Reason string
}

func (r Result) fail(err error) Result {
	r.Status = StatusFailed
	r.Err = err
	r.Error = err.Error()
	return r
}

func (r Result) skip(reason string) Result {
	r.Status = StatusSkipped
	r.Reason = reason
	return r
}

// Inspect loads and validates the file at path. The sub-format is taken from
// the file's own tag; resource bundles additionally have their index table
// decoded.
func Inspect(path string, opts Options) Result {
	res := Result{Record: catalog.Record{Path: path, Name: filepath.Base(path)}}

	f, err := source.Open(path)
	if err != nil {
		return res.fail(err)
	}
	res.Name = f.Name()
	res.Compressed = f.Compressed
	res.Size = f.Size()
	res.Digest = f.Digest()

	df, err := DetectFormat(f.Reader())
	if err != nil {
		return res.fail(err)
	}
	if !opts.wants(df) {
		return res.skip(fmt.Sprintf("format %s not selected", df))
	}

	h, err := resb.ReadHeader(f.Reader(), df, opts.readerOptions()...)
	if err != nil {
		return res.fail(err)
	}
	res.Header = headerRecord(h)

	if floor := opts.MinDataVersion; floor != nil && version.Compare(h.DataVersion, *floor) < 0 {
		return res.skip(fmt.Sprintf("data version %s older than %s", h.DataVersion, *floor))
	}

	if df != format.ResourceBundle {
		res.Status = StatusValid
		return res
	}

	rd, err := resb.Open(f.Reader(), df, opts.readerOptions()...)
	if err != nil {
		return res.fail(err)
	}
	res.Bundle = bundleRecord(rd)
	res.Status = StatusValid
	return res
}

// DetectFormat checks the magic bytes of r and resolves its sub-format from
// the header tag.
func DetectFormat(r io.ReadSeeker) (format.DataFormat, error) {
	if err := header.CheckMagic(r); err != nil {
		return 0, err
	}
	tag, err := header.PeekFormat(r)
	if err != nil {
		return 0, err
	}
	df, ok := format.FromTag(tag)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, string(tag[:]))
	}
	return df, nil
}

func headerRecord(h *resb.Header) *catalog.HeaderRecord {
	return &catalog.HeaderRecord{
		Format:         h.Format.String(),
		Order:          h.Order.String(),
		Size:           h.Size,
		FormatVersion:  h.FormatVersion.String(),
		DataVersion:    h.DataVersion.String(),
		UnicodeRelease: version.Resolve(h.DataVersion).Release.String(),
	}
}

func bundleRecord(rd *resb.Reader) *catalog.BundleRecord {
	idx := rd.Index()
	att := rd.Attributes()
	return &catalog.BundleRecord{
		RootResource:         rd.RootResource(),
		IndexLength:          idx.Length,
		BundleTop:            idx.BundleTop,
		KeysTop:              idx.Keys.Top,
		ResourcesTop:         idx.ResourcesTop,
		NoFallback:           att.NoFallback,
		IsPoolBundle:         att.IsPoolBundle,
		UsesPoolBundle:       att.UsesPoolBundle,
		PoolStringIndexLimit: att.PoolStringIndexLimit,
	}
}
