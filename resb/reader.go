// Package resb validates ICU binary data files and bootstraps resource
// bundles for a downstream resource-tree decoder.
//
// Open checks the magic bytes, the declared byte order and charset, the
// declared sub-format and its format version, then decodes the index table
// that follows the root resource word:
//
//	r, err := resb.Open(f, resb.ResourceBundle)
//	if err != nil {
//		return err
//	}
//	cur := r.Cursor()
//	cur.Seek(int64(r.Header().Size)+int64(r.RootResource()&0x0fffffff)*4, io.SeekStart)
//
// A Reader owns its byte source and is not safe for concurrent use. Parse
// the same data from several goroutines by giving each one its own source.
package resb

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/jchantrell/icudata/internal/binary"
	"github.com/jchantrell/icudata/internal/bundle"
	"github.com/jchantrell/icudata/internal/format"
	"github.com/jchantrell/icudata/internal/header"
	"github.com/jchantrell/icudata/internal/version"
)

// Format identifies an ICU data sub-format by its header tag.
type Format = format.DataFormat

const (
	ResourceBundle    = format.ResourceBundle
	Collation         = format.Collation
	Dictionary        = format.Dictionary
	Dat               = format.Dat
	Normalized2       = format.Normalized2
	CharacterProperty = format.CharacterProperty
	BreakIteration    = format.BreakIteration
	Spoof             = format.Spoof
	StringPrep        = format.StringPrep
	BiDi              = format.BiDi
	Case              = format.Case
	CharacterName     = format.CharacterName
	ConverterAlias    = format.ConverterAlias
	Converter         = format.Converter
	PropertyAlias     = format.PropertyAlias
)

type (
	Quad       = version.Quad
	Version    = version.Version
	Header     = header.Header
	Index      = bundle.Index
	Attributes = bundle.Attributes
	KeyTable   = bundle.KeyTable
)

// Reader is a validated resource bundle positioned for tree decoding.
type Reader struct {
	cursor  *binary.Cursor
	header  *header.Header
	index   *bundle.Index
	version version.Version
}

// Open validates r as a data file of format f and decodes its index table.
// Nothing is returned on failure.
func Open(r io.ReadSeeker, f Format, opts ...Option) (*Reader, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	c, h, err := readHeader(r, f, o)
	if err != nil {
		return nil, err
	}

	layout := bundle.LayoutWords
	if o.legacy {
		layout = bundle.LayoutLegacy
	}

	idx, err := bundle.ReadIndex(c, h, layout)
	if err != nil {
		return nil, fmt.Errorf("reading %s index table: %w", f, err)
	}

	return &Reader{
		cursor:  c,
		header:  h,
		index:   idx,
		version: version.Resolve(h.DataVersion),
	}, nil
}

// OpenBytes is Open over an in-memory buffer.
func OpenBytes(data []byte, f Format, opts ...Option) (*Reader, error) {
	return Open(bytes.NewReader(data), f, opts...)
}

// ReadHeader validates only the common header. It suits sub-formats other
// than resource bundles, which have no index table.
func ReadHeader(r io.ReadSeeker, f Format, opts ...Option) (*Header, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	_, h, err := readHeader(r, f, o)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func readHeader(r io.ReadSeeker, f Format, o *options) (*binary.Cursor, *header.Header, error) {
	if err := header.CheckMagic(r); err != nil {
		return nil, nil, err
	}

	order, err := header.ReadEndianness(r)
	if err != nil {
		return nil, nil, err
	}

	c := binary.Wrap(r, order)
	h, err := header.Read(c, f, header.Options{Legacy: o.legacy})
	if err != nil {
		return nil, nil, err
	}

	slog.Debug("Header validated",
		"format", f.String(),
		"order", order.String(),
		"header_size", h.Size,
		"format_version", h.FormatVersion.String(),
		"data_version", h.DataVersion.String())

	return c, h, nil
}

// Version returns the resolved data version.
func (r *Reader) Version() Version {
	return r.version
}

// DataVersion returns the raw data version bytes at header offset 20.
func (r *Reader) DataVersion() Quad {
	return r.header.DataVersion
}

// RootResource returns the root resource word, the entry point of the
// resource tree.
func (r *Reader) RootResource() uint32 {
	return r.index.RootResource
}

// Header returns the validated header.
func (r *Reader) Header() Header {
	return *r.header
}

// Index returns the decoded index table.
func (r *Reader) Index() Index {
	return *r.index
}

// Attributes returns the bundle attribute flags and pool limits.
func (r *Reader) Attributes() Attributes {
	return r.index.Attributes
}

// Keys returns the key table bounds.
func (r *Reader) Keys() KeyTable {
	return r.index.Keys
}

// MaxOffset returns the highest valid offset within the bundle.
func (r *Reader) MaxOffset() int64 {
	return r.index.MaxOffset
}

// Cursor returns the ordered reader over the source. Its position is
// wherever index decoding left it.
func (r *Reader) Cursor() binary.OrderedReader {
	return r.cursor
}
