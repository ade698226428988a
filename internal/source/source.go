// Package source loads candidate ICU data files from disk, decompressing
// xz, zstd and gzip wrapped files transparently.
package source

import (
	"bytes"
	"compress/gzip"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
)

// Extensions lists the file suffixes ICU data files are installed with.
var Extensions = []string{".res", ".icu", ".dat", ".cnv", ".nrm", ".brk", ".dict", ".spp", ".cfu"}

// Compression identifies the wrapper a file was stored in.
type Compression string

const (
	None Compression = ""
	XZ   Compression = "xz"
	Zstd Compression = "zstd"
	Gzip Compression = "gzip"
)

var suffixes = map[string]Compression{
	".xz":  XZ,
	".zst": Zstd,
	".gz":  Gzip,
}

// File is a fully loaded data file. The data is held in memory so any number
// of independent readers can be built over it.
type File struct {
	Path        string
	Compression Compression
	Compressed  bool
	Data        []byte
}

// splitCompression returns path without its compression suffix and the
// compression that suffix names.
func splitCompression(path string) (string, Compression) {
	ext := filepath.Ext(path)
	if c, ok := suffixes[ext]; ok {
		return strings.TrimSuffix(path, ext), c
	}
	return path, None
}

// IsCandidate reports whether path looks like an ICU data file, with or
// without a compression suffix.
func IsCandidate(path string) bool {
	base, _ := splitCompression(path)
	ext := strings.ToLower(filepath.Ext(base))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Open reads path, decompressing it according to its suffix.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	_, compression := splitCompression(path)

	var reader io.Reader = f
	switch compression {
	case XZ:
		xzr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		reader = xzr
	case Zstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer zr.Close()
		reader = zr
	case Gzip:
		gzr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gzr.Close()
		reader = gzr
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &File{
		Path:        path,
		Compression: compression,
		Compressed:  compression != None,
		Data:        data,
	}, nil
}

// Reader returns a new seekable reader positioned at the start of the data.
func (f *File) Reader() *bytes.Reader {
	return bytes.NewReader(f.Data)
}

// Size returns the decompressed size in bytes.
func (f *File) Size() int64 {
	return int64(len(f.Data))
}

// Digest returns the hex BLAKE3-256 digest of the decompressed data.
func (f *File) Digest() string {
	sum := blake3.Sum256(f.Data)
	return hex.EncodeToString(sum[:])
}

// Name returns the base name without any compression suffix.
func (f *File) Name() string {
	base, _ := splitCompression(filepath.Base(f.Path))
	return base
}
