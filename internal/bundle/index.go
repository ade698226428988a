// Package bundle reads the index table of an ICU resource bundle.
package bundle

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jchantrell/icudata/internal/binary"
	"github.com/jchantrell/icudata/internal/header"
)

var ErrIndexTooShort = errors.New("not enough indexes")

// offsetFileFormatMajor is the absolute offset of the format version's
// major byte.
const offsetFileFormatMajor = 16

type indexReader struct {
	c      binary.OrderedReader
	base   int64
	layout Layout
}

// slot returns the absolute offset of index slot n.
func (ir *indexReader) slot(n int64) int64 {
	if ir.layout == LayoutLegacy {
		return ir.base + n
	}
	return ir.base + 4*n
}

func (ir *indexReader) read(n int64) (uint32, error) {
	v, err := ir.c.ReadUint32From(ir.slot(n))
	if err != nil {
		return 0, fmt.Errorf("reading index %d: %w", n, err)
	}
	return v, nil
}

// ReadIndex decodes the root resource and index table. The cursor must be
// positioned at h.Size. On return it is left wherever the last read put it;
// callers seek to the root resource themselves.
func ReadIndex(c binary.OrderedReader, h *header.Header, layout Layout) (*Index, error) {
	root, err := c.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading root resource: %w", err)
	}

	indexes0, err := c.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading index length: %w", err)
	}

	idx := &Index{
		RootResource: root,
		Length:       indexes0 & 0xff,
	}
	if idx.Length <= MaxKnownIndex {
		return nil, fmt.Errorf("%w: length %d, need more than %d", ErrIndexTooShort, idx.Length, MaxKnownIndex)
	}

	ir := &indexReader{
		c:      c,
		base:   int64(h.Size) + 4,
		layout: layout,
	}

	if idx.BundleTop, err = ir.read(IndexBundleTop); err != nil {
		return nil, err
	}
	idx.MaxOffset = int64(idx.BundleTop) - 1

	major, err := c.ReadUint8From(offsetFileFormatMajor)
	if err != nil {
		return nil, fmt.Errorf("reading file format version: %w", err)
	}
	idx.FileFormatMajor = major

	var poolStringIndexLimit uint32
	if major >= 3 {
		poolStringIndexLimit = indexes0 >> 8
	}

	// Length > MaxKnownIndex was checked above, so the attributes slot is
	// always present here.
	att, err := ir.read(IndexAttributes)
	if err != nil {
		return nil, err
	}
	idx.Attributes = decodeAttributes(att, poolStringIndexLimit)

	if idx.Keys, err = readKeyTable(ir, idx.Length, idx.Attributes.IsPoolBundle); err != nil {
		return nil, err
	}

	if err := readExtraSlots(ir, idx); err != nil {
		return nil, err
	}

	slog.Debug("Index table read",
		"root", fmt.Sprintf("0x%08x", idx.RootResource),
		"length", idx.Length,
		"layout", layout.String(),
		"max_offset", idx.MaxOffset,
		"pool_bundle", idx.Attributes.IsPoolBundle,
		"uses_pool_bundle", idx.Attributes.UsesPoolBundle)

	return idx, nil
}

func decodeAttributes(att, poolStringIndexLimit uint32) Attributes {
	return Attributes{
		NoFallback:     att&AttNoFallback != 0,
		IsPoolBundle:   att&AttIsPoolBundle != 0,
		UsesPoolBundle: att&AttUsesPoolBundle != 0,
		// bits 15..12 -> 27..24
		PoolStringIndexLimit:   poolStringIndexLimit | (att&0xf000)<<12,
		PoolStringIndex16Limit: att >> 16,
	}
}

// readKeyTable sizes the key area. Pool bundles count only the key words
// past the index table; other bundles include the index prefix and scale
// to bytes. Downstream key slicing depends on that asymmetry.
func readKeyTable(ir *indexReader, length uint32, isPoolBundle bool) (KeyTable, error) {
	keys := KeyTable{Bottom: 1 + length}

	top, err := ir.read(IndexKeysTop)
	if err != nil {
		return keys, err
	}
	keys.Top = top

	if keys.Top > keys.Bottom {
		if isPoolBundle {
			keys.Capacity = uint64(keys.Top - keys.Bottom)
		} else {
			keys.LocalLimit = uint64(keys.Top) << 2
			keys.Capacity = keys.LocalLimit
		}
	}

	return keys, nil
}

func readExtraSlots(ir *indexReader, idx *Index) error {
	var err error
	if idx.ResourcesTop, err = ir.read(IndexResourcesTop); err != nil {
		return err
	}
	if idx.MaxTableLength, err = ir.read(IndexMaxTableLength); err != nil {
		return err
	}
	if idx.Length > Index16BitTop {
		if idx.Top16Bit, err = ir.read(Index16BitTop); err != nil {
			return err
		}
	}
	if idx.Length > IndexPoolChecksum {
		if idx.PoolChecksum, err = ir.read(IndexPoolChecksum); err != nil {
			return err
		}
	}
	return nil
}
