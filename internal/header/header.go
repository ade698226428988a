// Package header validates the fixed-layout header shared by every ICU
// binary data file.
//
// Layout (byte offsets from the start of the file):
//
//	0   u16   header size
//	2   u8x2  magic 0xDA 0x27
//	4   u16   data info size
//	8   u8    0 = little-endian, 1 = big-endian
//	9   u8    charset family, must be 0
//	10  u8    char size, must be 2
//	12  u8x4  format tag
//	16  u8x4  format version
//	20  u8x4  data version
package header

import (
	"errors"
	"fmt"
	"io"

	"github.com/jchantrell/icudata/internal/binary"
	"github.com/jchantrell/icudata/internal/format"
	"github.com/jchantrell/icudata/internal/version"
)

const (
	Magic1        = 0xda
	Magic2        = 0x27
	CharsetFamily = 0
	CharSize      = 2

	// MinDataInfoSize is the smallest data info block that holds the
	// fields at offsets 8..23.
	MinDataInfoSize = 20
)

const (
	offsetHeaderSize    = 0
	offsetMagic         = 2
	offsetDataInfoSize  = 4
	offsetEndianness    = 8
	offsetFormatTag     = 12
	offsetFormatVersion = 16
	offsetDataVersion   = 20
)

var (
	ErrNotDataFile          = errors.New("ICU data file error: not an ICU data file")
	ErrHeaderAuthentication = errors.New("ICU data file error: header authentication failed, please check if you have a valid ICU data file")
)

// Header holds the validated header fields.
type Header struct {
	Size          uint16
	DataInfoSize  uint16
	Order         binary.Order
	CharsetFamily uint8
	CharSize      uint8
	Format        format.DataFormat
	FormatVersion version.Quad
	DataVersion   version.Quad
}

// Options tunes header validation.
type Options struct {
	// Legacy checks format versions with the legacy tool's arithmetic.
	Legacy bool
}

// CheckMagic verifies the two magic bytes at offset 2.
func CheckMagic(r io.ReadSeeker) error {
	magic, err := readAt(r, offsetMagic, 2)
	if err != nil {
		return fmt.Errorf("reading magic bytes: %w", err)
	}
	if magic[0] != Magic1 || magic[1] != Magic2 {
		return fmt.Errorf("%w: magic bytes 0x%02x 0x%02x", ErrNotDataFile, magic[0], magic[1])
	}
	return nil
}

// ReadEndianness reads bytes 8..10 and returns the declared byte order.
// The charset family and char size bytes must hold their fixed values.
func ReadEndianness(r io.ReadSeeker) (binary.Order, error) {
	b, err := readAt(r, offsetEndianness, 3)
	if err != nil {
		return 0, fmt.Errorf("reading endianness: %w", err)
	}

	bigEndian, charsetFamily, charSize := b[0], b[1], b[2]
	if bigEndian > 1 {
		return 0, fmt.Errorf("%w: endianness byte %d", ErrHeaderAuthentication, bigEndian)
	}
	if charsetFamily != CharsetFamily {
		return 0, fmt.Errorf("%w: charset family %d", ErrHeaderAuthentication, charsetFamily)
	}
	if charSize != CharSize {
		return 0, fmt.Errorf("%w: char size %d", ErrHeaderAuthentication, charSize)
	}

	if bigEndian == 1 {
		return binary.BigEndian, nil
	}
	return binary.LittleEndian, nil
}

// PeekFormat returns the raw tag bytes at offset 12 without validating them.
func PeekFormat(r io.ReadSeeker) ([4]byte, error) {
	var tag [4]byte
	b, err := readAt(r, offsetFormatTag, 4)
	if err != nil {
		return tag, fmt.Errorf("reading format tag: %w", err)
	}
	copy(tag[:], b)
	return tag, nil
}

// Read validates the header against the declared format and leaves the
// cursor at the header size, where the root resource word begins. The magic
// bytes and endianness are expected to have been checked already.
func Read(c binary.OrderedReader, f format.DataFormat, opts Options) (*Header, error) {
	h := &Header{
		Order:         c.Order(),
		CharsetFamily: CharsetFamily,
		CharSize:      CharSize,
		Format:        f,
	}

	if err := readSizes(c, h); err != nil {
		return nil, err
	}

	if err := readFormat(c, h, opts); err != nil {
		return nil, err
	}

	dataVersion, err := readQuadFrom(c, offsetDataVersion)
	if err != nil {
		return nil, fmt.Errorf("reading data version: %w", err)
	}
	h.DataVersion = dataVersion

	if _, err := c.Seek(int64(h.Size), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking to end of header: %w", err)
	}

	return h, nil
}

func readSizes(c binary.OrderedReader, h *Header) error {
	size, err := c.ReadUint16From(offsetHeaderSize)
	if err != nil {
		return fmt.Errorf("reading header size: %w", err)
	}
	infoSize, err := c.ReadUint16From(offsetDataInfoSize)
	if err != nil {
		return fmt.Errorf("reading data info size: %w", err)
	}

	if infoSize < MinDataInfoSize || uint32(size) < uint32(infoSize)+4 {
		return fmt.Errorf("%w: header size %d, data info size %d", ErrHeaderAuthentication, size, infoSize)
	}

	h.Size = size
	h.DataInfoSize = infoSize
	return nil
}

// readFormat checks the tag at 12 and then the format version that follows
// it immediately at 16.
func readFormat(c binary.OrderedReader, h *Header, opts Options) error {
	got, err := readQuadFrom(c, offsetFormatTag)
	if err != nil {
		return fmt.Errorf("reading format tag: %w", err)
	}
	want := h.Format.Tag()
	if [4]byte(got) != want {
		return fmt.Errorf("%w: format tag %q, expected %q", ErrHeaderAuthentication, string(got[:]), string(want[:]))
	}

	formatVersion, err := readQuad(c)
	if err != nil {
		return fmt.Errorf("reading format version: %w", err)
	}

	accept := h.Format.IsAcceptableVersion
	if opts.Legacy {
		accept = h.Format.IsAcceptableLegacyVersion
	}
	if !accept(formatVersion) {
		return fmt.Errorf("%w: %s format version %s not supported", ErrHeaderAuthentication, h.Format.Name(), formatVersion)
	}

	h.FormatVersion = formatVersion
	return nil
}

func readQuadFrom(c binary.OrderedReader, off int64) (version.Quad, error) {
	if _, err := c.Seek(off, io.SeekStart); err != nil {
		return version.Quad{}, err
	}
	return readQuad(c)
}

func readQuad(c binary.OrderedReader) (version.Quad, error) {
	var q version.Quad
	b, err := c.ReadBytes(4)
	if err != nil {
		return q, err
	}
	copy(q[:], b)
	return q, nil
}

// readAt reads single bytes before any byte order is known.
func readAt(r io.ReadSeeker, off int64, n int) ([]byte, error) {
	if _, err := r.Seek(off, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
