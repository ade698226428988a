package header

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	binpkg "github.com/jchantrell/icudata/internal/binary"
	"github.com/jchantrell/icudata/internal/format"
	"github.com/jchantrell/icudata/internal/version"
)

type fixture struct {
	headerSize    uint16
	dataInfoSize  uint16
	magic         [2]byte
	bigEndian     byte
	charsetFamily byte
	charSize      byte
	tag           [4]byte
	formatVersion version.Quad
	dataVersion   version.Quad
}

func resbFixture() fixture {
	return fixture{
		headerSize:    32,
		dataInfoSize:  20,
		magic:         [2]byte{Magic1, Magic2},
		bigEndian:     1,
		charsetFamily: CharsetFamily,
		charSize:      CharSize,
		tag:           format.ResourceBundle.Tag(),
		formatVersion: version.Quad{3, 0, 0, 0},
		dataVersion:   version.Quad{1, 4, 0, 0},
	}
}

func (f fixture) bytes() []byte {
	order := binary.ByteOrder(binary.LittleEndian)
	if f.bigEndian == 1 {
		order = binary.BigEndian
	}

	var buf bytes.Buffer
	binary.Write(&buf, order, f.headerSize)
	buf.Write(f.magic[:])
	binary.Write(&buf, order, f.dataInfoSize)
	buf.Write([]byte{0, 0})
	buf.Write([]byte{f.bigEndian, f.charsetFamily, f.charSize, 0})
	buf.Write(f.tag[:])
	buf.Write(f.formatVersion[:])
	buf.Write(f.dataVersion[:])
	for buf.Len() < int(f.headerSize) {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func (f fixture) read(t *testing.T, df format.DataFormat, opts Options) (*Header, *binpkg.Cursor, error) {
	t.Helper()

	r := bytes.NewReader(f.bytes())
	if err := CheckMagic(r); err != nil {
		return nil, nil, err
	}
	order, err := ReadEndianness(r)
	if err != nil {
		return nil, nil, err
	}
	c := binpkg.Wrap(r, order)
	h, err := Read(c, df, opts)
	return h, c, err
}

func TestCheckMagic(t *testing.T) {
	f := resbFixture()
	if err := CheckMagic(bytes.NewReader(f.bytes())); err != nil {
		t.Fatalf("CheckMagic failed on valid header: %v", err)
	}

	for _, magic := range [][2]byte{{0, 0}, {0xda, 0x28}, {0x27, 0xda}} {
		f.magic = magic
		err := CheckMagic(bytes.NewReader(f.bytes()))
		if !errors.Is(err, ErrNotDataFile) {
			t.Errorf("magic %v: expected ErrNotDataFile, got %v", magic, err)
		}
	}
}

func TestCheckMagicShortInput(t *testing.T) {
	err := CheckMagic(bytes.NewReader([]byte{0x00, 0x20, 0xda}))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
	}
	if errors.Is(err, ErrNotDataFile) {
		t.Error("short input must not be reported as a format mismatch")
	}
}

func TestReadEndianness(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*fixture)
		want    binpkg.Order
		wantErr error
	}{
		{"big", func(f *fixture) { f.bigEndian = 1 }, binpkg.BigEndian, nil},
		{"little", func(f *fixture) { f.bigEndian = 0 }, binpkg.LittleEndian, nil},
		{"bad flag", func(f *fixture) { f.bigEndian = 2 }, 0, ErrHeaderAuthentication},
		{"bad charset", func(f *fixture) { f.charsetFamily = 1 }, 0, ErrHeaderAuthentication},
		{"bad char size", func(f *fixture) { f.charSize = 1 }, 0, ErrHeaderAuthentication},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := resbFixture()
			tt.mutate(&f)

			got, err := ReadEndianness(bytes.NewReader(f.bytes()))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadEndianness failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadValidHeader(t *testing.T) {
	for _, bigEndian := range []byte{0, 1} {
		f := resbFixture()
		f.bigEndian = bigEndian

		h, c, err := f.read(t, format.ResourceBundle, Options{})
		if err != nil {
			t.Fatalf("bigEndian=%d: Read failed: %v", bigEndian, err)
		}

		if h.Size != 32 || h.DataInfoSize != 20 {
			t.Errorf("bigEndian=%d: sizes = %d/%d, want 32/20", bigEndian, h.Size, h.DataInfoSize)
		}
		if h.FormatVersion != (version.Quad{3, 0, 0, 0}) {
			t.Errorf("bigEndian=%d: format version = %v", bigEndian, h.FormatVersion)
		}
		if h.DataVersion != (version.Quad{1, 4, 0, 0}) {
			t.Errorf("bigEndian=%d: data version = %v", bigEndian, h.DataVersion)
		}
		if h.Format != format.ResourceBundle {
			t.Errorf("bigEndian=%d: format = %v", bigEndian, h.Format)
		}
		if c.Pos() != 32 {
			t.Errorf("bigEndian=%d: cursor at %d, want header size 32", bigEndian, c.Pos())
		}
	}
}

func TestReadSameLogicalHeaderBothOrders(t *testing.T) {
	little := resbFixture()
	little.bigEndian = 0
	little.headerSize = 0x0130
	little.dataInfoSize = 0x0114

	big := little
	big.bigEndian = 1

	hl, _, err := little.read(t, format.ResourceBundle, Options{})
	if err != nil {
		t.Fatalf("little-endian Read failed: %v", err)
	}
	hb, _, err := big.read(t, format.ResourceBundle, Options{})
	if err != nil {
		t.Fatalf("big-endian Read failed: %v", err)
	}

	if hl.Size != hb.Size || hl.DataInfoSize != hb.DataInfoSize {
		t.Errorf("sizes differ: little %d/%d, big %d/%d", hl.Size, hl.DataInfoSize, hb.Size, hb.DataInfoSize)
	}
	if hl.Size != 0x0130 {
		t.Errorf("header size = 0x%04x, want 0x0130", hl.Size)
	}
	if hl.Order == hb.Order {
		t.Error("orders should differ")
	}
}

func TestReadHeaderSizeChecks(t *testing.T) {
	tests := []struct {
		name       string
		headerSize uint16
		infoSize   uint16
		wantErr    bool
	}{
		{"minimum", 24, 20, false},
		{"info too small", 32, 19, true},
		{"header too small", 23, 20, true},
		{"large info", 0xFFFF, 0xFFFC, false},
		{"overflowing sum", 0xFFFF, 0xFFFD, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := resbFixture()
			f.headerSize = tt.headerSize
			f.dataInfoSize = tt.infoSize

			_, _, err := f.read(t, format.ResourceBundle, Options{})
			if tt.wantErr {
				if !errors.Is(err, ErrHeaderAuthentication) {
					t.Fatalf("expected ErrHeaderAuthentication, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
		})
	}
}

func TestReadFormatMismatch(t *testing.T) {
	f := resbFixture()

	_, _, err := f.read(t, format.Collation, Options{})
	if !errors.Is(err, ErrHeaderAuthentication) {
		t.Fatalf("expected ErrHeaderAuthentication, got %v", err)
	}
}

func TestReadUnacceptableVersion(t *testing.T) {
	f := resbFixture()
	f.formatVersion = version.Quad{1, 0, 0, 0}

	_, _, err := f.read(t, format.ResourceBundle, Options{})
	if !errors.Is(err, ErrHeaderAuthentication) {
		t.Fatalf("expected ErrHeaderAuthentication, got %v", err)
	}
}

func TestReadLegacyBreakIteration(t *testing.T) {
	f := resbFixture()
	f.tag = format.BreakIteration.Tag()
	f.formatVersion = version.Quad{4, 0, 0, 0}

	if _, _, err := f.read(t, format.BreakIteration, Options{}); err != nil {
		t.Fatalf("4.0.0.0 should be accepted by default: %v", err)
	}

	_, _, err := f.read(t, format.BreakIteration, Options{Legacy: true})
	if !errors.Is(err, ErrHeaderAuthentication) {
		t.Fatalf("legacy arithmetic should reject 4.0.0.0, got %v", err)
	}
}

func TestReadTruncated(t *testing.T) {
	f := resbFixture()
	data := f.bytes()[:18]

	r := bytes.NewReader(data)
	c := binpkg.Wrap(r, binpkg.BigEndian)
	_, err := Read(c, format.ResourceBundle, Options{})
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestPeekFormat(t *testing.T) {
	f := resbFixture()
	tag, err := PeekFormat(bytes.NewReader(f.bytes()))
	if err != nil {
		t.Fatalf("PeekFormat failed: %v", err)
	}
	if string(tag[:]) != "ResB" {
		t.Errorf("tag = %q, want ResB", string(tag[:]))
	}
}
