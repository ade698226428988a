// Package format enumerates the ICU data sub-formats and the format-version
// rules each one accepts.
package format

import (
	"fmt"
	"strings"

	"github.com/jchantrell/icudata/internal/version"
)

// DataFormat is the big-endian reading of a sub-format's 4-character tag.
type DataFormat uint32

const (
	ResourceBundle    DataFormat = 0x5265_7342 // "ResB"
	Collation         DataFormat = 0x5543_6f6c // "UCol"
	Dictionary        DataFormat = 0x4469_6374 // "Dict"
	Dat               DataFormat = 0x436d_6e44 // "CmnD"
	Normalized2       DataFormat = 0x4e72_6d32 // "Nrm2"
	CharacterProperty DataFormat = 0x5550_726f // "UPro"
	BreakIteration    DataFormat = 0x4272_6b20 // "Brk "
	Spoof             DataFormat = 0x4366_7520 // "Cfu "
	StringPrep        DataFormat = 0x5350_5250 // "SPDR"
	BiDi              DataFormat = 0x4269_4469 // "BiDi"
	Case              DataFormat = 0x6341_5345 // "cAsE"
	CharacterName     DataFormat = 0x756e_616d // "unam"
	ConverterAlias    DataFormat = 0x4376_416c // "CvAl"
	Converter         DataFormat = 0x636e_7674 // "cnvt"
	PropertyAlias     DataFormat = 0x706e_616d // "pnam"
)

var all = []DataFormat{
	ResourceBundle,
	Collation,
	Dictionary,
	Dat,
	Normalized2,
	CharacterProperty,
	BreakIteration,
	Spoof,
	StringPrep,
	BiDi,
	Case,
	CharacterName,
	ConverterAlias,
	Converter,
	PropertyAlias,
}

var names = map[DataFormat]string{
	ResourceBundle:    "ResourceBundle",
	Collation:         "Collation",
	Dictionary:        "Dictionary",
	Dat:               "Dat",
	Normalized2:       "Normalized2",
	CharacterProperty: "CharacterProperty",
	BreakIteration:    "BreakIteration",
	Spoof:             "Spoof",
	StringPrep:        "StringPrep",
	BiDi:              "BiDi",
	Case:              "Case",
	CharacterName:     "CharacterName",
	ConverterAlias:    "ConverterAlias",
	Converter:         "Converter",
	PropertyAlias:     "PropertyAlias",
}

// All returns every known format in declaration order.
func All() []DataFormat {
	out := make([]DataFormat, len(all))
	copy(out, all)
	return out
}

// Valid reports whether f is one of the known formats.
func (f DataFormat) Valid() bool {
	_, ok := names[f]
	return ok
}

// Tag returns the big-endian byte decomposition of f, which is what the
// header stores at offsets 12..15.
func (f DataFormat) Tag() [4]byte {
	return [4]byte{byte(f >> 24), byte(f >> 16), byte(f >> 8), byte(f)}
}

// Name returns the identifier of f, e.g. "ResourceBundle".
func (f DataFormat) Name() string {
	if name, ok := names[f]; ok {
		return name
	}
	return fmt.Sprintf("DataFormat(0x%08x)", uint32(f))
}

// String returns the 4-character tag, e.g. "ResB".
func (f DataFormat) String() string {
	tag := f.Tag()
	return string(tag[:])
}

// FromTag returns the format whose tag equals the given bytes.
func FromTag(tag [4]byte) (DataFormat, bool) {
	f := DataFormat(uint32(tag[0])<<24 | uint32(tag[1])<<16 | uint32(tag[2])<<8 | uint32(tag[3]))
	return f, f.Valid()
}

// Parse accepts a format name ("ResourceBundle") or tag ("ResB"). An exact
// tag match wins; otherwise names and trimmed tags match case-insensitively.
func Parse(s string) (DataFormat, error) {
	for _, f := range all {
		if s == f.String() {
			return f, nil
		}
	}

	trimmed := strings.TrimSpace(s)
	for _, f := range all {
		if strings.EqualFold(trimmed, names[f]) || strings.EqualFold(trimmed, strings.TrimSpace(f.String())) {
			return f, nil
		}
	}

	return 0, fmt.Errorf("unknown data format %q", s)
}

// IsAcceptableVersion reports whether the format version bytes at header
// offset 16 are supported for f.
func (f DataFormat) IsAcceptableVersion(v version.Quad) bool {
	if f == BreakIteration {
		return breakIterationVersion(v)
	}
	return f.acceptable(v)
}

// IsAcceptableLegacyVersion is IsAcceptableVersion with the BreakIteration
// check computed the way the legacy packaging tool computes it.
func (f DataFormat) IsAcceptableLegacyVersion(v version.Quad) bool {
	if f == BreakIteration {
		return legacyBreakIterationVersion(v)
	}
	return f.acceptable(v)
}

func (f DataFormat) acceptable(v version.Quad) bool {
	switch f {
	case ResourceBundle:
		return (v[0] == 1 && v[1] >= 1) || v[0] == 2 || v[0] == 3
	case Collation:
		return v[0] == 5
	case Dictionary:
		return true
	case Dat:
		return v[0] == 1
	case Normalized2:
		return v[0] == 3
	case CharacterProperty:
		return v[0] == 7
	case Spoof:
		// Loose on purpose: anything with a nonzero lower byte passes.
		return v[0] == 2 || v[1] != 0 || v[2] != 0 || v[3] != 0
	case StringPrep:
		return v[0] == 3 && v[2] == 5 && v[3] == 2
	case BiDi:
		return v[0] == 2
	case Case:
		return v[0] == 3
	case CharacterName:
		return v[0] == 1
	case ConverterAlias:
		return v[0] == 3 && v[1] == 0 && v[2] == 1
	case Converter:
		return v[0] == 6
	case PropertyAlias:
		return v[0] == 2
	default:
		return false
	}
}

const breakIterationFormat = 0x04000000

func breakIterationVersion(v version.Quad) bool {
	packed := uint32(v[0])<<24 | uint32(v[1])<<16 | uint32(v[2])<<8 | uint32(v[3])
	return packed == breakIterationFormat
}

// legacyBreakIterationVersion evaluates a<<24+b<<16+c<<8+d with addition
// binding tighter than shift, i.e. ((a<<(24+b))<<(16+c))<<(8+d), using
// 32-bit wrapping shifts (shift amount taken mod 32).
func legacyBreakIterationVersion(v version.Quad) bool {
	ver := wrappingShl(uint32(v[0]), 24+uint32(v[1]))
	ver = wrappingShl(ver, 16+uint32(v[2]))
	ver = wrappingShl(ver, 8+uint32(v[3]))
	return ver == breakIterationFormat
}

func wrappingShl(x, n uint32) uint32 {
	return x << (n & 31)
}
