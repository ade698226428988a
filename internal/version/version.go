// Package version maps the four raw data-version bytes of an ICU data file
// to a known release.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Quad is a piecewise version: major, minor, milli, micro.
type Quad [4]uint8

// String renders q as "major.minor.milli.micro".
func (q Quad) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", q[0], q[1], q[2], q[3])
}

// Major returns the first component.
func (q Quad) Major() uint8 { return q[0] }

// ParseQuad parses a dotted version string such as "1.4" or "10.0.0.0".
// Missing trailing components are zero.
func ParseQuad(s string) (Quad, error) {
	var q Quad
	if s == "" {
		return q, fmt.Errorf("version string cannot be empty")
	}

	parts := strings.Split(s, ".")
	if len(parts) > 4 {
		return q, fmt.Errorf("invalid version format: %s (at most 4 components)", s)
	}

	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return Quad{}, fmt.Errorf("invalid version component %q in %s", part, s)
		}
		q[i] = uint8(n)
	}

	return q, nil
}

// Compare returns -1 if a < b, 0 if a == b, 1 if a > b.
func Compare(a, b Quad) int {
	for i := range a {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// Release identifies the Unicode release a data version corresponds to.
type Release int

const (
	Unknown Release = iota
	Unicode1_0
	Unicode1_0_1
	Unicode1_1_0
	Unicode1_1_5
	Unicode2_0
	Unicode2_1_2
	Unicode2_1_5
	Unicode2_1_8
	Unicode2_1_9
	Unicode3_0
	Unicode3_0_1
	Unicode3_1_0
	Unicode3_1_1
	Unicode3_2
	Unicode4_0
	Unicode4_0_1
	Unicode4_1
	Unicode5_0
	Unicode5_1
	Unicode5_2
	Unicode6_0
	Unicode6_1
	Unicode6_2
	Unicode6_3
	Unicode7_0
	Unicode8_0
	Unicode9_0
	Unicode10_0
)

// releases is keyed by the raw data-version quad. ICU stamps property data
// with the Unicode version it was built from, micro byte zero.
var releases = map[Quad]Release{
	{1, 0, 0, 0}:  Unicode1_0,
	{1, 0, 1, 0}:  Unicode1_0_1,
	{1, 1, 0, 0}:  Unicode1_1_0,
	{1, 1, 5, 0}:  Unicode1_1_5,
	{2, 0, 0, 0}:  Unicode2_0,
	{2, 1, 2, 0}:  Unicode2_1_2,
	{2, 1, 5, 0}:  Unicode2_1_5,
	{2, 1, 8, 0}:  Unicode2_1_8,
	{2, 1, 9, 0}:  Unicode2_1_9,
	{3, 0, 0, 0}:  Unicode3_0,
	{3, 0, 1, 0}:  Unicode3_0_1,
	{3, 1, 0, 0}:  Unicode3_1_0,
	{3, 1, 1, 0}:  Unicode3_1_1,
	{3, 2, 0, 0}:  Unicode3_2,
	{4, 0, 0, 0}:  Unicode4_0,
	{4, 0, 1, 0}:  Unicode4_0_1,
	{4, 1, 0, 0}:  Unicode4_1,
	{5, 0, 0, 0}:  Unicode5_0,
	{5, 1, 0, 0}:  Unicode5_1,
	{5, 2, 0, 0}:  Unicode5_2,
	{6, 0, 0, 0}:  Unicode6_0,
	{6, 1, 0, 0}:  Unicode6_1,
	{6, 2, 0, 0}:  Unicode6_2,
	{6, 3, 0, 0}:  Unicode6_3,
	{7, 0, 0, 0}:  Unicode7_0,
	{8, 0, 0, 0}:  Unicode8_0,
	{9, 0, 0, 0}:  Unicode9_0,
	{10, 0, 0, 0}: Unicode10_0,
}

var releaseNames = map[Release]string{
	Unknown:      "unknown",
	Unicode1_0:   "Unicode 1.0",
	Unicode1_0_1: "Unicode 1.0.1",
	Unicode1_1_0: "Unicode 1.1.0",
	Unicode1_1_5: "Unicode 1.1.5",
	Unicode2_0:   "Unicode 2.0",
	Unicode2_1_2: "Unicode 2.1.2",
	Unicode2_1_5: "Unicode 2.1.5",
	Unicode2_1_8: "Unicode 2.1.8",
	Unicode2_1_9: "Unicode 2.1.9",
	Unicode3_0:   "Unicode 3.0",
	Unicode3_0_1: "Unicode 3.0.1",
	Unicode3_1_0: "Unicode 3.1.0",
	Unicode3_1_1: "Unicode 3.1.1",
	Unicode3_2:   "Unicode 3.2",
	Unicode4_0:   "Unicode 4.0",
	Unicode4_0_1: "Unicode 4.0.1",
	Unicode4_1:   "Unicode 4.1",
	Unicode5_0:   "Unicode 5.0",
	Unicode5_1:   "Unicode 5.1",
	Unicode5_2:   "Unicode 5.2",
	Unicode6_0:   "Unicode 6.0",
	Unicode6_1:   "Unicode 6.1",
	Unicode6_2:   "Unicode 6.2",
	Unicode6_3:   "Unicode 6.3",
	Unicode7_0:   "Unicode 7.0",
	Unicode8_0:   "Unicode 8.0",
	Unicode9_0:   "Unicode 9.0",
	Unicode10_0:  "Unicode 10.0",
}

func (r Release) String() string {
	if name, ok := releaseNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Release(%d)", int(r))
}

// Version is a resolved data version. Quad always holds the raw bytes read
// from the file, whether or not Release is known.
type Version struct {
	Release Release
	Quad    Quad
}

// Resolve looks q up in the release table.
func Resolve(q Quad) Version {
	return Version{Release: releases[q], Quad: q}
}

// Known reports whether the raw quad matched a release.
func (v Version) Known() bool {
	return v.Release != Unknown
}

func (v Version) String() string {
	return fmt.Sprintf("%s (%s)", v.Quad, v.Release)
}
