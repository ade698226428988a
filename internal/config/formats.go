package config

import (
	"fmt"

	"github.com/jchantrell/icudata/internal/format"
	"github.com/jchantrell/icudata/internal/version"
)

// ParseFormats resolves format names or tags. An empty list selects every
// known format.
func ParseFormats(names []string) ([]format.DataFormat, error) {
	if len(names) == 0 {
		return format.All(), nil
	}

	seen := make(map[format.DataFormat]bool, len(names))
	out := make([]format.DataFormat, 0, len(names))
	for _, name := range names {
		if name == "" {
			return nil, fmt.Errorf("format name cannot be empty")
		}
		f, err := format.Parse(name)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// ParseMinDataVersion parses the data version floor. The empty string means
// no floor and returns nil.
func ParseMinDataVersion(s string) (*version.Quad, error) {
	if s == "" {
		return nil, nil
	}
	q, err := version.ParseQuad(s)
	if err != nil {
		return nil, err
	}
	return &q, nil
}
