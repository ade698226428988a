package resb

// Option configures Open and ReadHeader.
type Option func(*options)

type options struct {
	legacy bool
}

func defaultOptions() *options {
	return &options{}
}

// WithLegacyCompat reproduces the legacy packaging tool bit for bit: the
// BreakIteration format version is checked with its shift arithmetic and
// index slots are addressed by byte rather than by word.
func WithLegacyCompat() Option {
	return func(o *options) {
		o.legacy = true
	}
}
