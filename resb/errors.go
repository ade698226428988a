package resb

import (
	"github.com/jchantrell/icudata/internal/bundle"
	"github.com/jchantrell/icudata/internal/header"
)

// Errors returned by Open and ReadHeader. Any other error is an I/O failure
// from the underlying source, wrapped with context.
var (
	ErrNotDataFile          = header.ErrNotDataFile
	ErrHeaderAuthentication = header.ErrHeaderAuthentication
	ErrIndexTooShort        = bundle.ErrIndexTooShort
)
