package bundle

// Slots of the indexes[] array that follows the root resource word.
const (
	IndexLength         = 0
	IndexKeysTop        = 1
	IndexResourcesTop   = 2
	IndexBundleTop      = 3
	IndexMaxTableLength = 4
	IndexAttributes     = 5
	Index16BitTop       = 6
	IndexPoolChecksum   = 7
)

// MaxKnownIndex is the highest slot the reader depends on. A table whose
// declared length does not exceed it is rejected.
const MaxKnownIndex = IndexAttributes

// Attribute bits in the IndexAttributes slot.
const (
	AttNoFallback     = 1
	AttIsPoolBundle   = 2
	AttUsesPoolBundle = 4
)

// Layout selects how index slots are addressed.
type Layout int

const (
	// LayoutWords places slot n at headerSize + 4 + 4n.
	LayoutWords Layout = iota
	// LayoutLegacy places slot n at headerSize + 4 + n, reproducing the
	// byte-granular addressing of the legacy tool.
	LayoutLegacy
)

func (l Layout) String() string {
	if l == LayoutLegacy {
		return "legacy"
	}
	return "words"
}

// Attributes are the bundle-wide flags and pool limits.
type Attributes struct {
	NoFallback             bool
	IsPoolBundle           bool
	UsesPoolBundle         bool
	PoolStringIndexLimit   uint32
	PoolStringIndex16Limit uint32
}

// KeyTable describes the key strings area, in the units the downstream
// decoder slices keys with.
type KeyTable struct {
	Bottom uint32 // first key word, 1 + indexes length
	Top    uint32 // IndexKeysTop
	// LocalLimit is Top << 2 for bundles that own their keys, zero for pool
	// bundles and for empty key tables.
	LocalLimit uint64
	// Capacity is the size of the key byte buffer the decoder needs.
	Capacity uint64
}

// NewBuffer allocates an empty key buffer of the recorded capacity.
func (k KeyTable) NewBuffer() []byte {
	return make([]byte, 0, k.Capacity)
}

// Index is the decoded index table.
type Index struct {
	RootResource uint32
	Length       uint32 // low byte of slot 0, in words
	// ResourcesTop, BundleTop and MaxTableLength are raw slot values.
	ResourcesTop   uint32
	BundleTop      uint32
	MaxTableLength uint32
	// MaxOffset is BundleTop - 1, -1 when BundleTop is 0.
	MaxOffset int64
	// Top16Bit and PoolChecksum are only present in longer tables.
	Top16Bit     uint32
	PoolChecksum uint32

	FileFormatMajor uint8
	Attributes      Attributes
	Keys            KeyTable
}
