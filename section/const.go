package section

// Magic values and fixed sizes shared across the codecs in this package.
const (
	FileHeaderMagic  = "LOGG"
	BlockHeaderMagic = "LOBJ"

	// BlockHeaderSize is the size of the common block header that
	// precedes every log object (spec.md §3/§6).
	BlockHeaderSize = 16

	// ContainerHeaderSize is the size of the header immediately following
	// a LOG_CONTAINER object's block header (spec.md §6).
	ContainerHeaderSize = 16

	// LogObjectHeaderV1Size, V2Size, V3Size are the sizes of the three
	// LogObjectHeader variants (spec.md §3), not including the common
	// BlockHeader they follow.
	LogObjectHeaderV1Size = 16
	LogObjectHeaderV2Size = 24
	LogObjectHeaderV3Size = 22
)

// HeaderType enumerates the BlockHeader.HeaderType values that select
// which LogObjectHeader variant follows.
type HeaderType uint16

const (
	HeaderTypeV1 HeaderType = 1
	HeaderTypeV2 HeaderType = 2
	HeaderTypeV3 HeaderType = 3
)
