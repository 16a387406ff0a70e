package section

import (
	"github.com/go-autobus/blf/endian"
	"github.com/go-autobus/blf/errs"
	"github.com/go-autobus/blf/format"
)

// ContainerHeader follows a LOG_CONTAINER object's BlockHeader (and any
// padding up to BlockHeader.HeaderLength): compression_method(16),
// reserved1(16), reserved2(32), uncompressed_size(32), reserved4(32)
// (spec.md §6).
type ContainerHeader struct {
	CompressionMethod format.CompressionMethod
	UncompressedSize  uint32
}

// Parse parses a ContainerHeader from data.
func (h *ContainerHeader) Parse(data []byte) error {
	if len(data) < ContainerHeaderSize {
		return errs.ErrBadFile
	}

	engine := endian.GetLittleEndianEngine()

	h.CompressionMethod = format.CompressionMethod(engine.Uint16(data[0:2]))
	// bytes[2:4] reserved1, bytes[4:8] reserved2
	h.UncompressedSize = engine.Uint32(data[8:12])
	// bytes[12:16] reserved4

	return nil
}
