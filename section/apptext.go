package section

import (
	"github.com/go-autobus/blf/endian"
	"github.com/go-autobus/blf/errs"
)

// AppTextSource enumerates APP_TEXT's source field (spec.md §4.7.9).
type AppTextSource uint32

const (
	AppTextChannel    AppTextSource = 1
	AppTextMetadata   AppTextSource = 2
	AppTextComment    AppTextSource = 5
	AppTextAttachment AppTextSource = 11
	AppTextTraceline  AppTextSource = 12
)

// AppTextHeaderSize is the on-disk header for an APP_TEXT object
// (spec.md §4.7.9): source, reservedAppText1, textLength.
const AppTextHeaderSize = 12

type AppTextHeader struct {
	Source      AppTextSource
	Reserved1   uint32
	TextLength  uint32
}

func (h *AppTextHeader) Parse(data []byte) error {
	if len(data) < AppTextHeaderSize {
		return errs.ErrBadFile
	}

	engine := endian.GetLittleEndianEngine()

	h.Source = AppTextSource(engine.Uint32(data[0:4]))
	h.Reserved1 = engine.Uint32(data[4:8])
	h.TextLength = engine.Uint32(data[8:12])

	return nil
}

// Channel extracts the CHANNEL-source channel number: (reserved1 >> 8) & 0xFF.
func (h AppTextHeader) Channel() uint8 {
	return uint8((h.Reserved1 >> 8) & 0xFF)
}

// ChannelEncapCode extracts the CHANNEL-source raw encap code:
// (reserved1 >> 16) & 0xFF.
func (h AppTextHeader) ChannelEncapCode() uint8 {
	return uint8((h.Reserved1 >> 16) & 0xFF)
}

// MetadataTotalLength extracts the low 24 bits of reserved1, which the
// METADATA source uses to track the total length of a multi-object
// sequence (spec.md §4.7.9).
func (h AppTextHeader) MetadataTotalLength() uint32 {
	return h.Reserved1 & 0x00FFFFFF
}
