package section

import (
	"github.com/go-autobus/blf/endian"
	"github.com/go-autobus/blf/errs"
)

// FlexRay state-bit flags (spec.md §4.7.7): PPI = payload-preamble
// indicator, SFI = startup-frame indicator, NFI = "not a null frame"
// indicator, STFI = sync-frame indicator.
const (
	FlexRayStatePPI  = 0x01
	FlexRayStateSFI  = 0x02
	FlexRayStateNFI  = 0x04 // set when the frame is NOT a null frame
	FlexRayStateSTFI = 0x08
)

// flexRayCommon is the subset of fields every FlexRay object header
// exposes, regardless of which on-disk variant it came from.
type flexRayCommon struct {
	Channel       uint16 // 0 = A, 1 = B
	FrameID       uint16
	HeaderCRC     uint16 // 11 bits significant
	CycleOrMux    uint8  // cycle count, or multiplexer for FLEXRAY_DATA
	PayloadLength uint16 // in bytes
	State         uint8  // FlexRayState* bits
}

func (f flexRayCommon) ChannelB() bool  { return f.Channel == 1 }
func (f flexRayCommon) PPI() bool       { return f.State&FlexRayStatePPI != 0 }
func (f flexRayCommon) SFI() bool       { return f.State&FlexRayStateSFI != 0 }
func (f flexRayCommon) NotNullFrame() bool { return f.State&FlexRayStateNFI != 0 }
func (f flexRayCommon) STFI() bool      { return f.State&FlexRayStateSTFI != 0 }

func parseFlexRayCommon(engine endian.EndianEngine, data []byte) flexRayCommon {
	return flexRayCommon{
		Channel:       engine.Uint16(data[0:2]),
		FrameID:       engine.Uint16(data[2:4]),
		HeaderCRC:     engine.Uint16(data[4:6]),
		CycleOrMux:    data[6],
		PayloadLength: engine.Uint16(data[7:9]),
		State:         data[9],
	}
}

// FlexRayDataHeaderSize is the on-disk header for a FLEXRAY_DATA object
// (spec.md §4.7.7); CycleOrMux holds the multiplexer value for this
// variant.
const FlexRayDataHeaderSize = 16

type FlexRayDataHeader struct {
	flexRayCommon
}

func (h *FlexRayDataHeader) Parse(data []byte) error {
	if len(data) < FlexRayDataHeaderSize {
		return errs.ErrBadFile
	}
	h.flexRayCommon = parseFlexRayCommon(endian.GetLittleEndianEngine(), data)
	return nil
}

// FlexRayMessageHeaderSize is the on-disk header for a FLEXRAY_MESSAGE
// object.
const FlexRayMessageHeaderSize = 16

type FlexRayMessageHeader struct {
	flexRayCommon
}

func (h *FlexRayMessageHeader) Parse(data []byte) error {
	if len(data) < FlexRayMessageHeaderSize {
		return errs.ErrBadFile
	}
	h.flexRayCommon = parseFlexRayCommon(endian.GetLittleEndianEngine(), data)
	return nil
}

// FlexRayRcvMessageHeaderSize is the on-disk header for a
// FLEXRAY_RCVMESSAGE object.
const FlexRayRcvMessageHeaderSize = 24

type FlexRayRcvMessageHeader struct {
	flexRayCommon
}

func (h *FlexRayRcvMessageHeader) Parse(data []byte) error {
	if len(data) < FlexRayRcvMessageHeaderSize {
		return errs.ErrBadFile
	}
	h.flexRayCommon = parseFlexRayCommon(endian.GetLittleEndianEngine(), data)
	return nil
}

// FlexRayRcvMessageExHeaderSize is the on-disk header for a
// FLEXRAY_RCVMESSAGE_EX object: 40 bytes larger than the plain
// RCVMESSAGE variant, but the fields consumed for the measurement header
// are identical (spec.md §4.7.7).
const FlexRayRcvMessageExHeaderSize = FlexRayRcvMessageHeaderSize + 40

type FlexRayRcvMessageExHeader struct {
	flexRayCommon
}

func (h *FlexRayRcvMessageExHeader) Parse(data []byte) error {
	if len(data) < FlexRayRcvMessageExHeaderSize {
		return errs.ErrBadFile
	}
	h.flexRayCommon = parseFlexRayCommon(endian.GetLittleEndianEngine(), data)
	return nil
}
