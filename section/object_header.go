package section

import (
	"github.com/go-autobus/blf/endian"
	"github.com/go-autobus/blf/errs"
	"github.com/go-autobus/blf/format"
)

// ObjectHeader is the unified {flags, object_timestamp} view every
// LogObjectHeader variant exposes to downstream code (spec.md §3).
type ObjectHeader struct {
	Flags           uint32
	ObjectTimestamp uint64
}

// Resolution decodes the timestamp-resolution bits of Flags: 1 -> 10us
// tick, 2 -> 1ns tick (spec.md §3).
func (h ObjectHeader) Resolution() format.TimestampResolution {
	switch h.Flags & 0x3 {
	case 1:
		return format.Timestamp10Microsecond
	case 2:
		return format.Timestamp1Nanosecond
	default:
		return format.TimestampUnknown
	}
}

// LogObjectHeaderV1 is the header_type=1 variant: flags(32),
// client_index(16), object_version(16), object_timestamp(64).
type LogObjectHeaderV1 struct {
	ObjectHeader
	ClientIndex   uint16
	ObjectVersion uint16
}

func (h *LogObjectHeaderV1) Parse(data []byte) error {
	if len(data) < LogObjectHeaderV1Size {
		return errs.ErrBadFile
	}

	engine := endian.GetLittleEndianEngine()

	h.Flags = engine.Uint32(data[0:4])
	h.ClientIndex = engine.Uint16(data[4:6])
	h.ObjectVersion = engine.Uint16(data[6:8])
	h.ObjectTimestamp = engine.Uint64(data[8:16])

	return nil
}

// LogObjectHeaderV2 is the header_type=2 variant: flags(32),
// timestamp_status(8), reserved(8), object_version(16),
// object_timestamp(64), original_timestamp(64).
//
// OriginalTimestamp is parsed but never consulted by any decoder: see
// spec.md §9's note that the reference implementation assigns it from
// object_timestamp rather than from itself, making it effectively unused.
type LogObjectHeaderV2 struct {
	ObjectHeader
	TimestampStatus   uint8
	ObjectVersion     uint16
	OriginalTimestamp uint64
}

func (h *LogObjectHeaderV2) Parse(data []byte) error {
	if len(data) < LogObjectHeaderV2Size {
		return errs.ErrBadFile
	}

	engine := endian.GetLittleEndianEngine()

	h.Flags = engine.Uint32(data[0:4])
	h.TimestampStatus = data[4]
	// data[5] reserved
	h.ObjectVersion = engine.Uint16(data[6:8])
	h.ObjectTimestamp = engine.Uint64(data[8:16])
	h.OriginalTimestamp = engine.Uint64(data[16:24])

	return nil
}

// LogObjectHeaderV3 is the header_type=3 variant: flags(32),
// static_size(16), reserved(48), object_version(16), object_timestamp(64).
type LogObjectHeaderV3 struct {
	ObjectHeader
	StaticSize    uint16
	ObjectVersion uint16
}

func (h *LogObjectHeaderV3) Parse(data []byte) error {
	if len(data) < LogObjectHeaderV3Size {
		return errs.ErrBadFile
	}

	engine := endian.GetLittleEndianEngine()

	h.Flags = engine.Uint32(data[0:4])
	h.StaticSize = engine.Uint16(data[4:6])
	// data[6:12] reserved (48 bits)
	h.ObjectVersion = engine.Uint16(data[12:14])
	h.ObjectTimestamp = engine.Uint64(data[14:22])

	return nil
}
