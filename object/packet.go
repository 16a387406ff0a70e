// Package object implements the object demultiplexer and per-type
// decoders (C6/C7, spec.md §4.6-§4.7): it walks the virtual-offset
// stream one log object at a time and turns each into a canonical
// Packet.
package object

import "github.com/go-autobus/blf/format"

// directionOptionCode is the EPB-flags option code carrying a record's
// inbound/outbound direction (spec.md §4.7.10).
const directionOptionCode = 0x0002

// Packet is the canonical decoded record (spec.md §3 PacketRecord).
type Packet struct {
	// StartOfObject is the virtual offset of this record's first byte;
	// callers use it as an opaque locator for a later random_read
	// (spec.md §4.8). For a multi-object APP_TEXT METADATA sequence this
	// is the offset of the *first* object in the sequence.
	StartOfObject int64

	TimestampSecs  int64
	TimestampNsecs int32
	Precision      format.TimestampResolution

	CaptureLen int
	WireLen    int

	Encap       format.Encap
	InterfaceID uint32

	Direction   format.Direction
	HasPktQueue bool
	PktQueue    uint32

	Payload []byte
}

// DirectionOptionValue returns the EPB-flags option value for this
// record's direction: 1 inbound, 2 outbound, 0 for missing/unknown
// (spec.md §4.7.10).
func (p Packet) DirectionOptionValue() uint8 {
	switch p.Direction {
	case format.DirectionRx:
		return 1
	case format.DirectionTx, format.DirectionTxRequest:
		return 2
	default:
		return 0
	}
}
