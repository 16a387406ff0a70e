package section

import (
	"github.com/go-autobus/blf/endian"
	"github.com/go-autobus/blf/errs"
	"github.com/go-autobus/blf/format"
)

// BlockHeader precedes every log object (spec.md §3/§6): 4-byte "LOBJ"
// magic, 16-bit header length, 16-bit header type, 32-bit object length
// (including this header), 32-bit object type.
type BlockHeader struct {
	HeaderLength uint16
	HeaderType   HeaderType
	ObjectLength uint32
	ObjectType   format.ObjectType
}

// Parse parses a BlockHeader from data, which must begin at the first
// byte after the "LOBJ" magic (the caller performs magic detection and
// the single-byte resync of spec.md §4.2/§4.6).
func (h *BlockHeader) Parse(data []byte) error {
	if len(data) < BlockHeaderSize-4 {
		return errs.ErrBadFile
	}

	engine := endian.GetLittleEndianEngine()

	h.HeaderLength = engine.Uint16(data[0:2])
	h.HeaderType = HeaderType(engine.Uint16(data[2:4]))
	h.ObjectLength = engine.Uint32(data[4:8])
	h.ObjectType = format.ObjectType(engine.Uint32(data[8:12]))

	return nil
}

// AdvanceLength returns the number of bytes the demultiplexer and
// container scanner must advance past this object, per spec.md §4.2 step
// 5/6 and §4.6 step 4: max(16, object_length, header_length).
func (h *BlockHeader) AdvanceLength() int64 {
	adv := int64(16)
	if int64(h.ObjectLength) > adv {
		adv = int64(h.ObjectLength)
	}
	if int64(h.HeaderLength) > adv {
		adv = int64(h.HeaderLength)
	}

	return adv
}
