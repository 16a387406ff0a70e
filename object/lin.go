package object

import (
	"github.com/go-autobus/blf/format"
	"github.com/go-autobus/blf/iface"
	"github.com/go-autobus/blf/section"
)

// decodeLinMessage decodes a LIN_MESSAGE object (spec.md §4.7.8),
// synthesizing an 8-byte header followed by up to 8 payload bytes.
func decodeLinMessage(ctx *Context, oh commonHeader, bh *section.BlockHeader, blockStart, dataStart int64) (*Packet, error) {
	if err := checkObjectLength(bh.ObjectLength, bh.HeaderLength, section.LinMessageHeaderSize); err != nil {
		return nil, err
	}

	raw, err := ctx.read(dataStart, section.LinMessageHeaderSize)
	if err != nil {
		return nil, err
	}
	var h section.LinMessageHeader
	if err := h.Parse(raw); err != nil {
		return nil, err
	}

	dlc := h.DLC
	if dlc > 8 {
		dlc = 8
	}

	frame := make([]byte, 8+int(dlc))
	frame[0] = 1 // msg_fmt_rev
	frame[1] = dlc << 4
	frame[2] = h.ID & 0x3F
	frame[3] = h.CRC
	copy(frame[8:], h.Data[:dlc])

	pkt := ctx.emit(oh.Flags, oh.ObjectTimestamp, format.EncapLin, uint32(h.Channel), iface.HwChannelNotApplicable, len(frame), len(frame), frame)
	pkt.StartOfObject = blockStart
	pkt.Direction = directionFromWord(uint16(h.Dir))
	return &pkt, nil
}
