package object

import (
	"github.com/go-autobus/blf/format"
	"github.com/go-autobus/blf/iface"
	"github.com/go-autobus/blf/section"
)

// buildFlexRayMeasurementHeader packs the 7-byte big-endian measurement
// header FlexRay decoders prepend to their payload (spec.md §4.7.7).
func buildFlexRayMeasurementHeader(channelB bool, frameID, headerCRC uint16, cycleOrMux uint8, payloadLength uint16, ppi, sfi, notNull, stfi bool) [7]byte {
	var mh [7]byte

	mh[0] = 0x01
	if channelB {
		mh[0] |= 0x80
	}
	mh[1] = 0x00

	mh[2] = byte((frameID >> 8) & 0x07)
	if ppi {
		mh[2] |= 0x20
	}
	if sfi {
		mh[2] |= 0x10
	}
	if notNull {
		mh[2] |= 0x08
	}
	if stfi {
		mh[2] |= 0x04
	}
	mh[3] = byte(frameID & 0xFF)

	mh[4] = byte((payloadLength&0x7F)<<1) | byte((headerCRC>>10)&0x01)
	mh[5] = byte((headerCRC >> 2) & 0xFF)
	mh[6] = byte((headerCRC&0x03)<<6) | (cycleOrMux & 0x3F)

	return mh
}

// flexRayFields is the subset of a FlexRay header variant that feeds the
// measurement-header packing, extracted so the four decoders below share
// one assembly routine.
type flexRayFields struct {
	ChannelB     bool
	FrameID      uint16
	HeaderCRC    uint16
	CycleOrMux   uint8
	PayloadLen   uint16
	PPI, SFI     bool
	NotNullFrame bool
	STFI         bool
	Channel      uint16
}

func assembleFlexRayFrame(ctx *Context, blockStart int64, f flexRayFields, payloadStart int64, avail int64) ([]byte, error) {
	n := int64(f.PayloadLen)
	if n > avail {
		n = avail
	}
	if n < 0 {
		n = 0
	}
	if n%2 != 0 {
		ctx.Log.Warnf("blf: flexray frame at %d: odd payload length %d", blockStart, n)
	}

	payload, err := ctx.read(payloadStart, int(n))
	if err != nil {
		return nil, err
	}

	mh := buildFlexRayMeasurementHeader(f.ChannelB, f.FrameID, f.HeaderCRC, f.CycleOrMux, f.PayloadLen, f.PPI, f.SFI, f.NotNullFrame, f.STFI)

	out := make([]byte, 0, 7+len(payload))
	out = append(out, mh[:]...)
	out = append(out, payload...)
	return out, nil
}

func decodeFlexRayData(ctx *Context, oh commonHeader, bh *section.BlockHeader, blockStart, dataStart int64) (*Packet, error) {
	if err := checkObjectLength(bh.ObjectLength, bh.HeaderLength, section.FlexRayDataHeaderSize); err != nil {
		return nil, err
	}
	raw, err := ctx.read(dataStart, section.FlexRayDataHeaderSize)
	if err != nil {
		return nil, err
	}
	var h section.FlexRayDataHeader
	if err := h.Parse(raw); err != nil {
		return nil, err
	}

	avail := int64(bh.ObjectLength) - int64(bh.HeaderLength) - section.FlexRayDataHeaderSize
	frame, err := assembleFlexRayFrame(ctx, blockStart, flexRayFieldsOf(h.Channel, h.FrameID, h.HeaderCRC, h.CycleOrMux, h.PayloadLength, h.PPI(), h.SFI(), h.NotNullFrame(), h.STFI()), dataStart+section.FlexRayDataHeaderSize, avail)
	if err != nil {
		return nil, err
	}

	pkt := ctx.emit(oh.Flags, oh.ObjectTimestamp, format.EncapFlexRay, uint32(h.Channel), iface.HwChannelNotApplicable, len(frame), len(frame), frame)
	pkt.StartOfObject = blockStart
	return &pkt, nil
}

func decodeFlexRayMessage(ctx *Context, oh commonHeader, bh *section.BlockHeader, blockStart, dataStart int64) (*Packet, error) {
	if err := checkObjectLength(bh.ObjectLength, bh.HeaderLength, section.FlexRayMessageHeaderSize); err != nil {
		return nil, err
	}
	raw, err := ctx.read(dataStart, section.FlexRayMessageHeaderSize)
	if err != nil {
		return nil, err
	}
	var h section.FlexRayMessageHeader
	if err := h.Parse(raw); err != nil {
		return nil, err
	}

	avail := int64(bh.ObjectLength) - int64(bh.HeaderLength) - section.FlexRayMessageHeaderSize
	frame, err := assembleFlexRayFrame(ctx, blockStart, flexRayFieldsOf(h.Channel, h.FrameID, h.HeaderCRC, h.CycleOrMux, h.PayloadLength, h.PPI(), h.SFI(), h.NotNullFrame(), h.STFI()), dataStart+section.FlexRayMessageHeaderSize, avail)
	if err != nil {
		return nil, err
	}

	pkt := ctx.emit(oh.Flags, oh.ObjectTimestamp, format.EncapFlexRay, uint32(h.Channel), iface.HwChannelNotApplicable, len(frame), len(frame), frame)
	pkt.StartOfObject = blockStart
	return &pkt, nil
}

func decodeFlexRayRcvMessage(ctx *Context, oh commonHeader, bh *section.BlockHeader, blockStart, dataStart int64) (*Packet, error) {
	if err := checkObjectLength(bh.ObjectLength, bh.HeaderLength, section.FlexRayRcvMessageHeaderSize); err != nil {
		return nil, err
	}
	raw, err := ctx.read(dataStart, section.FlexRayRcvMessageHeaderSize)
	if err != nil {
		return nil, err
	}
	var h section.FlexRayRcvMessageHeader
	if err := h.Parse(raw); err != nil {
		return nil, err
	}

	avail := int64(bh.ObjectLength) - int64(bh.HeaderLength) - section.FlexRayRcvMessageHeaderSize
	frame, err := assembleFlexRayFrame(ctx, blockStart, flexRayFieldsOf(h.Channel, h.FrameID, h.HeaderCRC, h.CycleOrMux, h.PayloadLength, h.PPI(), h.SFI(), h.NotNullFrame(), h.STFI()), dataStart+section.FlexRayRcvMessageHeaderSize, avail)
	if err != nil {
		return nil, err
	}

	pkt := ctx.emit(oh.Flags, oh.ObjectTimestamp, format.EncapFlexRay, uint32(h.Channel), iface.HwChannelNotApplicable, len(frame), len(frame), frame)
	pkt.StartOfObject = blockStart
	return &pkt, nil
}

func decodeFlexRayRcvMessageEx(ctx *Context, oh commonHeader, bh *section.BlockHeader, blockStart, dataStart int64) (*Packet, error) {
	if err := checkObjectLength(bh.ObjectLength, bh.HeaderLength, section.FlexRayRcvMessageExHeaderSize); err != nil {
		return nil, err
	}
	raw, err := ctx.read(dataStart, section.FlexRayRcvMessageExHeaderSize)
	if err != nil {
		return nil, err
	}
	var h section.FlexRayRcvMessageExHeader
	if err := h.Parse(raw); err != nil {
		return nil, err
	}

	avail := int64(bh.ObjectLength) - int64(bh.HeaderLength) - section.FlexRayRcvMessageExHeaderSize
	frame, err := assembleFlexRayFrame(ctx, blockStart, flexRayFieldsOf(h.Channel, h.FrameID, h.HeaderCRC, h.CycleOrMux, h.PayloadLength, h.PPI(), h.SFI(), h.NotNullFrame(), h.STFI()), dataStart+section.FlexRayRcvMessageExHeaderSize, avail)
	if err != nil {
		return nil, err
	}

	pkt := ctx.emit(oh.Flags, oh.ObjectTimestamp, format.EncapFlexRay, uint32(h.Channel), iface.HwChannelNotApplicable, len(frame), len(frame), frame)
	pkt.StartOfObject = blockStart
	return &pkt, nil
}

func flexRayFieldsOf(channel, frameID, headerCRC uint16, cycleOrMux uint8, payloadLen uint16, ppi, sfi, notNull, stfi bool) flexRayFields {
	return flexRayFields{
		ChannelB:     channel == 1,
		FrameID:      frameID,
		HeaderCRC:    headerCRC,
		CycleOrMux:   cycleOrMux,
		PayloadLen:   payloadLen,
		PPI:          ppi,
		SFI:          sfi,
		NotNullFrame: notNull,
		STFI:         stfi,
		Channel:      channel,
	}
}
