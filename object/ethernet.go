package object

import (
	"encoding/binary"
	"fmt"

	"github.com/go-autobus/blf/errs"
	"github.com/go-autobus/blf/format"
	"github.com/go-autobus/blf/iface"
	"github.com/go-autobus/blf/section"
)

// decodeEthernetFrame decodes a classic ETHERNET_FRAME object (spec.md
// §4.7.1), reassembling BLF's split/re-ordered header fields into a
// canonical Ethernet frame.
func decodeEthernetFrame(ctx *Context, oh commonHeader, bh *section.BlockHeader, blockStart, dataStart int64) (*Packet, error) {
	if err := checkObjectLength(bh.ObjectLength, bh.HeaderLength, section.EthernetFrameHeaderSize); err != nil {
		return nil, err
	}

	raw, err := ctx.read(dataStart, section.EthernetFrameHeaderSize)
	if err != nil {
		return nil, err
	}
	var h section.EthernetFrameHeader
	if err := h.Parse(raw); err != nil {
		return nil, err
	}

	avail := int64(bh.ObjectLength) - int64(bh.HeaderLength) - section.EthernetFrameHeaderSize
	if int64(h.PayloadLength) > avail {
		return nil, fmt.Errorf("blf: ethernet frame at %d: payload_length %d exceeds %d remaining object bytes: %w",
			blockStart, h.PayloadLength, avail, errs.ErrBadFile)
	}

	payload, err := ctx.read(dataStart+section.EthernetFrameHeaderSize, int(h.PayloadLength))
	if err != nil {
		return nil, err
	}

	vlan := h.TPID != 0 && h.TCI != 0

	frame := make([]byte, 0, 18+len(payload))
	frame = append(frame, h.Dst[:]...)
	frame = append(frame, h.Src[:]...)
	if vlan {
		var tag [4]byte
		binary.BigEndian.PutUint16(tag[0:2], h.TPID)
		binary.BigEndian.PutUint16(tag[2:4], h.TCI)
		frame = append(frame, tag[:]...)
	}
	var ethType [2]byte
	binary.BigEndian.PutUint16(ethType[:], h.EthType)
	frame = append(frame, ethType[:]...)
	frame = append(frame, payload...)

	pkt := ctx.emit(oh.Flags, oh.ObjectTimestamp, format.EncapEthernet, uint32(h.Channel), iface.HwChannelNotApplicable, len(frame), len(frame), frame)
	pkt.StartOfObject = blockStart
	pkt.Direction = directionFromWord(h.Direction)
	return &pkt, nil
}

// decodeEthernetFrameEx decodes an ETHERNET_FRAME_EX object (spec.md
// §4.7.2), whose payload is already a complete on-wire frame.
func decodeEthernetFrameEx(ctx *Context, oh commonHeader, bh *section.BlockHeader, blockStart, dataStart int64) (*Packet, error) {
	if err := checkObjectLength(bh.ObjectLength, bh.HeaderLength, section.EthernetFrameExHeaderSize); err != nil {
		return nil, err
	}

	raw, err := ctx.read(dataStart, section.EthernetFrameExHeaderSize)
	if err != nil {
		return nil, err
	}
	var h section.EthernetFrameExHeader
	if err := h.Parse(raw); err != nil {
		return nil, err
	}

	avail := int64(bh.ObjectLength) - int64(bh.HeaderLength) - section.EthernetFrameExHeaderSize
	if int64(h.FrameLength) > avail {
		return nil, fmt.Errorf("blf: ethernet frame ex at %d: frame_length %d exceeds %d remaining object bytes: %w",
			blockStart, h.FrameLength, avail, errs.ErrBadFile)
	}

	payload, err := ctx.read(dataStart+section.EthernetFrameExHeaderSize, int(h.FrameLength))
	if err != nil {
		return nil, err
	}

	pkt := ctx.emit(oh.Flags, oh.ObjectTimestamp, format.EncapEthernet, uint32(h.Channel), uint32(h.HwChannel), len(payload), len(payload), payload)
	pkt.StartOfObject = blockStart
	pkt.Direction = directionFromWord(h.Direction)
	pkt.HasPktQueue = true
	pkt.PktQueue = uint32(h.HwChannel)
	return &pkt, nil
}

// decodeWlanFrame decodes a WLAN_FRAME object (spec.md §4.7.3), which is
// analogous to ETHERNET_FRAME_EX but tagged encap=WLAN.
func decodeWlanFrame(ctx *Context, oh commonHeader, bh *section.BlockHeader, blockStart, dataStart int64) (*Packet, error) {
	if err := checkObjectLength(bh.ObjectLength, bh.HeaderLength, section.WlanFrameHeaderSize); err != nil {
		return nil, err
	}

	raw, err := ctx.read(dataStart, section.WlanFrameHeaderSize)
	if err != nil {
		return nil, err
	}
	var h section.WlanFrameHeader
	if err := h.Parse(raw); err != nil {
		return nil, err
	}

	avail := int64(bh.ObjectLength) - int64(bh.HeaderLength) - section.WlanFrameHeaderSize
	if int64(h.FrameLength) > avail {
		return nil, fmt.Errorf("blf: wlan frame at %d: frame_length %d exceeds %d remaining object bytes: %w",
			blockStart, h.FrameLength, avail, errs.ErrBadFile)
	}

	payload, err := ctx.read(dataStart+section.WlanFrameHeaderSize, int(h.FrameLength))
	if err != nil {
		return nil, err
	}

	pkt := ctx.emit(oh.Flags, oh.ObjectTimestamp, format.EncapWlan, uint32(h.Channel), iface.HwChannelNotApplicable, len(payload), len(payload), payload)
	pkt.StartOfObject = blockStart
	pkt.Direction = directionFromWord(h.Direction)
	return &pkt, nil
}

// directionFromWord normalizes the raw direction words BLF headers use
// (0=rx, 1=tx, 2=tx_request, matching Vector's convention) into
// format.Direction.
func directionFromWord(raw uint16) format.Direction {
	switch raw {
	case 0:
		return format.DirectionRx
	case 1:
		return format.DirectionTx
	case 2:
		return format.DirectionTxRequest
	default:
		return format.DirectionUnknown
	}
}
