package object

import (
	"encoding/binary"
	"strconv"

	"github.com/go-autobus/blf/format"
	"github.com/go-autobus/blf/section"
)

const ethernetStatusDissector = "blf-ethernetstatus-obj"

// decodeEthernetStatus decodes an ETHERNET_STATUS object (spec.md
// §4.7.11), packing its 16 fixed header bytes behind an exported-PDU
// wrapper and publishing a synthetic status interface distinct from the
// data-plane Ethernet interface on the same channel.
func decodeEthernetStatus(ctx *Context, oh commonHeader, bh *section.BlockHeader, blockStart, dataStart int64) (*Packet, error) {
	if err := checkObjectLength(bh.ObjectLength, bh.HeaderLength, section.EthernetStatusHeaderSize); err != nil {
		return nil, err
	}

	raw, err := ctx.read(dataStart, section.EthernetStatusHeaderSize)
	if err != nil {
		return nil, err
	}
	var h section.EthernetStatusHeader
	if err := h.Parse(raw); err != nil {
		return nil, err
	}

	packed := make([]byte, 16)
	binary.BigEndian.PutUint16(packed[0:2], h.Channel)
	binary.BigEndian.PutUint16(packed[2:4], h.Flags)
	packed[4] = h.LinkStatus
	packed[5] = h.Phy
	packed[6] = h.Duplex
	packed[7] = h.MdiType
	packed[8] = h.ConnStatus
	packed[9] = h.Speed
	packed[10] = h.ClockMode
	packed[11] = h.Pairs
	binary.BigEndian.PutUint32(packed[12:16], h.Bitrate)

	wrapped := buildExportedPDU(ethernetStatusDissector, "Ethernet Status", "", packed)

	statusName := statusInterfaceName(h.Channel, h.HwChannel)
	id := ctx.Registry.Lookup(format.EncapUpperPDU, uint32(h.Channel), uint32(h.HwChannel), statusName)

	totalNs, precision := ctx.resolveTimestamp(oh.Flags, oh.ObjectTimestamp)

	pkt := Packet{
		StartOfObject:  blockStart,
		TimestampSecs:  totalNs / 1_000_000_000,
		TimestampNsecs: int32(totalNs % 1_000_000_000),
		Precision:      precision,
		CaptureLen:     len(wrapped),
		WireLen:        len(wrapped),
		Encap:          format.EncapUpperPDU,
		InterfaceID:    id,
		Payload:        wrapped,
	}
	if h.HwChannelValid() {
		pkt.HasPktQueue = true
		pkt.PktQueue = uint32(h.HwChannel)
	}
	return &pkt, nil
}

func statusInterfaceName(channel, hwChannel uint16) string {
	return "STATUS-ETH-" + strconv.Itoa(int(channel)) + "-" + strconv.Itoa(int(hwChannel))
}
