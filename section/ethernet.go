package section

import (
	"github.com/go-autobus/blf/endian"
	"github.com/go-autobus/blf/errs"
)

// EthernetFrameHeaderSize is the on-disk header preceding a classic
// ETHERNET_FRAME object's payload (spec.md §4.7.1).
const EthernetFrameHeaderSize = 24

// EthernetFrameHeader carries the split, re-ordered Ethernet header fields
// BLF stores for a classic ETHERNET_FRAME object. The decoder reassembles
// a canonical frame from these (spec.md §4.7.1).
type EthernetFrameHeader struct {
	Channel       uint16
	Direction     uint16
	Dst           [6]byte
	Src           [6]byte
	EthType       uint16
	TPID          uint16
	TCI           uint16
	PayloadLength uint16
}

func (h *EthernetFrameHeader) Parse(data []byte) error {
	if len(data) < EthernetFrameHeaderSize {
		return errs.ErrBadFile
	}

	engine := endian.GetLittleEndianEngine()

	h.Channel = engine.Uint16(data[0:2])
	h.Direction = engine.Uint16(data[2:4])
	copy(h.Dst[:], data[4:10])
	copy(h.Src[:], data[10:16])
	h.EthType = engine.Uint16(data[16:18])
	h.TPID = engine.Uint16(data[18:20])
	h.TCI = engine.Uint16(data[20:22])
	h.PayloadLength = engine.Uint16(data[22:24])

	return nil
}

// EthernetFrameExHeaderSize is the on-disk header preceding an
// ETHERNET_FRAME_EX object, whose payload is already a complete frame
// (spec.md §4.7.2).
const EthernetFrameExHeaderSize = 16

type EthernetFrameExHeader struct {
	Channel     uint16
	HwChannel   uint16
	FrameLength uint32
	Flags       uint16
	Direction   uint16
	Reserved    uint32
}

func (h *EthernetFrameExHeader) Parse(data []byte) error {
	if len(data) < EthernetFrameExHeaderSize {
		return errs.ErrBadFile
	}

	engine := endian.GetLittleEndianEngine()

	h.Channel = engine.Uint16(data[0:2])
	h.HwChannel = engine.Uint16(data[2:4])
	h.FrameLength = engine.Uint32(data[4:8])
	h.Flags = engine.Uint16(data[8:10])
	h.Direction = engine.Uint16(data[10:12])
	h.Reserved = engine.Uint32(data[12:16])

	return nil
}

// WlanFrameHeaderSize is the on-disk header preceding a WLAN_FRAME
// object, analogous to EthernetFrameExHeader (spec.md §4.7.3).
const WlanFrameHeaderSize = 12

type WlanFrameHeader struct {
	Channel     uint16
	FrameLength uint32
	Direction   uint16
	Reserved    uint16
}

func (h *WlanFrameHeader) Parse(data []byte) error {
	if len(data) < WlanFrameHeaderSize {
		return errs.ErrBadFile
	}

	engine := endian.GetLittleEndianEngine()

	h.Channel = engine.Uint16(data[0:2])
	h.FrameLength = engine.Uint32(data[2:6])
	h.Direction = engine.Uint16(data[6:8])
	h.Reserved = engine.Uint16(data[8:10])

	return nil
}

// EthernetStatusHeaderSize is the on-disk header for an ETHERNET_STATUS
// object (spec.md §4.7.11).
const EthernetStatusHeaderSize = 18

// EthernetStatus flag bits.
const (
	EthernetStatusHwChannelValid = 0x0001
)

type EthernetStatusHeader struct {
	Channel     uint16
	Flags       uint16
	LinkStatus  byte
	Phy         byte
	Duplex      byte
	MdiType     byte
	ConnStatus  byte
	Speed       byte
	ClockMode   byte
	Pairs       byte
	HwChannel   uint16
	Bitrate     uint32
}

func (h *EthernetStatusHeader) Parse(data []byte) error {
	if len(data) < EthernetStatusHeaderSize {
		return errs.ErrBadFile
	}

	engine := endian.GetLittleEndianEngine()

	h.Channel = engine.Uint16(data[0:2])
	h.Flags = engine.Uint16(data[2:4])
	h.LinkStatus = data[4]
	h.Phy = data[5]
	h.Duplex = data[6]
	h.MdiType = data[7]
	h.ConnStatus = data[8]
	h.Speed = data[9]
	h.ClockMode = data[10]
	h.Pairs = data[11]
	h.HwChannel = engine.Uint16(data[12:14])
	h.Bitrate = engine.Uint32(data[14:18])

	return nil
}

// HwChannelValid reports whether the "HW channel valid" flag is set.
func (h EthernetStatusHeader) HwChannelValid() bool {
	return h.Flags&EthernetStatusHwChannelValid != 0
}
