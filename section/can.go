package section

import (
	"github.com/go-autobus/blf/endian"
	"github.com/go-autobus/blf/errs"
)

// CAN header flag bits (on-disk, distinct from the SocketCAN id flags
// synthesized in package format for emitted payloads).
const (
	CANFlagRTR = 0x01
	CANFlagTX  = 0x02
	CANFlagEDL = 0x04 // CAN FD: extended data length (FD vs classic)
)

// CanMessageHeaderSize is the on-disk header for a CAN_MESSAGE object
// (spec.md §4.7.4).
const CanMessageHeaderSize = 8

type CanMessageHeader struct {
	Channel uint16
	Flags   uint8
	DLC     uint8
	ID      uint32
}

func (h *CanMessageHeader) Parse(data []byte) error {
	if len(data) < CanMessageHeaderSize {
		return errs.ErrBadFile
	}

	engine := endian.GetLittleEndianEngine()

	h.Channel = engine.Uint16(data[0:2])
	h.Flags = data[2]
	h.DLC = data[3]
	h.ID = engine.Uint32(data[4:8])

	return nil
}

func (h CanMessageHeader) RTR() bool { return h.Flags&CANFlagRTR != 0 }
func (h CanMessageHeader) TX() bool  { return h.Flags&CANFlagTX != 0 }

// CanMessage2TrailerSize is the 16-byte trailer CAN_MESSAGE2 requires
// after the 8 payload bytes (spec.md §4.7.4). Its presence is validated
// but its fields (including frameLength_in_ns) are not propagated, per
// spec.md §9.
const CanMessage2TrailerSize = 16

// CanFdMessageHeaderSize is the on-disk header for a CAN_FD_MESSAGE
// object (spec.md §4.7.5).
const CanFdMessageHeaderSize = 12

type CanFdMessageHeader struct {
	Channel        uint16
	Flags          uint8
	DLC            uint8
	ID             uint32
	ValidDataBytes uint16
	Reserved       uint16
}

func (h *CanFdMessageHeader) Parse(data []byte) error {
	if len(data) < CanFdMessageHeaderSize {
		return errs.ErrBadFile
	}

	engine := endian.GetLittleEndianEngine()

	h.Channel = engine.Uint16(data[0:2])
	h.Flags = data[2]
	h.DLC = data[3]
	h.ID = engine.Uint32(data[4:8])
	h.ValidDataBytes = engine.Uint16(data[8:10])
	h.Reserved = engine.Uint16(data[10:12])

	return nil
}

func (h CanFdMessageHeader) RTR() bool { return h.Flags&CANFlagRTR != 0 }
func (h CanFdMessageHeader) TX() bool  { return h.Flags&CANFlagTX != 0 }
func (h CanFdMessageHeader) EDL() bool { return h.Flags&CANFlagEDL != 0 }

// CanFdMessage64HeaderSize is the on-disk header for a
// CAN_FD_MESSAGE_64 object; direction is an explicit field rather than a
// TX bit (spec.md §4.7.5).
const CanFdMessage64HeaderSize = 16

type CanFdMessage64Header struct {
	Channel        uint16
	DLC            uint8
	ValidDataBytes uint8
	Flags          uint32 // bit0=RTR, bit2=EDL
	ID             uint32
	Dir            uint8
	Reserved       [3]byte
}

func (h *CanFdMessage64Header) Parse(data []byte) error {
	if len(data) < CanFdMessage64HeaderSize {
		return errs.ErrBadFile
	}

	engine := endian.GetLittleEndianEngine()

	h.Channel = engine.Uint16(data[0:2])
	h.DLC = data[2]
	h.ValidDataBytes = data[3]
	h.Flags = engine.Uint32(data[4:8])
	h.ID = engine.Uint32(data[8:12])
	h.Dir = data[12]
	copy(h.Reserved[:], data[13:16])

	return nil
}

func (h CanFdMessage64Header) RTR() bool { return h.Flags&CANFlagRTR != 0 }
func (h CanFdMessage64Header) EDL() bool { return h.Flags&CANFlagEDL != 0 }

// CanErrorHeaderSize is the on-disk header for a plain CAN_ERROR object
// (spec.md §4.7.6).
const CanErrorHeaderSize = 4

type CanErrorHeader struct {
	Channel uint16
	Length  uint16
}

func (h *CanErrorHeader) Parse(data []byte) error {
	if len(data) < CanErrorHeaderSize {
		return errs.ErrBadFile
	}

	engine := endian.GetLittleEndianEngine()
	h.Channel = engine.Uint16(data[0:2])
	h.Length = engine.Uint16(data[2:4])

	return nil
}

// CanErrorExt flag bits within Flags.
const (
	CanErrorExtFlagCANCORE = 0x01
	CanErrorExtFlagTX      = 0x02 // EXTECC_TX
)

// errorCodeExt bit layout: top 6 bits (31:26) carry the ECC code; bit 0
// is NOT_ACK (spec.md §4.7.6).
const (
	CanErrorCodeExtECCShift = 26
	CanErrorCodeExtECCMask  = 0x3F
	CanErrorCodeExtNotAck   = 0x00000001
)

// CanErrorExtHeaderSize is the on-disk header shared by CAN_ERROR_EXT and
// CAN_FD_ERROR_64 (spec.md §4.7.6).
const CanErrorExtHeaderSize = 10

type CanErrorExtHeader struct {
	Channel      uint16
	Flags        uint16
	ErrorCodeExt uint32
	Length       uint16
}

func (h *CanErrorExtHeader) Parse(data []byte) error {
	if len(data) < CanErrorExtHeaderSize {
		return errs.ErrBadFile
	}

	engine := endian.GetLittleEndianEngine()

	h.Channel = engine.Uint16(data[0:2])
	h.Flags = engine.Uint16(data[2:4])
	h.ErrorCodeExt = engine.Uint32(data[4:8])
	h.Length = engine.Uint16(data[8:10])

	return nil
}

func (h CanErrorExtHeader) CANCORE() bool { return h.Flags&CanErrorExtFlagCANCORE != 0 }
func (h CanErrorExtHeader) TX() bool      { return h.Flags&CanErrorExtFlagTX != 0 }
func (h CanErrorExtHeader) NotAck() bool  { return h.ErrorCodeExt&CanErrorCodeExtNotAck != 0 }
func (h CanErrorExtHeader) ECC() uint8 {
	return uint8((h.ErrorCodeExt >> CanErrorCodeExtECCShift) & CanErrorCodeExtECCMask)
}
