package object

import (
	"encoding/binary"

	"github.com/go-autobus/blf/format"
	"github.com/go-autobus/blf/iface"
	"github.com/go-autobus/blf/section"
)

// synthesizeCanFrame builds the fixed 8-byte SocketCAN header `{id(BE32),
// dlc, 0, 0, 0}` followed by payload, applying the RTR flag rule shared
// by every CAN variant (spec.md §4.7.4): RTR sets the id flag and zeroes
// the payload (and, per S3, the emitted dlc byte).
func synthesizeCanFrame(id uint32, dlc uint8, rtr bool, payload []byte) []byte {
	if rtr {
		id |= format.CANIDRTRFlag
		dlc = 0
		payload = nil
	}

	out := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint32(out[0:4], id)
	out[4] = dlc
	copy(out[8:], payload)
	return out
}

// decodeCanMessage decodes CAN_MESSAGE and, when withTrailer is set,
// CAN_MESSAGE2 (spec.md §4.7.4). CAN_MESSAGE2's 16-byte trailer is
// validated for presence but its fields are not propagated (spec.md §9).
func decodeCanMessage(ctx *Context, oh commonHeader, bh *section.BlockHeader, blockStart, dataStart int64, withTrailer bool) (*Packet, error) {
	requiredHeaderSize := section.CanMessageHeaderSize
	trailerLen := 0
	if withTrailer {
		trailerLen = section.CanMessage2TrailerSize
		requiredHeaderSize += trailerLen
	}
	if err := checkObjectLength(bh.ObjectLength, bh.HeaderLength, requiredHeaderSize); err != nil {
		return nil, err
	}

	raw, err := ctx.read(dataStart, section.CanMessageHeaderSize)
	if err != nil {
		return nil, err
	}
	var h section.CanMessageHeader
	if err := h.Parse(raw); err != nil {
		return nil, err
	}

	dlc := h.DLC
	if dlc > 8 {
		ctx.Log.Warnf("blf: can_message at %d: dlc %d exceeds classic range, clamping to 8", blockStart, dlc)
		dlc = 8
	}
	payloadLen := format.CANClassicDLCToLen[dlc]

	// Classic CAN_MESSAGE always carries a fixed 8-byte data field on
	// disk, independent of dlc; the decoder trims it to the DLC-derived
	// length.
	const fixedDataSize = 8
	avail := int64(bh.ObjectLength) - int64(bh.HeaderLength) - section.CanMessageHeaderSize - int64(trailerLen)
	dataSize := int64(fixedDataSize)
	if dataSize > avail {
		dataSize = avail
	}
	if dataSize < 0 {
		dataSize = 0
	}

	data, err := ctx.read(dataStart+section.CanMessageHeaderSize, int(dataSize))
	if err != nil {
		return nil, err
	}
	if int64(payloadLen) > dataSize {
		payloadLen = int(dataSize)
	}
	payload := data[:payloadLen]

	// CAN_MESSAGE2's trailer is read to confirm presence but discarded.
	if withTrailer {
		if _, err := ctx.read(dataStart+int64(section.CanMessageHeaderSize)+dataSize, section.CanMessage2TrailerSize); err != nil {
			return nil, err
		}
	}

	frame := synthesizeCanFrame(h.ID, dlc, h.RTR(), payload)

	pkt := ctx.emit(oh.Flags, oh.ObjectTimestamp, format.EncapSocketCAN, uint32(h.Channel), iface.HwChannelNotApplicable, len(frame), len(frame), frame)
	pkt.StartOfObject = blockStart
	if h.TX() {
		pkt.Direction = format.DirectionTx
	} else {
		pkt.Direction = format.DirectionRx
	}
	return &pkt, nil
}

// decodeCanFdMessage decodes CAN_FD_MESSAGE (spec.md §4.7.5), aligning
// the payload clamp with the canfdmessage64 path per spec.md §9's
// resolution of the canheader-size typo.
func decodeCanFdMessage(ctx *Context, oh commonHeader, bh *section.BlockHeader, blockStart, dataStart int64) (*Packet, error) {
	if err := checkObjectLength(bh.ObjectLength, bh.HeaderLength, section.CanFdMessageHeaderSize); err != nil {
		return nil, err
	}

	raw, err := ctx.read(dataStart, section.CanFdMessageHeaderSize)
	if err != nil {
		return nil, err
	}
	var h section.CanFdMessageHeader
	if err := h.Parse(raw); err != nil {
		return nil, err
	}

	avail := int64(bh.ObjectLength) - int64(bh.HeaderLength) - section.CanFdMessageHeaderSize
	payloadLen := canFdPayloadLen(h.DLC, h.EDL(), int(h.ValidDataBytes), avail)

	payload, err := ctx.read(dataStart+section.CanFdMessageHeaderSize, payloadLen)
	if err != nil {
		return nil, err
	}

	frame := synthesizeCanFrame(h.ID, h.DLC, h.RTR(), payload)

	pkt := ctx.emit(oh.Flags, oh.ObjectTimestamp, format.EncapSocketCAN, uint32(h.Channel), iface.HwChannelNotApplicable, len(frame), len(frame), frame)
	pkt.StartOfObject = blockStart
	if h.TX() {
		pkt.Direction = format.DirectionTx
	} else {
		pkt.Direction = format.DirectionRx
	}
	return &pkt, nil
}

// decodeCanFdMessage64 decodes CAN_FD_MESSAGE_64 (spec.md §4.7.5), whose
// direction comes from an explicit header field rather than a TX bit.
func decodeCanFdMessage64(ctx *Context, oh commonHeader, bh *section.BlockHeader, blockStart, dataStart int64) (*Packet, error) {
	if err := checkObjectLength(bh.ObjectLength, bh.HeaderLength, section.CanFdMessage64HeaderSize); err != nil {
		return nil, err
	}

	raw, err := ctx.read(dataStart, section.CanFdMessage64HeaderSize)
	if err != nil {
		return nil, err
	}
	var h section.CanFdMessage64Header
	if err := h.Parse(raw); err != nil {
		return nil, err
	}

	avail := int64(bh.ObjectLength) - int64(bh.HeaderLength) - section.CanFdMessage64HeaderSize
	payloadLen := canFdPayloadLen(h.DLC, h.EDL(), int(h.ValidDataBytes), avail)

	payload, err := ctx.read(dataStart+section.CanFdMessage64HeaderSize, payloadLen)
	if err != nil {
		return nil, err
	}

	frame := synthesizeCanFrame(h.ID, h.DLC, h.RTR(), payload)

	pkt := ctx.emit(oh.Flags, oh.ObjectTimestamp, format.EncapSocketCAN, uint32(h.Channel), iface.HwChannelNotApplicable, len(frame), len(frame), frame)
	pkt.StartOfObject = blockStart
	pkt.Direction = directionFromWord(uint16(h.Dir))
	return &pkt, nil
}

// canFdPayloadLen decodes dlc through the classic or FD DLC-to-length
// table, clamps to validDataBytes, then clamps again to the bytes
// actually remaining in the object (spec.md §4.7.5): a partial frame is
// emitted rather than failing.
func canFdPayloadLen(dlc uint8, edl bool, validDataBytes int, avail int64) int {
	var n int
	if edl {
		n = format.CANFDDLCToLen[dlc&0xF]
	} else {
		n = format.CANClassicDLCToLen[dlc&0xF]
	}
	if validDataBytes < n {
		n = validDataBytes
	}
	if int64(n) > avail {
		n = int(avail)
	}
	if n < 0 {
		n = 0
	}
	return n
}

// canErrorClass maps a Vector ECC code to the SocketCAN protocol-error
// byte pair this decoder writes into an error frame's payload (spec.md
// §4.7.6).
type canErrorClass struct {
	byte10  byte
	byte11  byte
	setProt bool
	setAck  bool
}

func classifyECC(ecc uint8) canErrorClass {
	switch ecc {
	case 0x01: // BIT_ERROR
		return canErrorClass{byte10: format.CANErrProtBit, setProt: true}
	case 0x03:
		return canErrorClass{byte10: format.CANErrProtForm, setProt: true}
	case 0x04:
		return canErrorClass{byte10: format.CANErrProtStuff, setProt: true}
	case 0x05:
		return canErrorClass{byte11: format.CANErrLocCRCSeq, setProt: true}
	case 0x06:
		return canErrorClass{byte11: format.CANErrLocACK, setAck: true}
	case 0x07:
		return canErrorClass{byte10: format.CANErrProtOverload, setProt: true}
	default:
		return canErrorClass{byte10: format.CANErrProtUnspec, setProt: true}
	}
}

// synthesizeCanErrorFrame builds the fixed-length SocketCAN error frame
// shared by CAN_ERROR, CAN_ERROR_EXT, and CAN_FD_ERROR_64 (spec.md
// §4.7.6): 8-byte header `{id=ERR_FLAG, dlc=8}` then 8 zero bytes,
// optionally annotated from an extended error code.
func synthesizeCanErrorFrame(ext *section.CanErrorExtHeader) []byte {
	out := make([]byte, 16)
	id := uint32(format.CANIDErrFlag)

	if ext != nil && ext.CANCORE() {
		cls := classifyECC(ext.ECC())
		if !ext.NotAck() {
			cls = canErrorClass{byte11: format.CANErrLocACK, setAck: true}
		}
		out[10] = cls.byte10
		out[11] = cls.byte11
		if cls.setProt {
			id |= format.CANErrClassProt
		}
		if cls.setAck {
			id |= format.CANErrClassAck
		}
	}

	binary.BigEndian.PutUint32(out[0:4], id)
	out[4] = 8
	return out
}

// decodeCanError decodes a plain CAN_ERROR object (spec.md §4.7.6).
func decodeCanError(ctx *Context, oh commonHeader, bh *section.BlockHeader, blockStart, dataStart int64) (*Packet, error) {
	if err := checkObjectLength(bh.ObjectLength, bh.HeaderLength, section.CanErrorHeaderSize); err != nil {
		return nil, err
	}

	raw, err := ctx.read(dataStart, section.CanErrorHeaderSize)
	if err != nil {
		return nil, err
	}
	var h section.CanErrorHeader
	if err := h.Parse(raw); err != nil {
		return nil, err
	}

	frame := synthesizeCanErrorFrame(nil)

	pkt := ctx.emit(oh.Flags, oh.ObjectTimestamp, format.EncapSocketCAN, uint32(h.Channel), iface.HwChannelNotApplicable, len(frame), len(frame), frame)
	pkt.StartOfObject = blockStart
	return &pkt, nil
}

// decodeCanErrorExt decodes CAN_ERROR_EXT (spec.md §4.7.6).
func decodeCanErrorExt(ctx *Context, oh commonHeader, bh *section.BlockHeader, blockStart, dataStart int64) (*Packet, error) {
	if err := checkObjectLength(bh.ObjectLength, bh.HeaderLength, section.CanErrorExtHeaderSize); err != nil {
		return nil, err
	}

	raw, err := ctx.read(dataStart, section.CanErrorExtHeaderSize)
	if err != nil {
		return nil, err
	}
	var h section.CanErrorExtHeader
	if err := h.Parse(raw); err != nil {
		return nil, err
	}

	frame := synthesizeCanErrorFrame(&h)

	pkt := ctx.emit(oh.Flags, oh.ObjectTimestamp, format.EncapSocketCAN, uint32(h.Channel), iface.HwChannelNotApplicable, len(frame), len(frame), frame)
	pkt.StartOfObject = blockStart
	if h.TX() {
		pkt.Direction = format.DirectionTx
	} else {
		pkt.Direction = format.DirectionRx
	}
	return &pkt, nil
}

// decodeCanFdError64 decodes CAN_FD_ERROR_64, sharing CAN_ERROR_EXT's
// header shape and error-class mapping (spec.md §4.7.6).
func decodeCanFdError64(ctx *Context, oh commonHeader, bh *section.BlockHeader, blockStart, dataStart int64) (*Packet, error) {
	if err := checkObjectLength(bh.ObjectLength, bh.HeaderLength, section.CanErrorExtHeaderSize); err != nil {
		return nil, err
	}

	raw, err := ctx.read(dataStart, section.CanErrorExtHeaderSize)
	if err != nil {
		return nil, err
	}
	var h section.CanErrorExtHeader
	if err := h.Parse(raw); err != nil {
		return nil, err
	}

	frame := synthesizeCanErrorFrame(&h)

	pkt := ctx.emit(oh.Flags, oh.ObjectTimestamp, format.EncapSocketCAN, uint32(h.Channel), iface.HwChannelNotApplicable, len(frame), len(frame), frame)
	pkt.StartOfObject = blockStart
	if h.TX() {
		pkt.Direction = format.DirectionTx
	} else {
		pkt.Direction = format.DirectionRx
	}
	return &pkt, nil
}
