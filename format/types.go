// Package format defines the enumerations shared across the decoder: the
// on-disk object-type tag, the link-layer encapsulation tag attached to
// every emitted packet, and the container compression method.
package format

// ObjectType identifies the on-disk layout of a log object's payload, as
// carried in a BlockHeader's object_type field.
type ObjectType uint32

const (
	ObjectUnknown ObjectType = 0

	ObjectContainer ObjectType = 10 // LOG_CONTAINER

	ObjectCANMessage   ObjectType = 1  // CAN_MESSAGE
	ObjectCANError     ObjectType = 2  // CAN_ERROR
	ObjectFlexRayData  ObjectType = 15 // FLEXRAY_DATA
	ObjectLinMessage   ObjectType = 17 // LIN_MESSAGE
	ObjectEthFrame     ObjectType = 71 // ETHERNET_FRAME
	ObjectCANErrorExt  ObjectType = 73 // CAN_ERROR_EXT
	ObjectAppText      ObjectType = 65 // APP_TEXT
	ObjectFlexRayMsg   ObjectType = 66 // FLEXRAY_MESSAGE
	ObjectCANMessage2  ObjectType = 86 // CAN_MESSAGE2
	ObjectEthStatus    ObjectType = 96 // ETHERNET_STATUS
	ObjectWlanFrame    ObjectType = 97 // WLAN_FRAME

	ObjectFlexRayRcvMessage   ObjectType = 100 // FLEXRAY_RCVMESSAGE
	ObjectCANFDMessage        ObjectType = 101 // CAN_FD_MESSAGE
	ObjectFlexRayRcvMessageEx ObjectType = 102 // FLEXRAY_RCVMESSAGE_EX
	ObjectCANFDMsg64          ObjectType = 104 // CAN_FD_MESSAGE_64
	ObjectCANFDError64        ObjectType = 105 // CAN_FD_ERROR_64

	ObjectEthFrameEx ObjectType = 120 // ETHERNET_FRAME_EX
)

func (t ObjectType) String() string {
	switch t {
	case ObjectContainer:
		return "LOG_CONTAINER"
	case ObjectCANMessage:
		return "CAN_MESSAGE"
	case ObjectCANMessage2:
		return "CAN_MESSAGE2"
	case ObjectCANError:
		return "CAN_ERROR"
	case ObjectCANErrorExt:
		return "CAN_ERROR_EXT"
	case ObjectCANFDMessage:
		return "CAN_FD_MESSAGE"
	case ObjectCANFDMsg64:
		return "CAN_FD_MESSAGE_64"
	case ObjectCANFDError64:
		return "CAN_FD_ERROR_64"
	case ObjectFlexRayData:
		return "FLEXRAY_DATA"
	case ObjectFlexRayMsg:
		return "FLEXRAY_MESSAGE"
	case ObjectFlexRayRcvMessage:
		return "FLEXRAY_RCVMESSAGE"
	case ObjectFlexRayRcvMessageEx:
		return "FLEXRAY_RCVMESSAGE_EX"
	case ObjectLinMessage:
		return "LIN_MESSAGE"
	case ObjectAppText:
		return "APP_TEXT"
	case ObjectEthFrame:
		return "ETHERNET_FRAME"
	case ObjectEthFrameEx:
		return "ETHERNET_FRAME_EX"
	case ObjectEthStatus:
		return "ETHERNET_STATUS"
	case ObjectWlanFrame:
		return "WLAN_FRAME"
	default:
		return "UNKNOWN"
	}
}

// Encap is the link-layer encapsulation tag attached to an emitted packet.
type Encap uint32

const (
	EncapUnset     Encap = 0
	EncapEthernet  Encap = 1
	EncapWlan      Encap = 2
	EncapSocketCAN Encap = 3
	EncapFlexRay   Encap = 4
	EncapLin       Encap = 5
	EncapUpperPDU  Encap = 6 // exported-PDU wrapped upper-layer metadata

	// EncapPerPacket is the file-wide sentinel meaning "more than one
	// encapsulation has been observed; consult interface_id per packet".
	EncapPerPacket Encap = 0xFFFFFFFF
)

func (e Encap) String() string {
	switch e {
	case EncapEthernet:
		return "ETH"
	case EncapWlan:
		return "WLAN"
	case EncapSocketCAN:
		return "CAN"
	case EncapFlexRay:
		return "FR"
	case EncapLin:
		return "LIN"
	case EncapUpperPDU:
		return "UPPER_PDU"
	case EncapPerPacket:
		return "PER_PACKET"
	default:
		return "UNSET"
	}
}

// CompressionMethod is a LogContainer's on-disk compression tag.
type CompressionMethod uint16

const (
	CompressionNone CompressionMethod = 0
	CompressionZlib CompressionMethod = 2
)

func (c CompressionMethod) String() string {
	switch c {
	case CompressionNone:
		return "NONE"
	case CompressionZlib:
		return "ZLIB"
	default:
		return "UNKNOWN"
	}
}

// Direction is a per-record transmit/receive code, normalized from the
// varied direction encodings used by different object headers.
type Direction uint8

const (
	DirectionUnknown   Direction = 0
	DirectionRx        Direction = 1
	DirectionTx        Direction = 2
	DirectionTxRequest Direction = 3
)

// TimestampResolution distinguishes the two tick units a LogObjectHeader's
// flags field may declare.
type TimestampResolution uint8

const (
	TimestampUnknown       TimestampResolution = 0
	Timestamp10Microsecond TimestampResolution = 1
	Timestamp1Nanosecond   TimestampResolution = 2
)

// CAN DLC-to-length tables (spec.md §4.7.5).
var (
	CANClassicDLCToLen = [16]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 8, 8, 8, 8, 8, 8, 8}
	CANFDDLCToLen      = [16]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 12, 16, 20, 24, 32, 48, 64}
)

// SocketCAN flag bits used when synthesizing classic/FD/error frames.
const (
	CANIDRTRFlag = 0x40000000
	CANIDErrFlag = 0x20000000
	CANIDEffFlag = 0x80000000
	CANIDMask    = 0x1FFFFFFF
)

// SocketCAN protocol-violation-type byte values (byte[10] of an error frame).
const (
	CANErrProtUnspec   = 0x00
	CANErrProtBit      = 0x01
	CANErrProtForm     = 0x02
	CANErrProtStuff    = 0x04
	CANErrProtOverload = 0x08
)

// SocketCAN protocol-violation-location byte values (byte[11]).
const (
	CANErrLocCRCSeq = 0x08
	CANErrLocACK    = 0x19
)

// SocketCAN error class bits (id flags for CAN_ERROR frames).
const (
	CANErrClassProt = 0x00000004
	CANErrClassAck  = 0x00000008
)
