package section

import (
	"testing"

	"github.com/go-autobus/blf/errs"
	"github.com/go-autobus/blf/format"
	"github.com/stretchr/testify/require"
)

func le16(v uint16) []byte { return []byte{byte(v), byte(v >> 8)} }
func le32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}
func le64(v uint64) []byte {
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(v >> (8 * i))
	}
	return b
}

func TestBlockHeaderParse(t *testing.T) {
	require := require.New(t)

	buf := append([]byte{}, le16(32)...)
	buf = append(buf, le16(uint16(HeaderTypeV1))...)
	buf = append(buf, le32(48)...)
	buf = append(buf, le32(uint32(format.ObjectCANMessage))...)

	var h BlockHeader
	require.NoError(h.Parse(buf))
	require.Equal(uint16(32), h.HeaderLength)
	require.Equal(HeaderTypeV1, h.HeaderType)
	require.Equal(uint32(48), h.ObjectLength)
	require.Equal(format.ObjectCANMessage, h.ObjectType)
	require.Equal(int64(48), h.AdvanceLength())
}

func TestBlockHeaderAdvanceLengthFloorsAtSixteen(t *testing.T) {
	require := require.New(t)

	h := BlockHeader{HeaderLength: 0, ObjectLength: 0}
	require.Equal(int64(16), h.AdvanceLength())
}

func TestBlockHeaderParseShort(t *testing.T) {
	require := require.New(t)

	var h BlockHeader
	require.ErrorIs(h.Parse([]byte{1, 2, 3}), errs.ErrBadFile)
}

func TestContainerHeaderParse(t *testing.T) {
	require := require.New(t)

	buf := append([]byte{}, le16(uint16(format.CompressionZlib))...)
	buf = append(buf, le16(0)...)
	buf = append(buf, le32(0)...)
	buf = append(buf, le32(4096)...)
	buf = append(buf, le32(0)...)

	var h ContainerHeader
	require.NoError(h.Parse(buf))
	require.Equal(format.CompressionZlib, h.CompressionMethod)
	require.Equal(uint32(4096), h.UncompressedSize)
}

func TestLogObjectHeaderV1(t *testing.T) {
	require := require.New(t)

	buf := append([]byte{}, le32(2)...) // flags=1ns resolution
	buf = append(buf, le16(0)...)
	buf = append(buf, le16(1)...)
	buf = append(buf, le64(123456789)...)

	var h LogObjectHeaderV1
	require.NoError(h.Parse(buf))
	require.Equal(uint32(2), h.Flags)
	require.Equal(format.Timestamp1Nanosecond, h.Resolution())
	require.Equal(uint64(123456789), h.ObjectTimestamp)
}

func TestLogObjectHeaderV2OriginalTimestampParsedButUnused(t *testing.T) {
	require := require.New(t)

	buf := append([]byte{}, le32(1)...)
	buf = append(buf, byte(0), byte(0))
	buf = append(buf, le16(1)...)
	buf = append(buf, le64(1000)...)
	buf = append(buf, le64(9999)...)

	var h LogObjectHeaderV2
	require.NoError(h.Parse(buf))
	require.Equal(format.Timestamp10Microsecond, h.Resolution())
	require.Equal(uint64(1000), h.ObjectTimestamp)
	require.Equal(uint64(9999), h.OriginalTimestamp)
}

func TestEthernetFrameHeaderParse(t *testing.T) {
	require := require.New(t)

	buf := append([]byte{}, le16(0)...) // channel
	buf = append(buf, le16(1)...)       // direction
	buf = append(buf, []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}...)
	buf = append(buf, []byte{0x66, 0x77, 0x88, 0x99, 0xAA, 0xBB}...)
	buf = append(buf, le16(0x0800)...)
	buf = append(buf, le16(0x8100)...)
	buf = append(buf, le16(0x0064)...)
	buf = append(buf, le16(4)...)

	var h EthernetFrameHeader
	require.NoError(h.Parse(buf))
	require.Equal([6]byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}, h.Dst)
	require.Equal([6]byte{0x66, 0x77, 0x88, 0x99, 0xAA, 0xBB}, h.Src)
	require.Equal(uint16(0x0800), h.EthType)
	require.Equal(uint16(0x8100), h.TPID)
	require.Equal(uint16(0x0064), h.TCI)
	require.Equal(uint16(4), h.PayloadLength)
}

func TestCanMessageHeaderRTR(t *testing.T) {
	require := require.New(t)

	buf := append([]byte{}, le16(0)...)
	buf = append(buf, CANFlagRTR, 3)
	buf = append(buf, le32(0x123)...)

	var h CanMessageHeader
	require.NoError(h.Parse(buf))
	require.True(h.RTR())
	require.Equal(uint8(3), h.DLC)
	require.Equal(uint32(0x123), h.ID)
}

func TestAppTextHeaderChannelExtraction(t *testing.T) {
	require := require.New(t)

	reserved1 := uint32(0)
	reserved1 |= uint32(2) << 8  // channel = 2
	reserved1 |= uint32(3) << 16 // encap code = 3 (SocketCAN)

	buf := append([]byte{}, le32(uint32(AppTextChannel))...)
	buf = append(buf, le32(reserved1)...)
	buf = append(buf, le32(0)...)

	var h AppTextHeader
	require.NoError(h.Parse(buf))
	require.Equal(uint8(2), h.Channel())
	require.Equal(uint8(3), h.ChannelEncapCode())
}

func TestAppTextHeaderMetadataTotalLength(t *testing.T) {
	require := require.New(t)

	buf := append([]byte{}, le32(uint32(AppTextMetadata))...)
	buf = append(buf, le32(16)...)
	buf = append(buf, le32(10)...)

	var h AppTextHeader
	require.NoError(h.Parse(buf))
	require.Equal(uint32(16), h.MetadataTotalLength())
	require.Greater(h.MetadataTotalLength(), h.TextLength)
}
