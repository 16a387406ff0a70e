package session

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-autobus/blf/errs"
	"github.com/go-autobus/blf/format"
)

func writeBlockHeader(buf *bytes.Buffer, headerLength uint16, headerType uint16, objectLength uint32, objType format.ObjectType) {
	buf.WriteString("LOBJ")
	_ = binary.Write(buf, binary.LittleEndian, headerLength)
	_ = binary.Write(buf, binary.LittleEndian, headerType)
	_ = binary.Write(buf, binary.LittleEndian, objectLength)
	_ = binary.Write(buf, binary.LittleEndian, uint32(objType))
}

func writeLogObjectHeaderV1(buf *bytes.Buffer, flags uint32, timestamp uint64) {
	_ = binary.Write(buf, binary.LittleEndian, flags)
	_ = binary.Write(buf, binary.LittleEndian, uint16(0)) // client_index
	_ = binary.Write(buf, binary.LittleEndian, uint16(1)) // object_version
	_ = binary.Write(buf, binary.LittleEndian, timestamp)
}

func appendObject(buf *bytes.Buffer, objType format.ObjectType, flags uint32, timestamp uint64, typeBody []byte) {
	const headerLength = 32
	objectLength := uint32(headerLength + len(typeBody))
	writeBlockHeader(buf, headerLength, 1, objectLength, objType)
	writeLogObjectHeaderV1(buf, flags, timestamp)
	buf.Write(typeBody)
}

// writeTestFile assembles a minimal on-disk BLF file: a 72-byte
// FileHeader (header_length == FileHeaderSize, start date 2024-01-01)
// followed by a single NONE container wrapping objects.
func writeTestFile(t *testing.T, objects []byte) string {
	t.Helper()

	var file bytes.Buffer
	file.WriteString("LOGG")
	_ = binary.Write(&file, binary.LittleEndian, uint32(72)) // header_length
	file.WriteByte(0)                                        // application_id
	file.WriteByte(0)                                        // application_major
	file.WriteByte(0)                                        // application_minor
	file.WriteByte(0)                                        // application_build
	file.WriteByte(0)                                        // bin_log_major
	file.WriteByte(0)                                        // bin_log_minor
	file.WriteByte(0)                                        // bin_log_build
	file.WriteByte(0)                                        // bin_log_patch
	_ = binary.Write(&file, binary.LittleEndian, uint64(0))  // file_size
	_ = binary.Write(&file, binary.LittleEndian, uint64(0))  // uncompressed_size
	_ = binary.Write(&file, binary.LittleEndian, uint32(0))  // object_count
	_ = binary.Write(&file, binary.LittleEndian, uint32(0))  // objects_read

	writeSystemTime(&file, 2024, 1, 1, 1, 0, 0, 0) // start_date
	writeSystemTime(&file, 2024, 1, 1, 0, 0, 0, 0) // end_date

	require.Equal(t, 72, file.Len())

	writeBlockHeader(&file, 16, 1, uint32(16+16+len(objects)), format.ObjectContainer)
	_ = binary.Write(&file, binary.LittleEndian, uint16(format.CompressionNone))
	_ = binary.Write(&file, binary.LittleEndian, uint16(0))
	_ = binary.Write(&file, binary.LittleEndian, uint32(0))
	_ = binary.Write(&file, binary.LittleEndian, uint32(len(objects)))
	_ = binary.Write(&file, binary.LittleEndian, uint32(0))
	file.Write(objects)

	path := filepath.Join(t.TempDir(), "capture.blf")
	require.NoError(t, os.WriteFile(path, file.Bytes(), 0o644))
	return path
}

func writeSystemTime(buf *bytes.Buffer, year, month, dow, day, hour, min, sec uint16) {
	_ = binary.Write(buf, binary.LittleEndian, year)
	_ = binary.Write(buf, binary.LittleEndian, month)
	_ = binary.Write(buf, binary.LittleEndian, dow)
	_ = binary.Write(buf, binary.LittleEndian, day)
	_ = binary.Write(buf, binary.LittleEndian, hour)
	_ = binary.Write(buf, binary.LittleEndian, min)
	_ = binary.Write(buf, binary.LittleEndian, sec)
	_ = binary.Write(buf, binary.LittleEndian, uint16(0)) // milliseconds
}

func linMessageBody() []byte {
	return []byte{
		0x00, 0x00, // channel
		0x10,                         // id
		2,                            // dlc
		0xAA, 0xBB, 0, 0, 0, 0, 0, 0, // data
		0x00, // crc
		0x01, // dir
	}
}

func TestOpenRejectsNonBLFFile(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "not-a-blf.bin")
	require.NoError(os.WriteFile(path, []byte("not a blf file at all"), 0o644))

	_, err := Open(path, nil)
	require.ErrorIs(err, errs.ErrNotMine)
}

func TestOpenRejectsTruncatedHeader(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "short.blf")
	require.NoError(os.WriteFile(path, []byte("LOGG\x00\x00\x00"), 0o644))

	_, err := Open(path, nil)
	require.ErrorIs(err, errs.ErrNotMine)
}

func TestSequentialReadDecodesAndAdvances(t *testing.T) {
	require := require.New(t)

	var objects bytes.Buffer
	appendObject(&objects, format.ObjectLinMessage, 2, 0, linMessageBody())

	s, err := Open(writeTestFile(t, objects.Bytes()), nil)
	require.NoError(err)
	defer s.Close()

	pkt, err := s.SequentialRead()
	require.NoError(err)
	require.Equal(format.EncapLin, pkt.Encap)

	require.Equal(s.CurrentVirt(), s.TotalVirtLength())

	_, err = s.SequentialRead()
	require.ErrorIs(err, io.EOF)
}

func TestRandomReadDoesNotDisturbSequentialCursor(t *testing.T) {
	require := require.New(t)

	var objects bytes.Buffer
	appendObject(&objects, format.ObjectLinMessage, 2, 0, linMessageBody())
	appendObject(&objects, format.ObjectLinMessage, 2, 1, linMessageBody())

	s, err := Open(writeTestFile(t, objects.Bytes()), nil)
	require.NoError(err)
	defer s.Close()

	first, err := s.SequentialRead()
	require.NoError(err)
	cursorAfterFirst := s.CurrentVirt()

	replay, err := s.RandomRead(first.StartOfObject)
	require.NoError(err)
	require.Equal(first.Payload, replay.Payload)
	require.Equal(cursorAfterFirst, s.CurrentVirt())

	second, err := s.SequentialRead()
	require.NoError(err)
	require.NotEqual(first.StartOfObject, second.StartOfObject)
}

func TestOpenAppliesStartOffsetFromFileHeader(t *testing.T) {
	require := require.New(t)

	var objects bytes.Buffer
	appendObject(&objects, format.ObjectLinMessage, 2, 0, linMessageBody())

	s, err := Open(writeTestFile(t, objects.Bytes()), nil)
	require.NoError(err)
	defer s.Close()

	require.Equal(s.Header.StartOffsetNanos(), s.Header.StartDate.AsTime().UnixNano())

	// object_timestamp 0 at 1ns resolution lands exactly on the start date,
	// 2024-01-01T00:00:00Z.
	pkt, err := s.SequentialRead()
	require.NoError(err)
	require.Equal(int64(1704067200), pkt.TimestampSecs)
	require.Equal(int32(0), pkt.TimestampNsecs)
}
