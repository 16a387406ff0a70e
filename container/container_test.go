package container

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-autobus/blf/format"
	"github.com/go-autobus/blf/logx"
)

// writeBlockHeader appends a BlockHeader for a top-level object.
func writeBlockHeader(buf *bytes.Buffer, headerLength uint16, headerType uint16, objectLength uint32, objectType format.ObjectType) {
	buf.WriteString("LOBJ")
	_ = binary.Write(buf, binary.LittleEndian, headerLength)
	_ = binary.Write(buf, binary.LittleEndian, headerType)
	_ = binary.Write(buf, binary.LittleEndian, objectLength)
	_ = binary.Write(buf, binary.LittleEndian, uint32(objectType))
}

func writeContainerHeader(buf *bytes.Buffer, method format.CompressionMethod, uncompressedSize uint32) {
	_ = binary.Write(buf, binary.LittleEndian, uint16(method))
	_ = binary.Write(buf, binary.LittleEndian, uint16(0))
	_ = binary.Write(buf, binary.LittleEndian, uint32(0))
	_ = binary.Write(buf, binary.LittleEndian, uncompressedSize)
	_ = binary.Write(buf, binary.LittleEndian, uint32(0))
}

func buildNoneContainer(buf *bytes.Buffer, payload []byte) {
	const blockHeaderLen = 16 // common block header only, no v1 object header for containers in these tests
	objLen := uint32(blockHeaderLen + 16 + len(payload))
	writeBlockHeader(buf, blockHeaderLen, 1, objLen, format.ObjectContainer)
	writeContainerHeader(buf, format.CompressionNone, uint32(len(payload)))
	buf.Write(payload)
}

func buildZlibContainer(buf *bytes.Buffer, payload []byte) {
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	_, _ = zw.Write(payload)
	_ = zw.Close()

	const blockHeaderLen = 16
	objLen := uint32(blockHeaderLen + 16 + compressed.Len())
	writeBlockHeader(buf, blockHeaderLen, 1, objLen, format.ObjectContainer)
	writeContainerHeader(buf, format.CompressionZlib, uint32(len(payload)))
	buf.Write(compressed.Bytes())
}

func TestBuildIndexSingleNoneContainer(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	payload := []byte("hello, blf container!!!")
	buildNoneContainer(&buf, payload)

	idx, err := BuildIndex(bytes.NewReader(buf.Bytes()), 0, logx.Default)
	require.NoError(err)
	require.Equal(1, idx.Len())

	d := idx.Descriptor(0)
	require.Equal(int64(0), d.VirtStart)
	require.Equal(int64(len(payload)), d.VirtLength)
	require.Equal(format.CompressionNone, d.Compression)
	require.Equal(int64(0), d.FileStart)

	r := NewReader(idx, bytes.NewReader(buf.Bytes()))
	out := make([]byte, len(payload))
	require.NoError(r.ReadAt(0, out))
	require.Equal(payload, out)
}

func TestBuildIndexTrailingPaddingIsClean(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	buildNoneContainer(&buf, []byte("abcdefgh"))
	buf.Write(make([]byte, 7)) // trailing zero padding, S1

	idx, err := BuildIndex(bytes.NewReader(buf.Bytes()), 0, logx.Default)
	require.NoError(err)
	require.Equal(1, idx.Len())
}

func TestBuildIndexSkipsUnknownTopLevelObject(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	// an unexpected top-level object (not LOG_CONTAINER)
	writeBlockHeader(&buf, 16, 1, 16, format.ObjectCANMessage)
	buildNoneContainer(&buf, []byte("after-skip"))

	idx, err := BuildIndex(bytes.NewReader(buf.Bytes()), 0, logx.Default)
	require.NoError(err)
	require.Equal(1, idx.Len())
}

func TestBuildIndexResyncsOnBadMagic(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	buf.WriteByte(0x00) // one stray byte before the real object
	buildNoneContainer(&buf, []byte("resynced"))

	idx, err := BuildIndex(bytes.NewReader(buf.Bytes()), 0, logx.Default)
	require.NoError(err)
	require.Equal(1, idx.Len())
}

func TestVirtualReaderSpansTwoZlibContainers(t *testing.T) {
	require := require.New(t)

	a := bytes.Repeat([]byte{0xAA}, 1024)
	b := bytes.Repeat([]byte{0xBB}, 1024)

	var buf bytes.Buffer
	buildZlibContainer(&buf, a)
	buildZlibContainer(&buf, b)

	idx, err := BuildIndex(bytes.NewReader(buf.Bytes()), 0, logx.Default)
	require.NoError(err)
	require.Equal(2, idx.Len())
	require.Equal(int64(1024), idx.Descriptor(1).VirtStart)

	r := NewReader(idx, bytes.NewReader(buf.Bytes()))

	// A 200-byte read spanning virtual offset 950 must reassemble the
	// tail of A and the head of B identically to reading the same bytes
	// from the concatenated plaintext directly (spec.md S5).
	want := append(append([]byte{}, a...), b...)[950:1150]

	got := make([]byte, 200)
	require.NoError(r.ReadAt(950, got))
	require.Equal(want, got)
}

func TestReaderEvictsLeastRecentlyUsedContainer(t *testing.T) {
	require := require.New(t)

	a := bytes.Repeat([]byte{0xAA}, 64)
	b := bytes.Repeat([]byte{0xBB}, 64)
	c := bytes.Repeat([]byte{0xCC}, 64)

	var buf bytes.Buffer
	buildZlibContainer(&buf, a)
	buildZlibContainer(&buf, b)
	buildZlibContainer(&buf, c)

	idx, err := BuildIndex(bytes.NewReader(buf.Bytes()), 0, logx.Default)
	require.NoError(err)
	require.Equal(3, idx.Len())

	r := NewReader(idx, bytes.NewReader(buf.Bytes()))
	r.SetMaxCachedContainers(2)

	out := make([]byte, 64)
	require.NoError(r.ReadAt(idx.Descriptor(0).VirtStart, out)) // cache 0; lru=[0]
	require.NoError(r.ReadAt(idx.Descriptor(1).VirtStart, out)) // cache 1; lru=[0,1]
	require.NotNil(idx.Descriptor(0).cached)

	require.NoError(r.ReadAt(idx.Descriptor(2).VirtStart, out)) // cache 2, evicts 0; lru=[1,2]
	require.Nil(idx.Descriptor(0).cached)
	require.NotNil(idx.Descriptor(1).cached)
	require.NotNil(idx.Descriptor(2).cached)

	// re-reading container 0 must re-inflate transparently, evicting 1.
	require.NoError(r.ReadAt(idx.Descriptor(0).VirtStart, out))
	require.Equal(a, out)
	require.Nil(idx.Descriptor(1).cached)
	require.NotNil(idx.Descriptor(0).cached)
}

func TestVirtualReaderShortReadOutOfRange(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	buildNoneContainer(&buf, []byte("short"))

	idx, err := BuildIndex(bytes.NewReader(buf.Bytes()), 0, logx.Default)
	require.NoError(err)

	r := NewReader(idx, bytes.NewReader(buf.Bytes()))
	out := make([]byte, 100)
	err = r.ReadAt(0, out)
	require.Error(err)
}
