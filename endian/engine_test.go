package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetLittleEndianEngine(t *testing.T) {
	require := require.New(t)

	engine := GetLittleEndianEngine()
	require.Equal(binary.LittleEndian, engine)

	buf := []byte{0x01, 0x00, 0x00, 0x00}
	require.Equal(uint32(1), engine.Uint32(buf))
}

func TestGetBigEndianEngine(t *testing.T) {
	require := require.New(t)

	engine := GetBigEndianEngine()
	require.Equal(binary.BigEndian, engine)

	buf := []byte{0x00, 0x00, 0x00, 0x01}
	require.Equal(uint32(1), engine.Uint32(buf))
}
