package section

import (
	"github.com/go-autobus/blf/endian"
	"github.com/go-autobus/blf/errs"
)

// LinMessageHeaderSize is the on-disk header for a LIN_MESSAGE object
// (spec.md §4.7.8). LIN frames carry at most 8 data bytes, stored inline.
const LinMessageHeaderSize = 14

type LinMessageHeader struct {
	Channel uint16
	ID      uint8
	DLC     uint8
	Data    [8]byte
	CRC     uint8
	Dir     uint8
}

func (h *LinMessageHeader) Parse(data []byte) error {
	if len(data) < LinMessageHeaderSize {
		return errs.ErrBadFile
	}

	engine := endian.GetLittleEndianEngine()

	h.Channel = engine.Uint16(data[0:2])
	h.ID = data[2]
	h.DLC = data[3]
	copy(h.Data[:], data[4:12])
	h.CRC = data[12]
	h.Dir = data[13]

	return nil
}
