package section

import (
	"time"

	"github.com/go-autobus/blf/endian"
	"github.com/go-autobus/blf/errs"
)

// FileHeaderSize is the fixed portion of the file header this decoder
// reads. The header's own HeaderLength field (read from bytes 4-7) is the
// authority on how many bytes to actually skip before the first block
// header; FileHeaderSize only bounds what this struct itself consumes.
const FileHeaderSize = 72

// SystemTime is the wall-clock date layout used by FileHeader's start and
// end timestamps (spec.md §3: "year, month, day-of-week, day, hour,
// minute, second, millisecond").
type SystemTime struct {
	Year         uint16
	Month        uint16
	DayOfWeek    uint16
	Day          uint16
	Hour         uint16
	Minute       uint16
	Second       uint16
	Milliseconds uint16
}

// AsTime converts the SystemTime into a UTC time.Time.
func (s SystemTime) AsTime() time.Time {
	return time.Date(
		int(s.Year), time.Month(s.Month), int(s.Day),
		int(s.Hour), int(s.Minute), int(s.Second),
		int(s.Milliseconds)*int(time.Millisecond),
		time.UTC,
	)
}

// FileHeader is the BLF file header, read once at open (spec.md §3).
type FileHeader struct {
	HeaderLength     uint32
	ApplicationID    uint8
	ApplicationMajor uint8
	ApplicationMinor uint8
	ApplicationBuild uint8
	BinLogMajor      uint8
	BinLogMinor      uint8
	BinLogBuild      uint8
	BinLogPatch      uint8
	FileSize         uint64
	UncompressedSize uint64
	ObjectCount      uint32
	ObjectsRead      uint32
	StartDate        SystemTime
	EndDate          SystemTime
}

// Parse parses the file header from data, which must begin at the first
// byte after the "LOGG" magic.
//
// Parameters:
//   - data: bytes starting immediately after the 4-byte magic
//
// Returns:
//   - error: errs.ErrBadFile if fewer than FileHeaderSize-4 bytes remain
func (h *FileHeader) Parse(data []byte) error {
	const need = FileHeaderSize - 4 // magic already consumed by caller
	if len(data) < need {
		return errs.ErrBadFile
	}

	engine := endian.GetLittleEndianEngine()

	h.HeaderLength = engine.Uint32(data[0:4])
	h.ApplicationID = data[4]
	h.ApplicationMajor = data[5]
	h.ApplicationMinor = data[6]
	h.ApplicationBuild = data[7]
	h.BinLogMajor = data[8]
	h.BinLogMinor = data[9]
	h.BinLogBuild = data[10]
	h.BinLogPatch = data[11]
	h.FileSize = engine.Uint64(data[12:20])
	h.UncompressedSize = engine.Uint64(data[20:28])
	h.ObjectCount = engine.Uint32(data[28:32])
	h.ObjectsRead = engine.Uint32(data[32:36])
	h.StartDate = parseSystemTime(engine, data[36:52])
	h.EndDate = parseSystemTime(engine, data[52:68])

	return nil
}

func parseSystemTime(engine endian.EndianEngine, b []byte) SystemTime {
	return SystemTime{
		Year:         engine.Uint16(b[0:2]),
		Month:        engine.Uint16(b[2:4]),
		DayOfWeek:    engine.Uint16(b[4:6]),
		Day:          engine.Uint16(b[6:8]),
		Hour:         engine.Uint16(b[8:10]),
		Minute:       engine.Uint16(b[10:12]),
		Second:       engine.Uint16(b[12:14]),
		Milliseconds: engine.Uint16(b[14:16]),
	}
}

// StartOffsetNanos converts the file header's start date into the
// capture's start_offset_ns (spec.md §3).
func (h *FileHeader) StartOffsetNanos() int64 {
	return h.StartDate.AsTime().UnixNano()
}
