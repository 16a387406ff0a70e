package object

import (
	"fmt"

	"github.com/go-autobus/blf/container"
	"github.com/go-autobus/blf/errs"
	"github.com/go-autobus/blf/format"
	"github.com/go-autobus/blf/iface"
	"github.com/go-autobus/blf/internal/pool"
	"github.com/go-autobus/blf/logx"
)

// Context bundles the collaborators every decoder needs: the virtual
// reader for payload bytes, the interface registry, the capture's
// nanosecond epoch, and a logger for non-fatal warnings.
type Context struct {
	Reader        *container.Reader
	Registry      *iface.Registry
	StartOffsetNs int64
	Log           logx.Logger

	// UsePool routes scratch reads through internal/pool's shared payload
	// buffer pool. Defaults to false (direct allocation); session.Open
	// sets it per session.WithBufferPool.
	UsePool bool
}

// read copies n bytes starting at virtual offset virtOff into a freshly
// owned slice. When UsePool is set the scratch copy is routed through
// the payload buffer pool (spec.md §9 "dynamic allocation pattern").
func (c *Context) read(virtOff int64, n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}

	if !c.UsePool {
		out := make([]byte, n)
		if err := c.Reader.ReadAt(virtOff, out); err != nil {
			return nil, err
		}
		return out, nil
	}

	buf := pool.GetPayloadBuffer()
	buf.SetLength(n)
	defer pool.PutPayloadBuffer(buf)

	if err := c.Reader.ReadAt(virtOff, buf.Bytes()); err != nil {
		return nil, err
	}

	out := make([]byte, n)
	copy(out, buf.Bytes())
	return out, nil
}

// resolveTimestamp converts a LogObjectHeader's {flags, object_timestamp}
// pair into an absolute nanosecond timestamp (spec.md §4.7 emit step).
func (c *Context) resolveTimestamp(flags uint32, objectTimestamp uint64) (int64, format.TimestampResolution) {
	switch flags & 0x3 {
	case 1:
		return c.StartOffsetNs + int64(objectTimestamp)*10_000, format.Timestamp10Microsecond
	case 2:
		return c.StartOffsetNs + int64(objectTimestamp), format.Timestamp1Nanosecond
	default:
		c.Log.Warnf("blf: object timestamp has unknown resolution flags 0x%x, treating as zero", flags)
		return c.StartOffsetNs, format.TimestampUnknown
	}
}

// emit builds a Packet from a decoded object's common fields, performing
// the timestamp conversion and interface lookup shared by every decoder
// (spec.md §4.7).
func (c *Context) emit(flags uint32, objectTimestamp uint64, encap format.Encap, channel, hwChannel uint32, captureLen, wireLen int, payload []byte) Packet {
	totalNs, precision := c.resolveTimestamp(flags, objectTimestamp)

	return Packet{
		TimestampSecs:  totalNs / 1_000_000_000,
		TimestampNsecs: int32(totalNs % 1_000_000_000),
		Precision:      precision,
		CaptureLen:     captureLen,
		WireLen:        wireLen,
		Encap:          encap,
		InterfaceID:    c.Registry.Lookup(encap, channel, hwChannel, ""),
		Payload:        payload,
	}
}

// checkObjectLength enforces the shared per-type-decoder precondition
// object_length >= (data_start - block_start) + sizeof(type_header)
// (spec.md §4.7).
func checkObjectLength(objectLength uint32, headerLength uint16, typeHeaderSize int) error {
	avail := int64(objectLength) - int64(headerLength)
	if avail < int64(typeHeaderSize) {
		return fmt.Errorf("blf: object_length %d leaves %d bytes after a %d-byte header_length, need %d for the type header: %w",
			objectLength, avail, headerLength, typeHeaderSize, errs.ErrBadFile)
	}
	return nil
}
