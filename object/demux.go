package object

import (
	"fmt"
	"io"

	"github.com/go-autobus/blf/errs"
	"github.com/go-autobus/blf/format"
	"github.com/go-autobus/blf/section"
)

// Demux is the object demultiplexer (C6, spec.md §4.6). It owns the two
// cursors described there and the APP_TEXT METADATA continuation state.
type Demux struct {
	ctx *Context

	currentVirt    int64
	startOfLastObj int64

	appText appTextState
}

// NewDemux creates a Demux that starts reading at startVirt.
func NewDemux(ctx *Context, startVirt int64) *Demux {
	return &Demux{ctx: ctx, currentVirt: startVirt}
}

// CurrentVirt returns the next virtual offset Next will read from.
func (d *Demux) CurrentVirt() int64 { return d.currentVirt }

// StartOfLastObj returns the virtual offset of the most recently emitted
// record (spec.md §4.6), usable as an opaque re-seek locator.
func (d *Demux) StartOfLastObj() int64 { return d.startOfLastObj }

// Seek repositions the demux's read cursor without touching
// StartOfLastObj, mirroring session.random_read's non-advancing
// semantics (spec.md §4.8).
func (d *Demux) Seek(virtOff int64) { d.currentVirt = virtOff }

// Next decodes and returns the next emitted Packet, transparently
// skipping unknown object types, APP_TEXT CHANNEL records (which update
// the interface registry but emit nothing), and intermediate objects of
// an in-progress APP_TEXT METADATA sequence. Returns io.EOF at a clean
// end of the virtual address space.
func (d *Demux) Next() (*Packet, error) {
	for {
		blockStart, bh, err := d.readBlockHeader()
		if err != nil {
			return nil, err
		}
		if bh == nil {
			return nil, io.EOF
		}

		if bh.ObjectType != format.ObjectAppText && d.appText.active {
			d.appText = appTextState{}
		}

		// A LOG_CONTAINER never carries a LogObjectHeader (spec.md §4.2);
		// nested containers are detected before attempting to parse one.
		if bh.ObjectType == format.ObjectContainer {
			d.currentVirt = blockStart + bh.AdvanceLength()
			return nil, fmt.Errorf("blf: LOG_CONTAINER nested inside a LOG_CONTAINER at %d: %w", blockStart, errs.ErrUnsupported)
		}

		oh, dataStart, err := d.readObjectHeader(blockStart, bh)
		if err != nil {
			return nil, err
		}

		// current_virt always advances past this object once the header
		// has been read, regardless of how dispatch below turns out
		// (spec.md §4.6 step 4).
		d.currentVirt = blockStart + bh.AdvanceLength()

		pkt, err := d.dispatch(bh, oh, blockStart, dataStart)
		if err != nil {
			return nil, err
		}
		if pkt == nil {
			continue
		}
		d.startOfLastObj = pkt.StartOfObject
		return pkt, nil
	}
}

// readBlockHeader locates and parses the next BlockHeader starting from
// d.currentVirt, resyncing one byte at a time on bad magic (spec.md
// §4.2/§4.6). Returns (blockStart, nil, nil) at clean end-of-stream.
func (d *Demux) readBlockHeader() (int64, *section.BlockHeader, error) {
	p := d.currentVirt
	hdrBuf := make([]byte, section.BlockHeaderSize)

	for {
		n, err := d.ctx.Reader.ReadAvailable(p, hdrBuf)
		if err != nil {
			return 0, nil, err
		}
		if n < 4 {
			return 0, nil, nil
		}
		if string(hdrBuf[:4]) != section.BlockHeaderMagic {
			p++
			continue
		}
		if n < section.BlockHeaderSize {
			return 0, nil, nil
		}

		var bh section.BlockHeader
		if err := bh.Parse(hdrBuf[4:]); err != nil {
			return 0, nil, err
		}
		return p, &bh, nil
	}
}

// commonHeader is the unified {flags, object_timestamp} view every
// LogObjectHeader variant exposes (spec.md §3).
type commonHeader struct {
	Flags           uint32
	ObjectTimestamp uint64
}

// readObjectHeader reads and bounds-checks the LogObjectHeader variant
// selected by bh.HeaderType, returning the unified header view and the
// virtual offset where the object's own payload begins.
func (d *Demux) readObjectHeader(blockStart int64, bh *section.BlockHeader) (commonHeader, int64, error) {
	headerStart := blockStart + section.BlockHeaderSize
	dataStart := blockStart + int64(bh.HeaderLength)

	var size int
	switch bh.HeaderType {
	case section.HeaderTypeV1:
		size = section.LogObjectHeaderV1Size
	case section.HeaderTypeV2:
		size = section.LogObjectHeaderV2Size
	case section.HeaderTypeV3:
		size = section.LogObjectHeaderV3Size
	default:
		return commonHeader{}, 0, fmt.Errorf("blf: object at %d has header_type %d: %w", blockStart, bh.HeaderType, errs.ErrUnsupported)
	}

	if headerStart+int64(size) > dataStart {
		return commonHeader{}, 0, fmt.Errorf("blf: object at %d: log-object header (%d bytes) does not fit before header_length %d: %w",
			blockStart, size, bh.HeaderLength, errs.ErrBadFile)
	}

	raw, err := d.ctx.read(headerStart, size)
	if err != nil {
		return commonHeader{}, 0, err
	}

	switch bh.HeaderType {
	case section.HeaderTypeV1:
		var h section.LogObjectHeaderV1
		if err := h.Parse(raw); err != nil {
			return commonHeader{}, 0, err
		}
		return commonHeader{h.Flags, h.ObjectTimestamp}, dataStart, nil
	case section.HeaderTypeV2:
		var h section.LogObjectHeaderV2
		if err := h.Parse(raw); err != nil {
			return commonHeader{}, 0, err
		}
		return commonHeader{h.Flags, h.ObjectTimestamp}, dataStart, nil
	default: // HeaderTypeV3
		var h section.LogObjectHeaderV3
		if err := h.Parse(raw); err != nil {
			return commonHeader{}, 0, err
		}
		return commonHeader{h.Flags, h.ObjectTimestamp}, dataStart, nil
	}
}

// dispatch routes a parsed object to its per-type decoder (spec.md
// §4.6 step 5).
func (d *Demux) dispatch(bh *section.BlockHeader, oh commonHeader, blockStart, dataStart int64) (*Packet, error) {
	switch bh.ObjectType {
	case format.ObjectEthFrame:
		return decodeEthernetFrame(d.ctx, oh, bh, blockStart, dataStart)
	case format.ObjectEthFrameEx:
		return decodeEthernetFrameEx(d.ctx, oh, bh, blockStart, dataStart)
	case format.ObjectWlanFrame:
		return decodeWlanFrame(d.ctx, oh, bh, blockStart, dataStart)
	case format.ObjectEthStatus:
		return decodeEthernetStatus(d.ctx, oh, bh, blockStart, dataStart)

	case format.ObjectCANMessage:
		return decodeCanMessage(d.ctx, oh, bh, blockStart, dataStart, false)
	case format.ObjectCANMessage2:
		return decodeCanMessage(d.ctx, oh, bh, blockStart, dataStart, true)
	case format.ObjectCANFDMessage:
		return decodeCanFdMessage(d.ctx, oh, bh, blockStart, dataStart)
	case format.ObjectCANFDMsg64:
		return decodeCanFdMessage64(d.ctx, oh, bh, blockStart, dataStart)
	case format.ObjectCANError:
		return decodeCanError(d.ctx, oh, bh, blockStart, dataStart)
	case format.ObjectCANErrorExt:
		return decodeCanErrorExt(d.ctx, oh, bh, blockStart, dataStart)
	case format.ObjectCANFDError64:
		return decodeCanFdError64(d.ctx, oh, bh, blockStart, dataStart)

	case format.ObjectFlexRayData:
		return decodeFlexRayData(d.ctx, oh, bh, blockStart, dataStart)
	case format.ObjectFlexRayMsg:
		return decodeFlexRayMessage(d.ctx, oh, bh, blockStart, dataStart)
	case format.ObjectFlexRayRcvMessage:
		return decodeFlexRayRcvMessage(d.ctx, oh, bh, blockStart, dataStart)
	case format.ObjectFlexRayRcvMessageEx:
		return decodeFlexRayRcvMessageEx(d.ctx, oh, bh, blockStart, dataStart)

	case format.ObjectLinMessage:
		return decodeLinMessage(d.ctx, oh, bh, blockStart, dataStart)

	case format.ObjectAppText:
		return d.decodeAppText(oh, bh, blockStart, dataStart)

	default:
		d.ctx.Log.Warnf("blf: skipping unknown object type %s (%d) at offset %d", bh.ObjectType, uint32(bh.ObjectType), blockStart)
		return nil, nil
	}
}
