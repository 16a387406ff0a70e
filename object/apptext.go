package object

import (
	"bytes"
	"strings"

	"github.com/go-autobus/blf/format"
	"github.com/go-autobus/blf/section"
)

// appTextState is the APP_TEXT METADATA continuation state machine of
// spec.md §4.7.9 / §9: Idle -> Accumulating -> (continue | emit) -> Idle.
type appTextState struct {
	active bool
	start  int64 // last_metadata_start
	buf    []byte
	rawLen uint32 // text bytes buffered so far, excluding the wrapper
}

const (
	appTextMetadataDissector = "data-text-lines"
	appTextMetadataProtoText = "BLF App text"
	appTextMetadataInfoText  = "Metadata"
)

// decodeAppText decodes an APP_TEXT object, branching on its source
// field (spec.md §4.7.9).
func (d *Demux) decodeAppText(oh commonHeader, bh *section.BlockHeader, blockStart, dataStart int64) (*Packet, error) {
	if err := checkObjectLength(bh.ObjectLength, bh.HeaderLength, section.AppTextHeaderSize); err != nil {
		return nil, err
	}

	raw, err := d.ctx.read(dataStart, section.AppTextHeaderSize)
	if err != nil {
		return nil, err
	}
	var h section.AppTextHeader
	if err := h.Parse(raw); err != nil {
		return nil, err
	}

	avail := int64(bh.ObjectLength) - int64(bh.HeaderLength) - section.AppTextHeaderSize
	textLen := int64(h.TextLength)
	if textLen > avail {
		textLen = avail
	}
	text, err := d.ctx.read(dataStart+section.AppTextHeaderSize, int(textLen))
	if err != nil {
		return nil, err
	}

	switch h.Source {
	case section.AppTextChannel:
		d.decodeAppTextChannel(h, text)
		return nil, nil
	case section.AppTextMetadata:
		return d.decodeAppTextMetadata(oh, h, blockStart, text), nil
	case section.AppTextComment:
		return d.emitUpperPduText("blf-apptext-comment", "Comment", blockStart, oh, truncateAtNul(text)), nil
	case section.AppTextAttachment:
		return d.emitUpperPduText("blf-apptext-attachment", "Attachment", blockStart, oh, truncateAtNul(text)), nil
	case section.AppTextTraceline:
		return d.emitUpperPduText("blf-apptext-traceline", "Trace Line", blockStart, oh, truncateAtNul(text)), nil
	default:
		d.ctx.Log.Warnf("blf: app_text at %d has unknown source %d, discarding", blockStart, uint32(h.Source))
		return nil, nil
	}
}

// truncateAtNul returns text up to its first embedded NUL byte. This is
// a quirk of the reference implementation (spec.md §9) pinned here for
// COMMENT/ATTACHMENT/TRACELINE records rather than using textLength.
func truncateAtNul(text []byte) []byte {
	if i := bytes.IndexByte(text, 0); i >= 0 {
		return text[:i]
	}
	return text
}

func (d *Demux) emitUpperPduText(dissector, infoText string, blockStart int64, oh commonHeader, text []byte) *Packet {
	wrapped := buildExportedPDU(dissector, "BLF App text", infoText, text)
	pkt := d.ctx.emit(oh.Flags, oh.ObjectTimestamp, format.EncapUpperPDU, 0, 0, len(wrapped), len(wrapped), wrapped)
	pkt.StartOfObject = blockStart
	return &pkt
}

// decodeAppTextChannel attaches a display name extracted from a
// semicolon-separated CHANNEL record to the interface it names,
// creating the interface if it does not exist yet. Emits no packet.
func (d *Demux) decodeAppTextChannel(h section.AppTextHeader, text []byte) {
	tokens := strings.Split(string(text), ";")
	name := ""
	if len(tokens) > 1 {
		name = tokens[1]
	}

	channel := uint32(h.Channel())
	encap := channelEncapFromCode(h.ChannelEncapCode())
	hwChannel := uint32(channelHwChannelSentinel)

	if d.ctx.Registry.RenameExisting(encap, channel, hwChannel, name) {
		return
	}
	d.ctx.Registry.Lookup(encap, channel, hwChannel, name)
}

const channelHwChannelSentinel = 0xFFFF

func channelEncapFromCode(code uint8) format.Encap {
	switch code {
	case 1:
		return format.EncapEthernet
	case 2:
		return format.EncapWlan
	case 3:
		return format.EncapSocketCAN
	case 4:
		return format.EncapFlexRay
	case 5:
		return format.EncapLin
	default:
		return format.EncapPerPacket // sentinel: code did not map to a known encap
	}
}

// decodeAppTextMetadata implements the Accumulating state of spec.md
// §4.7.9/§9: returns nil while the sequence continues, or the terminal
// Packet once the buffered total satisfies reserved1's low 24 bits.
func (d *Demux) decodeAppTextMetadata(oh commonHeader, h section.AppTextHeader, blockStart int64, text []byte) *Packet {
	if !d.appText.active {
		d.appText.active = true
		d.appText.start = blockStart
		d.appText.buf = buildExportedPDU(appTextMetadataDissector, appTextMetadataProtoText, appTextMetadataInfoText, nil)
	}
	d.appText.buf = append(d.appText.buf, text...)
	d.appText.rawLen += uint32(len(text))

	if h.MetadataTotalLength() > d.appText.rawLen {
		return nil // sequence continues; no record emitted yet
	}

	out := d.appText.buf
	start := d.appText.start
	d.appText = appTextState{}

	pkt := d.ctx.emit(oh.Flags, oh.ObjectTimestamp, format.EncapUpperPDU, 0, 0, len(out), len(out), out)
	pkt.StartOfObject = start
	return &pkt
}
