package container

import (
	"fmt"
	"io"

	"github.com/go-autobus/blf/errs"
	"github.com/go-autobus/blf/format"
	"github.com/go-autobus/blf/logx"
	"github.com/go-autobus/blf/section"
)

// Index is the ordered array of container descriptors built once at open
// (spec.md §4.2, C2). Descriptors are simultaneously in file order and in
// virtual order (invariant i of spec.md §3).
type Index struct {
	descriptors []Descriptor
	totalVirt   int64
}

// Len returns the number of containers in the index.
func (idx *Index) Len() int { return len(idx.descriptors) }

// TotalVirtLength returns the size of the virtual address space, i.e. the
// sum of every container's VirtLength.
func (idx *Index) TotalVirtLength() int64 { return idx.totalVirt }

// Descriptor returns the i'th descriptor in file/virtual order.
func (idx *Index) Descriptor(i int) *Descriptor { return &idx.descriptors[i] }

// locate returns the index of the descriptor containing virtual offset v.
func (idx *Index) locate(v int64) (int, bool) {
	for i := range idx.descriptors {
		if idx.descriptors[i].Contains(v) {
			return i, true
		}
	}
	return 0, false
}

// BuildIndex scans r starting at byte offset `start` (immediately after
// the file header) and builds a container Index, per spec.md §4.2.
//
// Parameters:
//   - r: random-access handle on the open file
//   - start: file offset immediately after the FileHeader
//   - log: warning/debug sink for skipped top-level objects
//
// Returns:
//   - *Index: the built index
//   - error: errs.ErrBadFile if a top-level object's header_type != 1, or
//     if a LOG_CONTAINER's own container header does not fit
func BuildIndex(r io.ReaderAt, start int64, log logx.Logger) (*Index, error) {
	if log == nil {
		log = logx.Default
	}

	idx := &Index{}
	p := start

	hdrBuf := make([]byte, section.BlockHeaderSize)
	for {
		n, _ := r.ReadAt(hdrBuf, p)
		if n < 4 {
			break // clean end of file
		}
		if string(hdrBuf[:4]) != section.BlockHeaderMagic {
			p++
			continue
		}
		if n < section.BlockHeaderSize {
			break // BlockHeader straddles EOF: clean end of file, not BadFile
		}

		var bh section.BlockHeader
		if err := bh.Parse(hdrBuf[4:]); err != nil {
			return nil, err
		}
		if bh.HeaderType != section.HeaderTypeV1 {
			return nil, fmt.Errorf("blf: top-level object at offset %d has header_type %d, want 1: %w", p, bh.HeaderType, errs.ErrBadFile)
		}

		if bh.ObjectType == format.ObjectContainer {
			desc, err := readContainerDescriptor(r, p, &bh)
			if err != nil {
				return nil, err
			}
			desc.VirtStart = idx.totalVirt
			idx.totalVirt += desc.VirtLength
			idx.descriptors = append(idx.descriptors, *desc)
		} else {
			log.Warnf("blf: skipping unexpected top-level object type %s at offset %d", bh.ObjectType, p)
		}

		p += bh.AdvanceLength()
	}

	return idx, nil
}

func readContainerDescriptor(r io.ReaderAt, blockStart int64, bh *section.BlockHeader) (*Descriptor, error) {
	containerHeaderOffset := blockStart + int64(bh.HeaderLength)

	chBuf := make([]byte, section.ContainerHeaderSize)
	n, _ := r.ReadAt(chBuf, containerHeaderOffset)
	if n < len(chBuf) {
		return nil, fmt.Errorf("blf: container header at offset %d truncated: %w", containerHeaderOffset, errs.ErrBadFile)
	}

	var ch section.ContainerHeader
	if err := ch.Parse(chBuf); err != nil {
		return nil, err
	}

	dataStart := containerHeaderOffset + section.ContainerHeaderSize

	return &Descriptor{
		FileStart:     blockStart,
		FileDataStart: dataStart,
		FileLength:    bh.AdvanceLength(),
		VirtLength:    int64(ch.UncompressedSize),
		Compression:   ch.CompressionMethod,
	}, nil
}
