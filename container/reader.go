package container

import (
	"fmt"
	"io"

	"github.com/go-autobus/blf/errs"
	"github.com/go-autobus/blf/format"
)

// Reader is the virtual reader (C4, spec.md §4.4): given a virtual
// offset and length, it copies bytes across container boundaries,
// pulling and inflating containers as needed.
type Reader struct {
	idx  *Index
	file io.ReaderAt

	maxCached int   // 0 means unbounded, spec.md §5's documented default
	lru       []int // descriptor indices in least-to-most-recently-used order
}

// NewReader builds a Reader over idx, reading compressed bytes from file
// on demand.
func NewReader(idx *Index, file io.ReaderAt) *Reader {
	return &Reader{idx: idx, file: file}
}

// SetMaxCachedContainers caps the number of simultaneously inflated ZLIB
// containers retained in memory, evicting the least-recently-used one
// once the cap is exceeded (spec.md §5: eviction is permitted, not
// required; 0 keeps every container cached until Close, the default).
func (r *Reader) SetMaxCachedContainers(n int) {
	r.maxCached = n
}

// touch records i as most-recently-used and evicts the least-recently
// used cached container if the cap is now exceeded.
func (r *Reader) touch(i int) {
	if r.maxCached <= 0 {
		return
	}
	for j, v := range r.lru {
		if v == i {
			r.lru = append(r.lru[:j], r.lru[j+1:]...)
			break
		}
	}
	r.lru = append(r.lru, i)

	for len(r.lru) > r.maxCached {
		evict := r.lru[0]
		r.lru = r.lru[1:]
		r.idx.descriptors[evict].cached = nil
	}
}

// ReadAt copies exactly len(dst) bytes starting at virtual offset
// virtOff into dst.
//
// Returns errs.ErrShortRead if the requested range is not fully covered
// by the index (caller decides EOF vs. error, per spec.md §4.4 step 2),
// or errs.ErrInternal if the container chain runs out before dst is
// filled despite both endpoints resolving (an index invariant violation).
func (r *Reader) ReadAt(virtOff int64, dst []byte) error {
	n := int64(len(dst))
	if n == 0 {
		return nil
	}

	startIdx, ok := r.idx.locate(virtOff)
	if !ok {
		return errs.ErrShortRead
	}
	if _, ok := r.idx.locate(virtOff + n - 1); !ok {
		return errs.ErrShortRead
	}

	var copied int64
	for i := startIdx; i < len(r.idx.descriptors) && copied < n; i++ {
		d := &r.idx.descriptors[i]

		segStart := virtOff + copied
		if segStart < d.VirtStart {
			segStart = d.VirtStart
		}
		segEnd := virtOff + n
		if segEnd > d.VirtStart+d.VirtLength {
			segEnd = d.VirtStart + d.VirtLength
		}
		segLen := segEnd - segStart
		if segLen <= 0 {
			continue
		}

		switch d.Compression {
		case format.CompressionNone:
			fileOff := d.FileDataStart + (segStart - d.VirtStart)
			got, err := r.file.ReadAt(dst[copied:copied+segLen], fileOff)
			if got < int(segLen) {
				if err == nil {
					err = io.ErrUnexpectedEOF
				}
				return fmt.Errorf("blf: reading uncompressed container at %d: %w: %v", fileOff, errs.ErrBadFile, err)
			}
		case format.CompressionZlib:
			if err := ensureCached(d, r.file); err != nil {
				return err
			}
			r.touch(i)
			relStart := segStart - d.VirtStart
			copy(dst[copied:copied+segLen], d.cached[relStart:relStart+segLen])
		default:
			return fmt.Errorf("blf: container compression method %s: %w", d.Compression, errs.ErrUnsupported)
		}

		copied += segLen
	}

	if copied < n {
		return errs.Internal(fmt.Sprintf("virtual read at %d len %d ran out of containers after %d bytes", virtOff, n, copied))
	}

	return nil
}

// TotalLength returns the size of the virtual address space this reader
// covers.
func (r *Reader) TotalLength() int64 { return r.idx.TotalVirtLength() }

// ReadAvailable copies up to len(dst) bytes starting at virtOff, clamped
// to the end of the virtual address space, returning the number of bytes
// actually copied. It returns (0, nil) at clean end-of-stream rather than
// an error, which is how the object demultiplexer distinguishes a
// trailing short header (clean EOF, spec.md §4.6 step 1) from a
// genuinely corrupt file.
func (r *Reader) ReadAvailable(virtOff int64, dst []byte) (int, error) {
	total := r.idx.TotalVirtLength()
	if virtOff >= total {
		return 0, nil
	}

	n := int64(len(dst))
	if virtOff+n > total {
		n = total - virtOff
	}
	if n <= 0 {
		return 0, nil
	}

	if err := r.ReadAt(virtOff, dst[:n]); err != nil {
		return 0, err
	}

	return int(n), nil
}
