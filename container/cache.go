package container

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"

	"github.com/go-autobus/blf/errs"
	"github.com/go-autobus/blf/format"
)

// ensureCached inflates a ZLIB container's compressed payload into an
// owned buffer on first access, per spec.md §4.3 (C3). Subsequent calls
// are no-ops until a Reader with a cache cap evicts the buffer, after
// which the next call inflates it again. NONE containers never populate the cache (invariant iii of
// spec.md §3); callers read those directly against the file.
func ensureCached(d *Descriptor, file io.ReaderAt) error {
	if d.Compression == format.CompressionNone {
		return nil
	}
	if d.cached != nil {
		return nil
	}
	if d.Compression != format.CompressionZlib {
		return fmt.Errorf("blf: container compression method %s: %w", d.Compression, errs.ErrUnsupported)
	}

	if d.FileDataStart < d.FileStart {
		return errs.Internal(fmt.Sprintf("container at %d: file_data_start %d precedes file_start", d.FileStart, d.FileDataStart))
	}
	compressedLen := d.FileLength - (d.FileDataStart - d.FileStart)
	if compressedLen < 0 {
		return errs.Internal(fmt.Sprintf("container at %d: file_length %d shorter than header span", d.FileStart, d.FileLength))
	}
	if d.VirtLength < 0 || d.VirtLength > math.MaxUint32 {
		return errs.Internal(fmt.Sprintf("container at %d: virt_length %d does not fit in 32 bits", d.FileStart, d.VirtLength))
	}

	raw := make([]byte, compressedLen)
	n, err := file.ReadAt(raw, d.FileDataStart)
	if n < len(raw) {
		return fmt.Errorf("blf: reading compressed container at %d: %w", d.FileDataStart, errs.ErrBadFile)
	}
	_ = err

	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return classifyZlibErr(err)
	}
	defer zr.Close()

	out, allocErr := safeAlloc(int(d.VirtLength))
	if allocErr != nil {
		return allocErr
	}

	if _, err := io.ReadFull(zr, out); err != nil {
		return fmt.Errorf("blf: inflating container at %d: %w", d.FileStart, errs.ErrDecompress)
	}

	// The sized output implies the decompressor must finish cleanly: one
	// more byte must yield end-of-stream.
	var probe [1]byte
	if extra, _ := zr.Read(probe[:]); extra > 0 {
		return fmt.Errorf("blf: container at %d has trailing compressed data beyond uncompressed_size: %w", d.FileStart, errs.ErrDecompress)
	}

	d.cached = out

	return nil
}

func classifyZlibErr(err error) error {
	if err == zlib.ErrDictionary {
		return fmt.Errorf("blf: zlib dictionary required: %w", errs.ErrUnsupported)
	}
	return fmt.Errorf("blf: %v: %w", err, errs.ErrDecompress)
}

// safeAlloc allocates an n-byte buffer, converting the runtime panic from
// an absurd or unsatisfiable allocation request into errs.ErrOutOfMemory
// (spec.md §4.3: "except Z_MEM_ERROR which maps to OutOfMemory").
func safeAlloc(n int) (buf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = fmt.Errorf("blf: allocating %d-byte container buffer: %v: %w", n, r, errs.ErrOutOfMemory)
		}
	}()

	return make([]byte, n), nil
}
