// Package errs defines the sentinel error kinds returned by the decoder
// (spec.md §7). Every decode path wraps one of these with fmt.Errorf's
// %w so callers can errors.Is against the kind while still getting a
// human-readable message.
package errs

import "errors"

var (
	// ErrNotMine is returned only from open: the file is shorter than the
	// file header or its magic does not match "LOGG".
	ErrNotMine = errors.New("blf: not a BLF file")

	// ErrBadFile signals a structurally invalid file: a declared struct
	// did not fit in the bytes available, an object_length was too small
	// for its own header, or a frame exceeded its containing object.
	ErrBadFile = errors.New("blf: malformed file")

	// ErrDecompress is returned when zlib rejects a container's stream.
	ErrDecompress = errors.New("blf: decompression failed")

	// ErrUnsupported covers unknown compression methods, unknown
	// block-header types, nested LOG_CONTAINERs, and missing
	// decompression support.
	ErrUnsupported = errors.New("blf: unsupported feature")

	// ErrOutOfMemory is returned when inflation cannot allocate its
	// output buffer.
	ErrOutOfMemory = errors.New("blf: out of memory")

	// ErrInternal signals that an invariant of the container index was
	// violated; this is unreachable for well-formed files. Use
	// Internal to attach a diagnostic string.
	ErrInternal = errors.New("blf: internal invariant violated")

	// ErrShortRead is the underlying-I/O short-read kind; the scanning
	// loop in package container translates a trailing short read into a
	// clean end-of-file rather than propagating this.
	ErrShortRead = errors.New("blf: short read")
)

// DiagError wraps ErrInternal with a diagnostic string describing which
// invariant failed and where.
type DiagError struct {
	Diag string
}

func (e *DiagError) Error() string {
	return ErrInternal.Error() + ": " + e.Diag
}

func (e *DiagError) Unwrap() error {
	return ErrInternal
}

// Internal builds an ErrInternal carrying a diagnostic string.
func Internal(diag string) error {
	return &DiagError{Diag: diag}
}
