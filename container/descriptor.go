// Package container implements the two-level virtual-address space
// described in spec.md §1(a): the container index (C2), the container
// cache (C3), and the virtual reader (C4).
package container

import "github.com/go-autobus/blf/format"

// Descriptor is spec.md §3's LogContainerDescriptor: an immutable record
// of where one LOG_CONTAINER lives in the file and in the virtual address
// space, plus its lazily-populated inflation cache.
type Descriptor struct {
	FileStart     int64 // offset of "LOBJ" in the file
	FileDataStart int64 // offset where the compressed payload begins
	FileLength    int64 // bytes from FileStart to end of container
	VirtStart     int64 // running sum of prior containers' VirtLength
	VirtLength    int64 // this container's uncompressed size

	Compression format.CompressionMethod

	cached []byte // nil until first access of a ZLIB container
}

// Contains reports whether virtual offset v falls within this
// descriptor's virtual range.
func (d *Descriptor) Contains(v int64) bool {
	return v >= d.VirtStart && v < d.VirtStart+d.VirtLength
}
