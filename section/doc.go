// Package section provides fixed-layout, little-endian struct readers for
// every on-disk header variant in a BLF file (spec.md §3, §6).
//
// Every type in this package exposes a Parse([]byte) error method that
// copies a fixed number of bytes from the front of its argument and
// reports errs.ErrBadFile if fewer bytes are available than the struct's
// declared size. There is no partial read.
package section
