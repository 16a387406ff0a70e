// Package endian provides the byte-order abstraction the section codecs
// read through.
//
// Every multi-byte field on disk in a BLF file is little-endian (spec.md
// §6). The codecs in package section never hand-roll byte swaps; they read
// through an EndianEngine so the "host may be big-endian" requirement
// (spec.md §4.1) is satisfied by construction: binary.LittleEndian.UintNN
// always interprets its input as little-endian regardless of the host's
// native order, so no separate swap step is needed once reads go through
// this engine.
package endian

import "encoding/binary"

// EndianEngine is the read-side subset of encoding/binary.ByteOrder used
// by every fixed-layout struct reader in package section.
//
// This is satisfied directly by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
}

// GetLittleEndianEngine returns the engine BLF's on-disk format requires.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine exists for symmetry and for tests that want to prove
// a codec is wired through the engine rather than hard-coded to one order.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
