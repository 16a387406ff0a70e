// Package blf decodes the Binary Log File (BLF) format produced by
// automotive bus-trace tools: a sequence of compressed log containers
// carrying a heterogeneous stream of timestamped bus-event objects
// (Ethernet, WLAN, CAN, FlexRay, LIN, application text, link status).
//
// # Basic usage
//
//	s, err := blf.Open("capture.blf", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	for {
//	    pkt, err := s.SequentialRead()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("iface=%d encap=%s len=%d\n", pkt.InterfaceID, pkt.Encap, pkt.CaptureLen)
//	}
//
// This package provides a convenient top-level wrapper around the
// session package, which in turn composes container (the virtual
// address space over compressed containers), iface (the interface
// registry), and object (the per-type decoders). For fine-grained
// control, use those packages directly.
package blf

import (
	"github.com/go-autobus/blf/iface"
	"github.com/go-autobus/blf/object"
	"github.com/go-autobus/blf/session"
)

// Session is an open BLF file (C8, spec §4.8).
type Session = session.Session

// Packet is one decoded record (spec §3 PacketRecord).
type Packet = object.Packet

// Publisher receives newly-created interface-descriptor blocks as the
// registry lazily materializes them (spec §4.5). A nil Publisher passed
// to Open discards every descriptor.
type Publisher = iface.Publisher

// InterfaceDescriptor is the block published to a Publisher the first
// time a (encap, channel, hw_channel) triple is observed.
type InterfaceDescriptor = iface.Descriptor

// Option configures Open; see session.WithLogger, session.WithBufferPool,
// and session.WithMaxCachedContainers.
type Option = session.Option

// Open validates and opens the BLF file at path, building its container
// index and priming the read cursor at the start of the virtual address
// space.
//
// Parameters:
//   - path: filesystem path to the BLF file
//   - publisher: receives interface descriptors as they are lazily
//     created; pass nil to discard them
//   - opts: session.WithLogger, session.WithBufferPool,
//     session.WithMaxCachedContainers
//
// Returns:
//   - *Session: the open session, ready for SequentialRead/RandomRead
//   - error: errs.ErrNotMine if path is not a BLF file
func Open(path string, publisher Publisher, opts ...Option) (*Session, error) {
	return session.Open(path, publisher, opts...)
}
