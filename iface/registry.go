// Package iface implements the interface registry (C5, spec.md §4.5): a
// lazily-populated table mapping (encap, channel, hw_channel) to a stable
// interface id, publishing a descriptor to the host the first time each
// key is observed.
package iface

import (
	"fmt"

	"github.com/go-autobus/blf/format"
)

// HwChannelNotApplicable is the sentinel hw_channel value meaning "not
// applicable" (spec.md §4.5).
const HwChannelNotApplicable = 0xFFFF

// Descriptor is the interface-descriptor block published to the host the
// first time a (encap, channel, hw_channel) key is observed.
type Descriptor struct {
	ID         uint32
	Encap      format.Encap
	Channel    uint32
	HwChannel  uint32
	Name       string
	TimeResolutionNs uint32
	MaxSnapLen uint32
}

// Publisher receives newly-created interface descriptors. The core never
// reads a descriptor back once published (spec.md DESIGN NOTES: "the
// host's interface-descriptor table is externally owned").
type Publisher interface {
	PublishInterface(d Descriptor)
}

// NopPublisher discards every descriptor; useful when a caller only
// wants packet records and does not track interfaces separately.
type NopPublisher struct{}

func (NopPublisher) PublishInterface(Descriptor) {}

// defaultMaxSnapLen is the max standard snap length attached to every
// synthesized interface descriptor (spec.md §4.5).
const defaultMaxSnapLen = 262144

// defaultTimeResolutionNs is the nanosecond time resolution every
// interface descriptor declares.
const defaultTimeResolutionNs = 1

// Registry maps (encap, channel, hw_channel) keys to stable interface
// ids, assigned monotonically from zero as objects are decoded.
type Registry struct {
	byKey     map[uint64]*entry
	byID      []*entry
	pub       Publisher
	fileEncap format.Encap // file-wide encapsulation tag, spec.md §4.5
}

type entry struct {
	id        uint32
	encap     format.Encap
	channel   uint32
	hwChannel uint32
	name      string
}

// New creates an empty Registry that publishes newly-created interface
// descriptors to pub. A nil pub is replaced with NopPublisher.
func New(pub Publisher) *Registry {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &Registry{
		byKey: make(map[uint64]*entry),
		pub:   pub,
	}
}

// key packs (encap, channel, hw_channel) into the unique lookup key of
// spec.md §3: (encap << 32) | (hw_channel << 16) | channel.
func key(encap format.Encap, channel, hwChannel uint32) uint64 {
	return uint64(encap)<<32 | uint64(hwChannel&0xFFFF)<<16 | uint64(channel&0xFFFF)
}

// Lookup returns the stable interface id for (encap, channel,
// hw_channel), creating and publishing a new interface descriptor on
// first reference. name, when non-empty, seeds the name of a newly
// created interface; it does not rename an existing one — callers that
// need to retroactively rename an already-observed interface (APP_TEXT
// CHANNEL records, spec.md §4.7.9) must call RenameExisting first.
//
// Returns:
//   - uint32: the interface id, stable for this (encap, channel, hw)
//     triple and distinct across distinct triples (spec.md §8)
func (r *Registry) Lookup(encap format.Encap, channel, hwChannel uint32, name string) uint32 {
	k := key(encap, channel, hwChannel)
	if e, ok := r.byKey[k]; ok {
		return e.id
	}

	e := &entry{
		id:        uint32(len(r.byID)),
		encap:     encap,
		channel:   channel,
		hwChannel: hwChannel,
		name:      name,
	}
	if e.name == "" {
		e.name = defaultName(encap, channel, hwChannel)
	}

	r.byKey[k] = e
	r.byID = append(r.byID, e)

	r.updateFileEncap(encap)

	r.pub.PublishInterface(Descriptor{
		ID:               e.id,
		Encap:            encap,
		Channel:          channel,
		HwChannel:        hwChannel,
		Name:             e.name,
		TimeResolutionNs: defaultTimeResolutionNs,
		MaxSnapLen:       defaultMaxSnapLen,
	})

	return e.id
}

// RenameExisting attaches name to the interface identified by (encap,
// channel, hw_channel) if it already exists, without creating a new
// entry or publishing again. This is how APP_TEXT CHANNEL records that
// arrive after the interface was already created retroactively supply a
// name (spec.md §4.7.9).
//
// Returns false if no such interface has been observed yet.
func (r *Registry) RenameExisting(encap format.Encap, channel, hwChannel uint32, name string) bool {
	e, ok := r.byKey[key(encap, channel, hwChannel)]
	if !ok || name == "" {
		return false
	}
	e.name = name
	return true
}

// Name returns the current name of the interface with the given id, or
// "" if no such id has been assigned. Exposed mainly so callers and
// tests can observe the effect of a later RenameExisting call.
func (r *Registry) Name(id uint32) string {
	if int(id) >= len(r.byID) {
		return ""
	}
	return r.byID[id].name
}

// FileEncap returns the file-wide encapsulation tag: unset until the
// first interface is created, the single observed encap while only one
// has been seen, or format.EncapPerPacket once more than one distinct
// encap has been observed (spec.md §4.5).
func (r *Registry) FileEncap() format.Encap {
	return r.fileEncap
}

func (r *Registry) updateFileEncap(encap format.Encap) {
	switch {
	case r.fileEncap == format.EncapUnset:
		r.fileEncap = encap
	case r.fileEncap != encap:
		r.fileEncap = format.EncapPerPacket
	}
}

func defaultName(encap format.Encap, channel, hwChannel uint32) string {
	prefix := encapPrefix(encap)
	if prefix == "" {
		return fmt.Sprintf("ENCAP_%d-%d", uint32(encap), channel)
	}
	if encap == format.EncapEthernet && hwChannel != HwChannelNotApplicable {
		return fmt.Sprintf("%s-%d-%d", prefix, channel, hwChannel)
	}
	return fmt.Sprintf("%s-%d", prefix, channel)
}

func encapPrefix(encap format.Encap) string {
	switch encap {
	case format.EncapEthernet:
		return "ETH"
	case format.EncapWlan:
		return "WLAN"
	case format.EncapFlexRay:
		return "FR"
	case format.EncapLin:
		return "LIN"
	case format.EncapSocketCAN:
		return "CAN"
	default:
		return ""
	}
}
