package iface

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-autobus/blf/format"
)

type recordingPublisher struct {
	published []Descriptor
}

func (p *recordingPublisher) PublishInterface(d Descriptor) {
	p.published = append(p.published, d)
}

func TestLookupCreatesStableIDs(t *testing.T) {
	require := require.New(t)

	pub := &recordingPublisher{}
	r := New(pub)

	id1 := r.Lookup(format.EncapSocketCAN, 0, HwChannelNotApplicable, "")
	id2 := r.Lookup(format.EncapSocketCAN, 1, HwChannelNotApplicable, "")
	id1Again := r.Lookup(format.EncapSocketCAN, 0, HwChannelNotApplicable, "")

	require.Equal(id1, id1Again)
	require.NotEqual(id1, id2)
	require.Len(pub.published, 2)
}

func TestLookupDistinctHwChannelsAreDistinctInterfaces(t *testing.T) {
	require := require.New(t)

	r := New(nil)
	id1 := r.Lookup(format.EncapEthernet, 0, 0, "")
	id2 := r.Lookup(format.EncapEthernet, 0, 1, "")
	require.NotEqual(id1, id2)
}

func TestDefaultNamingEthernetWithHwChannel(t *testing.T) {
	require := require.New(t)

	pub := &recordingPublisher{}
	r := New(pub)

	r.Lookup(format.EncapEthernet, 2, 5, "")
	require.Equal("ETH-2-5", pub.published[0].Name)
}

func TestDefaultNamingEthernetWithoutHwChannel(t *testing.T) {
	require := require.New(t)

	pub := &recordingPublisher{}
	r := New(pub)

	r.Lookup(format.EncapEthernet, 3, HwChannelNotApplicable, "")
	require.Equal("ETH-3", pub.published[0].Name)
}

func TestDefaultNamingNonEthernetIgnoresHwChannel(t *testing.T) {
	require := require.New(t)

	pub := &recordingPublisher{}
	r := New(pub)

	r.Lookup(format.EncapSocketCAN, 4, 5, "")
	require.Equal("CAN-4", pub.published[0].Name)
}

func TestDefaultNamingUnknownEncap(t *testing.T) {
	require := require.New(t)

	pub := &recordingPublisher{}
	r := New(pub)

	r.Lookup(format.Encap(99), 7, HwChannelNotApplicable, "")
	require.Equal("ENCAP_99-7", pub.published[0].Name)
}

func TestExplicitNameOverridesDefault(t *testing.T) {
	require := require.New(t)

	pub := &recordingPublisher{}
	r := New(pub)

	r.Lookup(format.EncapLin, 0, HwChannelNotApplicable, "Powertrain LIN")
	require.Equal("Powertrain LIN", pub.published[0].Name)
}

func TestRenameExistingAttachesLateName(t *testing.T) {
	require := require.New(t)

	pub := &recordingPublisher{}
	r := New(pub)

	id := r.Lookup(format.EncapLin, 1, HwChannelNotApplicable, "")
	require.True(r.RenameExisting(format.EncapLin, 1, HwChannelNotApplicable, "Body LIN"))
	require.Equal("Body LIN", r.byKey[key(format.EncapLin, 1, HwChannelNotApplicable)].name)
	require.Equal(id, r.byKey[key(format.EncapLin, 1, HwChannelNotApplicable)].id)
}

func TestRenameExistingReturnsFalseForUnknownInterface(t *testing.T) {
	require := require.New(t)

	r := New(nil)
	require.False(r.RenameExisting(format.EncapLin, 9, HwChannelNotApplicable, "nope"))
}

func TestFileEncapTracksSingleEncap(t *testing.T) {
	require := require.New(t)

	r := New(nil)
	require.Equal(format.EncapUnset, r.FileEncap())

	r.Lookup(format.EncapSocketCAN, 0, HwChannelNotApplicable, "")
	require.Equal(format.EncapSocketCAN, r.FileEncap())

	r.Lookup(format.EncapSocketCAN, 1, HwChannelNotApplicable, "")
	require.Equal(format.EncapSocketCAN, r.FileEncap())
}

func TestFileEncapBecomesPerPacketOnMixedEncaps(t *testing.T) {
	require := require.New(t)

	r := New(nil)
	r.Lookup(format.EncapSocketCAN, 0, HwChannelNotApplicable, "")
	r.Lookup(format.EncapLin, 0, HwChannelNotApplicable, "")
	require.Equal(format.EncapPerPacket, r.FileEncap())
}
