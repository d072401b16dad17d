package openshock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFilterCandidates(t *testing.T) {

	assert := assert.New(t)

	ports := []PortInfo{
		{Path: "/dev/ttyS0"},
		{Path: "/dev/ttyUSB0", VendorId: "10c4", IsUSB: true},
		{Path: "/dev/ttyACM0", VendorId: "2341", IsUSB: true},
		{Path: "/dev/ttyACM1", VendorId: "303A", IsUSB: true},
	}
	candidates := FilterCandidates(ports, DefaultVendorIds)

	assert.Equal([]Candidate{
		{Path: "/dev/ttyUSB0", VendorId: "10c4"},
		{Path: "/dev/ttyACM1", VendorId: "303A"},
	}, candidates)
}

func TestProbeFindsSignaturePort(t *testing.T) {

	require := require.New(t)

	silent := newFakePort("")
	hub := newFakePort("OpenShock hub firmware 1.3.0\nrftransmit <json>\n")
	after := newFakePort("")
	other := newFakePort("OpenShock")

	ports := map[string]*fakePort{
		"/dev/ttyUSB0": silent,
		"/dev/ttyUSB1": hub,
		"/dev/ttyUSB2": after,
		"/dev/ttyACM9": other,
	}
	lister := fakeLister{ports: []PortInfo{
		{Path: "/dev/ttyACM9", VendorId: "2341"},
		{Path: "/dev/ttyUSB0", VendorId: "1A86"},
		{Path: "/dev/ttyUSB1", VendorId: "10C4"},
		{Path: "/dev/ttyUSB2", VendorId: "0403"},
	}}

	probe := NewProbe(lister, fakeOpener(ports), zap.Must(zap.NewDevelopment()))
	probe.Timeout = 200 * time.Millisecond

	path, port, err := probe.Find(context.Background())
	require.NoError(err)
	require.Equal("/dev/ttyUSB1", path)
	require.Same(hub, port)

	require.Equal(ProbeCommand, hub.Written())
	require.False(hub.closed.Load(), "winning port stays open")
	require.True(silent.closed.Load(), "non matching port is closed")
	require.False(after.opened.Load(), "probe stops at the first match")
	require.False(other.opened.Load(), "vendor not in allow list")
}

func TestProbeNoMatch(t *testing.T) {

	require := require.New(t)

	a := newFakePort("")
	b := newFakePort("ets Jun  8 2016 00:22:57\nrst:0x1 (POWERON_RESET)\n")
	ports := map[string]*fakePort{"/dev/ttyUSB0": a, "/dev/ttyUSB1": b}
	lister := fakeLister{ports: []PortInfo{
		{Path: "/dev/ttyUSB0", VendorId: "10C4"},
		{Path: "/dev/ttyUSB1", VendorId: "1A86"},
	}}

	probe := NewProbe(lister, fakeOpener(ports), zap.Must(zap.NewDevelopment()))
	probe.Timeout = 100 * time.Millisecond

	start := time.Now()
	_, port, err := probe.Find(context.Background())
	elapsed := time.Since(start)

	require.ErrorIs(err, ErrHubNotFound)
	require.Nil(port)
	require.Less(elapsed, 2*probe.Timeout+500*time.Millisecond)
	require.True(a.closed.Load())
	require.True(b.closed.Load())
}

func TestProbeWithoutCandidates(t *testing.T) {

	probe := NewProbe(fakeLister{}, fakeOpener(nil), zap.Must(zap.NewDevelopment()))

	_, _, err := probe.Find(context.Background())
	assert.ErrorIs(t, err, ErrHubNotFound)
}
