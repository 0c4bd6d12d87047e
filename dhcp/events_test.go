package dhcp

import (
	"net"
	"testing"

	"gotest.tools/v3/assert"
)

func TestParseWireEventBound(t *testing.T) {
	ev, err := parseWireEvent(wireEvent{
		Type:   "BOUND",
		IP:     "192.0.2.10",
		Mask:   "255.255.255.0",
		Router: "192.0.2.1",
		Domain: "example.com",
	})
	assert.NilError(t, err)
	assert.Equal(t, ev.Kind, Bound)
	assert.Equal(t, ev.Lease.Address.String(), "192.0.2.10/24")
	assert.Assert(t, ev.Lease.Gateway.Equal(net.ParseIP("192.0.2.1")))
	assert.Equal(t, ev.Lease.Domain, "example.com")
}

func TestParseWireEventDeconfigHasNoLease(t *testing.T) {
	ev, err := parseWireEvent(wireEvent{Type: "DECONFIG"})
	assert.NilError(t, err)
	assert.Equal(t, ev.Kind, Deconfig)
	assert.Assert(t, ev.Lease.Address == nil)
}

func TestParseWireEventUnknownKind(t *testing.T) {
	_, err := parseWireEvent(wireEvent{Type: "BOGUS"})
	assert.ErrorContains(t, err, "unknown DHCP event kind")
}

func TestParseWireEventBadAddress(t *testing.T) {
	_, err := parseWireEvent(wireEvent{Type: "BOUND", IP: "not-an-ip", Mask: "255.255.255.0"})
	assert.ErrorContains(t, err, "invalid ip")
}
