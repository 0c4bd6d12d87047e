package dhcp

import (
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestDhcpv4HostnameArg(t *testing.T) {
	assert.Equal(t, dhcpv4HostnameArg("web-01"), "hostname:web-01")
}

func TestSplitLabels(t *testing.T) {
	assert.DeepEqual(t, splitLabels("web-01.svc.cluster.local"), []string{"web-01", "svc", "cluster", "local"})
	assert.DeepEqual(t, splitLabels("web-01."), []string{"web-01"})
	assert.DeepEqual(t, splitLabels(""), []string(nil))
}

func TestDhcpv6FQDNOption(t *testing.T) {
	buf := dhcpv6FQDNOption("web-01.local")

	assert.Assert(t, len(buf) > 0)
	assert.Equal(t, buf[0], byte(0x01), "S bit must be set")
	assert.Assert(t, is.Equal(buf[len(buf)-1], byte(0)), "root label terminator")

	// "web-01" label: length byte followed by the label bytes.
	assert.Equal(t, buf[1], byte(len("web-01")))
	assert.Equal(t, string(buf[2:2+len("web-01")]), "web-01")
}
