package driver

import (
	"net"
	"testing"

	"github.com/docker/go-plugins-helpers/network"
	"github.com/nategraf/docker-net-dhcp/coordinator"
	"gotest.tools/v3/assert"
)

func TestStringOptionsDropsNonStringValues(t *testing.T) {
	out := stringOptions(map[string]interface{}{
		"bridge": "br0",
		"mtu":    1500,
		"ipv6":   "true",
	})
	assert.DeepEqual(t, out, map[string]string{"bridge": "br0", "ipv6": "true"})
}

func TestConvertIPAMSliceSkipsNil(t *testing.T) {
	out := convertIPAMSlice([]*network.IPAMData{
		{AddressSpace: "null", Pool: "0.0.0.0/0"},
		nil,
	})
	assert.Equal(t, len(out), 1)
	assert.Equal(t, out[0].AddressSpace, "null")
}

func TestParseEndpointInterfaceNil(t *testing.T) {
	req, err := parseEndpointInterface(nil)
	assert.NilError(t, err)
	assert.DeepEqual(t, req, coordinator.EndpointRequest{})
}

func TestParseEndpointInterfaceParsesMACAndAddresses(t *testing.T) {
	req, err := parseEndpointInterface(&network.EndpointInterface{
		MacAddress:  "02:42:ac:11:00:02",
		Address:     "192.0.2.10/24",
		AddressIPv6: "2001:db8::10/64",
	})
	assert.NilError(t, err)
	assert.Equal(t, req.MAC.String(), "02:42:ac:11:00:02")
	assert.Equal(t, req.Addr.String(), "192.0.2.10/24")
	assert.Equal(t, req.AddrV6.String(), "2001:db8::10/64")
}

func TestParseEndpointInterfaceRejectsBadMAC(t *testing.T) {
	_, err := parseEndpointInterface(&network.EndpointInterface{MacAddress: "not-a-mac"})
	assert.ErrorContains(t, err, "bad MAC address")
}

func TestMarshalEndpointResult(t *testing.T) {
	ip, addr, err := net.ParseCIDR("192.0.2.10/24")
	assert.NilError(t, err)
	addr.IP = ip

	out := marshalEndpointResult(&coordinator.EndpointResult{Addr: addr})
	assert.Equal(t, out.Address, "192.0.2.10/24")
	assert.Equal(t, out.MacAddress, "")
}

func TestNextHopString(t *testing.T) {
	assert.Equal(t, nextHopString(nil), "")
}
