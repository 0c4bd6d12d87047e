package coordinator

import (
	"net"
	"testing"

	"gotest.tools/v3/assert"
)

func TestValidateIPAMAcceptsNullPool(t *testing.T) {
	err := validateIPAM([]IPAMPool{{AddressSpace: "null", Pool: "0.0.0.0/0"}})
	assert.NilError(t, err)
}

func TestValidateIPAMAcceptsNoPool(t *testing.T) {
	err := validateIPAM(nil)
	assert.NilError(t, err)
}

func TestValidateIPAMRejectsNonNullDriver(t *testing.T) {
	err := validateIPAM([]IPAMPool{{AddressSpace: "default", Pool: "0.0.0.0/0"}})
	assert.ErrorType(t, err, &ErrNotNullIPAM{})
}

func TestValidateIPAMRejectsNonUniversalPool(t *testing.T) {
	err := validateIPAM([]IPAMPool{{AddressSpace: "null", Pool: "10.0.0.0/8"}})
	assert.ErrorType(t, err, &ErrNotNullIPAM{})
}

func TestParseIPv6OptionDefaultsFalse(t *testing.T) {
	enabled, err := parseIPv6Option("")
	assert.NilError(t, err)
	assert.Equal(t, enabled, false)
}

func TestParseIPv6OptionParsesBool(t *testing.T) {
	enabled, err := parseIPv6Option("true")
	assert.NilError(t, err)
	assert.Equal(t, enabled, true)
}

func TestParseIPv6OptionRejectsGarbage(t *testing.T) {
	_, err := parseIPv6Option("sort-of")
	assert.ErrorType(t, err, &ErrInvalidIPv6Option{})
}

func TestNetsIntersect(t *testing.T) {
	_, a, _ := net.ParseCIDR("192.168.1.0/24")
	_, b, _ := net.ParseCIDR("192.168.1.128/25")
	_, c, _ := net.ParseCIDR("10.0.0.0/8")

	assert.Assert(t, netsIntersect(a, b))
	assert.Assert(t, !netsIntersect(a, c))
}

func TestAnyIntersects(t *testing.T) {
	_, a, _ := net.ParseCIDR("192.168.1.0/24")
	_, b, _ := net.ParseCIDR("172.16.0.0/16")
	_, c, _ := net.ParseCIDR("10.0.0.0/8")

	assert.Assert(t, anyIntersects([]*net.IPNet{a}, []*net.IPNet{c, a}))
	assert.Assert(t, !anyIntersects([]*net.IPNet{a}, []*net.IPNet{b, c}))
}
