package driver

import (
	"testing"

	"github.com/docker/go-plugins-helpers/network"
	"gotest.tools/v3/assert"
)

func TestGetCapabilitiesReturnsLocalScope(t *testing.T) {
	d := New(nil)
	res, err := d.GetCapabilities()
	assert.NilError(t, err)
	assert.Equal(t, res.Scope, network.LocalScope)
	assert.Equal(t, res.ConnectivityScope, network.LocalScope)
}
