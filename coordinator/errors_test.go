package coordinator

import (
	"testing"

	"github.com/docker/libnetwork/types"
	"gotest.tools/v3/assert"
)

func TestErrorsImplementLibnetworkMarkerInterfaces(t *testing.T) {
	var badRequests = []error{
		&ErrInvalidDriverConfig{},
		ErrBridgeNotFound("br0"),
		ErrBridgeNotEligible("br0"),
		&ErrNotNullIPAM{},
		&ErrInvalidIPv6Option{},
		&ErrStaticAddressUnsupported{},
	}
	for _, err := range badRequests {
		_, ok := err.(types.BadRequestError)
		assert.Assert(t, ok, "%T should satisfy types.BadRequestError", err)
	}

	var notFounds = []error{
		ErrNetworkNotFound("net1"),
		ErrEndpointNotFound("ep1"),
	}
	for _, err := range notFounds {
		_, ok := err.(types.NotFoundError)
		assert.Assert(t, ok, "%T should satisfy types.NotFoundError", err)
	}

	_, ok := error(ErrEndpointExists("ep1")).(types.ForbiddenError)
	assert.Assert(t, ok)

	var timeouts = []error{
		ErrInterfaceTimeout("veth0"),
		ErrLeaseTimeout("veth0"),
		ErrContainerNotVisible("ep1"),
	}
	for _, err := range timeouts {
		_, ok := err.(types.TimeoutError)
		assert.Assert(t, ok, "%T should satisfy types.TimeoutError", err)
	}
}

func TestErrorMessagesNameTheSubject(t *testing.T) {
	assert.ErrorContains(t, ErrBridgeNotFound("br0"), "br0")
	assert.ErrorContains(t, ErrEndpointNotFound("ep1"), "ep1")
	assert.ErrorContains(t, ErrLeaseTimeout("veth0"), "veth0")
}
