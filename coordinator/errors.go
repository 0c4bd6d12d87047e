package coordinator

import (
	"fmt"
)

// ErrInvalidDriverConfig is returned when the driver is passed an invalid
// CreateNetwork configuration.
type ErrInvalidDriverConfig struct{}

func (e *ErrInvalidDriverConfig) Error() string {
	return "invalid configuration passed to net-dhcp driver"
}

// BadRequest denotes the type of this error.
func (e *ErrInvalidDriverConfig) BadRequest() {}

// ErrBridgeNotFound is returned when the configured bridge does not exist
// on the host, or is not actually a bridge device.
type ErrBridgeNotFound string

func (e ErrBridgeNotFound) Error() string {
	return fmt.Sprintf("bridge %q not found or is not a bridge device", string(e))
}

// BadRequest denotes the type of this error.
func (e ErrBridgeNotFound) BadRequest() {}

// ErrBridgeNotEligible is returned when the configured bridge carries a
// subnet already claimed by some other, non-driver network.
type ErrBridgeNotEligible string

func (e ErrBridgeNotEligible) Error() string {
	return fmt.Sprintf("bridge %q has a subnet already claimed by another network", string(e))
}

// BadRequest denotes the type of this error.
func (e ErrBridgeNotEligible) BadRequest() {}

// ErrNotNullIPAM is returned when CreateNetwork is not using the engine's
// null IPAM driver, which is the only one this driver supports.
type ErrNotNullIPAM struct{}

func (e *ErrNotNullIPAM) Error() string {
	return "Only the null IPAM driver is supported"
}

// BadRequest denotes the type of this error.
func (e *ErrNotNullIPAM) BadRequest() {}

// ErrInvalidIPv6Option is returned when the ipv6 option value is not one
// of "", "true" or "false".
type ErrInvalidIPv6Option struct{}

func (e *ErrInvalidIPv6Option) Error() string {
	return "Invalid boolean value for ipv6"
}

// BadRequest denotes the type of this error.
func (e *ErrInvalidIPv6Option) BadRequest() {}

// ErrStaticAddressUnsupported is returned when the engine requests a
// specific address for an endpoint; the null-IPAM contract requires that
// only the driver assigns addresses.
type ErrStaticAddressUnsupported struct{}

func (e *ErrStaticAddressUnsupported) Error() string {
	return "static address assignment is not supported; the null IPAM driver must be used"
}

// BadRequest denotes the type of this error.
func (e *ErrStaticAddressUnsupported) BadRequest() {}

// ErrNetworkNotFound is returned when the passed network id is not known.
type ErrNetworkNotFound string

func (e ErrNetworkNotFound) Error() string {
	return fmt.Sprintf("network %s does not exist", string(e))
}

// NotFound denotes the type of this error.
func (e ErrNetworkNotFound) NotFound() {}

// ErrEndpointNotFound is returned when the passed endpoint id is not known.
type ErrEndpointNotFound string

func (e ErrEndpointNotFound) Error() string {
	return fmt.Sprintf("endpoint %s does not exist", string(e))
}

// NotFound denotes the type of this error.
func (e ErrEndpointNotFound) NotFound() {}

// ErrEndpointExists is returned if CreateEndpoint is called twice for the
// same endpoint id.
type ErrEndpointExists string

func (e ErrEndpointExists) Error() string {
	return fmt.Sprintf("endpoint %s already exists", string(e))
}

// Forbidden denotes the type of this error.
func (e ErrEndpointExists) Forbidden() {}

// ErrInterfaceTimeout is returned when the container-side veth does not
// appear in the host namespace within the allotted time.
type ErrInterfaceTimeout string

func (e ErrInterfaceTimeout) Error() string {
	return fmt.Sprintf("timed out waiting for interface %s to appear", string(e))
}

// Timeout denotes the type of this error.
func (e ErrInterfaceTimeout) Timeout() {}

// ErrLeaseTimeout is returned when no DHCP lease was obtained in time.
type ErrLeaseTimeout string

func (e ErrLeaseTimeout) Error() string {
	return fmt.Sprintf("timed out waiting for lease on %s", string(e))
}

// Timeout denotes the type of this error.
func (e ErrLeaseTimeout) Timeout() {}

// ErrContainerNotVisible is returned when the engine does not report a
// container's network endpoint within the bounded retry window.
type ErrContainerNotVisible string

func (e ErrContainerNotVisible) Error() string {
	return fmt.Sprintf("container for endpoint %s did not become visible in the engine", string(e))
}

// Timeout denotes the type of this error.
func (e ErrContainerNotVisible) Timeout() {}
