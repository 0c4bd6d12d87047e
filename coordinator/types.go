package coordinator

import (
	"net"
	"sync"

	"github.com/nategraf/docker-net-dhcp/dhcp"
)

// endpointState names the position of an endpoint in the lifecycle state
// machine described in spec.md §4.3.
type endpointState int

const (
	stateInit endpointState = iota
	stateVethReady
	stateJoined
)

// network is the driver's record of one CreateNetwork'd network.
type network struct {
	id         string
	bridgeName string
	enableIPv6 bool

	mu        sync.Mutex
	endpoints map[string]*endpoint
}

// endpoint is the driver's per-attachment record. At most one of each
// family's DHCP supervisor exists for a given endpoint at a time.
type endpoint struct {
	mu sync.Mutex

	id        string
	networkID string
	state     endpointState

	hostVeth      string
	containerVeth string

	macAddress net.HardwareAddr
	addr       *net.IPNet
	addrV6     *net.IPNet

	// gatewayHintV4 is populated by CreateEndpoint and consumed (cleared)
	// by the next Join for this endpoint, per the invariant in spec.md §3.
	gatewayHintV4 net.IP

	supervisorV4 *dhcp.Client
	supervisorV6 *dhcp.Client
}

// vethNames derives the deterministic, collision-free-by-prefix veth pair
// names for an endpoint id, per spec.md §3 "Derived naming".
func vethNames(endpointID string) (host, container string) {
	prefix := endpointID
	if len(prefix) > 12 {
		prefix = prefix[:12]
	}
	return "dh-" + prefix, prefix + "-dh"
}
