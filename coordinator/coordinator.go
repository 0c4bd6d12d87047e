// Package coordinator implements the endpoint lifecycle state machine
// described in spec.md §4.3: veth provisioning and teardown across
// namespace boundaries, one-shot and supervised DHCP client
// orchestration, and translation of bridge routes and DHCP leases into
// the join payload the engine expects.
package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/docker/libnetwork/ns"
	"github.com/nategraf/docker-net-dhcp/engine"
	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
)

const (
	// DriverName is reported to the engine reflector so the bridge
	// eligibility check can tell "our" networks apart from everyone
	// else's.
	DriverName = "net-dhcp"

	interfaceAppearTimeout = 10 * time.Second
	leaseTimeout           = 10 * time.Second
)

// Coordinator owns every network and endpoint this driver instance
// knows about, replacing the teacher's process-global maps with explicit,
// passed-through state (spec.md §9 "Global state").
type Coordinator struct {
	nlh      *netlink.Handle
	reflect  engine.Reflector
	dhcpOpts DHCPOptions

	mu       sync.Mutex
	networks map[string]*network
}

// DHCPOptions configures how DHCP client processes are launched; see
// dhcp.Config for field meaning.
type DHCPOptions struct {
	ClientPathV4 string
	ClientPathV6 string
	ShimPath     string
	QueueDir     string
}

// New constructs a Coordinator using the host's netlink handle and the
// given engine reflector. The handle comes from libnetwork's ns package,
// which keeps a single OS-thread-locked handle for the host namespace
// rather than opening a fresh one per caller.
func New(reflect engine.Reflector, opts DHCPOptions) (*Coordinator, error) {
	return &Coordinator{
		nlh:      ns.NlHandle(),
		reflect:  reflect,
		dhcpOpts: opts,
		networks: make(map[string]*network),
	}, nil
}

// Shutdown stops every live supervisor and releases the coordinator's
// engine client, per spec.md §5 "Cleanup on shutdown". The netlink handle
// itself belongs to libnetwork's ns package and is not ours to close.
func (co *Coordinator) Shutdown() {
	co.mu.Lock()
	nets := make([]*network, 0, len(co.networks))
	for _, n := range co.networks {
		nets = append(nets, n)
	}
	co.mu.Unlock()

	for _, n := range nets {
		n.mu.Lock()
		eps := make([]*endpoint, 0, len(n.endpoints))
		for _, ep := range n.endpoints {
			eps = append(eps, ep)
		}
		n.mu.Unlock()

		for _, ep := range eps {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			stopSupervisors(ctx, ep)
			cancel()
		}
	}

	if err := co.reflect.Close(); err != nil {
		logrus.WithError(err).Warn("coordinator: failed to close engine client")
	}
}

func (co *Coordinator) getNetwork(id string) (*network, error) {
	co.mu.Lock()
	defer co.mu.Unlock()
	n, ok := co.networks[id]
	if !ok {
		return nil, ErrNetworkNotFound(id)
	}
	return n, nil
}

func (n *network) getEndpoint(id string) (*endpoint, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	ep, ok := n.endpoints[id]
	if !ok {
		return nil, ErrEndpointNotFound(id)
	}
	return ep, nil
}
