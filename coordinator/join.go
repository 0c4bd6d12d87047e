package coordinator

import (
	"context"
	"net"
	"time"

	"github.com/docker/libnetwork/osl"
	"github.com/nategraf/docker-net-dhcp/dhcp"
	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
)

// StaticRoute is one non-default route to report back to the engine.
type StaticRoute struct {
	Destination *net.IPNet
	RouteType   int // 0 = next-hop route, 1 = on-link (connected) route
	NextHop     net.IP
}

// JoinResult is the translated payload for the engine's Join RPC.
type JoinResult struct {
	SrcName     string
	DstPrefix   string
	GatewayV4   net.IP
	GatewayV6   net.IP
	StaticRoutes []StaticRoute
}

// Join builds the interface/route/gateway payload for an endpoint and
// schedules its supervised DHCP client to start once the engine's
// per-endpoint lock (held across this call) is released.
//
// It never itself calls the engine reflector: doing so would deadlock,
// since the engine holds an endpoint lock around Join (spec.md §4.5).
// Instead, container namespace discovery and client startup happen on a
// goroutine launched from here, per spec.md §4.3/§9.
func (co *Coordinator) Join(ctx context.Context, networkID, endpointID, sandboxKey string, hostname string) (*JoinResult, error) {
	defer osl.InitOSContext()()

	n, err := co.getNetwork(networkID)
	if err != nil {
		return nil, err
	}
	ep, err := n.getEndpoint(endpointID)
	if err != nil {
		return nil, err
	}

	ep.mu.Lock()
	result := &JoinResult{
		SrcName:   ep.containerVeth,
		DstPrefix: n.bridgeName,
	}
	if ep.gatewayHintV4 != nil {
		result.GatewayV4 = ep.gatewayHintV4
		ep.gatewayHintV4 = nil
	}
	ep.mu.Unlock()

	link, err := co.nlh.LinkByName(n.bridgeName)
	if err != nil {
		return nil, err
	}
	routes, err := co.translateRoutes(link, result.GatewayV4 != nil, false)
	if err != nil {
		return nil, err
	}
	result.StaticRoutes = routes.routes
	if result.GatewayV4 == nil {
		result.GatewayV4 = routes.gatewayV4
	}
	result.GatewayV6 = routes.gatewayV6

	ep.state = stateJoined

	go co.scheduleSupervisedClients(ep, n, hostname)

	return result, nil
}

type translatedRoutes struct {
	routes    []StaticRoute
	gatewayV4 net.IP
	gatewayV6 net.IP
}

// translateRoutes enumerates the bridge's route table and converts it
// into the gateway/static-route payload described in spec.md §4.3.
func (co *Coordinator) translateRoutes(bridge netlink.Link, haveGatewayV4, haveGatewayV6 bool) (translatedRoutes, error) {
	var out translatedRoutes
	routeList, err := co.nlh.RouteList(bridge, netlink.FAMILY_ALL)
	if err != nil {
		return out, err
	}

	for _, r := range routeList {
		isV6 := r.Dst != nil && r.Dst.IP.To4() == nil
		isDefault := r.Dst == nil || isDefaultRoute(r.Dst)

		if isDefault {
			if isV6 {
				if !haveGatewayV6 && out.gatewayV6 == nil && r.Gw != nil {
					out.gatewayV6 = r.Gw
					haveGatewayV6 = true
					continue
				}
			} else {
				if !haveGatewayV4 && out.gatewayV4 == nil && r.Gw != nil {
					out.gatewayV4 = r.Gw
					haveGatewayV4 = true
					continue
				}
			}
		}

		if r.Dst == nil {
			continue
		}
		if r.Gw != nil {
			out.routes = append(out.routes, StaticRoute{Destination: r.Dst, RouteType: 0, NextHop: r.Gw})
		} else {
			out.routes = append(out.routes, StaticRoute{Destination: r.Dst, RouteType: 1})
		}
	}
	return out, nil
}

func isDefaultRoute(dst *net.IPNet) bool {
	ones, _ := dst.Mask.Size()
	return ones == 0
}

// scheduleSupervisedClients discovers the container's namespace via the
// bounded retry in spec.md §4.5 and starts a supervised DHCP client for
// each address family the endpoint leased a one-shot address for.
// Failures are logged as warnings and never fail Join, which has already
// returned by the time this runs.
func (co *Coordinator) scheduleSupervisedClients(ep *endpoint, n *network, hostname string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	nsPath, err := co.reflect.ContainerNetNS(ctx, n.id, ep.id)
	if err != nil {
		logrus.WithError(err).Warnf("coordinator: supervised DHCP client for endpoint %s not started: container not visible", ep.id)
		return
	}

	ep.mu.Lock()
	wantV4 := ep.addr != nil
	wantV6 := ep.addrV6 != nil
	containerVeth := ep.containerVeth
	ep.mu.Unlock()

	if wantV4 {
		co.startSupervisor(ep, dhcp.V4, containerVeth, nsPath, hostname)
	}
	if wantV6 {
		co.startSupervisor(ep, dhcp.V6, containerVeth, nsPath, hostname)
	}
}

func (co *Coordinator) startSupervisor(ep *endpoint, family dhcp.Family, ifaceName, nsPath, hostname string) {
	client := dhcp.NewClient(dhcp.Config{
		Target:     dhcp.Target{Name: ifaceName, NetNSPath: nsPath},
		Family:     family,
		OneShot:    false,
		Hostname:   hostname,
		ClientPath: co.clientPath(family),
		ShimPath:   co.dhcpOpts.ShimPath,
		QueueDir:   co.dhcpOpts.QueueDir,
	})
	if err := client.Start(ep.id); err != nil {
		logrus.WithError(err).Warnf("coordinator: failed to start supervised %s client for endpoint %s", family, ep.id)
		return
	}

	ep.mu.Lock()
	if family == dhcp.V6 {
		ep.supervisorV6 = client
	} else {
		ep.supervisorV4 = client
	}
	ep.mu.Unlock()
}

// Leave stops and discards the supervisor(s) for an endpoint. It is
// idempotent; network teardown always succeeds.
func (co *Coordinator) Leave(ctx context.Context, networkID, endpointID string) error {
	n, err := co.getNetwork(networkID)
	if err != nil {
		return nil
	}
	ep, err := n.getEndpoint(endpointID)
	if err != nil {
		return nil
	}

	stopSupervisors(ctx, ep)
	ep.state = stateVethReady
	return nil
}

// stopSupervisors calls Finish on every supervisor an endpoint owns, if
// any, and clears them. Safe to call multiple times.
func stopSupervisors(ctx context.Context, ep *endpoint) {
	ep.mu.Lock()
	v4, v6 := ep.supervisorV4, ep.supervisorV6
	ep.supervisorV4, ep.supervisorV6 = nil, nil
	ep.mu.Unlock()

	for _, c := range []*dhcp.Client{v4, v6} {
		if c == nil {
			continue
		}
		if err := c.Finish(ctx); err != nil {
			logrus.WithError(err).Warnf("coordinator: error stopping DHCP supervisor for endpoint %s", ep.id)
		}
	}
}
