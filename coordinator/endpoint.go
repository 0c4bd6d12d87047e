package coordinator

import (
	"context"
	"net"
	"time"

	"github.com/docker/libnetwork/netutils"
	"github.com/docker/libnetwork/osl"
	"github.com/nategraf/docker-net-dhcp/dhcp"
	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
)

// EndpointRequest carries the engine's requested interface settings for
// CreateEndpoint; an unset field means "let the driver decide."
type EndpointRequest struct {
	MAC    net.HardwareAddr
	Addr   *net.IPNet
	AddrV6 *net.IPNet
}

// EndpointResult is what CreateEndpoint reports back to the engine.
type EndpointResult struct {
	MAC    net.HardwareAddr
	Addr   *net.IPNet
	AddrV6 *net.IPNet
}

// CreateEndpoint implements the ordered provisioning sequence of
// spec.md §4.3: veth creation, bridge attachment, and a one-shot DHCP
// lease for each enabled address family. Any failure after the veth pair
// is created triggers a full rollback.
func (co *Coordinator) CreateEndpoint(ctx context.Context, networkID, endpointID string, req EndpointRequest) (*EndpointResult, error) {
	n, err := co.getNetwork(networkID)
	if err != nil {
		return nil, err
	}

	n.mu.Lock()
	if _, exists := n.endpoints[endpointID]; exists {
		n.mu.Unlock()
		return nil, ErrEndpointExists(endpointID)
	}
	ep := &endpoint{id: endpointID, networkID: networkID, state: stateInit}
	n.endpoints[endpointID] = ep
	n.mu.Unlock()

	rollback := rollbackStack{}
	rollback.push(func() {
		n.mu.Lock()
		delete(n.endpoints, endpointID)
		n.mu.Unlock()
	})

	result, err := co.provisionEndpoint(ctx, n, ep, req, &rollback)
	if err != nil {
		rollback.run()
		return nil, err
	}
	return result, nil
}

func (co *Coordinator) provisionEndpoint(ctx context.Context, n *network, ep *endpoint, req EndpointRequest, rollback *rollbackStack) (*EndpointResult, error) {
	defer osl.InitOSContext()()

	hostName, containerName := vethNames(ep.id)
	ep.hostVeth = hostName
	ep.containerVeth = containerName

	veth := &netlink.Veth{
		LinkAttrs: netlink.LinkAttrs{Name: hostName},
		PeerName:  containerName,
	}
	if err := co.nlh.LinkAdd(veth); err != nil {
		return nil, err
	}
	rollback.push(func() {
		if link, err := co.nlh.LinkByName(hostName); err == nil {
			if err := co.nlh.LinkDel(link); err != nil {
				logrus.WithError(err).Warnf("coordinator: failed to delete host veth %s during rollback", hostName)
			}
		}
	})

	containerLink, err := co.waitForLink(containerName)
	if err != nil {
		return nil, ErrInterfaceTimeout(containerName)
	}

	hostLink, err := co.nlh.LinkByName(hostName)
	if err != nil {
		return nil, err
	}
	if err := co.nlh.LinkSetMaster(hostLink, &netlink.Bridge{LinkAttrs: netlink.LinkAttrs{Name: n.bridgeName}}); err != nil {
		return nil, err
	}

	result := &EndpointResult{}
	mac := req.MAC
	if mac == nil {
		mac = netutils.GenerateRandomMAC()
		result.MAC = mac
	}
	if err := co.nlh.LinkSetHardwareAddr(containerLink, mac); err != nil {
		return nil, err
	}
	ep.macAddress = mac

	if err := co.nlh.LinkSetUp(hostLink); err != nil {
		return nil, err
	}
	if err := co.nlh.LinkSetUp(containerLink); err != nil {
		return nil, err
	}

	if req.Addr != nil {
		return nil, &ErrStaticAddressUnsupported{}
	}
	lease, err := co.runOneShot(ctx, ep, dhcp.V4, containerName)
	if err != nil {
		return nil, err
	}
	ep.addr = lease.Address
	result.Addr = lease.Address
	if lease.Gateway != nil && !lease.Gateway.Equal(lease.Address.IP) {
		ep.gatewayHintV4 = lease.Gateway
	}

	if n.enableIPv6 {
		if req.AddrV6 != nil {
			return nil, &ErrStaticAddressUnsupported{}
		}
		leaseV6, err := co.runOneShot(ctx, ep, dhcp.V6, containerName)
		if err != nil {
			// IPv6 lease absence is tolerated per spec.md §4.3 step 6.
			logrus.WithError(err).Warnf("coordinator: no IPv6 lease for endpoint %s", ep.id)
		} else {
			ep.addrV6 = leaseV6.Address
			result.AddrV6 = leaseV6.Address
		}
	}

	ep.state = stateVethReady
	return result, nil
}

func (co *Coordinator) waitForLink(name string) (netlink.Link, error) {
	deadline := time.Now().Add(interfaceAppearTimeout)
	for {
		link, err := co.nlh.LinkByName(name)
		if err == nil {
			return link, nil
		}
		if time.Now().After(deadline) {
			return nil, err
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func (co *Coordinator) runOneShot(ctx context.Context, ep *endpoint, family dhcp.Family, ifaceName string) (dhcp.Lease, error) {
	client := dhcp.NewClient(dhcp.Config{
		Target:     dhcp.Target{Name: ifaceName, MAC: ep.macAddress},
		Family:     family,
		OneShot:    true,
		ClientPath: co.clientPath(family),
		ShimPath:   co.dhcpOpts.ShimPath,
		QueueDir:   co.dhcpOpts.QueueDir,
	})
	if err := client.Start(ep.id); err != nil {
		return dhcp.Lease{}, err
	}
	defer func() {
		finishCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = client.Finish(finishCtx)
	}()

	waitCtx, cancel := context.WithTimeout(ctx, leaseTimeout)
	defer cancel()

	lease, err := client.AwaitIP(waitCtx)
	if err != nil {
		return dhcp.Lease{}, ErrLeaseTimeout(ifaceName)
	}
	return lease, nil
}

func (co *Coordinator) clientPath(family dhcp.Family) string {
	if family == dhcp.V6 {
		return co.dhcpOpts.ClientPathV6
	}
	return co.dhcpOpts.ClientPathV4
}

// DeleteEndpoint tears down the veth pair and any supervisor for the
// endpoint. It is best-effort: an already-absent interface is not an
// error, per spec.md §7.
func (co *Coordinator) DeleteEndpoint(ctx context.Context, networkID, endpointID string) error {
	defer osl.InitOSContext()()

	n, err := co.getNetwork(networkID)
	if err != nil {
		return err
	}
	ep, err := n.getEndpoint(endpointID)
	if err != nil {
		return err
	}

	stopSupervisors(ctx, ep)

	if link, err := co.nlh.LinkByName(ep.hostVeth); err == nil {
		if err := co.nlh.LinkDel(link); err != nil {
			logrus.WithError(err).Warnf("coordinator: failed to delete host veth %s", ep.hostVeth)
		}
	}

	n.mu.Lock()
	delete(n.endpoints, endpointID)
	n.mu.Unlock()
	return nil
}

// EndpointOperInfo returns diagnostic data about an endpoint: its
// network's bridge, and the host-side veth name and MAC address.
func (co *Coordinator) EndpointOperInfo(networkID, endpointID string) (map[string]string, error) {
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
	defer ep.mu.Unlock()
	info := map[string]string{
		"bridge":   n.bridgeName,
		"hostVeth": ep.hostVeth,
	}
	if link, err := co.nlh.LinkByName(ep.hostVeth); err == nil && link.Attrs().HardwareAddr != nil {
		info["macAddress"] = link.Attrs().HardwareAddr.String()
	}
	return info, nil
}
