package coordinator

import (
	"context"
	"net"

	"github.com/docker/libnetwork/netlabel"
	"github.com/nategraf/docker-net-dhcp/label"
	"github.com/vishvananda/netlink"
)

// IPAMPool is the minimal view of an engine IPAMData entry the null-IPAM
// contract check needs (spec.md §4.2).
type IPAMPool struct {
	AddressSpace string
	Pool         string
}

// bridgeSubnets reads every IPv4/IPv6 address configured on link and
// returns their containing subnets, used by CreateNetwork's eligibility
// check (spec.md §4.2).
func (co *Coordinator) bridgeSubnets(link netlink.Link) ([]*net.IPNet, error) {
	var subnets []*net.IPNet
	for _, family := range []int{netlink.FAMILY_V4, netlink.FAMILY_V6} {
		addrs, err := co.nlh.AddrList(link, family)
		if err != nil {
			return nil, err
		}
		for _, a := range addrs {
			subnets = append(subnets, &net.IPNet{IP: a.IPNet.IP.Mask(a.IPNet.Mask), Mask: a.IPNet.Mask})
		}
	}
	return subnets, nil
}

func anyIntersects(a, b []*net.IPNet) bool {
	for _, x := range a {
		for _, y := range b {
			if netsIntersect(x, y) {
				return true
			}
		}
	}
	return false
}

func netsIntersect(a, b *net.IPNet) bool {
	return a.Contains(b.IP) || b.Contains(a.IP)
}

// validateIPAM enforces the null-IPAM contract described in spec.md §4.2
// and exercised by scenario S6: the engine must declare AddressSpace
// "null" and pool "0.0.0.0/0" (or offer no pool at all).
func validateIPAM(pools []IPAMPool) error {
	for _, p := range pools {
		if p.Pool == "" {
			continue
		}
		if p.AddressSpace != "null" || p.Pool != "0.0.0.0/0" {
			return &ErrNotNullIPAM{}
		}
	}
	return nil
}

// parseIPv6Option parses the tri-state ipv6 option value from spec.md §6:
// absent, "true" or "false".
func parseIPv6Option(raw string) (bool, error) {
	switch raw {
	case "", "false":
		return false, nil
	case "true":
		return true, nil
	}
	return false, &ErrInvalidIPv6Option{}
}

// CreateNetwork validates options and IPAM data, confirms the named
// bridge is eligible, and registers the network.
func (co *Coordinator) CreateNetwork(ctx context.Context, id string, options map[string]string, ipamV4, ipamV6 []IPAMPool) error {
	if err := validateIPAM(ipamV4); err != nil {
		return err
	}
	if err := validateIPAM(ipamV6); err != nil {
		return err
	}

	bridgeName := options[label.BridgeName]
	if bridgeName == "" {
		bridgeName = options[label.DockerBridgeName]
	}
	if bridgeName == "" {
		return &ErrInvalidDriverConfig{}
	}

	ipv6Opt := options[label.EnableIPv6]
	if ipv6Opt == "" {
		ipv6Opt = options[netlabel.EnableIPv6]
	}
	enableIPv6, err := parseIPv6Option(ipv6Opt)
	if err != nil {
		return err
	}

	link, err := co.nlh.LinkByName(bridgeName)
	if err != nil {
		return ErrBridgeNotFound(bridgeName)
	}
	if _, ok := link.(*netlink.Bridge); !ok {
		return ErrBridgeNotFound(bridgeName)
	}

	subnets, err := co.bridgeSubnets(link)
	if err != nil {
		return err
	}
	reserved, err := co.reflect.ReservedSubnets(ctx, DriverName)
	if err != nil {
		return err
	}
	if anyIntersects(subnets, reserved) {
		return ErrBridgeNotEligible(bridgeName)
	}

	co.mu.Lock()
	defer co.mu.Unlock()
	if _, exists := co.networks[id]; exists {
		return nil
	}
	co.networks[id] = &network{
		id:         id,
		bridgeName: bridgeName,
		enableIPv6: enableIPv6,
		endpoints:  make(map[string]*endpoint),
	}
	return nil
}

// DeleteNetwork removes the network record. It is idempotent.
func (co *Coordinator) DeleteNetwork(id string) error {
	co.mu.Lock()
	defer co.mu.Unlock()
	delete(co.networks, id)
	return nil
}
