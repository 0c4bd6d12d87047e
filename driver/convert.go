package driver

import (
	"fmt"
	"net"

	"github.com/docker/go-plugins-helpers/network"
	"github.com/nategraf/docker-net-dhcp/coordinator"
)

// stringOptions narrows the engine's generic options bag down to the
// string-valued keys this driver understands (spec.md §6).
func stringOptions(options map[string]interface{}) map[string]string {
	out := make(map[string]string, len(options))
	for k, v := range options {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func convertIPAMSlice(in []*network.IPAMData) []coordinator.IPAMPool {
	out := make([]coordinator.IPAMPool, 0, len(in))
	for _, d := range in {
		if d == nil {
			continue
		}
		out = append(out, coordinator.IPAMPool{AddressSpace: d.AddressSpace, Pool: d.Pool})
	}
	return out
}

func parseEndpointInterface(in *network.EndpointInterface) (coordinator.EndpointRequest, error) {
	var out coordinator.EndpointRequest
	if in == nil {
		return out, nil
	}

	var err error
	if in.MacAddress != "" {
		if out.MAC, err = net.ParseMAC(in.MacAddress); err != nil {
			return out, fmt.Errorf("bad MAC address: %w", err)
		}
	}
	if in.Address != "" {
		ip, ipnet, err := net.ParseCIDR(in.Address)
		if err != nil {
			return out, fmt.Errorf("bad IPv4 address: %w", err)
		}
		ipnet.IP = ip
		out.Addr = ipnet
	}
	if in.AddressIPv6 != "" {
		ip, ipnet, err := net.ParseCIDR(in.AddressIPv6)
		if err != nil {
			return out, fmt.Errorf("bad IPv6 address: %w", err)
		}
		ipnet.IP = ip
		out.AddrV6 = ipnet
	}
	return out, nil
}

func marshalEndpointResult(r *coordinator.EndpointResult) *network.EndpointInterface {
	out := &network.EndpointInterface{}
	if r.MAC != nil {
		out.MacAddress = r.MAC.String()
	}
	if r.Addr != nil {
		out.Address = r.Addr.String()
	}
	if r.AddrV6 != nil {
		out.AddressIPv6 = r.AddrV6.String()
	}
	return out
}

func marshalJoinResult(r *coordinator.JoinResult) *network.JoinResponse {
	out := &network.JoinResponse{
		InterfaceName: network.InterfaceName{
			SrcName:   r.SrcName,
			DstPrefix: r.DstPrefix,
		},
		DisableGatewayService: true,
	}
	if r.GatewayV4 != nil {
		out.Gateway = r.GatewayV4.String()
	}
	if r.GatewayV6 != nil {
		out.GatewayIPv6 = r.GatewayV6.String()
	}
	for _, route := range r.StaticRoutes {
		out.StaticRoutes = append(out.StaticRoutes, &network.StaticRoute{
			Destination: route.Destination.String(),
			RouteType:   route.RouteType,
			NextHop:     nextHopString(route.NextHop),
		})
	}
	return out
}

func nextHopString(ip net.IP) string {
	if ip == nil {
		return ""
	}
	return ip.String()
}
