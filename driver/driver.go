// Package driver implements the container engine's network-driver remote
// API: JSON-over-HTTP on a Unix socket, dispatching each RPC to the
// endpoint coordinator and rendering the result in the engine's expected
// shapes.
package driver

import (
	"context"

	"github.com/docker/go-plugins-helpers/network"
	"github.com/docker/libnetwork/types"
	"github.com/nategraf/docker-net-dhcp/coordinator"
	"github.com/nategraf/docker-net-dhcp/label"
)

// Driver adapts a *coordinator.Coordinator to the go-plugins-helpers
// network.Driver interface.
type Driver struct {
	co *coordinator.Coordinator
}

// New wraps a coordinator as a network.Driver.
func New(co *coordinator.Coordinator) *Driver {
	return &Driver{co: co}
}

var capabilities = &network.CapabilitiesResponse{
	Scope:             network.LocalScope,
	ConnectivityScope: network.LocalScope,
}

func (d *Driver) GetCapabilities() (res *network.CapabilitiesResponse, err error) {
	defer func() { logRequest("GetCapabilities", nil, res, err) }()
	return capabilities, nil
}

func (d *Driver) CreateNetwork(req *network.CreateNetworkRequest) (err error) {
	defer func() { logRequest("CreateNetwork", req, nil, err) }()

	opts := stringOptions(req.Options)
	ipv4 := convertIPAMSlice(req.IPv4Data)
	ipv6 := convertIPAMSlice(req.IPv6Data)

	return d.co.CreateNetwork(context.Background(), req.NetworkID, opts, ipv4, ipv6)
}

func (d *Driver) AllocateNetwork(req *network.AllocateNetworkRequest) (res *network.AllocateNetworkResponse, err error) {
	defer func() { logRequest("AllocateNetwork", req, res, err) }()
	return nil, types.NotImplementedErrorf("not implemented")
}

func (d *Driver) DeleteNetwork(req *network.DeleteNetworkRequest) (err error) {
	defer func() { logRequest("DeleteNetwork", req, nil, err) }()
	return d.co.DeleteNetwork(req.NetworkID)
}

func (d *Driver) FreeNetwork(req *network.FreeNetworkRequest) (err error) {
	defer func() { logRequest("FreeNetwork", req, nil, err) }()
	return types.NotImplementedErrorf("not implemented")
}

func (d *Driver) CreateEndpoint(req *network.CreateEndpointRequest) (res *network.CreateEndpointResponse, err error) {
	defer func() { logRequest("CreateEndpoint", req, res, err) }()

	epReq, err := parseEndpointInterface(req.Interface)
	if err != nil {
		return nil, types.BadRequestErrorf("invalid endpoint info: %v", err)
	}

	result, err := d.co.CreateEndpoint(context.Background(), req.NetworkID, req.EndpointID, epReq)
	if err != nil {
		return nil, err
	}
	return &network.CreateEndpointResponse{Interface: marshalEndpointResult(result)}, nil
}

func (d *Driver) DeleteEndpoint(req *network.DeleteEndpointRequest) (err error) {
	defer func() { logRequest("DeleteEndpoint", req, nil, err) }()
	return d.co.DeleteEndpoint(context.Background(), req.NetworkID, req.EndpointID)
}

func (d *Driver) EndpointInfo(req *network.InfoRequest) (res *network.InfoResponse, err error) {
	defer func() { logRequest("EndpointInfo", req, res, err) }()
	info, err := d.co.EndpointOperInfo(req.NetworkID, req.EndpointID)
	if err != nil {
		return nil, err
	}
	return &network.InfoResponse{Value: info}, nil
}

func (d *Driver) Join(req *network.JoinRequest) (res *network.JoinResponse, err error) {
	defer func() { logRequest("Join", req, res, err) }()

	hostname, _ := req.Options[label.Hostname].(string)
	result, err := d.co.Join(context.Background(), req.NetworkID, req.EndpointID, req.SandboxKey, hostname)
	if err != nil {
		return nil, err
	}
	return marshalJoinResult(result), nil
}

func (d *Driver) Leave(req *network.LeaveRequest) (err error) {
	defer func() { logRequest("Leave", req, nil, err) }()
	return d.co.Leave(context.Background(), req.NetworkID, req.EndpointID)
}

func (d *Driver) DiscoverNew(notif *network.DiscoveryNotification) (err error) {
	defer func() { logRequest("DiscoverNew", notif, nil, err) }()
	return nil
}

func (d *Driver) DiscoverDelete(notif *network.DiscoveryNotification) (err error) {
	defer func() { logRequest("DiscoverDelete", notif, nil, err) }()
	return nil
}

func (d *Driver) ProgramExternalConnectivity(req *network.ProgramExternalConnectivityRequest) (err error) {
	defer func() { logRequest("ProgramExternalConnectivity", req, nil, err) }()
	return types.NotImplementedErrorf("not implemented")
}

func (d *Driver) RevokeExternalConnectivity(req *network.RevokeExternalConnectivityRequest) (err error) {
	defer func() { logRequest("RevokeExternalConnectivity", req, nil, err) }()
	return types.NotImplementedErrorf("not implemented")
}
