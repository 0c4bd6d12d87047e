// Package engine is a thin, read-only facade over the container engine's
// API. It exists because the endpoint coordinator is not allowed to make
// these calls from inside a Join handler (the engine holds a per-endpoint
// lock across that RPC) -- see the coordinator package for how callers
// defer to a supervisor goroutine instead.
package engine

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
	dockerclient "github.com/docker/docker/client"
	"github.com/sirupsen/logrus"
)

const (
	// containerPollInterval is how often ContainerNetNS retries while
	// waiting for a container to become visible to the engine.
	containerPollInterval = 500 * time.Millisecond

	// containerPollTimeout bounds the total time ContainerNetNS will
	// spend retrying.
	containerPollTimeout = 5 * time.Second
)

// Reflector is the read-only view of the engine the coordinator needs.
type Reflector interface {
	// ReservedSubnets returns every IPv4/IPv6 subnet claimed by a network
	// not managed by this driver, for the bridge eligibility check.
	ReservedSubnets(ctx context.Context, driverName string) ([]*net.IPNet, error)

	// ContainerNetNS polls the engine until it can resolve the network
	// namespace path for the container owning endpointID on network
	// networkID, or the bounded retry in §4.5 expires.
	ContainerNetNS(ctx context.Context, networkID, endpointID string) (string, error)

	// ContainerHostname returns the hostname configured for the
	// container identified by containerID.
	ContainerHostname(ctx context.Context, containerID string) (string, error)

	// Close releases the underlying engine client.
	Close() error
}

// Client is a Reflector backed by the real docker engine API.
type Client struct {
	api dockerclient.APIClient
}

// NewClient dials the engine the same way the host's docker CLI would,
// negotiating the API version once at startup.
func NewClient() (*Client, error) {
	api, err := dockerclient.NewClientWithOpts(dockerclient.FromEnv, dockerclient.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create engine client: %w", err)
	}
	return &Client{api: api}, nil
}

// Close releases the underlying engine client. Unlike the original
// Python implementation, this client is safe to keep for the life of the
// process and never needs to be recreated to avoid leaking sockets.
func (c *Client) Close() error {
	return c.api.Close()
}

// ReservedSubnets lists every network the engine knows about that is not
// managed by driverName and returns the union of their configured
// IPv4/IPv6 subnets.
func (c *Client) ReservedSubnets(ctx context.Context, driverName string) ([]*net.IPNet, error) {
	nets, err := c.api.NetworkList(ctx, types.NetworkListOptions{Filters: filters.NewArgs()})
	if err != nil {
		return nil, fmt.Errorf("failed to list networks: %w", err)
	}

	var subnets []*net.IPNet
	for _, n := range nets {
		if n.Driver == driverName {
			continue
		}
		for _, cfg := range n.IPAM.Config {
			if cfg.Subnet == "" {
				continue
			}
			_, ipnet, err := net.ParseCIDR(cfg.Subnet)
			if err != nil {
				logrus.WithError(err).Warnf("engine reported unparseable subnet %q on network %s", cfg.Subnet, n.ID)
				continue
			}
			subnets = append(subnets, ipnet)
		}
	}
	return subnets, nil
}

// ContainerNetNS resolves the namespace path of the container attached to
// the given endpoint, retrying for up to containerPollTimeout because the
// container can still be becoming visible to the engine concurrently with
// the supervised DHCP client startup (spec §4.5).
func (c *Client) ContainerNetNS(ctx context.Context, networkID, endpointID string) (string, error) {
	deadline := time.Now().Add(containerPollTimeout)
	for {
		containerID, err := c.findEndpointContainer(ctx, networkID, endpointID)
		if err == nil {
			inspect, err := c.api.ContainerInspect(ctx, containerID)
			if err != nil {
				return "", fmt.Errorf("failed to inspect container %s: %w", containerID, err)
			}
			if inspect.State != nil && inspect.State.Pid > 0 {
				return fmt.Sprintf("/proc/%d/ns/net", inspect.State.Pid), nil
			}
		}

		if time.Now().After(deadline) {
			return "", fmt.Errorf("%w", errContainerNotVisible(endpointID))
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(containerPollInterval):
		}
	}
}

// ContainerHostname returns the container's configured hostname.
func (c *Client) ContainerHostname(ctx context.Context, containerID string) (string, error) {
	inspect, err := c.api.ContainerInspect(ctx, containerID)
	if err != nil {
		return "", fmt.Errorf("failed to inspect container %s: %w", containerID, err)
	}
	if inspect.Config == nil {
		return "", nil
	}
	return inspect.Config.Hostname, nil
}

// findEndpointContainer inspects networkID and returns the container id
// attached through endpointID, if the engine has recorded one yet.
func (c *Client) findEndpointContainer(ctx context.Context, networkID, endpointID string) (string, error) {
	nw, err := c.api.NetworkInspect(ctx, networkID, types.NetworkInspectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to inspect network %s: %w", networkID, err)
	}
	for containerID, ep := range nw.Containers {
		if ep.EndpointID == endpointID {
			return containerID, nil
		}
	}
	return "", fmt.Errorf("endpoint %s not yet attached in network %s", endpointID, networkID)
}

type errContainerNotVisible string

func (e errContainerNotVisible) Error() string {
	return fmt.Sprintf("container for endpoint %s did not become visible within the retry window", string(e))
}
