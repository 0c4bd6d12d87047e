// Package label declares the generic-options keys understood by the
// net-dhcp driver's CreateNetwork/Join requests.
package label

const (
	// BridgeName names the host bridge a network attaches to. Required.
	BridgeName = "bridge"

	// DockerBridgeName is the well-known key the engine itself uses for
	// the same purpose; accepted as an alias of BridgeName.
	DockerBridgeName = "com.docker.network.bridge.name"

	// EnableIPv6 turns on DHCPv6 leasing for endpoints on the network.
	// Accepted values are "", "true" and "false".
	EnableIPv6 = "ipv6"

	// Hostname optionally supplies a hostname to pass to the DHCP client
	// as DHCPv4 option 12 / the DHCPv6 FQDN option.
	Hostname = "net-dhcp.hostname"
)
