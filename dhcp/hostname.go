package dhcp

import "fmt"

// dhcpv4HostnameArg builds the "-x" option argument udhcpc expects for
// DHCPv4 option 12 (hostname).
func dhcpv4HostnameArg(hostname string) string {
	return fmt.Sprintf("hostname:%s", hostname)
}

// dhcpv6FQDNOption encodes the DHCPv6 FQDN option (code 39, RFC 4704)
// with the S bit set (client asks the server to perform the forward DNS
// update) and each dot-separated label of the hostname length-prefixed,
// followed by the root label terminator, bypassing udhcpc6's
// built-in FQDN encoding, which spec.md §4.4 notes is broken upstream.
func dhcpv6FQDNOption(hostname string) []byte {
	const sBit = 0x01

	labels := splitLabels(hostname)
	buf := make([]byte, 0, 1+len(hostname)+len(labels)+1)
	buf = append(buf, sBit)
	for _, label := range labels {
		buf = append(buf, byte(len(label)))
		buf = append(buf, []byte(label)...)
	}
	buf = append(buf, 0) // root label terminator
	return buf
}

// splitLabels splits a dotted hostname into its DNS labels, dropping any
// empty labels produced by a leading/trailing dot.
func splitLabels(hostname string) []string {
	var labels []string
	start := 0
	for i := 0; i <= len(hostname); i++ {
		if i == len(hostname) || hostname[i] == '.' {
			if i > start {
				labels = append(labels, hostname[start:i])
			}
			start = i + 1
		}
	}
	return labels
}
