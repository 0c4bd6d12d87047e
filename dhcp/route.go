package dhcp

import (
	"fmt"
	"net"
	"time"

	"github.com/vishvananda/netlink"
)

// replaceDefaultRouteTimeout bounds how long a supervised RENEW's
// default-route maintenance is allowed to take, per spec.md §5.
const replaceDefaultRouteTimeout = 1 * time.Second

// replaceDefaultRoute installs gateway as the default route for the
// gateway's address family on the interface named ifaceName, inside the namespace
// at nsPath. Failures here are best-effort per spec.md §4.4 and are
// reported to the caller to log, not to fail the supervised client.
func replaceDefaultRoute(nsPath, ifaceName string, gateway net.IP) error {
	done := make(chan error, 1)
	go func() {
		done <- withNetNS(nsPath, func() error {
			link, err := netlink.LinkByName(ifaceName)
			if err != nil {
				return fmt.Errorf("failed to find interface %s: %w", ifaceName, err)
			}

			family := netlink.FAMILY_V4
			dst := &net.IPNet{IP: net.IPv4zero, Mask: net.CIDRMask(0, 32)}
			if gateway.To4() == nil {
				family = netlink.FAMILY_V6
				dst = &net.IPNet{IP: net.IPv6zero, Mask: net.CIDRMask(0, 128)}
			}

			route := &netlink.Route{
				LinkIndex: link.Attrs().Index,
				Dst:       dst,
				Gw:        gateway,
				Family:    family,
			}
			if err := netlink.RouteReplace(route); err != nil {
				return fmt.Errorf("failed to replace default route via %s on %s: %w", gateway, ifaceName, err)
			}
			return nil
		})
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(replaceDefaultRouteTimeout):
		return fmt.Errorf("timed out replacing default route via %s on %s", gateway, ifaceName)
	}
}
