//go:build linux
// +build linux

package probe

import (
	"context"

	"github.com/vishvananda/netlink"
)

// netlinkDefaultInterface finds the first IPv4 default route with a gateway in
// the main routing table and returns the name of its link.
func netlinkDefaultInterface(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, &ExecutionError{Op: "default interface", Source: "netlink", Err: err}
	}

	routes, err := netlink.RouteList(nil, netlink.FAMILY_V4)
	if err != nil {
		return "", false, &ExecutionError{Op: "default interface", Source: "netlink", Err: err}
	}
	for _, route := range routes {
		if route.Gw == nil || !isDefaultDst(route) {
			continue
		}
		link, err := netlink.LinkByIndex(route.LinkIndex)
		if err != nil {
			return "", false, &ExecutionError{Op: "default interface", Source: "netlink", Err: err}
		}
		return link.Attrs().Name, true, nil
	}
	return "", false, nil
}

// Older kernels and library versions report the default destination as nil,
// newer ones as 0.0.0.0/0.
func isDefaultDst(route netlink.Route) bool {
	if route.Dst == nil {
		return true
	}
	ones, _ := route.Dst.Mask.Size()
	return ones == 0
}
