// Package probe reads the state of the network interface that carries the
// default route.
//
// Every value comes from an external source: the routing table (through the
// configured route command or netlink), sysfs under /sys/class/net, and the
// output of the wireless status tool. Probes are read-only, never retry, and
// bound each external call with the configured timeout. A failed call is
// reported as an *ExecutionError when the source could not be queried and as
// a *ParseError when it answered with something we cannot read.
//
// Callers normally go through Gather, which performs the calls in the order
// a poll cycle needs them and stops at the first failure.
package probe

import (
	"context"
)

// Medium is the link type of an interface.
type Medium string

const (
	Wired    Medium = "wired"
	Wireless Medium = "wireless"
)

// Probe is the set of queries a poll cycle needs.
type Probe interface {
	// DefaultInterface returns the interface named by the first default route.
	// ok is false when there is no default route.
	DefaultInterface(ctx context.Context) (iface string, ok bool, err error)
	// CarrierUp reports whether iface has link.
	CarrierUp(ctx context.Context, iface string) (bool, error)
	// InterfaceType reports the medium of iface.
	InterfaceType(ctx context.Context, iface string) (Medium, error)
	// SignalQuality returns the current wireless link quality as a percentage
	// of its maximum. ok is false when the tool reports no quality line.
	SignalQuality(ctx context.Context) (quality float64, ok bool, err error)
}

// Fact is what one poll cycle learned about the default route.
type Fact struct {
	Interface  string  `json:"interface"`
	CarrierUp  bool    `json:"carrier_up"`
	Medium     Medium  `json:"medium"`
	Quality    float64 `json:"quality"`
	HasQuality bool    `json:"has_quality"`
}

// HasRoute reports whether a default route was found.
func (f Fact) HasRoute() bool {
	return f.Interface != ""
}

// Gather queries p in cycle order. CarrierUp and InterfaceType are only asked
// when a default route exists, SignalQuality only for wireless interfaces.
// The first error aborts the cycle and is returned as is.
func Gather(ctx context.Context, p Probe) (Fact, error) {
	var f Fact

	iface, ok, err := p.DefaultInterface(ctx)
	if err != nil {
		return Fact{}, err
	}
	if !ok || iface == "" {
		return f, nil
	}
	f.Interface = iface

	up, err := p.CarrierUp(ctx, iface)
	if err != nil {
		return Fact{}, err
	}
	f.CarrierUp = up

	medium, err := p.InterfaceType(ctx, iface)
	if err != nil {
		return Fact{}, err
	}
	f.Medium = medium
	if medium != Wireless {
		return f, nil
	}

	q, ok, err := p.SignalQuality(ctx)
	if err != nil {
		return Fact{}, err
	}
	if ok {
		f.Quality = q
		f.HasQuality = true
	}
	return f, nil
}
