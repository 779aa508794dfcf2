package probe

import (
	"context"
	"fmt"
	"sync"
	"time"

	gnet "github.com/shirou/gopsutil/v3/net"
)

// Details is supplementary information about an interface. It is shown next
// to the status but never influences it.
type Details struct {
	Name      string   `json:"name"`
	MAC       string   `json:"mac"`
	MTU       int      `json:"mtu"`
	Flags     []string `json:"flags"`
	Addrs     []string `json:"addrs"`
	BytesSent uint64   `json:"bytes_sent"`
	BytesRecv uint64   `json:"bytes_recv"`
	// Throughput since the previous call, in KB/s. Zero on the first call.
	SendKBs float64 `json:"send_kbs"`
	RecvKBs float64 `json:"recv_kbs"`
}

// Details looks up addresses and traffic counters of iface.
func (s *System) Details(ctx context.Context, iface string) (Details, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	ifaces, err := gnet.InterfacesWithContext(ctx)
	if err != nil {
		return Details{}, &ExecutionError{Op: "details", Source: "interfaces", Err: err}
	}
	d := Details{Name: iface}
	found := false
	for _, it := range ifaces {
		if it.Name != iface {
			continue
		}
		found = true
		d.MAC = it.HardwareAddr
		d.MTU = it.MTU
		d.Flags = it.Flags
		for _, a := range it.Addrs {
			d.Addrs = append(d.Addrs, a.Addr)
		}
		break
	}
	if !found {
		return Details{}, &ExecutionError{Op: "details", Source: "interfaces", Err: fmt.Errorf("interface %q not found", iface)}
	}

	counters, err := gnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return d, &ExecutionError{Op: "details", Source: "io counters", Err: err}
	}
	for _, c := range counters {
		if c.Name != iface {
			continue
		}
		d.BytesSent = c.BytesSent
		d.BytesRecv = c.BytesRecv
		d.SendKBs, d.RecvKBs = s.traffic.rate(iface, time.Now(), c.BytesSent, c.BytesRecv)
		break
	}
	return d, nil
}

type trafficSample struct {
	at   time.Time
	sent uint64
	recv uint64
}

type trafficSampler struct {
	mu      sync.Mutex
	samples map[string]trafficSample
}

func newTrafficSampler() *trafficSampler {
	return &trafficSampler{samples: make(map[string]trafficSample)}
}

// rate returns send and receive throughput in KB/s relative to the previous
// sample of iface.
func (t *trafficSampler) rate(iface string, now time.Time, sent, recv uint64) (float64, float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, ok := t.samples[iface]
	t.samples[iface] = trafficSample{at: now, sent: sent, recv: recv}
	if !ok {
		return 0, 0
	}
	dt := now.Sub(prev.at).Seconds()
	if dt <= 0 {
		return 0, 0
	}
	return kbPerSecond(prev.sent, sent, dt), kbPerSecond(prev.recv, recv, dt)
}

func kbPerSecond(prev, cur uint64, dt float64) float64 {
	// Counters reset when the interface is recreated.
	if cur <= prev {
		return 0
	}
	return (float64(cur-prev) / 1024.0) / dt
}
