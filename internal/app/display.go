package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/joharei/netctl-tray/internal/probe"
	"github.com/joharei/netctl-tray/internal/status"
)

// Snapshot is a UI-friendly view of one poll cycle.
type Snapshot struct {
	Status     status.Status `json:"status"`
	Icon       string        `json:"icon"`
	Tooltip    string        `json:"tooltip"`
	Interface  string        `json:"interface"`
	Medium     string        `json:"medium"`
	Quality    float64       `json:"quality"`
	HasQuality bool          `json:"has_quality"`
	Profiles   []string      `json:"profiles"`
	Addrs      []string      `json:"addrs"`
	SendKBs    string        `json:"send_kbs"`
	RecvKBs    string        `json:"recv_kbs"`
	Updated    string        `json:"updated"`
	Version    string        `json:"version"`
}

// Description is a one-line summary of the interface and active profiles,
// e.g. "wlp3s0 (home-wifi)".
func (s Snapshot) Description() string {
	if s.Interface == "" {
		return ""
	}
	if len(s.Profiles) == 0 {
		return s.Interface
	}
	return fmt.Sprintf("%s (%s)", s.Interface, strings.Join(s.Profiles, ", "))
}

// Display receives a snapshot after every successful poll cycle.
type Display interface {
	SetDisplay(Snapshot)
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(Snapshot)

func (f DisplayFunc) SetDisplay(s Snapshot) {
	f(s)
}

type multiDisplay []Display

func (m multiDisplay) SetDisplay(s Snapshot) {
	for _, d := range m {
		d.SetDisplay(s)
	}
}

// Multi fans a snapshot out to every non-nil display in order.
func Multi(displays ...Display) Display {
	out := make(multiDisplay, 0, len(displays))
	for _, d := range displays {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

func acquiringSnapshot(version string, symbolic bool, now time.Time) Snapshot {
	return Snapshot{
		Status:  status.Acquiring,
		Icon:    status.Acquiring.Icon(symbolic),
		Tooltip: status.TooltipAcquiring,
		Updated: now.Format("2006-01-02 15:04:05"),
		Version: version,
	}
}

func buildSnapshot(version string, symbolic bool, f probe.Fact, res status.Result, now time.Time) Snapshot {
	return Snapshot{
		Status:     res.Status,
		Icon:       res.Status.Icon(symbolic),
		Tooltip:    res.Tooltip,
		Interface:  f.Interface,
		Medium:     string(f.Medium),
		Quality:    res.Quality,
		HasQuality: f.HasQuality,
		SendKBs:    "0",
		RecvKBs:    "0",
		Updated:    now.Format("2006-01-02 15:04:05"),
		Version:    version,
	}
}

func formatRate(v float64) string {
	if v <= 0 {
		return "0"
	}
	if v >= 1024 {
		v = v / 1024.0
		if v < 10 {
			return fmt.Sprintf("%.1fM", v)
		}
		return fmt.Sprintf("%.0fM", v)
	}
	return fmt.Sprintf("%.0f", v)
}
