package status

import (
	"fmt"

	"github.com/joharei/netctl-tray/internal/probe"
)

const (
	TooltipAcquiring    = "Netctl"
	TooltipNoConnection = "No connection"
	TooltipWired        = "Wired connection"
	tooltipWireless     = "Wireless connection.\nSignal strength: %.1f %%"
)

// Lower bounds of the wireless tiers, checked top-down. Quality below the last
// one falls back to CarrierDown.
var tiers = []struct {
	min    float64
	status Status
}{
	{90, WirelessExcellent},
	{70, WirelessGood},
	{50, WirelessOk},
	{30, WirelessWeak},
	{10, WirelessNone},
}

// Result is the classification of one Fact.
type Result struct {
	Status  Status  `json:"status"`
	Quality float64 `json:"quality"`
	Tooltip string  `json:"tooltip"`
}

// Classify maps a fact to exactly one status. It is pure: the same fact always
// yields the same result.
func Classify(f probe.Fact) Result {
	if !f.HasRoute() {
		return Result{Status: NoDefaultRoute, Tooltip: TooltipNoConnection}
	}
	if !f.CarrierUp {
		return Result{Status: CarrierDown, Tooltip: TooltipNoConnection}
	}
	if f.Medium != probe.Wireless {
		return Result{Status: WiredConnected, Tooltip: TooltipWired}
	}

	q := 0.0
	if f.HasQuality {
		q = f.Quality
	}
	// A wireless link too weak for any tier keeps the signal tooltip but
	// shows the disconnected icon.
	res := Result{Status: CarrierDown, Quality: q, Tooltip: WirelessTooltip(q)}
	for _, t := range tiers {
		if q >= t.min {
			res.Status = t.status
			break
		}
	}
	return res
}

// WirelessTooltip formats the tooltip of a wireless connection.
func WirelessTooltip(quality float64) string {
	return fmt.Sprintf(tooltipWireless, quality)
}
