package status

// Status represents the connection state we display for the default route.
type Status string

const (
	// Acquiring is shown before the first successful poll. Classify never returns it.
	Acquiring Status = "acquiring"

	NoDefaultRoute    Status = "no-default-route"
	CarrierDown       Status = "carrier-down"
	WiredConnected    Status = "wired"
	WirelessExcellent Status = "wireless-excellent"
	WirelessGood      Status = "wireless-good"
	WirelessOk        Status = "wireless-ok"
	WirelessWeak      Status = "wireless-weak"
	WirelessNone      Status = "wireless-none"
)

// All lists every status Classify can produce, in cascade order.
var All = []Status{
	NoDefaultRoute,
	CarrierDown,
	WiredConnected,
	WirelessExcellent,
	WirelessGood,
	WirelessOk,
	WirelessWeak,
	WirelessNone,
}

// Icon returns the freedesktop icon theme name for a status.
// With symbolic set the "-symbolic" variant is returned.
func (s Status) Icon(symbolic bool) string {
	var name string
	switch s {
	case Acquiring:
		name = "network-wired-acquiring"
	case WiredConnected:
		name = "network-wired"
	case WirelessExcellent:
		name = "network-wireless-signal-excellent"
	case WirelessGood:
		name = "network-wireless-signal-good"
	case WirelessOk:
		name = "network-wireless-signal-ok"
	case WirelessWeak:
		name = "network-wireless-signal-weak"
	case WirelessNone:
		name = "network-wireless-signal-none"
	default:
		name = "network-wired-disconnected"
	}
	if symbolic {
		return name + "-symbolic"
	}
	return name
}

// Wireless reports whether s is one of the signal tiers.
func (s Status) Wireless() bool {
	switch s {
	case WirelessExcellent, WirelessGood, WirelessOk, WirelessWeak, WirelessNone:
		return true
	}
	return false
}

// Connected reports whether traffic can flow over the default route.
func (s Status) Connected() bool {
	return s == WiredConnected || s.Wireless()
}

func (s Status) String() string {
	return string(s)
}
