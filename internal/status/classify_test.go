package status

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joharei/netctl-tray/internal/probe"
)

func wireless(q float64) probe.Fact {
	return probe.Fact{Interface: "wlp3s0", CarrierUp: true, Medium: probe.Wireless, Quality: q, HasQuality: true}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		fact probe.Fact
		want Status
	}{
		{"no route", probe.Fact{}, NoDefaultRoute},
		{"no route ignores other fields", probe.Fact{CarrierUp: true, Medium: probe.Wireless, Quality: 99, HasQuality: true}, NoDefaultRoute},
		{"carrier down wired", probe.Fact{Interface: "eth0", Medium: probe.Wired}, CarrierDown},
		{"carrier down wireless", probe.Fact{Interface: "wlan0", Medium: probe.Wireless, Quality: 95, HasQuality: true}, CarrierDown},
		{"wired", probe.Fact{Interface: "eth0", CarrierUp: true, Medium: probe.Wired}, WiredConnected},
		{"wireless 100", wireless(100), WirelessExcellent},
		{"wireless 95", wireless(95), WirelessExcellent},
		{"wireless 90", wireless(90), WirelessExcellent},
		{"wireless 89.9", wireless(89.9), WirelessGood},
		{"wireless 70", wireless(70), WirelessGood},
		{"wireless 69.9", wireless(69.9), WirelessOk},
		{"wireless 50", wireless(50), WirelessOk},
		{"wireless 30", wireless(30), WirelessWeak},
		{"wireless 29.99", wireless(29.99), WirelessNone},
		{"wireless 10", wireless(10), WirelessNone},
		{"wireless 9.9", wireless(9.9), CarrierDown},
		{"wireless 0", wireless(0), CarrierDown},
		{"wireless without quality", probe.Fact{Interface: "wlan0", CarrierUp: true, Medium: probe.Wireless}, CarrierDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.fact).Status)
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	f := wireless(72.5)
	first := Classify(f)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(f))
	}
}

func TestClassifyNeverReturnsAcquiring(t *testing.T) {
	facts := []probe.Fact{
		{},
		{Interface: "eth0"},
		{Interface: "eth0", CarrierUp: true, Medium: probe.Wired},
		wireless(0), wireless(10), wireless(30), wireless(50), wireless(70), wireless(90),
	}
	for _, f := range facts {
		got := Classify(f).Status
		assert.NotEqual(t, Acquiring, got)
		assert.Contains(t, All, got)
	}
}

func TestClassifyTooltips(t *testing.T) {
	assert.Equal(t, "No connection", Classify(probe.Fact{}).Tooltip)
	assert.Equal(t, "No connection", Classify(probe.Fact{Interface: "eth0"}).Tooltip)
	assert.Equal(t, "Wired connection", Classify(probe.Fact{Interface: "eth0", CarrierUp: true}).Tooltip)
	assert.Equal(t, "Wireless connection.\nSignal strength: 71.4 %", Classify(wireless(100.0*50/70)).Tooltip)

	low := Classify(wireless(5))
	assert.Equal(t, CarrierDown, low.Status)
	assert.Equal(t, "Wireless connection.\nSignal strength: 5.0 %", low.Tooltip)
}

func TestIcon(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{Acquiring, "network-wired-acquiring"},
		{NoDefaultRoute, "network-wired-disconnected"},
		{CarrierDown, "network-wired-disconnected"},
		{WiredConnected, "network-wired"},
		{WirelessExcellent, "network-wireless-signal-excellent"},
		{WirelessGood, "network-wireless-signal-good"},
		{WirelessOk, "network-wireless-signal-ok"},
		{WirelessWeak, "network-wireless-signal-weak"},
		{WirelessNone, "network-wireless-signal-none"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.Icon(false), tt.status)
		assert.Equal(t, tt.want+"-symbolic", tt.status.Icon(true), tt.status)
	}
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, WirelessWeak.Wireless())
	assert.False(t, WiredConnected.Wireless())
	assert.True(t, WiredConnected.Connected())
	assert.True(t, WirelessNone.Connected())
	assert.False(t, CarrierDown.Connected())
	assert.False(t, NoDefaultRoute.Connected())
	assert.False(t, Acquiring.Connected())
}
