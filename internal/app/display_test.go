package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joharei/netctl-tray/internal/status"
)

func wirelessSnapshot() Snapshot {
	return Snapshot{
		Status:     status.WirelessGood,
		Icon:       "network-wireless-signal-good",
		Tooltip:    "Wireless connection.\nSignal strength: 74.3 %",
		Interface:  "wlp3s0",
		Medium:     "wireless",
		Quality:    74.28,
		HasQuality: true,
		Profiles:   []string{"home-wifi"},
		Addrs:      []string{"192.168.1.23/24", "fe80::1/64"},
		SendKBs:    "12",
		RecvKBs:    "1.5M",
		Updated:    "2026-03-01 12:00:00",
		Version:    "1.0.0",
	}
}

func TestWaybarLine(t *testing.T) {
	var buf bytes.Buffer
	NewWaybar(&buf).SetDisplay(wirelessSnapshot())

	line := buf.String()
	require.True(t, strings.HasSuffix(line, "\n"))
	assert.Equal(t, 1, strings.Count(line, "\n"))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &got))
	assert.Equal(t, "74%", got["text"])
	assert.Equal(t, "wireless-good", got["alt"])
	assert.Equal(t, "wireless", got["class"])
	assert.Equal(t, 74.0, got["percentage"])
	assert.Equal(t, "Wireless connection.\nSignal strength: 74.3 %\nwlp3s0 (home-wifi)", got["tooltip"])

	// waybar reads the keys in this order
	order := []string{`"text"`, `"alt"`, `"tooltip"`, `"class"`, `"percentage"`}
	last := -1
	for _, k := range order {
		idx := strings.Index(line, k)
		require.Greater(t, idx, last, k)
		last = idx
	}
}

func TestWaybarText(t *testing.T) {
	assert.Equal(t, "eth0", waybarText(Snapshot{Status: status.WiredConnected, Interface: "eth0"}))
	assert.Equal(t, "offline", waybarText(Snapshot{Status: status.NoDefaultRoute}))
	assert.Equal(t, "5%", waybarText(Snapshot{Status: status.CarrierDown, Quality: 5, HasQuality: true}))
	assert.Equal(t, "offline", waybarText(Snapshot{Status: status.CarrierDown}))
	assert.Equal(t, "acquiring", waybarClass(status.Acquiring))
	assert.Equal(t, "disconnected", waybarClass(status.CarrierDown))
}

func TestConsoleRender(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, "netctl-tray")
	c.SetDisplay(wirelessSnapshot())

	out := buf.String()
	assert.Contains(t, out, "netctl-tray  2026-03-01 12:00:00")
	assert.Contains(t, out, "Version: 1.0.0")
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "wireless-good")
	assert.Contains(t, out, "74.3 %")
	assert.Contains(t, out, "home-wifi")
	assert.Contains(t, out, "192.168.1.23/24, fe80::1/64")
	assert.Contains(t, out, "Signal strength: 74.3 %")
	assert.NotContains(t, out, "\x1b[")
	require.NoError(t, c.Close())
}

func TestConsoleRenderKeepsFrameSize(t *testing.T) {
	c := NewConsole(&bytes.Buffer{}, "netctl-tray")
	long := c.render(wirelessSnapshot())
	short := c.render(Snapshot{Status: status.NoDefaultRoute, Tooltip: "No connection"})

	assert.Equal(t, strings.Count(long, "\n"), strings.Count(short, "\n"))
	longLines := strings.Split(long, "\n")
	shortLines := strings.Split(short, "\n")
	assert.Equal(t, len(longLines[0]), len(shortLines[0]))
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "0", formatRate(0))
	assert.Equal(t, "0", formatRate(-3))
	assert.Equal(t, "512", formatRate(512))
	assert.Equal(t, "1.5M", formatRate(1536))
	assert.Equal(t, "20M", formatRate(20*1024))
}

func TestDescription(t *testing.T) {
	assert.Equal(t, "", Snapshot{}.Description())
	assert.Equal(t, "eth0", Snapshot{Interface: "eth0"}.Description())
	assert.Equal(t, "wlan0 (a, b)", Snapshot{Interface: "wlan0", Profiles: []string{"a", "b"}}.Description())
}
