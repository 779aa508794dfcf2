package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/gcfg.v1"
)

const DefaultConfigName = "config.ini"

// EnvConfigPath overrides config file discovery.
const EnvConfigPath = "NETCTL_TRAY_CONFIG"

// Display surfaces.
const (
	SurfaceTray    = "tray"
	SurfaceConsole = "console"
	SurfaceWaybar  = "waybar"
)

// Route sources.
const (
	RouteSourceIPRoute = "iproute"
	RouteSourceNetlink = "netlink"
)

type Poll struct {
	Interval Duration
	Timeout  Duration
}

type Probe struct {
	RouteSource     string
	RouteCommand    string
	WirelessCommand string
	NetctlCommand   string
	SysfsRoot       string
	Details         bool
}

type Display struct {
	Surface       string
	SymbolicIcons bool
	AppName       string
}

type Log struct {
	Level  string
	Format string
}

type Metrics struct {
	Listen string
}

// Config is the whole config.ini.
type Config struct {
	Poll    Poll
	Probe   Probe
	Display Display
	Log     Log
	Metrics Metrics
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Poll: Poll{
			Interval: Duration{5 * time.Second},
			Timeout:  Duration{3 * time.Second},
		},
		Probe: Probe{
			RouteSource:     RouteSourceIPRoute,
			RouteCommand:    "ip route list scope global",
			WirelessCommand: "iwconfig",
			NetctlCommand:   "netctl list",
			SysfsRoot:       "/sys/class/net",
			Details:         true,
		},
		Display: Display{
			Surface: SurfaceTray,
			AppName: "Netctl tray",
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := gcfg.ReadFileInto(&cfg, path); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrRepair loads path, and if that fails tries RepairFile once before
// giving up. A missing file yields Default.
func LoadOrRepair(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	changed, repErr := RepairFile(path)
	if repErr != nil || !changed {
		return Config{}, err
	}
	logrus.WithField("path", path).Warn("config repaired, reloading")
	return Load(path)
}

// ResolvePath picks the config file: $NETCTL_TRAY_CONFIG, then config.ini next
// to the executable, in the working directory, and in the user config dir.
// When none exists the executable's directory is returned.
func ResolvePath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}

	var candidates []string
	if exePath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exePath), DefaultConfigName))
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigName))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "netctl-tray", DefaultConfigName))
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return DefaultConfigName
}

// Error is a validation failure of a single field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Validate checks the values Load cannot check by type alone.
func (c Config) Validate() error {
	if c.Poll.Interval.Duration <= 0 {
		return &Error{Field: "poll.interval", Message: "must be positive"}
	}
	if c.Poll.Timeout.Duration <= 0 {
		return &Error{Field: "poll.timeout", Message: "must be positive"}
	}
	switch c.Probe.RouteSource {
	case RouteSourceIPRoute, RouteSourceNetlink:
	default:
		return &Error{Field: "probe.routeSource", Message: fmt.Sprintf("unknown source %q", c.Probe.RouteSource)}
	}
	if c.Probe.RouteSource == RouteSourceIPRoute && strings.TrimSpace(c.Probe.RouteCommand) == "" {
		return &Error{Field: "probe.routeCommand", Message: "must not be empty"}
	}
	if strings.TrimSpace(c.Probe.WirelessCommand) == "" {
		return &Error{Field: "probe.wirelessCommand", Message: "must not be empty"}
	}
	switch c.Display.Surface {
	case SurfaceTray, SurfaceConsole, SurfaceWaybar:
	default:
		return &Error{Field: "display.surface", Message: fmt.Sprintf("unknown surface %q", c.Display.Surface)}
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return &Error{Field: "log.level", Message: err.Error()}
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return &Error{Field: "log.format", Message: fmt.Sprintf("unknown format %q", c.Log.Format)}
	}
	return nil
}

// Duration supports values like "100ms", "0.1s", "1s", "2m", or plain numbers (seconds).
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		d.Duration = 0
		return nil
	}
	if parsed, err := time.ParseDuration(s); err == nil {
		d.Duration = parsed
		return nil
	}
	// Fallback: plain number treated as seconds (supports decimals).
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	d.Duration = time.Duration(float64(time.Second) * f)
	return nil
}
