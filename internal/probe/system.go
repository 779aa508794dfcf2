package probe

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joharei/netctl-tray/internal/runner"
)

// Route sources understood by System.
const (
	RouteSourceIPRoute = "iproute"
	RouteSourceNetlink = "netlink"
)

const (
	DefaultRouteCommand    = "ip route list scope global"
	DefaultWirelessCommand = "iwconfig"
	DefaultNetctlCommand   = "netctl list"
	DefaultSysfsRoot       = "/sys/class/net"
	DefaultTimeout         = 3 * time.Second
)

// Runner executes a command line and returns its stdout.
type Runner interface {
	Output(ctx context.Context, command string) ([]byte, error)
}

// Options configures a System probe. Zero fields take the Default values.
type Options struct {
	RouteSource     string
	RouteCommand    string
	WirelessCommand string
	NetctlCommand   string
	SysfsRoot       string
	Timeout         time.Duration
	Runner          Runner
}

// System probes the local host.
type System struct {
	opts    Options
	traffic *trafficSampler
}

// NewSystem returns a probe for the local host.
func NewSystem(opts Options) (*System, error) {
	if opts.RouteSource == "" {
		opts.RouteSource = RouteSourceIPRoute
	}
	if opts.RouteSource != RouteSourceIPRoute && opts.RouteSource != RouteSourceNetlink {
		return nil, fmt.Errorf("unknown route source %q", opts.RouteSource)
	}
	if strings.TrimSpace(opts.RouteCommand) == "" {
		opts.RouteCommand = DefaultRouteCommand
	}
	if strings.TrimSpace(opts.WirelessCommand) == "" {
		opts.WirelessCommand = DefaultWirelessCommand
	}
	if strings.TrimSpace(opts.NetctlCommand) == "" {
		opts.NetctlCommand = DefaultNetctlCommand
	}
	if opts.SysfsRoot == "" {
		opts.SysfsRoot = DefaultSysfsRoot
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Runner == nil {
		opts.Runner = runner.Exec{}
	}
	return &System{opts: opts, traffic: newTrafficSampler()}, nil
}

// MissingCommands returns the configured commands whose program is not in PATH.
func (s *System) MissingCommands() []string {
	commands := []string{s.opts.WirelessCommand, s.opts.NetctlCommand}
	if s.opts.RouteSource == RouteSourceIPRoute {
		commands = append([]string{s.opts.RouteCommand}, commands...)
	}
	var missing []string
	for _, c := range commands {
		if !runner.Available(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

func (s *System) DefaultInterface(ctx context.Context) (string, bool, error) {
	if s.opts.RouteSource == RouteSourceNetlink {
		ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
		return netlinkDefaultInterface(ctx)
	}

	out, err := s.run(ctx, "default interface", s.opts.RouteCommand)
	if err != nil {
		return "", false, err
	}
	iface, ok := ParseDefaultRoute(string(out))
	logger.WithField("interface", iface).Debug("default route")
	return iface, ok, nil
}

func (s *System) CarrierUp(ctx context.Context, iface string) (bool, error) {
	dir, err := s.ifaceDir("carrier", iface)
	if err != nil {
		return false, err
	}
	line, err := readFirstLine(ctx, "carrier", filepath.Join(dir, "carrier"))
	if err != nil {
		return false, err
	}
	return line == "1", nil
}

func (s *System) InterfaceType(ctx context.Context, iface string) (Medium, error) {
	dir, err := s.ifaceDir("interface type", iface)
	if err != nil {
		return "", err
	}
	line, err := readFirstLine(ctx, "interface type", filepath.Join(dir, "type"))
	if err != nil {
		return "", err
	}
	// ARPHRD_ETHER also covers wifi; only the sysfs markers tell them apart.
	if line != "1" {
		return Wired, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", &ExecutionError{Op: "interface type", Source: dir, Err: err}
	}
	for _, e := range entries {
		if e.Name() == "wireless" || e.Name() == "phy80211" {
			return Wireless, nil
		}
	}
	return Wired, nil
}

func (s *System) SignalQuality(ctx context.Context) (float64, bool, error) {
	out, err := s.run(ctx, "signal quality", s.opts.WirelessCommand)
	if err != nil {
		return 0, false, err
	}
	return ParseQuality(string(out))
}

// ActiveProfiles returns the netctl profiles that are currently running.
func (s *System) ActiveProfiles(ctx context.Context) ([]string, error) {
	out, err := s.run(ctx, "active profiles", s.opts.NetctlCommand)
	if err != nil {
		return nil, err
	}
	return ParseActiveProfiles(string(out)), nil
}

func (s *System) run(ctx context.Context, op, command string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	out, err := s.opts.Runner.Output(ctx, command)
	if err != nil {
		return nil, &ExecutionError{Op: op, Source: command, Err: err}
	}
	return out, nil
}

func (s *System) ifaceDir(op, iface string) (string, error) {
	if iface == "" || iface == "." || iface == ".." || strings.ContainsRune(iface, '/') {
		return "", &ExecutionError{Op: op, Source: s.opts.SysfsRoot, Err: fmt.Errorf("invalid interface name %q", iface)}
	}
	return filepath.Join(s.opts.SysfsRoot, iface), nil
}

func readFirstLine(ctx context.Context, op, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &ExecutionError{Op: op, Source: path, Err: err}
	}
	f, err := os.Open(path)
	if err != nil {
		return "", &ExecutionError{Op: op, Source: path, Err: err}
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if sc.Scan() {
		return strings.TrimSpace(sc.Text()), nil
	}
	if err := sc.Err(); err != nil {
		return "", &ExecutionError{Op: op, Source: path, Err: err}
	}
	return "", nil
}
