package app

import (
	"context"
	"fmt"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/ticker"
	"github.com/sirupsen/logrus"

	"github.com/joharei/netctl-tray/internal/config"
	"github.com/joharei/netctl-tray/internal/probe"
	"github.com/joharei/netctl-tray/internal/schedule"
	"github.com/joharei/netctl-tray/internal/status"
)

// profileLister is implemented by probes that know about netctl profiles.
type profileLister interface {
	ActiveProfiles(ctx context.Context) ([]string, error)
}

// detailer is implemented by probes that can describe an interface.
type detailer interface {
	Details(ctx context.Context, iface string) (probe.Details, error)
}

// App polls the probe and pushes the classified status to a display.
type App struct {
	cfg     config.Config
	probe   probe.Probe
	display Display
	metrics *Metrics
	clock   clock.Clock
	ticker  ticker.Ticker
	logger  *logrus.Entry
	version string
}

type Option func(*App)

func WithMetrics(m *Metrics) Option {
	return func(a *App) { a.metrics = m }
}

func WithClock(c clock.Clock) Option {
	return func(a *App) { a.clock = c }
}

// WithTicker replaces the interval ticker built from the config.
func WithTicker(t ticker.Ticker) Option {
	return func(a *App) { a.ticker = t }
}

func WithLogger(l *logrus.Entry) Option {
	return func(a *App) { a.logger = l }
}

func WithVersion(v string) Option {
	return func(a *App) { a.version = v }
}

func New(cfg config.Config, p probe.Probe, d Display, opts ...Option) *App {
	a := &App{
		cfg:     cfg,
		probe:   p,
		display: d,
		clock:   clock.NewDefaultClock(),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.display == nil {
		a.display = Multi()
	}
	return a
}

// Run shows the acquiring placeholder, polls once right away and then every
// poll interval until ctx is cancelled. A failed cycle leaves the display as
// it was and never stops the loop.
func (a *App) Run(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context is nil")
	}
	if a.probe == nil {
		return fmt.Errorf("probe is nil")
	}
	if a.cfg.Poll.Interval.Duration <= 0 {
		return fmt.Errorf("invalid poll interval: %v", a.cfg.Poll.Interval)
	}
	if a.cfg.Poll.Timeout.Duration <= 0 {
		return fmt.Errorf("invalid poll timeout: %v", a.cfg.Poll.Timeout)
	}

	a.display.SetDisplay(acquiringSnapshot(a.version, a.cfg.Display.SymbolicIcons, a.clock.Now()))

	t := a.ticker
	if t == nil {
		t = ticker.New(a.cfg.Poll.Interval.Duration)
	}
	a.logger.WithField("interval", a.cfg.Poll.Interval.Duration).Info("polling started")
	return schedule.Every(ctx, t, a.tick)
}

func (a *App) tick(ctx context.Context) {
	start := a.clock.Now()
	snap, err := a.Poll(ctx)
	elapsed := a.clock.Now().Sub(start)
	if err != nil {
		kind, op := probe.Kind(err), probe.Op(err)
		a.metrics.observeFailure(kind, op, elapsed)
		a.logger.WithFields(logrus.Fields{"kind": kind, "op": op}).WithError(err).Warn("poll cycle failed, keeping previous status")
		return
	}
	a.metrics.observeSuccess(snap, elapsed)
	a.display.SetDisplay(snap)
}

// Poll runs one probe cycle and returns the snapshot to display.
func (a *App) Poll(ctx context.Context) (Snapshot, error) {
	fact, err := probe.Gather(ctx, a.probe)
	if err != nil {
		return Snapshot{}, err
	}
	res := status.Classify(fact)
	snap := buildSnapshot(a.version, a.cfg.Display.SymbolicIcons, fact, res, a.clock.Now())
	a.supplement(ctx, &snap)

	a.logger.WithFields(logrus.Fields{
		"status":    res.Status,
		"interface": fact.Interface,
		"quality":   res.Quality,
	}).Debug("poll cycle")
	return snap, nil
}

// supplement adds profile and interface details. Failures here are logged
// and never fail the cycle.
func (a *App) supplement(ctx context.Context, snap *Snapshot) {
	if pl, ok := a.probe.(profileLister); ok {
		profiles, err := pl.ActiveProfiles(ctx)
		if err != nil {
			a.logger.WithError(err).Debug("active profiles unavailable")
		} else {
			snap.Profiles = profiles
		}
	}

	if !a.cfg.Probe.Details || snap.Interface == "" {
		return
	}
	if dt, ok := a.probe.(detailer); ok {
		d, err := dt.Details(ctx, snap.Interface)
		if err != nil {
			a.logger.WithError(err).Debug("interface details unavailable")
			return
		}
		snap.Addrs = d.Addrs
		snap.SendKBs = formatRate(d.SendKBs)
		snap.RecvKBs = formatRate(d.RecvKBs)
	}
}
