package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/ticker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joharei/netctl-tray/internal/config"
	"github.com/joharei/netctl-tray/internal/probe"
	"github.com/joharei/netctl-tray/internal/status"
)

// step is what the fake probe answers during one poll cycle.
type step struct {
	iface   string
	carrier bool
	medium  probe.Medium
	quality float64
	hasQ    bool
	err     error
}

type fakeProbe struct {
	mu    sync.Mutex
	steps []step
	cur   step
	calls int
}

// DefaultInterface starts a cycle and advances to the next scripted step;
// the last step repeats once the script runs out.
func (p *fakeProbe) DefaultInterface(ctx context.Context) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.calls < len(p.steps) {
		p.cur = p.steps[p.calls]
	}
	p.calls++
	if p.cur.err != nil {
		return "", false, p.cur.err
	}
	return p.cur.iface, p.cur.iface != "", nil
}

func (p *fakeProbe) CarrierUp(ctx context.Context, iface string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cur.carrier, nil
}

func (p *fakeProbe) InterfaceType(ctx context.Context, iface string) (probe.Medium, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cur.medium, nil
}

func (p *fakeProbe) SignalQuality(ctx context.Context) (float64, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cur.quality, p.cur.hasQ, nil
}

type profileProbe struct {
	*fakeProbe
	profiles []string
	err      error
}

func (p *profileProbe) ActiveProfiles(ctx context.Context) ([]string, error) {
	return p.profiles, p.err
}

type recorder struct {
	ch chan Snapshot
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan Snapshot, 32)}
}

func (r *recorder) SetDisplay(s Snapshot) {
	r.ch <- s
}

func (r *recorder) next(t *testing.T) Snapshot {
	t.Helper()
	select {
	case s := <-r.ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a snapshot")
		return Snapshot{}
	}
}

func (r *recorder) none(t *testing.T) {
	t.Helper()
	select {
	case s := <-r.ch:
		t.Fatalf("unexpected snapshot %+v", s)
	case <-time.After(50 * time.Millisecond):
	}
}

type harness struct {
	tick   *ticker.Force
	rec    *recorder
	cancel context.CancelFunc
	done   chan error
}

func startApp(t *testing.T, p probe.Probe, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		tick: ticker.NewForce(time.Hour),
		rec:  newRecorder(),
		done: make(chan error, 1),
	}
	cfg := config.Default()
	cfg.Probe.Details = false
	opts = append([]Option{
		WithTicker(h.tick),
		WithClock(clock.NewTestClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))),
		WithVersion("test"),
	}, opts...)
	a := New(cfg, p, h.rec, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- a.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-h.done
	})
	return h
}

func (h *harness) fire() {
	h.tick.Force <- time.Now()
}

func TestRunShowsAcquiringThenFirstResult(t *testing.T) {
	p := &fakeProbe{steps: []step{{iface: "eth0", carrier: true, medium: probe.Wired}}}
	h := startApp(t, p)

	first := h.rec.next(t)
	assert.Equal(t, status.Acquiring, first.Status)
	assert.Equal(t, "network-wired-acquiring", first.Icon)
	assert.Equal(t, "Netctl", first.Tooltip)
	assert.Equal(t, "test", first.Version)

	second := h.rec.next(t)
	assert.Equal(t, status.WiredConnected, second.Status)
	assert.Equal(t, "network-wired", second.Icon)
	assert.Equal(t, "Wired connection", second.Tooltip)
	assert.Equal(t, "eth0", second.Interface)
	assert.Equal(t, "2026-03-01 12:00:00", second.Updated)
}

func TestRunSequence(t *testing.T) {
	p := &fakeProbe{steps: []step{
		{},
		{iface: "eth0", carrier: true, medium: probe.Wired},
		{iface: "wlan0", carrier: true, medium: probe.Wireless, quality: 75, hasQ: true},
	}}
	h := startApp(t, p)

	assert.Equal(t, status.Acquiring, h.rec.next(t).Status)
	assert.Equal(t, status.NoDefaultRoute, h.rec.next(t).Status)

	h.fire()
	assert.Equal(t, status.WiredConnected, h.rec.next(t).Status)

	h.fire()
	s := h.rec.next(t)
	assert.Equal(t, status.WirelessGood, s.Status)
	assert.Equal(t, "network-wireless-signal-good", s.Icon)
	assert.Equal(t, "Wireless connection.\nSignal strength: 75.0 %", s.Tooltip)
}

func TestRunSkipsDisplayOnProbeFailure(t *testing.T) {
	failure := &probe.ExecutionError{Op: "default interface", Source: "ip", Err: errors.New("exec: not found")}
	p := &fakeProbe{steps: []step{
		{iface: "eth0", carrier: true, medium: probe.Wired},
		{err: failure},
		{iface: "wlan0", carrier: true, medium: probe.Wireless, quality: 95, hasQ: true},
	}}
	h := startApp(t, p)

	assert.Equal(t, status.Acquiring, h.rec.next(t).Status)
	assert.Equal(t, status.WiredConnected, h.rec.next(t).Status)

	h.fire()
	h.rec.none(t)

	h.fire()
	assert.Equal(t, status.WirelessExcellent, h.rec.next(t).Status)
}

func TestRunFirstCycleFailureKeepsAcquiring(t *testing.T) {
	failure := &probe.ParseError{Op: "signal quality", Line: "x", Err: errors.New("bad")}
	p := &fakeProbe{steps: []step{
		{err: failure},
		{iface: "eth0", carrier: false, medium: probe.Wired},
	}}
	h := startApp(t, p)

	assert.Equal(t, status.Acquiring, h.rec.next(t).Status)
	h.rec.none(t)

	h.fire()
	assert.Equal(t, status.CarrierDown, h.rec.next(t).Status)
}

func TestRunPushesUnchangedStatus(t *testing.T) {
	p := &fakeProbe{steps: []step{{iface: "eth0", carrier: true, medium: probe.Wired}}}
	h := startApp(t, p)

	h.rec.next(t)
	assert.Equal(t, status.WiredConnected, h.rec.next(t).Status)
	h.fire()
	assert.Equal(t, status.WiredConnected, h.rec.next(t).Status)
}

func TestRunSymbolicIcons(t *testing.T) {
	p := &fakeProbe{steps: []step{{}}}
	rec := newRecorder()
	cfg := config.Default()
	cfg.Display.SymbolicIcons = true
	a := New(cfg, p, rec, WithTicker(ticker.NewForce(time.Hour)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	assert.Equal(t, "network-wired-acquiring-symbolic", rec.next(t).Icon)
	assert.Equal(t, "network-wired-disconnected-symbolic", rec.next(t).Icon)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestRunValidatesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Poll.Interval = config.Duration{}
	err := New(cfg, &fakeProbe{}, nil).Run(context.Background())
	assert.Error(t, err)

	cfg = config.Default()
	cfg.Poll.Timeout = config.Duration{}
	err = New(cfg, &fakeProbe{}, nil).Run(context.Background())
	assert.Error(t, err)

	err = New(config.Default(), nil, nil).Run(context.Background())
	assert.Error(t, err)
}

func TestPollAddsProfiles(t *testing.T) {
	p := &profileProbe{
		fakeProbe: &fakeProbe{steps: []step{{iface: "wlan0", carrier: true, medium: probe.Wireless, quality: 55, hasQ: true}}},
		profiles:  []string{"home-wifi"},
	}
	a := New(config.Default(), p, nil)

	s, err := a.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, status.WirelessOk, s.Status)
	assert.Equal(t, []string{"home-wifi"}, s.Profiles)
	assert.Equal(t, "wlan0 (home-wifi)", s.Description())
}

func TestPollIgnoresProfileFailure(t *testing.T) {
	p := &profileProbe{
		fakeProbe: &fakeProbe{steps: []step{{iface: "eth0", carrier: true, medium: probe.Wired}}},
		err:       &probe.ExecutionError{Op: "active profiles", Source: "netctl list", Err: errors.New("exit status 1")},
	}
	a := New(config.Default(), p, nil)

	s, err := a.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, status.WiredConnected, s.Status)
	assert.Empty(t, s.Profiles)
}

func TestRunRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	failure := &probe.ExecutionError{Op: "carrier", Source: "/sys/class/net/eth0/carrier", Err: errors.New("no such file")}
	p := &fakeProbe{steps: []step{
		{iface: "wlan0", carrier: true, medium: probe.Wireless, quality: 42, hasQ: true},
		{err: failure},
		{iface: "eth0", carrier: true, medium: probe.Wired},
	}}
	h := startApp(t, p, WithMetrics(m))

	h.rec.next(t)
	assert.Equal(t, status.WirelessWeak, h.rec.next(t).Status)
	assert.Equal(t, 42.0, testutil.ToFloat64(m.Quality))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Status.WithLabelValues(string(status.WirelessWeak))))

	h.fire()
	h.fire()
	assert.Equal(t, status.WiredConnected, h.rec.next(t).Status)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Ticks.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Ticks.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProbeErrors.WithLabelValues(probe.KindExecution, "carrier")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Quality))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Status.WithLabelValues(string(status.WirelessWeak))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Status.WithLabelValues(string(status.WiredConnected))))
}

func TestMultiDisplay(t *testing.T) {
	var got []string
	d := Multi(
		DisplayFunc(func(s Snapshot) { got = append(got, "a:"+s.Icon) }),
		nil,
		DisplayFunc(func(s Snapshot) { got = append(got, "b:"+s.Icon) }),
	)
	d.SetDisplay(Snapshot{Icon: "network-wired"})
	assert.Equal(t, []string{"a:network-wired", "b:network-wired"}, got)
}
