package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/joharei/netctl-tray/internal/app"
	"github.com/joharei/netctl-tray/internal/config"
	"github.com/joharei/netctl-tray/internal/probe"
	"github.com/joharei/netctl-tray/internal/tray"
)

var buildVersion = "dev"

const noTrayMessage = "I couldn't detect any system tray on this system."

func main() {
	os.Exit(run())
}

func run() int {
	configPath := config.ResolvePath()
	cfg, err := config.LoadOrRepair(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "netctl-tray: load config %s: %v\n", configPath, err)
		return 2
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "netctl-tray: %v\n", err)
		return 2
	}

	// waybar reads stdout, so logs always go to stderr.
	app.InitLogger(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	log := logrus.WithField("module", "main")
	log.WithFields(logrus.Fields{"config": configPath, "version": buildVersion}).Info("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
	defer stop()

	display, closer, err := openDisplay(cfg)
	if err != nil {
		if errors.Is(err, tray.ErrNoTray) {
			fmt.Fprintln(os.Stderr, noTrayMessage)
			return 1
		}
		log.WithError(err).Error("display unavailable")
		return 1
	}
	defer closer.Close()

	sys, err := probe.NewSystem(probe.Options{
		RouteSource:     cfg.Probe.RouteSource,
		RouteCommand:    cfg.Probe.RouteCommand,
		WirelessCommand: cfg.Probe.WirelessCommand,
		NetctlCommand:   cfg.Probe.NetctlCommand,
		SysfsRoot:       cfg.Probe.SysfsRoot,
		Timeout:         cfg.Poll.Timeout.Duration,
	})
	if err != nil {
		log.WithError(err).Error("probe setup failed")
		return 2
	}
	for _, c := range sys.MissingCommands() {
		log.WithField("command", c).Warn("command not found in PATH")
	}

	opts := []app.Option{app.WithVersion(buildVersion)}
	if cfg.Metrics.Listen != "" {
		m, err := app.NewMetrics(prometheus.NewRegistry())
		if err != nil {
			log.WithError(err).Error("metrics setup failed")
			return 1
		}
		opts = append(opts, app.WithMetrics(m))
		go serveMetrics(ctx, cfg.Metrics.Listen, m, log)
	}

	a := app.New(cfg, sys, display, opts...)
	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("stopped")
		return 1
	}
	log.Info("stopped")
	return 0
}

func openDisplay(cfg config.Config) (app.Display, io.Closer, error) {
	switch cfg.Display.Surface {
	case config.SurfaceConsole:
		if !app.ConsoleAvailable() {
			return nil, nil, errors.New("console surface needs a terminal on stdout")
		}
		c := app.NewConsole(os.Stdout, cfg.Display.AppName)
		return c, c, nil
	case config.SurfaceWaybar:
		return app.NewWaybar(os.Stdout), closerFunc(func() error { return nil }), nil
	default:
		conn, err := dbus.ConnectSessionBus()
		if err != nil {
			logrus.WithError(err).Warn("session bus unavailable")
			return nil, nil, tray.ErrNoTray
		}
		t, err := tray.New(conn, cfg.Display.AppName, cfg.Display.SymbolicIcons)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		return t, closerFunc(func() error {
			err := t.Close()
			conn.Close()
			return err
		}), nil
	}
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

func serveMetrics(ctx context.Context, addr string, m *app.Metrics, log *logrus.Entry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", addr).Info("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("metrics server failed")
	}
}
