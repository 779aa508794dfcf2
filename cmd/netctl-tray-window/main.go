package main

import (
	"context"
	"embed"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"github.com/joharei/netctl-tray/internal/app"
	"github.com/joharei/netctl-tray/internal/config"
	"github.com/joharei/netctl-tray/internal/probe"
)

//go:embed frontend/*
var assets embed.FS

var buildVersion = "dev"

var log = logrus.WithField("module", "window")

// GUI is bound to the frontend. The poll loop writes the snapshot, the
// frontend polls it with GetSnapshot.
type GUI struct {
	configPath string

	mu       sync.RWMutex
	snapshot app.Snapshot

	runMu  sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func main() {
	configPath := config.ResolvePath()
	cfg, err := config.LoadOrRepair(configPath)
	if err != nil {
		logrus.WithError(err).WithField("path", configPath).Error("load config")
		os.Exit(2)
	}
	app.InitLogger(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	gui := &GUI{configPath: configPath}

	err = wails.Run(&options.App{
		Title:  cfg.Display.AppName,
		Width:  520,
		Height: 360,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup: func(ctx context.Context) {
			gui.ctx = ctx
			if err := gui.start(cfg); err != nil {
				log.WithError(err).Error("start polling")
			}
		},
		OnShutdown: func(ctx context.Context) {
			gui.stop()
		},
		Bind: []interface{}{gui},
	})
	if err != nil {
		log.WithError(err).Error("wails error")
		os.Exit(1)
	}
}

// start runs a poll loop for cfg in the background, replacing any running one.
func (g *GUI) start(cfg config.Config) error {
	sys, err := probe.NewSystem(probe.Options{
		RouteSource:     cfg.Probe.RouteSource,
		RouteCommand:    cfg.Probe.RouteCommand,
		WirelessCommand: cfg.Probe.WirelessCommand,
		NetctlCommand:   cfg.Probe.NetctlCommand,
		SysfsRoot:       cfg.Probe.SysfsRoot,
		Timeout:         cfg.Poll.Timeout.Duration,
	})
	if err != nil {
		return err
	}

	g.stop()

	g.runMu.Lock()
	defer g.runMu.Unlock()
	ctx, cancel := context.WithCancel(g.ctx)
	done := make(chan struct{})
	g.cancel, g.done = cancel, done

	mon := app.New(cfg, sys, app.DisplayFunc(g.updateSnapshot), app.WithVersion(buildVersion))
	go func() {
		defer close(done)
		if err := mon.Run(ctx); err != nil && ctx.Err() == nil {
			log.WithError(err).Error("poll loop stopped")
		}
	}()
	return nil
}

func (g *GUI) stop() {
	g.runMu.Lock()
	defer g.runMu.Unlock()
	if g.cancel == nil {
		return
	}
	g.cancel()
	<-g.done
	g.cancel, g.done = nil, nil
}

func (g *GUI) updateSnapshot(s app.Snapshot) {
	g.mu.Lock()
	g.snapshot = s
	g.mu.Unlock()
}

// GetSnapshot returns the latest snapshot for UI polling.
func (g *GUI) GetSnapshot() app.Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snapshot
}

// GetConfigModel returns the current config.ini content.
func (g *GUI) GetConfigModel() (config.ConfigDTO, error) {
	cfg, err := config.LoadOrRepair(g.configPath)
	if err != nil {
		return config.ConfigDTO{}, err
	}
	return config.ToDTO(cfg), nil
}

// SaveConfigModel writes config.ini and restarts polling with it.
func (g *GUI) SaveConfigModel(dto config.ConfigDTO) error {
	cfg, err := config.FromDTO(dto)
	if err != nil {
		return err
	}
	if err := config.WriteFromDTO(g.configPath, dto); err != nil {
		return err
	}
	return g.start(cfg)
}
