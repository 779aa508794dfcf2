package config

import (
	"fmt"
	"strings"
)

// ConfigDTO is a UI-friendly view of Config.
type ConfigDTO struct {
	Interval        string `json:"interval"`
	Timeout         string `json:"timeout"`
	RouteSource     string `json:"routeSource"`
	RouteCommand    string `json:"routeCommand"`
	WirelessCommand string `json:"wirelessCommand"`
	NetctlCommand   string `json:"netctlCommand"`
	SysfsRoot       string `json:"sysfsRoot"`
	Details         bool   `json:"details"`
	Surface         string `json:"surface"`
	SymbolicIcons   bool   `json:"symbolicIcons"`
	AppName         string `json:"appName"`
	LogLevel        string `json:"logLevel"`
	LogFormat       string `json:"logFormat"`
	MetricsListen   string `json:"metricsListen"`
}

// ToDTO converts Config to ConfigDTO.
func ToDTO(cfg Config) ConfigDTO {
	return ConfigDTO{
		Interval:        durString(cfg.Poll.Interval),
		Timeout:         durString(cfg.Poll.Timeout),
		RouteSource:     cfg.Probe.RouteSource,
		RouteCommand:    cfg.Probe.RouteCommand,
		WirelessCommand: cfg.Probe.WirelessCommand,
		NetctlCommand:   cfg.Probe.NetctlCommand,
		SysfsRoot:       cfg.Probe.SysfsRoot,
		Details:         cfg.Probe.Details,
		Surface:         cfg.Display.Surface,
		SymbolicIcons:   cfg.Display.SymbolicIcons,
		AppName:         cfg.Display.AppName,
		LogLevel:        cfg.Log.Level,
		LogFormat:       cfg.Log.Format,
		MetricsListen:   cfg.Metrics.Listen,
	}
}

// FromDTO converts ConfigDTO into Config. Empty fields keep their defaults;
// the result is validated.
func FromDTO(dto ConfigDTO) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(dto.Interval) != "" {
		if err := cfg.Poll.Interval.UnmarshalText([]byte(dto.Interval)); err != nil {
			return Config{}, fmt.Errorf("interval: %w", err)
		}
	}
	if strings.TrimSpace(dto.Timeout) != "" {
		if err := cfg.Poll.Timeout.UnmarshalText([]byte(dto.Timeout)); err != nil {
			return Config{}, fmt.Errorf("timeout: %w", err)
		}
	}

	setIfNotEmpty(&cfg.Probe.RouteSource, dto.RouteSource)
	setIfNotEmpty(&cfg.Probe.RouteCommand, dto.RouteCommand)
	setIfNotEmpty(&cfg.Probe.WirelessCommand, dto.WirelessCommand)
	setIfNotEmpty(&cfg.Probe.NetctlCommand, dto.NetctlCommand)
	setIfNotEmpty(&cfg.Probe.SysfsRoot, dto.SysfsRoot)
	cfg.Probe.Details = dto.Details
	setIfNotEmpty(&cfg.Display.Surface, dto.Surface)
	cfg.Display.SymbolicIcons = dto.SymbolicIcons
	setIfNotEmpty(&cfg.Display.AppName, dto.AppName)
	setIfNotEmpty(&cfg.Log.Level, dto.LogLevel)
	setIfNotEmpty(&cfg.Log.Format, dto.LogFormat)
	cfg.Metrics.Listen = strings.TrimSpace(dto.MetricsListen)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setIfNotEmpty(dst *string, v string) {
	v = strings.TrimSpace(v)
	if v != "" {
		*dst = v
	}
}

func durString(d Duration) string {
	if d.Duration == 0 {
		return ""
	}
	return d.Duration.String()
}
