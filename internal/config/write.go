package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteFromDTO writes config.ini content from ConfigDTO.
func WriteFromDTO(path string, dto ConfigDTO) error {
	var b strings.Builder

	b.WriteString("[poll]\n")
	if strings.TrimSpace(dto.Interval) != "" {
		b.WriteString(fmt.Sprintf("interval=%s\n", dto.Interval))
	}
	if strings.TrimSpace(dto.Timeout) != "" {
		b.WriteString(fmt.Sprintf("timeout=%s\n", dto.Timeout))
	}
	b.WriteString("\n")

	b.WriteString("[probe]\n")
	if dto.RouteSource != "" {
		b.WriteString(fmt.Sprintf("routeSource=%s\n", dto.RouteSource))
	}
	if dto.RouteCommand != "" {
		b.WriteString(fmt.Sprintf("routeCommand=%s\n", quoteIfNeeded(dto.RouteCommand)))
	}
	if dto.WirelessCommand != "" {
		b.WriteString(fmt.Sprintf("wirelessCommand=%s\n", quoteIfNeeded(dto.WirelessCommand)))
	}
	if dto.NetctlCommand != "" {
		b.WriteString(fmt.Sprintf("netctlCommand=%s\n", quoteIfNeeded(dto.NetctlCommand)))
	}
	if dto.SysfsRoot != "" {
		b.WriteString(fmt.Sprintf("sysfsRoot=%s\n", quoteIfNeeded(dto.SysfsRoot)))
	}
	b.WriteString(fmt.Sprintf("details=%v\n", dto.Details))
	b.WriteString("\n")

	b.WriteString("[display]\n")
	if dto.Surface != "" {
		b.WriteString(fmt.Sprintf("surface=%s\n", dto.Surface))
	}
	b.WriteString(fmt.Sprintf("symbolicIcons=%v\n", dto.SymbolicIcons))
	if dto.AppName != "" {
		b.WriteString(fmt.Sprintf("appName=%s\n", quoteIfNeeded(dto.AppName)))
	}
	b.WriteString("\n")

	b.WriteString("[log]\n")
	if dto.LogLevel != "" {
		b.WriteString(fmt.Sprintf("level=%s\n", dto.LogLevel))
	}
	if dto.LogFormat != "" {
		b.WriteString(fmt.Sprintf("format=%s\n", dto.LogFormat))
	}
	b.WriteString("\n")

	b.WriteString("[metrics]\n")
	b.WriteString(fmt.Sprintf("listen=%s\n", quoteIfNeeded(dto.MetricsListen)))

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return "\"\""
	}
	need := false
	for _, r := range s {
		if r == ' ' || r == '\\' || r == '"' || r == ',' || r == ';' || r == '#' {
			need = true
			break
		}
	}
	if !need {
		return s
	}
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}
