package probe

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Column offsets of the "Quality=cc/mm" field in iwconfig output, e.g.
//
//	          Link Quality=58/70  Signal level=-52 dBm
//
// The layout is fixed by iwconfig; any other tool needs its own parser.
const (
	qualityCurStart = 23
	qualityCurEnd   = 25
	qualityMaxStart = 26
	qualityMaxEnd   = 28
)

var errQualityLine = errors.New("quality line too short")

// ParseDefaultRoute scans route listing output for the first line shaped like
// "default via <gw> dev <iface> ..." and returns <iface>.
func ParseDefaultRoute(out string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		route := strings.Split(line, " ")
		if len(route) >= 5 && route[0] == "default" && route[1] == "via" && route[3] == "dev" {
			if route[4] == "" {
				continue
			}
			return route[4], true
		}
	}
	return "", false
}

// ParseQuality extracts the link quality percentage from wireless status
// output. ok is false when no line mentions Quality.
func ParseQuality(out string) (float64, bool, error) {
	var line string
	found := false
	for _, l := range strings.Split(out, "\n") {
		if strings.Contains(l, "Quality") {
			line = l
			found = true
			break
		}
	}
	if !found {
		return 0, false, nil
	}
	if len(line) < qualityMaxEnd {
		return 0, false, &ParseError{Op: "signal quality", Line: line, Err: errQualityLine}
	}

	cur, err := strconv.Atoi(strings.TrimSpace(line[qualityCurStart:qualityCurEnd]))
	if err != nil {
		return 0, false, &ParseError{Op: "signal quality", Line: line, Err: fmt.Errorf("current: %w", err)}
	}
	max, err := strconv.Atoi(strings.TrimSpace(line[qualityMaxStart:qualityMaxEnd]))
	if err != nil {
		return 0, false, &ParseError{Op: "signal quality", Line: line, Err: fmt.Errorf("max: %w", err)}
	}
	if max <= 0 {
		return 0, false, &ParseError{Op: "signal quality", Line: line, Err: fmt.Errorf("max quality is %d", max)}
	}
	return 100 * float64(cur) / float64(max), true, nil
}

// ParseActiveProfiles returns the profiles netctl marks as running with a
// leading "*".
func ParseActiveProfiles(out string) []string {
	var profiles []string
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "*") {
			continue
		}
		name := ""
		if len(line) > 2 {
			name = strings.TrimSpace(line[2:])
		}
		if name == "" {
			continue
		}
		profiles = append(profiles, name)
	}
	return profiles
}
