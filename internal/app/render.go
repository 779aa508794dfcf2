package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
)

const (
	ansiClear      = "\x1b[H\x1b[2J"
	ansiHideCursor = "\x1b[?25l"
	ansiShowCursor = "\x1b[?25h"
)

// Console renders each snapshot as a small table on a terminal.
type Console struct {
	mu              sync.Mutex
	out             io.Writer
	title           string
	ansi            bool
	lastRenderLines int
	lastRenderWidth int
}

// ConsoleAvailable reports whether stdout is a terminal.
func ConsoleAvailable() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NewConsole returns a console display writing to out. ANSI redraws are used
// when out is a terminal.
func NewConsole(out io.Writer, title string) *Console {
	c := &Console{out: out, title: title}
	if f, ok := out.(*os.File); ok {
		c.ansi = isatty.IsTerminal(f.Fd())
	}
	if c.ansi {
		_, _ = io.WriteString(out, ansiHideCursor)
	}
	return c
}

// Close restores the cursor.
func (c *Console) Close() error {
	if c.ansi {
		_, err := io.WriteString(c.out, ansiShowCursor)
		return err
	}
	return nil
}

func (c *Console) SetDisplay(s Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.out, c.render(s))
}

func (c *Console) render(s Snapshot) string {
	var b strings.Builder
	b.Grow(512)

	if c.ansi {
		b.WriteString(ansiClear)
	}
	fmt.Fprintf(&b, "%s  %s\n", c.title, s.Updated)
	if s.Version != "" {
		if c.ansi {
			fmt.Fprintf(&b, "Version: \x1b[32m%s\x1b[0m\n", s.Version)
		} else {
			fmt.Fprintf(&b, "Version: %s\n", s.Version)
		}
	}
	b.WriteString("\n")

	quality := "-"
	if s.HasQuality {
		quality = fmt.Sprintf("%.1f %%", s.Quality)
	}
	iface := s.Interface
	if iface == "" {
		iface = "-"
	}
	profiles := "-"
	if len(s.Profiles) > 0 {
		profiles = strings.Join(s.Profiles, ", ")
	}
	addrs := "-"
	if len(s.Addrs) > 0 {
		addrs = strings.Join(s.Addrs, ", ")
	}

	headers := []string{"STATUS", "INTERFACE", "QUALITY", "PROFILES", "TX KB/s", "RX KB/s", "ADDRESSES"}
	row := []string{string(s.Status), iface, quality, profiles, orDash(s.SendKBs), orDash(s.RecvKBs), addrs}

	widths := make([]int, len(headers))
	for i := range headers {
		widths[i] = runewidth.StringWidth(headers[i])
		if w := runewidth.StringWidth(row[i]); w > widths[i] {
			widths[i] = w
		}
	}
	maxAddrs := 48
	if widths[6] > maxAddrs {
		widths[6] = maxAddrs
	}
	row[6] = truncateDisplay(row[6], widths[6])

	b.WriteString(formatRow(headers, widths))
	b.WriteString("\n")
	b.WriteString(formatRow(dividerRow(widths), widths))
	b.WriteString("\n")
	b.WriteString(formatRow(row, widths))
	b.WriteString("\n\n")
	for _, line := range strings.Split(s.Tooltip, "\n") {
		b.WriteString(line)
		b.WriteString("\n")
	}

	frame := b.String()
	lines := strings.Split(frame, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	maxWidth := 0
	for i := range lines {
		if w := runewidth.StringWidth(lines[i]); w > maxWidth {
			maxWidth = w
		}
	}
	if c.lastRenderWidth > maxWidth {
		maxWidth = c.lastRenderWidth
	}
	c.lastRenderWidth = maxWidth

	// Frames written to a pipe keep a stable width and height.
	if !c.ansi {
		for i := range lines {
			lines[i] = padRight(lines[i], maxWidth)
		}
		for i := len(lines); i < c.lastRenderLines; i++ {
			lines = append(lines, padRight("", maxWidth))
		}
	}
	c.lastRenderLines = len(lines)

	return strings.Join(lines, "\n") + "\n"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncateDisplay(s string, max int) string {
	if max <= 0 {
		return ""
	}
	return runewidth.Truncate(s, max, "...")
}

func padRight(s string, width int) string {
	if runewidth.StringWidth(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-runewidth.StringWidth(s))
}

func formatRow(cols []string, widths []int) string {
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += "  "
		}
		out += padRight(c, widths[i])
	}
	return out
}

func dividerRow(widths []int) []string {
	out := make([]string, len(widths))
	for i, w := range widths {
		out[i] = strings.Repeat("-", w)
	}
	return out
}
