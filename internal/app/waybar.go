package app

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/Velocidex/ordereddict"

	"github.com/joharei/netctl-tray/internal/status"
)

// Waybar writes one JSON object per snapshot, the format of waybar's custom
// module with "return-type": "json".
type Waybar struct {
	mu  sync.Mutex
	out io.Writer
}

func NewWaybar(out io.Writer) *Waybar {
	return &Waybar{out: out}
}

func (w *Waybar) SetDisplay(s Snapshot) {
	line, err := waybarLine(s)
	if err != nil {
		logger.WithError(err).Error("encode waybar line")
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.out.Write(append(line, '\n')); err != nil {
		logger.WithError(err).Warn("write waybar line")
	}
}

func waybarLine(s Snapshot) ([]byte, error) {
	tooltip := s.Tooltip
	if d := s.Description(); d != "" {
		tooltip += "\n" + d
	}
	dict := ordereddict.NewDict().
		Set("text", waybarText(s)).
		Set("alt", string(s.Status)).
		Set("tooltip", tooltip).
		Set("class", waybarClass(s.Status)).
		Set("percentage", int(math.Round(s.Quality)))
	return json.Marshal(dict)
}

func waybarText(s Snapshot) string {
	switch {
	case s.Status == status.Acquiring:
		return "…"
	case s.Status.Wireless() || (s.Status == status.CarrierDown && s.HasQuality):
		return fmt.Sprintf("%.0f%%", s.Quality)
	case s.Status == status.WiredConnected:
		return s.Interface
	default:
		return "offline"
	}
}

func waybarClass(st status.Status) string {
	switch {
	case st.Wireless():
		return "wireless"
	case st == status.WiredConnected:
		return "wired"
	case st == status.Acquiring:
		return "acquiring"
	default:
		return "disconnected"
	}
}
