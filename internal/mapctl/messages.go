package mapctl

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"questmap/internal/geom"
	"questmap/internal/mapview"
)

// Messages below carry a generation so work scheduled by a disposed map
// instance is ignored once it comes back.

// initRetryMsg re-checks the container while InitializeMap waits for a size.
type initRetryMsg struct{ seq int }

// sizeCheckMsg polls the container of a freshly built instance.
type sizeCheckMsg struct{ gen int }

// extentRetryMsg re-runs a deferred viewport update.
type extentRetryMsg struct {
	gen    int
	bounds *geom.Bounds
	opts   ExtentOptions
}

// settleMsg reports that the camera stopped moving.
type settleMsg struct {
	gen          int
	seq          int
	programmatic bool
}

// LayerResult is the outcome of one category fetch.
type LayerResult struct {
	Type     DataType
	Features []*mapview.Feature
	Err      error
}

// LayersLoadedMsg closes one loader fan-out.
type LayersLoadedMsg struct {
	gen     int
	WorldID string
	Results []LayerResult
	Elapsed time.Duration
}

// TickYield returns a yield primitive that delivers msg after d.
func TickYield(d time.Duration) func(tea.Msg) tea.Cmd {
	return func(msg tea.Msg) tea.Cmd {
		return tea.Tick(d, func(time.Time) tea.Msg { return msg })
	}
}
