package tui

import (
	"context"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"questmap/internal/geodata"
	"questmap/internal/logging"
	"questmap/internal/mapctl"
	"questmap/internal/mapview"
)

// Backend is everything the viewer needs from a data source.
type Backend interface {
	mapctl.DataSource
	geodata.RegionStore
	ListWorlds(ctx context.Context) ([]geodata.World, error)
	ListTileSets(ctx context.Context) ([]geodata.TileSet, error)
}

// Options configures the viewer.
type Options struct {
	Backend    Backend
	Controller mapctl.Options
	// World is selected once the catalog loads. Empty picks the first world.
	World      string
	CampaignID string
	// Logger defaults to the global logger.
	Logger *zerolog.Logger
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	backend    Backend
	ctl        *mapctl.Controller
	ev         *events
	log        zerolog.Logger
	campaignID string
	initWorld  string

	// World picker
	l      list.Model
	worlds []geodata.World

	// last laid out map area, in cells
	lay layout

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// inspect popup
	inspectPopup string

	// hover state
	hovering   bool
	hoverCellX int
	hoverCellY int

	// drag state
	dragging bool
	dragX    int
	dragY    int

	// attributes table
	showAttrs bool
	tbl       table.Model
}

func New(opts Options) Model {
	ev := &events{status: "questmap ready"}
	copts := opts.Controller
	copts.Source = opts.Backend
	copts.Notifier = ev
	copts.OnRegionDrawComplete = ev.regionDrawn
	base := logging.Logger()
	if opts.Logger != nil {
		base = *opts.Logger
	}
	if copts.Logger == nil {
		copts.Logger = &base
	}

	m := Model{
		showSidebar: false,
		helpVisible: true,
		backend:     opts.Backend,
		ctl:         mapctl.New(copts),
		ev:          ev,
		log:         base.With().Str("component", "tui").Logger(),
		campaignID:  opts.CampaignID,
		initWorld:   opts.World,
	}
	d := list.NewDefaultDelegate()
	d.ShowDescription = true
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Worlds"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)

	m.ta = textarea.New()
	m.ta.Placeholder = "Paste a WKT POLYGON or MULTIPOLYGON. Enter saves it as a region; Esc cancels."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)

	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	return m
}

// Controller exposes the map controller.
func (m Model) Controller() *mapctl.Controller { return m.ctl }

func (m Model) Init() tea.Cmd {
	return tea.Batch(loadCatalog(m.backend), m.ctl.InitializeMap())
}

// events receives controller callbacks. Update drains it after every message
// so completed regions become save commands.
type events struct {
	status  string
	level   statusLevel
	regions []mapctl.RegionDrawResult
}

type statusLevel int

const (
	levelInfo statusLevel = iota
	levelSuccess
	levelError
)

func (e *events) Info(msg string)    { e.status, e.level = msg, levelInfo }
func (e *events) Success(msg string) { e.status, e.level = msg, levelSuccess }
func (e *events) Error(msg string)   { e.status, e.level = msg, levelError }

func (e *events) regionDrawn(r mapctl.RegionDrawResult) {
	e.regions = append(e.regions, r)
}

func (e *events) takeRegions() []mapctl.RegionDrawResult {
	rs := e.regions
	e.regions = nil
	return rs
}

// visibleLayers returns the controller's vector layers bottom to top.
func (m Model) visibleLayers() []*mapview.VectorLayer {
	sm := m.ctl.Map()
	if sm == nil {
		return nil
	}
	var out []*mapview.VectorLayer
	for _, l := range sm.Layers() {
		if vl, ok := l.(*mapview.VectorLayer); ok && vl.Visible() {
			out = append(out, vl)
		}
	}
	return out
}
