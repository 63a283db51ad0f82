// Package mapctl drives the map surface: it owns the lifecycle of the map
// instance, keeps the camera in step with the active world, swaps base
// imagery, loads vector layers for the visible area and runs region drawing.
//
// The controller is a bubbletea sub-model. Every method runs inside the
// host's Update turn; asynchronous work comes back as messages that the host
// forwards to Controller.Update.
package mapctl

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"questmap/internal/geodata"
	"questmap/internal/geom"
	"questmap/internal/mapview"
	"questmap/internal/metrics"
	"questmap/internal/viewstate"
)

var (
	// ErrZoomRange marks a tile set whose max_zoom is below its min_zoom.
	ErrZoomRange = errors.New("tile set zoom range is inverted")
	// ErrNoTileSet is returned when a tile set id is not in the listing.
	ErrNoTileSet = errors.New("tile set not found")
)

const (
	defaultFrameInterval = 16 * time.Millisecond
	defaultSettleDelay   = 150 * time.Millisecond
	defaultZoom          = 2
	permissiveMinZoom    = 0
	permissiveMaxZoom    = 20
)

// DataSource supplies vector features for a world within bounds.
type DataSource interface {
	LoadBurgs(ctx context.Context, worldID string, b geom.Bounds) ([]*mapview.Feature, error)
	LoadRoutes(ctx context.Context, worldID string, b geom.Bounds) ([]*mapview.Feature, error)
	LoadRivers(ctx context.Context, worldID string, b geom.Bounds) ([]*mapview.Feature, error)
	LoadMarkers(ctx context.Context, worldID string, b geom.Bounds) ([]*mapview.Feature, error)
	LoadCells(ctx context.Context, worldID string, b geom.Bounds) ([]*mapview.Feature, error)
}

// Options configures a Controller. Only Source is required.
type Options struct {
	Source   DataSource
	Views    *viewstate.Store
	Notifier Notifier
	// OnError receives configuration and tile errors. Defaults to Notifier.Error.
	OnError func(msg string)
	// OnRegionDrawComplete receives each completed region exactly once.
	OnRegionDrawComplete func(RegionDrawResult)
	Logger               *zerolog.Logger
	Metrics              *metrics.Metrics
	Visibility           LayerVisibility
	// Yield defers a message by one frame. Settle defers the end-of-move
	// notification after user input. Both default to tea.Tick.
	Yield         func(tea.Msg) tea.Cmd
	Settle        func(tea.Msg) tea.Cmd
	FrameInterval time.Duration
	SettleDelay   time.Duration
}

type container struct {
	w, h    int
	surface *mapview.Map
}

func (c container) sized() bool { return c.w > 0 && c.h > 0 }

// fitState tracks fits performed by the current map instance.
type fitState struct {
	fittedWorlds map[string]bool
	lastExtent   *geom.Extent
	lastSize     [2]int
	signature    string
}

func newFitState() fitState {
	return fitState{fittedWorlds: make(map[string]bool), signature: geom.UnknownBoundsSignature}
}

// Controller coordinates the map surface with world data. Create one with New.
type Controller struct {
	source   DataSource
	views    *viewstate.Store
	notifier Notifier
	onError  func(string)
	onRegion func(RegionDrawResult)
	log      zerolog.Logger
	metrics  *metrics.Metrics
	yield    func(tea.Msg) tea.Cmd
	settle   func(tea.Msg) tea.Cmd

	proj      *geom.Projection
	container container
	m         *mapview.Map
	layers    *layerSet
	phase     Phase
	gen       int
	initSeq   int
	moveSeq   int
	fit       fitState
	loading   bool

	world      geodata.World
	visibility LayerVisibility
	tileSets   []geodata.TileSet
	tileSet    *geodata.TileSet
	mapErr     string
	tileErr    string

	draw drawSession
}

func New(opts Options) *Controller {
	c := &Controller{
		source:     opts.Source,
		views:      opts.Views,
		notifier:   opts.Notifier,
		onError:    opts.OnError,
		onRegion:   opts.OnRegionDrawComplete,
		metrics:    opts.Metrics,
		yield:      opts.Yield,
		settle:     opts.Settle,
		proj:       geom.NewProjection(),
		layers:     newLayerSet(),
		fit:        newFitState(),
		visibility: DefaultVisibility(),
	}
	if opts.Logger != nil {
		c.log = opts.Logger.With().Str("component", "mapctl").Logger()
	} else {
		c.log = zerolog.Nop()
	}
	if c.views == nil {
		c.views = viewstate.NewStore()
	}
	if c.notifier == nil {
		c.notifier = logNotifier{log: c.log}
	}
	if opts.Visibility != nil {
		c.visibility = opts.Visibility.clone()
	}
	if c.yield == nil {
		frame := opts.FrameInterval
		if frame <= 0 {
			frame = defaultFrameInterval
		}
		c.yield = TickYield(frame)
	}
	if c.settle == nil {
		delay := opts.SettleDelay
		if delay <= 0 {
			delay = defaultSettleDelay
		}
		c.settle = TickYield(delay)
	}
	return c
}

// Update handles the controller's own messages and ignores everything else.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case initRetryMsg:
		return c.awaitContainer(msg.seq)
	case sizeCheckMsg:
		return c.checkSize(msg.gen)
	case extentRetryMsg:
		if msg.gen != c.gen {
			return nil
		}
		return c.UpdateViewExtent(msg.bounds, msg.opts)
	case settleMsg:
		return c.handleSettle(msg)
	case LayersLoadedMsg:
		return c.applyLayers(msg)
	}
	return nil
}

// MapReady reports whether the current instance has been sized and fitted.
func (c *Controller) MapReady() bool { return c.phase >= PhaseReady }

func (c *Controller) Phase() Phase { return c.phase }

// MapError is the last configuration error shown to the user, or "".
func (c *Controller) MapError() string { return c.mapErr }

// Map is the current surface, nil before InitializeMap builds one.
func (c *Controller) Map() *mapview.Map { return c.m }

func (c *Controller) Projection() *geom.Projection { return c.proj }
func (c *Controller) World() geodata.World         { return c.world }
func (c *Controller) TileSet() *geodata.TileSet    { return c.tileSet }
func (c *Controller) TileSets() []geodata.TileSet  { return c.tileSets }
func (c *Controller) Loading() bool                { return c.loading }

// Visibility returns a copy of the per-category visibility.
func (c *Controller) Visibility() LayerVisibility { return c.visibility.clone() }

// Layer returns the vector layer with the given name, or nil.
func (c *Controller) Layer(name string) *mapview.VectorLayer {
	for _, l := range c.layers.all() {
		if vl, ok := l.(*mapview.VectorLayer); ok && vl.Name() == name {
			return vl
		}
	}
	return nil
}

// BaseLayer is the imagery layer.
func (c *Controller) BaseLayer() *mapview.TileLayer { return c.layers.base }

func (c *Controller) reportError(msg string) {
	c.mapErr = msg
	c.log.Error().Msg(msg)
	if c.onError != nil {
		c.onError(msg)
		return
	}
	c.notifier.Error(msg)
}
