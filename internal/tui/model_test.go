package tui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"questmap/internal/geodata"
	"questmap/internal/geom"
	"questmap/internal/mapctl"
	"questmap/internal/mapview"
)

var (
	_ Backend = (*geodata.Client)(nil)
	_ Backend = (*geodata.FileSource)(nil)
)

type fakeBackend struct {
	mu       sync.Mutex
	worlds   []geodata.World
	tileSets []geodata.TileSet
	burgs    []*mapview.Feature
	saved    []geodata.Region
}

func (f *fakeBackend) LoadBurgs(context.Context, string, geom.Bounds) ([]*mapview.Feature, error) {
	return f.burgs, nil
}

func (f *fakeBackend) LoadRoutes(context.Context, string, geom.Bounds) ([]*mapview.Feature, error) {
	return nil, nil
}

func (f *fakeBackend) LoadRivers(context.Context, string, geom.Bounds) ([]*mapview.Feature, error) {
	return nil, nil
}

func (f *fakeBackend) LoadMarkers(context.Context, string, geom.Bounds) ([]*mapview.Feature, error) {
	return nil, nil
}

func (f *fakeBackend) LoadCells(context.Context, string, geom.Bounds) ([]*mapview.Feature, error) {
	return nil, nil
}

func (f *fakeBackend) ListWorlds(context.Context) ([]geodata.World, error) { return f.worlds, nil }

func (f *fakeBackend) ListTileSets(context.Context) ([]geodata.TileSet, error) {
	return f.tileSets, nil
}

func (f *fakeBackend) SaveRegion(_ context.Context, r geodata.Region) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, r)
	return nil
}

func (f *fakeBackend) ListRegions(context.Context, string, string) ([]*mapview.Feature, error) {
	return nil, nil
}

func immediate(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// drive runs cmd and everything it leads to through the model.
func drive(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 500 {
			t.Fatalf("command chain did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, cmd := m.Update(msg)
			m = next.(Model)
			queue = append(queue, cmd)
		}
	}
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	return drive(t, next.(Model), cmd)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func newTestModel(t *testing.T, campaign string) (Model, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{
		worlds: []geodata.World{
			{ID: "w1", Name: "First", Bounds: &geom.Bounds{West: 0, South: -1000, East: 2000, North: 0}},
			{ID: "w2", Name: "Second", Bounds: &geom.Bounds{West: 0, South: -500, East: 500, North: 0}},
		},
		tileSets: []geodata.TileSet{
			{ID: "t1", BaseURL: "http://tiles.local/t1", WorldID: "w1"},
			{ID: "t2", BaseURL: "http://tiles.local/t2", WorldID: "w2"},
		},
		burgs: []*mapview.Feature{
			{ID: "b1", Category: mapview.CategoryBurg, Name: "Aster", Geometry: orb.Point{1000, -500}, Raw: map[string]any{"population": 1200.0}},
		},
	}
	m := New(Options{
		Backend:    fb,
		Controller: mapctl.Options{Yield: immediate, Settle: immediate},
		World:      "w1",
		CampaignID: campaign,
	})
	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = drive(t, m, m.Init())
	return m, fb
}

func TestModelStartsOnConfiguredWorld(t *testing.T) {
	m, _ := newTestModel(t, "")
	ctl := m.Controller()
	if !ctl.MapReady() {
		t.Fatalf("map not ready")
	}
	if ctl.World().ID != "w1" {
		t.Errorf("world = %q, want w1", ctl.World().ID)
	}
	if ts := ctl.TileSet(); ts == nil || ts.ID != "t1" {
		t.Errorf("tile set = %v, want t1", ts)
	}
	if got := ctl.Layer(mapctl.LayerBurgs).Source().Len(); got != 1 {
		t.Errorf("burgs = %d, want 1", got)
	}
	if w, h := m.lay.surfaceSize(); ctl.Map().Size() != [2]int{w, h} {
		t.Errorf("surface size = %v, want %dx%d", ctl.Map().Size(), w, h)
	}
	if v := m.View(); !strings.Contains(v, "questmap") || !strings.Contains(v, "First") {
		t.Errorf("View() missing header")
	}
	if !strings.ContainsFunc(m.renderMap(m.lay.mapW, m.lay.mapH), func(r rune) bool { return r > 0x2800 && r <= 0x28FF }) {
		t.Errorf("renderMap drew no braille")
	}
}

func TestToggleLayerKey(t *testing.T) {
	m, _ := newTestModel(t, "")
	m = send(t, m, key("1"))
	if m.Controller().Visibility()[mapctl.DataBurgs] {
		t.Errorf("burgs still visible after pressing 1")
	}
	m = send(t, m, key("1"))
	if !m.Controller().Visibility()[mapctl.DataBurgs] {
		t.Errorf("burgs hidden after pressing 1 twice")
	}
}

func TestCycleTileSets(t *testing.T) {
	m, _ := newTestModel(t, "")
	want := []string{"t2", "", "t1"}
	for _, id := range want {
		m = send(t, m, key("t"))
		got := ""
		if ts := m.Controller().TileSet(); ts != nil {
			got = ts.ID
		}
		if got != id {
			t.Errorf("after t: tile set = %q, want %q", got, id)
		}
	}
}

func TestHoverHighlightsFeature(t *testing.T) {
	m, _ := newTestModel(t, "")
	sm := m.Controller().Map()
	x, y := sm.CoordinateToPixel(orb.Point{1000, -500})
	cx, cy := int(x)/2, int(y)/4
	m = send(t, m, tea.MouseMsg{X: cx + m.lay.mapX, Y: cy + m.lay.mapY, Action: tea.MouseActionMotion})
	if f := m.Controller().Highlighted(); f == nil || f.ID != "b1" {
		t.Fatalf("highlighted = %v, want b1", f)
	}
	m = send(t, m, key("a"))
	if !m.showAttrs || len(m.tbl.Rows()) != 1 {
		t.Errorf("attrs shown = %v rows = %d, want burg table", m.showAttrs, len(m.tbl.Rows()))
	}
}

func TestDrawRegionSavesToCampaign(t *testing.T) {
	m, fb := newTestModel(t, "camp-1")
	m = send(t, m, key("r"))
	if m.Controller().DrawState() != mapctl.DrawArmed {
		t.Fatalf("draw state = %v, want armed", m.Controller().DrawState())
	}
	for _, p := range [][2]int{{10, 5}, {40, 5}, {25, 15}} {
		m = send(t, m, click(p[0], p[1]))
	}
	m = send(t, m, key("enter"))

	if len(fb.saved) != 1 {
		t.Fatalf("saved regions = %d, want 1", len(fb.saved))
	}
	reg := fb.saved[0]
	if reg.CampaignID != "camp-1" || reg.WorldID != "w1" || !strings.HasPrefix(reg.Name, "Region ") {
		t.Errorf("region = %+v", reg)
	}
	if got := m.Controller().Layer(mapctl.LayerRegions).Source().Len(); got != 1 {
		t.Errorf("regions layer = %d, want 1", got)
	}
	if m.Controller().IsDrawingRegion() {
		t.Errorf("still drawing after enter")
	}
}

func TestPasteRegionWithoutCampaign(t *testing.T) {
	m, fb := newTestModel(t, "")
	m = send(t, m, key("p"))
	if !m.pasteMode {
		t.Fatalf("paste mode not entered")
	}
	m.ta.SetValue("POLYGON((100 -100, 400 -100, 400 -300, 100 -100))")
	m = send(t, m, key("enter"))

	if len(fb.saved) != 0 {
		t.Errorf("saved = %d, want 0 without a campaign", len(fb.saved))
	}
	if got := m.Controller().Layer(mapctl.LayerRegions).Source().Len(); got != 1 {
		t.Errorf("regions layer = %d, want 1", got)
	}
	if m.pasteMode {
		t.Errorf("paste mode still on")
	}
}

func TestEscAbortsDraw(t *testing.T) {
	m, fb := newTestModel(t, "camp-1")
	m = send(t, m, key("r"))
	m = send(t, m, click(10, 5))
	m = send(t, m, key("esc"))
	if m.Controller().IsDrawingRegion() {
		t.Errorf("still drawing after esc")
	}
	if len(fb.saved) != 0 {
		t.Errorf("saved = %d after abort, want 0", len(fb.saved))
	}
}

func TestRemountKeepsLocalRegions(t *testing.T) {
	m, _ := newTestModel(t, "")
	m = send(t, m, key("p"))
	m.ta.SetValue("POLYGON((100 -100, 400 -100, 400 -300, 100 -100))")
	m = send(t, m, key("enter"))
	old := m.Controller().Map()

	m = send(t, m, key("R"))
	ctl := m.Controller()
	if !old.Disposed() || ctl.Map() == old {
		t.Fatalf("R did not rebuild the map")
	}
	if !ctl.MapReady() {
		t.Fatalf("map not ready after remount")
	}
	if got := ctl.Layer(mapctl.LayerRegions).Source().Len(); got != 1 {
		t.Errorf("regions layer = %d after remount, want 1", got)
	}
	if got := ctl.Layer(mapctl.LayerBurgs).Source().Len(); got != 1 {
		t.Errorf("burgs = %d after remount, want 1", got)
	}
}
