package tui

import (
	"context"
	"fmt"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"questmap/internal/geodata"
	"questmap/internal/mapctl"
	"questmap/internal/mapview"
)

const requestTimeout = 20 * time.Second

type worldItem struct {
	world geodata.World
}

func (w worldItem) Title() string {
	if w.world.Name != "" {
		return w.world.Name
	}
	return w.world.ID
}

func (w worldItem) Description() string {
	if w.world.WidthPixels > 0 && w.world.HeightPixels > 0 {
		return fmt.Sprintf("%s  %dx%d", w.world.ID, w.world.WidthPixels, w.world.HeightPixels)
	}
	return w.world.ID
}

func (w worldItem) FilterValue() string { return w.Title() + " " + w.world.ID }

type catalogMsg struct {
	worlds      []geodata.World
	tileSets    []geodata.TileSet
	err         error
	tileSetsErr error
}

type regionsMsg struct {
	worldID  string
	features []*mapview.Feature
	err      error
}

type regionSavedMsg struct {
	feature *mapview.Feature
	err     error
}

func loadCatalog(b Backend) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		var msg catalogMsg
		msg.worlds, msg.err = b.ListWorlds(ctx)
		if msg.err != nil {
			return msg
		}
		msg.tileSets, msg.tileSetsErr = b.ListTileSets(ctx)
		return msg
	}
}

func loadRegions(b Backend, campaignID, worldID string) tea.Cmd {
	if campaignID == "" || worldID == "" {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		fs, err := b.ListRegions(ctx, campaignID, worldID)
		return regionsMsg{worldID: worldID, features: fs, err: err}
	}
}

// newRegion turns a completed draw into a region record. The seed carries
// the id, world and name chosen when drawing started.
func newRegion(campaignID string, r mapctl.RegionDrawResult) geodata.Region {
	reg := geodata.Region{
		CampaignID: campaignID,
		Geometry:   r.Geometry,
		Context:    r.Context,
	}
	if id, ok := r.Context["id"].(string); ok && id != "" {
		reg.ID = id
	} else {
		reg.ID = uuid.NewString()
	}
	reg.WorldID, _ = r.Context["world_id"].(string)
	reg.Name, _ = r.Context["name"].(string)
	return reg
}

func saveRegion(b Backend, reg geodata.Region) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := b.SaveRegion(ctx, reg); err != nil {
			return regionSavedMsg{err: err}
		}
		f, err := reg.Feature()
		return regionSavedMsg{feature: f, err: err}
	}
}

func (m *Model) applyCatalog(msg catalogMsg) tea.Cmd {
	if msg.err != nil {
		m.ev.Error("load worlds: " + msg.err.Error())
		return nil
	}
	m.worlds = msg.worlds
	items := make([]list.Item, 0, len(msg.worlds))
	for _, w := range msg.worlds {
		items = append(items, worldItem{world: w})
	}
	m.l.SetItems(items)
	m.ctl.SetTileSets(msg.tileSets)
	if msg.tileSetsErr != nil {
		m.log.Warn().Err(msg.tileSetsErr).Msg("tile sets unavailable")
	}

	if len(msg.worlds) == 0 {
		m.ev.Error("no worlds available")
		return nil
	}
	pick := msg.worlds[0]
	for _, w := range msg.worlds {
		if w.ID == m.initWorld {
			pick = w
			break
		}
	}
	return m.selectWorld(pick)
}

// selectWorld makes w the active world with its matching imagery and loads
// the campaign regions drawn on it.
func (m *Model) selectWorld(w geodata.World) tea.Cmd {
	m.ev.Info("world: " + worldItem{world: w}.Title())
	tileSetID := ""
	if ts, ok := m.ctl.TileSetForWorld(w.ID); ok {
		tileSetID = ts.ID
	}
	if err := m.ctl.SelectTileSet(tileSetID); err != nil {
		m.ev.Error(err.Error())
	}
	m.ctl.SetRegions(nil)
	return tea.Batch(m.ctl.SetWorld(w), loadRegions(m.backend, m.campaignID, w.ID))
}

// cycleTileSet advances to the next tile set, with "none" after the last.
func (m *Model) cycleTileSet() {
	sets := m.ctl.TileSets()
	if len(sets) == 0 {
		m.ev.Info("no tile sets configured")
		return
	}
	next := 0
	if cur := m.ctl.TileSet(); cur != nil {
		for i, ts := range sets {
			if ts.ID == cur.ID {
				next = i + 1
				break
			}
		}
	}
	if next == len(sets) {
		_ = m.ctl.SelectTileSet("")
		m.ev.Info("tiles: none")
		return
	}
	if err := m.ctl.SelectTileSet(sets[next].ID); err != nil {
		m.ev.Error(err.Error())
		return
	}
	if m.ctl.MapError() == "" {
		m.ev.Info("tiles: " + sets[next].ID)
	}
}

// startDraw arms a region draw on the active world.
func (m *Model) startDraw() {
	w := m.ctl.World()
	if w.ID == "" || m.ctl.Map() == nil {
		m.ev.Error("select a world before drawing a region")
		return
	}
	id := uuid.NewString()
	m.ctl.StartRegionDraw(map[string]any{
		"id":       id,
		"world_id": w.ID,
		"name":     "Region " + id[:8],
	})
}
