package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"questmap/internal/geom"
	"questmap/internal/mapctl"
)

// panStep is how far one arrow key moves the map, in surface pixels.
const panStep = 8

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.ctl.Update(msg)}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cmds = append(cmds, m.relayout())
	case catalogMsg:
		cmds = append(cmds, m.applyCatalog(msg))
	case regionsMsg:
		switch {
		case msg.err != nil:
			m.log.Warn().Err(msg.err).Str("world", msg.worldID).Msg("loading regions")
			m.ev.Error("load regions: " + msg.err.Error())
		case msg.worldID == m.ctl.World().ID:
			m.ctl.SetRegions(msg.features)
		}
	case regionSavedMsg:
		if msg.err != nil {
			m.ev.Error("save region: " + msg.err.Error())
			break
		}
		m.ctl.AddRegion(msg.feature)
		m.ev.Success("region saved: " + msg.feature.Name)
	case mapctl.LayersLoadedMsg:
		if m.showAttrs {
			m.refreshAttrs()
		}
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))
	}

	for _, r := range m.ev.takeRegions() {
		reg := newRegion(m.campaignID, r)
		if m.campaignID == "" {
			f, err := reg.Feature()
			if err == nil {
				m.ctl.AddRegion(f)
			}
			m.ev.Info("no campaign configured; region kept for this session only")
			continue
		}
		cmds = append(cmds, saveRegion(m.backend, reg))
	}
	return m, tea.Batch(cmds...)
}

// relayout recomputes the screen split and hands the map area to the
// controller.
func (m *Model) relayout() tea.Cmd {
	m.lay = computeLayout(m.width, m.height, m.showSidebar)
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, m.lay.contentH-2)
	}
	return m.ctl.Resize(m.lay.surfaceSize())
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// If list is visible and filtering, send keys to list and ignore global commands
	if m.showSidebar && m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return cmd
	}
	if m.pasteMode {
		return m.handlePasteKey(msg)
	}
	if m.showAttrs {
		switch msg.String() {
		case "up", "down", "pgup", "pgdown", "home", "end":
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return cmd
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "1", "2", "3", "4", "5":
		d := mapctl.DataTypes[int(msg.String()[0]-'1')]
		m.ctl.ToggleLayer(d)
		m.ev.Info(fmt.Sprintf("%s: %v", d, m.ctl.Visibility()[d]))
	case "l":
		vis := m.ctl.Visibility()
		all := true
		for _, d := range mapctl.DataTypes {
			all = all && vis[d]
		}
		for _, d := range mapctl.DataTypes {
			m.ctl.SetLayerVisible(d, !all)
		}
		m.ev.Info(fmt.Sprintf("layers: %v", !all))
	case "+", "=":
		return m.ctl.ZoomBy(1, nil)
	case "-", "_":
		return m.ctl.ZoomBy(-1, nil)
	case "f":
		return m.ctl.ResetView()
	case "R":
		m.ev.Info("remounting map")
		return tea.Batch(m.ctl.Remount(), loadRegions(m.backend, m.campaignID, m.ctl.World().ID))
	case "t":
		m.cycleTileSet()
	case "tab":
		m.showSidebar = !m.showSidebar
		return m.relayout()
	case "r":
		m.startDraw()
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.ta.Focus()
		m.ev.Info("paste mode")
	case "s":
		m.placeSpawn()
	case "h":
		m.helpVisible = !m.helpVisible
	case "a":
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.refreshAttrs()
		}
	case "i":
		m.inspectPopup = m.inspectText()
	case "esc":
		switch {
		case m.ctl.IsDrawingRegion():
			m.ctl.AbortDraw()
		case m.inspectPopup != "":
			m.inspectPopup = ""
		case m.showAttrs:
			m.showAttrs = false
		}
	case "enter":
		if m.ctl.IsDrawingRegion() {
			m.ctl.FinishDraw()
			return nil
		}
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(worldItem); ok {
				return m.selectWorld(it.world)
			}
		}
	case "up":
		if m.showSidebar {
			return m.updateList(msg)
		}
		return m.ctl.Pan(0, -panStep)
	case "down":
		if m.showSidebar {
			return m.updateList(msg)
		}
		return m.ctl.Pan(0, panStep)
	case "left":
		return m.ctl.Pan(-panStep, 0)
	case "right":
		return m.ctl.Pan(panStep, 0)
	default:
		if m.showSidebar {
			return m.updateList(msg)
		}
	}
	return nil
}

func (m *Model) updateList(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.l, cmd = m.l.Update(msg)
	return cmd
}

// handlePasteKey feeds the textarea. Enter completes a region from the
// pasted WKT, starting a draw session if none is armed.
func (m *Model) handlePasteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		return nil
	case "enter":
		w := strings.TrimSpace(m.ta.Value())
		if w == "" {
			m.ev.Info("paste: empty")
			return nil
		}
		g, err := geom.ParseWKT(w)
		if err != nil {
			m.ev.Error("wkt error: " + err.Error())
			return nil
		}
		if !m.ctl.IsDrawingRegion() {
			m.startDraw()
		}
		m.ctl.FinishDrawWith(g)
		m.pasteMode = false
		m.ta.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !m.lay.contains(msg.X, msg.Y) {
		m.hovering = false
		m.dragging = false
		return nil
	}
	m.hovering = true
	m.hoverCellX = msg.X - m.lay.mapX
	m.hoverCellY = msg.Y - m.lay.mapY
	px, py := cellCenter(m.hoverCellX, m.hoverCellY)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		return m.ctl.ZoomBy(1, &[2]float64{px, py})
	case msg.Button == tea.MouseButtonWheelDown:
		return m.ctl.ZoomBy(-1, &[2]float64{px, py})
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if m.ctl.IsDrawingRegion() {
			m.ctl.AddDrawVertex(px, py)
			return nil
		}
		m.dragging, m.dragX, m.dragY = true, msg.X, msg.Y
	case msg.Action == tea.MouseActionRelease:
		m.dragging = false
	case msg.Action == tea.MouseActionMotion:
		if m.dragging && msg.Button == tea.MouseButtonLeft {
			dx, dy := (msg.X-m.dragX)*2, (msg.Y-m.dragY)*4
			m.dragX, m.dragY = msg.X, msg.Y
			if dx == 0 && dy == 0 {
				return nil
			}
			return m.ctl.Pan(-float64(dx), -float64(dy))
		}
		m.updateHover(px, py)
	}
	return nil
}

func (m *Model) updateHover(px, py float64) {
	f := pickFeature(m.ctl.Map(), m.visibleLayers(), px, py, hoverRadius)
	if f != m.ctl.Highlighted() {
		m.ctl.SetHighlight(f)
	}
}

// placeSpawn puts the spawn marker under the pointer, or clears it when the
// pointer is off the map.
func (m *Model) placeSpawn() {
	sm := m.ctl.Map()
	if sm == nil || !m.hovering {
		m.ctl.SetSpawn(nil)
		m.ev.Info("spawn cleared")
		return
	}
	pt := sm.PixelToCoordinate(cellCenter(m.hoverCellX, m.hoverCellY))
	m.ctl.SetSpawn(&pt)
	m.ev.Info(fmt.Sprintf("spawn: %.0f, %.0f", pt[0], pt[1]))
}
