package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"questmap/internal/mapctl"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lay := m.lay

	// Header
	header := titleStyle.Render(" questmap ─ " + m.headerText() + " ")
	header = lipgloss.NewStyle().Width(lay.contentW).Padding(0).Render(header)

	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	var mapView string
	switch {
	case m.showAttrs:
		// Render attributes table centered in the map area
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		if colW == 0 {
			colW = min(60, lay.contentW-6)
		}
		maxW := min(lay.mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(lay.mapH-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(lay.mapW, lay.mapH, lipgloss.Center, lipgloss.Center, attrsBox)
	case m.pasteMode:
		m.ta.SetWidth(lay.mapW)
		m.ta.SetHeight(min(lay.mapH, 12))
		mapView = lipgloss.NewStyle().Width(lay.mapW).Height(lay.mapH).Render(m.ta.View())
	default:
		mapView = lipgloss.NewStyle().Width(lay.mapW).Height(lay.mapH).Render(m.renderMap(lay.mapW, lay.mapH))
	}

	// Inspect popup box (center-left overlay, not in map column)
	popup := ""
	if m.inspectPopup != "" && !m.showAttrs {
		maxPopupW := max(20, min(48, lay.contentW/2))
		box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MaxWidth(maxPopupW).Render(m.inspectPopup)
		popup = lipgloss.Place(lay.contentW, lay.contentH, lipgloss.Left, lipgloss.Center, box)
	}

	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	help := m.renderHelp()
	status := statusStyle(m.ev.level).Render(" " + m.ev.status + " ")
	coords := dimStyle.Render("  " + m.coordText() + "  ")
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, help)
	spacerW := max(0, lay.contentW-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(lay.contentW).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, popup, body, footer)
	return appStyle.Width(lay.contentW).Height(m.height).Render(ui)
}

func (m Model) headerText() string {
	w := m.ctl.World()
	parts := []string{"no world"}
	if w.ID != "" {
		parts[0] = worldItem{world: w}.Title()
	}
	if ts := m.ctl.TileSet(); ts != nil {
		parts = append(parts, "tiles "+ts.ID)
	}
	if m.ctl.Loading() {
		parts = append(parts, "loading")
	}
	if m.ctl.IsDrawingRegion() {
		parts = append(parts, "drawing")
	}
	return strings.Join(parts, " · ")
}

// coordText shows the map coordinate under the pointer and the zoom.
func (m Model) coordText() string {
	sm := m.ctl.Map()
	if sm == nil || !m.ctl.MapReady() {
		return m.ctl.Phase().String()
	}
	z := sm.View().Zoom()
	if !m.hovering {
		return fmt.Sprintf("z=%.1f", z)
	}
	pt := sm.PixelToCoordinate(cellCenter(m.hoverCellX, m.hoverCellY))
	return fmt.Sprintf("x=%.0f y=%.0f z=%.1f", pt[0], pt[1], z)
}

// inspectText summarizes the view and the highlighted feature.
func (m Model) inspectText() string {
	sm := m.ctl.Map()
	if sm == nil || !m.ctl.MapReady() {
		return "map not ready"
	}
	w := m.ctl.World()
	view := sm.View()
	c := view.Center()
	meta := []string{
		fmt.Sprintf("world: %s", w.ID),
		fmt.Sprintf("center: %.0f, %.0f", c[0], c[1]),
		fmt.Sprintf("zoom: %.2f [%.0f-%.0f]", view.Zoom(), view.MinZoom(), view.MaxZoom()),
	}
	if b := w.EffectiveBounds(); b != nil {
		meta = append(meta, fmt.Sprintf("bounds: [%.0f, %.0f, %.0f, %.0f]", b.West, b.South, b.East, b.North))
	}
	counts := make([]string, 0, len(mapctl.DataTypes))
	for _, d := range mapctl.DataTypes {
		if l := m.ctl.Layer(string(d)); l != nil {
			counts = append(counts, fmt.Sprintf("%s=%d", d, l.Source().Len()))
		}
	}
	meta = append(meta, "features: "+strings.Join(counts, " "))
	if f := m.ctl.Highlighted(); f != nil {
		meta = append(meta, fmt.Sprintf("feature: %s %s", f.Category, f.ID))
		if f.Name != "" {
			meta = append(meta, "name: "+f.Name)
		}
	}
	if err := m.ctl.MapError(); err != "" {
		meta = append(meta, "error: "+err)
	}
	return strings.Join(meta, "\n")
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"1-5 layers",
		"f fit",
		"R remount",
		"t tiles",
		"r region",
		"p paste",
		"s spawn",
		"Tab worlds",
		"a attrs",
		"i inspect",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
