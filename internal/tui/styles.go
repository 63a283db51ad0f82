package tui

import (
	"github.com/charmbracelet/lipgloss"

	"questmap/internal/mapctl"
)

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")
	orangeFg  = lipgloss.Color("#FFA500")

	appStyle     = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(baseDimFg)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	gridStyle    = lipgloss.NewStyle().Foreground(borderCol)
	markerStyle  = lipgloss.NewStyle().Foreground(orangeFg).Bold(true)
)

type layerStyle struct {
	style lipgloss.Style
	fill  bool
}

var layerStyles = map[string]layerStyle{
	mapctl.LayerCells:     {style: lipgloss.NewStyle().Foreground(lipgloss.Color("#374151"))},
	mapctl.LayerRivers:    {style: lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))},
	mapctl.LayerRoutes:    {style: lipgloss.NewStyle().Foreground(lipgloss.Color("#A16207"))},
	mapctl.LayerRegions:   {style: lipgloss.NewStyle().Foreground(accentFg), fill: true},
	mapctl.LayerBurgs:     {style: lipgloss.NewStyle().Foreground(baseFg).Bold(true)},
	mapctl.LayerMarkers:   {style: lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))},
	mapctl.LayerDraw:      {style: lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))},
	mapctl.LayerSpawn:     {style: markerStyle},
	mapctl.LayerHighlight: {style: lipgloss.NewStyle().Foreground(orangeFg)},
}

func styleForLayer(name string) layerStyle {
	if st, ok := layerStyles[name]; ok {
		return st
	}
	return layerStyle{style: appStyle}
}

func statusStyle(l statusLevel) lipgloss.Style {
	switch l {
	case levelError:
		return errorStyle
	case levelSuccess:
		return successStyle
	default:
		return dimStyle
	}
}
