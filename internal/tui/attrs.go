package tui

import (
	"fmt"
	"sort"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
	"github.com/goccy/go-json"

	"questmap/internal/mapctl"
	"questmap/internal/mapview"
)

var categoryLayers = map[mapview.Category]string{
	mapview.CategoryBurg:             mapctl.LayerBurgs,
	mapview.CategoryRoute:            mapctl.LayerRoutes,
	mapview.CategoryRiver:            mapctl.LayerRivers,
	mapview.CategoryMarker:           mapctl.LayerMarkers,
	mapview.CategoryCell:             mapctl.LayerCells,
	mapview.CategoryCampaignLocation: mapctl.LayerRegions,
}

// attrsLayer picks the layer shown in the attributes table: the layer of the
// highlighted feature, else burgs.
func (m Model) attrsLayer() *mapview.VectorLayer {
	name := mapctl.LayerBurgs
	if f := m.ctl.Highlighted(); f != nil {
		if n, ok := categoryLayers[f.Category]; ok {
			name = n
		}
	}
	return m.ctl.Layer(name)
}

// refreshAttrs rebuilds the table columns/rows from the attributes layer
func (m *Model) refreshAttrs() {
	l := m.attrsLayer()
	if l == nil {
		m.showAttrs = false
		return
	}
	cols, rows := buildAttributes(l.Source().Features())
	// If there are no columns or rows, disable attributes view to avoid rendering panics
	if len(cols) == 0 || len(rows) == 0 {
		m.showAttrs = false
		m.ev.Info("no attributes for " + l.Name())
		return
	}
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	maxColW := 24
	for _, c := range cols {
		tcols = append(tcols, table.Column{Title: c, Width: min(len(c)+2, maxColW)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make([]string, 0, len(r)+1)
		row = append(row, strconv.Itoa(i+1))
		row = append(row, r...)
		trows = append(trows, table.Row(row))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
	m.ev.Info(fmt.Sprintf("attributes: %s (%d)", l.Name(), len(trows)))
}

// buildAttributes unions the raw attribute keys of fs. id and name lead,
// the rest are sorted.
func buildAttributes(fs []*mapview.Feature) ([]string, [][]string) {
	if len(fs) == 0 {
		return nil, nil
	}
	seen := map[string]bool{"id": true, "name": true}
	var extra []string
	for _, f := range fs {
		for k := range f.Raw {
			if !seen[k] {
				seen[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	cols := append([]string{"id", "name"}, extra...)

	rows := make([][]string, 0, len(fs))
	for _, f := range fs {
		vals := make([]string, 0, len(cols))
		vals = append(vals, f.ID, f.Name)
		for _, k := range extra {
			vals = append(vals, attrString(f.Raw[k]))
		}
		rows = append(rows, vals)
	}
	return cols, rows
}

func attrString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		bs, _ := json.Marshal(t)
		return string(bs)
	}
}
