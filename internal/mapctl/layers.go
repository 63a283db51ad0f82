package mapctl

import "questmap/internal/mapview"

// Layer names, bottom to top.
const (
	LayerBase      = "base"
	LayerCells     = "cells"
	LayerRivers    = "rivers"
	LayerRoutes    = "routes"
	LayerRegions   = "regions"
	LayerBurgs     = "burgs"
	LayerMarkers   = "markers"
	LayerDraw      = "draw"
	LayerSpawn     = "spawn"
	LayerHighlight = "highlight"
)

type layerSet struct {
	base      *mapview.TileLayer
	cells     *mapview.VectorLayer
	rivers    *mapview.VectorLayer
	routes    *mapview.VectorLayer
	regions   *mapview.VectorLayer
	burgs     *mapview.VectorLayer
	markers   *mapview.VectorLayer
	draw      *mapview.VectorLayer
	spawn     *mapview.VectorLayer
	highlight *mapview.VectorLayer
}

func newLayerSet() *layerSet {
	return &layerSet{
		base:      mapview.NewTileLayer(LayerBase, 0),
		cells:     mapview.NewVectorLayer(LayerCells, 1),
		rivers:    mapview.NewVectorLayer(LayerRivers, 2),
		routes:    mapview.NewVectorLayer(LayerRoutes, 3),
		regions:   mapview.NewVectorLayer(LayerRegions, 4),
		burgs:     mapview.NewVectorLayer(LayerBurgs, 5),
		markers:   mapview.NewVectorLayer(LayerMarkers, 6),
		draw:      mapview.NewVectorLayer(LayerDraw, 7),
		spawn:     mapview.NewVectorLayer(LayerSpawn, 8),
		highlight: mapview.NewVectorLayer(LayerHighlight, 9),
	}
}

func (l *layerSet) all() []mapview.Layer {
	return []mapview.Layer{
		l.base, l.cells, l.rivers, l.routes, l.regions,
		l.burgs, l.markers, l.draw, l.spawn, l.highlight,
	}
}

// forType returns the layer fed by a data type.
func (l *layerSet) forType(d DataType) *mapview.VectorLayer {
	switch d {
	case DataBurgs:
		return l.burgs
	case DataRoutes:
		return l.routes
	case DataRivers:
		return l.rivers
	case DataMarkers:
		return l.markers
	case DataCells:
		return l.cells
	}
	return nil
}

// clearData empties every loader-fed layer.
func (l *layerSet) clearData() {
	for _, d := range DataTypes {
		l.forType(d).Source().Clear()
	}
}
