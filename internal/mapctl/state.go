package mapctl

import "questmap/internal/mapview"

// Phase is the lifecycle of the current map instance. Ready and
// Programmatic both count as ready; Programmatic additionally marks that the
// camera is being moved by code, so the next settle is not attributed to the
// user.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseSizing
	PhaseReady
	PhaseProgrammatic
)

func (p Phase) String() string {
	switch p {
	case PhaseSizing:
		return "sizing"
	case PhaseReady:
		return "ready"
	case PhaseProgrammatic:
		return "programmatic"
	default:
		return "uninitialized"
	}
}

// DrawState tracks the region draw session.
type DrawState int

const (
	DrawIdle DrawState = iota
	// DrawArmed has an interaction attached but no vertex placed yet.
	DrawArmed
	DrawDrawing
)

// DataType is a vector data category the loader can fetch.
type DataType string

const (
	DataBurgs   DataType = "burgs"
	DataRoutes  DataType = "routes"
	DataRivers  DataType = "rivers"
	DataMarkers DataType = "markers"
	DataCells   DataType = "cells"
)

// DataTypes lists every category in fetch order.
var DataTypes = []DataType{DataBurgs, DataRoutes, DataRivers, DataMarkers, DataCells}

// CellsMinZoom is the lowest integer zoom at which cells are fetched.
const CellsMinZoom = 10

// Category maps a data type to the category of the features it yields.
func (d DataType) Category() mapview.Category {
	switch d {
	case DataBurgs:
		return mapview.CategoryBurg
	case DataRoutes:
		return mapview.CategoryRoute
	case DataRivers:
		return mapview.CategoryRiver
	case DataMarkers:
		return mapview.CategoryMarker
	case DataCells:
		return mapview.CategoryCell
	}
	return mapview.Category(d)
}

// DataTypeSet is an unordered set of data types.
type DataTypeSet map[DataType]struct{}

func (s DataTypeSet) Has(d DataType) bool {
	_, ok := s[d]
	return ok
}

// DataTypesForZoom returns the categories eligible at integer zoom z. Cells
// join the base four only from CellsMinZoom up.
func DataTypesForZoom(z int) DataTypeSet {
	s := DataTypeSet{DataBurgs: {}, DataRoutes: {}, DataRivers: {}, DataMarkers: {}}
	if z >= CellsMinZoom {
		s[DataCells] = struct{}{}
	}
	return s
}

// LayerVisibility is the user's per-category on/off choice. It survives
// world switches and remounts.
type LayerVisibility map[DataType]bool

// DefaultVisibility shows every category.
func DefaultVisibility() LayerVisibility {
	v := make(LayerVisibility, len(DataTypes))
	for _, d := range DataTypes {
		v[d] = true
	}
	return v
}

func (v LayerVisibility) clone() LayerVisibility {
	out := make(LayerVisibility, len(v))
	for k, on := range v {
		out[k] = on
	}
	return out
}
