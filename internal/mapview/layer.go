package mapview

// Layer is what a Map stacks. Layers draw in ascending z order.
type Layer interface {
	Name() string
	Visible() bool
	Opacity() float64
	ZIndex() int
}

type layerState struct {
	name    string
	visible bool
	opacity float64
	z       int
}

func (l *layerState) Name() string         { return l.name }
func (l *layerState) Visible() bool        { return l.visible }
func (l *layerState) SetVisible(v bool)    { l.visible = v }
func (l *layerState) Opacity() float64     { return l.opacity }
func (l *layerState) SetOpacity(o float64) { l.opacity = o }
func (l *layerState) ZIndex() int          { return l.z }

// VectorLayer draws the features of its source.
type VectorLayer struct {
	layerState
	source *VectorSource
}

func NewVectorLayer(name string, z int) *VectorLayer {
	return &VectorLayer{
		layerState: layerState{name: name, visible: true, opacity: 1, z: z},
		source:     NewVectorSource(),
	}
}

func (l *VectorLayer) Source() *VectorSource { return l.source }

// TileLayer draws raster tiles from an optional TileSource.
type TileLayer struct {
	layerState
	source *TileSource
}

func NewTileLayer(name string, z int) *TileLayer {
	return &TileLayer{layerState: layerState{name: name, visible: false, opacity: 1, z: z}}
}

func (l *TileLayer) Source() *TileSource { return l.source }

// SetSource swaps the tile source; nil leaves the layer without imagery.
func (l *TileLayer) SetSource(s *TileSource) { l.source = s }
