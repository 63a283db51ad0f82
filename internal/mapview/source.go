package mapview

// VectorSource holds the features of one layer. Revision increments on every
// mutation so renderers can skip unchanged sources.
type VectorSource struct {
	features []*Feature
	revision int
}

func NewVectorSource() *VectorSource { return &VectorSource{} }

func (s *VectorSource) Features() []*Feature { return s.features }
func (s *VectorSource) Len() int             { return len(s.features) }
func (s *VectorSource) Revision() int        { return s.revision }

func (s *VectorSource) Clear() {
	s.features = nil
	s.revision++
}

func (s *VectorSource) AddFeature(f *Feature) {
	s.features = append(s.features, f)
	s.revision++
}

func (s *VectorSource) AddFeatures(fs []*Feature) {
	if len(fs) == 0 {
		return
	}
	s.features = append(s.features, fs...)
	s.revision++
}

// FeatureByID returns the first feature with id, or nil.
func (s *VectorSource) FeatureByID(id string) *Feature {
	for _, f := range s.features {
		if f.ID == id {
			return f
		}
	}
	return nil
}
