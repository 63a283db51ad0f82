// Package viewstate remembers the camera of each world so switching worlds
// and back restores what the user was looking at.
package viewstate

import (
	"sync"

	"github.com/paulmach/orb"

	"questmap/internal/geom"
)

// Entry is the remembered camera for one world.
type Entry struct {
	Center orb.Point
	// Zoom and Resolution are nil when the view could not report a finite value.
	Zoom       *float64
	Resolution *float64
	Extent     geom.Extent
	Size       [2]int
	// BoundsSignature ties the entry to the world bounds it was taken under.
	BoundsSignature string
	// UserAdjusted is set once the user pans or zooms and survives
	// programmatic refits until a forced reset.
	UserAdjusted bool
}

// Store maps world id to its last camera. It outlives map instances.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

func (s *Store) Get(worldID string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[worldID]
	return e, ok
}

func (s *Store) Set(worldID string, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[worldID] = e
}

func (s *Store) Delete(worldID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, worldID)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
