package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/banshee-data/suitability.report/internal/overlay"
	"github.com/banshee-data/suitability.report/internal/raster"
)

// MemStore is an in-memory layer store for tests and ad hoc runs. It
// implements overlay.GridStore.
type MemStore struct {
	mu     sync.RWMutex
	layers map[string]memLayer
}

type memLayer struct {
	grid        *raster.Grid
	exclusion   bool
	description string
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{layers: make(map[string]memLayer)}
}

// Add registers a plain input layer under name.
func (m *MemStore) Add(name string, g *raster.Grid) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layers[name] = memLayer{grid: g}
}

// AddExclusion registers an exclusion-flagged layer under name.
func (m *MemStore) AddExclusion(name string, g *raster.Grid) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layers[name] = memLayer{grid: g, exclusion: true}
}

// Lookup returns a copy of the named grid so callers cannot alias stored
// state. Missing layers wrap overlay.ErrUnknownLayer.
func (m *MemStore) Lookup(name string) (*raster.Grid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.layers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", overlay.ErrUnknownLayer, name)
	}
	return l.grid.Clone(), nil
}

// ExclusionMask returns the layer's exclusion classification as a binary
// grid, matching Store.ExclusionMask.
func (m *MemStore) ExclusionMask(name string) (*raster.Grid, error) {
	g, err := m.Lookup(name)
	if err != nil {
		return nil, err
	}
	return binaryMask(g), nil
}

// List returns metadata for every registered layer, ordered by name.
func (m *MemStore) List() ([]LayerMeta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]LayerMeta, 0, len(m.layers))
	for name, l := range m.layers {
		out = append(out, LayerMeta{
			Name:        name,
			Description: l.description,
			Exclusion:   l.exclusion,
			Rows:        l.grid.Rows,
			Cols:        l.grid.Cols,
			CellSize:    l.grid.CellSize,
			Extent:      l.grid.Extent,
			NoData:      l.grid.NoData,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
