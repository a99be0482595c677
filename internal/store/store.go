// Package store persists named raster layers in sqlite and serves them to
// the overlay pipeline. Grids are stored gob-encoded and gzip-compressed in a
// single blob column; layer metadata lives in ordinary columns.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/suitability.report/internal/overlay"
	"github.com/banshee-data/suitability.report/internal/raster"
)

// LayerMeta describes a stored raster layer.
type LayerMeta struct {
	Name             string        `json:"name"`
	Description      string        `json:"description,omitempty"`
	Exclusion        bool          `json:"exclusion"`
	Rows             int           `json:"rows"`
	Cols             int           `json:"cols"`
	CellSize         float64       `json:"cell_size"`
	Extent           raster.Extent `json:"extent"`
	NoData           float64       `json:"nodata"`
	CreatedUnixNanos int64         `json:"created_unix_nanos"`
}

// Store is a sqlite-backed layer store. It implements overlay.GridStore.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the layer database at path. The base schema is
// created when missing; use the Migrate* methods for versioned evolution
// beyond it.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS raster_layers (
			name               TEXT PRIMARY KEY,
			description        TEXT NOT NULL DEFAULT '',
			is_exclusion       INTEGER NOT NULL DEFAULT 0,
			rows               INTEGER NOT NULL,
			cols               INTEGER NOT NULL,
			cell_size          REAL NOT NULL,
			xmin               REAL NOT NULL,
			ymin               REAL NOT NULL,
			xmax               REAL NOT NULL,
			ymax               REAL NOT NULL,
			nodata             REAL NOT NULL,
			grid_blob          BLOB NOT NULL,
			created_unix_nanos INTEGER NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Put inserts or replaces a layer. The grid's own geometry wins over
// whatever the caller put in meta.
func (s *Store) Put(meta LayerMeta, g *raster.Grid) error {
	blob, err := serializeCells(g.Cells)
	if err != nil {
		return fmt.Errorf("serializing layer %s: %w", meta.Name, err)
	}
	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO raster_layers
		(name, description, is_exclusion, rows, cols, cell_size, xmin, ymin, xmax, ymax, nodata, grid_blob, created_unix_nanos)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.Name, meta.Description, boolToInt(meta.Exclusion),
		g.Rows, g.Cols, g.CellSize,
		g.Extent.XMin, g.Extent.YMin, g.Extent.XMax, g.Extent.YMax,
		g.NoData, blob, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("storing layer %s: %w", meta.Name, err)
	}
	return nil
}

// Lookup returns the named grid. Missing layers wrap overlay.ErrUnknownLayer.
func (s *Store) Lookup(name string) (*raster.Grid, error) {
	row := s.db.QueryRow(`
		SELECT rows, cols, cell_size, xmin, ymin, xmax, ymax, nodata, grid_blob
		FROM raster_layers WHERE name = ?`, name)

	var g raster.Grid
	var blob []byte
	err := row.Scan(&g.Rows, &g.Cols, &g.CellSize,
		&g.Extent.XMin, &g.Extent.YMin, &g.Extent.XMax, &g.Extent.YMax,
		&g.NoData, &blob)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", overlay.ErrUnknownLayer, name)
	}
	if err != nil {
		return nil, fmt.Errorf("loading layer %s: %w", name, err)
	}

	cells, err := deserializeCells(blob)
	if err != nil {
		return nil, fmt.Errorf("decoding layer %s: %w", name, err)
	}
	if len(cells) != g.Rows*g.Cols {
		return nil, fmt.Errorf("layer %s: blob holds %d cells, header says %dx%d", name, len(cells), g.Rows, g.Cols)
	}
	g.Cells = cells
	return &g, nil
}

// ExclusionMask returns the layer's exclusion classification as a binary
// grid: 1 where the stored cell is valid and nonzero, 0 otherwise.
func (s *Store) ExclusionMask(name string) (*raster.Grid, error) {
	g, err := s.Lookup(name)
	if err != nil {
		return nil, err
	}
	return binaryMask(g), nil
}

// Meta returns a layer's metadata without decoding its grid blob.
func (s *Store) Meta(name string) (*LayerMeta, error) {
	row := s.db.QueryRow(`
		SELECT name, description, is_exclusion, rows, cols, cell_size, xmin, ymin, xmax, ymax, nodata, created_unix_nanos
		FROM raster_layers WHERE name = ?`, name)
	m, err := scanMeta(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", overlay.ErrUnknownLayer, name)
	}
	if err != nil {
		return nil, fmt.Errorf("loading layer %s metadata: %w", name, err)
	}
	return m, nil
}

// List returns metadata for every stored layer, ordered by name.
func (s *Store) List() ([]LayerMeta, error) {
	rows, err := s.db.Query(`
		SELECT name, description, is_exclusion, rows, cols, cell_size, xmin, ymin, xmax, ymax, nodata, created_unix_nanos
		FROM raster_layers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LayerMeta
	for rows.Next() {
		m, err := scanMeta(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMeta(row scanner) (*LayerMeta, error) {
	var m LayerMeta
	var excl int
	err := row.Scan(&m.Name, &m.Description, &excl, &m.Rows, &m.Cols, &m.CellSize,
		&m.Extent.XMin, &m.Extent.YMin, &m.Extent.XMax, &m.Extent.YMax,
		&m.NoData, &m.CreatedUnixNanos)
	if err != nil {
		return nil, err
	}
	m.Exclusion = excl != 0
	return &m, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// binaryMask extracts the exclusion classification from a layer grid.
func binaryMask(g *raster.Grid) *raster.Grid {
	out := raster.NewGrid(g.Extent, g.CellSize, g.NoData)
	out.Fill(0)
	for i, v := range g.Cells {
		if !g.IsNoData(v) && v != 0 {
			out.Cells[i] = 1
		}
	}
	return out
}
