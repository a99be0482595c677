package store

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"fmt"
)

// serializeCells compresses grid cells using gob encoding and gzip.
func serializeCells(cells []float64) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := gob.NewEncoder(gz)
	if err := enc.Encode(cells); err != nil {
		gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// deserializeCells decompresses and decodes grid cells from a gob+gzip blob.
func deserializeCells(blob []byte) ([]float64, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("empty grid blob")
	}
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	var cells []float64
	dec := gob.NewDecoder(gz)
	if err := dec.Decode(&cells); err != nil {
		return nil, fmt.Errorf("failed to decode grid cells: %w", err)
	}
	return cells, nil
}
