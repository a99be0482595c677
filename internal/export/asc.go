// Package export writes run artifacts: Esri ASCII grids, color-ramped PNGs,
// and KMZ ground overlays. It consumes finished grids only; no overlay logic
// lives here.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/suitability.report/internal/raster"
)

// ReadASC parses an Esri ASCII grid. Only corner-referenced headers
// (xllcorner/yllcorner) are supported; NODATA_value defaults to -9999 when
// the header omits it.
func ReadASC(r io.Reader) (*raster.Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)

	header := map[string]float64{}
	nodata := -9999.0
	var values []float64

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		key := strings.ToLower(fields[0])
		if len(fields) == 2 && isHeaderKey(key) {
			v, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, fmt.Errorf("header %s: %w", key, err)
			}
			if key == "nodata_value" {
				nodata = v
			} else {
				header[key] = v
			}
			continue
		}
		if key == "xllcenter" || key == "yllcenter" {
			return nil, fmt.Errorf("center-referenced headers are not supported")
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("cell value %q: %w", f, err)
			}
			values = append(values, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	for _, k := range []string{"ncols", "nrows", "xllcorner", "yllcorner", "cellsize"} {
		if _, ok := header[k]; !ok {
			return nil, fmt.Errorf("missing header %s", k)
		}
	}
	cols := int(header["ncols"])
	rows := int(header["nrows"])
	if len(values) != cols*rows {
		return nil, fmt.Errorf("expected %d cell values, got %d", cols*rows, len(values))
	}

	cs := header["cellsize"]
	ext := raster.Extent{
		XMin: header["xllcorner"],
		YMin: header["yllcorner"],
		XMax: header["xllcorner"] + float64(cols)*cs,
		YMax: header["yllcorner"] + float64(rows)*cs,
	}
	g := raster.NewGrid(ext, cs, nodata)
	copy(g.Cells, values) // ASC rows run north to south, same as ours
	return g, nil
}

func isHeaderKey(k string) bool {
	switch k {
	case "ncols", "nrows", "xllcorner", "yllcorner", "cellsize", "nodata_value":
		return true
	}
	return false
}

// WriteASC writes g as an Esri ASCII grid.
func WriteASC(w io.Writer, g *raster.Grid) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ncols %d\n", g.Cols)
	fmt.Fprintf(bw, "nrows %d\n", g.Rows)
	fmt.Fprintf(bw, "xllcorner %g\n", g.Extent.XMin)
	fmt.Fprintf(bw, "yllcorner %g\n", g.Extent.YMin)
	fmt.Fprintf(bw, "cellsize %g\n", g.CellSize)
	fmt.Fprintf(bw, "NODATA_value %g\n", g.NoData)
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			if col > 0 {
				bw.WriteByte(' ')
			}
			fmt.Fprintf(bw, "%g", g.At(row, col))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
