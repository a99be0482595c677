// layer-import ingests Esri ASCII grids into the layer store so they can be
// referenced by name in overlay requests.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/suitability.report/internal/export"
	"github.com/banshee-data/suitability.report/internal/store"
)

func main() {
	var dbPath string
	var name string
	var desc string
	var exclusion bool

	flag.StringVar(&dbPath, "db", "suitability.db", "path to sqlite layer db")
	flag.StringVar(&name, "name", "", "layer name (defaults to the file name without extension)")
	flag.StringVar(&desc, "desc", "", "human-readable layer description")
	flag.BoolVar(&exclusion, "exclusion", false, "register the layer as an exclusion mask")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: layer-import [flags] <grid.asc>")
	}
	path := flag.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("open grid: %v", err)
	}
	defer f.Close()

	g, err := export.ReadASC(f)
	if err != nil {
		log.Fatalf("parse grid: %v", err)
	}

	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	st, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer st.Close()

	meta := store.LayerMeta{
		Name:        name,
		Description: desc,
		Exclusion:   exclusion,
	}
	if err := st.Put(meta, g); err != nil {
		log.Fatalf("store layer: %v", err)
	}

	kind := "layer"
	if exclusion {
		kind = "exclusion layer"
	}
	fmt.Printf("imported %s %q: %dx%d cells, cell size %g\n", kind, name, g.Rows, g.Cols, g.CellSize)
}
