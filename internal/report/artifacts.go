package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/suitability.report/internal/export"
	"github.com/banshee-data/suitability.report/internal/overlay"
)

// WriteArtifacts writes the full artifact set for a finished run into
// dir/<run id>: the cost grid as Esri ASCII, PNG and KMZ, the HTML report,
// and the histogram plot. Returns artifact name -> path.
func WriteArtifacts(dir string, res *overlay.Result, req overlay.Request, descriptions map[string]string) (map[string]string, error) {
	runDir := filepath.Join(dir, res.RunID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run dir: %w", err)
	}

	paths := map[string]string{}
	write := func(name string, fn func(f *os.File) error) error {
		p := filepath.Join(runDir, name)
		f, err := os.Create(p)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := fn(f); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		paths[name] = p
		return nil
	}

	if err := write("cost.asc", func(f *os.File) error { return export.WriteASC(f, res.Grid) }); err != nil {
		return nil, err
	}
	if err := write("cost.png", func(f *os.File) error { return export.WritePNG(f, res.Grid) }); err != nil {
		return nil, err
	}
	if err := write("cost.kmz", func(f *os.File) error { return export.WriteKMZ(f, res.Grid, "suitability "+res.RunID) }); err != nil {
		return nil, err
	}
	if err := write("report.html", func(f *os.File) error { return WriteHTML(f, res, req, descriptions) }); err != nil {
		return nil, err
	}

	histPath := filepath.Join(runDir, "histogram.png")
	if err := SaveHistogramPNG(res.Grid, histPath); err != nil {
		return nil, err
	}
	paths["histogram.png"] = histPath

	return paths, nil
}
