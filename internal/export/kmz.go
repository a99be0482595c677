package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/banshee-data/suitability.report/internal/raster"
)

// KML document structures for a single GroundOverlay.

type kml struct {
	XMLName  xml.Name `xml:"kml"`
	XMLNS    string   `xml:"xmlns,attr"`
	Document kmlDoc   `xml:"Document"`
}

type kmlDoc struct {
	Name    string     `xml:"name"`
	Overlay kmlOverlay `xml:"GroundOverlay"`
}

type kmlOverlay struct {
	Name      string    `xml:"name"`
	Icon      kmlIcon   `xml:"Icon"`
	LatLonBox latLonBox `xml:"LatLonBox"`
}

type kmlIcon struct {
	Href string `xml:"href"`
}

type latLonBox struct {
	North float64 `xml:"north"`
	South float64 `xml:"south"`
	East  float64 `xml:"east"`
	West  float64 `xml:"west"`
}

// WriteKMZ writes a KMZ archive holding a KML GroundOverlay and the rendered
// PNG of the grid. The grid's extent is taken as geographic degrees, matching
// the engine-wide single-reference-system assumption.
func WriteKMZ(w io.Writer, g *raster.Grid, name string) error {
	var pngBuf bytes.Buffer
	if err := WritePNG(&pngBuf, g); err != nil {
		return fmt.Errorf("rendering overlay image: %w", err)
	}

	doc := kml{
		XMLNS: "http://www.opengis.net/kml/2.2",
		Document: kmlDoc{
			Name: name,
			Overlay: kmlOverlay{
				Name: name,
				Icon: kmlIcon{Href: "files/overlay.png"},
				LatLonBox: latLonBox{
					North: g.Extent.YMax,
					South: g.Extent.YMin,
					East:  g.Extent.XMax,
					West:  g.Extent.XMin,
				},
			},
		},
	}

	zw := zip.NewWriter(w)

	kw, err := zw.Create("doc.kml")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(kw, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(kw)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding KML: %w", err)
	}

	pw, err := zw.Create("files/overlay.png")
	if err != nil {
		return err
	}
	if _, err := pw.Write(pngBuf.Bytes()); err != nil {
		return err
	}

	return zw.Close()
}
