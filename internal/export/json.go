package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/kerrsim/internal/storage"
	"github.com/san-kum/kerrsim/internal/tracer"
)

type RayData struct {
	X [4]float64 `json:"x"`
	P [4]float64 `json:"p"`
	U [4]float64 `json:"u"`
}

type ExportData struct {
	Run  storage.RunMetadata `json:"run"`
	Rays []RayData           `json:"rays"`
}

func NewExportData(meta *storage.RunMetadata, rays []tracer.Ray) ExportData {
	data := ExportData{Run: *meta, Rays: make([]RayData, len(rays))}
	for i, r := range rays {
		data.Rays[i] = RayData{X: r.X, P: r.P, U: r.U}
	}
	return data
}

func WriteJSON(w io.Writer, meta *storage.RunMetadata, rays []tracer.Ray) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewExportData(meta, rays))
}

func ExportJSON(path string, meta *storage.RunMetadata, rays []tracer.Ray) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, meta, rays)
}

func ExportJSONStdout(meta *storage.RunMetadata, rays []tracer.Ray) error {
	return WriteJSON(os.Stdout, meta, rays)
}
