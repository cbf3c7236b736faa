package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	RunMetadata
	Energy []float64 `json:"energy"`
}

// ExportJSON writes a run and its energy trace as one indented document.
func ExportJSON(w io.Writer, meta RunMetadata, energy []float64) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: meta, Energy: energy})
}
