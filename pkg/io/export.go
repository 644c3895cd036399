package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/sidereal/pkg/chart"
)

// Version is the chart document format written by this package.
const Version = 1

// Document is the on-disk form of a chart.
type Document struct {
	Version     int          `json:"version"`
	Provider    string       `json:"provider,omitempty"`
	GeneratedAt time.Time    `json:"generated_at"`
	Chart       *chart.Chart `json:"chart"`
}

// NewDocument wraps c for export, stamped with the current time.
func NewDocument(c *chart.Chart, provider string) Document {
	return Document{
		Version:     Version,
		Provider:    provider,
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		Chart:       c,
	}
}

// WriteJSON encodes doc as indented JSON to w.
func WriteJSON(doc Document, w io.Writer) error {
	if doc.Chart == nil {
		return fmt.Errorf("encode: document has no chart")
	}
	if doc.Version == 0 {
		doc.Version = Version
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes doc to a JSON file at path.
func ExportJSON(doc Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(doc, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
