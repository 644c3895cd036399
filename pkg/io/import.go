package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadJSON decodes a chart document from r.
//
// It fails if the JSON is malformed, names an unknown body or sign, carries
// a version newer than [Version], or lacks positions or a full set of house
// cusps. ReadJSON does not close r.
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	if err := validate(doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// ImportJSON reads a chart document from the file at path.
func ImportJSON(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := ReadJSON(f)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func validate(doc Document) error {
	switch {
	case doc.Version < 1 || doc.Version > Version:
		return fmt.Errorf("unsupported document version %d", doc.Version)
	case doc.Chart == nil:
		return fmt.Errorf("document has no chart")
	case len(doc.Chart.Positions) == 0:
		return fmt.Errorf("chart has no positions")
	case doc.Chart.Houses == nil || len(doc.Chart.Houses.Cusps) != 12:
		return fmt.Errorf("chart needs 12 house cusps")
	}
	seen := make(map[string]bool, len(doc.Chart.Positions))
	for _, p := range doc.Chart.Positions {
		name := p.Body.String()
		if seen[name] {
			return fmt.Errorf("position %s: duplicate body", name)
		}
		seen[name] = true
		if p.Longitude < 0 || p.Longitude >= 360 {
			return fmt.Errorf("position %s: longitude %v outside [0, 360)", name, p.Longitude)
		}
	}
	return nil
}
