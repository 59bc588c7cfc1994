package glossary

import (
	"encoding/json"
	"fmt"

	"github.com/meur/termforge/internal/models"
)

// StorageKey is the key the glossary blob is persisted under
const StorageKey = "glossary"

// Decode parses text, runs Validate over it and only then builds the
// typed glossary. Syntax errors come back as *ParseError, structural
// defects as *DefectError.
func Decode(text []byte) (models.Glossary, error) {
	var raw any
	if err := json.Unmarshal(text, &raw); err != nil {
		return models.Glossary{}, &ParseError{Err: err}
	}

	if defects := Validate(raw); len(defects) > 0 {
		return models.Glossary{}, &DefectError{Defects: defects}
	}

	var g models.Glossary
	if err := json.Unmarshal(text, &g); err != nil {
		return models.Glossary{}, &ParseError{Err: err}
	}
	if g.Terms == nil {
		g.Terms = []models.Term{}
	}
	return g, nil
}

// Encode renders the export file body: two-space indented JSON with a
// trailing newline.
func Encode(g models.Glossary) ([]byte, error) {
	data, err := json.MarshalIndent(g.Clone(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode glossary: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportFilename names the download for a glossary version
func ExportFilename(version string) string {
	return fmt.Sprintf("glossary_v%s.json", version)
}
