package models

import (
	"encoding/json"
	"time"
)

// DefaultVersion is the dataset version a fresh glossary starts with
const DefaultVersion = "14.15"

// Metadata describes the glossary as a whole
type Metadata struct {
	Version     string    `json:"version"`
	LastUpdated time.Time `json:"last_updated"`
	Editor      string    `json:"editor"`
	// Extra keeps unmodelled members of the metadata object
	Extra       Extra     `json:"-"`
}

var metadataKeys = []string{"version", "last_updated", "editor"}

type metadataJSON struct {
	Version     string `json:"version"`
	LastUpdated string `json:"last_updated"`
	Editor      string `json:"editor"`
}

// MarshalJSON writes the modelled fields followed by any extra members
func (m Metadata) MarshalJSON() ([]byte, error) {
	type plain Metadata
	data, err := json.Marshal(plain(m))
	if err != nil {
		return nil, err
	}
	return appendExtra(data, m.Extra, metadataKeys...)
}

// UnmarshalJSON accepts any last_updated string; values that are not
// RFC 3339 are left zero since the next save restamps them anyway.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var w metadataJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	extra, err := splitExtra(data, metadataKeys...)
	if err != nil {
		return err
	}
	m.Version = w.Version
	m.Editor = w.Editor
	m.Extra = extra
	m.LastUpdated = time.Time{}
	if ts, err := time.Parse(time.RFC3339Nano, w.LastUpdated); err == nil {
		m.LastUpdated = ts
	}
	return nil
}

// Glossary is the whole persisted dataset. Term order is display order.
type Glossary struct {
	Metadata Metadata `json:"metadata"`
	Terms    []Term   `json:"terms"`
}

// NewGlossary returns an empty glossary stamped at now
func NewGlossary(version, editor string, now time.Time) Glossary {
	if version == "" {
		version = DefaultVersion
	}
	return Glossary{
		Metadata: Metadata{
			Version:     version,
			LastUpdated: now,
			Editor:      editor,
		},
		Terms: []Term{},
	}
}

// Clone returns a copy that shares no term slice with g.
// Terms is never nil in the result so it always encodes as an array.
func (g Glossary) Clone() Glossary {
	out := g
	out.Terms = make([]Term, len(g.Terms))
	copy(out.Terms, g.Terms)
	return out
}

// Stats is the summary shown above the table
type Stats struct {
	Version     string    `json:"version"`
	TotalTerms  int       `json:"total_terms"`
	LastUpdated time.Time `json:"last_updated"`
}

// Stats summarises g
func (g Glossary) Stats() Stats {
	return Stats{
		Version:     g.Metadata.Version,
		TotalTerms:  len(g.Terms),
		LastUpdated: g.Metadata.LastUpdated,
	}
}
