package models

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Extra holds object members the editor does not model. They are read
// on import and written back unchanged on export.
type Extra map[string]json.RawMessage

// splitExtra returns the members of the JSON object data whose names are
// not in known, or nil when there are none.
func splitExtra(data []byte, known ...string) (Extra, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return Extra(all), nil
}

// appendExtra adds the extra members to the encoded object obj, after
// the modelled ones and in name order. Names already present in obj
// are skipped.
func appendExtra(obj []byte, extra Extra, known ...string) ([]byte, error) {
	if len(extra) == 0 {
		return obj, nil
	}

	skip := make(map[string]bool, len(known))
	for _, k := range known {
		skip[k] = true
	}
	names := make([]string, 0, len(extra))
	for name := range extra {
		if !skip[name] {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return obj, nil
	}
	sort.Strings(names)

	var buf bytes.Buffer
	buf.Write(bytes.TrimSuffix(bytes.TrimSpace(obj), []byte("}")))
	for i, name := range names {
		if i > 0 || len(bytes.TrimSpace(buf.Bytes())) > 1 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(extra[name])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
