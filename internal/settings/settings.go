// Package settings defines the wire schema (§6) for a fitted spec's
// per-transformer summaries, and its JSON codec.
package settings

import (
	"encoding/json"
	"fmt"
)

// Entry is one transformer's settings row: its name, its constructor
// params, and its opaque encoded aggregator string (nil if the transformer
// never contributed, e.g. an all-skipped optional field).
type Entry struct {
	Name       string            `json:"name"`
	Params     map[string]string `json:"params"`
	Aggregator *string           `json:"aggregators"`
}

// Settings is the ordered, per-spec sequence of entry settings.
type Settings []Entry

// Marshal encodes settings as the JSON array described in spec §6.
func Marshal(s Settings) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("settings: marshal: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a JSON settings array. Unknown extra fields on each
// object are tolerated (encoding/json ignores them by default).
func Unmarshal(data []byte) (Settings, error) {
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("settings: malformed: %w", err)
	}
	return s, nil
}

// ByName indexes settings by transformer name for lookup during replay.
func (s Settings) ByName() map[string]Entry {
	m := make(map[string]Entry, len(s))
	for _, e := range s {
		m[e.Name] = e
	}
	return m
}
