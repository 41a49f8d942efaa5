// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package episodes

import (
	"bytes"
	"encoding/json"
	"maps"
	"strconv"
	"strings"
)

// CanonicalField is the key the normalised episode number is written under.
const CanonicalField = "episodeNumber"

// numberFields are the upstream keys that may carry the episode number, in
// order of preference.
var numberFields = []string{"number", "ep", "episode", CanonicalField}

// Episode is an upstream episode object. The original fields are preserved
// as-is; Number is the episode number found under any of the known keys.
type Episode struct {
	Number *float64
	Fields map[string]any
}

// NewEpisode adapts fields, deriving Number from the first known key that holds
// a non-zero number or numeric string.
func NewEpisode(fields map[string]any) Episode {
	e := Episode{Fields: fields}
	for _, key := range numberFields {
		if n, ok := toNumber(fields[key]); ok && n != 0 {
			e.Number = &n
			break
		}
	}
	return e
}

// SortKey returns Number, or 0 when absent.
func (e Episode) SortKey() float64 {
	if e.Number == nil {
		return 0
	}
	return *e.Number
}

func (e *Episode) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return err
	}
	*e = NewEpisode(fields)
	return nil
}

// MarshalJSON writes the original fields plus the canonical episodeNumber, which
// is null when no number was found.
func (e Episode) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Fields)+1)
	maps.Copy(out, e.Fields)
	if e.Number != nil {
		out[CanonicalField] = *e.Number
	} else {
		out[CanonicalField] = nil
	}
	return json.Marshal(out)
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}
