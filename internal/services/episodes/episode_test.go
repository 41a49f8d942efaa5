// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package episodes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpisodeAdapter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  *float64
	}{
		{name: "number", input: `{"number": 3, "title": "x"}`, want: floatPtr(3)},
		{name: "ep", input: `{"ep": 4}`, want: floatPtr(4)},
		{name: "episode", input: `{"episode": "5"}`, want: floatPtr(5)},
		{name: "episodeNumber", input: `{"episodeNumber": 6.5}`, want: floatPtr(6.5)},
		{name: "zero falls through", input: `{"number": 0, "ep": 7}`, want: floatPtr(7)},
		{name: "preference order", input: `{"episode": 9, "number": 8}`, want: floatPtr(8)},
		{name: "non numeric", input: `{"number": "special"}`},
		{name: "missing", input: `{"title": "OVA"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var ep Episode
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ep))
			assert.Equal(t, tt.want, ep.Number)
		})
	}
}

func TestEpisodeMarshalKeepsFields(t *testing.T) {
	t.Parallel()

	var ep Episode
	require.NoError(t, json.Unmarshal([]byte(`{"ep": "2", "title": "Dandadan", "aired": true}`), &ep))

	data, err := json.Marshal(ep)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ep": "2", "title": "Dandadan", "aired": true, "episodeNumber": 2}`, string(data))

	missing := NewEpisode(map[string]any{"title": "OVA"})
	data, err = json.Marshal(missing)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title": "OVA", "episodeNumber": null}`, string(data))
}

func floatPtr(v float64) *float64 { return &v }
