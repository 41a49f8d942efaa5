// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package nyaa

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Hit is one raw search result as reported by the backend. Counts are nil when
// the backend did not report them.
type Hit struct {
	Title     string `json:"title"`
	Size      string `json:"size,omitempty"`
	Date      string `json:"date,omitempty"`
	Seeders   *int   `json:"seeders,omitempty"`
	Leechers  *int   `json:"leechers,omitempty"`
	Downloads *int   `json:"downloads,omitempty"`
	Link      string `json:"link,omitempty"`
	Magnet    string `json:"magnet,omitempty"`
}

type searchResponse struct {
	Results []Hit `json:"results"`
}

// UnmarshalJSON accepts counts and sizes as either JSON numbers or strings,
// since scrapers disagree on the representation.
func (h *Hit) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title     json.RawMessage `json:"title"`
		Size      json.RawMessage `json:"size"`
		Date      json.RawMessage `json:"date"`
		Seeders   json.RawMessage `json:"seeders"`
		Leechers  json.RawMessage `json:"leechers"`
		Downloads json.RawMessage `json:"downloads"`
		Link      json.RawMessage `json:"link"`
		Magnet    json.RawMessage `json:"magnet"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*h = Hit{
		Title:     rawString(raw.Title),
		Size:      rawString(raw.Size),
		Date:      rawString(raw.Date),
		Seeders:   rawCount(raw.Seeders),
		Leechers:  rawCount(raw.Leechers),
		Downloads: rawCount(raw.Downloads),
		Link:      rawString(raw.Link),
		Magnet:    rawString(raw.Magnet),
	}
	return nil
}

func rawString(msg json.RawMessage) string {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 || bytes.Equal(msg, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var n json.Number
	if err := json.Unmarshal(msg, &n); err == nil {
		return n.String()
	}
	return ""
}

func rawCount(msg json.RawMessage) *int {
	s := rawString(msg)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", "")

	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return &n
	}
	// float64(math.MaxInt) rounds up to 2^63, which int cannot hold
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 && f < float64(math.MaxInt) {
		n := int(f)
		return &n
	}
	return nil
}
