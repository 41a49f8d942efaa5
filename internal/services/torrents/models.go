// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package torrents

// TorrentRecord is the structured view of one search hit. Absent fields are
// omitted from JSON; a nil Season is read as season 1 by the matcher.
type TorrentRecord struct {
	Filename    string      `json:"filename"`
	Name        string      `json:"name,omitempty"`
	Quality     string      `json:"quality,omitempty"`
	Source      string      `json:"source,omitempty"`
	Codecs      []string    `json:"codecs,omitempty"`
	Audio       []string    `json:"audio,omitempty"`
	Subtitles   []string    `json:"subtitles,omitempty"`
	Languages   []string    `json:"languages,omitempty"`
	Meta        []string    `json:"meta,omitempty"`
	Subber      string      `json:"subber,omitempty"`
	Website     string      `json:"website,omitempty"`
	Producer    string      `json:"producer,omitempty"`
	Hash        string      `json:"hash,omitempty"`
	Format      string      `json:"format,omitempty"`
	Year        *int        `json:"year,omitempty"`
	Version     *int        `json:"version,omitempty"`
	Part        *int        `json:"part,omitempty"`
	Movie       bool        `json:"movie,omitempty"`
	Season      *int        `json:"season,omitempty"`
	Episode     *int        `json:"episode,omitempty"`
	EpisodeEnd  *int        `json:"episode_end,omitempty"`
	TorrentInfo TorrentInfo `json:"torrent_info"`
}

// TorrentInfo carries the transfer details reported by the backend.
type TorrentInfo struct {
	Size         string   `json:"size,omitempty"`
	SizeValue    *float64 `json:"size_value,omitempty"`
	SizeUnit     string   `json:"size_unit,omitempty"`
	SizeBytes    *int64   `json:"size_bytes,omitempty"`
	DateReadable string   `json:"date_readable,omitempty"`
	DateYear     *int     `json:"date_year,omitempty"`
	DateMonth    *int     `json:"date_month,omitempty"`
	DateDay      *int     `json:"date_day,omitempty"`
	DateHour     *int     `json:"date_hour,omitempty"`
	DateMinute   *int     `json:"date_minute,omitempty"`
	DateSecond   *int     `json:"date_second,omitempty"`
	DateWeekday  string   `json:"date_dayOfWeek,omitempty"`
	DateISO      string   `json:"date_iso,omitempty"`
	Seeders      *int     `json:"seeders,omitempty"`
	Leechers     *int     `json:"leechers,omitempty"`
	Downloads    *int     `json:"downloads,omitempty"`
	Link         string   `json:"link,omitempty"`
	MagnetLink   string   `json:"magnet_link,omitempty"`
	InfoHash     string   `json:"info_hash,omitempty"`
}

// SeasonOrDefault returns the record's season, defaulting to 1.
func (r TorrentRecord) SeasonOrDefault() int {
	if r.Season == nil {
		return 1
	}
	return *r.Season
}

// Target is what the caller is looking for. A nil Episode matches nothing in
// the strict pass; a nil Season means season 1.
type Target struct {
	AnimeName string `json:"animeName"`
	Episode   *int   `json:"episode,omitempty"`
	Season    *int   `json:"season,omitempty"`
}

// SeasonOrDefault returns the requested season, defaulting to 1.
func (t Target) SeasonOrDefault() int {
	if t.Season == nil || *t.Season <= 0 {
		return 1
	}
	return *t.Season
}

// Strategy names the ladder rung that produced a result.
type Strategy string

const (
	StrategyStrict        Strategy = "strict"
	StrategyIgnoreSeason  Strategy = "ignore-season"
	StrategyIgnoreEpisode Strategy = "ignore-episode"
	StrategyNameOnly      Strategy = "name-only"
	StrategyNone          Strategy = "none"
)

// PartialMatchType names which two of the three criteria held.
type PartialMatchType string

const (
	PartialNameEpisode PartialMatchType = "NAME+EPISODE"
	PartialNameSeason  PartialMatchType = "NAME+SEASON"
)

// PartialMatch is a near miss recorded during the strict pass.
type PartialMatch struct {
	Type    PartialMatchType `json:"type"`
	Torrent TorrentRecord    `json:"torrent"`
	Reason  string           `json:"reason"`
}

// MatchResult is the outcome of FilterTorrents. Matches and PartialMatches are
// never nil so they encode as empty arrays.
type MatchResult struct {
	Matches        []TorrentRecord `json:"matches"`
	PartialMatches []PartialMatch  `json:"partialMatches"`
	Strategy       Strategy        `json:"strategy"`
}

func emptyResult() MatchResult {
	return MatchResult{
		Matches:        []TorrentRecord{},
		PartialMatches: []PartialMatch{},
		Strategy:       StrategyNone,
	}
}
