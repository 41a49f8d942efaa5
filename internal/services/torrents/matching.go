// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package torrents

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/waluna/waluna/pkg/stringutils"
)

// matching.go decides which records correspond to a Target. A record is a
// full match when its name, season and episode all agree; near misses are kept
// as partial matches and the fallback ladder relaxes one criterion at a time
// when nothing matches strictly.

// nameMatchRatio is the share of significant words that must appear in a
// record, rounded up.
const nameMatchRatio = 0.4

type matcher struct {
	words    []string
	required int
	episode  *int
	season   int
}

func newMatcher(target Target) matcher {
	words := stringutils.SignificantWords(target.AnimeName)
	return matcher{
		words:    words,
		required: requiredWords(len(words)),
		episode:  target.Episode,
		season:   target.SeasonOrDefault(),
	}
}

// requiredWords returns max(1, ceil(0.4*n)).
func requiredWords(n int) int {
	// ceil(2n/5) in integers
	required := (2*n + 4) / 5
	return max(required, 1)
}

// nameMatch reports whether enough distinct words of the wanted name occur in
// the record's filename or parsed name. Both sides are sanitized, so
// "Pokémon" in a filename matches "pokemon". With no significant words every
// record matches.
func (m matcher) nameMatch(rec TorrentRecord) bool {
	if len(m.words) == 0 {
		return true
	}

	haystack := stringutils.Sanitize(rec.Filename) + " " + stringutils.Sanitize(rec.Name)

	seen := make(map[string]struct{}, len(m.words))
	for _, w := range m.words {
		if _, ok := seen[w]; ok {
			continue
		}
		if strings.Contains(haystack, w) {
			seen[w] = struct{}{}
			if len(seen) >= m.required {
				return true
			}
		}
	}
	return false
}

func (m matcher) episodeMatch(rec TorrentRecord) bool {
	if m.episode == nil || rec.Episode == nil {
		return false
	}
	return *rec.Episode == *m.episode
}

func (m matcher) seasonMatch(rec TorrentRecord) bool {
	return rec.SeasonOrDefault() == m.season
}

// Match filters records against target. Strict matches win; otherwise the
// ladder tries name+episode, then name+season, then name alone, and the first
// rung with results is returned. Partial matches come from the strict pass and
// are reported regardless of which rung produced the matches.
func Match(records []TorrentRecord, target Target) MatchResult {
	result := emptyResult()
	if len(records) == 0 {
		return result
	}

	m := newMatcher(target)

	type verdict struct {
		name, season, episode bool
	}
	verdicts := make([]verdict, len(records))

	for i, rec := range records {
		v := verdict{
			name:    m.nameMatch(rec),
			season:  m.seasonMatch(rec),
			episode: m.episodeMatch(rec),
		}
		verdicts[i] = v

		switch {
		case v.name && v.season && v.episode:
			result.Matches = append(result.Matches, rec)
		case v.name && v.episode:
			result.PartialMatches = append(result.PartialMatches, PartialMatch{
				Type:    PartialNameEpisode,
				Torrent: rec,
				Reason:  mismatchReason("Season", strconv.Itoa(rec.SeasonOrDefault()), strconv.Itoa(m.season)),
			})
		case v.name && v.season:
			result.PartialMatches = append(result.PartialMatches, PartialMatch{
				Type:    PartialNameSeason,
				Torrent: rec,
				Reason:  mismatchReason("Episode", optionalInt(rec.Episode), optionalInt(m.episode)),
			})
		}
	}

	if len(result.Matches) > 0 {
		result.Strategy = StrategyStrict
		return result
	}

	rungs := []struct {
		strategy Strategy
		accept   func(verdict) bool
	}{
		{StrategyIgnoreSeason, func(v verdict) bool { return v.name && v.episode }},
		{StrategyIgnoreEpisode, func(v verdict) bool { return v.name && v.season }},
		{StrategyNameOnly, func(v verdict) bool { return v.name }},
	}

	for _, rung := range rungs {
		for i, rec := range records {
			if rung.accept(verdicts[i]) {
				result.Matches = append(result.Matches, rec)
			}
		}
		if len(result.Matches) > 0 {
			result.Strategy = rung.strategy
			return result
		}
	}

	return result
}

func mismatchReason(field, got, want string) string {
	return fmt.Sprintf("%s: got %q, want %q", field, got, want)
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
