// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package torrents

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"
)

// filterEnv is the record view exposed to result filter expressions, e.g.
//
//	seeders >= 5 && quality in ["1080p", "720p"] && not movie
type filterEnv struct {
	Filename  string   `expr:"filename"`
	Name      string   `expr:"name"`
	Quality   string   `expr:"quality"`
	Source    string   `expr:"source"`
	Subber    string   `expr:"subber"`
	Producer  string   `expr:"producer"`
	Codecs    []string `expr:"codecs"`
	Audio     []string `expr:"audio"`
	Subtitles []string `expr:"subtitles"`
	Languages []string `expr:"languages"`
	Season    int      `expr:"season"`
	Episode   int      `expr:"episode"`
	Movie     bool     `expr:"movie"`
	Batch     bool     `expr:"batch"`
	Seeders   int      `expr:"seeders"`
	Leechers  int      `expr:"leechers"`
	Downloads int      `expr:"downloads"`
	SizeBytes int64    `expr:"size"`
}

func newFilterEnv(rec TorrentRecord) filterEnv {
	env := filterEnv{
		Filename:  rec.Filename,
		Name:      rec.Name,
		Quality:   rec.Quality,
		Source:    rec.Source,
		Subber:    rec.Subber,
		Producer:  rec.Producer,
		Codecs:    rec.Codecs,
		Audio:     rec.Audio,
		Subtitles: rec.Subtitles,
		Languages: rec.Languages,
		Season:    rec.SeasonOrDefault(),
		Movie:     rec.Movie,
		Batch:     rec.EpisodeEnd != nil,
	}
	if rec.Episode != nil {
		env.Episode = *rec.Episode
	}
	if v := rec.TorrentInfo.Seeders; v != nil {
		env.Seeders = *v
	}
	if v := rec.TorrentInfo.Leechers; v != nil {
		env.Leechers = *v
	}
	if v := rec.TorrentInfo.Downloads; v != nil {
		env.Downloads = *v
	}
	if v := rec.TorrentInfo.SizeBytes; v != nil {
		env.SizeBytes = *v
	}
	return env
}

// ResultFilter is a compiled boolean expression that matched records must
// satisfy. A nil filter accepts everything.
type ResultFilter struct {
	source  string
	program *vm.Program
}

// CompileResultFilter compiles code. Blank code returns a nil filter.
func CompileResultFilter(code string) (*ResultFilter, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}

	program, err := expr.Compile(code, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile result filter: %w", err)
	}
	return &ResultFilter{source: code, program: program}, nil
}

// String returns the filter's source expression.
func (f *ResultFilter) String() string {
	if f == nil {
		return ""
	}
	return f.source
}

// Allow reports whether rec passes the filter. Evaluation errors reject the record.
func (f *ResultFilter) Allow(rec TorrentRecord) bool {
	if f == nil {
		return true
	}

	out, err := expr.Run(f.program, newFilterEnv(rec))
	if err != nil {
		log.Debug().Err(err).Str("filename", rec.Filename).Str("filter", f.source).Msg("result filter evaluation failed")
		return false
	}
	ok, _ := out.(bool)
	return ok
}

// Apply returns the records that pass the filter, preserving order.
func (f *ResultFilter) Apply(records []TorrentRecord) []TorrentRecord {
	if f == nil {
		return records
	}
	kept := make([]TorrentRecord, 0, len(records))
	for _, rec := range records {
		if f.Allow(rec) {
			kept = append(kept, rec)
		}
	}
	return kept
}

// ApplyResult filters the matches and partial matches of result after the
// ladder has run, so the filter never changes which rung produced them. A
// result whose matches are all rejected reports StrategyNone.
func (f *ResultFilter) ApplyResult(result MatchResult) MatchResult {
	if f == nil {
		return result
	}

	filtered := MatchResult{
		Matches:        f.Apply(result.Matches),
		PartialMatches: make([]PartialMatch, 0, len(result.PartialMatches)),
		Strategy:       result.Strategy,
	}
	for _, pm := range result.PartialMatches {
		if f.Allow(pm.Torrent) {
			filtered.PartialMatches = append(filtered.PartialMatches, pm)
		}
	}
	if len(filtered.Matches) == 0 {
		filtered.Strategy = StrategyNone
	}
	return filtered
}
