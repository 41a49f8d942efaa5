// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package releases extracts structured metadata from torrent titles. Scene style
// names are handled by rls; fansub conventions (leading [Group], absolute " - 01"
// numbering, CRC tags) are layered on top because rls does not model them.
package releases

import (
	"strings"
	"time"

	"github.com/autobrr/autobrr/pkg/ttlcache"
	"github.com/moistari/rls"
	"github.com/rs/zerolog/log"
)

const defaultParserTTL = 5 * time.Minute

// Kind classifies what a torrent contains.
type Kind string

const (
	KindUnknown Kind = "unknown"
	KindEpisode Kind = "episode"
	KindMovie   Kind = "movie"
	KindBatch   Kind = "batch"
)

// Attributes is the parsed view of one title. Zero values mean "not found":
// an Episode of 0 is treated as absent, like an empty Resolution.
type Attributes struct {
	Title       string
	Name        string
	Season      int
	Episode     int
	EpisodeEnd  int
	Version     int
	Part        int
	Year        int
	Resolution  string
	Source      string
	Codecs      []string
	Audio       []string
	Subtitles   []string
	Languages   []string
	Meta        []string
	Subber      string
	Website     string
	Distributor string
	Hash        string
	Extension   string
	Kind        Kind
}

// Parser parses titles and memoises the result per title.
// Returned attributes are shared between callers and must not be modified.
type Parser struct {
	cache *ttlcache.Cache[string, *Attributes]
}

// NewParser returns a parser whose cache entries live for ttl.
func NewParser(ttl time.Duration) *Parser {
	if ttl <= 0 {
		ttl = defaultParserTTL
	}
	return &Parser{
		cache: ttlcache.New(ttlcache.Options[string, *Attributes]{}.SetDefaultTTL(ttl)),
	}
}

// NewDefaultParser returns a parser with the default five minute cache.
func NewDefaultParser() *Parser {
	return NewParser(defaultParserTTL)
}

// Parse returns the attributes of name. It never returns nil and never panics;
// an empty name yields empty attributes. A nil parser parses without caching.
func (p *Parser) Parse(name string) *Attributes {
	name = strings.TrimSpace(name)
	if name == "" {
		return &Attributes{Kind: KindUnknown}
	}

	if p == nil || p.cache == nil {
		return parse(name)
	}

	if cached, ok := p.cache.Get(name); ok {
		return cached
	}

	attrs := parse(name)
	p.cache.Set(name, attrs, ttlcache.DefaultTTL)
	return attrs
}

// Clear drops the cached attributes for name.
func (p *Parser) Clear(name string) {
	if p == nil || p.cache == nil {
		return
	}
	p.cache.Delete(strings.TrimSpace(name))
}

func parse(title string) *Attributes {
	rel := parseRelease(title)
	attrs := parseAnime(title)
	attrs.Title = title
	mergeRelease(attrs, rel)
	attrs.Kind = detectKind(attrs, rel, title)
	return attrs
}

// parseRelease shields callers from panics inside rls on unusual input.
func parseRelease(title string) (rel rls.Release) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Str("title", title).Interface("panic", r).Msg("release parser panicked, using heuristics only")
			rel = rls.Release{}
		}
	}()
	return rls.ParseString(title)
}

// mergeRelease fills whatever the anime heuristics left empty from rls.
func mergeRelease(attrs *Attributes, rel rls.Release) {
	if attrs.Name == "" {
		attrs.Name = strings.TrimSpace(rel.Title)
	}
	if attrs.Season == 0 && rel.Series > 0 {
		attrs.Season = rel.Series
	}
	if attrs.Episode == 0 && attrs.EpisodeEnd == 0 && rel.Episode > 0 {
		attrs.Episode = rel.Episode
	}
	if attrs.Version == 0 {
		attrs.Version = parseVersion(rel.Version)
	}
	if attrs.Year == 0 && rel.Year > 0 {
		attrs.Year = rel.Year
	}
	if attrs.Resolution == "" {
		attrs.Resolution = strings.ToLower(rel.Resolution)
	}
	if attrs.Source == "" && rel.Source != "" {
		attrs.Source = NormalizeSource(rel.Source)
	}
	attrs.Codecs = NormalizeCodecs(append(attrs.Codecs, rel.Codec...))
	attrs.Audio = NormalizeAudioList(append(attrs.Audio, rel.Audio...))
	attrs.Languages = dedupeFold(rel.Language)
	attrs.Meta = dedupeFold(append(attrs.Meta, rel.Other...))
	if attrs.Subber == "" {
		attrs.Subber = strings.TrimSpace(rel.Group)
	}
	if attrs.Website == "" && strings.Contains(rel.Site, ".") {
		attrs.Website = rel.Site
	}
	if attrs.Distributor == "" && rel.Collection != "" {
		attrs.Distributor = distributorName(rel.Collection)
	}
	if attrs.Hash == "" && isCRC(rel.Sum) {
		attrs.Hash = strings.ToUpper(rel.Sum)
	}
	if attrs.Extension == "" {
		attrs.Extension = strings.ToLower(strings.TrimPrefix(rel.Ext, "."))
	}
}

func detectKind(attrs *Attributes, rel rls.Release, title string) Kind {
	switch {
	case attrs.EpisodeEnd > 0 || reBatchWord.MatchString(title):
		return KindBatch
	case attrs.Episode > 0:
		return KindEpisode
	case reMovieWord.MatchString(title) || rel.Type == rls.Movie:
		return KindMovie
	case rel.Type == rls.Series:
		return KindBatch
	}
	return KindUnknown
}
