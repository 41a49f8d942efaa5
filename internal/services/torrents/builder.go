// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package torrents

import (
	"slices"
	"strings"

	"github.com/anacrolix/torrent/metainfo"
	"github.com/rs/zerolog/log"

	"github.com/waluna/waluna/internal/services/nyaa"
	"github.com/waluna/waluna/pkg/releases"
	"github.com/waluna/waluna/pkg/stringutils"
	"github.com/waluna/waluna/pkg/units"
)

// Builder turns raw search hits into TorrentRecords.
type Builder struct {
	parser *releases.Parser
	dates  *units.DateFormatter
}

// NewBuilder returns a builder. Nil arguments fall back to the default parser
// and the default-locale date formatter.
func NewBuilder(parser *releases.Parser, dates *units.DateFormatter) *Builder {
	if parser == nil {
		parser = releases.NewDefaultParser()
	}
	if dates == nil {
		dates = units.NewDateFormatter(units.DefaultLocale, nil)
	}
	return &Builder{parser: parser, dates: dates}
}

// BuildAll builds one record per hit, in order.
func (b *Builder) BuildAll(hits []nyaa.Hit, query string) []TorrentRecord {
	records := make([]TorrentRecord, 0, len(hits))
	for _, hit := range hits {
		records = append(records, b.Build(hit, query))
	}
	return records
}

// Build converts one hit. The title falls back to query when blank. Fields
// that cannot be resolved are left absent; a panic while parsing the title
// yields a record carrying only the raw transfer fields.
func (b *Builder) Build(hit nyaa.Hit, query string) TorrentRecord {
	filename := strings.TrimSpace(hit.Title)
	if filename == "" {
		filename = strings.TrimSpace(query)
	}

	rec := TorrentRecord{
		Filename: filename,
		TorrentInfo: TorrentInfo{
			Size:       strings.TrimSpace(hit.Size),
			Seeders:    hit.Seeders,
			Leechers:   hit.Leechers,
			Downloads:  hit.Downloads,
			Link:       strings.TrimSpace(hit.Link),
			MagnetLink: strings.TrimSpace(hit.Magnet),
		},
	}

	b.applyTransfer(&rec, hit)
	b.applyTitle(&rec)
	return rec
}

func (b *Builder) applyTransfer(rec *TorrentRecord, hit nyaa.Hit) {
	info := &rec.TorrentInfo

	if size, ok := units.ParseSize(hit.Size); ok {
		info.SizeValue = &size.Value
		info.SizeUnit = size.Unit
		info.SizeBytes = &size.Bytes
	}

	if date, ok := b.dates.Parse(hit.Date); ok {
		info.DateReadable = date.Readable
		info.DateYear = &date.Year
		info.DateMonth = &date.Month
		info.DateDay = &date.Day
		info.DateHour = &date.Hour
		info.DateMinute = &date.Minute
		info.DateSecond = &date.Second
		info.DateWeekday = date.DayOfWeek
		info.DateISO = date.ISO
	}

	info.InfoHash = infoHashFromMagnet(info.MagnetLink)
}

func (b *Builder) applyTitle(rec *TorrentRecord) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Str("filename", rec.Filename).Interface("panic", r).Msg("failed to parse torrent title")
		}
	}()

	attrs := b.parser.Parse(rec.Filename)

	rec.Name = attrs.Name
	rec.Quality = attrs.Resolution
	rec.Source = attrs.Source
	rec.Codecs = internTags(attrs.Codecs)
	rec.Audio = internTags(attrs.Audio)
	rec.Subtitles = internTags(attrs.Subtitles)
	rec.Languages = internTags(attrs.Languages)
	rec.Meta = internTags(attrs.Meta)
	rec.Subber = stringutils.Intern(attrs.Subber)
	rec.Website = attrs.Website
	rec.Producer = stringutils.Intern(attrs.Distributor)
	rec.Hash = attrs.Hash
	rec.Format = attrs.Extension
	rec.Year = positive(attrs.Year)
	rec.Version = positive(attrs.Version)
	rec.Part = positive(attrs.Part)
	rec.Season = positive(attrs.Season)
	rec.Episode = positive(attrs.Episode)
	rec.EpisodeEnd = positive(attrs.EpisodeEnd)
	rec.Movie = attrs.Kind == releases.KindMovie
}

func infoHashFromMagnet(uri string) string {
	if !strings.HasPrefix(strings.ToLower(uri), "magnet:") {
		return ""
	}
	m, err := metainfo.ParseMagnetUri(uri)
	if err != nil {
		log.Trace().Err(err).Str("magnet", uri).Msg("failed to parse magnet link")
		return ""
	}
	return m.InfoHash.HexString()
}

// internTags copies tags out of the shared parser cache before interning.
func internTags(tags []string) []string {
	return stringutils.InternAll(slices.Clone(tags))
}

// positive returns a pointer to v, or nil when v is not set.
func positive(v int) *int {
	if v <= 0 {
		return nil
	}
	return &v
}
