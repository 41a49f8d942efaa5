// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package releases

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reLeadingGroup  = regexp.MustCompile(`^\s*\[([^\]]+)\]`)
	reTrailingGroup = regexp.MustCompile(`-([A-Za-z0-9][A-Za-z0-9_.]*)\]?\s*$`)
	reCRC           = regexp.MustCompile(`[\[(]([0-9A-Fa-f]{8})[\])]`)
	reExtension     = regexp.MustCompile(`(?i)\.(mkv|mp4|avi|webm|m4v|ts|m2ts|wmv|flv)$`)
	reBracketed     = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)|\{[^}]*\}|【[^】]*】`)
	reParenYear     = regexp.MustCompile(`[\[(]((?:19|20)\d{2})[\])]`)
	reVersion       = regexp.MustCompile(`(?i)^v?(\d{1,2})$`)
	reWebsite       = regexp.MustCompile(`(?i)\b((?:www\.)?[a-z0-9][a-z0-9-]*\.(?:com|net|org|info|io|tv|me|to|cc|moe|si|ru))\b`)

	reSeasonEpisode   = regexp.MustCompile(`(?i)\bS(\d{1,2})\s?E(\d{1,4})(?:v(\d{1,2}))?\b`)
	reBatchRange      = regexp.MustCompile(`(?:^|[\s\[(])(\d{1,4})(?:\s?~\s?|-)(\d{1,4})(?:[\s\])]|$)`)
	reDashEpisode     = regexp.MustCompile(`\s-\s*(\d{1,4})(?:v(\d{1,2}))?\b`)
	rePrefixedEpisode = regexp.MustCompile(`(?i)\b(?:Episode|EP?)\s?\.?(\d{1,4})(?:v(\d{1,2}))?\b`)
	reSeasonWord      = regexp.MustCompile(`(?i)\bseason\s?(\d{1,2})\b`)
	reOrdinalSeason   = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)\s+season\b`)
	reSeasonShort     = regexp.MustCompile(`(?i)\bS(\d{1,2})\b`)
	rePart            = regexp.MustCompile(`(?i)\b(?:part|cour)\s?(\d{1,2})\b`)

	reResolution  = regexp.MustCompile(`(?i)\b(\d{3,4}[pi]|4k)\b`)
	reSource      = regexp.MustCompile(`(?i)\b(web-?dl|web-?rip|web|blu-?ray|bdrip|bd|hdtv|dvdrip|dvd)\b`)
	reVideoCodec  = regexp.MustCompile(`(?i)\b(x26[45]|h\.?26[45]|hevc|avc|av1|xvid|divx|vp9)\b`)
	reAudioCodec  = regexp.MustCompile(`(?i)\b(aac|flac|opus|e-?ac-?3|ac-?3|ddp|dts(?:-hd)?|truehd|mp3)\b`)
	reSubtitleTag = regexp.MustCompile(`(?i)\b(multi[- ]?subs?|multiple subtitles?|eng(?:lish)?[- ]?subs?|soft[- ]?subs?|hard[- ]?subs?|vostfr|legendado|pt-?br)\b`)
	reMetaTag     = regexp.MustCompile(`(?i)\b(batch|complete|uncensored|repack|remux|10[- ]?bit|hi10p?|8[- ]?bit|dual[- ]audio|hdr|dubbed|vfr)\b`)
	reDistributor = regexp.MustCompile(`\b(CR|Crunchyroll|AMZN|Amazon|NF|Netflix|DSNP|Disney\+|HIDI|HIDIVE|FUNI|Funimation|ADN|ABEMA|B-Global|Baha|Bilibili|HULU|Hulu)\b`)

	reBatchWord = regexp.MustCompile(`(?i)\b(batch|complete series|complete season)\b`)
	reMovieWord = regexp.MustCompile(`(?i)\b(the movie|movie|gekijouban|gekijoban)\b`)

	// markers that end the series name in a title
	nameTerminators = []*regexp.Regexp{
		reSeasonEpisode,
		regexp.MustCompile(`\s-\s*\d`),
		reSeasonWord,
		reOrdinalSeason,
		reSeasonShort,
		rePrefixedEpisode,
		rePart,
		reResolution,
		reVideoCodec,
		regexp.MustCompile(`(?i)\b(batch|complete|web-?dl|web-?rip|blu-?ray|bdrip)\b`),
	}
)

var distributorNames = map[string]string{
	"CR":          "Crunchyroll",
	"CRUNCHYROLL": "Crunchyroll",
	"AMZN":        "Amazon",
	"AMAZON":      "Amazon",
	"NF":          "Netflix",
	"NETFLIX":     "Netflix",
	"DSNP":        "Disney+",
	"DISNEY+":     "Disney+",
	"HIDI":        "HIDIVE",
	"HIDIVE":      "HIDIVE",
	"FUNI":        "Funimation",
	"FUNIMATION":  "Funimation",
	"ADN":         "ADN",
	"ABEMA":       "ABEMA",
	"B-GLOBAL":    "B-Global",
	"BAHA":        "Bahamut",
	"BILIBILI":    "Bilibili",
	"HULU":        "Hulu",
}

func distributorName(tag string) string {
	tag = strings.TrimSpace(tag)
	if name, ok := distributorNames[strings.ToUpper(tag)]; ok {
		return name
	}
	return tag
}

// parseAnime applies the fansub naming conventions rls does not know about.
func parseAnime(title string) *Attributes {
	attrs := &Attributes{}

	body := title
	if m := reExtension.FindStringSubmatch(body); m != nil {
		attrs.Extension = strings.ToLower(m[1])
		body = body[:len(body)-len(m[0])]
	}

	if m := reLeadingGroup.FindStringSubmatch(body); m != nil {
		attrs.Subber = strings.TrimSpace(m[1])
	} else if m := reTrailingGroup.FindStringSubmatch(body); m != nil {
		attrs.Subber = m[1]
	}

	for _, m := range reCRC.FindAllStringSubmatch(body, -1) {
		if isCRC(m[1]) {
			attrs.Hash = strings.ToUpper(m[1])
			break
		}
	}

	for _, segment := range reBracketed.FindAllString(body, -1) {
		if m := reWebsite.FindStringSubmatch(segment); m != nil {
			attrs.Website = m[1]
			break
		}
	}

	parseNumbering(attrs, strings.ReplaceAll(body, "_", " "))

	if m := rePart.FindStringSubmatch(body); m != nil {
		attrs.Part = atoi(m[1])
	}
	if m := reParenYear.FindStringSubmatch(body); m != nil {
		attrs.Year = atoi(m[1])
	}
	if m := reResolution.FindStringSubmatch(body); m != nil {
		attrs.Resolution = strings.ToLower(m[1])
	}
	if m := reSource.FindStringSubmatch(body); m != nil {
		attrs.Source = NormalizeSource(m[1])
	}
	if m := reDistributor.FindStringSubmatch(body); m != nil {
		attrs.Distributor = distributorName(m[1])
	}

	attrs.Codecs = allMatches(reVideoCodec, body)
	attrs.Audio = allMatches(reAudioCodec, body)
	attrs.Subtitles = dedupeFold(allMatches(reSubtitleTag, body))
	attrs.Meta = dedupeFold(allMatches(reMetaTag, body))
	attrs.Name = extractName(body)

	return attrs
}

// parseNumbering reads season and episode numbers. Explicit SxxEyy wins, then
// batch ranges, then the absolute " - 01" and "EP01" forms.
func parseNumbering(attrs *Attributes, body string) {
	if m := reSeasonEpisode.FindStringSubmatch(body); m != nil {
		attrs.Season = atoi(m[1])
		attrs.Episode = atoi(m[2])
		attrs.Version = atoi(m[3])
		return
	}

	switch {
	case reSeasonWord.MatchString(body):
		attrs.Season = atoi(reSeasonWord.FindStringSubmatch(body)[1])
	case reOrdinalSeason.MatchString(body):
		attrs.Season = atoi(reOrdinalSeason.FindStringSubmatch(body)[1])
	case reSeasonShort.MatchString(body):
		attrs.Season = atoi(reSeasonShort.FindStringSubmatch(body)[1])
	}

	for _, m := range reBatchRange.FindAllStringSubmatch(body, -1) {
		start, end := atoi(m[1]), atoi(m[2])
		if end > start && !looksLikeYear(m[1]) {
			attrs.EpisodeEnd = end
			return
		}
	}

	for _, m := range reDashEpisode.FindAllStringSubmatch(body, -1) {
		if looksLikeYear(m[1]) {
			continue
		}
		attrs.Episode = atoi(m[1])
		attrs.Version = atoi(m[2])
		return
	}

	if m := rePrefixedEpisode.FindStringSubmatch(body); m != nil {
		attrs.Episode = atoi(m[1])
		attrs.Version = atoi(m[2])
	}
}

// extractName strips bracketed tags and cuts the title at the first numbering
// or quality marker.
func extractName(body string) string {
	s := reBracketed.ReplaceAllString(body, " ")
	s = strings.ReplaceAll(s, "_", " ")
	if !strings.Contains(strings.TrimSpace(s), " ") {
		s = strings.ReplaceAll(s, ".", " ")
	}

	cut := len(s)
	for _, re := range nameTerminators {
		if loc := re.FindStringIndex(s); loc != nil && loc[0] < cut {
			cut = loc[0]
		}
	}

	name := strings.Join(strings.Fields(s[:cut]), " ")
	return strings.Trim(name, " -._~|:")
}

func allMatches(re *regexp.Regexp, s string) []string {
	matches := re.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// dedupeFold drops blanks and case-insensitive duplicates, keeping the first spelling.
func dedupeFold(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func isCRC(s string) bool {
	if len(s) != 8 {
		return false
	}
	hasLetter := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F'):
			hasLetter = true
		default:
			return false
		}
	}
	return hasLetter
}

func looksLikeYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	n := atoi(s)
	return n >= 1900 && n <= 2100
}

func parseVersion(s string) int {
	if m := reVersion.FindStringSubmatch(strings.TrimSpace(s)); m != nil {
		return atoi(m[1])
	}
	return 0
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
