// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package releases

import (
	"slices"
	"strings"

	"github.com/waluna/waluna/pkg/stringutils"
)

// videoCodecAliases folds the spellings fansub groups use for the same codec.
var videoCodecAliases = map[string]string{
	"X264":  "AVC",
	"H.264": "AVC",
	"H264":  "AVC",
	"AVC":   "AVC",
	"X265":  "HEVC",
	"H.265": "HEVC",
	"H265":  "HEVC",
	"HEVC":  "HEVC",
	"AV1":   "AV1",
	"XVID":  "XVID",
	"DIVX":  "DIVX",
	"VP9":   "VP9",
}

// NormalizeVideoCodec returns the canonical codec name, or the upper-cased input
// when no alias exists.
func NormalizeVideoCodec(codec string) string {
	upper := strings.ToUpper(strings.TrimSpace(codec))
	if canonical, ok := videoCodecAliases[upper]; ok {
		return stringutils.Intern(canonical)
	}
	return stringutils.Intern(upper)
}

// NormalizeCodecs canonicalises and dedupes codecs, keeping first-seen order.
func NormalizeCodecs(codecs []string) []string {
	return normalizeList(codecs, NormalizeVideoCodec)
}

var audioAliases = map[string]string{
	"AAC":    "AAC",
	"FLAC":   "FLAC",
	"OPUS":   "Opus",
	"AC3":    "AC3",
	"EAC3":   "EAC3",
	"DDP":    "EAC3",
	"DD+":    "EAC3",
	"DTS":    "DTS",
	"DTSHD":  "DTS-HD",
	"TRUEHD": "TrueHD",
	"MP3":    "MP3",
}

// NormalizeAudio returns the canonical audio codec name. Dashes are ignored, so
// E-AC-3, EAC-3 and EAC3 fold together.
func NormalizeAudio(audio string) string {
	trimmed := strings.TrimSpace(audio)
	key := strings.ToUpper(strings.ReplaceAll(trimmed, "-", ""))
	if canonical, ok := audioAliases[key]; ok {
		return stringutils.Intern(canonical)
	}
	return stringutils.Intern(trimmed)
}

// NormalizeAudioList canonicalises and dedupes audio tags, keeping first-seen order.
func NormalizeAudioList(audio []string) []string {
	return normalizeList(audio, NormalizeAudio)
}

// sourceAliases maps source spellings to one display form.
var sourceAliases = map[string]string{
	"WEB-DL":  "WEB-DL",
	"WEBDL":   "WEB-DL",
	"WEBRIP":  "WEBRip",
	"WEB":     "WEB",
	"BD":      "BluRay",
	"BDRIP":   "BDRip",
	"BLURAY":  "BluRay",
	"BLU-RAY": "BluRay",
	"HDTV":    "HDTV",
	"DVD":     "DVD",
	"DVDRIP":  "DVDRip",
}

// NormalizeSource returns the display form of a source tag. Unknown sources are
// returned trimmed and otherwise untouched.
func NormalizeSource(source string) string {
	trimmed := strings.TrimSpace(source)
	if canonical, ok := sourceAliases[strings.ToUpper(trimmed)]; ok {
		return stringutils.Intern(canonical)
	}
	return stringutils.Intern(trimmed)
}

func normalizeList(values []string, normalize func(string) string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		n := normalize(v)
		if n == "" || slices.Contains(out, n) {
			continue
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
