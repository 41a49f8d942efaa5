// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package stringutils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	unicodeFolder = NewNormalizer(defaultNormalizerTTL, foldUnicode)

	// letters NFKD leaves alone because they are not composed characters.
	letterReplacer = strings.NewReplacer(
		"æ", "ae", "Æ", "AE",
		"œ", "oe", "Œ", "OE",
		"ø", "o", "Ø", "O",
		"ß", "ss",
		"ð", "d", "Ð", "D",
		"þ", "th", "Þ", "TH",
	)
)

func foldUnicode(s string) string {
	s = letterReplacer.Replace(s)

	// transform.Chain keeps state, so build one per call.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// FoldUnicode strips diacritics and splits ligatures, so romanised titles such as
// "Shōnen" or "Kōkaku Kidōtai" compare equal to their plain ASCII spellings.
//   - "Shōgun" → "Shogun"
//   - "ﬁre" → "fire"
//   - "Æon" → "AEon"
func FoldUnicode(s string) string {
	return unicodeFolder.Normalize(s)
}
