// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package stringutils

import (
	"strings"
)

// MinSignificantWordLength is the shortest word that counts towards a name match.
// Anything shorter ("no", "of", "s2") is too common to tell series apart.
const MinSignificantWordLength = 3

var sanitizer = NewNormalizer(defaultNormalizerTTL, sanitize)

func isWordByte(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

func sanitize(s string) string {
	s = strings.ToLower(FoldUnicode(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case isWordByte(r):
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Sanitize turns free text into the canonical search form: diacritics folded,
// lowercase, every character outside [a-z0-9_] replaced with a space and
// whitespace collapsed to single spaces.
//   - "Dan Da Dan!" → "dan da dan"
//   - "Re:Zero − Starting Life" → "re zero starting life"
//   - "  " → ""
func Sanitize(s string) string {
	return sanitizer.Normalize(s)
}

// SignificantWords returns the words of the sanitised form of s that are at least
// MinSignificantWordLength long. Duplicates are kept in order.
func SignificantWords(s string) []string {
	sanitized := Sanitize(s)
	if sanitized == "" {
		return nil
	}

	var words []string
	for _, w := range strings.Split(sanitized, " ") {
		if len(w) >= MinSignificantWordLength {
			words = append(words, w)
		}
	}
	return words
}
