// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package stringutils holds the string helpers shared by the release parser and the
// matcher: cached normalisation, unicode folding, query sanitising and interning of
// the short tags (resolutions, sources, codecs) that repeat across every search.
package stringutils

import (
	"strings"
	"unique"
)

// Intern returns the canonical copy of s so repeated tags share memory.
func Intern(s string) string {
	if s == "" {
		return ""
	}
	return unique.Make(s).Value()
}

// InternLower interns the lowercase form of s.
func InternLower(s string) string {
	if s == "" {
		return ""
	}
	return unique.Make(strings.ToLower(s)).Value()
}

// InternAll interns every element of values in place and returns it.
// Blank elements are dropped; a slice that ends up empty becomes nil.
func InternAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := values[:0]
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, Intern(v))
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
