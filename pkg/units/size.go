// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package units turns the loosely formatted size and date strings reported by
// torrent indexers into structured values.
package units

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// "GB(6.78)", "MiB(123,4)" and "6.78 GB", "6,78GiB"
	reSizeUnitFirst  = regexp.MustCompile(`(?i)^([KMGTPE]?i?B)\(([\d.,]+)\)$`)
	reSizeValueFirst = regexp.MustCompile(`(?i)^([\d.,]+)\s*([KMGTPE]?i?B)$`)
	reLeadingFloat   = regexp.MustCompile(`^\d*\.?\d*`)
	reWhitespace     = regexp.MustCompile(`\s+`)
)

var unitExponents = map[string]int{
	"B":  0,
	"KB": 1,
	"MB": 2,
	"GB": 3,
	"TB": 4,
	"PB": 5,
	"EB": 6,
}

// Size is a parsed human readable size.
type Size struct {
	// Value is the number as written, e.g. 6.78.
	Value float64
	// Unit is the upper-case decimal unit name. Binary units are reported under
	// their decimal name (MiB → MB) even though Bytes uses base 1024 for them.
	Unit  string
	// Bytes is the rounded byte count.
	Bytes int64
}

// ParseSize parses sizes such as "6.78 GB", "1,5GiB" or "GB(6.78)".
// It reports false for anything it does not recognise.
func ParseSize(s string) (Size, bool) {
	str := strings.TrimSpace(s)
	if str == "" {
		return Size{}, false
	}

	var unit, number string
	if m := reSizeUnitFirst.FindStringSubmatch(reWhitespace.ReplaceAllString(str, "")); m != nil {
		unit, number = m[1], m[2]
	} else if m := reSizeValueFirst.FindStringSubmatch(str); m != nil {
		number, unit = m[1], m[2]
	} else {
		return Size{}, false
	}

	value, ok := parseLeadingFloat(strings.Replace(number, ",", ".", 1))
	if !ok {
		return Size{}, false
	}

	unit = strings.ToUpper(unit)
	base := 1000.0
	if strings.HasSuffix(unit, "IB") {
		base = 1024
		unit = strings.Replace(unit, "IB", "B", 1)
	}

	exp := unitExponents[unit]
	bytes := math.Round(value * math.Pow(base, float64(exp)))
	if math.IsInf(bytes, 0) || bytes > math.MaxInt64 {
		return Size{}, false
	}

	return Size{
		Value: value,
		Unit:  unit,
		Bytes: int64(bytes),
	}, true
}

// parseLeadingFloat reads the longest decimal prefix, so "1.234.5" yields 1.234.
func parseLeadingFloat(s string) (float64, bool) {
	prefix := reLeadingFloat.FindString(s)
	if prefix == "" || prefix == "." {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(prefix, "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
