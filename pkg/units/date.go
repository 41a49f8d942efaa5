// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package units

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "pt-BR"

const isoLayout = "2006-01-02T15:04:05.000Z"

// layouts accepted by Parse, tried in order. RSS feeds use the RFC 1123 forms,
// the JSON scrapers mostly emit RFC 3339 or "2006-01-02 15:04".
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC822Z,
	time.RFC822,
	time.RFC850,
	time.ANSIC,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Date is a parsed timestamp split into the parts the front-end renders.
type Date struct {
	Readable  string
	Year      int
	Month     int
	Day       int
	Hour      int
	Minute    int
	Second    int
	DayOfWeek string
	ISO       string
	Time      time.Time
}

type localeNames struct {
	months   [12]string
	weekdays [7]string
	readable func(t time.Time, month string) string
}

var supportedLocales = []language.Tag{
	language.BrazilianPortuguese,
	language.English,
}

var localeMatcher = language.NewMatcher(supportedLocales)

var localeTables = []localeNames{
	{
		months: [12]string{
			"janeiro", "fevereiro", "março", "abril", "maio", "junho",
			"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
		},
		weekdays: [7]string{
			"domingo", "segunda-feira", "terça-feira", "quarta-feira",
			"quinta-feira", "sexta-feira", "sábado",
		},
		readable: func(t time.Time, month string) string {
			return fmt.Sprintf("%d de %s de %d às %02d:%02d:%02d",
				t.Day(), month, t.Year(), t.Hour(), t.Minute(), t.Second())
		},
	},
	{
		months: [12]string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
		weekdays: [7]string{
			"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
		},
		readable: func(t time.Time, month string) string {
			return fmt.Sprintf("%s %d, %d at %02d:%02d:%02d",
				month, t.Day(), t.Year(), t.Hour(), t.Minute(), t.Second())
		},
	},
}

// DateFormatter parses timestamps and renders them for one locale and time zone.
type DateFormatter struct {
	locale language.Tag
	names  *localeNames
	loc    *time.Location
}

// NewDateFormatter returns a formatter for the BCP 47 locale (e.g. "pt-BR", "en").
// Unknown or malformed locales fall back to pt-BR. A nil location means time.Local.
func NewDateFormatter(locale string, loc *time.Location) *DateFormatter {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.BrazilianPortuguese
	}
	_, idx, confidence := localeMatcher.Match(tag)
	if confidence == language.No {
		idx = 0
	}
	if loc == nil {
		loc = time.Local
	}
	return &DateFormatter{
		locale: supportedLocales[idx],
		names:  &localeTables[idx],
		loc:    loc,
	}
}

// Locale reports the locale the formatter resolved to.
func (f *DateFormatter) Locale() string {
	return f.locale.String()
}

// Parse reads s with any of the supported layouts or as unix seconds.
// Layouts without a zone are read in the formatter's location.
func (f *DateFormatter) Parse(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}

	if unix, err := strconv.ParseInt(s, 10, 64); err == nil && unix > 0 {
		return f.Format(time.Unix(unix, 0)), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, f.loc); err == nil {
			return f.Format(t), true
		}
	}

	return Date{}, false
}

// Format splits t into its rendered parts in the formatter's location.
func (f *DateFormatter) Format(t time.Time) Date {
	local := t.In(f.loc)
	month := f.names.months[local.Month()-1]

	return Date{
		Readable:  f.names.readable(local, month),
		Year:      local.Year(),
		Month:     int(local.Month()),
		Day:       local.Day(),
		Hour:      local.Hour(),
		Minute:    local.Minute(),
		Second:    local.Second(),
		DayOfWeek: f.names.weekdays[local.Weekday()],
		ISO:       t.UTC().Format(isoLayout),
		Time:      t,
	}
}

var defaultDateFormatter = NewDateFormatter(DefaultLocale, nil)

// ParseDate parses s with the pt-BR formatter in the local time zone.
func ParseDate(s string) (Date, bool) {
	return defaultDateFormatter.Parse(s)
}
