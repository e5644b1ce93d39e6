package eventimport

import (
	"regexp"
	"time"
)

// Canonical serialization for normalized instants: millisecond precision,
// UTC rendered as a literal Z.
const canonicalLayout = "2006-01-02T15:04:05.000Z07:00"

// dateOnlyPattern matches exactly a 4-2-2 hyphenated calendar date.
// "25-12-2025" does not match and falls into the date-time branch.
var dateOnlyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Layouts tried by the generic date-time parser, most specific first.
// Layouts without an explicit zone are interpreted as UTC; this service
// never inherits the host timezone for import data.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseEventImportRow maps one shape-valid CSV record to a normalized
// event candidate. Pure: no I/O, no shared state, same input always
// yields the same output.
//
// A startDate that is exactly a calendar date marks an all-day event and
// is turned into the midnight-UTC instant string mechanically, without
// parsing; calendrically invalid values like "2025-02-30" flow through
// and are rejected by the orchestrator's strict re-parse. Any other
// startDate goes through the generic parser; strings it cannot parse
// also pass through unchanged for the orchestrator to reject.
func ParseEventImportRow(row CsvEventImport) NormalizedEventInput {
	out := NormalizedEventInput{
		Title:        row.Title,
		Description:  row.Description,
		Location:     row.Location,
		IsOnline:     row.IsOnline,
		Price:        row.Price,
		Currency:     row.Currency,
		MaxAttendees: row.MaxAttendees,
		BannerURL:    row.BannerURL,
	}

	if len(row.StartDate) == 10 && dateOnlyPattern.MatchString(row.StartDate) {
		out.StartDate = row.StartDate + "T00:00:00.000Z"
		out.IsAllDay = true
	} else {
		out.StartDate = normalizeDateTime(row.StartDate)
		out.IsAllDay = false
	}

	if row.EndDate != "" {
		out.EndDate = normalizeDateTime(row.EndDate)
	}

	return out
}

// normalizeDateTime parses raw with the layout list and serializes the
// instant canonically in UTC. Unparseable input is returned unchanged.
func normalizeDateTime(raw string) string {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(canonicalLayout)
		}
	}
	return raw
}
