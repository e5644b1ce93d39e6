package eventimport

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestParseEventImportRowAllDay(t *testing.T) {
	tests := []struct {
		name      string
		startDate string
		wantStart string
		wantAll   bool
	}{
		{
			name:      "calendar date becomes midnight UTC",
			startDate: "2025-12-25",
			wantStart: "2025-12-25T00:00:00.000Z",
			wantAll:   true,
		},
		{
			name:      "date with time is not all-day",
			startDate: "2025-12-26 14:00",
			wantStart: "2025-12-26T14:00:00.000Z",
			wantAll:   false,
		},
		{
			name:      "ten chars in wrong grouping is not all-day",
			startDate: "25-12-2025",
			wantStart: "25-12-2025", // unparseable, passes through
			wantAll:   false,
		},
		{
			name:      "invalid calendar date still built mechanically",
			startDate: "2025-02-30",
			wantStart: "2025-02-30T00:00:00.000Z",
			wantAll:   true,
		},
		{
			name:      "offset input is converted to UTC",
			startDate: "2025-12-26T14:00:00+02:00",
			wantStart: "2025-12-26T12:00:00.000Z",
			wantAll:   false,
		},
		{
			name:      "T separator without zone parsed as UTC",
			startDate: "2025-12-26T14:00:00",
			wantStart: "2025-12-26T14:00:00.000Z",
			wantAll:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseEventImportRow(CsvEventImport{Title: "Test Event", StartDate: tt.startDate})
			if got.StartDate != tt.wantStart {
				t.Errorf("StartDate = %q, want %q", got.StartDate, tt.wantStart)
			}
			if got.IsAllDay != tt.wantAll {
				t.Errorf("IsAllDay = %v, want %v", got.IsAllDay, tt.wantAll)
			}
		})
	}
}

func TestParseEventImportRowEndDate(t *testing.T) {
	t.Run("omitted endDate stays absent", func(t *testing.T) {
		got := ParseEventImportRow(CsvEventImport{Title: "Test Event", StartDate: "2025-12-25"})
		if got.EndDate != "" {
			t.Fatalf("EndDate = %q, want empty", got.EndDate)
		}

		raw, err := json.Marshal(got)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(string(raw), "endDate") {
			t.Errorf("marshaled output should omit endDate, got %s", raw)
		}
	})

	t.Run("present endDate is normalized", func(t *testing.T) {
		got := ParseEventImportRow(CsvEventImport{
			Title:     "Test Event",
			StartDate: "2025-12-25",
			EndDate:   "2025-12-27 18:30",
		})
		if got.EndDate != "2025-12-27T18:30:00.000Z" {
			t.Errorf("EndDate = %q, want 2025-12-27T18:30:00.000Z", got.EndDate)
		}
	})
}

func TestParseEventImportRowPassthrough(t *testing.T) {
	in := CsvEventImport{
		Title:        "Summer Meetup",
		StartDate:    "2025-07-01",
		Description:  "Annual gathering",
		Location:     "Town Hall",
		IsOnline:     "false",
		Price:        "12.50",
		Currency:     "EUR",
		MaxAttendees: "80",
		BannerURL:    "https://example.com/banner.png",
	}

	got := ParseEventImportRow(in)

	if got.Title != in.Title || got.Description != in.Description ||
		got.Location != in.Location || got.IsOnline != in.IsOnline ||
		got.Price != in.Price || got.Currency != in.Currency ||
		got.MaxAttendees != in.MaxAttendees || got.BannerURL != in.BannerURL {
		t.Errorf("passthrough fields changed: %+v", got)
	}
}

func TestParseEventImportRowIdempotent(t *testing.T) {
	in := CsvEventImport{Title: "Test Event", StartDate: "2025-12-26 14:00", EndDate: "2025-12-27"}

	first := ParseEventImportRow(in)
	second := ParseEventImportRow(in)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("normalizer not idempotent: %+v vs %+v", first, second)
	}
}

func TestParseEventImportRowRoundTrip(t *testing.T) {
	inputs := []string{"2025-12-25", "2025-12-26 14:00", "2025-12-26T14:00:00+02:00"}

	for _, start := range inputs {
		got := ParseEventImportRow(CsvEventImport{Title: "Test Event", StartDate: start})

		parsed, err := time.Parse(canonicalLayout, got.StartDate)
		if err != nil {
			t.Fatalf("output %q is not canonical: %v", got.StartDate, err)
		}
		if round := parsed.UTC().Format(canonicalLayout); round != got.StartDate {
			t.Errorf("round trip of %q: got %q, want %q", start, round, got.StartDate)
		}
	}
}
