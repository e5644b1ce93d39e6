package eventimport

import (
	"context"
	"errors"
	"testing"

	"github.com/jdblank/fire-backend/internal/event"
)

type fakeWriter struct {
	created []*event.Event
	err     error
}

func (f *fakeWriter) CreateEventsInTx(events []*event.Event) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, events...)
	return nil
}

func validRow(title, startDate string) RawImportRow {
	return RawImportRow{
		"title":       title,
		"startDate":   startDate,
		"description": "A community event",
	}
}

func TestImportEventsCreatesBatch(t *testing.T) {
	writer := &fakeWriter{}
	svc := NewService(writer)

	rows := []RawImportRow{
		validRow("All Day Meetup", "2025-12-25"),
		validRow("Timed Meetup", "2025-12-26 14:00"),
	}

	result, impErr := svc.ImportEvents(context.Background(), rows, 42)
	if impErr != nil {
		t.Fatalf("unexpected error: %v", impErr)
	}
	if result.CreatedCount != 2 {
		t.Fatalf("CreatedCount = %d, want 2", result.CreatedCount)
	}
	if result.BatchID == "" {
		t.Error("BatchID should be set")
	}
	if len(writer.created) != 2 {
		t.Fatalf("persisted %d records, want 2", len(writer.created))
	}

	allDay := writer.created[0]
	if !allDay.IsAllDay {
		t.Error("first record should be all-day")
	}
	if h, m := allDay.StartDate.Hour(), allDay.StartDate.Minute(); h != 0 || m != 0 {
		t.Errorf("all-day start = %02d:%02d, want midnight UTC", h, m)
	}

	timed := writer.created[1]
	if timed.IsAllDay {
		t.Error("second record should not be all-day")
	}
	if timed.StartDate.Hour() != 14 {
		t.Errorf("timed start hour = %d, want 14", timed.StartDate.Hour())
	}

	for _, rec := range writer.created {
		if rec.Status != event.StatusPublished {
			t.Errorf("status = %q, want %q", rec.Status, event.StatusPublished)
		}
		if rec.CreatedByID != 42 {
			t.Errorf("CreatedByID = %d, want 42", rec.CreatedByID)
		}
		if rec.EndDate != nil {
			t.Errorf("EndDate should be absent, got %v", rec.EndDate)
		}
	}
}

func TestImportEventsShapeErrorRejectsBatch(t *testing.T) {
	writer := &fakeWriter{}
	svc := NewService(writer)

	rows := []RawImportRow{
		validRow("Valid Event", "2025-12-25"),
		validRow("", "2025-12-26"), // empty title
	}

	result, impErr := svc.ImportEvents(context.Background(), rows, 1)
	if result != nil {
		t.Fatal("expected failure, got result")
	}
	if impErr.Kind != ErrShape {
		t.Errorf("Kind = %q, want %q", impErr.Kind, ErrShape)
	}
	if impErr.Row != 1 {
		t.Errorf("Row = %d, want 1", impErr.Row)
	}
	if impErr.Field != "title" {
		t.Errorf("Field = %q, want title", impErr.Field)
	}
	if len(writer.created) != 0 {
		t.Errorf("persisted %d records, want 0", len(writer.created))
	}
}

func TestImportEventsAllOrNothingAnyPosition(t *testing.T) {
	// A defective row rejects the whole batch no matter where it sits.
	for k := 0; k < 3; k++ {
		writer := &fakeWriter{}
		svc := NewService(writer)

		rows := make([]RawImportRow, 3)
		for i := range rows {
			rows[i] = validRow("Event", "2025-12-25")
		}
		rows[k] = RawImportRow{"title": "Broken", "description": "x"} // missing startDate

		result, impErr := svc.ImportEvents(context.Background(), rows, 1)
		if result != nil {
			t.Fatalf("k=%d: expected failure", k)
		}
		if impErr.Row != k {
			t.Errorf("k=%d: Row = %d", k, impErr.Row)
		}
		if impErr.Field != "startDate" {
			t.Errorf("k=%d: Field = %q, want startDate", k, impErr.Field)
		}
		if len(writer.created) != 0 {
			t.Errorf("k=%d: persisted %d records, want 0", k, len(writer.created))
		}
	}
}

func TestImportEventsDomainErrors(t *testing.T) {
	tests := []struct {
		name      string
		row       RawImportRow
		wantField string
	}{
		{
			name: "missing description",
			row: RawImportRow{
				"title":     "No Description",
				"startDate": "2025-12-25",
			},
			wantField: "description",
		},
		{
			name: "title below length bound",
			row: RawImportRow{
				"title":       "ab",
				"startDate":   "2025-12-25",
				"description": "x",
			},
			wantField: "title",
		},
		{
			name: "price not a number",
			row: RawImportRow{
				"title":       "Priced Event",
				"startDate":   "2025-12-25",
				"description": "x",
				"price":       "free",
			},
			wantField: "price",
		},
		{
			name: "negative maxAttendees",
			row: RawImportRow{
				"title":        "Capped Event",
				"startDate":    "2025-12-25",
				"description":  "x",
				"maxAttendees": "-5",
			},
			wantField: "maxAttendees",
		},
		{
			name: "banner not a URL",
			row: RawImportRow{
				"title":       "Banner Event",
				"startDate":   "2025-12-25",
				"description": "x",
				"bannerUrl":   "not a url",
			},
			wantField: "bannerUrl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &fakeWriter{}
			svc := NewService(writer)

			result, impErr := svc.ImportEvents(context.Background(), []RawImportRow{tt.row}, 1)
			if result != nil {
				t.Fatal("expected failure")
			}
			if impErr.Kind != ErrDomain {
				t.Errorf("Kind = %q, want %q", impErr.Kind, ErrDomain)
			}
			if impErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", impErr.Field, tt.wantField)
			}
			if len(writer.created) != 0 {
				t.Errorf("persisted %d records, want 0", len(writer.created))
			}
		})
	}
}

func TestImportEventsInvalidCalendarDateRejected(t *testing.T) {
	writer := &fakeWriter{}
	svc := NewService(writer)

	// Matches the all-day pattern but is not a real date; the strict
	// re-parse must catch it.
	rows := []RawImportRow{validRow("Phantom Day", "2025-02-30")}

	result, impErr := svc.ImportEvents(context.Background(), rows, 1)
	if result != nil {
		t.Fatal("expected failure")
	}
	if impErr.Kind != ErrDate {
		t.Errorf("Kind = %q, want %q", impErr.Kind, ErrDate)
	}
	if impErr.Field != "startDate" {
		t.Errorf("Field = %q, want startDate", impErr.Field)
	}
	if len(writer.created) != 0 {
		t.Errorf("persisted %d records, want 0", len(writer.created))
	}
}

func TestImportEventsUnparseableDateRejected(t *testing.T) {
	writer := &fakeWriter{}
	svc := NewService(writer)

	rows := []RawImportRow{validRow("Bad Date", "next tuesday")}

	result, impErr := svc.ImportEvents(context.Background(), rows, 1)
	if result != nil {
		t.Fatal("expected failure")
	}
	if impErr.Kind != ErrDate {
		t.Errorf("Kind = %q, want %q", impErr.Kind, ErrDate)
	}
}

func TestImportEventsPersistenceFailure(t *testing.T) {
	writer := &fakeWriter{err: errors.New("connection reset")}
	svc := NewService(writer)

	rows := []RawImportRow{validRow("Event", "2025-12-25")}

	result, impErr := svc.ImportEvents(context.Background(), rows, 1)
	if result != nil {
		t.Fatal("expected failure")
	}
	if impErr.Kind != ErrPersistence {
		t.Errorf("Kind = %q, want %q", impErr.Kind, ErrPersistence)
	}
	if impErr.Row != -1 {
		t.Errorf("Row = %d, want -1", impErr.Row)
	}
	if len(writer.created) != 0 {
		t.Errorf("persisted %d records, want 0", len(writer.created))
	}
}

func TestImportEventsEndDateFlowsThrough(t *testing.T) {
	writer := &fakeWriter{}
	svc := NewService(writer)

	row := validRow("Two Day Event", "2025-12-25")
	row["endDate"] = "2025-12-27 18:00"

	result, impErr := svc.ImportEvents(context.Background(), []RawImportRow{row}, 1)
	if impErr != nil {
		t.Fatalf("unexpected error: %v", impErr)
	}
	if result.CreatedCount != 1 {
		t.Fatalf("CreatedCount = %d, want 1", result.CreatedCount)
	}

	rec := writer.created[0]
	if rec.EndDate == nil {
		t.Fatal("EndDate should be set")
	}
	if rec.EndDate.Hour() != 18 {
		t.Errorf("EndDate hour = %d, want 18", rec.EndDate.Hour())
	}
}
