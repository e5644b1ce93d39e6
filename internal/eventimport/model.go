package eventimport

import (
	"fmt"
)

// RawImportRow is one CSV line keyed by trimmed header name.
type RawImportRow map[string]string

// ============================
// 🟡 Shape schema
//
// First validation pass: structural completeness of the raw row.
// Everything beyond title and startDate is optional at this stage.
type CsvEventImport struct {
	Title        string `json:"title" validate:"required"`
	StartDate    string `json:"startDate" validate:"required"`
	Description  string `json:"description,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
	Location     string `json:"location,omitempty"`
	IsOnline     string `json:"isOnline,omitempty"`
	Price        string `json:"price,omitempty"`
	Currency     string `json:"currency,omitempty"`
	MaxAttendees string `json:"maxAttendees,omitempty"`
	BannerURL    string `json:"bannerUrl,omitempty"`
}

// ============================
// 🟢 Normalized row
//
// Output of the normalizer: canonical ISO-8601 date strings, all-day flag,
// every other field passed through unchanged. EndDate is omitted from JSON
// when absent (empty string, never null).
type NormalizedEventInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate,omitempty"`
	IsAllDay     bool   `json:"isAllDay"`
	Location     string `json:"location,omitempty"`
	IsOnline     string `json:"isOnline,omitempty"`
	Price        string `json:"price,omitempty"`
	Currency     string `json:"currency,omitempty"`
	MaxAttendees string `json:"maxAttendees,omitempty"`
	BannerURL    string `json:"bannerUrl,omitempty"`
}

// ============================
// 🟠 Domain schema
//
// Second validation pass: business-rule bounds on the normalized candidate.
type domainEventInput struct {
	Title        string  `validate:"required,min=3,max=200"`
	Description  string  `validate:"required"`
	BannerURL    string  `validate:"omitempty,url"`
	Currency     string  `validate:"omitempty,len=3"`
	Price        float64 `validate:"gte=0"`
	MaxAttendees *int    `validate:"omitempty,gt=0"`
}

// ============================
// ❌ Error taxonomy
type ErrorKind string

const (
	ErrShape       ErrorKind = "shape"
	ErrDomain      ErrorKind = "domain"
	ErrDate        ErrorKind = "date"
	ErrPersistence ErrorKind = "persistence"
)

// ImportError describes the first defect that aborted a batch.
// Row is the 0-indexed position of the failing row; -1 for batch-level
// persistence failures.
type ImportError struct {
	Kind   ErrorKind `json:"kind"`
	Row    int       `json:"row"`
	Field  string    `json:"error_field,omitempty"`
	Detail string    `json:"error_detail"`
}

func (e *ImportError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("import %s error at row %d, field %q: %s", e.Kind, e.Row, e.Field, e.Detail)
	}
	return fmt.Sprintf("import %s error at row %d: %s", e.Kind, e.Row, e.Detail)
}

// ImportResult is the success summary of a batch.
type ImportResult struct {
	BatchID      string `json:"batch_id"`
	CreatedCount int    `json:"created_count"`
}
