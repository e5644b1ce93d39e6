package eventimport

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jdblank/fire-backend/internal/event"
)

// EventWriter is the persistence collaborator for the commit phase.
// The production implementation is the event repository, which writes
// the whole batch inside one database transaction.
type EventWriter interface {
	CreateEventsInTx(events []*event.Event) error
}

// Service orchestrates a bulk CSV import: validate every row first,
// then commit the whole batch atomically. Fail-fast all-or-nothing:
// the first defective row rejects the upload before any write happens.
type Service struct {
	writer   EventWriter
	validate *validator.Validate
}

func NewService(writer EventWriter) *Service {
	return &Service{
		writer:   writer,
		validate: validator.New(),
	}
}

// ImportEvents runs the full pipeline over rows in order. On success it
// reports how many records were created; on the first failure it reports
// the failing row, field, and error kind without persisting anything.
func (s *Service) ImportEvents(ctx context.Context, rows []RawImportRow, actorID uint) (*ImportResult, *ImportError) {
	records := make([]*event.Event, 0, len(rows))

	for i, raw := range rows {
		shape := rowToShape(raw)

		// Step 1: shape schema
		if err := s.validate.Struct(shape); err != nil {
			return nil, &ImportError{
				Kind:   ErrShape,
				Row:    i,
				Field:  firstFailedField(err),
				Detail: err.Error(),
			}
		}

		// Step 2: normalize
		normalized := ParseEventImportRow(shape)

		// Step 3: domain schema (includes numeric conversions)
		domain, impErr := toDomainInput(normalized, i)
		if impErr != nil {
			return nil, impErr
		}
		if err := s.validate.Struct(domain); err != nil {
			return nil, &ImportError{
				Kind:   ErrDomain,
				Row:    i,
				Field:  firstFailedField(err),
				Detail: err.Error(),
			}
		}

		// Step 4: strict re-parse of normalized instants
		startDate, err := time.Parse(canonicalLayout, normalized.StartDate)
		if err != nil {
			return nil, &ImportError{
				Kind:   ErrDate,
				Row:    i,
				Field:  "startDate",
				Detail: "not a valid date instant: " + normalized.StartDate,
			}
		}
		var endDatePtr *time.Time
		if normalized.EndDate != "" {
			endDate, err := time.Parse(canonicalLayout, normalized.EndDate)
			if err != nil {
				return nil, &ImportError{
					Kind:   ErrDate,
					Row:    i,
					Field:  "endDate",
					Detail: "not a valid date instant: " + normalized.EndDate,
				}
			}
			endDate = endDate.UTC()
			endDatePtr = &endDate
		}

		// Step 5: accumulate the creation record
		records = append(records, &event.Event{
			Title:        normalized.Title,
			Description:  normalized.Description,
			StartDate:    startDate.UTC(),
			EndDate:      endDatePtr,
			IsAllDay:     normalized.IsAllDay,
			Location:     normalized.Location,
			IsOnline:     parseBool(normalized.IsOnline),
			Price:        domain.Price,
			Currency:     defaultCurrency(normalized.Currency),
			MaxAttendees: domain.MaxAttendees,
			BannerURL:    normalized.BannerURL,
			Status:       event.StatusPublished,
			CreatedByID:  actorID,
		})
	}

	// Step 6: commit phase, one transaction for the whole batch
	if err := s.writer.CreateEventsInTx(records); err != nil {
		return nil, &ImportError{
			Kind:   ErrPersistence,
			Row:    -1,
			Detail: err.Error(),
		}
	}

	return &ImportResult{
		BatchID:      uuid.NewString(),
		CreatedCount: len(records),
	}, nil
}

func rowToShape(raw RawImportRow) CsvEventImport {
	return CsvEventImport{
		Title:        raw["title"],
		StartDate:    raw["startDate"],
		Description:  raw["description"],
		EndDate:      raw["endDate"],
		Location:     raw["location"],
		IsOnline:     raw["isOnline"],
		Price:        raw["price"],
		Currency:     raw["currency"],
		MaxAttendees: raw["maxAttendees"],
		BannerURL:    raw["bannerUrl"],
	}
}

// toDomainInput converts the normalized candidate's stringly-typed
// numerics for the domain schema check.
func toDomainInput(n NormalizedEventInput, row int) (*domainEventInput, *ImportError) {
	d := &domainEventInput{
		Title:       n.Title,
		Description: n.Description,
		BannerURL:   n.BannerURL,
		Currency:    n.Currency,
	}

	if n.Price != "" {
		price, err := strconv.ParseFloat(strings.TrimSpace(n.Price), 64)
		if err != nil {
			return nil, &ImportError{Kind: ErrDomain, Row: row, Field: "price", Detail: "not a number: " + n.Price}
		}
		d.Price = price
	}

	if n.MaxAttendees != "" {
		max, err := strconv.Atoi(strings.TrimSpace(n.MaxAttendees))
		if err != nil {
			return nil, &ImportError{Kind: ErrDomain, Row: row, Field: "maxAttendees", Detail: "not an integer: " + n.MaxAttendees}
		}
		d.MaxAttendees = &max
	}

	return d, nil
}

func firstFailedField(err error) string {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		field := verrs[0].Field()
		if field == "BannerURL" {
			return "bannerUrl"
		}
		// CSV headers are camelCase
		return strings.ToLower(field[:1]) + field[1:]
	}
	return ""
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "y":
		return true
	}
	return false
}

func defaultCurrency(raw string) string {
	if raw == "" {
		return "USD"
	}
	return strings.ToUpper(raw)
}
