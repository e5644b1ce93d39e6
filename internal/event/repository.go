package event

import (
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// ===========================
// 🎯 Create Event
func (r *Repository) CreateEvent(e *Event) error {
	return r.DB.Create(e).Error
}

// ===========================
// 🎯 Create a batch of events atomically
//
// Either every event in the slice is persisted or none are. Used by the
// bulk import commit phase.
func (r *Repository) CreateEventsInTx(events []*Event) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for _, e := range events {
			if err := tx.Create(e).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ===========================
// 🔍 Get Event By ID with registration count
func (r *Repository) GetEventByID(id uint) (*Event, error) {
	var e Event
	err := r.DB.First(&e, id).Error
	if err != nil {
		return nil, err
	}

	var count int64
	err = r.DB.Table("registrations").
		Where("event_id = ? AND status = ?", id, "CONFIRMED").
		Count(&count).Error
	if err != nil {
		return nil, err
	}

	e.RegistrationCount = int(count)
	return &e, nil
}

// ===========================
// 📆 Get Upcoming Events (published, starting within the next 30 days)
func (r *Repository) GetUpcomingEvents() ([]Event, error) {
	var events []Event

	err := r.DB.
		Where("status = ? AND start_date >= CURRENT_DATE AND start_date < CURRENT_DATE + INTERVAL '30 day'", StatusPublished).
		Order("start_date ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	r.fillRegistrationCounts(events)
	return events, nil
}

// ===========================
// 📄 List Events With Pagination & Search
func (r *Repository) ListEvents(limit, offset int, search, status string) ([]Event, int64, error) {
	var events []Event
	var total int64

	query := r.DB.Model(&Event{})

	if search != "" {
		ilike := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR location ILIKE ?", ilike, ilike, ilike)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("start_date ASC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}

	r.fillRegistrationCounts(events)
	return events, total, nil
}

// ===========================
// 🛠 Update Event
func (r *Repository) UpdateEvent(e *Event) error {
	return r.DB.Save(e).Error
}

// ===========================
// ❌ Delete Event
func (r *Repository) DeleteEvent(id uint) error {
	return r.DB.Delete(&Event{}, id).Error
}

// ===========================
// 🔢 Count confirmed registrations for an event
func (r *Repository) CountRegistrations(eventID uint) (int, error) {
	var count int64
	err := r.DB.Table("registrations").
		Where("event_id = ? AND status = ?", eventID, "CONFIRMED").
		Count(&count).Error
	return int(count), err
}

// ===========================
// 📧 Contact details of confirmed registrants, for cancellation mail
type RegistrantContact struct {
	Email    string
	FullName string
}

func (r *Repository) ConfirmedRegistrantContacts(eventID uint) ([]RegistrantContact, error) {
	var contacts []RegistrantContact
	err := r.DB.Table("registrations reg").
		Select("u.email, u.full_name").
		Joins("JOIN users u ON u.id = reg.user_id").
		Where("reg.event_id = ? AND reg.status = ?", eventID, "CONFIRMED").
		Scan(&contacts).Error
	return contacts, err
}

func (r *Repository) fillRegistrationCounts(events []Event) {
	for i := range events {
		var count int64
		r.DB.Table("registrations").
			Where("event_id = ? AND status = ?", events[i].ID, "CONFIRMED").
			Count(&count)
		events[i].RegistrationCount = int(count)
	}
}

// ===========================
// 📊 Event Dashboard Stats
type EventStatsResponse struct {
	TotalEvents        int `json:"total_events"`
	PublishedEvents    int `json:"published_events"`
	ThisMonthEvents    int `json:"this_month_events"`
	UpcomingEvents     int `json:"upcoming_events"`
	TotalRegistrations int `json:"total_registrations"`
}

func (r *Repository) GetEventStats() (*EventStatsResponse, error) {
	var stats EventStatsResponse
	var total, published, thisMonth, upcoming, totalRegistrations int64

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	r.DB.Model(&Event{}).Count(&total)

	r.DB.Model(&Event{}).
		Where("status = ?", StatusPublished).
		Count(&published)

	r.DB.Model(&Event{}).
		Where("start_date >= ?", startOfMonth).
		Count(&thisMonth)

	r.DB.Model(&Event{}).
		Where("status = ? AND start_date >= CURRENT_DATE", StatusPublished).
		Count(&upcoming)

	r.DB.Table("registrations").
		Where("status = ?", "CONFIRMED").
		Count(&totalRegistrations)

	stats.TotalEvents = int(total)
	stats.PublishedEvents = int(published)
	stats.ThisMonthEvents = int(thisMonth)
	stats.UpcomingEvents = int(upcoming)
	stats.TotalRegistrations = int(totalRegistrations)

	return &stats, nil
}
