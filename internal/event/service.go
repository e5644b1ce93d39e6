package event

import (
	"context"
	"errors"
	"time"

	"github.com/jdblank/fire-backend/internal/auditlog"
	"github.com/jdblank/fire-backend/internal/notification"
	"github.com/jdblank/fire-backend/middleware"
	"github.com/jdblank/fire-backend/utils"
)

// Layouts accepted for start_date/end_date in create/update requests.
// A bare calendar date means an all-day event.
var requestDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Service wraps business logic for community events
type Service struct {
	Repo     *Repository
	AuditSvc auditlog.Service
	NotifSvc notification.Service
}

func NewService(r *Repository, auditSvc auditlog.Service) *Service {
	return &Service{
		Repo:     r,
		AuditSvc: auditSvc,
	}
}

func parseRequestDate(raw string) (time.Time, bool, error) {
	for _, layout := range requestDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), layout == "2006-01-02", nil
		}
	}
	return time.Time{}, false, errors.New("invalid date format. Use RFC3339 or YYYY-MM-DD")
}

// canModify enforces ownership: organizers manage their own events, admins manage all
func canModify(accessContext middleware.AccessContext, e *Event) bool {
	if accessContext.IsAdmin() {
		return true
	}
	return accessContext.RoleName == middleware.RoleOrganizer && e.CreatedByID == accessContext.UserID
}

// ===========================
// 🎯 Create Event
func (s *Service) CreateEvent(ctx context.Context, req *CreateEventRequest, accessContext middleware.AccessContext, ip string) (*Event, error) {
	startDate, allDay, err := parseRequestDate(req.StartDate)
	if err != nil {
		s.AuditSvc.LogAction(ctx, &accessContext.UserID, "EVENT_CREATED", "event", nil, map[string]interface{}{
			"title":      req.Title,
			"error":      "invalid start_date",
			"start_date": req.StartDate,
		}, ip, "failure")
		return nil, errors.New("invalid start_date format. Use RFC3339 or YYYY-MM-DD")
	}

	var endDatePtr *time.Time
	if req.EndDate != "" {
		endDate, _, err := parseRequestDate(req.EndDate)
		if err != nil {
			return nil, errors.New("invalid end_date format. Use RFC3339 or YYYY-MM-DD")
		}
		endDatePtr = &endDate
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	status := req.Status
	if status == "" {
		status = StatusDraft
	}

	e := &Event{
		Title:        req.Title,
		Description:  req.Description,
		StartDate:    startDate,
		EndDate:      endDatePtr,
		IsAllDay:     req.IsAllDay || allDay,
		Location:     req.Location,
		IsOnline:     req.IsOnline,
		Price:        req.Price,
		Currency:     currency,
		MaxAttendees: req.MaxAttendees,
		BannerURL:    req.BannerURL,
		Status:       status,
		CreatedByID:  accessContext.UserID,
	}

	if err := s.Repo.CreateEvent(e); err != nil {
		s.AuditSvc.LogAction(ctx, &accessContext.UserID, "EVENT_CREATED", "event", nil, map[string]interface{}{
			"title": req.Title,
			"error": err.Error(),
		}, ip, "failure")
		return nil, err
	}

	s.AuditSvc.LogAction(ctx, &accessContext.UserID, "EVENT_CREATED", "event", &e.ID, map[string]interface{}{
		"title":      e.Title,
		"start_date": e.StartDate.Format(time.RFC3339),
		"status":     e.Status,
	}, ip, "success")

	if e.Status == StatusPublished {
		s.announcePublished(ctx, e)
	}

	return e, nil
}

// ===========================
// 🔍 Get Event by ID
//
// Drafts are only visible to admins and to the organizer who owns them.
func (s *Service) GetEventByID(id uint, accessContext middleware.AccessContext) (*Event, error) {
	e, err := s.Repo.GetEventByID(id)
	if err != nil {
		return nil, err
	}

	if e.Status == StatusDraft && !canModify(accessContext, e) {
		return nil, errors.New("event not found")
	}

	return e, nil
}

// ===========================
// 📆 Get Upcoming Events
func (s *Service) GetUpcomingEvents() ([]Event, error) {
	return s.Repo.GetUpcomingEvents()
}

// ===========================
// 📄 List Events with Pagination
//
// Members only see published events; admins and organizers may filter by status.
func (s *Service) ListEvents(accessContext middleware.AccessContext, limit, page int, search, status string) (*PaginatedEvents, error) {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	if !accessContext.CanManageEvents() {
		status = StatusPublished
	}

	events, total, err := s.Repo.ListEvents(limit, (page-1)*limit, search, status)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &PaginatedEvents{
		Data:       events,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// ===========================
// 📊 Dashboard Stats
func (s *Service) GetEventStats() (*EventStatsResponse, error) {
	return s.Repo.GetEventStats()
}

// ===========================
// 🛠 Update Event
func (s *Service) UpdateEvent(ctx context.Context, id uint, req *UpdateEventRequest, accessContext middleware.AccessContext, ip string) (*Event, error) {
	e, err := s.Repo.GetEventByID(id)
	if err != nil {
		s.AuditSvc.LogAction(ctx, &accessContext.UserID, "EVENT_UPDATED", "event", &id, map[string]interface{}{
			"error": "event not found",
		}, ip, "failure")
		return nil, err
	}

	if !canModify(accessContext, e) {
		s.AuditSvc.LogAction(ctx, &accessContext.UserID, "EVENT_UPDATED", "event", &id, map[string]interface{}{
			"event_title": e.Title,
			"error":       "unauthorized access",
		}, ip, "failure")
		return nil, errors.New("unauthorized: cannot update this event")
	}

	startDate, allDay, err := parseRequestDate(req.StartDate)
	if err != nil {
		return nil, errors.New("invalid start_date format. Use RFC3339 or YYYY-MM-DD")
	}
	e.StartDate = startDate
	e.IsAllDay = req.IsAllDay || allDay

	if req.EndDate != "" {
		endDate, _, err := parseRequestDate(req.EndDate)
		if err != nil {
			return nil, errors.New("invalid end_date format. Use RFC3339 or YYYY-MM-DD")
		}
		e.EndDate = &endDate
	} else {
		e.EndDate = nil
	}

	originalTitle := e.Title

	e.Title = req.Title
	e.Description = req.Description
	e.Location = req.Location
	e.IsOnline = req.IsOnline
	e.Price = req.Price
	if req.Currency != "" {
		e.Currency = req.Currency
	}
	e.MaxAttendees = req.MaxAttendees
	e.BannerURL = req.BannerURL

	if err := s.Repo.UpdateEvent(e); err != nil {
		s.AuditSvc.LogAction(ctx, &accessContext.UserID, "EVENT_UPDATED", "event", &id, map[string]interface{}{
			"event_title": originalTitle,
			"error":       err.Error(),
		}, ip, "failure")
		return nil, err
	}

	s.AuditSvc.LogAction(ctx, &accessContext.UserID, "EVENT_UPDATED", "event", &e.ID, map[string]interface{}{
		"event_title": e.Title,
	}, ip, "success")

	return e, nil
}

// ===========================
// 📣 Publish Event
func (s *Service) PublishEvent(ctx context.Context, id uint, accessContext middleware.AccessContext, ip string) (*Event, error) {
	e, err := s.Repo.GetEventByID(id)
	if err != nil {
		return nil, err
	}

	if !canModify(accessContext, e) {
		return nil, errors.New("unauthorized: cannot publish this event")
	}
	if e.Status == StatusCancelled {
		return nil, errors.New("cancelled events cannot be published")
	}
	if e.Status == StatusPublished {
		return e, nil
	}

	e.Status = StatusPublished
	if err := s.Repo.UpdateEvent(e); err != nil {
		s.AuditSvc.LogAction(ctx, &accessContext.UserID, "EVENT_PUBLISHED", "event", &id, map[string]interface{}{
			"error": err.Error(),
		}, ip, "failure")
		return nil, err
	}

	s.AuditSvc.LogAction(ctx, &accessContext.UserID, "EVENT_PUBLISHED", "event", &e.ID, map[string]interface{}{
		"event_title": e.Title,
	}, ip, "success")

	s.announcePublished(ctx, e)
	return e, nil
}

// ===========================
// ❌ Cancel Event
func (s *Service) CancelEvent(ctx context.Context, id uint, accessContext middleware.AccessContext, ip string) (*Event, error) {
	e, err := s.Repo.GetEventByID(id)
	if err != nil {
		return nil, err
	}

	if !canModify(accessContext, e) {
		return nil, errors.New("unauthorized: cannot cancel this event")
	}
	if e.Status == StatusCancelled {
		return e, nil
	}

	e.Status = StatusCancelled
	if err := s.Repo.UpdateEvent(e); err != nil {
		return nil, err
	}

	s.AuditSvc.LogAction(ctx, &accessContext.UserID, "EVENT_CANCELLED", "event", &e.ID, map[string]interface{}{
		"event_title": e.Title,
	}, ip, "success")

	utils.PublishPlatformEvent(ctx, "event.cancelled", map[string]interface{}{
		"event_id": e.ID,
		"title":    e.Title,
	})

	// Confirmed registrants get told directly, not just via the feed
	if contacts, err := s.Repo.ConfirmedRegistrantContacts(e.ID); err == nil {
		go func(title string, contacts []RegistrantContact) {
			for _, contact := range contacts {
				utils.SendEventCancelledEmail(contact.Email, contact.FullName, title)
			}
		}(e.Title, contacts)
	}

	return e, nil
}

// ===========================
// ❌ Delete Event (drafts only)
func (s *Service) DeleteEvent(ctx context.Context, id uint, accessContext middleware.AccessContext, ip string) error {
	e, err := s.Repo.GetEventByID(id)
	if err != nil {
		return err
	}

	if !canModify(accessContext, e) {
		s.AuditSvc.LogAction(ctx, &accessContext.UserID, "EVENT_DELETED", "event", &id, map[string]interface{}{
			"event_title": e.Title,
			"error":       "unauthorized access",
		}, ip, "failure")
		return errors.New("unauthorized: cannot delete this event")
	}

	if e.Status != StatusDraft {
		return errors.New("only draft events can be deleted; cancel published events instead")
	}

	if err := s.Repo.DeleteEvent(id); err != nil {
		s.AuditSvc.LogAction(ctx, &accessContext.UserID, "EVENT_DELETED", "event", &id, map[string]interface{}{
			"event_title": e.Title,
			"error":       err.Error(),
		}, ip, "failure")
		return err
	}

	s.AuditSvc.LogAction(ctx, &accessContext.UserID, "EVENT_DELETED", "event", &id, map[string]interface{}{
		"event_title": e.Title,
	}, ip, "success")

	return nil
}

// announcePublished fans a freshly published event out to the platform:
// a kafka platform event plus an in-app broadcast to all members.
func (s *Service) announcePublished(ctx context.Context, e *Event) {
	utils.PublishPlatformEvent(ctx, "event.published", map[string]interface{}{
		"event_id":   e.ID,
		"title":      e.Title,
		"start_date": e.StartDate.Format(time.RFC3339),
	})

	if s.NotifSvc != nil {
		_ = s.NotifSvc.BroadcastToRoles(ctx,
			[]string{"member", "organizer"},
			"New Event",
			e.Title+" on "+e.StartDate.Format("2006-01-02"),
			"event",
		)
	}
}
