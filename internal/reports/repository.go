package reports

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	GetEventRows(ctx context.Context, start, end time.Time) ([]EventReportRow, error)
	GetRegistrationRows(ctx context.Context, start, end time.Time) ([]RegistrationReportRow, error)
	GetUserRows(ctx context.Context, start, end time.Time) ([]UserReportRow, error)
	GetAuditLogRows(ctx context.Context, start, end time.Time) ([]AuditLogReportRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetEventRows returns events created in the range with registration
// counts and confirmed revenue aggregated per event.
func (r *repository) GetEventRows(ctx context.Context, start, end time.Time) ([]EventReportRow, error) {
	var rows []EventReportRow
	err := r.db.WithContext(ctx).
		Table("events e").
		Select(`e.id, e.title, e.status, e.start_date, e.location, e.is_online,
			e.price, e.currency, e.created_at,
			u.full_name AS organizer_name,
			COUNT(reg.id) FILTER (WHERE reg.status = 'CONFIRMED') AS registrations,
			COALESCE(SUM(reg.total_amount) FILTER (WHERE reg.status = 'CONFIRMED'), 0) AS revenue`).
		Joins("LEFT JOIN users u ON u.id = e.created_by_id").
		Joins("LEFT JOIN registrations reg ON reg.event_id = e.id").
		Where("e.created_at BETWEEN ? AND ?", start, end).
		Group("e.id, u.full_name").
		Order("e.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) GetRegistrationRows(ctx context.Context, start, end time.Time) ([]RegistrationReportRow, error) {
	var rows []RegistrationReportRow
	err := r.db.WithContext(ctx).
		Table("registrations reg").
		Select(`reg.id, reg.status, reg.method, reg.total_amount, reg.currency,
			reg.confirmed_at, reg.created_at,
			e.title AS event_title,
			u.full_name AS user_name, u.email AS user_email`).
		Joins("LEFT JOIN events e ON e.id = reg.event_id").
		Joins("LEFT JOIN users u ON u.id = reg.user_id").
		Where("reg.created_at BETWEEN ? AND ?", start, end).
		Order("reg.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) GetUserRows(ctx context.Context, start, end time.Time) ([]UserReportRow, error) {
	var rows []UserReportRow
	err := r.db.WithContext(ctx).
		Table("users u").
		Select(`u.id, u.full_name, u.email, u.status, u.created_at AS joined_at,
			r.role_name AS role,
			COUNT(reg.id) FILTER (WHERE reg.status = 'CONFIRMED') AS registrations`).
		Joins("LEFT JOIN roles r ON r.id = u.role_id").
		Joins("LEFT JOIN registrations reg ON reg.user_id = u.id").
		Where("u.created_at BETWEEN ? AND ?", start, end).
		Group("u.id, r.role_name").
		Order("u.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) GetAuditLogRows(ctx context.Context, start, end time.Time) ([]AuditLogReportRow, error) {
	var rows []AuditLogReportRow
	err := r.db.WithContext(ctx).
		Table("audit_logs al").
		Select(`al.id, al.user_id, al.action, al.target_type, al.status,
			al.ip_address, al.created_at AS timestamp,
			COALESCE(u.full_name, 'System') AS user_name,
			al.details::text AS details`).
		Joins("LEFT JOIN users u ON u.id = al.user_id").
		Where("al.created_at BETWEEN ? AND ?", start, end).
		Order("al.created_at DESC").
		Scan(&rows).Error
	return rows, err
}
