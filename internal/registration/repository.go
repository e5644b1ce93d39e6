package registration

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, r *Registration) error
	GetByID(ctx context.Context, id uint) (*RegistrationWithDetails, error)
	GetByOrderID(ctx context.Context, orderID string) (*Registration, error)
	UpdatePaymentDetails(ctx context.Context, orderID string, params UpdatePaymentDetailsParams) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	ListByUser(ctx context.Context, userID uint) ([]RegistrationWithDetails, error)
	ListByEvent(ctx context.Context, eventID uint) ([]RegistrationWithDetails, error)
	CountConfirmedTickets(ctx context.Context, eventID uint) (int, error)
}

type UpdatePaymentDetailsParams struct {
	Status      string
	PaymentID   *string
	Method      string
	ConfirmedAt *time.Time
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create persists a registration and its line items in one transaction
func (r *repository) Create(ctx context.Context, reg *Registration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*RegistrationWithDetails, error) {
	var reg Registration
	if err := r.db.WithContext(ctx).Preload("LineItems").First(&reg, id).Error; err != nil {
		return nil, err
	}
	return r.withDetails(ctx, &reg)
}

func (r *repository) GetByOrderID(ctx context.Context, orderID string) (*Registration, error) {
	var reg Registration
	err := r.db.WithContext(ctx).Preload("LineItems").
		Where("order_id = ?", orderID).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *repository) UpdatePaymentDetails(ctx context.Context, orderID string, params UpdatePaymentDetailsParams) error {
	updates := map[string]interface{}{
		"status": params.Status,
		"method": params.Method,
	}
	if params.PaymentID != nil {
		updates["payment_id"] = *params.PaymentID
	}
	if params.ConfirmedAt != nil {
		updates["confirmed_at"] = *params.ConfirmedAt
	}

	return r.db.WithContext(ctx).Model(&Registration{}).
		Where("order_id = ?", orderID).
		Updates(updates).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&Registration{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]RegistrationWithDetails, error) {
	var regs []Registration
	err := r.db.WithContext(ctx).Preload("LineItems").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return r.withDetailsAll(ctx, regs)
}

func (r *repository) ListByEvent(ctx context.Context, eventID uint) ([]RegistrationWithDetails, error) {
	var regs []Registration
	err := r.db.WithContext(ctx).Preload("LineItems").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return r.withDetailsAll(ctx, regs)
}

// CountConfirmedTickets sums confirmed ticket quantities for the capacity check
func (r *repository) CountConfirmedTickets(ctx context.Context, eventID uint) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Table("line_items li").
		Joins("JOIN registrations reg ON reg.id = li.registration_id").
		Where("reg.event_id = ? AND reg.status = ? AND li.kind = ?", eventID, StatusConfirmed, ItemTicket).
		Select("COALESCE(SUM(li.quantity), 0)").
		Scan(&total).Error
	return int(total), err
}

type detailRow struct {
	UserName   string
	UserEmail  string
	EventTitle string
}

func (r *repository) withDetails(ctx context.Context, reg *Registration) (*RegistrationWithDetails, error) {
	var row detailRow
	err := r.db.WithContext(ctx).
		Table("registrations reg").
		Select("u.full_name as user_name, u.email as user_email, e.title as event_title").
		Joins("JOIN users u ON u.id = reg.user_id").
		Joins("JOIN events e ON e.id = reg.event_id").
		Where("reg.id = ?", reg.ID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &RegistrationWithDetails{
		Registration: *reg,
		UserName:     row.UserName,
		UserEmail:    row.UserEmail,
		EventTitle:   row.EventTitle,
	}, nil
}

func (r *repository) withDetailsAll(ctx context.Context, regs []Registration) ([]RegistrationWithDetails, error) {
	out := make([]RegistrationWithDetails, 0, len(regs))
	for i := range regs {
		detailed, err := r.withDetails(ctx, &regs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *detailed)
	}
	return out, nil
}
