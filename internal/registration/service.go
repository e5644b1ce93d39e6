package registration

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/jdblank/fire-backend/config"
	"github.com/jdblank/fire-backend/internal/auditlog"
	"github.com/jdblank/fire-backend/internal/event"
	"github.com/jdblank/fire-backend/middleware"
	"github.com/jdblank/fire-backend/utils"
)

type Service interface {
	Register(ctx context.Context, req CreateRegistrationRequest, userID uint, ip string) (*CreateRegistrationResponse, error)
	VerifyPayment(ctx context.Context, req VerifyPaymentRequest, ip string) error
	CancelRegistration(ctx context.Context, id uint, accessContext middleware.AccessContext, ip string) error

	GetMyRegistrations(ctx context.Context, userID uint) ([]RegistrationWithDetails, error)
	ListByEvent(ctx context.Context, eventID uint, accessContext middleware.AccessContext) ([]RegistrationWithDetails, error)

	GenerateReceipt(ctx context.Context, id uint, accessContext middleware.AccessContext) ([]byte, string, error)
	ExportByEvent(ctx context.Context, eventID uint, format string, accessContext middleware.AccessContext) ([]byte, string, error)
}

type service struct {
	repo      Repository
	eventRepo *event.Repository
	client    *razorpay.Client
	cfg       *config.Config
	auditSvc  auditlog.Service
}

func NewService(repo Repository, eventRepo *event.Repository, cfg *config.Config, auditSvc auditlog.Service) Service {
	client := razorpay.NewClient(cfg.RazorpayKey, cfg.RazorpaySecret)
	return &service{
		repo:      repo,
		eventRepo: eventRepo,
		client:    client,
		cfg:       cfg,
		auditSvc:  auditSvc,
	}
}

// ==============================
// 🎟 Register for an event
//
// Free registrations confirm immediately. Paid ones open a Razorpay
// order and stay PENDING until VerifyPayment.
func (s *service) Register(ctx context.Context, req CreateRegistrationRequest, userID uint, ip string) (*CreateRegistrationResponse, error) {
	e, err := s.eventRepo.GetEventByID(req.EventID)
	if err != nil {
		return nil, errors.New("event not found")
	}
	if e.Status != event.StatusPublished {
		return nil, errors.New("event is not open for registration")
	}
	if e.StartDate.Before(time.Now()) && !e.IsAllDay {
		return nil, errors.New("event has already started")
	}

	items, total, err := ComputeLineItems(e.Price, req.LineItems)
	if err != nil {
		return nil, err
	}

	// Capacity check against confirmed ticket quantities
	if e.MaxAttendees != nil {
		confirmed, err := s.repo.CountConfirmedTickets(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		if confirmed+TicketQuantity(items) > *e.MaxAttendees {
			return nil, errors.New("event is at capacity")
		}
	}

	reg := &Registration{
		EventID:     e.ID,
		UserID:      userID,
		TotalAmount: total,
		Currency:    e.Currency,
		LineItems:   items,
	}

	// 💸 Free registration: confirm on the spot
	if total == 0 {
		now := time.Now()
		reg.Status = StatusConfirmed
		reg.ConfirmedAt = &now
		reg.Method = "FREE"

		if err := s.repo.Create(ctx, reg); err != nil {
			return nil, fmt.Errorf("failed to create registration: %w", err)
		}

		s.auditSvc.LogAction(ctx, &userID, "REGISTRATION_CONFIRMED", "registration", &reg.ID, map[string]interface{}{
			"event_id":    e.ID,
			"event_title": e.Title,
			"amount":      total,
		}, ip, "success")

		s.sendConfirmation(ctx, reg.ID, e.Title)
		utils.PublishPlatformEvent(ctx, "registration.confirmed", map[string]interface{}{
			"registration_id": reg.ID,
			"event_id":        e.ID,
			"user_id":         userID,
		})

		return &CreateRegistrationResponse{
			RegistrationID: reg.ID,
			Status:         StatusConfirmed,
			Amount:         0,
			Currency:       e.Currency,
		}, nil
	}

	// 💳 Paid registration: open a Razorpay order first
	amountInSubunits := AmountInSubunits(total)
	order, err := s.client.Order.Create(map[string]interface{}{
		"amount":          amountInSubunits,
		"currency":        e.Currency,
		"payment_capture": 1,
		"notes": map[string]interface{}{
			"user_id":  userID,
			"event_id": e.ID,
		},
	}, nil)
	if err != nil {
		s.auditSvc.LogAction(ctx, &userID, "REGISTRATION_INITIATED", "registration", nil, map[string]interface{}{
			"event_id": e.ID,
			"amount":   total,
			"error":    err.Error(),
		}, ip, "failure")
		return nil, fmt.Errorf("razorpay order creation failed: %w", err)
	}

	orderID, ok := order["id"].(string)
	if !ok {
		return nil, errors.New("unable to extract order_id from Razorpay response")
	}

	reg.Status = StatusPending
	reg.OrderID = orderID

	if err := s.repo.Create(ctx, reg); err != nil {
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	s.auditSvc.LogAction(ctx, &userID, "REGISTRATION_INITIATED", "registration", &reg.ID, map[string]interface{}{
		"event_id":    e.ID,
		"event_title": e.Title,
		"amount":      total,
		"order_id":    orderID,
	}, ip, "success")

	return &CreateRegistrationResponse{
		RegistrationID: reg.ID,
		Status:         StatusPending,
		Amount:         total,
		Currency:       e.Currency,
		OrderID:        orderID,
		RazorpayKey:    s.cfg.RazorpayKey,
	}, nil
}

// ==============================
// ✅ Verify payment signature and confirm
func (s *service) VerifyPayment(ctx context.Context, req VerifyPaymentRequest, ip string) error {
	// Step 1: HMAC signature over "order_id|payment_id"
	expected := hmac.New(sha256.New, []byte(s.cfg.RazorpaySecret))
	expected.Write([]byte(req.OrderID + "|" + req.PaymentID))
	computedSignature := hex.EncodeToString(expected.Sum(nil))

	if !hmac.Equal([]byte(computedSignature), []byte(req.RazorpaySig)) {
		s.auditSvc.LogAction(ctx, nil, "REGISTRATION_VERIFICATION_FAILED", "registration", nil, map[string]interface{}{
			"order_id":   req.OrderID,
			"payment_id": req.PaymentID,
			"reason":     "invalid payment signature",
		}, ip, "failure")
		return errors.New("invalid payment signature")
	}

	// Step 2: fetch the payment from Razorpay
	payment, err := s.client.Payment.Fetch(req.PaymentID, nil, nil)
	if err != nil {
		return fmt.Errorf("razorpay payment fetch failed: %w", err)
	}

	paymentStatus, ok := payment["status"].(string)
	if !ok {
		return errors.New("invalid payment status format")
	}

	// Step 3: locate the pending registration
	reg, err := s.repo.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		return errors.New("registration not found for given order ID")
	}
	if reg.Status == StatusConfirmed {
		return nil // already processed
	}

	// Step 4: amount must match what we computed at registration time
	var paidAmount float64
	switch val := payment["amount"].(type) {
	case float64:
		paidAmount = val / 100
	case json.Number:
		subunits, _ := val.Float64()
		paidAmount = subunits / 100
	default:
		return fmt.Errorf("unsupported amount type: %T", val)
	}
	if paidAmount < reg.TotalAmount {
		s.auditSvc.LogAction(ctx, &reg.UserID, "REGISTRATION_VERIFICATION_FAILED", "registration", &reg.ID, map[string]interface{}{
			"order_id": req.OrderID,
			"expected": reg.TotalAmount,
			"paid":     paidAmount,
			"reason":   "amount mismatch",
		}, ip, "failure")
		return errors.New("paid amount does not match registration total")
	}

	method := "UNKNOWN"
	if paymentMethod, ok := payment["method"].(string); ok {
		method = paymentMethod
	}

	newStatus := StatusFailed
	var confirmedAt *time.Time
	auditAction := "REGISTRATION_FAILED"
	auditStatus := "failure"
	if paymentStatus == "captured" {
		newStatus = StatusConfirmed
		now := time.Now()
		confirmedAt = &now
		auditAction = "REGISTRATION_CONFIRMED"
		auditStatus = "success"
	}

	err = s.repo.UpdatePaymentDetails(ctx, req.OrderID, UpdatePaymentDetailsParams{
		Status:      newStatus,
		PaymentID:   &req.PaymentID,
		Method:      method,
		ConfirmedAt: confirmedAt,
	})
	if err != nil {
		return err
	}

	s.auditSvc.LogAction(ctx, &reg.UserID, auditAction, "registration", &reg.ID, map[string]interface{}{
		"order_id":        req.OrderID,
		"payment_id":      req.PaymentID,
		"amount":          paidAmount,
		"method":          method,
		"razorpay_status": paymentStatus,
	}, ip, auditStatus)

	if newStatus == StatusConfirmed {
		e, err := s.eventRepo.GetEventByID(reg.EventID)
		if err == nil {
			s.sendConfirmation(ctx, reg.ID, e.Title)
		}
		utils.PublishPlatformEvent(ctx, "registration.confirmed", map[string]interface{}{
			"registration_id": reg.ID,
			"event_id":        reg.EventID,
			"user_id":         reg.UserID,
		})
	}

	return nil
}

// ==============================
// ❌ Cancel a registration
//
// Attendees cancel their own; admins can cancel any.
func (s *service) CancelRegistration(ctx context.Context, id uint, accessContext middleware.AccessContext, ip string) error {
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.New("registration not found")
	}

	if reg.UserID != accessContext.UserID && !accessContext.IsAdmin() {
		return errors.New("unauthorized: cannot cancel this registration")
	}
	if reg.Status == StatusCancelled {
		return nil
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusCancelled); err != nil {
		return err
	}

	s.auditSvc.LogAction(ctx, &accessContext.UserID, "REGISTRATION_CANCELLED", "registration", &id, map[string]interface{}{
		"event_id":    reg.EventID,
		"event_title": reg.EventTitle,
	}, ip, "success")

	utils.SendRegistrationCancelledEmail(reg.UserEmail, reg.UserName, reg.EventTitle)
	return nil
}

func (s *service) GetMyRegistrations(ctx context.Context, userID uint) ([]RegistrationWithDetails, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListByEvent is for the event's organizer and admins
func (s *service) ListByEvent(ctx context.Context, eventID uint, accessContext middleware.AccessContext) ([]RegistrationWithDetails, error) {
	if err := s.checkEventManager(eventID, accessContext); err != nil {
		return nil, err
	}
	return s.repo.ListByEvent(ctx, eventID)
}

func (s *service) checkEventManager(eventID uint, accessContext middleware.AccessContext) error {
	if accessContext.IsAdmin() {
		return nil
	}
	e, err := s.eventRepo.GetEventByID(eventID)
	if err != nil {
		return errors.New("event not found")
	}
	if accessContext.RoleName != middleware.RoleOrganizer || e.CreatedByID != accessContext.UserID {
		return errors.New("unauthorized: not the organizer of this event")
	}
	return nil
}

func (s *service) sendConfirmation(ctx context.Context, regID uint, eventTitle string) {
	detailed, err := s.repo.GetByID(ctx, regID)
	if err != nil {
		return
	}
	utils.SendRegistrationConfirmationEmail(
		detailed.UserEmail,
		detailed.UserName,
		eventTitle,
		detailed.TotalAmount,
		detailed.Currency,
	)
}
