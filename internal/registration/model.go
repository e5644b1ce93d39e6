package registration

import (
	"time"
)

// Registration lifecycle states
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
	StatusFailed    = "FAILED"
)

// Line item kinds
const (
	ItemTicket  = "TICKET"
	ItemDeposit = "DEPOSIT"
	ItemAddon   = "ADDON"
)

// ============================
// 🔷 GORM Registration Model
type Registration struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	EventID     uint       `gorm:"not null;index" json:"event_id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Status      string     `gorm:"type:varchar(20);not null;default:PENDING;index" json:"status"`
	TotalAmount float64    `gorm:"not null" json:"total_amount"`
	Currency    string     `gorm:"type:varchar(3);not null" json:"currency"`
	OrderID     string     `gorm:"type:varchar(64);index" json:"order_id,omitempty"`
	PaymentID   *string    `gorm:"type:varchar(64)" json:"payment_id,omitempty"`
	Method      string     `gorm:"type:varchar(30)" json:"method,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	LineItems []LineItem `gorm:"foreignKey:RegistrationID" json:"line_items"`
}

// LineItem is one priced component of a registration
type LineItem struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	RegistrationID uint    `gorm:"not null;index" json:"registration_id"`
	Kind           string  `gorm:"type:varchar(20);not null" json:"kind"` // TICKET, DEPOSIT, ADDON
	Label          string  `gorm:"type:varchar(100)" json:"label,omitempty"`
	UnitPrice      float64 `gorm:"not null" json:"unit_price"`
	Quantity       int     `gorm:"not null" json:"quantity"`
	Amount         float64 `gorm:"not null" json:"amount"` // unit price × quantity, rounded
}

// ============================
// 🟡 Requests
type LineItemRequest struct {
	Kind      string  `json:"kind" binding:"required,oneof=TICKET DEPOSIT ADDON"`
	Label     string  `json:"label,omitempty"`
	UnitPrice float64 `json:"unit_price" binding:"gte=0"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
}

type CreateRegistrationRequest struct {
	EventID   uint              `json:"event_id" binding:"required"`
	LineItems []LineItemRequest `json:"line_items" binding:"omitempty,dive"`
}

type VerifyPaymentRequest struct {
	OrderID     string `json:"razorpay_order_id" binding:"required"`
	PaymentID   string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySig string `json:"razorpay_signature" binding:"required"`
}

// ============================
// 🟠 Responses
type CreateRegistrationResponse struct {
	RegistrationID uint    `json:"registration_id"`
	Status         string  `json:"status"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	OrderID        string  `json:"order_id,omitempty"`
	RazorpayKey    string  `json:"razorpay_key,omitempty"`
}

// RegistrationWithDetails joins in the attendee and event for listings
type RegistrationWithDetails struct {
	Registration
	UserName   string `json:"user_name"`
	UserEmail  string `json:"user_email"`
	EventTitle string `json:"event_title"`
}
