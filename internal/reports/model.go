package reports

import (
	"time"
)

// ============================
// 📊 Report Types
const (
	ReportTypeEvents        = "events"
	ReportTypeRegistrations = "registrations"
	ReportTypeUsers         = "users"
	ReportTypeAuditLogs     = "audit_logs"
)

// ============================
// 📄 Output Formats
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// ============================
// 📅 Date Range Presets
const (
	DateRangeDaily   = "daily"
	DateRangeWeekly  = "weekly"
	DateRangeMonthly = "monthly"
	DateRangeYearly  = "yearly"
	DateRangeCustom  = "custom"
)

// ReportRequest captures the query parameters of a report download
type ReportRequest struct {
	ReportType string
	Format     string
	DateRange  string
	StartDate  string
	EndDate    string
}

// ============================
// 🔷 Report Rows

type EventReportRow struct {
	ID            uint
	Title         string
	Status        string
	StartDate     time.Time
	Location      string
	IsOnline      bool
	Price         float64
	Currency      string
	Registrations int64
	Revenue       float64
	OrganizerName string
	CreatedAt     time.Time
}

type RegistrationReportRow struct {
	ID          uint
	EventTitle  string
	UserName    string
	UserEmail   string
	Status      string
	Method      string
	TotalAmount float64
	Currency    string
	ConfirmedAt *time.Time
	CreatedAt   time.Time
}

type UserReportRow struct {
	ID            uint
	FullName      string
	Email         string
	Role          string
	Status        string
	Registrations int64
	JoinedAt      time.Time
}

type AuditLogReportRow struct {
	ID         uint
	UserID     *uint
	UserName   string
	Action     string
	TargetType string
	Status     string
	IPAddress  string
	Timestamp  time.Time
	Details    string
}

// ReportData holds rows for whichever report type was requested
type ReportData struct {
	Events        []EventReportRow
	Registrations []RegistrationReportRow
	Users         []UserReportRow
	AuditLogs     []AuditLogReportRow
}
