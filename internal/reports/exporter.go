package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ReportExporter renders report rows into a downloadable document.
// Returns file contents, filename, and MIME type.
type ReportExporter interface {
	Export(reportType, format string, data ReportData) ([]byte, string, string, error)
}

type reportExporter struct{}

func NewReportExporter() ReportExporter {
	return &reportExporter{}
}

func (e *reportExporter) Export(reportType, format string, data ReportData) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch reportType {
	case ReportTypeEvents:
		return e.render(format, "events_report_"+timestamp, "Events Report", eventsTable(data.Events))
	case ReportTypeRegistrations:
		return e.render(format, "registrations_report_"+timestamp, "Registrations Report", registrationsTable(data.Registrations))
	case ReportTypeUsers:
		return e.render(format, "users_report_"+timestamp, "Users Report", usersTable(data.Users))
	case ReportTypeAuditLogs:
		return e.render(format, "audit_logs_report_"+timestamp, "Audit Logs Report", auditLogsTable(data.AuditLogs))
	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}
}

// reportTable is the format-independent shape every report reduces to
type reportTable struct {
	headers []string
	widths  []float64 // PDF column widths in mm
	rows    [][]string
}

func (e *reportExporter) render(format, basename, title string, table reportTable) ([]byte, string, string, error) {
	switch format {
	case FormatCSV:
		data, err := e.renderCSV(table)
		if err != nil {
			return nil, "", "", err
		}
		return data, basename + ".csv", "text/csv", nil

	case FormatExcel:
		data, err := e.renderExcel(title, table)
		if err != nil {
			return nil, "", "", err
		}
		return data, basename + ".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatPDF:
		data, err := e.renderPDF(title, table)
		if err != nil {
			return nil, "", "", err
		}
		return data, basename + ".pdf", "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format: %s", format)
	}
}

func (e *reportExporter) renderCSV(table reportTable) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(table.headers); err != nil {
		return nil, err
	}
	for _, row := range table.rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) renderExcel(title string, table reportTable) ([]byte, error) {
	f := excelize.NewFile()
	sheet := title
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for i, h := range table.headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, row := range table.rows {
		for cIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(cIdx+1, rIdx+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) renderPDF(title string, table reportTable) ([]byte, error) {
	// Landscape when the columns need the room
	orientation := "P"
	var totalWidth float64
	for _, w := range table.widths {
		totalWidth += w
	}
	if totalWidth > 190 {
		orientation = "L"
	}

	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, title)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 9)
	for i, h := range table.headers {
		pdf.CellFormat(table.widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range table.rows {
		for i, value := range row {
			pdf.CellFormat(table.widths[i], 6, value, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ============================
// 🔢 Row Builders

func eventsTable(rows []EventReportRow) reportTable {
	table := reportTable{
		headers: []string{"ID", "Title", "Status", "Start Date", "Location", "Online", "Price", "Registrations", "Revenue", "Organizer", "Created At"},
		widths:  []float64{12, 50, 22, 32, 35, 15, 20, 25, 22, 30, 32},
	}
	for _, r := range rows {
		location := r.Location
		if r.IsOnline {
			location = "Online"
		}
		table.rows = append(table.rows, []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Title,
			r.Status,
			r.StartDate.Format("2006-01-02 15:04"),
			location,
			strconv.FormatBool(r.IsOnline),
			fmt.Sprintf("%.2f %s", r.Price, r.Currency),
			strconv.FormatInt(r.Registrations, 10),
			fmt.Sprintf("%.2f", r.Revenue),
			r.OrganizerName,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return table
}

func registrationsTable(rows []RegistrationReportRow) reportTable {
	table := reportTable{
		headers: []string{"ID", "Event", "Attendee", "Email", "Status", "Method", "Amount", "Confirmed At", "Created At"},
		widths:  []float64{12, 50, 35, 45, 25, 20, 22, 32, 32},
	}
	for _, r := range rows {
		confirmedAt := ""
		if r.ConfirmedAt != nil {
			confirmedAt = r.ConfirmedAt.Format("2006-01-02 15:04:05")
		}
		table.rows = append(table.rows, []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.EventTitle,
			r.UserName,
			r.UserEmail,
			r.Status,
			r.Method,
			fmt.Sprintf("%.2f %s", r.TotalAmount, r.Currency),
			confirmedAt,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return table
}

func usersTable(rows []UserReportRow) reportTable {
	table := reportTable{
		headers: []string{"ID", "Full Name", "Email", "Role", "Status", "Registrations", "Joined At"},
		widths:  []float64{12, 45, 55, 25, 20, 28, 32},
	}
	for _, r := range rows {
		table.rows = append(table.rows, []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.FullName,
			r.Email,
			r.Role,
			r.Status,
			strconv.FormatInt(r.Registrations, 10),
			r.JoinedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return table
}

func auditLogsTable(rows []AuditLogReportRow) reportTable {
	table := reportTable{
		headers: []string{"ID", "User", "Action", "Target", "Status", "IP Address", "Timestamp", "Details"},
		widths:  []float64{12, 35, 45, 22, 20, 30, 32, 80},
	}
	for _, r := range rows {
		table.rows = append(table.rows, []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.UserName,
			r.Action,
			r.TargetType,
			r.Status,
			r.IPAddress,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Details,
		})
	}
	return table
}
