package registration

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/jdblank/fire-backend/middleware"
)

// ==============================
// 🧾 PDF receipt for a confirmed registration
func (s *service) GenerateReceipt(ctx context.Context, id uint, accessContext middleware.AccessContext) ([]byte, string, error) {
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", errors.New("registration not found")
	}

	if reg.UserID != accessContext.UserID && !accessContext.IsAdmin() {
		return nil, "", errors.New("unauthorized to access this registration")
	}
	if reg.Status != StatusConfirmed {
		return nil, "", errors.New("receipt can only be generated for confirmed registrations")
	}

	transactionID := reg.OrderID
	if reg.PaymentID != nil {
		transactionID = *reg.PaymentID
	}
	confirmedAt := reg.CreatedAt
	if reg.ConfirmedAt != nil {
		confirmedAt = *reg.ConfirmedAt
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, "Registration Receipt")
	pdf.Ln(16)

	pdf.SetFont("Arial", "", 11)
	writeLine := func(label, value string) {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(50, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}

	writeLine("Receipt No:", fmt.Sprintf("REG-%d-%d", reg.EventID, reg.ID))
	writeLine("Event:", reg.EventTitle)
	writeLine("Attendee:", reg.UserName)
	writeLine("Email:", reg.UserEmail)
	writeLine("Confirmed:", confirmedAt.Format("2006-01-02 15:04"))
	writeLine("Transaction:", transactionID)
	writeLine("Method:", reg.Method)
	pdf.Ln(6)

	// Line item table
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(60, 8, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Unit Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, item := range reg.LineItems {
		label := item.Label
		if label == "" {
			label = item.Kind
		}
		pdf.CellFormat(60, 8, label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%.2f %s", item.UnitPrice, reg.Currency), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, strconv.Itoa(item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%.2f %s", item.Amount, reg.Currency), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(130, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f %s", reg.TotalAmount, reg.Currency), "1", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 6, "Generated on "+time.Now().Format("2006-01-02 15:04"))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render receipt: %w", err)
	}

	filename := fmt.Sprintf("receipt_%d.pdf", reg.ID)
	return buf.Bytes(), filename, nil
}

// ==============================
// 📤 CSV/XLSX export of an event's registrations (organizer/admin)
func (s *service) ExportByEvent(ctx context.Context, eventID uint, format string, accessContext middleware.AccessContext) ([]byte, string, error) {
	if err := s.checkEventManager(eventID, accessContext); err != nil {
		return nil, "", err
	}

	regs, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case "csv", "":
		return exportRegistrationsCSV(regs, eventID)
	case "xlsx", "excel":
		return exportRegistrationsExcel(regs, eventID)
	default:
		return nil, "", errors.New("unsupported export format")
	}
}

func exportRegistrationsCSV(regs []RegistrationWithDetails, eventID uint) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"ID", "Attendee", "Email", "Status", "Total", "Currency", "Tickets", "Confirmed At"}
	if err := writer.Write(header); err != nil {
		return nil, "", err
	}

	for _, reg := range regs {
		confirmedAt := ""
		if reg.ConfirmedAt != nil {
			confirmedAt = reg.ConfirmedAt.Format("2006-01-02 15:04:05")
		}

		record := []string{
			strconv.FormatUint(uint64(reg.ID), 10),
			reg.UserName,
			reg.UserEmail,
			reg.Status,
			fmt.Sprintf("%.2f", reg.TotalAmount),
			reg.Currency,
			strconv.Itoa(TicketQuantity(reg.LineItems)),
			confirmedAt,
		}
		if err := writer.Write(record); err != nil {
			return nil, "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("registrations_event_%d_%d.csv", eventID, time.Now().Unix())
	return buf.Bytes(), filename, nil
}

func exportRegistrationsExcel(regs []RegistrationWithDetails, eventID uint) ([]byte, string, error) {
	f := excelize.NewFile()
	sheet := "Registrations"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []string{"ID", "Attendee", "Email", "Status", "Total", "Currency", "Tickets", "Confirmed At"}
	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, "", err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, reg := range regs {
		confirmedAt := ""
		if reg.ConfirmedAt != nil {
			confirmedAt = reg.ConfirmedAt.Format("2006-01-02 15:04:05")
		}
		row := rIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), reg.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), reg.UserName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), reg.UserEmail)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), reg.Status)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), fmt.Sprintf("%.2f", reg.TotalAmount))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), reg.Currency)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), TicketQuantity(reg.LineItems))
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), confirmedAt)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("registrations_event_%d_%d.xlsx", eventID, time.Now().Unix())
	return buf.Bytes(), filename, nil
}
