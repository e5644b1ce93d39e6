package reports

import (
	"context"
	"fmt"

	"github.com/jdblank/fire-backend/internal/auditlog"
)

type Service interface {
	GenerateReport(ctx context.Context, req ReportRequest, actorID uint, ip string) ([]byte, string, string, error)
}

type service struct {
	repo     Repository
	exporter ReportExporter
	auditSvc auditlog.Service
}

func NewService(repo Repository, exporter ReportExporter, auditSvc auditlog.Service) Service {
	return &service{repo: repo, exporter: exporter, auditSvc: auditSvc}
}

// GenerateReport loads rows for the requested type and date range, renders
// them in the requested format, and records the download in the audit log.
func (s *service) GenerateReport(ctx context.Context, req ReportRequest, actorID uint, ip string) ([]byte, string, string, error) {
	start, end, err := GetDateRange(req.DateRange, req.StartDate, req.EndDate)
	if err != nil {
		return nil, "", "", fmt.Errorf("invalid date range: %w", err)
	}

	if req.Format == "" {
		req.Format = FormatCSV
	}

	var data ReportData
	switch req.ReportType {
	case ReportTypeEvents:
		data.Events, err = s.repo.GetEventRows(ctx, start, end)
	case ReportTypeRegistrations:
		data.Registrations, err = s.repo.GetRegistrationRows(ctx, start, end)
	case ReportTypeUsers:
		data.Users, err = s.repo.GetUserRows(ctx, start, end)
	case ReportTypeAuditLogs:
		data.AuditLogs, err = s.repo.GetAuditLogRows(ctx, start, end)
	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", req.ReportType)
	}
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to load report data: %w", err)
	}

	content, filename, mimeType, err := s.exporter.Export(req.ReportType, req.Format, data)
	if err != nil {
		return nil, "", "", err
	}

	s.auditSvc.LogAction(ctx, &actorID, "REPORT_GENERATED", "report", nil, map[string]interface{}{
		"report_type": req.ReportType,
		"format":      req.Format,
		"date_range":  req.DateRange,
		"filename":    filename,
	}, ip, "success")

	return content, filename, mimeType, nil
}
