package reports

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdblank/fire-backend/middleware"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// DownloadReport handles GET /admin/reports
// @Summary Download a platform report
// @Tags Reports
// @Produce application/octet-stream
// @Param type query string true "Report type" Enums(events, registrations, users, audit_logs)
// @Param format query string false "Output format" Enums(csv, excel, pdf) default(csv)
// @Param date_range query string false "Date range preset" Enums(daily, weekly, monthly, yearly, custom)
// @Param start_date query string false "Custom range start (YYYY-MM-DD)"
// @Param end_date query string false "Custom range end (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Failure 400 {object} gin.H
// @Router /api/v1/admin/reports [get]
func (h *Handler) DownloadReport(c *gin.Context) {
	accessContext, ok := middleware.GetAccessContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
		return
	}

	req := ReportRequest{
		ReportType: c.Query("type"),
		Format:     c.DefaultQuery("format", FormatCSV),
		DateRange:  c.DefaultQuery("date_range", DateRangeWeekly),
		StartDate:  c.Query("start_date"),
		EndDate:    c.Query("end_date"),
	}

	if req.ReportType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type query parameter is required"})
		return
	}

	ip := middleware.GetIPFromContext(c)
	content, filename, mimeType, err := h.service.GenerateReport(c.Request.Context(), req, accessContext.UserID, ip)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, mimeType, content)
}
