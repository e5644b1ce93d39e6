package eventimport

import (
	"encoding/csv"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jdblank/fire-backend/internal/auditlog"
	"github.com/jdblank/fire-backend/middleware"
	"github.com/jdblank/fire-backend/utils"
)

type Handler struct {
	Service  *Service
	AuditSvc auditlog.Service
}

func NewHandler(s *Service, auditSvc auditlog.Service) *Handler {
	return &Handler{Service: s, AuditSvc: auditSvc}
}

// ImportEvents handles POST /admin/events/import
// @Summary Bulk import events from CSV
// @Description Upload a CSV of events; the whole file is validated before anything is written, and one bad row rejects the upload (Admin only)
// @Tags EventImport
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file with title,startDate,... headers"
// @Success 201 {object} ImportResult
// @Failure 400 {object} ImportError
// @Failure 500 {object} gin.H
// @Router /api/v1/admin/events/import [post]
func (h *Handler) ImportEvents(c *gin.Context) {
	accessContext, ok := middleware.GetAccessContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not open uploaded file"})
		return
	}
	defer file.Close()

	rows, err := readCSVRows(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid CSV: " + err.Error()})
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV contains no data rows"})
		return
	}

	ip := middleware.GetIPFromContext(c)

	result, impErr := h.Service.ImportEvents(c.Request.Context(), rows, accessContext.UserID)
	if impErr != nil {
		h.AuditSvc.LogAction(c.Request.Context(), &accessContext.UserID, "EVENTS_IMPORTED", "import", nil, map[string]interface{}{
			"filename": fileHeader.Filename,
			"rows":     len(rows),
			"kind":     string(impErr.Kind),
			"row":      impErr.Row,
			"field":    impErr.Field,
			"detail":   impErr.Detail,
		}, ip, "failure")

		status := http.StatusBadRequest
		if impErr.Kind == ErrPersistence {
			status = http.StatusInternalServerError
		}
		c.JSON(status, impErr)
		return
	}

	h.AuditSvc.LogAction(c.Request.Context(), &accessContext.UserID, "EVENTS_IMPORTED", "import", nil, map[string]interface{}{
		"filename":      fileHeader.Filename,
		"batch_id":      result.BatchID,
		"created_count": result.CreatedCount,
	}, ip, "success")

	utils.PublishPlatformEvent(c.Request.Context(), "events.imported", map[string]interface{}{
		"batch_id":      result.BatchID,
		"created_count": result.CreatedCount,
		"imported_by":   accessContext.UserID,
	})

	c.JSON(http.StatusCreated, result)
}

// readCSVRows splits CSV text into header-keyed records, trimming header
// whitespace and skipping blank lines.
func readCSVRows(r io.Reader) ([]RawImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []RawImportRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if isBlankLine(record) {
			continue
		}

		row := make(RawImportRow, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func isBlankLine(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
