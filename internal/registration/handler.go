package registration

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jdblank/fire-backend/middleware"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register handles POST /registrations
// @Summary Register for an event
// @Tags Registrations
// @Accept json
// @Produce json
// @Param request body CreateRegistrationRequest true "Registration with line items"
// @Success 201 {object} CreateRegistrationResponse
// @Failure 400 {object} gin.H
// @Router /api/v1/registrations [post]
func (h *Handler) Register(c *gin.Context) {
	accessContext, ok := middleware.GetAccessContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
		return
	}

	var req CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	ip := middleware.GetIPFromContext(c)
	resp, err := h.service.Register(c.Request.Context(), req, accessContext.UserID, ip)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// VerifyPayment handles POST /registrations/verify
// @Summary Verify a Razorpay payment and confirm the registration
// @Tags Registrations
// @Accept json
// @Produce json
// @Param request body VerifyPaymentRequest true "Razorpay callback payload"
// @Success 200 {object} gin.H
// @Failure 400 {object} gin.H
// @Router /api/v1/registrations/verify [post]
func (h *Handler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	ip := middleware.GetIPFromContext(c)
	if err := h.service.VerifyPayment(c.Request.Context(), req, ip); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "payment verified"})
}

// GetMyRegistrations handles GET /registrations/me
func (h *Handler) GetMyRegistrations(c *gin.Context) {
	accessContext, ok := middleware.GetAccessContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
		return
	}

	regs, err := h.service.GetMyRegistrations(c.Request.Context(), accessContext.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch registrations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": regs})
}

// ListByEvent handles GET /events/:id/registrations (organizer/admin)
func (h *Handler) ListByEvent(c *gin.Context) {
	accessContext, ok := middleware.GetAccessContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
		return
	}

	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event ID"})
		return
	}

	regs, err := h.service.ListByEvent(c.Request.Context(), uint(eventID), accessContext)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": regs})
}

// CancelRegistration handles POST /registrations/:id/cancel
func (h *Handler) CancelRegistration(c *gin.Context) {
	accessContext, ok := middleware.GetAccessContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration ID"})
		return
	}

	ip := middleware.GetIPFromContext(c)
	if err := h.service.CancelRegistration(c.Request.Context(), uint(id), accessContext, ip); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "registration cancelled"})
}

// GenerateReceipt handles GET /registrations/:id/receipt
func (h *Handler) GenerateReceipt(c *gin.Context) {
	accessContext, ok := middleware.GetAccessContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration ID"})
		return
	}

	pdfBytes, filename, err := h.service.GenerateReceipt(c.Request.Context(), uint(id), accessContext)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// ExportByEvent handles GET /events/:id/registrations/export
func (h *Handler) ExportByEvent(c *gin.Context) {
	accessContext, ok := middleware.GetAccessContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
		return
	}

	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event ID"})
		return
	}

	data, filename, err := h.service.ExportByEvent(c.Request.Context(), uint(eventID), c.DefaultQuery("format", "csv"), accessContext)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	mimeType := "text/csv"
	if strings.HasSuffix(filename, ".xlsx") {
		mimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, mimeType, data)
}
