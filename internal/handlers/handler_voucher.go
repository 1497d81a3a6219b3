package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schoolworks/fee_billing_app/internal/apperrors"
	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	portssvc "github.com/schoolworks/fee_billing_app/internal/core/ports/services"
	"github.com/schoolworks/fee_billing_app/internal/dto"
	"github.com/schoolworks/fee_billing_app/internal/middleware"
)

// voucherHandler handles HTTP requests related to fee vouchers.
type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
}

func newVoucherHandler(vs portssvc.VoucherSvcFacade) *voucherHandler {
	return &voucherHandler{voucherService: vs}
}

// registerVoucherRoutes registers routes related to fee vouchers.
func registerVoucherRoutes(rg *gin.RouterGroup, voucherService portssvc.VoucherSvcFacade) {
	h := newVoucherHandler(voucherService)

	vouchers := rg.Group("/vouchers")
	{
		vouchers.POST("", h.createVoucher)
		vouchers.POST("/generate", h.generateMonthlyVoucher)
		vouchers.GET("", h.listVouchers)
		vouchers.GET("/:voucherID", h.getVoucher)
		vouchers.GET("/number/:voucherNumber", h.getVoucherByNumber)
		vouchers.POST("/:voucherID/cancel", h.cancelVoucher)
	}
}

// createVoucher godoc
// @Summary Create a fee voucher
// @Description Creates a voucher from explicit line items, applying any valid discounts per line
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   voucher body dto.CreateVoucherRequest true "Voucher details"
// @Success 201 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Student not found"
// @Failure 500 {object} map[string]string "Failed to create voucher"
// @Security BearerAuth
// @Router /vouchers [post]
func (h *voucherHandler) createVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("student_id", req.StudentID), slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create voucher", slog.String("voucher_type", string(req.VoucherType)))

	voucher, err := h.voucherService.CreateVoucher(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating voucher", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Student not found creating voucher", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		} else {
			logger.Error("Failed to create voucher in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create voucher"})
		}
		return
	}

	logger.Info("Voucher created successfully", slog.String("voucher_number", voucher.VoucherNumber))
	c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher))
}

// generateMonthlyVoucher godoc
// @Summary Generate a monthly voucher for one student
// @Description Builds a voucher for a billing period from the student's class fee structure
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   request body dto.GenerateVoucherRequest true "Generation details"
// @Success 201 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Validation error or no monthly fee structures"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Student not found"
// @Failure 500 {object} map[string]string "Failed to generate voucher"
// @Security BearerAuth
// @Router /vouchers/generate [post]
func (h *voucherHandler) generateMonthlyVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.GenerateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for GenerateMonthlyVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("student_id", req.StudentID), slog.String("month_year", req.MonthYear))
	logger.Info("Received request to generate monthly voucher")

	voucher, err := h.voucherService.GenerateMonthlyVoucher(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error generating voucher", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Student or enrollment not found generating voucher", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to generate voucher in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate voucher"})
		}
		return
	}

	logger.Info("Monthly voucher generated successfully", slog.String("voucher_number", voucher.VoucherNumber))
	c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher))
}

// getVoucher godoc
// @Summary Get a voucher by ID
// @Description Retrieves a voucher and its line items
// @Tags vouchers
// @Produce  json
// @Param   voucherID path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 500 {object} map[string]string "Failed to retrieve voucher"
// @Security BearerAuth
// @Router /vouchers/{voucherID} [get]
func (h *voucherHandler) getVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("voucherID")

	logger = logger.With(slog.String("voucher_id", voucherID))
	logger.Info("Received request to get voucher")

	voucher, err := h.voucherService.GetVoucherByID(c.Request.Context(), voucherID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Voucher not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Voucher not found"})
		} else {
			logger.Error("Failed to get voucher from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve voucher"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// getVoucherByNumber godoc
// @Summary Get a voucher by its human-readable number
// @Description Retrieves a voucher and its line items by voucher number
// @Tags vouchers
// @Produce  json
// @Param   voucherNumber path string true "Voucher number, e.g. MON-2602-00042"
// @Success 200 {object} dto.VoucherResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 500 {object} map[string]string "Failed to retrieve voucher"
// @Security BearerAuth
// @Router /vouchers/number/{voucherNumber} [get]
func (h *voucherHandler) getVoucherByNumber(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherNumber := c.Param("voucherNumber")

	logger = logger.With(slog.String("voucher_number", voucherNumber))
	logger.Info("Received request to get voucher by number")

	voucher, err := h.voucherService.GetVoucherByNumber(c.Request.Context(), voucherNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Voucher not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Voucher not found"})
		} else {
			logger.Error("Failed to get voucher from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve voucher"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// listVouchers godoc
// @Summary List vouchers
// @Description Lists vouchers for a student, in a given status, or issued within a date range. Exactly one filter is required.
// @Tags vouchers
// @Produce  json
// @Param   studentID query string false "Student ID"
// @Param   status query string false "Voucher status (PENDING, PAID, OVERDUE, CANCELLED)"
// @Param   issuedFrom query string false "Issue date range start (YYYY-MM-DD), requires issuedTo"
// @Param   issuedTo query string false "Issue date range end (YYYY-MM-DD), requires issuedFrom"
// @Success 200 {object} dto.ListVouchersResponse
// @Failure 400 {object} map[string]string "Missing or invalid filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list vouchers"
// @Security BearerAuth
// @Router /vouchers [get]
func (h *voucherHandler) listVouchers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	studentID := c.Query("studentID")
	status := c.Query("status")

	var vouchers []domain.FeeVoucher
	var err error
	switch {
	case studentID != "":
		logger = logger.With(slog.String("student_id", studentID))
		vouchers, err = h.voucherService.ListVouchersByStudent(c.Request.Context(), studentID)
	case status != "":
		logger = logger.With(slog.String("status", status))
		vouchers, err = h.voucherService.ListVouchersByStatus(c.Request.Context(), domain.VoucherStatus(status))
	case c.Query("issuedFrom") != "" || c.Query("issuedTo") != "":
		var from, to time.Time
		from, err = time.Parse("2006-01-02", c.Query("issuedFrom"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issuedFrom, expected YYYY-MM-DD"})
			return
		}
		to, err = time.Parse("2006-01-02", c.Query("issuedTo"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issuedTo, expected YYYY-MM-DD"})
			return
		}
		vouchers, err = h.voucherService.ListVouchersIssuedBetween(c.Request.Context(), from, to)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "A studentID, status, or issuedFrom/issuedTo filter is required"})
		return
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error listing vouchers", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list vouchers from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list vouchers"})
		}
		return
	}

	logger.Info("Vouchers listed successfully", slog.Int("count", len(vouchers)))
	c.JSON(http.StatusOK, dto.ListVouchersResponse{Vouchers: dto.ToListVoucherResponse(vouchers)})
}

// cancelVoucher godoc
// @Summary Cancel a voucher
// @Description Voids a voucher with a reason. Paid vouchers cannot be cancelled.
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   voucherID path string true "Voucher ID"
// @Param   request body dto.CancelVoucherRequest true "Cancellation reason"
// @Success 200 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 409 {object} map[string]string "Voucher cannot be cancelled in its current state"
// @Failure 500 {object} map[string]string "Failed to cancel voucher"
// @Security BearerAuth
// @Router /vouchers/{voucherID}/cancel [post]
func (h *voucherHandler) cancelVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("voucherID")

	var req dto.CancelVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CancelVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("voucher_id", voucherID), slog.String("canceller_user_id", userID))
	logger.Info("Received request to cancel voucher")

	voucher, err := h.voucherService.CancelVoucher(c.Request.Context(), voucherID, req.Reason, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Voucher not found for cancellation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Voucher not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Voucher not cancellable", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error cancelling voucher", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to cancel voucher in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel voucher"})
		}
		return
	}

	logger.Info("Voucher cancelled successfully")
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}
