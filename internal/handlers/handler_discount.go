package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/schoolworks/fee_billing_app/internal/apperrors"
	portssvc "github.com/schoolworks/fee_billing_app/internal/core/ports/services"
	"github.com/schoolworks/fee_billing_app/internal/dto"
	"github.com/schoolworks/fee_billing_app/internal/middleware"
)

// discountHandler handles HTTP requests related to student discounts.
type discountHandler struct {
	discountService portssvc.DiscountSvcFacade
}

func newDiscountHandler(ds portssvc.DiscountSvcFacade) *discountHandler {
	return &discountHandler{discountService: ds}
}

// registerDiscountRoutes registers routes related to student discounts.
func registerDiscountRoutes(rg *gin.RouterGroup, discountService portssvc.DiscountSvcFacade) {
	h := newDiscountHandler(discountService)

	discounts := rg.Group("/discounts")
	{
		discounts.POST("", h.createDiscount)
		discounts.POST("/bulk", h.applyBulkDiscount)
		discounts.GET("", h.listDiscounts)
		discounts.GET("/preview", h.previewDiscount)
		discounts.GET("/:discountID", h.getDiscount)
		discounts.PUT("/:discountID", h.updateDiscount)
		discounts.POST("/:discountID/activate", h.activateDiscount)
		discounts.POST("/:discountID/deactivate", h.deactivateDiscount)
	}
}

// createDiscount godoc
// @Summary Grant a student a discount
// @Description Creates a discount after validating its value and checking for overlapping active discounts on the same fee category
// @Tags discounts
// @Accept  json
// @Produce  json
// @Param   discount body dto.CreateDiscountRequest true "Discount details"
// @Success 201 {object} dto.DiscountResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Student not found"
// @Failure 409 {object} map[string]string "Overlapping active discount exists"
// @Failure 500 {object} map[string]string "Failed to create discount"
// @Security BearerAuth
// @Router /discounts [post]
func (h *discountHandler) createDiscount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDiscount", slog.String("error", err.Error()))
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
	logger.Info("Received request to create discount", slog.String("discount_type", string(req.DiscountType)))

	discount, err := h.discountService.CreateDiscount(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating discount", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Student not found creating discount")
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		} else if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Overlapping discount exists", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create discount in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create discount"})
		}
		return
	}

	logger.Info("Discount created successfully", slog.String("discount_id", discount.DiscountID))
	c.JSON(http.StatusCreated, dto.ToDiscountResponse(discount))
}

// applyBulkDiscount godoc
// @Summary Grant the same discount to many students
// @Description Grants the discount to each listed student independently; students with an overlapping active discount are skipped and other failures are reported per student without aborting the batch
// @Tags discounts
// @Accept  json
// @Produce  json
// @Param   discount body dto.BulkDiscountRequest true "Bulk discount details"
// @Success 200 {object} dto.BulkDiscountResult
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to apply bulk discount"
// @Security BearerAuth
// @Router /discounts/bulk [post]
func (h *discountHandler) applyBulkDiscount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BulkDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ApplyBulkDiscount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.Int("student_count", len(req.StudentIDs)), slog.String("creator_user_id", userID))
	logger.Info("Received request to apply bulk discount", slog.String("discount_type", string(req.DiscountType)))

	result, err := h.discountService.ApplyBulkDiscount(c.Request.Context(), req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error applying bulk discount", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to apply bulk discount in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply bulk discount"})
		}
		return
	}

	logger.Info("Bulk discount applied", slog.Int("granted", result.Granted), slog.Int("skipped", result.Skipped), slog.Int("failed", result.Failed))
	c.JSON(http.StatusOK, result)
}

// getDiscount godoc
// @Summary Get a discount by ID
// @Tags discounts
// @Produce  json
// @Param   discountID path string true "Discount ID"
// @Success 200 {object} dto.DiscountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Discount not found"
// @Failure 500 {object} map[string]string "Failed to retrieve discount"
// @Security BearerAuth
// @Router /discounts/{discountID} [get]
func (h *discountHandler) getDiscount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	discountID := c.Param("discountID")

	discount, err := h.discountService.GetDiscountByID(c.Request.Context(), discountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Discount not found", slog.String("discount_id", discountID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Discount not found"})
		} else {
			logger.Error("Failed to get discount from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve discount"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToDiscountResponse(discount))
}

// listDiscounts godoc
// @Summary List a student's discounts
// @Tags discounts
// @Produce  json
// @Param   studentID query string true "Student ID"
// @Success 200 {object} dto.ListDiscountsResponse
// @Failure 400 {object} map[string]string "Missing studentID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list discounts"
// @Security BearerAuth
// @Router /discounts [get]
func (h *discountHandler) listDiscounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	studentID := c.Query("studentID")
	if studentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studentID query parameter is required"})
		return
	}

	discounts, err := h.discountService.ListDiscountsByStudent(c.Request.Context(), studentID)
	if err != nil {
		logger.Error("Failed to list discounts from service", slog.String("student_id", studentID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list discounts"})
		return
	}

	c.JSON(http.StatusOK, dto.ListDiscountsResponse{Discounts: dto.ToListDiscountResponse(discounts)})
}

// previewDiscount godoc
// @Summary Preview the discount for an amount
// @Description Computes the discount value and net payable for a student, fee category and original amount on a date, without writing anything
// @Tags discounts
// @Produce  json
// @Param   studentID query string true "Student ID"
// @Param   feeCategoryID query string true "Fee category ID"
// @Param   amount query string true "Original amount"
// @Param   onDate query string false "Evaluation date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.DiscountCalculation
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to calculate discount"
// @Security BearerAuth
// @Router /discounts/preview [get]
func (h *discountHandler) previewDiscount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	studentID := c.Query("studentID")
	feeCategoryID := c.Query("feeCategoryID")
	if studentID == "" || feeCategoryID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studentID and feeCategoryID query parameters are required"})
		return
	}

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}

	onDate := time.Now()
	if raw := c.Query("onDate"); raw != "" {
		onDate, err = time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid onDate, expected YYYY-MM-DD"})
			return
		}
	}

	calc, err := h.discountService.CalculateDiscountedAmount(c.Request.Context(), studentID, feeCategoryID, amount, onDate)
	if err != nil {
		logger.Error("Failed to calculate discount", slog.String("student_id", studentID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate discount"})
		return
	}

	c.JSON(http.StatusOK, calc)
}

// updateDiscount godoc
// @Summary Update a discount
// @Description Updates a discount's value, reason or validity end
// @Tags discounts
// @Accept  json
// @Produce  json
// @Param   discountID path string true "Discount ID"
// @Param   discount body dto.UpdateDiscountRequest true "Fields to update"
// @Success 200 {object} dto.DiscountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Discount not found"
// @Failure 500 {object} map[string]string "Failed to update discount"
// @Security BearerAuth
// @Router /discounts/{discountID} [put]
func (h *discountHandler) updateDiscount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	discountID := c.Param("discountID")

	var req dto.UpdateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateDiscount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("discount_id", discountID), slog.String("updater_user_id", userID))
	logger.Info("Received request to update discount")

	discount, err := h.discountService.UpdateDiscount(c.Request.Context(), discountID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Discount not found for update")
			c.JSON(http.StatusNotFound, gin.H{"error": "Discount not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error updating discount", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update discount in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update discount"})
		}
		return
	}

	logger.Info("Discount updated successfully")
	c.JSON(http.StatusOK, dto.ToDiscountResponse(discount))
}

// activateDiscount godoc
// @Summary Reactivate a discount
// @Description Reactivates a discount after re-checking for overlapping active discounts
// @Tags discounts
// @Produce  json
// @Param   discountID path string true "Discount ID"
// @Success 200 {object} dto.DiscountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Discount not found"
// @Failure 409 {object} map[string]string "Overlapping active discount exists"
// @Failure 500 {object} map[string]string "Failed to activate discount"
// @Security BearerAuth
// @Router /discounts/{discountID}/activate [post]
func (h *discountHandler) activateDiscount(c *gin.Context) {
	h.toggleDiscount(c, true)
}

// deactivateDiscount godoc
// @Summary Deactivate a discount
// @Tags discounts
// @Produce  json
// @Param   discountID path string true "Discount ID"
// @Success 200 {object} dto.DiscountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Discount not found"
// @Failure 500 {object} map[string]string "Failed to deactivate discount"
// @Security BearerAuth
// @Router /discounts/{discountID}/deactivate [post]
func (h *discountHandler) deactivateDiscount(c *gin.Context) {
	h.toggleDiscount(c, false)
}

func (h *discountHandler) toggleDiscount(c *gin.Context, active bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	discountID := c.Param("discountID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("discount_id", discountID), slog.Bool("active", active))
	logger.Info("Received request to toggle discount")

	discount, err := h.discountService.ToggleDiscountActive(c.Request.Context(), discountID, active, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Discount not found for toggle")
			c.JSON(http.StatusNotFound, gin.H{"error": "Discount not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Overlapping discount blocks reactivation", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to toggle discount in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle discount"})
		}
		return
	}

	logger.Info("Discount toggled successfully")
	c.JSON(http.StatusOK, dto.ToDiscountResponse(discount))
}
