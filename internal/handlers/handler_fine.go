package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schoolworks/fee_billing_app/internal/apperrors"
	portssvc "github.com/schoolworks/fee_billing_app/internal/core/ports/services"
	"github.com/schoolworks/fee_billing_app/internal/dto"
	"github.com/schoolworks/fee_billing_app/internal/middleware"
)

// fineHandler handles HTTP requests related to fine tiers and voucher fines.
type fineHandler struct {
	fineService portssvc.FineSvcFacade
}

func newFineHandler(fs portssvc.FineSvcFacade) *fineHandler {
	return &fineHandler{fineService: fs}
}

// registerFineRoutes registers routes for fine tiers and voucher fine actions.
func registerFineRoutes(rg *gin.RouterGroup, fineService portssvc.FineSvcFacade) {
	h := newFineHandler(fineService)

	tiers := rg.Group("/fine-tiers")
	{
		tiers.POST("", h.createFineTier)
		tiers.GET("", h.listFineTiers)
		tiers.GET("/:fineID", h.getFineTier)
		tiers.PUT("/:fineID", h.updateFineTier)
	}
	rg.POST("/fines/calculate", h.calculateFines)
	rg.POST("/vouchers/:voucherID/fine/apply", h.applyFine)
	rg.POST("/vouchers/:voucherID/fine/waive", h.waiveFine)
}

// calculateFines godoc
// @Summary Preview fines for a set of vouchers
// @Description Computes the fine each voucher would carry as of a date without persisting anything
// @Tags fines
// @Accept  json
// @Produce  json
// @Param   request body dto.CalculateFinesRequest true "Voucher IDs and evaluation date"
// @Success 200 {object} dto.CalculateFinesResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 500 {object} map[string]string "Failed to calculate fines"
// @Security BearerAuth
// @Router /fines/calculate [post]
func (h *fineHandler) calculateFines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CalculateFinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CalculateFines", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	fines, err := h.fineService.CalculateFines(c.Request.Context(), req.VoucherIDs, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Voucher not found"})
			return
		}
		logger.Error("Failed to calculate fines", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate fines"})
		return
	}

	c.JSON(http.StatusOK, dto.CalculateFinesResponse{AsOf: asOf, Fines: fines})
}

// createFineTier godoc
// @Summary Create a fine tier
// @Description Adds an escalation tier to a class's fine ladder
// @Tags fines
// @Accept  json
// @Produce  json
// @Param   tier body dto.CreateFineTierRequest true "Tier details"
// @Success 201 {object} dto.FineTierResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Tier with the same threshold already exists"
// @Failure 500 {object} map[string]string "Failed to create fine tier"
// @Security BearerAuth
// @Router /fine-tiers [post]
func (h *fineHandler) createFineTier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFineTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateFineTier", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("class_id", req.ClassID), slog.Int("days_after_due", req.DaysAfterDue))
	logger.Info("Received request to create fine tier")

	tier, err := h.fineService.CreateFineTier(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating fine tier", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Fine tier already exists", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create fine tier in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create fine tier"})
		}
		return
	}

	logger.Info("Fine tier created successfully", slog.String("fine_id", tier.FineID))
	c.JSON(http.StatusCreated, dto.ToFineTierResponse(tier))
}

// getFineTier godoc
// @Summary Get a fine tier by ID
// @Tags fines
// @Produce  json
// @Param   fineID path string true "Fine tier ID"
// @Success 200 {object} dto.FineTierResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Fine tier not found"
// @Failure 500 {object} map[string]string "Failed to retrieve fine tier"
// @Security BearerAuth
// @Router /fine-tiers/{fineID} [get]
func (h *fineHandler) getFineTier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fineID := c.Param("fineID")

	tier, err := h.fineService.GetFineTierByID(c.Request.Context(), fineID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Fine tier not found", slog.String("fine_id", fineID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Fine tier not found"})
		} else {
			logger.Error("Failed to get fine tier from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve fine tier"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToFineTierResponse(tier))
}

// listFineTiers godoc
// @Summary List a class's fine tiers
// @Description Retrieves a class's escalation ladder ordered by threshold
// @Tags fines
// @Produce  json
// @Param   classID query string true "Class ID"
// @Success 200 {object} dto.ListFineTiersResponse
// @Failure 400 {object} map[string]string "Missing classID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list fine tiers"
// @Security BearerAuth
// @Router /fine-tiers [get]
func (h *fineHandler) listFineTiers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	classID := c.Query("classID")
	if classID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "classID query parameter is required"})
		return
	}

	tiers, err := h.fineService.ListFineTiersByClass(c.Request.Context(), classID)
	if err != nil {
		logger.Error("Failed to list fine tiers from service", slog.String("class_id", classID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list fine tiers"})
		return
	}

	c.JSON(http.StatusOK, dto.ListFineTiersResponse{FineTiers: dto.ToListFineTierResponse(tiers)})
}

// updateFineTier godoc
// @Summary Update a fine tier
// @Tags fines
// @Accept  json
// @Produce  json
// @Param   fineID path string true "Fine tier ID"
// @Param   tier body dto.UpdateFineTierRequest true "Fields to update"
// @Success 200 {object} dto.FineTierResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Fine tier not found"
// @Failure 500 {object} map[string]string "Failed to update fine tier"
// @Security BearerAuth
// @Router /fine-tiers/{fineID} [put]
func (h *fineHandler) updateFineTier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fineID := c.Param("fineID")

	var req dto.UpdateFineTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateFineTier", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("fine_id", fineID), slog.String("updater_user_id", userID))
	logger.Info("Received request to update fine tier")

	tier, err := h.fineService.UpdateFineTier(c.Request.Context(), fineID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Fine tier not found for update")
			c.JSON(http.StatusNotFound, gin.H{"error": "Fine tier not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error updating fine tier", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update fine tier in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update fine tier"})
		}
		return
	}

	logger.Info("Fine tier updated successfully")
	c.JSON(http.StatusOK, dto.ToFineTierResponse(tier))
}

// applyFine godoc
// @Summary Apply the computed fine to a voucher
// @Description Recomputes and stores the voucher's fine as of a date, replacing any previously stored fine
// @Tags fines
// @Produce  json
// @Param   voucherID path string true "Voucher ID"
// @Param   asOf query string false "Evaluation date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Invalid asOf"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 500 {object} map[string]string "Failed to apply fine"
// @Security BearerAuth
// @Router /vouchers/{voucherID}/fine/apply [post]
func (h *fineHandler) applyFine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("voucherID")

	asOf := time.Now()
	if raw := c.Query("asOf"); raw != "" {
		var err error
		asOf, err = time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf, expected YYYY-MM-DD"})
			return
		}
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("voucher_id", voucherID))
	logger.Info("Received request to apply fine")

	voucher, err := h.fineService.ApplyFineToVoucher(c.Request.Context(), voucherID, asOf, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Voucher not found for fine application")
			c.JSON(http.StatusNotFound, gin.H{"error": "Voucher not found"})
		} else {
			logger.Error("Failed to apply fine in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply fine"})
		}
		return
	}

	logger.Info("Fine applied successfully", slog.String("fine_amount", voucher.FineAmount.String()))
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// waiveFine godoc
// @Summary Waive a voucher's fine
// @Description Zeroes the voucher's fine with a reason
// @Tags fines
// @Accept  json
// @Produce  json
// @Param   voucherID path string true "Voucher ID"
// @Param   request body dto.WaiveFineRequest true "Waiver reason"
// @Success 200 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Invalid input or no fine to waive"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 500 {object} map[string]string "Failed to waive fine"
// @Security BearerAuth
// @Router /vouchers/{voucherID}/fine/waive [post]
func (h *fineHandler) waiveFine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("voucherID")

	var req dto.WaiveFineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for WaiveFine", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("voucher_id", voucherID), slog.String("waiver_user_id", userID))
	logger.Info("Received request to waive fine")

	voucher, err := h.fineService.WaiveFine(c.Request.Context(), voucherID, req.Reason, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Voucher not found for fine waiver")
			c.JSON(http.StatusNotFound, gin.H{"error": "Voucher not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error waiving fine", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to waive fine in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to waive fine"})
		}
		return
	}

	logger.Info("Fine waived successfully")
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}
