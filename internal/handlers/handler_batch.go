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

// batchHandler handles HTTP requests for voucher generation runs and sweeps.
type batchHandler struct {
	batchService portssvc.BatchSvc
}

func newBatchHandler(bs portssvc.BatchSvc) *batchHandler {
	return &batchHandler{batchService: bs}
}

// registerBatchRoutes registers the batch sweep routes. Rate limiting applies
// to the whole group since every endpoint here fans out over many rows.
func registerBatchRoutes(rg *gin.RouterGroup, batchService portssvc.BatchSvc, rateLimit gin.HandlerFunc) {
	h := newBatchHandler(batchService)

	batch := rg.Group("/batch", rateLimit)
	{
		batch.POST("/generate-vouchers", h.generateVouchers)
		batch.POST("/overdue-sweep", h.overdueSweep)
		batch.POST("/fine-sweep", h.fineSweep)
		batch.POST("/expire-discounts", h.expireDiscounts)
		batch.POST("/daily-maintenance", h.dailyMaintenance)
	}
}

// generateVouchers godoc
// @Summary Generate monthly vouchers for a cohort
// @Description Builds a voucher per active student in scope, skipping students already billed for the period. Students fail independently.
// @Tags batch
// @Accept  json
// @Produce  json
// @Param   request body dto.GenerateBatchRequest true "Generation scope"
// @Success 200 {object} dto.GenerateBatchResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to run voucher generation"
// @Security BearerAuth
// @Router /batch/generate-vouchers [post]
func (h *batchHandler) generateVouchers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.GenerateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for GenerateVouchers", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("month_year", req.MonthYear), slog.String("runner_user_id", userID))
	logger.Info("Received request to generate monthly vouchers")

	result, err := h.batchService.GenerateMonthlyVouchers(c.Request.Context(), req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error generating vouchers", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to run voucher generation", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run voucher generation"})
		}
		return
	}

	logger.Info("Voucher generation completed",
		slog.Int("generated", len(result.Generated)),
		slog.Int64("skipped", result.Skipped),
		slog.Int64("failed", result.Failed))
	c.JSON(http.StatusOK, result)
}

// overdueSweep godoc
// @Summary Flip pending vouchers past due to overdue
// @Tags batch
// @Accept  json
// @Produce  json
// @Param   request body dto.BatchRunRequest true "Cutoff date, zero means today"
// @Success 200 {object} dto.BatchResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to run overdue sweep"
// @Security BearerAuth
// @Router /batch/overdue-sweep [post]
func (h *batchHandler) overdueSweep(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BatchRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	result, err := h.batchService.ProcessOverdueSweep(c.Request.Context(), asOf, userID)
	if err != nil {
		logger.Error("Failed to run overdue sweep", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run overdue sweep"})
		return
	}

	logger.Info("Overdue sweep completed", slog.Int64("processed", result.Processed))
	c.JSON(http.StatusOK, result)
}

// fineSweep godoc
// @Summary Recompute fines for pending vouchers
// @Description Recomputes and stores the fine for each voucher in scope, or every pending voucher when no IDs given. Vouchers fail independently.
// @Tags batch
// @Accept  json
// @Produce  json
// @Param   request body dto.FineSweepRequest true "Sweep scope"
// @Success 200 {object} dto.BatchResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to run fine sweep"
// @Security BearerAuth
// @Router /batch/fine-sweep [post]
func (h *batchHandler) fineSweep(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.FineSweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	result, err := h.batchService.ApplyFineSweep(c.Request.Context(), req.VoucherIDs, asOf, userID)
	if err != nil {
		logger.Error("Failed to run fine sweep", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run fine sweep"})
		return
	}

	logger.Info("Fine sweep completed", slog.Int64("processed", result.Processed), slog.Int64("failed", result.Failed))
	c.JSON(http.StatusOK, result)
}

// expireDiscounts godoc
// @Summary Deactivate expired discounts
// @Tags batch
// @Accept  json
// @Produce  json
// @Param   request body dto.BatchRunRequest true "Cutoff date, zero means today"
// @Success 200 {object} dto.BatchResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to expire discounts"
// @Security BearerAuth
// @Router /batch/expire-discounts [post]
func (h *batchHandler) expireDiscounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BatchRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	result, err := h.batchService.ExpireDiscounts(c.Request.Context(), asOf, userID)
	if err != nil {
		logger.Error("Failed to expire discounts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to expire discounts"})
		return
	}

	logger.Info("Discount expiry completed", slog.Int64("processed", result.Processed))
	c.JSON(http.StatusOK, result)
}

// dailyMaintenance godoc
// @Summary Run the full daily maintenance cycle
// @Description Runs the fine sweep, overdue sweep and discount expiry in one call and reports per-step counts
// @Tags batch
// @Accept  json
// @Produce  json
// @Param   request body dto.BatchRunRequest true "Cutoff date, zero means today"
// @Success 200 {object} dto.MaintenanceResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to run daily maintenance"
// @Security BearerAuth
// @Router /batch/daily-maintenance [post]
func (h *batchHandler) dailyMaintenance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BatchRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	logger.Info("Received request to run daily maintenance", slog.Time("as_of", asOf))

	result, err := h.batchService.RunDailyMaintenance(c.Request.Context(), asOf, userID)
	if err != nil {
		logger.Error("Failed to run daily maintenance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run daily maintenance"})
		return
	}

	logger.Info("Daily maintenance completed",
		slog.Int64("overdue_processed", result.OverdueSweep.Processed),
		slog.Int64("fines_processed", result.FineSweep.Processed),
		slog.Int64("discounts_expired", result.DiscountExpiry.Processed))
	c.JSON(http.StatusOK, result)
}
