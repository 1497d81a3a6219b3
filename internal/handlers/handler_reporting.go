package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schoolworks/fee_billing_app/internal/apperrors"
	portssvc "github.com/schoolworks/fee_billing_app/internal/core/ports/services"
	"github.com/schoolworks/fee_billing_app/internal/dto"
	"github.com/schoolworks/fee_billing_app/internal/middleware"
)

// reportingHandler handles HTTP requests for defaulter and collection reports.
type reportingHandler struct {
	defaulterService portssvc.DefaulterSvc
	reportingService portssvc.ReportingSvc
}

func newReportingHandler(ds portssvc.DefaulterSvc, rs portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{defaulterService: ds, reportingService: rs}
}

// registerReportingRoutes registers the report routes.
func registerReportingRoutes(rg *gin.RouterGroup, defaulterService portssvc.DefaulterSvc, reportingService portssvc.ReportingSvc) {
	h := newReportingHandler(defaulterService, reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/defaulters", h.getDefaulterReport)
		reports.GET("/collection-summary", h.getCollectionSummary)
		reports.GET("/monthly-collection", h.getMonthlyCollectionReport)
	}
}

// getDefaulterReport godoc
// @Summary Get the defaulter report
// @Description Lists every student carrying overdue vouchers as of a date, worst defaulters first
// @Tags reports
// @Produce  json
// @Param   asOf query string false "Evaluation date (YYYY-MM-DD), defaults to today"
// @Param   classID query string false "Narrow the report to one class"
// @Param   minDaysOverdue query int false "Minimum days overdue threshold"
// @Success 200 {object} dto.DefaulterReport
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build defaulter report"
// @Security BearerAuth
// @Router /reports/defaulters [get]
func (h *reportingHandler) getDefaulterReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.DefaulterReportRequest
	if raw := c.Query("asOf"); raw != "" {
		asOf, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf, expected YYYY-MM-DD"})
			return
		}
		req.AsOf = asOf
	}
	req.ClassID = c.Query("classID")
	if raw := c.Query("minDaysOverdue"); raw != "" {
		minDays, err := strconv.Atoi(raw)
		if err != nil || minDays < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid minDaysOverdue"})
			return
		}
		req.MinDaysOverdue = minDays
	}

	logger.Info("Received request for defaulter report", slog.String("class_id", req.ClassID), slog.Int("min_days_overdue", req.MinDaysOverdue))

	report, err := h.defaulterService.GetDefaulterReport(c.Request.Context(), req)
	if err != nil {
		logger.Error("Failed to build defaulter report", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build defaulter report"})
		return
	}

	logger.Info("Defaulter report built", slog.Int("students", len(report.Entries)))
	c.JSON(http.StatusOK, report)
}

// getCollectionSummary godoc
// @Summary Get the collection summary for a period
// @Description Totals collections in the period alongside voucher counts and outstanding balances
// @Tags reports
// @Produce  json
// @Param   fromDate query string true "Start date (YYYY-MM-DD)"
// @Param   toDate query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.CollectionSummary
// @Failure 400 {object} map[string]string "Invalid date range"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build collection summary"
// @Security BearerAuth
// @Router /reports/collection-summary [get]
func (h *reportingHandler) getCollectionSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from, err := time.Parse("2006-01-02", c.Query("fromDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fromDate, expected YYYY-MM-DD"})
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("toDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid toDate, expected YYYY-MM-DD"})
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "toDate must not be before fromDate"})
		return
	}

	summary, err := h.reportingService.GetCollectionSummary(c.Request.Context(), from, to)
	if err != nil {
		logger.Error("Failed to build collection summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build collection summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// getMonthlyCollectionReport godoc
// @Summary Get the collection report for one billing month
// @Description Summarizes billed, fined and collected totals for the month's vouchers with the collection percentage
// @Tags reports
// @Produce  json
// @Param   monthYear query string true "Billing month (MM-YYYY)"
// @Success 200 {object} dto.MonthlyCollectionReport
// @Failure 400 {object} map[string]string "Invalid month"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build monthly collection report"
// @Security BearerAuth
// @Router /reports/monthly-collection [get]
func (h *reportingHandler) getMonthlyCollectionReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.reportingService.GetMonthlyCollectionReport(c.Request.Context(), c.Query("monthYear"))
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to build monthly collection report", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build monthly collection report"})
		return
	}

	c.JSON(http.StatusOK, report)
}
