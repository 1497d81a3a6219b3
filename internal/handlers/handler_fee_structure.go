package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolworks/fee_billing_app/internal/apperrors"
	portssvc "github.com/schoolworks/fee_billing_app/internal/core/ports/services"
	"github.com/schoolworks/fee_billing_app/internal/dto"
	"github.com/schoolworks/fee_billing_app/internal/middleware"
)

// feeStructureHandler handles HTTP requests for fee categories and class fee
// structures.
type feeStructureHandler struct {
	feeStructureService portssvc.FeeStructureSvcFacade
}

func newFeeStructureHandler(fs portssvc.FeeStructureSvcFacade) *feeStructureHandler {
	return &feeStructureHandler{feeStructureService: fs}
}

// registerFeeStructureRoutes registers routes for fee categories and structures.
func registerFeeStructureRoutes(rg *gin.RouterGroup, feeStructureService portssvc.FeeStructureSvcFacade) {
	h := newFeeStructureHandler(feeStructureService)

	categories := rg.Group("/fee-categories")
	{
		categories.POST("", h.createFeeCategory)
		categories.GET("", h.listFeeCategories)
		categories.GET("/:categoryID", h.getFeeCategory)
		categories.PUT("/:categoryID", h.updateFeeCategory)
	}

	structures := rg.Group("/fee-structures")
	{
		structures.POST("", h.createFeeStructure)
		structures.GET("", h.listFeeStructures)
		structures.GET("/:structureID", h.getFeeStructure)
		structures.PUT("/:structureID", h.updateFeeStructure)
	}
}

// createFeeCategory godoc
// @Summary Create a fee category
// @Tags fee-structures
// @Accept  json
// @Produce  json
// @Param   category body dto.CreateFeeCategoryRequest true "Category details"
// @Success 201 {object} dto.FeeCategoryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Category name already exists"
// @Failure 500 {object} map[string]string "Failed to create fee category"
// @Security BearerAuth
// @Router /fee-categories [post]
func (h *feeStructureHandler) createFeeCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFeeCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateFeeCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger.Info("Received request to create fee category", slog.String("name", req.Name))

	category, err := h.feeStructureService.CreateFeeCategory(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create fee category in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create fee category"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToFeeCategoryResponse(category))
}

// getFeeCategory godoc
// @Summary Get a fee category by ID
// @Tags fee-structures
// @Produce  json
// @Param   categoryID path string true "Category ID"
// @Success 200 {object} dto.FeeCategoryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 500 {object} map[string]string "Failed to retrieve fee category"
// @Security BearerAuth
// @Router /fee-categories/{categoryID} [get]
func (h *feeStructureHandler) getFeeCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	categoryID := c.Param("categoryID")

	category, err := h.feeStructureService.GetFeeCategoryByID(c.Request.Context(), categoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fee category not found"})
		} else {
			logger.Error("Failed to get fee category from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve fee category"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToFeeCategoryResponse(category))
}

// listFeeCategories godoc
// @Summary List fee categories
// @Tags fee-structures
// @Produce  json
// @Param   activeOnly query bool false "Only active categories" default(false)
// @Success 200 {object} dto.ListFeeCategoriesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list fee categories"
// @Security BearerAuth
// @Router /fee-categories [get]
func (h *feeStructureHandler) listFeeCategories(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	activeOnly := c.Query("activeOnly") == "true"

	categories, err := h.feeStructureService.ListFeeCategories(c.Request.Context(), activeOnly)
	if err != nil {
		logger.Error("Failed to list fee categories from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list fee categories"})
		return
	}

	c.JSON(http.StatusOK, dto.ListFeeCategoriesResponse{Categories: dto.ToListFeeCategoryResponse(categories)})
}

// updateFeeCategory godoc
// @Summary Update a fee category
// @Tags fee-structures
// @Accept  json
// @Produce  json
// @Param   categoryID path string true "Category ID"
// @Param   category body dto.UpdateFeeCategoryRequest true "Fields to update"
// @Success 200 {object} dto.FeeCategoryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 500 {object} map[string]string "Failed to update fee category"
// @Security BearerAuth
// @Router /fee-categories/{categoryID} [put]
func (h *feeStructureHandler) updateFeeCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	categoryID := c.Param("categoryID")

	var req dto.UpdateFeeCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateFeeCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	category, err := h.feeStructureService.UpdateFeeCategory(c.Request.Context(), categoryID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fee category not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update fee category in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update fee category"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToFeeCategoryResponse(category))
}

// createFeeStructure godoc
// @Summary Create a class fee structure
// @Description Binds a fee category to a class with an amount and a monthly flag
// @Tags fee-structures
// @Accept  json
// @Produce  json
// @Param   structure body dto.CreateFeeStructureRequest true "Structure details"
// @Success 201 {object} dto.FeeStructureResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Fee category not found"
// @Failure 409 {object} map[string]string "Structure for class and category already exists"
// @Failure 500 {object} map[string]string "Failed to create fee structure"
// @Security BearerAuth
// @Router /fee-structures [post]
func (h *feeStructureHandler) createFeeStructure(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFeeStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateFeeStructure", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger.Info("Received request to create fee structure", slog.String("class_id", req.ClassID), slog.String("fee_category_id", req.FeeCategoryID))

	structure, err := h.feeStructureService.CreateFeeStructure(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fee category not found"})
		} else if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create fee structure in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create fee structure"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToFeeStructureResponse(structure))
}

// getFeeStructure godoc
// @Summary Get a fee structure by ID
// @Tags fee-structures
// @Produce  json
// @Param   structureID path string true "Structure ID"
// @Success 200 {object} dto.FeeStructureResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Structure not found"
// @Failure 500 {object} map[string]string "Failed to retrieve fee structure"
// @Security BearerAuth
// @Router /fee-structures/{structureID} [get]
func (h *feeStructureHandler) getFeeStructure(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	structureID := c.Param("structureID")

	structure, err := h.feeStructureService.GetFeeStructureByID(c.Request.Context(), structureID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fee structure not found"})
		} else {
			logger.Error("Failed to get fee structure from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve fee structure"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToFeeStructureResponse(structure))
}

// listFeeStructures godoc
// @Summary List a class's fee structures
// @Tags fee-structures
// @Produce  json
// @Param   classID query string true "Class ID"
// @Success 200 {object} dto.ListFeeStructuresResponse
// @Failure 400 {object} map[string]string "Missing classID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list fee structures"
// @Security BearerAuth
// @Router /fee-structures [get]
func (h *feeStructureHandler) listFeeStructures(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	classID := c.Query("classID")
	if classID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "classID query parameter is required"})
		return
	}

	structures, err := h.feeStructureService.ListFeeStructuresByClass(c.Request.Context(), classID)
	if err != nil {
		logger.Error("Failed to list fee structures from service", slog.String("class_id", classID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list fee structures"})
		return
	}

	c.JSON(http.StatusOK, dto.ListFeeStructuresResponse{Structures: dto.ToListFeeStructureResponse(structures)})
}

// updateFeeStructure godoc
// @Summary Update a fee structure
// @Tags fee-structures
// @Accept  json
// @Produce  json
// @Param   structureID path string true "Structure ID"
// @Param   structure body dto.UpdateFeeStructureRequest true "Fields to update"
// @Success 200 {object} dto.FeeStructureResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Structure not found"
// @Failure 500 {object} map[string]string "Failed to update fee structure"
// @Security BearerAuth
// @Router /fee-structures/{structureID} [put]
func (h *feeStructureHandler) updateFeeStructure(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	structureID := c.Param("structureID")

	var req dto.UpdateFeeStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateFeeStructure", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	structure, err := h.feeStructureService.UpdateFeeStructure(c.Request.Context(), structureID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fee structure not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update fee structure in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update fee structure"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToFeeStructureResponse(structure))
}
