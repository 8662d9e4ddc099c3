package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
	"github.com/bahikhata/bahikhata_backend/internal/middleware"
)

// closingHandler handles HTTP requests for accounting periods and closing.
type closingHandler struct {
	closingService portssvc.ClosingSvcFacade
}

func newClosingHandler(closingService portssvc.ClosingSvcFacade) *closingHandler {
	return &closingHandler{closingService: closingService}
}

// createPeriod defines a new accounting period.
func (h *closingHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID := c.Param("businessID")

	req := dto.CreatePeriodRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	period, err := h.closingService.CreatePeriod(c.Request.Context(), businessID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create period")
		return
	}

	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// listPeriods lists all periods of a business.
func (h *closingHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID := c.Param("businessID")

	periods, err := h.closingService.ListPeriods(c.Request.Context(), businessID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list periods")
		return
	}

	responses := make([]dto.PeriodResponse, len(periods))
	for i := range periods {
		responses[i] = dto.ToPeriodResponse(&periods[i])
	}
	c.JSON(http.StatusOK, gin.H{"periods": responses})
}

// getPeriod retrieves a single period.
func (h *closingHandler) getPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID := c.Param("businessID")
	periodID := c.Param("periodID")

	period, err := h.closingService.GetPeriod(c.Request.Context(), businessID, periodID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve period")
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// closePeriod runs the closing pipeline for a period.
func (h *closingHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID := c.Param("businessID")
	periodID := c.Param("periodID")

	opts := dto.CloseOptions{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&opts); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.closingService.ClosePeriod(c.Request.Context(), businessID, periodID, userID, opts)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to close period")
		return
	}

	logger.Info("Period closed via API", slog.String("period_id", periodID))
	c.JSON(http.StatusOK, result)
}

// reopenPeriod transitions a closed period back to open.
func (h *closingHandler) reopenPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID := c.Param("businessID")
	periodID := c.Param("periodID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	period, err := h.closingService.ReopenPeriod(c.Request.Context(), businessID, periodID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reopen period")
		return
	}

	logger.Info("Period reopened via API", slog.String("period_id", periodID))
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// listStatements retrieves the statement snapshots of a period.
func (h *closingHandler) listStatements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID := c.Param("businessID")
	periodID := c.Param("periodID")

	statements, err := h.closingService.ListStatements(c.Request.Context(), businessID, periodID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list statements")
		return
	}

	c.JSON(http.StatusOK, gin.H{"statements": statements})
}

// registerPeriodRoutes registers period and closing specific routes
func registerPeriodRoutes(group *gin.RouterGroup, closingService portssvc.ClosingSvcFacade) {
	h := newClosingHandler(closingService)

	periods := group.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/:periodID", h.getPeriod)
		periods.POST("/:periodID/close", h.closePeriod)
		periods.POST("/:periodID/reopen", h.reopenPeriod)
		periods.GET("/:periodID/statements", h.listStatements)
	}
}
