package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
	"github.com/bahikhata/bahikhata_backend/internal/middleware"
)

// reportingHandler handles HTTP requests for ad-hoc financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(reportingService portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: reportingService}
}

// trialBalance serves a trial balance as of a date.
func (h *reportingHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID := c.Param("businessID")

	params := dto.ReportParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	asOf := params.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), businessID, asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate trial balance")
		return
	}

	c.JSON(http.StatusOK, report)
}

// profitAndLoss serves a profit and loss report for a window.
func (h *reportingHandler) profitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID := c.Param("businessID")

	params := dto.ReportParams{}
	if err := c.ShouldBindQuery(&params); err != nil || params.From.IsZero() || params.To.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to dates are required"})
		return
	}

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), businessID, params.From, params.To)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate profit and loss report")
		return
	}

	c.JSON(http.StatusOK, report)
}

// balanceSheet serves a balance sheet as of a date.
func (h *reportingHandler) balanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID := c.Param("businessID")

	params := dto.ReportParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	asOf := params.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), businessID, asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate balance sheet")
		return
	}

	c.JSON(http.StatusOK, report)
}

// registerReportingRoutes registers reporting specific routes
func registerReportingRoutes(group *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := group.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/profit-and-loss", h.profitAndLoss)
		reports.GET("/balance-sheet", h.balanceSheet)
	}
}
