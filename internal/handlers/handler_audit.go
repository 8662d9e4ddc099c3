package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
	"github.com/bahikhata/bahikhata_backend/internal/middleware"
)

// auditHandler handles HTTP requests for correctness audits.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

func newAuditHandler(auditService portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{auditService: auditService}
}

// runAudit executes an audit pass over a window.
func (h *auditHandler) runAudit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID := c.Param("businessID")

	req := dto.RunAuditRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for runAudit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	run, err := h.auditService.RunAudit(c.Request.Context(), businessID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to run audit")
		return
	}

	logger.Info("Audit run completed via API", slog.String("run_id", run.RunID), slog.String("status", string(run.Status)))
	c.JSON(http.StatusOK, run)
}

// listRuns retrieves recent audit runs.
func (h *auditHandler) listRuns(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID := c.Param("businessID")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	runs, err := h.auditService.ListRuns(c.Request.Context(), businessID, limit)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list audit runs")
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// reportExternalBalance records an externally observed settlement balance.
func (h *auditHandler) reportExternalBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID := c.Param("businessID")

	req := dto.ExternalBalanceRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for reportExternalBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.auditService.ReportExternalBalance(c.Request.Context(), businessID, req, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to record external balance")
		return
	}

	c.Status(http.StatusNoContent)
}

// registerAuditRoutes registers audit specific routes
func registerAuditRoutes(group *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := newAuditHandler(auditService)

	audits := group.Group("/audits")
	{
		audits.POST("", h.runAudit)
		audits.GET("", h.listRuns)
	}

	group.POST("/external-balances", h.reportExternalBalance)
}
