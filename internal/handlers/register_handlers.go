package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
	"github.com/bahikhata/bahikhata_backend/internal/core/services"
	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/middleware"
	"github.com/bahikhata/bahikhata_backend/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	container *portssvc.ServiceContainer,
) {
	registerBindingValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, cfg, container)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	container *portssvc.ServiceContainer,
) {
	// Identity is asserted by the auth gateway in front of this service
	v1 := r.Group("/api/v1", middleware.GatewayIdentity())

	business := v1.Group("/businesses/:businessID")

	registerAccountRoutes(business, container.Account, container.Posting)
	registerVoucherRoutes(business, container.Posting)
	registerPeriodRoutes(business, container.Closing)
	registerAuditRoutes(business, container.Audit)
	registerReturnRoutes(business, container.Returns)
	registerReportingRoutes(business, container.Reporting)
}

// respondServiceError maps service errors to HTTP responses. Sentinels the
// caller can act on become 4xx; everything else is a 500 with a generic body.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case isBadRequest(err):
		logger.Warn("Request rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case isConflict(err):
		logger.Warn("Request conflicts with current state", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func isBadRequest(err error) bool {
	for _, target := range []error{
		apperrors.ErrValidation,
		services.ErrAccountNameMissing,
		services.ErrNarrationMissing,
		services.ErrUnbalancedPosting,
		services.ErrVoucherMinLines,
		services.ErrVoucherMinAccounts,
		services.ErrUnknownVoucherType,
		services.ErrUnresolvedRate,
		services.ErrInvalidPeriodSpan,
		services.ErrInvalidWindow,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isConflict(err error) bool {
	for _, target := range []error{
		apperrors.ErrDuplicate,
		apperrors.ErrConflict,
		services.ErrAlreadyReversed,
		services.ErrPeriodAlreadyClosed,
		services.ErrClosingInProgress,
		services.ErrTrialBalanceUnbalanced,
		services.ErrFinerPeriodsOpen,
		services.ErrPeriodLocked,
		services.ErrPeriodClosed,
		services.ErrPeriodNotClosed,
		services.ErrAuditInProgress,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
