package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
	"github.com/bahikhata/bahikhata_backend/internal/middleware"
)

// voucherHandler handles HTTP requests related to vouchers and intents.
type voucherHandler struct {
	postingService portssvc.PostingSvcFacade
}

func newVoucherHandler(postingService portssvc.PostingSvcFacade) *voucherHandler {
	return &voucherHandler{postingService: postingService}
}

// createVoucher posts a classified voucher.
func (h *voucherHandler) createVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID := c.Param("businessID")

	req := dto.CreateVoucherRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	voucher, err := h.postingService.CreateVoucher(c.Request.Context(), businessID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post voucher")
		return
	}

	logger.Info("Voucher created via API", slog.String("voucher_id", voucher.VoucherID))
	c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher))
}

// postIntent converts a transaction intent (NLP/OCR/POS/manual) into a voucher.
func (h *voucherHandler) postIntent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID := c.Param("businessID")

	intent := dto.TransactionIntent{}
	if err := c.ShouldBindJSON(&intent); err != nil {
		logger.Error("Failed to bind JSON for postIntent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	// The URL is authoritative for the business scope
	intent.BusinessID = businessID

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	voucher, err := h.postingService.PostIntent(c.Request.Context(), intent, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post intent")
		return
	}

	logger.Info("Intent posted via API", slog.String("voucher_id", voucher.VoucherID), slog.String("intent_type", intent.IntentType))
	c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher))
}

// getVoucher retrieves a voucher with its lines.
func (h *voucherHandler) getVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID := c.Param("businessID")
	voucherID := c.Param("voucherID")

	voucher, err := h.postingService.GetVoucherByID(c.Request.Context(), businessID, voucherID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve voucher")
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// listVouchers serves the paginated voucher listing.
func (h *voucherHandler) listVouchers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID := c.Param("businessID")

	params := dto.ListVouchersParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.postingService.ListVouchers(c.Request.Context(), businessID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list vouchers")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// reverseVoucher posts a reversing voucher for a posted voucher.
func (h *voucherHandler) reverseVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID := c.Param("businessID")
	voucherID := c.Param("voucherID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reversing, err := h.postingService.ReverseVoucher(c.Request.Context(), businessID, voucherID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reverse voucher")
		return
	}

	logger.Info("Voucher reversed via API",
		slog.String("original_voucher_id", voucherID),
		slog.String("reversing_voucher_id", reversing.VoucherID),
	)
	c.JSON(http.StatusCreated, dto.ToVoucherResponse(reversing))
}

// registerVoucherRoutes registers voucher and intent specific routes
func registerVoucherRoutes(group *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newVoucherHandler(postingService)

	vouchers := group.Group("/vouchers")
	{
		vouchers.POST("", h.createVoucher)
		vouchers.GET("", h.listVouchers)
		vouchers.GET("/:voucherID", h.getVoucher)
		vouchers.POST("/:voucherID/reverse", h.reverseVoucher)
	}

	group.POST("/intents", h.postIntent)
}
