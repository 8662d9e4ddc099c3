package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
	"github.com/bahikhata/bahikhata_backend/internal/middleware"
)

// returnsHandler handles HTTP requests for return assembly.
type returnsHandler struct {
	returnsService portssvc.ReturnsSvcFacade
}

func newReturnsHandler(returnsService portssvc.ReturnsSvcFacade) *returnsHandler {
	return &returnsHandler{returnsService: returnsService}
}

// assembleOutwardReturn assembles the outward-supply return for a period.
func (h *returnsHandler) assembleOutwardReturn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID := c.Param("businessID")

	params := dto.ReturnParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to dates are required"})
		return
	}

	summary, err := h.returnsService.AssembleOutwardReturn(c.Request.Context(), businessID, params.From, params.To)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to assemble return")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// registerReturnRoutes registers return assembly routes
func registerReturnRoutes(group *gin.RouterGroup, returnsService portssvc.ReturnsSvcFacade) {
	h := newReturnsHandler(returnsService)

	group.GET("/returns/outward", h.assembleOutwardReturn)
}
