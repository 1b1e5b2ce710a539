package handler

import (
	"net/http"
	"strconv"

	report "contractdesk/internal/modules/report/service"
	"contractdesk/pkg/response"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service report.ReportService
}

func NewReportHandler(service report.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) GetValidContracts(c *gin.Context) {
	contracts, err := h.service.ValidContracts(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts)
}

func (h *ReportHandler) GetExpiringContracts(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days parameter"})
			return
		}
		days = parsed
	}

	contracts, err := h.service.ExpiringContracts(c.Request.Context(), days)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts)
}
