package handler

import (
	"github.com/gin-gonic/gin"

	"trademaster/internal/service"
)

type StatsHandler struct {
	Stats *service.StatsService
}

func (h *StatsHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/stats", h.get)
}

// @Summary Current statistics snapshot
// @Tags stats
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/stats [get]
func (h *StatsHandler) get(c *gin.Context) {
	snap := h.Stats.Latest()
	if snap == nil {
		// Empty collection: no snapshot is computed, by contract.
		Ok(c, nil, map[string]any{"empty": true})
		return
	}
	Ok(c, snap, nil)
}
