package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trademaster/internal/models"
	"trademaster/internal/repository"
	"trademaster/internal/service"
)

type PlanHandler struct {
	Repo repository.Repository
}

func (h *PlanHandler) Register(r *gin.Engine) {
	g := r.Group("/api/v1/plan")
	g.GET("", h.list)
	g.PUT("", h.replace)
	g.POST("/import-csv", h.importCSV)
}

// @Summary List plan-of-day rows
// @Tags plan
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/plan [get]
func (h *PlanHandler) list(c *gin.Context) {
	items, err := h.Repo.ListPlanItems(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

func (h *PlanHandler) replace(c *gin.Context) {
	var items []models.PlanItem
	if err := c.ShouldBindJSON(&items); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	for i := range items {
		items[i].ID = 0
		items[i].Ordinal = i
	}
	if err := h.Repo.ReplacePlanItems(c.Request.Context(), items); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"count": len(items)}, nil)
}

// @Summary Replace the plan from a CSV upload
// @Tags plan
// @Accept text/csv
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/plan/import-csv [post]
func (h *PlanHandler) importCSV(c *gin.Context) {
	items, err := service.ImportPlanCSV(c.Request.Body)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid csv: "+err.Error(), nil)
		return
	}
	if err := h.Repo.ReplacePlanItems(c.Request.Context(), items); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"count": len(items)}, nil)
}
