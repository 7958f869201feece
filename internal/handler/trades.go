package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trademaster/internal/models"
	"trademaster/internal/repository"
	"trademaster/internal/service"
)

type TradeHandler struct {
	Repo    repository.Repository
	Service *service.TradeService
}

func (h *TradeHandler) Register(r *gin.Engine) {
	g := r.Group("/api/v1/trades")
	g.GET("", h.list)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.remove)
	g.POST("/:id/end", h.end)
	g.POST("/clear", h.clear)
	g.POST("/reset", h.reset)
	g.POST("/import-csv", h.importCSV)
}

// @Summary List trades, date descending
// @Tags trades
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/trades [get]
func (h *TradeHandler) list(c *gin.Context) {
	params := repository.ListTradesParams{
		Limit:      intQuery(c, "limit", 10),
		Offset:     intQuery(c, "offset", 0),
		Instrument: strQueryPtr(c, "instrument"),
		Strategy:   strQueryPtr(c, "strategy"),
		Session:    strQueryPtr(c, "session"),
		ActiveOnly: boolQueryPtr(c, "active"),
	}
	items, err := h.Repo.ListTrades(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountTrades(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(params.Limit, params.Offset, total))
}

// @Summary Add a trade
// @Tags trades
// @Accept json
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/trades [post]
func (h *TradeHandler) create(c *gin.Context) {
	var input models.Trade
	if err := c.ShouldBindJSON(&input); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	saved, err := h.Service.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	Ok(c, saved, nil)
}

func (h *TradeHandler) update(c *gin.Context) {
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var input models.Trade
	if err := c.ShouldBindJSON(&input); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	saved, err := h.Service.Update(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	Ok(c, saved, nil)
}

func (h *TradeHandler) remove(c *gin.Context) {
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	Ok(c, gin.H{"deleted": id}, nil)
}

type endTradeRequest struct {
	EndTime string `json:"endTime"`
}

// @Summary Close an active trade
// @Tags trades
// @Accept json
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/trades/{id}/end [post]
func (h *TradeHandler) end(c *gin.Context) {
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req endTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	trade, err := h.Service.EndTrade(c.Request.Context(), id, req.EndTime)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	Ok(c, trade, nil)
}

func (h *TradeHandler) clear(c *gin.Context) {
	if err := h.Service.ClearAll(c.Request.Context()); err != nil {
		respondServiceError(c, err)
		return
	}
	Ok(c, gin.H{"cleared": true}, nil)
}

func (h *TradeHandler) reset(c *gin.Context) {
	if err := h.Service.ResetToDefaults(c.Request.Context()); err != nil {
		respondServiceError(c, err)
		return
	}
	Ok(c, gin.H{"reset": true}, nil)
}

// @Summary Import trades from a CSV file
// @Tags trades
// @Accept text/csv
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/trades/import-csv [post]
func (h *TradeHandler) importCSV(c *gin.Context) {
	trades, err := service.ImportTradesCSV(c.Request.Body, h.Service.Currency)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid csv: "+err.Error(), nil)
		return
	}
	added := 0
	for i := range trades {
		if _, err := h.Service.Create(c.Request.Context(), trades[i]); err != nil {
			// Writes already issued stay; report how far the sequence got.
			Error(c, http.StatusBadGateway, err.Error(), map[string]any{"imported": added})
			return
		}
		added++
	}
	Ok(c, gin.H{"imported": added}, nil)
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrNotFound):
		Error(c, http.StatusNotFound, err.Error(), nil)
	default:
		Error(c, http.StatusBadGateway, err.Error(), nil)
	}
}
