package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"trademaster/internal/service"
)

type BackupHandler struct {
	Backup *service.BackupService
}

func (h *BackupHandler) Register(r *gin.Engine) {
	g := r.Group("/api/v1/backup")
	g.GET("/export", h.export)
	g.POST("/import", h.importPayload)
}

// @Summary Export trades and plan as a backup file
// @Tags backup
// @Success 200 {object} service.BackupPayload
// @Router /api/v1/backup/export [get]
func (h *BackupHandler) export(c *gin.Context) {
	payload, err := h.Backup.Export(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="trademaster_backup.json"`)
	c.JSON(http.StatusOK, payload)
}

// @Summary Import a backup file, replacing current data
// @Tags backup
// @Accept json
// @Success 200 {object} handler.apiResponse
// @Router /api/v1/backup/import [post]
func (h *BackupHandler) importPayload(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		Error(c, http.StatusBadRequest, "unreadable body", nil)
		return
	}
	if err := h.Backup.Import(c.Request.Context(), raw); err != nil {
		respondServiceError(c, err)
		return
	}
	Ok(c, gin.H{"imported": true}, nil)
}
