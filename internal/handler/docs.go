package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# TradeMaster Journal Service

Manual trade logging with derived statistics.

## Notable Routes

- GET /healthz
- GET /readyz
- GET /api/v1/trades
- POST /api/v1/trades
- PUT /api/v1/trades/:id
- DELETE /api/v1/trades/:id
- POST /api/v1/trades/:id/end
- POST /api/v1/trades/clear
- POST /api/v1/trades/reset
- POST /api/v1/trades/import-csv
- GET /api/v1/stats
- GET /api/v1/plan
- PUT /api/v1/plan
- POST /api/v1/plan/import-csv
- GET /api/v1/backup/export
- POST /api/v1/backup/import
- GET /api/v1/stream (WebSocket)

## Stream

/api/v1/stream pushes {"trades": [...], "stats": {...}} on every change,
with the current state delivered on connect. Each frame is a complete
snapshot, not a delta.
`)
	})
}
