package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"trademaster/internal/models"
	"trademaster/internal/stats"
	"trademaster/internal/store"
)

// StreamHandler is the subscription surface for the presentation layer: a
// WebSocket that delivers the full trade collection plus the recomputed
// statistics snapshot on every change, starting with the current state.
type StreamHandler struct {
	Store  *store.Store
	Logger *zap.Logger
}

type streamFrame struct {
	Trades []models.Trade  `json:"trades"`
	Stats  *stats.Snapshot `json:"stats"`
}

func (h *StreamHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/stream", h.stream)
}

// @Summary Subscribe to trade collection changes
// @Tags stream
// @Router /api/v1/stream [get]
func (h *StreamHandler) stream(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("ws accept failed", zap.Error(err))
		}
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	ctx := c.Request.Context()
	// Each push is a complete snapshot, so a slow client can safely skip
	// intermediate states; buffer one frame and coalesce.
	frames := make(chan streamFrame, 1)
	unsubscribe := h.Store.Subscribe(ctx, func(trades []models.Trade) {
		frame := streamFrame{Trades: trades, Stats: stats.Compute(trades)}
		for {
			select {
			case frames <- frame:
				return
			default:
				select {
				case <-frames:
				default:
				}
			}
		}
	})
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-frames:
			if err := h.writeFrame(ctx, conn, frame); err != nil {
				if h.Logger != nil {
					h.Logger.Debug("ws write failed, dropping subscriber", zap.Error(err))
				}
				return
			}
		}
	}
}

func (h *StreamHandler) writeFrame(ctx context.Context, conn *websocket.Conn, frame streamFrame) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, payload)
}
