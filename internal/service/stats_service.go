package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"trademaster/internal/models"
	"trademaster/internal/stats"
	"trademaster/internal/store"
)

// StatsService keeps the latest statistics snapshot in step with the trade
// collection: it subscribes to the store and recomputes the whole snapshot on
// every push. There is one reactive dependency and no incremental path.
type StatsService struct {
	Logger *zap.Logger

	mu     sync.RWMutex
	latest *stats.Snapshot
	trades []models.Trade
}

// Start subscribes to the store; the returned function unsubscribes.
func (s *StatsService) Start(ctx context.Context, st *store.Store) func() {
	return st.Subscribe(ctx, s.onTrades)
}

func (s *StatsService) onTrades(trades []models.Trade) {
	snap := stats.Compute(trades)
	s.mu.Lock()
	s.latest = snap
	s.trades = trades
	s.mu.Unlock()
	if s.Logger != nil {
		s.Logger.Debug("stats recomputed", zap.Int("trades", len(trades)))
	}
}

// Latest returns the most recent snapshot; nil until data arrives or while
// the collection is empty.
func (s *StatsService) Latest() *stats.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Current returns the trade list the latest snapshot was computed from.
func (s *StatsService) Current() []models.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trades
}
