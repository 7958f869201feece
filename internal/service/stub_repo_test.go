package service

import (
	"context"
	"sort"

	"trademaster/internal/models"
	"trademaster/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
type stubRepo struct {
	nextID uint64
	trades map[uint64]models.Trade
	plan   []models.PlanItem
}

func newStubRepo() *stubRepo {
	return &stubRepo{nextID: 1, trades: map[uint64]models.Trade{}}
}

func (s *stubRepo) ListAllTradesByDateDesc(ctx context.Context) ([]models.Trade, error) {
	out := make([]models.Trade, 0, len(s.trades))
	for _, t := range s.trades {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *stubRepo) ListTrades(ctx context.Context, params repository.ListTradesParams) ([]models.Trade, error) {
	return s.ListAllTradesByDateDesc(ctx)
}

func (s *stubRepo) CountTrades(ctx context.Context, params repository.ListTradesParams) (int64, error) {
	return int64(len(s.trades)), nil
}

func (s *stubRepo) GetTradeByID(ctx context.Context, id uint64) (*models.Trade, error) {
	if t, ok := s.trades[id]; ok {
		return &t, nil
	}
	return nil, nil
}

func (s *stubRepo) InsertTrade(ctx context.Context, item *models.Trade) error {
	item.ID = s.nextID
	s.nextID++
	s.trades[item.ID] = *item
	return nil
}

func (s *stubRepo) UpdateTrade(ctx context.Context, item *models.Trade) error {
	s.trades[item.ID] = *item
	return nil
}

func (s *stubRepo) DeleteTrade(ctx context.Context, id uint64) error {
	delete(s.trades, id)
	return nil
}

func (s *stubRepo) ListPlanItems(ctx context.Context) ([]models.PlanItem, error) {
	return s.plan, nil
}

func (s *stubRepo) ReplacePlanItems(ctx context.Context, items []models.PlanItem) error {
	s.plan = items
	return nil
}
