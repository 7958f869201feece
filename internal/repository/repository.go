package repository

import (
	"context"

	"trademaster/internal/models"
)

// ListTradesParams narrows and pages the trade list for table views. The zero
// value means "everything, date descending".
type ListTradesParams struct {
	Limit      int
	Offset     int
	Instrument *string
	Strategy   *string
	Session    *string
	ActiveOnly *bool
}

// Repository is the persistence boundary for the journal. The collection
// behaves like a remote document store: opaque ids assigned on insert,
// full-record updates keyed by id, and the canonical read ordered by date
// descending.
type Repository interface {
	// ListAllTradesByDateDesc returns the full collection in the canonical
	// order pushed to subscribers.
	ListAllTradesByDateDesc(ctx context.Context) ([]models.Trade, error)
	ListTrades(ctx context.Context, params ListTradesParams) ([]models.Trade, error)
	CountTrades(ctx context.Context, params ListTradesParams) (int64, error)
	GetTradeByID(ctx context.Context, id uint64) (*models.Trade, error)
	InsertTrade(ctx context.Context, item *models.Trade) error
	UpdateTrade(ctx context.Context, item *models.Trade) error
	DeleteTrade(ctx context.Context, id uint64) error

	ListPlanItems(ctx context.Context) ([]models.PlanItem, error)
	ReplacePlanItems(ctx context.Context, items []models.PlanItem) error
}
