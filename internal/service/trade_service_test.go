package service

import (
	"context"
	"errors"
	"testing"

	"trademaster/internal/models"
	"trademaster/internal/store"
)

func newTradeService() (*TradeService, *stubRepo) {
	repo := newStubRepo()
	return &TradeService{Store: store.New(repo, nil), Currency: "PLN"}, repo
}

func TestCreateNormalizesPnLAndFlags(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTradeService()

	saved, err := svc.Create(ctx, models.Trade{
		Date:       "2025-03-01",
		Instrument: "BTCUSD",
		PnL:        "150,5 zł",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if saved.PnL != "+150.50 PLN" {
		t.Fatalf("pnl = %q", saved.PnL)
	}
	if saved.Win != "Yes" || saved.Loss != "No" {
		t.Fatalf("flags = %q/%q", saved.Win, saved.Loss)
	}
	if saved.IsActive {
		t.Fatalf("completed trade marked active")
	}
	if saved.ID == 0 {
		t.Fatalf("store did not assign an id")
	}
}

func TestCreateZeroPnLIsNeitherWinNorLoss(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTradeService()

	saved, err := svc.Create(ctx, models.Trade{Instrument: "BTCUSD", PnL: "0"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if saved.Win != "No" || saved.Loss != "No" {
		t.Fatalf("flags = %q/%q, want No/No", saved.Win, saved.Loss)
	}
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTradeService()

	if _, err := svc.Create(ctx, models.Trade{PnL: "+10.00 PLN"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing instrument: err = %v", err)
	}
	// No PnL and no start time: not an active trade, so PnL is required.
	if _, err := svc.Create(ctx, models.Trade{Instrument: "BTCUSD"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing pnl: err = %v", err)
	}
}

func TestCreateActiveTradeNeedsNoPnL(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTradeService()

	saved, err := svc.Create(ctx, models.Trade{Instrument: "BTCUSD", StartTime: "14:30"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !saved.IsActive {
		t.Fatalf("trade with start time and no pnl should be active")
	}
	if saved.PnL != "" || saved.Win != "No" || saved.Loss != "No" {
		t.Fatalf("active trade carries pnl state: %#v", saved)
	}
}

func TestCreateRecomputesRiskPercent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTradeService()

	saved, err := svc.Create(ctx, models.Trade{
		Instrument:     "BTCUSD",
		PnL:            "+10.00",
		StopLoss:       "200",
		AccountBalance: "10000",
		RiskPercent:    "99.99", // user-sent value is overwritten
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if saved.RiskPercent != "2.00" {
		t.Fatalf("riskPercent = %q, want 2.00", saved.RiskPercent)
	}
}

func TestCreateKeepsUnparseablePnLVerbatim(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTradeService()

	saved, err := svc.Create(ctx, models.Trade{Instrument: "BTCUSD", PnL: "tbd"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if saved.PnL != "tbd" || saved.Win != "No" || saved.Loss != "No" {
		t.Fatalf("lenient path broken: %#v", saved)
	}
}

func TestUpdateRederivesFlags(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTradeService()
	saved, _ := svc.Create(ctx, models.Trade{Instrument: "BTCUSD", PnL: "+10.00"})

	edited := *saved
	edited.PnL = "-25,00"
	updated, err := svc.Update(ctx, saved.ID, edited)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.PnL != "-25.00 PLN" || updated.Win != "No" || updated.Loss != "Yes" {
		t.Fatalf("updated = %#v", updated)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTradeService()
	_, err := svc.Update(ctx, 42, models.Trade{Instrument: "BTCUSD", PnL: "+1.00"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestEndTradeMidnightWrap(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTradeService()
	saved, _ := svc.Create(ctx, models.Trade{Instrument: "BTCUSD", StartTime: "23:50"})

	ended, err := svc.EndTrade(ctx, saved.ID, "00:10")
	if err != nil {
		t.Fatalf("EndTrade: %v", err)
	}
	if ended.HoldingTimeMinutes != "20" {
		t.Fatalf("holding = %q, want 20", ended.HoldingTimeMinutes)
	}
	if ended.IsActive || ended.EndTime != "00:10" {
		t.Fatalf("ended = %#v", ended)
	}
}

func TestEndTradeWithoutStartTimeKeepsHoldingTime(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTradeService()
	// Seed directly: an active record without a start time.
	_ = repo.InsertTrade(ctx, &models.Trade{Instrument: "BTCUSD", HoldingTimeMinutes: "45", IsActive: true})

	ended, err := svc.EndTrade(ctx, 1, "12:00")
	if err != nil {
		t.Fatalf("EndTrade: %v", err)
	}
	if ended.HoldingTimeMinutes != "45" {
		t.Fatalf("holding = %q, want fallback 45", ended.HoldingTimeMinutes)
	}
}

func TestEndTradeIsTerminal(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTradeService()
	saved, _ := svc.Create(ctx, models.Trade{Instrument: "BTCUSD", StartTime: "10:00"})
	if _, err := svc.EndTrade(ctx, saved.ID, "11:00"); err != nil {
		t.Fatalf("EndTrade: %v", err)
	}
	if _, err := svc.EndTrade(ctx, saved.ID, "12:00"); !errors.Is(err, ErrValidation) {
		t.Fatalf("second EndTrade err = %v, want ErrValidation", err)
	}
}

func TestHoldingMinutes(t *testing.T) {
	tests := []struct {
		start, end string
		want       string
		ok         bool
	}{
		{"23:50", "00:10", "20", true},
		{"09:00", "10:30", "90", true},
		{"10:00", "10:00", "0", true},
		{"", "10:00", "", false},
		{"junk", "10:00", "", false},
	}
	for _, tt := range tests {
		got, ok := holdingMinutes(tt.start, tt.end)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("holdingMinutes(%q, %q) = %q/%v, want %q/%v", tt.start, tt.end, got, ok, tt.want, tt.ok)
		}
	}
}

func TestClearAllAndResetToDefaults(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTradeService()
	_, _ = svc.Create(ctx, models.Trade{Instrument: "BTCUSD", PnL: "+1"})

	if err := svc.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	trades, _ := svc.Store.Trades(ctx)
	if len(trades) != 0 {
		t.Fatalf("trades after clear = %#v", trades)
	}

	if err := svc.ResetToDefaults(ctx); err != nil {
		t.Fatalf("ResetToDefaults: %v", err)
	}
	trades, _ = svc.Store.Trades(ctx)
	if len(trades) != len(DefaultTrades()) {
		t.Fatalf("trades after reset = %d, want %d", len(trades), len(DefaultTrades()))
	}
}
