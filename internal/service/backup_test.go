package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"trademaster/internal/models"
	"trademaster/internal/store"
)

func newBackupService() (*BackupService, *TradeService, *stubRepo) {
	repo := newStubRepo()
	st := store.New(repo, nil)
	return &BackupService{Store: st, Repo: repo},
		&TradeService{Store: st, Currency: "PLN"},
		repo
}

func TestExportShape(t *testing.T) {
	ctx := context.Background()
	backup, trades, _ := newBackupService()
	_, _ = trades.Create(ctx, models.Trade{Instrument: "BTCUSD", PnL: "+10.00"})

	payload, err := backup.Export(ctx)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if payload.Version != "1.0" {
		t.Fatalf("version = %q", payload.Version)
	}
	if payload.ExportDate == "" {
		t.Fatalf("missing export date")
	}
	if len(payload.Trades) != 1 {
		t.Fatalf("trades = %#v", payload.Trades)
	}
}

func TestImportRejectsBadShapes(t *testing.T) {
	ctx := context.Background()
	backup, trades, _ := newBackupService()
	_, _ = trades.Create(ctx, models.Trade{Instrument: "KEEP", PnL: "+1.00"})

	bad := [][]byte{
		[]byte(`not json`),
		[]byte(`{"plan": []}`),
		[]byte(`{"trades": "nope"}`),
		[]byte(`{"trades": {"a": 1}}`),
	}
	for _, raw := range bad {
		if err := backup.Import(ctx, raw); !errors.Is(err, ErrValidation) {
			t.Fatalf("Import(%s) err = %v, want ErrValidation", raw, err)
		}
	}

	// Rejection happens before anything destructive.
	existing, _ := backup.Store.Trades(ctx)
	if len(existing) != 1 || existing[0].Instrument != "KEEP" {
		t.Fatalf("existing data touched by rejected import: %#v", existing)
	}
}

func TestImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	backup, trades, _ := newBackupService()
	_, _ = trades.Create(ctx, models.Trade{Date: "2025-03-01", Instrument: "BTCUSD", PnL: "+10.00"})
	_, _ = trades.Create(ctx, models.Trade{Date: "2025-03-02", Instrument: "ETHUSD", PnL: "-5.00"})

	payload, err := backup.Export(ctx)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	raw, _ := json.Marshal(payload)

	if err := backup.Import(ctx, raw); err != nil {
		t.Fatalf("Import: %v", err)
	}
	after, _ := backup.Store.Trades(ctx)
	if len(after) != len(payload.Trades) {
		t.Fatalf("round trip changed count: %d != %d", len(after), len(payload.Trades))
	}
	for i, got := range after {
		want := payload.Trades[i]
		if got.ID == want.ID {
			t.Fatalf("imported record kept its old id: %#v", got)
		}
		if got.Instrument != want.Instrument || got.PnL != want.PnL || got.Date != want.Date {
			t.Fatalf("round trip mismatch: %#v vs %#v", got, want)
		}
	}
}

func TestImportReplacesPlanWhenPresent(t *testing.T) {
	ctx := context.Background()
	backup, _, repo := newBackupService()

	raw := []byte(`{"trades": [], "plan": [{"ordinal": 0, "fields": {"Setup": "Breakout"}}]}`)
	if err := backup.Import(ctx, raw); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(repo.plan) != 1 {
		t.Fatalf("plan = %#v", repo.plan)
	}
}
