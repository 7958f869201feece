package service

import (
	"strings"
	"testing"
	"time"
)

func TestImportTradesCSVAliasesAndDefaults(t *testing.T) {
	csvText := strings.Join([]string{
		"Date,Symbol,Side,Type,SL,Balance,Profit,RR",
		"01/15/2025,BTCUSD,Short,Scalp,100,10000,+50.00 PLN,1.2",
		"2025-01-16,ETHUSD,,,,,-20.00 PLN,",
	}, "\n")

	trades, err := ImportTradesCSV(strings.NewReader(csvText), "PLN")
	if err != nil {
		t.Fatalf("ImportTradesCSV: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("trades = %#v", trades)
	}

	first := trades[0]
	if first.Date != "2025-01-15" {
		t.Fatalf("date = %q", first.Date)
	}
	if first.Instrument != "BTCUSD" || first.Position != "Short" || first.Strategy != "Scalp" {
		t.Fatalf("aliases not applied: %#v", first)
	}
	if first.StopLoss != "100" || first.AccountBalance != "10000" || first.RFactor != "1.2" {
		t.Fatalf("numeric aliases not applied: %#v", first)
	}
	if first.Win != "Yes" || first.Loss != "No" {
		t.Fatalf("flags from pnl sign: %#v", first)
	}

	second := trades[1]
	if second.Position != "Long" || second.Strategy != "Manual" || second.Session != "New York" {
		t.Fatalf("defaults not applied: %#v", second)
	}
	if second.Win != "No" || second.Loss != "Yes" {
		t.Fatalf("flags from negative pnl: %#v", second)
	}
}

func TestImportTradesCSVEmptyInput(t *testing.T) {
	trades, err := ImportTradesCSV(strings.NewReader(""), "PLN")
	if err != nil || len(trades) != 0 {
		t.Fatalf("trades = %#v, err = %v", trades, err)
	}
}

func TestImportPlanCSVKeepsRowsGeneric(t *testing.T) {
	csvText := "Setup,Level,Bias\nBreakout,42500,Long\n"
	items, err := ImportPlanCSV(strings.NewReader(csvText))
	if err != nil {
		t.Fatalf("ImportPlanCSV: %v", err)
	}
	if len(items) != 1 || items[0].Ordinal != 0 {
		t.Fatalf("items = %#v", items)
	}
	if !strings.Contains(string(items[0].Fields), `"Setup":"Breakout"`) {
		t.Fatalf("fields = %s", items[0].Fields)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"01/15/2025", "2025-01-15"},
		{"1/5/2025", "2025-01-05"},
		{"01-15-2025", "2025-01-15"},
		{"2025-01-15", "2025-01-15"},
	}
	for _, tt := range tests {
		if got := NormalizeDate(tt.in); got != tt.want {
			t.Fatalf("NormalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	today := time.Now().UTC().Format("2006-01-02")
	if got := NormalizeDate("gibberish"); got != today {
		t.Fatalf("NormalizeDate fallback = %q, want today", got)
	}
	if got := NormalizeDate(""); got != today {
		t.Fatalf("NormalizeDate empty = %q, want today", got)
	}
}
