package service

import (
	"trademaster/internal/models"
)

// DefaultTrades is the seed set used by reset-to-default and to populate an
// empty store on first run.
func DefaultTrades() []models.Trade {
	return []models.Trade{
		{
			Date:               "2025-01-15",
			Instrument:         "BTCUSD",
			Position:           "Long",
			Strategy:           "Breakout",
			Timeframe:          "5m",
			Session:            "New York",
			Quantity:           "0.5",
			HoldingTimeMinutes: "25",
			StopLoss:           "150.00",
			AccountBalance:     "10000.00",
			RiskPercent:        "1.50",
			PnL:                "+150.50 PLN",
			RFactor:            "1.5",
			Win:                "Yes",
			Loss:               "No",
			Confidence:         "4",
			PreNotes:           "Support at 42500, expecting a breakout up",
			PostNotes:          "Clean breakout from the support level",
		},
		{
			Date:               "2025-01-16",
			Instrument:         "ETHUSD",
			Position:           "Short",
			Strategy:           "Scalp",
			Timeframe:          "15m",
			Session:            "London",
			Quantity:           "2.0",
			HoldingTimeMinutes: "40",
			StopLoss:           "80.00",
			AccountBalance:     "10000.00",
			RiskPercent:        "0.80",
			PnL:                "-45.00 PLN",
			RFactor:            "-0.6",
			Win:                "No",
			Loss:               "Yes",
			Confidence:         "3",
			PreNotes:           "Rejection at resistance on rising volume",
			PostNotes:          "Stopped out, entry was too early",
		},
	}
}
