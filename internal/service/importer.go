package service

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
	"time"

	"gorm.io/datatypes"

	"trademaster/internal/models"
	"trademaster/internal/numeric"
)

// Column aliases seen in exports from various journaling sheets, mapped onto
// trade record fields best-effort. Lookup is case-insensitive on the trimmed
// header name.
var columnAliases = map[string]string{
	"date": "date",
	"coin": "instrument", "instrument": "instrument", "symbol": "instrument",
	"position": "position", "side": "position",
	"strategy": "strategy", "type": "strategy",
	"timeframe": "timeframe",
	"session":   "session", "market": "session",
	"quantity": "quantity", "size": "quantity", "amount": "quantity",
	"holdingtime": "holdingTime", "duration": "holdingTime",
	"stoploss": "stopLoss", "sl": "stopLoss",
	"accountbalance": "accountBalance", "balance": "accountBalance",
	"riskpercent": "riskPercent", "risk": "riskPercent",
	"pnl": "pnl", "profit": "pnl",
	"rfactor": "rFactor", "r/factor": "rFactor", "rr": "rFactor",
	"win":  "win",
	"loss": "loss",
	"confidence": "confidence", "confidence 1-5": "confidence",
	"prenotes": "preNotes", "pre notes": "preNotes", "notes": "preNotes",
	"postnotes": "postNotes", "post notes": "postNotes", "comments": "postNotes",
	"starttime": "startTime",
	"endtime":   "endTime",
}

// ImportTradesCSV reads header-keyed rows and maps them onto trade records.
// Dates are normalized to YYYY-MM-DD; win/loss flags fall back to the sign of
// the PnL column when not supplied.
func ImportTradesCSV(r io.Reader, currency string) ([]models.Trade, error) {
	rows, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	if currency == "" {
		currency = "PLN"
	}

	trades := make([]models.Trade, 0, len(rows))
	for _, row := range rows {
		fields := map[string]string{}
		for header, value := range row {
			if field, ok := columnAliases[strings.ToLower(strings.TrimSpace(header))]; ok {
				if _, taken := fields[field]; !taken || strings.TrimSpace(value) != "" {
					fields[field] = strings.TrimSpace(value)
				}
			}
		}

		pnl := fields["pnl"]
		win, loss := fields["win"], fields["loss"]
		if win == "" || loss == "" {
			v, ok := numeric.ParseMoney(pnl)
			if win == "" {
				win = yesNo(ok && v > 0)
			}
			if loss == "" {
				loss = yesNo(ok && v < 0)
			}
		}

		trades = append(trades, models.Trade{
			Date:               NormalizeDate(fields["date"]),
			Instrument:         defaultStr(fields["instrument"], "UNKNOWN"),
			Position:           defaultStr(fields["position"], "Long"),
			Strategy:           defaultStr(fields["strategy"], "Manual"),
			Timeframe:          defaultStr(fields["timeframe"], "5m"),
			Session:            defaultStr(fields["session"], "New York"),
			Quantity:           defaultStr(fields["quantity"], "1.0"),
			HoldingTimeMinutes: fields["holdingTime"],
			StopLoss:           fields["stopLoss"],
			AccountBalance:     fields["accountBalance"],
			RiskPercent:        fields["riskPercent"],
			PnL:                defaultStr(pnl, "+0.00 "+currency),
			RFactor:            fields["rFactor"],
			Win:                win,
			Loss:               loss,
			Confidence:         defaultStr(fields["confidence"], "3"),
			PreNotes:           fields["preNotes"],
			PostNotes:          fields["postNotes"],
			StartTime:          fields["startTime"],
			EndTime:            fields["endTime"],
		})
	}
	return trades, nil
}

// ImportPlanCSV keeps rows generic: each becomes a header-keyed JSON object.
func ImportPlanCSV(r io.Reader) ([]models.PlanItem, error) {
	rows, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	items := make([]models.PlanItem, 0, len(rows))
	for i, row := range rows {
		raw, err := json.Marshal(row)
		if err != nil {
			return nil, err
		}
		items = append(items, models.PlanItem{Ordinal: i, Fields: datatypes.JSON(raw)})
	}
	return items, nil
}

// readRecords parses CSV text into a sequence of header-keyed string records,
// skipping fully empty lines.
func readRecords(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := map[string]string{}
		empty := true
		for i, value := range record {
			if i >= len(header) {
				break
			}
			row[header[i]] = value
			if strings.TrimSpace(value) != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// NormalizeDate converts MM/DD/YYYY and MM-DD-YYYY to YYYY-MM-DD; ISO dates
// pass through. Anything else falls back to today.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return time.Now().UTC().Format("2006-01-02")
	case isSlashDate(raw):
		parts := strings.Split(raw, "/")
		return parts[2] + "-" + pad2(parts[0]) + "-" + pad2(parts[1])
	case isDashUSDate(raw):
		parts := strings.Split(raw, "-")
		return parts[2] + "-" + pad2(parts[0]) + "-" + pad2(parts[1])
	case isISODate(raw):
		return raw
	}
	if parsed, err := time.Parse("2006-01-02T15:04:05Z07:00", raw); err == nil {
		return parsed.UTC().Format("2006-01-02")
	}
	return time.Now().UTC().Format("2006-01-02")
}

func isSlashDate(s string) bool {
	return matchDateShape(s, "/", false)
}

func isDashUSDate(s string) bool {
	return matchDateShape(s, "-", false)
}

func isISODate(s string) bool {
	return matchDateShape(s, "-", true)
}

// matchDateShape checks d{1,2}SEPd{1,2}SEPd{4} (or the year-first variant).
func matchDateShape(s, sep string, yearFirst bool) bool {
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return false
	}
	yearIdx := 2
	if yearFirst {
		yearIdx = 0
	}
	for i, p := range parts {
		if !digitsOnly(p) {
			return false
		}
		if i == yearIdx {
			if len(p) != 4 {
				return false
			}
		} else if len(p) < 1 || len(p) > 2 {
			return false
		}
	}
	return true
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func defaultStr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
