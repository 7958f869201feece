// Package stats turns the flat trade list into the derived aggregates shown
// by the dashboard. Compute is a pure function over the latest full snapshot;
// there is no incremental path, every change recomputes from scratch.
package stats

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"trademaster/internal/models"
	"trademaster/internal/numeric"
)

// Snapshot is the full set of derived aggregates for one trade list. It is
// never persisted; consumers always receive a fresh recomputation.
type Snapshot struct {
	TotalTrades int     `json:"totalTrades"`
	TotalPnL    float64 `json:"totalPnL"`
	WinRate     float64 `json:"winRate"`
	LossRate    float64 `json:"lossRate"`
	AvgR        float64 `json:"avgR"`
	WinTrades   int     `json:"winTrades"`
	LossTrades  int     `json:"lossTrades"`
	AvgPnL      float64 `json:"avgPnL"`

	DailyPnL        []DayRow        `json:"dailyPnL"`
	MonthlyPnL      []MonthRow      `json:"monthlyPnL"`
	InstrumentStats []InstrumentRow `json:"instrumentStats"`
	StrategyStats   []GroupRow      `json:"strategyStats"`
	TimeframeStats  []TimeframeRow  `json:"timeframeStats"`
	SessionStats    []GroupRow      `json:"sessionStats"`
	PositionStats   []GroupRow      `json:"positionStats"`
	ConfidenceStats []GroupRow      `json:"confidenceStats"`
	RFactorStats    []RFactorRow    `json:"rFactorStats"`
}

// DayRow is one per-day PnL bucket. Date keeps the raw (trimmed) date string;
// FormattedDate is the dd/MM display label.
type DayRow struct {
	Date          string  `json:"date"`
	PnL           float64 `json:"pnl"`
	FormattedDate string  `json:"formattedDate"`
}

type MonthRow struct {
	Month string  `json:"month"`
	PnL   float64 `json:"pnl"`
}

type InstrumentRow struct {
	Instrument string  `json:"instrument"`
	Total      float64 `json:"total"`
	Trades     int     `json:"trades"`
	AvgPnL     float64 `json:"avgPnL"`
}

// GroupRow is the shared shape for strategy, session, position and confidence
// aggregates.
type GroupRow struct {
	Label   string  `json:"label"`
	Total   float64 `json:"total"`
	Trades  int     `json:"trades"`
	Wins    int     `json:"wins"`
	AvgPnL  float64 `json:"avgPnL"`
	WinRate float64 `json:"winRate"`
}

type TimeframeRow struct {
	Timeframe string `json:"timeframe"`
	Trades    int    `json:"trades"`
}

type RFactorRow struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// The seven fixed R-Factor buckets, inclusive upper bound each.
var rFactorOrder = []string{
	"<= -1.0",
	"-1.0 to -0.5",
	"-0.5 to 0",
	"0 to 0.5",
	"0.5 to 1.0",
	"1.0 to 2.0",
	"> 2.0",
}

var (
	isoDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashDateRe = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)
)

type groupAccum struct {
	total  float64
	trades int
	wins   int
}

// Compute derives a Snapshot from the trade list. Returns nil for an empty
// list; callers must guard so no rate divides by zero. Trades whose PnL does
// not parse are excluded from every PnL aggregate but still count toward
// totalTrades, the win/loss flag tallies, the timeframe distribution and the
// R-Factor aggregates.
func Compute(trades []models.Trade) *Snapshot {
	if len(trades) == 0 {
		return nil
	}

	var total float64
	var win, loss int
	var rSum float64
	var rCount int

	dailyPnL := map[string]float64{}
	monthlyPnL := map[string]float64{}
	instruments := map[string]*groupAccum{}
	strategies := map[string]*groupAccum{}
	sessions := map[string]*groupAccum{}
	positions := map[string]*groupAccum{}
	confidences := map[string]*groupAccum{}
	timeframes := map[string]int{}
	rRanges := map[string]int{}

	for _, t := range trades {
		pnl, pnlOK := numeric.ParseMoney(t.PnL)
		isWin := t.Win == "Yes"

		if pnlOK {
			total += pnl

			if date := strings.TrimSpace(t.Date); date != "" {
				dailyPnL[date] += pnl
				monthlyPnL[monthKey(date)] += pnl
			}

			accumulate(instruments, t.Instrument, pnl, isWin)
			accumulate(strategies, t.Strategy, pnl, isWin)
			accumulate(sessions, t.Session, pnl, isWin)
			accumulate(positions, t.Position, pnl, isWin)
			accumulate(confidences, t.Confidence, pnl, isWin)
		}

		if t.Timeframe != "" {
			timeframes[t.Timeframe]++
		}

		if r, ok := numeric.ParseDecimal(t.RFactor); ok {
			rSum += r
			rCount++
			rRanges[rFactorRange(r)]++
		}

		if t.Win == "Yes" {
			win++
		}
		if t.Loss == "Yes" {
			loss++
		}
	}

	n := float64(len(trades))
	snap := &Snapshot{
		TotalTrades: len(trades),
		TotalPnL:    total,
		WinRate:     float64(win) / n * 100,
		LossRate:    float64(loss) / n * 100,
		WinTrades:   win,
		LossTrades:  loss,
		// Full count on purpose: unparsed-PnL trades stay in the denominator.
		AvgPnL: total / n,
	}
	if rCount > 0 {
		snap.AvgR = rSum / float64(rCount)
	}

	snap.DailyPnL = dayRows(dailyPnL)
	snap.MonthlyPnL = monthRows(monthlyPnL)
	snap.InstrumentStats = instrumentRows(instruments)
	snap.StrategyStats = groupRows(strategies, byAvgPnLDesc)
	snap.SessionStats = groupRows(sessions, byAvgPnLDesc)
	snap.PositionStats = groupRows(positions, byAvgPnLDesc)
	snap.ConfidenceStats = confidenceRows(confidences)
	snap.TimeframeStats = timeframeRows(timeframes)
	snap.RFactorStats = rFactorRows(rRanges)

	return snap
}

func accumulate(m map[string]*groupAccum, key string, pnl float64, isWin bool) {
	if key == "" {
		return
	}
	acc := m[key]
	if acc == nil {
		acc = &groupAccum{}
		m[key] = acc
	}
	acc.total += pnl
	acc.trades++
	if isWin {
		acc.wins++
	}
}

// monthKey derives the YYYY-MM bucket by structural inspection of the raw
// date string; unrecognized formats fall back to the first 7 characters.
func monthKey(date string) string {
	switch {
	case isoDateRe.MatchString(date):
		return date[:7]
	case slashDateRe.MatchString(date):
		parts := strings.Split(date, "/")
		month := parts[0]
		if len(month) == 1 {
			month = "0" + month
		}
		return parts[2] + "-" + month
	case len(date) > 7:
		return date[:7]
	default:
		return date
	}
}

// rFactorRange buckets a parsed R value; upper bounds are inclusive.
func rFactorRange(r float64) string {
	switch {
	case r <= -1:
		return rFactorOrder[0]
	case r <= -0.5:
		return rFactorOrder[1]
	case r <= 0:
		return rFactorOrder[2]
	case r <= 0.5:
		return rFactorOrder[3]
	case r <= 1:
		return rFactorOrder[4]
	case r <= 2:
		return rFactorOrder[5]
	default:
		return rFactorOrder[6]
	}
}

func dayRows(m map[string]float64) []DayRow {
	rows := make([]DayRow, 0, len(m))
	for date, pnl := range m {
		rows = append(rows, DayRow{
			Date:          date,
			PnL:           pnl,
			FormattedDate: displayDate(date),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows
}

// displayDate renders dd/MM when the raw date parses as a calendar date,
// otherwise falls back to trimming the year prefix.
func displayDate(date string) string {
	if parsed, err := time.Parse("2006-01-02", date); err == nil {
		return parsed.Format("02/01")
	}
	if len(date) > 5 {
		return date[5:]
	}
	return date
}

func monthRows(m map[string]float64) []MonthRow {
	rows := make([]MonthRow, 0, len(m))
	for month, pnl := range m {
		rows = append(rows, MonthRow{Month: month, PnL: pnl})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month < rows[j].Month })
	return rows
}

func instrumentRows(m map[string]*groupAccum) []InstrumentRow {
	rows := make([]InstrumentRow, 0, len(m))
	for instrument, acc := range m {
		rows = append(rows, InstrumentRow{
			Instrument: instrument,
			Total:      acc.total,
			Trades:     acc.trades,
			AvgPnL:     acc.total / float64(acc.trades),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Instrument < rows[j].Instrument
	})
	return rows
}

// Ties break on label so repeated runs over the same list stay identical
// regardless of map iteration order.
func byAvgPnLDesc(a, b GroupRow) bool {
	if a.AvgPnL != b.AvgPnL {
		return a.AvgPnL > b.AvgPnL
	}
	return a.Label < b.Label
}

func groupRows(m map[string]*groupAccum, less func(a, b GroupRow) bool) []GroupRow {
	rows := make([]GroupRow, 0, len(m))
	for label, acc := range m {
		rows = append(rows, GroupRow{
			Label:   label,
			Total:   acc.total,
			Trades:  acc.trades,
			Wins:    acc.wins,
			AvgPnL:  acc.total / float64(acc.trades),
			WinRate: float64(acc.wins) / float64(acc.trades) * 100,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
	return rows
}

// confidenceRows renders "Level <n>" labels and sorts by label ascending.
func confidenceRows(m map[string]*groupAccum) []GroupRow {
	rows := groupRows(m, func(a, b GroupRow) bool { return a.Label < b.Label })
	for i := range rows {
		rows[i].Label = "Level " + rows[i].Label
	}
	return rows
}

func timeframeRows(m map[string]int) []TimeframeRow {
	rows := make([]TimeframeRow, 0, len(m))
	for timeframe, count := range m {
		rows = append(rows, TimeframeRow{Timeframe: timeframe, Trades: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Trades != rows[j].Trades {
			return rows[i].Trades > rows[j].Trades
		}
		return rows[i].Timeframe < rows[j].Timeframe
	})
	return rows
}

func rFactorRows(m map[string]int) []RFactorRow {
	rows := make([]RFactorRow, 0, len(m))
	for _, r := range rFactorOrder {
		if count, ok := m[r]; ok {
			rows = append(rows, RFactorRow{Range: r, Count: count})
		}
	}
	return rows
}
