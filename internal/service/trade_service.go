package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"trademaster/internal/models"
	"trademaster/internal/numeric"
	"trademaster/internal/store"
)

// ErrValidation marks user-facing input errors; handlers map it to 400.
var ErrValidation = errors.New("validation")

// ErrNotFound marks lookups of ids that no longer exist.
var ErrNotFound = errors.New("not found")

// TradeService owns save-time normalization: PnL reformatting, win/loss flag
// derivation, risk percent recomputation and the active/closed state of a
// record. Parse failures are never errors here; a malformed numeric field is
// stored as typed and left for the lenient aggregation path.
type TradeService struct {
	Store    *store.Store
	Logger   *zap.Logger
	Currency string
}

func (s *TradeService) currency() string {
	if s.Currency == "" {
		return "PLN"
	}
	return s.Currency
}

// Create validates and normalizes a new record, then adds it to the store.
// A record with a start time and no PnL is saved as an active (open) trade.
func (s *TradeService) Create(ctx context.Context, input models.Trade) (*models.Trade, error) {
	input.Instrument = strings.TrimSpace(input.Instrument)
	if input.Instrument == "" {
		return nil, fmt.Errorf("%w: instrument is required", ErrValidation)
	}
	active := input.StartTime != "" && strings.TrimSpace(input.PnL) == ""
	if !active && strings.TrimSpace(input.PnL) == "" {
		return nil, fmt.Errorf("%w: pnl is required for a completed trade", ErrValidation)
	}

	if input.Date == "" {
		input.Date = time.Now().UTC().Format("2006-01-02")
	}
	if active {
		input.PnL = ""
		input.Win, input.Loss = "No", "No"
	} else {
		s.normalizePnL(&input)
	}
	s.recomputeRisk(&input)
	input.IsActive = active

	if err := s.Store.Add(ctx, &input); err != nil {
		return nil, err
	}
	return &input, nil
}

// Update replaces the record keyed by id. Instrument and PnL are both
// required on edit; the PnL display form and win/loss flags are re-derived.
func (s *TradeService) Update(ctx context.Context, id uint64, input models.Trade) (*models.Trade, error) {
	input.Instrument = strings.TrimSpace(input.Instrument)
	if input.Instrument == "" || strings.TrimSpace(input.PnL) == "" {
		return nil, fmt.Errorf("%w: instrument and pnl are required", ErrValidation)
	}
	if _, err := s.findByID(ctx, id); err != nil {
		return nil, err
	}

	input.ID = id
	s.normalizePnL(&input)
	s.recomputeRisk(&input)

	if err := s.Store.Update(ctx, &input); err != nil {
		return nil, err
	}
	return &input, nil
}

func (s *TradeService) Delete(ctx context.Context, id uint64) error {
	return s.Store.Delete(ctx, id)
}

// EndTrade runs the only modeled transition, Active to Closed: stamps the
// end time, recomputes the holding time (wrapping past midnight), and clears
// the active flag. Closed is terminal.
func (s *TradeService) EndTrade(ctx context.Context, id uint64, endTime string) (*models.Trade, error) {
	endTime = strings.TrimSpace(endTime)
	if endTime == "" {
		return nil, fmt.Errorf("%w: end time is required", ErrValidation)
	}
	trade, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !trade.IsActive {
		return nil, fmt.Errorf("%w: trade is already closed", ErrValidation)
	}

	if minutes, ok := holdingMinutes(trade.StartTime, endTime); ok {
		trade.HoldingTimeMinutes = minutes
	}
	trade.EndTime = endTime
	trade.IsActive = false

	if err := s.Store.Update(ctx, trade); err != nil {
		return nil, err
	}
	return trade, nil
}

// ClearAll deletes every record, one delete per record, no transaction.
func (s *TradeService) ClearAll(ctx context.Context) error {
	return s.Store.ReplaceAll(ctx, nil)
}

// ResetToDefaults replaces the collection with the seed data set.
func (s *TradeService) ResetToDefaults(ctx context.Context) error {
	return s.Store.ReplaceAll(ctx, DefaultTrades())
}

func (s *TradeService) findByID(ctx context.Context, id uint64) (*models.Trade, error) {
	trade, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if trade == nil {
		return nil, fmt.Errorf("%w: trade %d", ErrNotFound, id)
	}
	return trade, nil
}

// normalizePnL rewrites a parseable PnL into its canonical display form and
// derives the win/loss flags from its sign. An unparseable value is kept
// verbatim with both flags off.
func (s *TradeService) normalizePnL(t *models.Trade) {
	v, ok := numeric.ParseMoney(t.PnL)
	if !ok {
		t.Win, t.Loss = "No", "No"
		if s.Logger != nil {
			s.Logger.Debug("pnl kept unparsed", zap.String("pnl", t.PnL))
		}
		return
	}
	t.PnL = numeric.FormatPnL(v, s.currency())
	t.Win = "No"
	t.Loss = "No"
	if v > 0 {
		t.Win = "Yes"
	}
	if v < 0 {
		t.Loss = "Yes"
	}
}

func (s *TradeService) recomputeRisk(t *models.Trade) {
	if t.StopLoss == "" && t.AccountBalance == "" {
		return
	}
	t.RiskPercent = numeric.RiskPercent(t.StopLoss, t.AccountBalance)
}

// holdingMinutes computes the elapsed minutes between two HH:MM stamps,
// adding 24h when the difference is negative (trade held past midnight).
func holdingMinutes(start, end string) (string, bool) {
	startMin, okStart := clockMinutes(start)
	endMin, okEnd := clockMinutes(end)
	if !okStart || !okEnd {
		return "", false
	}
	diff := endMin - startMin
	if diff < 0 {
		diff += 24 * 60
	}
	return strconv.Itoa(diff), true
}

func clockMinutes(clock string) (int, bool) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil {
		return 0, false
	}
	return h*60 + m, true
}
