package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"trademaster/internal/models"
	"trademaster/internal/repository"
	"trademaster/internal/store"
)

const backupVersion = "1.0"

// BackupPayload is the import/export file format.
type BackupPayload struct {
	Trades     []models.Trade    `json:"trades"`
	Plan       []models.PlanItem `json:"plan"`
	ExportDate string            `json:"exportDate"`
	Version    string            `json:"version"`
}

// BackupService moves the whole data set through JSON files. Import is
// validated before anything destructive happens: the existing collection is
// only cleared once the payload's shape is confirmed.
type BackupService struct {
	Store  *store.Store
	Repo   repository.Repository
	Logger *zap.Logger
}

func (s *BackupService) Export(ctx context.Context) (*BackupPayload, error) {
	trades, err := s.Store.Trades(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := s.Repo.ListPlanItems(ctx)
	if err != nil {
		return nil, err
	}
	return &BackupPayload{
		Trades:     trades,
		Plan:       plan,
		ExportDate: time.Now().UTC().Format(time.RFC3339),
		Version:    backupVersion,
	}, nil
}

// Import replaces the trade collection (and the plan, when present) with the
// payload's contents. Imported trade ids are discarded; the store assigns new
// ones. The delete-then-add sequence is not transactional, so a mid-sequence
// failure leaves a mixed state; the error says how far it got.
func (s *BackupService) Import(ctx context.Context, raw []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return fmt.Errorf("%w: not a JSON object", ErrValidation)
	}
	tradesRaw, ok := probe["trades"]
	if !ok {
		return fmt.Errorf("%w: missing trades", ErrValidation)
	}
	var trades []models.Trade
	if err := json.Unmarshal(tradesRaw, &trades); err != nil {
		return fmt.Errorf("%w: trades must be an array of trade records", ErrValidation)
	}

	if err := s.Store.ReplaceAll(ctx, trades); err != nil {
		return err
	}

	if planRaw, ok := probe["plan"]; ok {
		var plan []models.PlanItem
		if err := json.Unmarshal(planRaw, &plan); err == nil {
			for i := range plan {
				plan[i].ID = 0
				plan[i].Ordinal = i
			}
			if err := s.Repo.ReplacePlanItems(ctx, plan); err != nil {
				s.warn("plan import failed", err)
			}
		}
	}
	return nil
}

func (s *BackupService) warn(msg string, err error) {
	if s.Logger != nil {
		s.Logger.Warn(msg, zap.Error(err))
	}
}
