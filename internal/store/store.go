// Package store is the write path for the trade collection plus the
// subscription surface consumers observe it through. Every mutation goes
// through here so each write is followed by a push of the full,
// date-descending collection to every subscriber.
package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"trademaster/internal/models"
	"trademaster/internal/repository"
)

// Callback receives the complete trade list after every change, including the
// snapshot delivered on registration.
type Callback func(trades []models.Trade)

type Store struct {
	repo   repository.Repository
	logger *zap.Logger

	mu     sync.Mutex
	nextID int
	subs   map[int]Callback

	// deliverMu serializes each snapshot read with its delivery. Without it a
	// slow writer could read the collection early and push that stale snapshot
	// after a later writer's push, leaving subscribers behind until the next
	// change. Callbacks run under this lock and must not call back into the
	// store's write path.
	deliverMu sync.Mutex
}

func New(repo repository.Repository, logger *zap.Logger) *Store {
	return &Store{
		repo:   repo,
		logger: logger,
		subs:   map[int]Callback{},
	}
}

// Subscribe registers a callback and immediately delivers the current
// collection. The returned function unsubscribes; it is safe to call more
// than once.
func (s *Store) Subscribe(ctx context.Context, fn Callback) func() {
	if s == nil || fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	s.deliverMu.Lock()
	if trades, err := s.snapshot(ctx); err == nil {
		fn(trades)
	} else {
		s.warn("initial snapshot failed", err)
	}
	s.deliverMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Add inserts the record (id assigned by the store) and notifies subscribers.
func (s *Store) Add(ctx context.Context, item *models.Trade) error {
	if err := s.repo.InsertTrade(ctx, item); err != nil {
		return err
	}
	s.notify(ctx)
	return nil
}

// Update replaces the record keyed by its id and notifies subscribers.
func (s *Store) Update(ctx context.Context, item *models.Trade) error {
	if err := s.repo.UpdateTrade(ctx, item); err != nil {
		return err
	}
	s.notify(ctx)
	return nil
}

// Delete removes the record and notifies subscribers.
func (s *Store) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.DeleteTrade(ctx, id); err != nil {
		return err
	}
	s.notify(ctx)
	return nil
}

// ReplaceAll deletes every existing record and adds each replacement in turn.
// The sequence is intentionally not transactional: a failure part-way leaves
// the collection mixed, and already-issued writes are not rolled back. The
// error reports where the sequence stopped. Subscribers are notified once at
// the end either way.
func (s *Store) ReplaceAll(ctx context.Context, replacements []models.Trade) error {
	defer s.notify(ctx)

	existing, err := s.repo.ListAllTradesByDateDesc(ctx)
	if err != nil {
		return err
	}
	for _, t := range existing {
		if err := s.repo.DeleteTrade(ctx, t.ID); err != nil {
			return err
		}
	}
	for i := range replacements {
		item := replacements[i]
		item.ID = 0 // imported ids are discarded; the store assigns new ones
		if err := s.repo.InsertTrade(ctx, &item); err != nil {
			return err
		}
	}
	return nil
}

// Get fetches one record by id; nil when it does not exist.
func (s *Store) Get(ctx context.Context, id uint64) (*models.Trade, error) {
	return s.repo.GetTradeByID(ctx, id)
}

// Trades returns the current full collection in canonical order.
func (s *Store) Trades(ctx context.Context) ([]models.Trade, error) {
	return s.snapshot(ctx)
}

func (s *Store) snapshot(ctx context.Context) ([]models.Trade, error) {
	return s.repo.ListAllTradesByDateDesc(ctx)
}

func (s *Store) notify(ctx context.Context) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	trades, err := s.snapshot(ctx)
	if err != nil {
		s.warn("snapshot for notify failed", err)
		return
	}
	s.mu.Lock()
	callbacks := make([]Callback, 0, len(s.subs))
	for _, fn := range s.subs {
		callbacks = append(callbacks, fn)
	}
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(trades)
	}
}

func (s *Store) warn(msg string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, zap.Error(err))
	}
}
