// Package memstore keeps shows, seats, bookings and payments in process
// memory. It backs the development server and the component tests.
package memstore

import (
	"context"
	"sync"

	"github.com/metinatakli/cinex-booking/internal/domain"
)

type Store struct {
	Tx        *TxManager
	Shows     *Shows
	Inventory *Inventory
	Bookings  *Bookings
	Payments  *Payments
	Counter   *Counter
}

func New() *Store {
	return &Store{
		Tx:        &TxManager{},
		Shows:     NewShows(),
		Inventory: NewInventory(),
		Bookings:  NewBookings(),
		Payments:  NewPayments(),
		Counter:   NewCounter(),
	}
}

type txKey struct{}

// TxManager serialises transactions with a single mutex. Writes are applied
// in place, so callers undo their own partial work on failure.
type TxManager struct {
	mu sync.Mutex
}

func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	txCtx, hooks := domain.WithTxHooks(context.WithValue(ctx, txKey{}, true))
	if err := m.run(txCtx, fn); err != nil {
		return err
	}

	hooks.Run(ctx)
	return nil
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return fn(ctx)
}
