package domain

import (
	"context"
	"sync"
)

// TxManager runs fn inside a storage transaction. Calls nested through the
// context passed to fn join the outer transaction.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txHooksKey struct{}

// TxHooks collects callbacks that must only run once the outermost
// transaction has committed.
type TxHooks struct {
	mu  sync.Mutex
	fns []func(context.Context)
}

func WithTxHooks(ctx context.Context) (context.Context, *TxHooks) {
	hooks := &TxHooks{}
	return context.WithValue(ctx, txHooksKey{}, hooks), hooks
}

// AfterCommit defers fn until the transaction carried by ctx commits. Outside
// a transaction fn runs immediately.
func AfterCommit(ctx context.Context, fn func(context.Context)) {
	hooks, ok := ctx.Value(txHooksKey{}).(*TxHooks)
	if !ok {
		fn(ctx)
		return
	}

	hooks.mu.Lock()
	hooks.fns = append(hooks.fns, fn)
	hooks.mu.Unlock()
}

func (h *TxHooks) Run(ctx context.Context) {
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	ctx = context.WithValue(ctx, txHooksKey{}, nil)

	for _, fn := range fns {
		fn(ctx)
	}
}
