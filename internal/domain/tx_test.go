package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAfterCommit(t *testing.T) {
	t.Run("runs immediately outside a transaction", func(t *testing.T) {
		ran := false
		AfterCommit(context.Background(), func(context.Context) { ran = true })
		assert.True(t, ran)
	})

	t.Run("defers until hooks run", func(t *testing.T) {
		ctx, hooks := WithTxHooks(context.Background())

		var order []int
		AfterCommit(ctx, func(context.Context) { order = append(order, 1) })
		AfterCommit(ctx, func(context.Context) { order = append(order, 2) })
		require.Empty(t, order)

		hooks.Run(ctx)
		assert.Equal(t, []int{1, 2}, order)

		hooks.Run(ctx)
		assert.Equal(t, []int{1, 2}, order, "hooks must only run once")
	})

	t.Run("hooks outlive a cancelled request", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		txCtx, hooks := WithTxHooks(ctx)

		var hookErr error
		AfterCommit(txCtx, func(ctx context.Context) { hookErr = ctx.Err() })

		cancel()
		hooks.Run(ctx)
		assert.NoError(t, hookErr)
	})

	t.Run("hooks registered while running execute immediately", func(t *testing.T) {
		ctx, hooks := WithTxHooks(context.Background())

		nested := false
		AfterCommit(ctx, func(ctx context.Context) {
			AfterCommit(ctx, func(context.Context) { nested = true })
		})

		hooks.Run(ctx)
		assert.True(t, nested)
	})
}

func TestTypedErrors(t *testing.T) {
	var err error = &SeatUnavailableError{SeatIDs: []int{3, 4}}
	assert.ErrorIs(t, err, ErrSeatUnavailable)
	assert.NotErrorIs(t, err, ErrInvalidRequest)

	err = &IllegalStateError{Current: BookingStatusFailed, Attempted: BookingStatusConfirmed}
	assert.ErrorIs(t, err, ErrIllegalBookingState)
	assert.EqualError(t, err, "cannot move booking from FAILED to CONFIRMED")
}
