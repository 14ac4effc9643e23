package repositories

import (
	"context"
)

// TransactionManager runs fn inside a single database transaction carried by ctx.
// Repositories called with the ctx passed to fn join the transaction. A nested call
// joins the outer transaction instead of opening a new one.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Sequencer hands out monotonically increasing numbers per named sequence.
type Sequencer interface {
	Next(ctx context.Context, name string) (int64, error)
}
