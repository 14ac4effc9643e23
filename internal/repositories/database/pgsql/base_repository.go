package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/logistics_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgExclusionViolation  = "23P01"
)

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type txKey struct{}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// db returns the transaction carried by ctx, or the pool when there is none.
func (r *BaseRepository) db(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// mapWriteError translates constraint violations into application errors.
func mapWriteError(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s already exists (%s)", apperrors.ErrDuplicate, what, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s references a missing or protected record (%s)", apperrors.ErrReferentialBlock, what, pgErr.ConstraintName)
		case pgExclusionViolation:
			return fmt.Errorf("%w: %s overlaps an existing record (%s)", apperrors.ErrValidation, what, pgErr.ConstraintName)
		}
	}
	return apperrors.NewAppError(500, "failed to write "+what, err)
}

// mapReadError turns pgx.ErrNoRows into apperrors.ErrNotFound.
func mapReadError(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, what)
	}
	return apperrors.NewAppError(500, "failed to read "+what, err)
}

// PgxTxManager runs units of work inside one pgx transaction.
type PgxTxManager struct {
	BaseRepository
}

func newPgxTxManager(pool *pgxpool.Pool) *PgxTxManager {
	return &PgxTxManager{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionManager = (*PgxTxManager)(nil)

// WithinTx commits when fn returns nil and rolls back otherwise. A ctx that already
// carries a transaction is passed through unchanged.
func (m *PgxTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}
	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}
	defer m.Rollback(ctx, tx) //nolint:errcheck

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	return m.Commit(ctx, tx)
}

// PgxSequencer hands out numbers from the sequences table.
type PgxSequencer struct {
	BaseRepository
}

func newPgxSequencer(pool *pgxpool.Pool) *PgxSequencer {
	return &PgxSequencer{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.Sequencer = (*PgxSequencer)(nil)

// Next increments the named counter. The row lock is held until the surrounding transaction ends,
// so two concurrent callers never receive the same value.
func (s *PgxSequencer) Next(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO sequences (name, last_value) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET last_value = sequences.last_value + 1
		RETURNING last_value;
	`
	var next int64
	if err := s.db(ctx).QueryRow(ctx, query, name).Scan(&next); err != nil {
		return 0, apperrors.NewAppError(500, "failed to advance sequence "+name, err)
	}
	return next, nil
}
