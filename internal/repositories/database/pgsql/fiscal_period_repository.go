package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/logistics_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/logistics_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const periodColumns = `period_id, name, fiscal_year, start_date, end_date, status, closed_at, closed_by,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxFiscalPeriodRepository struct {
	BaseRepository
}

func newPgxFiscalPeriodRepository(pool *pgxpool.Pool) *PgxFiscalPeriodRepository {
	return &PgxFiscalPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FiscalPeriodRepositoryFacade = (*PgxFiscalPeriodRepository)(nil)

func scanPeriod(row pgx.Row) (domain.FiscalPeriod, error) {
	var p domain.FiscalPeriod
	var status string
	var closedBy *string
	err := row.Scan(
		&p.PeriodID,
		&p.Name,
		&p.FiscalYear,
		&p.StartDate,
		&p.EndDate,
		&status,
		&p.ClosedAt,
		&closedBy,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return domain.FiscalPeriod{}, err
	}
	if p.Status, err = domain.ParsePeriodStatus(status); err != nil {
		return domain.FiscalPeriod{}, err
	}
	p.ClosedBy = mapping.StringValue(closedBy)
	return p, nil
}

func (r *PgxFiscalPeriodRepository) collect(rows pgx.Rows) ([]domain.FiscalPeriod, error) {
	defer rows.Close()
	periods := []domain.FiscalPeriod{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal period row: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating fiscal period rows", err)
	}
	return periods, nil
}

func (r *PgxFiscalPeriodRepository) SavePeriod(ctx context.Context, p domain.FiscalPeriod) error {
	query := `
		INSERT INTO fiscal_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		p.PeriodID,
		p.Name,
		p.FiscalYear,
		domain.DateOnly(p.StartDate),
		domain.DateOnly(p.EndDate),
		string(p.Status),
		p.ClosedAt,
		mapping.NullableString(p.ClosedBy),
		p.CreatedAt,
		p.CreatedBy,
		p.LastUpdatedAt,
		p.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "fiscal period "+p.Name)
	}
	return nil
}

func (r *PgxFiscalPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE period_id = $1;`
	p, err := scanPeriod(r.db(ctx).QueryRow(ctx, query, periodID))
	if err != nil {
		return nil, mapReadError(err, "fiscal period "+periodID)
	}
	return &p, nil
}

func (r *PgxFiscalPeriodRepository) ListPeriods(ctx context.Context, fiscalYear *int) ([]domain.FiscalPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM fiscal_periods
		WHERE ($1::int IS NULL OR fiscal_year = $1)
		ORDER BY start_date;
	`
	rows, err := r.db(ctx).Query(ctx, query, fiscalYear)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list fiscal periods", err)
	}
	return r.collect(rows)
}

// FindPeriodsContaining share-locks the matching rows so a concurrent close waits for the caller's transaction.
func (r *PgxFiscalPeriodRepository) FindPeriodsContaining(ctx context.Context, date time.Time) ([]domain.FiscalPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM fiscal_periods
		WHERE start_date <= $1 AND end_date >= $1
		ORDER BY start_date
		FOR SHARE;
	`
	rows, err := r.db(ctx).Query(ctx, query, domain.DateOnly(date))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find fiscal periods containing date", err)
	}
	return r.collect(rows)
}

// TransitionPeriod changes status guarded by the expected current status. Closing stamps closed_at.
func (r *PgxFiscalPeriodRepository) TransitionPeriod(ctx context.Context, periodID string, from, to domain.PeriodStatus, by string, at time.Time) error {
	query := `
		UPDATE fiscal_periods
		SET status = $3,
		    closed_at = CASE WHEN $3 = 'closed' THEN $4 ELSE closed_at END,
		    closed_by = CASE WHEN $3 = 'closed' THEN $5 ELSE closed_by END,
		    last_updated_at = $4, last_updated_by = $5
		WHERE period_id = $1 AND status = $2;
	`
	tag, err := r.db(ctx).Exec(ctx, query, periodID, string(from), string(to), at, by)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of fiscal period "+periodID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: fiscal period %s is no longer %s", apperrors.ErrConflict, periodID, from)
	}
	return nil
}
