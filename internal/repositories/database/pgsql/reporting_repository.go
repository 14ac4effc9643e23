package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/logistics_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ledgerReader aggregates posted journal lines for balances and reports.
type ledgerReader struct {
	BaseRepository
}

// newLedgerReader creates a new ledger reader
func newLedgerReader(db *pgxpool.Pool) portsrepo.LedgerReader {
	return &ledgerReader{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.LedgerReader = (*ledgerReader)(nil)

// SumPostedLines returns base currency turnover per account within the filter's date range.
func (r *ledgerReader) SumPostedLines(ctx context.Context, filter domain.LineSumFilter) ([]domain.AccountTurnover, error) {
	query := `
		SELECT
			l.account_id,
			COALESCE(SUM(l.debit_base), 0) AS total_debit,
			COALESCE(SUM(l.credit_base), 0) AS total_credit
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.status = 'posted'
	`
	var args []any
	if len(filter.AccountIDs) > 0 {
		args = append(args, filter.AccountIDs)
		query += " AND l.account_id = ANY($" + strconv.Itoa(len(args)) + ")"
	}
	if filter.From != nil {
		args = append(args, domain.DateOnly(*filter.From))
		query += " AND e.entry_date >= $" + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, domain.DateOnly(*filter.To))
		query += " AND e.entry_date <= $" + strconv.Itoa(len(args))
	}
	query += " GROUP BY l.account_id ORDER BY l.account_id;"

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying posted line totals: %w", err)
	}
	defer rows.Close()

	result := []domain.AccountTurnover{}
	for rows.Next() {
		var t domain.AccountTurnover
		if err := rows.Scan(&t.AccountID, &t.Debit, &t.Credit); err != nil {
			return nil, fmt.Errorf("error scanning posted line totals: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posted line totals: %w", err)
	}
	return result, nil
}

// SumPostedLinesByCurrency returns one account's turnover up to asOf grouped by line currency.
func (r *ledgerReader) SumPostedLinesByCurrency(ctx context.Context, accountID string, asOf time.Time) ([]domain.CurrencyTurnover, error) {
	query := `
		SELECT
			l.currency_code,
			COALESCE(SUM(l.debit), 0),
			COALESCE(SUM(l.credit), 0),
			COALESCE(SUM(l.debit_base), 0),
			COALESCE(SUM(l.credit_base), 0)
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.status = 'posted' AND l.account_id = $1 AND e.entry_date <= $2
		GROUP BY l.currency_code
		ORDER BY l.currency_code;
	`
	rows, err := r.db(ctx).Query(ctx, query, accountID, domain.DateOnly(asOf))
	if err != nil {
		return nil, fmt.Errorf("error querying currency totals for account %s: %w", accountID, err)
	}
	defer rows.Close()

	result := []domain.CurrencyTurnover{}
	for rows.Next() {
		var t domain.CurrencyTurnover
		if err := rows.Scan(&t.CurrencyCode, &t.Debit, &t.Credit, &t.DebitBase, &t.CreditBase); err != nil {
			return nil, fmt.Errorf("error scanning currency totals: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currency totals: %w", err)
	}
	return result, nil
}
