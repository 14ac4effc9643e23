package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/logistics_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/logistics_ledger/internal/models"
	"github.com/SscSPs/logistics_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, code, name, account_type, normal_balance, subtype, description,
	currency_code, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for the chart of accounts.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.NormalBalance,
		&m.Subtype,
		&m.Description,
		&m.CurrencyCode,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m)
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.AccountID,
		m.Code,
		m.Name,
		m.AccountType,
		m.NormalBalance,
		m.Subtype,
		m.Description,
		m.CurrencyCode,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "account "+m.Code)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	account, err := scanAccount(r.db(ctx).QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, mapReadError(err, "account "+accountID)
	}
	return &account, nil
}

// FindAccountByCode retrieves an account by its chart code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`
	account, err := scanAccount(r.db(ctx).QueryRow(ctx, query, code))
	if err != nil {
		return nil, mapReadError(err, "account code "+code)
	}
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.db(ctx).Query(ctx, query, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts by IDs", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts[account.AccountID] = account
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return accounts, nil
}

// ListAccounts lists accounts ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	var conditions []string
	var args []any
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		conditions = append(conditions, "account_type = $"+strconv.Itoa(len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		conditions = append(conditions, "is_active = $"+strconv.Itoa(len(args)))
	}
	query := `SELECT ` + accountColumns + ` FROM accounts`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY code;"

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list accounts", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return accounts, nil
}

// CountJournalLines counts lines referencing the account.
func (r *PgxAccountRepository) CountJournalLines(ctx context.Context, accountID string, postedOnly bool) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1 AND ($2 = FALSE OR e.status = 'posted');
	`
	var count int
	if err := r.db(ctx).QueryRow(ctx, query, accountID, postedOnly).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count journal lines for account "+accountID, err)
	}
	return count, nil
}

// UpdateAccount rewrites the mutable columns of an account.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $2, account_type = $3, normal_balance = $4, subtype = $5, description = $6,
		    is_active = $7, last_updated_at = $8, last_updated_by = $9
		WHERE account_id = $1;
	`
	tag, err := r.db(ctx).Exec(ctx, query,
		m.AccountID,
		m.Name,
		m.AccountType,
		m.NormalBalance,
		m.Subtype,
		m.Description,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "account "+m.Code)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, m.AccountID)
	}
	return nil
}

// DeleteAccount removes an account. The journal_lines foreign key rejects referenced accounts.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		return mapWriteError(err, "account "+accountID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}
