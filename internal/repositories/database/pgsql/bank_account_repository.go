package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/logistics_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/logistics_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bankAccountColumns = `bank_account_id, name, bank_name, account_number, currency_code, opening_balance,
	ledger_account_id, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxBankAccountRepository struct {
	BaseRepository
}

func newPgxBankAccountRepository(pool *pgxpool.Pool) *PgxBankAccountRepository {
	return &PgxBankAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BankAccountRepositoryFacade = (*PgxBankAccountRepository)(nil)

func scanBankAccount(row pgx.Row) (domain.BankAccount, error) {
	var b domain.BankAccount
	var bankName, ledgerID *string
	err := row.Scan(
		&b.BankAccountID,
		&b.Name,
		&bankName,
		&b.AccountNumber,
		&b.CurrencyCode,
		&b.OpeningBalance,
		&ledgerID,
		&b.IsActive,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
	if err != nil {
		return domain.BankAccount{}, err
	}
	b.BankName = mapping.StringValue(bankName)
	b.LedgerAccountID = mapping.StringValue(ledgerID)
	return b, nil
}

func (r *PgxBankAccountRepository) SaveBankAccount(ctx context.Context, b domain.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (` + bankAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		b.BankAccountID,
		b.Name,
		mapping.NullableString(b.BankName),
		b.AccountNumber,
		b.CurrencyCode,
		b.OpeningBalance,
		mapping.NullableString(b.LedgerAccountID),
		b.IsActive,
		b.CreatedAt,
		b.CreatedBy,
		b.LastUpdatedAt,
		b.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "bank account "+b.AccountNumber)
	}
	return nil
}

func (r *PgxBankAccountRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE bank_account_id = $1;`
	b, err := scanBankAccount(r.db(ctx).QueryRow(ctx, query, bankAccountID))
	if err != nil {
		return nil, mapReadError(err, "bank account "+bankAccountID)
	}
	return &b, nil
}

// FindBankAccountByIDForUpdate takes a row lock; callers must run inside WithinTx.
func (r *PgxBankAccountRepository) FindBankAccountByIDForUpdate(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE bank_account_id = $1 FOR UPDATE;`
	b, err := scanBankAccount(r.db(ctx).QueryRow(ctx, query, bankAccountID))
	if err != nil {
		return nil, mapReadError(err, "bank account "+bankAccountID)
	}
	return &b, nil
}

func (r *PgxBankAccountRepository) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+bankAccountColumns+` FROM bank_accounts ORDER BY name;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list bank accounts", err)
	}
	defer rows.Close()

	accounts := []domain.BankAccount{}
	for rows.Next() {
		b, err := scanBankAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank account row: %w", err)
		}
		accounts = append(accounts, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating bank account rows", err)
	}
	return accounts, nil
}
