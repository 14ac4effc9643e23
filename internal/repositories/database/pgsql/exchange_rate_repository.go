package pgsql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/logistics_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/logistics_ledger/internal/models"
	"github.com/SscSPs/logistics_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxExchangeRateRepository stores the base currency rate table.
type PgxExchangeRateRepository struct {
	BaseRepository
}

func newPgxExchangeRateRepository(pool *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

func scanExchangeRate(row pgx.Row) (domain.ExchangeRate, error) {
	var m models.ExchangeRate
	err := row.Scan(
		&m.ExchangeRateID,
		&m.CurrencyCode,
		&m.RateToBase,
		&m.DateEffective,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.ExchangeRate{}, err
	}
	return mapping.ToDomainExchangeRate(m), nil
}

// SaveExchangeRate inserts a rate. A second rate for the same currency and day replaces the first.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	m := mapping.ToModelExchangeRate(rate)
	m.CurrencyCode = strings.ToUpper(m.CurrencyCode)
	query := `
		INSERT INTO exchange_rates (
			exchange_rate_id, currency_code, rate_to_base, date_effective,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (currency_code, date_effective) DO UPDATE
		SET rate_to_base = EXCLUDED.rate_to_base,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.ExchangeRateID,
		m.CurrencyCode,
		m.RateToBase,
		m.DateEffective,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "exchange rate for "+m.CurrencyCode)
	}
	return nil
}

// FindLatestRate returns the most recent rate effective on or before asOf.
func (r *PgxExchangeRateRepository) FindLatestRate(ctx context.Context, currencyCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT exchange_rate_id, currency_code, rate_to_base, date_effective,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM exchange_rates
		WHERE currency_code = $1 AND date_effective <= $2
		ORDER BY date_effective DESC
		LIMIT 1;
	`
	rate, err := scanExchangeRate(r.db(ctx).QueryRow(ctx, query, strings.ToUpper(currencyCode), domain.DateOnly(asOf)))
	if err != nil {
		return nil, mapReadError(err, "exchange rate for "+currencyCode)
	}
	return &rate, nil
}

// ListExchangeRates lists rates newest first; an empty code lists every currency.
func (r *PgxExchangeRateRepository) ListExchangeRates(ctx context.Context, currencyCode string) ([]domain.ExchangeRate, error) {
	query := `
		SELECT exchange_rate_id, currency_code, rate_to_base, date_effective,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM exchange_rates
		WHERE ($1 = '' OR currency_code = $1)
		ORDER BY currency_code, date_effective DESC;
	`
	rows, err := r.db(ctx).Query(ctx, query, currencyCode)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list exchange rates", err)
	}
	defer rows.Close()

	rates := []domain.ExchangeRate{}
	for rows.Next() {
		rate, err := scanExchangeRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate row: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating exchange rate rows", err)
	}
	return rates, nil
}

// PgxTaxRateRepository stores tax rates used by the income statement.
type PgxTaxRateRepository struct {
	BaseRepository
}

func newPgxTaxRateRepository(pool *pgxpool.Pool) *PgxTaxRateRepository {
	return &PgxTaxRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TaxRateRepositoryFacade = (*PgxTaxRateRepository)(nil)

func scanTaxRate(row pgx.Row) (domain.TaxRate, error) {
	var m models.TaxRate
	if err := row.Scan(&m.TaxRateID, &m.Name, &m.Rate, &m.IsActive, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
		return domain.TaxRate{}, err
	}
	return mapping.ToDomainTaxRate(m), nil
}

func (r *PgxTaxRateRepository) SaveTaxRate(ctx context.Context, rate domain.TaxRate) error {
	m := mapping.ToModelTaxRate(rate)
	query := `
		INSERT INTO tax_rates (tax_rate_id, name, rate, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.db(ctx).Exec(ctx, query, m.TaxRateID, m.Name, m.Rate, m.IsActive, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return mapWriteError(err, "tax rate "+m.Name)
	}
	return nil
}

func (r *PgxTaxRateRepository) FindTaxRateByID(ctx context.Context, taxRateID string) (*domain.TaxRate, error) {
	query := `
		SELECT tax_rate_id, name, rate, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM tax_rates WHERE tax_rate_id = $1;
	`
	rate, err := scanTaxRate(r.db(ctx).QueryRow(ctx, query, taxRateID))
	if err != nil {
		return nil, mapReadError(err, "tax rate "+taxRateID)
	}
	return &rate, nil
}

func (r *PgxTaxRateRepository) ListTaxRates(ctx context.Context, activeOnly bool) ([]domain.TaxRate, error) {
	query := `
		SELECT tax_rate_id, name, rate, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM tax_rates
		WHERE ($1 = FALSE OR is_active)
		ORDER BY name;
	`
	rows, err := r.db(ctx).Query(ctx, query, activeOnly)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list tax rates", err)
	}
	defer rows.Close()

	rates := []domain.TaxRate{}
	for rows.Next() {
		rate, err := scanTaxRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax rate row: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating tax rate rows", err)
	}
	return rates, nil
}
