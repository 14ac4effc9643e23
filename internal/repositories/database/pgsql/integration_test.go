//go:build integration

package pgsql

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/logistics_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/logistics_ledger/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RepositoryIntegrationSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	repos     *portsrepo.RepositoryProvider
}

func (s *RepositoryIntegrationSuite) SetupSuite() {
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	s.Require().NoError(err, "Failed to start PostgreSQL container")
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	migrationsDir, err := filepath.Abs("../../../../migrations")
	s.Require().NoError(err)
	applied, err := database.RunMigrations(dsn, "file://"+migrationsDir)
	s.Require().NoError(err)
	s.Require().True(applied)

	s.pool, err = database.NewPgxPool(ctx, dsn, true)
	s.Require().NoError(err)
	s.repos = NewRepositoryProvider(s.pool)
}

func (s *RepositoryIntegrationSuite) TearDownSuite() {
	if s.pool != nil {
		database.ClosePgxPool(s.pool)
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *RepositoryIntegrationSuite) newAccount(code string, t domain.AccountType) domain.Account {
	account := domain.Account{
		AccountID:     uuid.NewString(),
		Code:          code,
		Name:          "Account " + code,
		AccountType:   t,
		NormalBalance: t.NormalBalance(),
		CurrencyCode:  "KES",
		IsActive:      true,
		AuditFields:   domain.NewAuditFields("tester", time.Now().UTC()),
	}
	s.Require().NoError(s.repos.AccountRepo.SaveAccount(context.Background(), account))
	return account
}

func (s *RepositoryIntegrationSuite) newEntry(number string, date time.Time, debitAccount, creditAccount string, amount int64) domain.JournalEntry {
	entryID := uuid.NewString()
	amt := decimal.NewFromInt(amount)
	line := func(n int, accountID string, debit, credit decimal.Decimal) domain.JournalLine {
		return domain.JournalLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			LineNumber:   n,
			AccountID:    accountID,
			Debit:        debit,
			Credit:       credit,
			CurrencyCode: "KES",
			ExchangeRate: decimal.NewFromInt(1),
			DebitBase:    debit,
			CreditBase:   credit,
		}
	}
	entry := domain.JournalEntry{
		EntryID:     entryID,
		EntryNumber: number,
		EntryDate:   domain.DateOnly(date),
		Description: "integration entry " + number,
		Status:      domain.EntryDraft,
		Lines: []domain.JournalLine{
			line(1, debitAccount, amt, decimal.Zero),
			line(2, creditAccount, decimal.Zero, amt),
		},
		AuditFields: domain.NewAuditFields("tester", time.Now().UTC()),
	}
	s.Require().NoError(s.repos.JournalRepo.SaveEntry(context.Background(), entry))
	return entry
}

func (s *RepositoryIntegrationSuite) TestDuplicateAccountCode() {
	s.newAccount("9100", domain.Asset)
	dup := domain.Account{
		AccountID:     uuid.NewString(),
		Code:          "9100",
		Name:          "Duplicate",
		AccountType:   domain.Asset,
		NormalBalance: domain.DebitSide,
		CurrencyCode:  "KES",
		IsActive:      true,
		AuditFields:   domain.NewAuditFields("tester", time.Now().UTC()),
	}
	err := s.repos.AccountRepo.SaveAccount(context.Background(), dup)
	s.True(errors.Is(err, apperrors.ErrDuplicate), "got %v", err)
}

func (s *RepositoryIntegrationSuite) TestPostedLinesFeedTurnover() {
	ctx := context.Background()
	cash := s.newAccount("9200", domain.Asset)
	revenue := s.newAccount("9201", domain.Revenue)
	day := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	posted := s.newEntry("IT-0001", day, cash.AccountID, revenue.AccountID, 1500)
	s.newEntry("IT-0002", day, cash.AccountID, revenue.AccountID, 700) // stays draft

	found, err := s.repos.JournalRepo.FindEntryByID(ctx, posted.EntryID)
	s.Require().NoError(err)
	s.Len(found.Lines, 2)
	s.Equal(1, found.Lines[0].LineNumber)

	s.Require().NoError(s.repos.JournalRepo.TransitionEntry(ctx, domain.EntryTransition{
		EntryID: posted.EntryID, From: domain.EntryDraft, To: domain.EntryPosted, At: time.Now().UTC(), By: "tester",
	}))

	rows, err := s.repos.LedgerReader.SumPostedLines(ctx, domain.LineSumFilter{AccountIDs: []string{cash.AccountID, revenue.AccountID}})
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	byAccount := map[string]domain.AccountTurnover{}
	for _, r := range rows {
		byAccount[r.AccountID] = r
	}
	s.True(decimal.NewFromInt(1500).Equal(byAccount[cash.AccountID].Debit))
	s.True(decimal.NewFromInt(1500).Equal(byAccount[revenue.AccountID].Credit))

	before := day.AddDate(0, 0, -1)
	rows, err = s.repos.LedgerReader.SumPostedLines(ctx, domain.LineSumFilter{AccountIDs: []string{cash.AccountID}, To: &before})
	s.Require().NoError(err)
	s.Empty(rows)
}

func (s *RepositoryIntegrationSuite) TestTransitionIsGuardedByStatus() {
	ctx := context.Background()
	a := s.newAccount("9300", domain.Asset)
	b := s.newAccount("9301", domain.Liability)
	entry := s.newEntry("IT-0003", time.Now(), a.AccountID, b.AccountID, 10)

	move := domain.EntryTransition{EntryID: entry.EntryID, From: domain.EntryDraft, To: domain.EntryPosted, At: time.Now().UTC(), By: "tester"}
	s.Require().NoError(s.repos.JournalRepo.TransitionEntry(ctx, move))

	err := s.repos.JournalRepo.TransitionEntry(ctx, move)
	s.True(errors.Is(err, apperrors.ErrConflict), "got %v", err)

	err = s.repos.JournalRepo.DeleteDraftEntry(ctx, entry.EntryID)
	s.Error(err)
}

func (s *RepositoryIntegrationSuite) TestAccountReferencedByLinesCannotBeDeleted() {
	ctx := context.Background()
	a := s.newAccount("9400", domain.Expense)
	b := s.newAccount("9401", domain.Asset)
	s.newEntry("IT-0004", time.Now(), a.AccountID, b.AccountID, 42)

	count, err := s.repos.AccountRepo.CountJournalLines(ctx, a.AccountID, false)
	s.Require().NoError(err)
	s.Equal(1, count)

	err = s.repos.AccountRepo.DeleteAccount(ctx, a.AccountID)
	s.True(errors.Is(err, apperrors.ErrReferentialBlock), "got %v", err)
}

func (s *RepositoryIntegrationSuite) TestWithinTxRollsBack() {
	ctx := context.Background()
	accountID := uuid.NewString()
	boom := errors.New("boom")

	err := s.repos.TxManager.WithinTx(ctx, func(txCtx context.Context) error {
		account := domain.Account{
			AccountID:     accountID,
			Code:          "9500",
			Name:          "Rolled back",
			AccountType:   domain.Asset,
			NormalBalance: domain.DebitSide,
			CurrencyCode:  "KES",
			IsActive:      true,
			AuditFields:   domain.NewAuditFields("tester", time.Now().UTC()),
		}
		if err := s.repos.AccountRepo.SaveAccount(txCtx, account); err != nil {
			return err
		}
		// visible inside the transaction
		if _, err := s.repos.AccountRepo.FindAccountByID(txCtx, accountID); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = s.repos.AccountRepo.FindAccountByID(ctx, accountID)
	s.True(errors.Is(err, apperrors.ErrNotFound), "got %v", err)
}

func (s *RepositoryIntegrationSuite) TestSequencerIsMonotonic() {
	ctx := context.Background()
	first, err := s.repos.Sequencer.Next(ctx, "it-sequence")
	s.Require().NoError(err)
	second, err := s.repos.Sequencer.Next(ctx, "it-sequence")
	s.Require().NoError(err)
	s.Equal(int64(1), first)
	s.Equal(int64(2), second)
}

func (s *RepositoryIntegrationSuite) TestLatestExchangeRateOnOrBefore() {
	ctx := context.Background()
	save := func(day int, rate string) {
		s.Require().NoError(s.repos.ExchangeRateRepo.SaveExchangeRate(ctx, domain.ExchangeRate{
			RateID:        uuid.NewString(),
			CurrencyCode:  "UGX",
			RateToBase:    decimal.RequireFromString(rate),
			EffectiveDate: time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC),
			AuditFields:   domain.NewAuditFields("tester", time.Now().UTC()),
		}))
	}
	save(1, "0.0350")
	save(15, "0.0360")

	rate, err := s.repos.ExchangeRateRepo.FindLatestRate(ctx, "UGX", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("0.0350").Equal(rate.RateToBase))

	_, err = s.repos.ExchangeRateRepo.FindLatestRate(ctx, "UGX", time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC))
	s.True(errors.Is(err, apperrors.ErrNotFound), "got %v", err)
}

func TestRepositoryIntegration(t *testing.T) {
	suite.Run(t, new(RepositoryIntegrationSuite))
}

func (s *RepositoryIntegrationSuite) TestOverlappingPeriodsRejectedByDatabase() {
	ctx := context.Background()
	period := func(name string, startDay, endDay int) domain.FiscalPeriod {
		return domain.FiscalPeriod{
			PeriodID:    uuid.NewString(),
			Name:        name,
			FiscalYear:  2031,
			StartDate:   time.Date(2031, 1, startDay, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2031, 1, endDay, 0, 0, 0, 0, time.UTC),
			Status:      domain.PeriodOpen,
			AuditFields: domain.NewAuditFields("tester", time.Now().UTC()),
		}
	}
	s.Require().NoError(s.repos.FiscalPeriodRepo.SavePeriod(ctx, period("Jan A", 1, 15)))

	// shares the 15th with Jan A
	err := s.repos.FiscalPeriodRepo.SavePeriod(ctx, period("Jan B", 15, 31))
	s.True(errors.Is(err, apperrors.ErrValidation), "got %v", err)

	s.NoError(s.repos.FiscalPeriodRepo.SavePeriod(ctx, period("Jan C", 16, 31)))
}

func (s *RepositoryIntegrationSuite) TestLockedEntryReadSerializesPosting() {
	ctx := context.Background()
	a := s.newAccount("9600", domain.Asset)
	b := s.newAccount("9601", domain.Revenue)
	entry := s.newEntry("IT-0006", time.Now(), a.AccountID, b.AccountID, 25)

	post := func() error {
		return s.repos.TxManager.WithinTx(ctx, func(txCtx context.Context) error {
			locked, err := s.repos.JournalRepo.FindEntryByIDForUpdate(txCtx, entry.EntryID)
			if err != nil {
				return err
			}
			if locked.Status != domain.EntryDraft {
				return apperrors.ErrConflict
			}
			return s.repos.JournalRepo.TransitionEntry(txCtx, domain.EntryTransition{
				EntryID: entry.EntryID, From: domain.EntryDraft, To: domain.EntryPosted, At: time.Now().UTC(), By: "tester",
			})
		})
	}

	results := make(chan error, 2)
	for range 2 {
		go func() { results <- post() }()
	}
	first, second := <-results, <-results

	succeeded := 0
	for _, err := range []error{first, second} {
		if err == nil {
			succeeded++
		} else {
			s.True(errors.Is(err, apperrors.ErrConflict), "got %v", err)
		}
	}
	s.Equal(1, succeeded)
}
