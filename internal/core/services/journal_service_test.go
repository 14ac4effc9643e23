package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/logistics_ledger/internal/core/ports/services"
	"github.com/SscSPs/logistics_ledger/internal/core/services"
	"github.com/SscSPs/logistics_ledger/internal/dto"
)

type JournalServiceTestSuite struct {
	suite.Suite
	journalRepo *MockJournalRepository
	accountRepo *MockAccountRepository
	rateRepo    *MockExchangeRateRepository
	guard       *stubPeriodGuard
	tx          *fakeTxManager
	service     portssvc.JournalSvcFacade

	cash    domain.Account
	revenue domain.Account
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.journalRepo = new(MockJournalRepository)
	suite.accountRepo = new(MockAccountRepository)
	suite.rateRepo = new(MockExchangeRateRepository)
	suite.guard = &stubPeriodGuard{postable: true}
	suite.tx = &fakeTxManager{}

	converter := services.NewCurrencyService(suite.rateRepo, new(MockTaxRateRepository), "TZS")
	suite.service = services.NewJournalService(
		suite.journalRepo, suite.accountRepo, converter, suite.guard, newFakeSequencer(), suite.tx,
	)

	suite.cash = domain.Account{AccountID: uuid.NewString(), Code: "1000", Name: "Cash", AccountType: domain.Asset, NormalBalance: domain.DebitSide, IsActive: true}
	suite.revenue = domain.Account{AccountID: uuid.NewString(), Code: "4000", Name: "Freight revenue", AccountType: domain.Revenue, NormalBalance: domain.CreditSide, IsActive: true}
}

func (suite *JournalServiceTestSuite) accounts() map[string]domain.Account {
	return map[string]domain.Account{
		suite.cash.AccountID:    suite.cash,
		suite.revenue.AccountID: suite.revenue,
	}
}

func (suite *JournalServiceTestSuite) balancedRequest() dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		EntryDate:   date("2025-03-15"),
		Description: "Freight invoice",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cash.AccountID, Debit: d("100")},
			{AccountID: suite.revenue.AccountID, Credit: d("100")},
		},
	}
}

func draftEntry(lines ...domain.JournalLine) *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:     uuid.NewString(),
		EntryNumber: "JE-000042",
		EntryDate:   date("2025-03-15"),
		Description: "Draft",
		Status:      domain.EntryDraft,
		Lines:       lines,
	}
}

func baseLine(accountID string, debit, credit string) domain.JournalLine {
	return domain.JournalLine{
		AccountID:    accountID,
		Debit:        d(debit),
		Credit:       d(credit),
		CurrencyCode: "TZS",
		ExchangeRate: d("1"),
		DebitBase:    d(debit),
		CreditBase:   d(credit),
	}
}

func (suite *JournalServiceTestSuite) TestRecordEntry_BalancedEntryIsPosted() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.accountRepo.On("FindAccountsByIDs", mock.Anything, []string{suite.cash.AccountID, suite.revenue.AccountID}).
		Return(suite.accounts(), nil).Once()
	suite.journalRepo.On("SaveEntry", mock.Anything, mock.MatchedBy(func(e domain.JournalEntry) bool {
		return e.Status == domain.EntryDraft && e.EntryNumber == "JE-000001" && len(e.Lines) == 2
	})).Return(nil).Once()
	suite.journalRepo.On("TransitionEntry", mock.Anything, mock.MatchedBy(func(t domain.EntryTransition) bool {
		return t.From == domain.EntryDraft && t.To == domain.EntryPosted && t.By == userID
	})).Return(nil).Once()

	entry, err := suite.service.RecordEntry(ctx, suite.balancedRequest(), userID)

	suite.Require().NoError(err)
	suite.Equal(domain.EntryPosted, entry.Status)
	suite.Equal(userID, entry.PostedBy)
	suite.NotNil(entry.PostedAt)
	debit, credit := entry.BaseTotals()
	suite.True(debit.Equal(d("100")))
	suite.True(credit.Equal(d("100")))
	suite.Equal("TZS", entry.Lines[0].CurrencyCode)
	suite.Equal(1, entry.Lines[0].LineNumber)
	suite.Equal(2, entry.Lines[1].LineNumber)
	suite.journalRepo.AssertExpectations(suite.T())
	suite.accountRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_NumbersAreSequential() {
	ctx := context.Background()
	suite.accountRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).Return(suite.accounts(), nil)
	suite.journalRepo.On("SaveEntry", mock.Anything, mock.Anything).Return(nil)

	first, err := suite.service.CreateEntry(ctx, suite.balancedRequest(), "u1")
	suite.Require().NoError(err)
	second, err := suite.service.CreateEntry(ctx, suite.balancedRequest(), "u1")
	suite.Require().NoError(err)

	suite.Equal("JE-000001", first.EntryNumber)
	suite.Equal("JE-000002", second.EntryNumber)
	suite.Equal(domain.EntryDraft, second.Status)
	suite.Equal(2, suite.tx.calls)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_ConvertsForeignLinesAtEntryDate() {
	ctx := context.Background()
	suite.accountRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).Return(suite.accounts(), nil).Once()
	suite.rateRepo.On("FindLatestRate", mock.Anything, "USD", date("2025-03-15")).
		Return(&domain.ExchangeRate{CurrencyCode: "USD", RateToBase: d("2500.50")}, nil).Once()
	suite.journalRepo.On("SaveEntry", mock.Anything, mock.Anything).Return(nil).Once()

	req := suite.balancedRequest()
	req.Lines[0].CurrencyCode = "USD"
	req.Lines[1].CurrencyCode = "USD"
	req.Lines[0].Debit = d("10")
	req.Lines[1].Credit = d("10")

	entry, err := suite.service.CreateEntry(ctx, req, "u1")

	suite.Require().NoError(err)
	suite.True(entry.Lines[0].ExchangeRate.Equal(d("2500.50")))
	suite.True(entry.Lines[0].DebitBase.Equal(d("25005")), entry.Lines[0].DebitBase.String())
	suite.True(entry.Lines[1].CreditBase.Equal(d("25005")))
	suite.rateRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_MissingRate() {
	ctx := context.Background()
	suite.accountRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).Return(suite.accounts(), nil).Once()
	suite.rateRepo.On("FindLatestRate", mock.Anything, "EUR", mock.Anything).Return(nil, apperrors.ErrNotFound).Once()

	req := suite.balancedRequest()
	req.Lines[0].CurrencyCode = "EUR"

	_, err := suite.service.CreateEntry(ctx, req, "u1")

	suite.ErrorIs(err, apperrors.ErrMissingRate)
	suite.journalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_LineWithBothSidesRejected() {
	req := suite.balancedRequest()
	req.Lines[1].Debit = d("5")

	_, err := suite.service.CreateEntry(context.Background(), req, "u1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "line 2")
	suite.accountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_AmountFinerThanCurrencyRejected() {
	req := suite.balancedRequest()
	req.Lines[0].Debit = d("100.005")
	req.Lines[1].Credit = d("100.005")

	_, err := suite.service.CreateEntry(context.Background(), req, "u1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "more than 2 decimal places for TZS")
	suite.accountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything)
	suite.journalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_InactiveAccountRejected() {
	accounts := suite.accounts()
	inactive := suite.revenue
	inactive.IsActive = false
	accounts[inactive.AccountID] = inactive
	suite.accountRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).Return(accounts, nil).Once()

	_, err := suite.service.CreateEntry(context.Background(), suite.balancedRequest(), "u1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "inactive account 4000")
}

func (suite *JournalServiceTestSuite) TestPostEntry_Unbalanced() {
	entry := draftEntry(baseLine(suite.cash.AccountID, "100", "0"), baseLine(suite.revenue.AccountID, "0", "90"))
	suite.journalRepo.On("FindEntryByIDForUpdate", mock.Anything, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.PostEntry(context.Background(), entry.EntryID, "u1")

	suite.ErrorIs(err, apperrors.ErrUnbalanced)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "difference 10")
	suite.journalRepo.AssertNotCalled(suite.T(), "TransitionEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_SingleLineRejected() {
	entry := draftEntry(baseLine(suite.cash.AccountID, "100", "0"))
	suite.journalRepo.On("FindEntryByIDForUpdate", mock.Anything, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.PostEntry(context.Background(), entry.EntryID, "u1")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestPostEntry_AlreadyPosted() {
	entry := draftEntry(baseLine(suite.cash.AccountID, "100", "0"), baseLine(suite.revenue.AccountID, "0", "100"))
	entry.Status = domain.EntryPosted
	suite.journalRepo.On("FindEntryByIDForUpdate", mock.Anything, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.PostEntry(context.Background(), entry.EntryID, "u1")

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "already posted")
}

func (suite *JournalServiceTestSuite) TestPostEntry_ClosedPeriod() {
	suite.guard.postable = false
	entry := draftEntry(baseLine(suite.cash.AccountID, "100", "0"), baseLine(suite.revenue.AccountID, "0", "100"))
	suite.journalRepo.On("FindEntryByIDForUpdate", mock.Anything, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.PostEntry(context.Background(), entry.EntryID, "u1")

	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	suite.journalRepo.AssertNotCalled(suite.T(), "TransitionEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_LostRaceIsConflict() {
	entry := draftEntry(baseLine(suite.cash.AccountID, "100", "0"), baseLine(suite.revenue.AccountID, "0", "100"))
	suite.journalRepo.On("FindEntryByIDForUpdate", mock.Anything, entry.EntryID).Return(entry, nil).Once()
	suite.journalRepo.On("TransitionEntry", mock.Anything, mock.Anything).Return(apperrors.ErrConflict).Once()

	_, err := suite.service.PostEntry(context.Background(), entry.EntryID, "u1")

	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *JournalServiceTestSuite) TestPostEntry_ChecksAndTransitionShareLockedTx() {
	suite.tx.mark = true
	entry := draftEntry(baseLine(suite.cash.AccountID, "100", "0"), baseLine(suite.revenue.AccountID, "0", "100"))
	suite.journalRepo.On("FindEntryByIDForUpdate", inTx(), entry.EntryID).Return(entry, nil).Once()
	suite.journalRepo.On("TransitionEntry", inTx(), mock.MatchedBy(func(t domain.EntryTransition) bool {
		return t.From == domain.EntryDraft && t.To == domain.EntryPosted
	})).Return(nil).Once()

	posted, err := suite.service.PostEntry(context.Background(), entry.EntryID, "u1")

	suite.Require().NoError(err)
	suite.Equal(domain.EntryPosted, posted.Status)
	suite.Equal(1, suite.tx.calls)
	suite.journalRepo.AssertNotCalled(suite.T(), "FindEntryByID", mock.Anything, mock.Anything)
	suite.journalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestVoidEntry_ReadsLockedRowInTx() {
	suite.tx.mark = true
	entry := draftEntry(baseLine(suite.cash.AccountID, "100", "0"), baseLine(suite.revenue.AccountID, "0", "100"))
	entry.Status = domain.EntryPosted
	suite.journalRepo.On("FindEntryByIDForUpdate", inTx(), entry.EntryID).Return(entry, nil).Once()
	suite.journalRepo.On("TransitionEntry", inTx(), mock.Anything).Return(nil).Once()

	_, err := suite.service.VoidEntry(context.Background(), entry.EntryID, "wrong shipper", "u1")

	suite.Require().NoError(err)
	suite.Equal(1, suite.tx.calls)
	suite.journalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestVoidEntry_Posted() {
	entry := draftEntry(baseLine(suite.cash.AccountID, "100", "0"), baseLine(suite.revenue.AccountID, "0", "100"))
	entry.Status = domain.EntryPosted
	suite.journalRepo.On("FindEntryByIDForUpdate", mock.Anything, entry.EntryID).Return(entry, nil).Once()
	suite.journalRepo.On("TransitionEntry", mock.Anything, mock.MatchedBy(func(t domain.EntryTransition) bool {
		return t.From == domain.EntryPosted && t.To == domain.EntryVoided && t.Reason == "duplicate invoice"
	})).Return(nil).Once()

	voided, err := suite.service.VoidEntry(context.Background(), entry.EntryID, " duplicate invoice ", "u2")

	suite.Require().NoError(err)
	suite.Equal(domain.EntryVoided, voided.Status)
	suite.Equal("duplicate invoice", voided.VoidReason)
	suite.Equal("u2", voided.VoidedBy)
	suite.Len(voided.Lines, 2)
	suite.journalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestVoidEntry_DraftIsConflict() {
	entry := draftEntry()
	suite.journalRepo.On("FindEntryByIDForUpdate", mock.Anything, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.VoidEntry(context.Background(), entry.EntryID, "typo", "u1")

	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *JournalServiceTestSuite) TestVoidEntry_ReasonRequired() {
	_, err := suite.service.VoidEntry(context.Background(), uuid.NewString(), "  ", "u1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.journalRepo.AssertNotCalled(suite.T(), "FindEntryByIDForUpdate", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestUpdateEntry_PostedRejected() {
	entry := draftEntry()
	entry.Status = domain.EntryPosted
	suite.journalRepo.On("FindEntryByIDForUpdate", mock.Anything, entry.EntryID).Return(entry, nil).Once()

	description := "changed"
	_, err := suite.service.UpdateEntry(context.Background(), entry.EntryID, dto.UpdateEntryRequest{Description: &description}, "u1")

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.journalRepo.AssertNotCalled(suite.T(), "UpdateDraftEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestUpdateEntry_ReplacesLines() {
	entry := draftEntry(baseLine(suite.cash.AccountID, "100", "0"))
	suite.journalRepo.On("FindEntryByIDForUpdate", mock.Anything, entry.EntryID).Return(entry, nil).Once()
	suite.accountRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).Return(suite.accounts(), nil).Once()
	suite.journalRepo.On("UpdateDraftEntry", mock.Anything, mock.MatchedBy(func(e domain.JournalEntry) bool {
		return len(e.Lines) == 2 && e.Lines[1].CreditBase.Equal(d("75"))
	})).Return(nil).Once()

	updated, err := suite.service.UpdateEntry(context.Background(), entry.EntryID, dto.UpdateEntryRequest{
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cash.AccountID, Debit: d("75")},
			{AccountID: suite.revenue.AccountID, Credit: d("75")},
		},
	}, "u1")

	suite.Require().NoError(err)
	suite.Len(updated.Lines, 2)
	suite.Equal(1, suite.tx.calls)
	suite.journalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestDeleteEntry_OnlyDrafts() {
	draft := draftEntry()
	posted := draftEntry()
	posted.Status = domain.EntryPosted
	suite.journalRepo.On("FindEntryByID", mock.Anything, draft.EntryID).Return(draft, nil).Once()
	suite.journalRepo.On("FindEntryByID", mock.Anything, posted.EntryID).Return(posted, nil).Once()
	suite.journalRepo.On("DeleteDraftEntry", mock.Anything, draft.EntryID).Return(nil).Once()

	suite.NoError(suite.service.DeleteEntry(context.Background(), draft.EntryID, "u1"))
	suite.ErrorIs(suite.service.DeleteEntry(context.Background(), posted.EntryID, "u1"), apperrors.ErrConflict)
	suite.journalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestRecordApprovedExpense() {
	expenseID := uuid.NewString()
	suite.journalRepo.On("FindEntryByReference", mock.Anything, domain.RefExpense, expenseID).Return(nil, apperrors.ErrNotFound).Once()
	suite.accountRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).Return(suite.accounts(), nil).Once()
	suite.journalRepo.On("SaveEntry", mock.Anything, mock.MatchedBy(func(e domain.JournalEntry) bool {
		return e.ReferenceType == domain.RefExpense && e.ReferenceID == expenseID &&
			e.Lines[0].Debit.Equal(d("45000")) && e.Lines[1].Credit.Equal(d("45000"))
	})).Return(nil).Once()
	suite.journalRepo.On("TransitionEntry", mock.Anything, mock.Anything).Return(nil).Once()

	entry, err := suite.service.RecordApprovedExpense(context.Background(), dto.RecordExpenseRequest{
		ExpenseID:        expenseID,
		ExpenseDate:      date("2025-03-20"),
		Category:         "Fuel",
		Amount:           d("45000"),
		ExpenseAccountID: suite.cash.AccountID,
		FundingAccountID: suite.revenue.AccountID,
	}, "u1")

	suite.Require().NoError(err)
	suite.Equal("Expense: Fuel", entry.Description)
	suite.Equal(domain.EntryPosted, entry.Status)
	suite.journalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestRecordApprovedExpense_RecordedOnlyOnce() {
	expenseID := uuid.NewString()
	suite.journalRepo.On("FindEntryByReference", mock.Anything, domain.RefExpense, expenseID).
		Return(&domain.JournalEntry{EntryNumber: "JE-000007"}, nil).Once()

	_, err := suite.service.RecordApprovedExpense(context.Background(), dto.RecordExpenseRequest{
		ExpenseID: expenseID, ExpenseDate: date("2025-03-20"), Category: "Fuel", Amount: d("1"),
		ExpenseAccountID: suite.cash.AccountID, FundingAccountID: suite.revenue.AccountID,
	}, "u1")

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Contains(err.Error(), "JE-000007")
}

func (suite *JournalServiceTestSuite) TestListEntries_DefaultsAndFilters() {
	status := domain.EntryPosted
	suite.journalRepo.On("ListEntries", mock.Anything, domain.JournalFilter{Status: &status}, 20, (*string)(nil)).
		Return(nil, nil, nil).Once()

	resp, err := suite.service.ListEntries(context.Background(), dto.ListEntriesParams{Status: "posted"})

	suite.Require().NoError(err)
	suite.NotNil(resp.Entries)
	suite.Empty(resp.Entries)
	suite.Nil(resp.NextToken)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
