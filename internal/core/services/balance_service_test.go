package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/logistics_ledger/internal/core/ports/services"
	"github.com/SscSPs/logistics_ledger/internal/core/services"
	"github.com/SscSPs/logistics_ledger/internal/dto"
)

type BalanceServiceTestSuite struct {
	suite.Suite
	accountRepo *MockAccountRepository
	bankRepo    *MockBankAccountRepository
	ledger      *MockLedgerReader
	rateRepo    *MockExchangeRateRepository
	service     portssvc.BalanceSvcFacade
}

func (suite *BalanceServiceTestSuite) SetupTest() {
	suite.accountRepo = new(MockAccountRepository)
	suite.bankRepo = new(MockBankAccountRepository)
	suite.ledger = new(MockLedgerReader)
	suite.rateRepo = new(MockExchangeRateRepository)
	converter := services.NewCurrencyService(suite.rateRepo, new(MockTaxRateRepository), "TZS")
	suite.service = services.NewBalanceService(suite.accountRepo, suite.bankRepo, suite.ledger, converter)
}

func (suite *BalanceServiceTestSuite) TestAccountBalance_FollowsNormalSide() {
	ctx := context.Background()
	asOf := date("2025-03-31")
	cash := &domain.Account{AccountID: "cash", NormalBalance: domain.DebitSide}
	revenue := &domain.Account{AccountID: "rev", NormalBalance: domain.CreditSide}
	suite.accountRepo.On("FindAccountByID", ctx, "cash").Return(cash, nil).Once()
	suite.accountRepo.On("FindAccountByID", ctx, "rev").Return(revenue, nil).Once()
	suite.ledger.On("SumPostedLines", ctx, domain.LineSumFilter{AccountIDs: []string{"cash"}, To: &asOf}).
		Return([]domain.AccountTurnover{{AccountID: "cash", Debit: d("100"), Credit: d("0")}}, nil).Once()
	suite.ledger.On("SumPostedLines", ctx, domain.LineSumFilter{AccountIDs: []string{"rev"}, To: &asOf}).
		Return([]domain.AccountTurnover{{AccountID: "rev", Debit: d("0"), Credit: d("100")}}, nil).Once()

	cashBalance, err := suite.service.AccountBalance(ctx, "cash", asOf)
	suite.Require().NoError(err)
	revenueBalance, err := suite.service.AccountBalance(ctx, "rev", asOf)
	suite.Require().NoError(err)

	suite.Equal("100", cashBalance.Balance.String())
	suite.Equal("100", revenueBalance.Balance.String())
	suite.Nil(cashBalance.From)
	suite.ledger.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestAccountBalance_NoActivityIsZero() {
	ctx := context.Background()
	suite.accountRepo.On("FindAccountByID", ctx, "idle").Return(&domain.Account{AccountID: "idle", NormalBalance: domain.DebitSide}, nil).Once()
	suite.ledger.On("SumPostedLines", ctx, mock.Anything).Return([]domain.AccountTurnover{}, nil).Once()

	balance, err := suite.service.AccountBalance(ctx, "idle", date("2025-03-31"))

	suite.Require().NoError(err)
	suite.True(balance.Balance.IsZero())
}

func (suite *BalanceServiceTestSuite) TestAccountBalanceForRange() {
	ctx := context.Background()
	from, to := date("2025-03-01"), date("2025-03-31")
	suite.accountRepo.On("FindAccountByID", ctx, "cash").Return(&domain.Account{AccountID: "cash", NormalBalance: domain.DebitSide}, nil).Once()
	suite.ledger.On("SumPostedLines", ctx, domain.LineSumFilter{AccountIDs: []string{"cash"}, From: &from, To: &to}).
		Return([]domain.AccountTurnover{{AccountID: "cash", Debit: d("250"), Credit: d("400")}}, nil).Once()

	balance, err := suite.service.AccountBalanceForRange(ctx, "cash", from, to)

	suite.Require().NoError(err)
	suite.Equal("-150", balance.Balance.String())
	suite.Require().NotNil(balance.From)

	_, err = suite.service.AccountBalanceForRange(ctx, "cash", to, from)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BalanceServiceTestSuite) TestBankAccountBalance_OpeningPlusPostedLines() {
	ctx := context.Background()
	asOf := date("2025-03-31")
	bank := &domain.BankAccount{BankAccountID: "b1", CurrencyCode: "TZS", OpeningBalance: d("1000"), LedgerAccountID: "cash"}
	suite.bankRepo.On("FindBankAccountByID", ctx, "b1").Return(bank, nil).Once()
	suite.ledger.On("SumPostedLinesByCurrency", ctx, "cash", asOf).Return([]domain.CurrencyTurnover{
		{CurrencyCode: "TZS", Debit: d("500"), Credit: d("0"), DebitBase: d("500"), CreditBase: d("0")},
	}, nil).Once()

	balance, err := suite.service.BankAccountBalance(ctx, "b1", asOf)

	suite.Require().NoError(err)
	suite.Equal("1500", balance.Balance.String())
	suite.Equal(asOf, balance.AsOf)
}

func (suite *BalanceServiceTestSuite) TestBankAccountBalance_ConvertsOtherCurrencyLines() {
	ctx := context.Background()
	asOf := date("2025-03-31")
	bank := &domain.BankAccount{BankAccountID: "usd", CurrencyCode: "USD", OpeningBalance: d("100"), LedgerAccountID: "usd-cash"}
	suite.bankRepo.On("FindBankAccountByID", ctx, "usd").Return(bank, nil).Once()
	suite.ledger.On("SumPostedLinesByCurrency", ctx, "usd-cash", asOf).Return([]domain.CurrencyTurnover{
		{CurrencyCode: "USD", Debit: d("40"), Credit: d("10"), DebitBase: d("100000"), CreditBase: d("25000")},
		{CurrencyCode: "TZS", Debit: d("0"), Credit: d("50000"), DebitBase: d("0"), CreditBase: d("50000")},
	}, nil).Once()
	suite.rateRepo.On("FindLatestRate", ctx, "USD", asOf).
		Return(&domain.ExchangeRate{CurrencyCode: "USD", RateToBase: d("2500")}, nil).Once()

	balance, err := suite.service.BankAccountBalance(ctx, "usd", asOf)

	suite.Require().NoError(err)
	// 100 + (40 - 10) - 50000/2500
	suite.Equal("110", balance.Balance.String())
}

func (suite *BalanceServiceTestSuite) TestBankAccountBalance_UnlinkedIsOpening() {
	ctx := context.Background()
	suite.bankRepo.On("FindBankAccountByID", ctx, "b2").
		Return(&domain.BankAccount{BankAccountID: "b2", CurrencyCode: "TZS", OpeningBalance: d("750")}, nil).Once()

	balance, err := suite.service.BankAccountBalance(ctx, "b2", date("2025-03-31"))

	suite.Require().NoError(err)
	suite.Equal("750", balance.Balance.String())
	suite.ledger.AssertNotCalled(suite.T(), "SumPostedLinesByCurrency", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BalanceServiceTestSuite) TestCreateBankAccount_RequiresAssetLedgerAccount() {
	ctx := context.Background()
	suite.accountRepo.On("FindAccountByID", ctx, "rev").
		Return(&domain.Account{AccountID: "rev", Code: "4000", AccountType: domain.Revenue}, nil).Once()

	_, err := suite.service.CreateBankAccount(ctx, dto.CreateBankAccountRequest{
		Name: "Main", BankName: "CRDB", AccountNumber: "0150", LedgerAccountID: "rev",
	}, "u1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.bankRepo.AssertNotCalled(suite.T(), "SaveBankAccount", mock.Anything, mock.Anything)
}

func (suite *BalanceServiceTestSuite) TestCreateBankAccount_DefaultsToBaseCurrency() {
	ctx := context.Background()
	suite.accountRepo.On("FindAccountByID", ctx, "cash").
		Return(&domain.Account{AccountID: "cash", AccountType: domain.Asset}, nil).Once()
	suite.bankRepo.On("SaveBankAccount", ctx, mock.AnythingOfType("domain.BankAccount")).Return(nil).Once()

	bank, err := suite.service.CreateBankAccount(ctx, dto.CreateBankAccountRequest{
		Name: "Main", BankName: "CRDB", AccountNumber: "0150", OpeningBalance: d("1000"), LedgerAccountID: "cash",
	}, "u1")

	suite.Require().NoError(err)
	suite.Equal("TZS", bank.CurrencyCode)
	suite.True(bank.IsActive)
	suite.bankRepo.AssertExpectations(suite.T())
}

func TestBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}
