package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/logistics_ledger/internal/core/ports/services"
	"github.com/SscSPs/logistics_ledger/internal/core/services"
	"github.com/SscSPs/logistics_ledger/internal/dto"
)

type CurrencyServiceTestSuite struct {
	suite.Suite
	rateRepo *MockExchangeRateRepository
	taxRepo  *MockTaxRateRepository
	service  portssvc.CurrencySvcFacade
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.rateRepo = new(MockExchangeRateRepository)
	suite.taxRepo = new(MockTaxRateRepository)
	suite.service = services.NewCurrencyService(suite.rateRepo, suite.taxRepo, "usd")
}

func (suite *CurrencyServiceTestSuite) TestBaseCurrencyIsIdentity() {
	ctx := context.Background()
	suite.Equal("USD", suite.service.BaseCurrency())

	rate, err := suite.service.Rate(ctx, "USD", date("2025-01-01"))
	suite.Require().NoError(err)
	suite.True(rate.Equal(d("1")))

	amount, err := suite.service.FromBase(ctx, d("12.345"), "", date("2025-01-01"))
	suite.Require().NoError(err)
	suite.True(amount.Equal(d("12.345")))
	suite.rateRepo.AssertNotCalled(suite.T(), "FindLatestRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CurrencyServiceTestSuite) TestToBaseRoundsToBaseScale() {
	ctx := context.Background()
	suite.rateRepo.On("FindLatestRate", ctx, "EUR", date("2025-02-01")).
		Return(&domain.ExchangeRate{CurrencyCode: "EUR", RateToBase: d("1.0837")}, nil).Once()

	amount, err := suite.service.ToBase(ctx, d("10.25"), "eur", date("2025-02-01"))

	suite.Require().NoError(err)
	// 10.25 * 1.0837 = 11.107925
	suite.Equal("11.11", amount.String())
}

func (suite *CurrencyServiceTestSuite) TestFromBaseUsesTargetScale() {
	ctx := context.Background()
	suite.rateRepo.On("FindLatestRate", ctx, "JPY", mock.Anything).
		Return(&domain.ExchangeRate{CurrencyCode: "JPY", RateToBase: d("0.0067")}, nil).Once()

	amount, err := suite.service.FromBase(ctx, d("100"), "JPY", date("2025-02-01"))

	suite.Require().NoError(err)
	suite.Equal(int32(0), suite.service.Scale("JPY"))
	suite.Equal("14925", amount.String())
}

func (suite *CurrencyServiceTestSuite) TestMissingRate() {
	ctx := context.Background()
	suite.rateRepo.On("FindLatestRate", ctx, "KES", mock.Anything).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Rate(ctx, "KES", date("2025-02-01"))

	suite.ErrorIs(err, apperrors.ErrMissingRate)
	suite.Contains(err.Error(), "KES")
	suite.Contains(err.Error(), "2025-02-01")
}

func (suite *CurrencyServiceTestSuite) TestRepositoryFailureIsNotMissingRate() {
	ctx := context.Background()
	suite.rateRepo.On("FindLatestRate", ctx, "KES", mock.Anything).Return(nil, errors.New("connection reset")).Once()

	_, err := suite.service.Rate(ctx, "KES", date("2025-02-01"))

	suite.Error(err)
	suite.NotErrorIs(err, apperrors.ErrMissingRate)
}

func (suite *CurrencyServiceTestSuite) TestCreateExchangeRate() {
	ctx := context.Background()
	suite.rateRepo.On("SaveExchangeRate", ctx, mock.MatchedBy(func(r domain.ExchangeRate) bool {
		return r.CurrencyCode == "EUR" && r.EffectiveDate.Equal(date("2025-03-01"))
	})).Return(nil).Once()

	rate, err := suite.service.CreateExchangeRate(ctx, dto.CreateExchangeRateRequest{
		CurrencyCode:  "eur",
		RateToBase:    d("1.08"),
		EffectiveDate: date("2025-03-01").Add(15 * time.Hour),
	}, "u1")

	suite.Require().NoError(err)
	suite.Equal("EUR", rate.CurrencyCode)
	suite.rateRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestCreateExchangeRate_Rejections() {
	ctx := context.Background()
	cases := []dto.CreateExchangeRateRequest{
		{CurrencyCode: "USD", RateToBase: d("1")},
		{CurrencyCode: "XYZ", RateToBase: d("1")},
		{CurrencyCode: "EUR", RateToBase: d("0")},
	}
	for _, req := range cases {
		_, err := suite.service.CreateExchangeRate(ctx, req, "u1")
		suite.ErrorIs(err, apperrors.ErrValidation, req.CurrencyCode)
	}
	suite.rateRepo.AssertNotCalled(suite.T(), "SaveExchangeRate", mock.Anything, mock.Anything)
}

func (suite *CurrencyServiceTestSuite) TestCreateTaxRate() {
	ctx := context.Background()
	suite.taxRepo.On("SaveTaxRate", ctx, mock.Anything).Return(nil).Once()

	rate, err := suite.service.CreateTaxRate(ctx, dto.CreateTaxRateRequest{Name: "Corporate", Rate: d("30")}, "u1")
	suite.Require().NoError(err)
	suite.True(rate.IsActive)

	_, err = suite.service.CreateTaxRate(ctx, dto.CreateTaxRateRequest{Name: "Too much", Rate: d("101")}, "u1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestCurrencyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
