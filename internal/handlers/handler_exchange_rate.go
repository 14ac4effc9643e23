package handlers

import (
	"net/http"
	"strings"
	"time"

	portssvc "github.com/SscSPs/logistics_ledger/internal/core/ports/services"
	"github.com/SscSPs/logistics_ledger/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// exchangeRateHandler handles HTTP requests related to exchange and tax rates.
type exchangeRateHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(cs portssvc.CurrencySvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{
		currencyService: cs,
	}
}

// registerExchangeRateRoutes registers routes related to exchange and tax rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	h := newExchangeRateHandler(currencyService)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.POST("", h.createExchangeRate)
		exchangeRates.GET("", h.listExchangeRates)
		exchangeRates.GET("/convert", h.convertToBase)
	}

	taxRates := rg.Group("/tax-rates")
	{
		taxRates.POST("", h.createTaxRate)
		taxRates.GET("", h.listTaxRates)
		taxRates.GET("/:id", h.getTaxRate)
	}
}

// createExchangeRate godoc
// @Summary Create a new exchange rate
// @Description Records how many base currency units one unit of a currency is worth from a date on
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateExchangeRateRequest true "Exchange Rate details"
// @Success 201 {object} domain.ExchangeRate
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create exchange rate"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	rate, err := h.currencyService.CreateExchangeRate(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create exchange rate")
		return
	}
	c.JSON(http.StatusCreated, rate)
}

// listExchangeRates godoc
// @Summary List exchange rates
// @Tags exchange rates
// @Produce  json
// @Param   currency query string false "Currency code"
// @Success 200 {array} domain.ExchangeRate
// @Security BearerAuth
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) listExchangeRates(c *gin.Context) {
	rates, err := h.currencyService.ListExchangeRates(c.Request.Context(), c.Query("currency"))
	if err != nil {
		respondError(c, err, "Failed to list exchange rates")
		return
	}
	c.JSON(http.StatusOK, rates)
}

// convertToBase godoc
// @Summary Convert an amount into the base currency
// @Tags exchange rates
// @Produce  json
// @Param   amount query string true "Amount"
// @Param   currency query string true "Currency code"
// @Param   date query string false "Rate date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "No rate for the currency"
// @Security BearerAuth
// @Router /exchange-rates/convert [get]
func (h *exchangeRateHandler) convertToBase(c *gin.Context) {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a decimal number"})
		return
	}
	date, ok := dateQuery(c, "date", time.Now())
	if !ok {
		return
	}
	currency := strings.ToUpper(c.Query("currency"))
	converted, err := h.currencyService.ToBase(c.Request.Context(), amount, currency, date)
	if err != nil {
		respondError(c, err, "Failed to convert amount")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"amount":       amount.String(),
		"currencyCode": currency,
		"baseAmount":   converted.String(),
		"baseCurrency": h.currencyService.BaseCurrency(),
	})
}

// createTaxRate godoc
// @Summary Create a tax rate
// @Tags tax rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateTaxRateRequest true "Tax rate in percent"
// @Success 201 {object} domain.TaxRate
// @Security BearerAuth
// @Router /tax-rates [post]
func (h *exchangeRateHandler) createTaxRate(c *gin.Context) {
	var req dto.CreateTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	rate, err := h.currencyService.CreateTaxRate(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create tax rate")
		return
	}
	c.JSON(http.StatusCreated, rate)
}

func (h *exchangeRateHandler) listTaxRates(c *gin.Context) {
	rates, err := h.currencyService.ListTaxRates(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		respondError(c, err, "Failed to list tax rates")
		return
	}
	c.JSON(http.StatusOK, rates)
}

func (h *exchangeRateHandler) getTaxRate(c *gin.Context) {
	rate, err := h.currencyService.GetTaxRate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve tax rate")
		return
	}
	c.JSON(http.StatusOK, rate)
}
