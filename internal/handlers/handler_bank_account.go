package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/SscSPs/logistics_ledger/internal/core/ports/services"
	"github.com/SscSPs/logistics_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// bankAccountHandler handles HTTP requests related to bank accounts.
type bankAccountHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

func registerBankAccountRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade) {
	h := &bankAccountHandler{balanceService: balanceService}

	banks := rg.Group("/bank-accounts")
	{
		banks.POST("", h.createBankAccount)
		banks.GET("", h.listBankAccounts)
		banks.GET("/:id", h.getBankAccount)
		banks.GET("/:id/balance", h.getBankAccountBalance)
	}
}

// createBankAccount godoc
// @Summary Register a bank account
// @Tags bank accounts
// @Accept  json
// @Produce  json
// @Param   bankAccount body dto.CreateBankAccountRequest true "Bank account details"
// @Success 201 {object} domain.BankAccount
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /bank-accounts [post]
func (h *bankAccountHandler) createBankAccount(c *gin.Context) {
	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	bank, err := h.balanceService.CreateBankAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create bank account")
		return
	}
	c.JSON(http.StatusCreated, bank)
}

func (h *bankAccountHandler) listBankAccounts(c *gin.Context) {
	banks, err := h.balanceService.ListBankAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list bank accounts")
		return
	}
	c.JSON(http.StatusOK, banks)
}

func (h *bankAccountHandler) getBankAccount(c *gin.Context) {
	bank, err := h.balanceService.GetBankAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve bank account")
		return
	}
	c.JSON(http.StatusOK, bank)
}

// getBankAccountBalance godoc
// @Summary Get a bank account balance
// @Description Opening balance plus posted movements of the linked ledger account
// @Tags bank accounts
// @Produce  json
// @Param   id path string true "Bank account ID"
// @Param   asOf query string false "Balance date (YYYY-MM-DD)"
// @Success 200 {object} domain.BankAccountBalance
// @Failure 404 {object} map[string]string "Bank account not found"
// @Security BearerAuth
// @Router /bank-accounts/{id}/balance [get]
func (h *bankAccountHandler) getBankAccountBalance(c *gin.Context) {
	asOf, ok := dateQuery(c, "asOf", time.Now())
	if !ok {
		return
	}
	balance, err := h.balanceService.BankAccountBalance(c.Request.Context(), c.Param("id"), asOf)
	if err != nil {
		respondError(c, err, "Failed to compute bank account balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}
