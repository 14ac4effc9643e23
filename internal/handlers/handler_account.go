package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/logistics_ledger/internal/core/ports/services"
	"github.com/SscSPs/logistics_ledger/internal/dto"
	"github.com/SscSPs/logistics_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	balanceService portssvc.BalanceSvc
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, bs portssvc.BalanceSvc) *accountHandler {
	return &accountHandler{
		accountService: as,
		balanceService: bs,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, balanceService portssvc.BalanceSvc) {
	h := newAccountHandler(accountService, balanceService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.PUT("/:id", h.updateAccount)
		accounts.DELETE("/:id", h.deleteAccount)
		accounts.GET("/:id/balance", h.getAccountBalance)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Adds an account to the chart of accounts. The normal balance follows from the type.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Account code already used"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}

	logger.Info("Received request to create account", slog.String("code", req.Code), slog.String("account_type", req.AccountType))
	account, err := h.accountService.CreateAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists the chart of accounts ordered by code
// @Tags accounts
// @Produce  json
// @Param   type query string false "Account type"
// @Param   active query bool false "Only active or inactive accounts"
// @Success 200 {array} dto.AccountResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// updateAccount godoc
// @Summary Update an account
// @Description Changes name, subtype, description, active flag or, before any posting, the type
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID to update"
// @Param   account body dto.UpdateAccountRequest true "Account details to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 423 {object} map[string]string "Type change blocked by posted lines"
// @Security BearerAuth
// @Router /accounts/{id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	account, err := h.accountService.UpdateAccount(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Removes an account that no journal line references
// @Tags accounts
// @Param   id path string true "Account ID to delete"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 423 {object} map[string]string "Account referenced by journal lines"
// @Security BearerAuth
// @Router /accounts/{id} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	if err := h.accountService.DeleteAccount(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err, "Failed to delete account")
		return
	}
	c.Status(http.StatusNoContent)
}

// getAccountBalance godoc
// @Summary Get account balance
// @Description Balance from posted lines, signed by the normal balance. With from the balance covers from..to only.
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Param asOf query string false "Balance date (YYYY-MM-DD)" default(current date)
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Success 200 {object} domain.AccountBalance
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	asOf, ok := dateQuery(c, "asOf", time.Now())
	if !ok {
		return
	}
	accountID := c.Param("id")
	if c.Query("from") == "" {
		balance, err := h.balanceService.AccountBalance(c.Request.Context(), accountID, asOf)
		if err != nil {
			respondError(c, err, "Failed to calculate balance")
			return
		}
		c.JSON(http.StatusOK, balance)
		return
	}

	from, ok := dateQuery(c, "from", time.Time{})
	if !ok {
		return
	}
	balance, err := h.balanceService.AccountBalanceForRange(c.Request.Context(), accountID, from, asOf)
	if err != nil {
		respondError(c, err, "Failed to calculate balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}
