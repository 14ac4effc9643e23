package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/logistics_ledger/internal/core/ports/services"
	"github.com/SscSPs/logistics_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/income-statement", h.getIncomeStatement)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
	}
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Generates a trial balance report as of a specific date
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.TrialBalanceReport
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	asOf, ok := dateQuery(c, "asOf", time.Now())
	if !ok {
		return
	}

	logger.Info("Generating trial balance", slog.String("as_of", asOf.Format(time.DateOnly)))
	report, err := h.reportingService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err, "Failed to generate trial balance")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getIncomeStatement godoc
// @Summary Generate income statement
// @Description Revenue and expense totals for a date range, optionally taxed at a stored tax rate
// @Tags reports
// @Produce json
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Param taxRateID query string false "Tax rate applied to positive net income"
// @Success 200 {object} domain.IncomeStatement
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Tax rate not found"
// @Security BearerAuth
// @Router /reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if c.Query("from") == "" || c.Query("to") == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both from and to dates are required"})
		return
	}
	from, ok := dateQuery(c, "from", time.Time{})
	if !ok {
		return
	}
	to, ok := dateQuery(c, "to", time.Time{})
	if !ok {
		return
	}
	if to.Before(from) {
		logger.Warn("Income statement range is inverted", slog.Time("from", from), slog.Time("to", to))
		c.JSON(http.StatusBadRequest, gin.H{"error": "to date must not be before from date"})
		return
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), from, to, c.Query("taxRateID"))
	if err != nil {
		respondError(c, err, "Failed to generate income statement")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getBalanceSheet godoc
// @Summary Generate balance sheet
// @Description Assets against liabilities and equity, with retained earnings folded into equity
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.BalanceSheet
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	asOf, ok := dateQuery(c, "asOf", time.Now())
	if !ok {
		return
	}
	report, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err, "Failed to generate balance sheet")
		return
	}
	c.JSON(http.StatusOK, report)
}
