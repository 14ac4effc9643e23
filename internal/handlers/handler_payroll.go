package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/logistics_ledger/internal/core/ports/services"
	"github.com/SscSPs/logistics_ledger/internal/dto"
	"github.com/SscSPs/logistics_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// payrollHandler handles salaries, advances and payroll runs.
type payrollHandler struct {
	payrollService portssvc.PayrollSvcFacade
}

func newPayrollHandler(ps portssvc.PayrollSvcFacade) *payrollHandler {
	return &payrollHandler{payrollService: ps}
}

func registerPayrollRoutes(rg *gin.RouterGroup, payrollService portssvc.PayrollSvcFacade) {
	h := newPayrollHandler(payrollService)

	payroll := rg.Group("/payroll")
	{
		payroll.POST("/salaries", h.createSalary)
		payroll.GET("/salaries", h.listSalaries)

		payroll.POST("/advances", h.createAdvance)
		payroll.GET("/advances", h.listAdvances)
		payroll.POST("/advances/:id/approve", h.approveAdvance)

		payroll.POST("/runs", h.createRun)
		payroll.GET("/runs", h.listRuns)
		payroll.GET("/runs/:id", h.getRun)
		payroll.GET("/runs/:id/items", h.listItems)
		payroll.POST("/runs/:id/generate", h.generateItems)
		payroll.POST("/runs/:id/process", h.processRun)
	}
}

// createSalary godoc
// @Summary Set an employee salary
// @Description Replaces the employee's active salary
// @Tags payroll
// @Accept  json
// @Produce  json
// @Param   salary body dto.CreateSalaryRequest true "Salary configuration"
// @Success 201 {object} domain.EmployeeSalary
// @Security BearerAuth
// @Router /payroll/salaries [post]
func (h *payrollHandler) createSalary(c *gin.Context) {
	var req dto.CreateSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	salary, err := h.payrollService.CreateSalary(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create salary")
		return
	}
	c.JSON(http.StatusCreated, salary)
}

func (h *payrollHandler) listSalaries(c *gin.Context) {
	salaries, err := h.payrollService.ListActiveSalaries(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list salaries")
		return
	}
	c.JSON(http.StatusOK, salaries)
}

func (h *payrollHandler) createAdvance(c *gin.Context) {
	var req dto.CreateAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	advance, err := h.payrollService.CreateAdvance(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create salary advance")
		return
	}
	c.JSON(http.StatusCreated, advance)
}

// listAdvances godoc
// @Summary List salary advances
// @Tags payroll
// @Produce  json
// @Param   employeeID query string false "Employee filter"
// @Param   status query string false "pending, approved or deducted"
// @Success 200 {array} domain.SalaryAdvance
// @Security BearerAuth
// @Router /payroll/advances [get]
func (h *payrollHandler) listAdvances(c *gin.Context) {
	advances, err := h.payrollService.ListAdvances(c.Request.Context(), c.Query("employeeID"), c.Query("status"))
	if err != nil {
		respondError(c, err, "Failed to list salary advances")
		return
	}
	c.JSON(http.StatusOK, advances)
}

// approveAdvance godoc
// @Summary Approve a salary advance
// @Description When a bank account is given the payout is posted to the ledger
// @Tags payroll
// @Accept  json
// @Produce  json
// @Param   id path string true "Advance ID"
// @Param   body body dto.ApproveAdvanceRequest false "Paying bank account"
// @Success 200 {object} domain.SalaryAdvance
// @Failure 409 {object} map[string]string "Advance is not pending"
// @Security BearerAuth
// @Router /payroll/advances/{id}/approve [post]
func (h *payrollHandler) approveAdvance(c *gin.Context) {
	var req dto.ApproveAdvanceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	advance, err := h.payrollService.ApproveAdvance(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to approve salary advance")
		return
	}
	c.JSON(http.StatusOK, advance)
}

func (h *payrollHandler) createRun(c *gin.Context) {
	var req dto.CreatePayrollRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	run, err := h.payrollService.CreateRun(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create payroll run")
		return
	}
	c.JSON(http.StatusCreated, run)
}

func (h *payrollHandler) listRuns(c *gin.Context) {
	var year *int
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a number"})
			return
		}
		year = &y
	}
	runs, err := h.payrollService.ListRuns(c.Request.Context(), year)
	if err != nil {
		respondError(c, err, "Failed to list payroll runs")
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (h *payrollHandler) getRun(c *gin.Context) {
	run, err := h.payrollService.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve payroll run")
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *payrollHandler) listItems(c *gin.Context) {
	items, err := h.payrollService.ListItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to list payroll items")
		return
	}
	c.JSON(http.StatusOK, items)
}

// generateItems godoc
// @Summary Generate payslips for a draft run
// @Description Computes one item per active salary and consumes approved advances
// @Tags payroll
// @Produce  json
// @Param   id path string true "Run ID"
// @Success 200 {object} domain.PayrollRun
// @Failure 409 {object} map[string]string "Run is not a draft"
// @Security BearerAuth
// @Router /payroll/runs/{id}/generate [post]
func (h *payrollHandler) generateItems(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	run, err := h.payrollService.GenerateItems(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to generate payroll items")
		return
	}
	c.JSON(http.StatusOK, run)
}

// processRun godoc
// @Summary Pay a generated run
// @Description Posts the payroll journal entry and marks the run paid
// @Tags payroll
// @Accept  json
// @Produce  json
// @Param   id path string true "Run ID"
// @Param   body body dto.ProcessPayrollRunRequest true "Paying bank account"
// @Success 200 {object} domain.PayrollRun
// @Failure 409 {object} map[string]string "Run is not generated"
// @Security BearerAuth
// @Router /payroll/runs/{id}/process [post]
func (h *payrollHandler) processRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ProcessPayrollRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	logger.Info("Processing payroll run", slog.String("run_id", c.Param("id")), slog.String("bank_account_id", req.BankAccountID))
	run, err := h.payrollService.ProcessRun(c.Request.Context(), c.Param("id"), req.BankAccountID, userID)
	if err != nil {
		respondError(c, err, "Failed to process payroll run")
		return
	}
	c.JSON(http.StatusOK, run)
}
