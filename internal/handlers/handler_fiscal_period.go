package handlers

import (
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/logistics_ledger/internal/core/ports/services"
	"github.com/SscSPs/logistics_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// fiscalPeriodHandler handles HTTP requests related to fiscal periods.
type fiscalPeriodHandler struct {
	periodService portssvc.FiscalPeriodSvcFacade
}

func registerFiscalPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.FiscalPeriodSvcFacade) {
	h := &fiscalPeriodHandler{periodService: periodService}

	periods := rg.Group("/fiscal-periods")
	{
		periods.POST("", h.openPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/:id", h.getPeriod)
		periods.POST("/:id/close", h.closePeriod)
		periods.POST("/:id/lock", h.lockPeriod)
	}
}

// openPeriod godoc
// @Summary Open a fiscal period
// @Tags fiscal periods
// @Accept  json
// @Produce  json
// @Param   period body dto.OpenPeriodRequest true "Period range"
// @Success 201 {object} domain.FiscalPeriod
// @Failure 400 {object} map[string]string "Range invalid or overlapping"
// @Security BearerAuth
// @Router /fiscal-periods [post]
func (h *fiscalPeriodHandler) openPeriod(c *gin.Context) {
	var req dto.OpenPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	period, err := h.periodService.OpenPeriod(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to open fiscal period")
		return
	}
	c.JSON(http.StatusCreated, period)
}

// listPeriods godoc
// @Summary List fiscal periods
// @Tags fiscal periods
// @Produce  json
// @Param   year query int false "Fiscal year"
// @Success 200 {array} domain.FiscalPeriod
// @Security BearerAuth
// @Router /fiscal-periods [get]
func (h *fiscalPeriodHandler) listPeriods(c *gin.Context) {
	var year *int
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a number"})
			return
		}
		year = &y
	}
	periods, err := h.periodService.ListPeriods(c.Request.Context(), year)
	if err != nil {
		respondError(c, err, "Failed to list fiscal periods")
		return
	}
	c.JSON(http.StatusOK, periods)
}

func (h *fiscalPeriodHandler) getPeriod(c *gin.Context) {
	period, err := h.periodService.GetPeriod(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve fiscal period")
		return
	}
	c.JSON(http.StatusOK, period)
}

// closePeriod godoc
// @Summary Close a fiscal period
// @Description Irreversible; postings and voids dated inside the period are refused afterwards
// @Tags fiscal periods
// @Produce  json
// @Param   id path string true "Period ID"
// @Success 200 {object} domain.FiscalPeriod
// @Failure 409 {object} map[string]string "Period is not open"
// @Security BearerAuth
// @Router /fiscal-periods/{id}/close [post]
func (h *fiscalPeriodHandler) closePeriod(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	period, err := h.periodService.ClosePeriod(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to close fiscal period")
		return
	}
	c.JSON(http.StatusOK, period)
}

func (h *fiscalPeriodHandler) lockPeriod(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	period, err := h.periodService.LockPeriod(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to lock fiscal period")
		return
	}
	c.JSON(http.StatusOK, period)
}
