package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/logistics_ledger/internal/core/ports/services"
	"github.com/SscSPs/logistics_ledger/internal/dto"
	"github.com/SscSPs/logistics_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

// registerJournalRoutes registers journal entry and expense ingestion routes.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:id", h.getEntry)
		entries.PUT("/:id", h.updateEntry)
		entries.DELETE("/:id", h.deleteEntry)
		entries.POST("/:id/post", h.postEntry)
		entries.POST("/:id/void", h.voidEntry)
	}

	rg.POST("/expenses", h.recordExpense)
}

// createEntry godoc
// @Summary Create a draft journal entry
// @Description Stores a draft entry; lines are converted to base currency at the entry date
// @Tags journal entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateEntryRequest true "Entry and lines"
// @Success 201 {object} domain.JournalEntry
// @Failure 400 {object} map[string]string "Invalid line or missing exchange rate"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create journal entry"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}

	logger.Info("Received request to create journal entry", slog.Int("line_count", len(req.Lines)))
	entry, err := h.journalService.CreateEntry(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create journal entry")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// listEntries godoc
// @Summary List journal entries
// @Description Entry headers newest first with cursor pagination
// @Tags journal entries
// @Produce  json
// @Param   status query string false "draft, posted or voided"
// @Param   from query string false "First entry date (YYYY-MM-DD)"
// @Param   to query string false "Last entry date (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a journal entry with its lines
// @Tags journal entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} domain.JournalEntry
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /journal-entries/{id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	entry, err := h.journalService.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// updateEntry godoc
// @Summary Update a draft journal entry
// @Tags journal entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID"
// @Param   entry body dto.UpdateEntryRequest true "Changed fields"
// @Success 200 {object} domain.JournalEntry
// @Failure 409 {object} map[string]string "Entry is not a draft"
// @Security BearerAuth
// @Router /journal-entries/{id} [put]
func (h *journalHandler) updateEntry(c *gin.Context) {
	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	entry, err := h.journalService.UpdateEntry(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update journal entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// deleteEntry godoc
// @Summary Delete a draft journal entry
// @Tags journal entries
// @Param   id path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 409 {object} map[string]string "Entry is not a draft"
// @Security BearerAuth
// @Router /journal-entries/{id} [delete]
func (h *journalHandler) deleteEntry(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	if err := h.journalService.DeleteEntry(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err, "Failed to delete journal entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// postEntry godoc
// @Summary Post a draft journal entry
// @Description Requires balanced base currency totals and an open period
// @Tags journal entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} domain.JournalEntry
// @Failure 400 {object} map[string]string "Entry is unbalanced"
// @Failure 409 {object} map[string]string "Entry already posted or voided"
// @Failure 422 {object} map[string]string "Fiscal period closed"
// @Security BearerAuth
// @Router /journal-entries/{id}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	entry, err := h.journalService.PostEntry(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to post journal entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// voidEntry godoc
// @Summary Void a posted journal entry
// @Tags journal entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID"
// @Param   body body dto.VoidEntryRequest true "Void reason"
// @Success 200 {object} domain.JournalEntry
// @Failure 409 {object} map[string]string "Entry is not posted"
// @Failure 422 {object} map[string]string "Fiscal period closed"
// @Security BearerAuth
// @Router /journal-entries/{id}/void [post]
func (h *journalHandler) voidEntry(c *gin.Context) {
	var req dto.VoidEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	entry, err := h.journalService.VoidEntry(c.Request.Context(), c.Param("id"), req.Reason, userID)
	if err != nil {
		respondError(c, err, "Failed to void journal entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// recordExpense godoc
// @Summary Record an approved expense
// @Description Posts debit expense, credit funding account. An expense is recorded at most once.
// @Tags journal entries
// @Accept  json
// @Produce  json
// @Param   expense body dto.RecordExpenseRequest true "Approved expense"
// @Success 201 {object} domain.JournalEntry
// @Failure 409 {object} map[string]string "Expense already recorded"
// @Security BearerAuth
// @Router /expenses [post]
func (h *journalHandler) recordExpense(c *gin.Context) {
	var req dto.RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	entry, err := h.journalService.RecordApprovedExpense(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to record expense")
		return
	}
	c.JSON(http.StatusCreated, entry)
}
