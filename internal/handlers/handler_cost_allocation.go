package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/logistics_ledger/internal/core/ports/services"
	"github.com/SscSPs/logistics_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// costAllocationHandler handles batch costs and shipment profitability.
type costAllocationHandler struct {
	allocationService portssvc.CostAllocationSvcFacade
}

func registerCostAllocationRoutes(rg *gin.RouterGroup, allocationService portssvc.CostAllocationSvcFacade) {
	h := &costAllocationHandler{allocationService: allocationService}

	batches := rg.Group("/batches/:batchID")
	{
		batches.POST("/costs", h.createBatchCost)
		batches.GET("/costs", h.listBatchCosts)
		batches.POST("/allocate", h.allocate)
		batches.GET("/profitability", h.profitability)
	}
}

func (h *costAllocationHandler) createBatchCost(c *gin.Context) {
	var req dto.CreateBatchCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := actor(c)
	if !ok {
		return
	}
	cost, err := h.allocationService.CreateBatchCost(c.Request.Context(), c.Param("batchID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to record batch cost")
		return
	}
	c.JSON(http.StatusCreated, cost)
}

func (h *costAllocationHandler) listBatchCosts(c *gin.Context) {
	costs, err := h.allocationService.ListBatchCosts(c.Request.Context(), c.Param("batchID"))
	if err != nil {
		respondError(c, err, "Failed to list batch costs")
		return
	}
	c.JSON(http.StatusOK, costs)
}

// allocate godoc
// @Summary Allocate batch costs to shipments
// @Description Replaces every allocation of the batch. Manual costs take their amounts from the body.
// @Tags cost allocation
// @Accept  json
// @Produce  json
// @Param   batchID path string true "Batch ID"
// @Param   body body dto.AllocateBatchRequest false "Manual allocations"
// @Success 200 {array} domain.BatchCostAllocation
// @Failure 400 {object} map[string]string "Batch has no shipments or manual amounts do not add up"
// @Security BearerAuth
// @Router /batches/{batchID}/allocate [post]
func (h *costAllocationHandler) allocate(c *gin.Context) {
	var req dto.AllocateBatchRequest
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
	allocations, err := h.allocationService.Allocate(c.Request.Context(), c.Param("batchID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to allocate batch costs")
		return
	}
	c.JSON(http.StatusOK, allocations)
}

// profitability godoc
// @Summary Shipment profitability for a batch
// @Tags cost allocation
// @Produce  json
// @Param   batchID path string true "Batch ID"
// @Success 200 {array} domain.ShipmentProfitability
// @Security BearerAuth
// @Router /batches/{batchID}/profitability [get]
func (h *costAllocationHandler) profitability(c *gin.Context) {
	rows, err := h.allocationService.ComputeProfitability(c.Request.Context(), c.Param("batchID"))
	if err != nil {
		respondError(c, err, "Failed to compute profitability")
		return
	}
	c.JSON(http.StatusOK, rows)
}
