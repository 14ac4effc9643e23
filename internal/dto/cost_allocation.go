package dto

import "github.com/shopspring/decimal"

// CreateBatchCostRequest records a shared cost of a shipment batch.
type CreateBatchCostRequest struct {
	Description  string          `json:"description" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	CurrencyCode string          `json:"currencyCode" binding:"omitempty,len=3,uppercase"`
	Method       string          `json:"method" binding:"required,oneof=weight equal manual"`
}

// ManualAllocationRequest assigns part of a manual batch cost to a shipment.
type ManualAllocationRequest struct {
	BatchCostID string          `json:"batchCostID" binding:"required"`
	ShipmentID  string          `json:"shipmentID" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"decimal_gte0"`
}

// AllocateBatchRequest carries manual amounts for batch costs using the manual method.
type AllocateBatchRequest struct {
	Manual []ManualAllocationRequest `json:"manual" binding:"omitempty,dive"`
}
