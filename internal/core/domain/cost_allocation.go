package domain

import (
	"fmt"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AllocationMethod selects how a batch cost is split across shipments.
type AllocationMethod string

const (
	AllocateByWeight AllocationMethod = "weight"
	AllocateEqually  AllocationMethod = "equal"
	AllocateManually AllocationMethod = "manual"
)

// ParseAllocationMethod validates an allocation method string.
func ParseAllocationMethod(s string) (AllocationMethod, error) {
	switch m := AllocationMethod(s); m {
	case AllocateByWeight, AllocateEqually, AllocateManually:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown allocation method %q", apperrors.ErrValidation, s)
}

// BatchCost is a shared cost incurred by a consolidated shipment batch.
type BatchCost struct {
	BatchCostID  string           `json:"batchCostID"`
	BatchID      string           `json:"batchID"`
	Description  string           `json:"description"`
	Amount       decimal.Decimal  `json:"amount"`
	CurrencyCode string           `json:"currencyCode"`
	Method       AllocationMethod `json:"method"`
	AuditFields
}

// Shipment is the read model of a shipment inside a batch.
type Shipment struct {
	ShipmentID string          `json:"shipmentID"`
	BatchID    string          `json:"batchID"`
	WeightKg   decimal.Decimal `json:"weightKg"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// BatchCostAllocation is the share of a batch cost carried by one shipment.
type BatchCostAllocation struct {
	AllocationID    string           `json:"allocationID"`
	BatchCostID     string           `json:"batchCostID"`
	ShipmentID      string           `json:"shipmentID"`
	AllocatedAmount decimal.Decimal  `json:"allocatedAmount"`
	Method          AllocationMethod `json:"method"`
	AuditFields
}

// ManualAllocation is a caller supplied amount for a manual batch cost.
type ManualAllocation struct {
	BatchCostID string
	ShipmentID  string
	Amount      decimal.Decimal
}

// CostBreakdownItem is one allocated cost within a shipment's profitability row.
type CostBreakdownItem struct {
	BatchCostID string           `json:"batchCostID"`
	Description string           `json:"description"`
	Method      AllocationMethod `json:"method"`
	Amount      decimal.Decimal  `json:"amount"`
}

// ShipmentProfitability is revenue against allocated costs for one shipment.
type ShipmentProfitability struct {
	ShipmentID    string              `json:"shipmentID"`
	Revenue       decimal.Decimal     `json:"revenue"`
	Cost          decimal.Decimal     `json:"cost"`
	Profit        decimal.Decimal     `json:"profit"`
	Margin        decimal.Decimal     `json:"margin"`
	CostBreakdown []CostBreakdownItem `json:"costBreakdown"`
}
