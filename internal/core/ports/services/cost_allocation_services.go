package services

import (
	"context"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	"github.com/SscSPs/logistics_ledger/internal/dto"
)

// CostAllocationSvcFacade splits batch costs across shipments and reports profitability.
type CostAllocationSvcFacade interface {
	CreateBatchCost(ctx context.Context, batchID string, req dto.CreateBatchCostRequest, userID string) (*domain.BatchCost, error)
	ListBatchCosts(ctx context.Context, batchID string) ([]domain.BatchCost, error)
	// Allocate replaces every allocation of the batch.
	Allocate(ctx context.Context, batchID string, req dto.AllocateBatchRequest, userID string) ([]domain.BatchCostAllocation, error)
	ComputeProfitability(ctx context.Context, batchID string) ([]domain.ShipmentProfitability, error)
}
