package repositories

import (
	"context"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
)

// CostAllocationRepositoryFacade defines persistence for batch costs, shipments and allocations.
type CostAllocationRepositoryFacade interface {
	SaveBatchCost(ctx context.Context, cost domain.BatchCost) error
	ListBatchCosts(ctx context.Context, batchID string) ([]domain.BatchCost, error)
	ListShipments(ctx context.Context, batchID string) ([]domain.Shipment, error)
	// ReplaceAllocations deletes every allocation of the batch and inserts the given rows.
	ReplaceAllocations(ctx context.Context, batchID string, allocations []domain.BatchCostAllocation) error
	ListAllocations(ctx context.Context, batchID string) ([]domain.BatchCostAllocation, error)
}
