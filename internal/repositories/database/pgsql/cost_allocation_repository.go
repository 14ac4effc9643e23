package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/logistics_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxCostAllocationRepository persists batch costs and their split across shipments.
type PgxCostAllocationRepository struct {
	BaseRepository
}

func newPgxCostAllocationRepository(pool *pgxpool.Pool) *PgxCostAllocationRepository {
	return &PgxCostAllocationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CostAllocationRepositoryFacade = (*PgxCostAllocationRepository)(nil)

func scanBatchCost(row pgx.Row) (domain.BatchCost, error) {
	var c domain.BatchCost
	var method string
	err := row.Scan(&c.BatchCostID, &c.BatchID, &c.Description, &c.Amount, &c.CurrencyCode, &method,
		&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy)
	if err != nil {
		return domain.BatchCost{}, err
	}
	c.Method, err = domain.ParseAllocationMethod(method)
	return c, err
}

func scanShipment(row pgx.Row) (domain.Shipment, error) {
	var s domain.Shipment
	err := row.Scan(&s.ShipmentID, &s.BatchID, &s.WeightKg, &s.Revenue)
	return s, err
}

func scanAllocation(row pgx.Row) (domain.BatchCostAllocation, error) {
	var a domain.BatchCostAllocation
	var method string
	err := row.Scan(&a.AllocationID, &a.BatchCostID, &a.ShipmentID, &a.AllocatedAmount, &method,
		&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy)
	if err != nil {
		return domain.BatchCostAllocation{}, err
	}
	a.Method, err = domain.ParseAllocationMethod(method)
	return a, err
}

func (r *PgxCostAllocationRepository) SaveBatchCost(ctx context.Context, c domain.BatchCost) error {
	query := `
		INSERT INTO batch_costs (
			batch_cost_id, batch_id, description, amount, currency_code, allocation_method,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.db(ctx).Exec(ctx, query, c.BatchCostID, c.BatchID, c.Description, c.Amount, c.CurrencyCode,
		string(c.Method), c.CreatedAt, c.CreatedBy, c.LastUpdatedAt, c.LastUpdatedBy)
	if err != nil {
		return mapWriteError(err, "batch cost "+c.Description)
	}
	return nil
}

func (r *PgxCostAllocationRepository) ListBatchCosts(ctx context.Context, batchID string) ([]domain.BatchCost, error) {
	rows, err := r.db(ctx).Query(ctx, `
		SELECT batch_cost_id, batch_id, description, amount, currency_code, allocation_method,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM batch_costs
		WHERE batch_id = $1
		ORDER BY created_at, batch_cost_id;`, batchID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list costs of batch "+batchID, err)
	}
	return collectRows(rows, "batch cost", scanBatchCost)
}

func (r *PgxCostAllocationRepository) ListShipments(ctx context.Context, batchID string) ([]domain.Shipment, error) {
	rows, err := r.db(ctx).Query(ctx, `
		SELECT shipment_id, batch_id, weight_kg, revenue
		FROM shipments
		WHERE batch_id = $1
		ORDER BY shipment_id;`, batchID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list shipments of batch "+batchID, err)
	}
	return collectRows(rows, "shipment", scanShipment)
}

// ReplaceAllocations must run inside WithinTx for the delete and inserts to apply together.
func (r *PgxCostAllocationRepository) ReplaceAllocations(ctx context.Context, batchID string, allocations []domain.BatchCostAllocation) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		DELETE FROM batch_cost_allocations
		WHERE batch_cost_id IN (SELECT batch_cost_id FROM batch_costs WHERE batch_id = $1);`, batchID)
	for _, a := range allocations {
		batch.Queue(`
			INSERT INTO batch_cost_allocations (
				allocation_id, batch_cost_id, shipment_id, allocated_amount, allocation_method,
				created_at, created_by, last_updated_at, last_updated_by
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
			a.AllocationID, a.BatchCostID, a.ShipmentID, a.AllocatedAmount, string(a.Method),
			a.CreatedAt, a.CreatedBy, a.LastUpdatedAt, a.LastUpdatedBy)
	}
	if err := r.db(ctx).SendBatch(ctx, batch).Close(); err != nil {
		return mapWriteError(err, fmt.Sprintf("allocations of batch %s", batchID))
	}
	return nil
}

func (r *PgxCostAllocationRepository) ListAllocations(ctx context.Context, batchID string) ([]domain.BatchCostAllocation, error) {
	rows, err := r.db(ctx).Query(ctx, `
		SELECT a.allocation_id, a.batch_cost_id, a.shipment_id, a.allocated_amount, a.allocation_method,
		       a.created_at, a.created_by, a.last_updated_at, a.last_updated_by
		FROM batch_cost_allocations a
		JOIN batch_costs c ON c.batch_cost_id = a.batch_cost_id
		WHERE c.batch_id = $1
		ORDER BY c.created_at, a.batch_cost_id, a.shipment_id;`, batchID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list allocations of batch "+batchID, err)
	}
	return collectRows(rows, "allocation", scanAllocation)
}
