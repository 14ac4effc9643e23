package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/logistics_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/logistics_ledger/internal/core/ports/services"
	"github.com/SscSPs/logistics_ledger/internal/dto"
	"github.com/SscSPs/logistics_ledger/internal/observability/metrics"
	"github.com/SscSPs/logistics_ledger/internal/utils/accounting"
)

// CostAllocationServiceOption configures optional collaborators of the cost allocation service.
type CostAllocationServiceOption func(*costAllocationService)

// WithAllocationMetrics counts written allocation rows on m.
func WithAllocationMetrics(m *metrics.LedgerMetrics) CostAllocationServiceOption {
	return func(s *costAllocationService) {
		s.metrics = m
	}
}

type costAllocationService struct {
	BaseService
	costRepo  portsrepo.CostAllocationRepositoryFacade
	converter portssvc.CurrencyConverterSvc
	txManager portsrepo.TransactionManager
	metrics   *metrics.LedgerMetrics
}

// NewCostAllocationService creates the cost allocation engine.
func NewCostAllocationService(
	costRepo portsrepo.CostAllocationRepositoryFacade,
	converter portssvc.CurrencyConverterSvc,
	txManager portsrepo.TransactionManager,
	opts ...CostAllocationServiceOption,
) portssvc.CostAllocationSvcFacade {
	s := &costAllocationService{
		costRepo:  costRepo,
		converter: converter,
		txManager: txManager,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.CostAllocationSvcFacade = (*costAllocationService)(nil)

// CreateBatchCost records a shared cost of a batch. The amount may not be finer than the currency's minor unit.
func (s *costAllocationService) CreateBatchCost(ctx context.Context, batchID string, req dto.CreateBatchCostRequest, userID string) (*domain.BatchCost, error) {
	if strings.TrimSpace(batchID) == "" {
		return nil, fmt.Errorf("%w: batch id is required", apperrors.ErrValidation)
	}
	method, err := domain.ParseAllocationMethod(req.Method)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: batch cost amount must be greater than zero", apperrors.ErrValidation)
	}
	currency := strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	if currency == "" {
		currency = s.converter.BaseCurrency()
	}
	if scale := s.converter.Scale(currency); !req.Amount.Equal(req.Amount.Round(scale)) {
		return nil, fmt.Errorf("%w: amount %s has more than %d decimals for %s", apperrors.ErrValidation, req.Amount.String(), scale, currency)
	}

	cost := domain.BatchCost{
		BatchCostID:  uuid.NewString(),
		BatchID:      batchID,
		Description:  strings.TrimSpace(req.Description),
		Amount:       req.Amount,
		CurrencyCode: currency,
		Method:       method,
		AuditFields:  domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.costRepo.SaveBatchCost(ctx, cost); err != nil {
		s.LogError(ctx, err, "Failed to save batch cost", slog.String("batch_id", batchID))
		return nil, err
	}
	return &cost, nil
}

func (s *costAllocationService) ListBatchCosts(ctx context.Context, batchID string) ([]domain.BatchCost, error) {
	return s.costRepo.ListBatchCosts(ctx, batchID)
}

type allocationKey struct {
	costID     string
	shipmentID string
}

// Allocate splits every cost of the batch across its shipments and replaces the stored allocations.
// Each cost produces one row per shipment; the rows of a weight or equal cost sum to the cost exactly.
func (s *costAllocationService) Allocate(ctx context.Context, batchID string, req dto.AllocateBatchRequest, userID string) ([]domain.BatchCostAllocation, error) {
	costs, err := s.costRepo.ListBatchCosts(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if len(costs) == 0 {
		return nil, fmt.Errorf("%w: batch %s has no costs to allocate", apperrors.ErrValidation, batchID)
	}
	shipments, err := s.costRepo.ListShipments(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if len(shipments) == 0 {
		return nil, fmt.Errorf("%w: batch %s has no shipments", apperrors.ErrValidation, batchID)
	}

	manual, err := indexManual(costs, shipments, req.Manual)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	rowsByMethod := make(map[domain.AllocationMethod]int)
	allocations := make([]domain.BatchCostAllocation, 0, len(costs)*len(shipments))
	for _, cost := range costs {
		shares, err := s.split(cost, shipments, manual)
		if err != nil {
			return nil, err
		}
		for i, shipment := range shipments {
			allocations = append(allocations, domain.BatchCostAllocation{
				AllocationID:    uuid.NewString(),
				BatchCostID:     cost.BatchCostID,
				ShipmentID:      shipment.ShipmentID,
				AllocatedAmount: shares[i],
				Method:          cost.Method,
				AuditFields:     domain.NewAuditFields(userID, now),
			})
		}
		rowsByMethod[cost.Method] += len(shipments)
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		return s.costRepo.ReplaceAllocations(ctx, batchID, allocations)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to store cost allocations", slog.String("batch_id", batchID))
		return nil, err
	}
	for method, rows := range rowsByMethod {
		s.metrics.ObserveAllocations(string(method), rows)
	}
	s.LogInfo(ctx, "Batch costs allocated", slog.String("batch_id", batchID), slog.Int("rows", len(allocations)))
	return allocations, nil
}

func (s *costAllocationService) split(cost domain.BatchCost, shipments []domain.Shipment, manual map[allocationKey]decimal.Decimal) ([]decimal.Decimal, error) {
	scale := s.converter.Scale(cost.CurrencyCode)
	switch cost.Method {
	case domain.AllocateEqually:
		return accounting.SplitEqually(cost.Amount, len(shipments), scale)
	case domain.AllocateByWeight:
		weights := make([]decimal.Decimal, len(shipments))
		for i, sh := range shipments {
			weights[i] = sh.WeightKg
		}
		shares, err := accounting.SplitByWeight(cost.Amount, weights, scale)
		if err != nil {
			return nil, fmt.Errorf("cost %s: %w", cost.Description, err)
		}
		return shares, nil
	case domain.AllocateManually:
		shares := make([]decimal.Decimal, len(shipments))
		total := decimal.Zero
		for i, sh := range shipments {
			shares[i] = manual[allocationKey{cost.BatchCostID, sh.ShipmentID}]
			total = total.Add(shares[i])
		}
		if total.GreaterThan(cost.Amount) {
			return nil, fmt.Errorf("%w: manual allocations for cost %s total %s which exceeds the cost of %s",
				apperrors.ErrValidation, cost.Description, total.String(), cost.Amount.String())
		}
		return shares, nil
	default:
		return nil, fmt.Errorf("%w: unknown allocation method %q", apperrors.ErrValidation, cost.Method)
	}
}

// indexManual checks that manual amounts reference manual costs and shipments of this batch.
func indexManual(costs []domain.BatchCost, shipments []domain.Shipment, reqs []dto.ManualAllocationRequest) (map[allocationKey]decimal.Decimal, error) {
	methods := make(map[string]domain.AllocationMethod, len(costs))
	for _, c := range costs {
		methods[c.BatchCostID] = c.Method
	}
	inBatch := make(map[string]bool, len(shipments))
	for _, sh := range shipments {
		inBatch[sh.ShipmentID] = true
	}

	manual := make(map[allocationKey]decimal.Decimal, len(reqs))
	for _, r := range reqs {
		method, ok := methods[r.BatchCostID]
		if !ok {
			return nil, fmt.Errorf("%w: batch cost %s does not belong to this batch", apperrors.ErrValidation, r.BatchCostID)
		}
		if method != domain.AllocateManually {
			return nil, fmt.Errorf("%w: batch cost %s is allocated by %s, not manually", apperrors.ErrValidation, r.BatchCostID, method)
		}
		if !inBatch[r.ShipmentID] {
			return nil, fmt.Errorf("%w: shipment %s does not belong to this batch", apperrors.ErrValidation, r.ShipmentID)
		}
		if r.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: manual allocation for shipment %s is negative", apperrors.ErrValidation, r.ShipmentID)
		}
		key := allocationKey{r.BatchCostID, r.ShipmentID}
		manual[key] = manual[key].Add(r.Amount)
	}
	return manual, nil
}

// ComputeProfitability reports revenue against allocated costs per shipment.
func (s *costAllocationService) ComputeProfitability(ctx context.Context, batchID string) ([]domain.ShipmentProfitability, error) {
	shipments, err := s.costRepo.ListShipments(ctx, batchID)
	if err != nil {
		return nil, err
	}
	costs, err := s.costRepo.ListBatchCosts(ctx, batchID)
	if err != nil {
		return nil, err
	}
	allocations, err := s.costRepo.ListAllocations(ctx, batchID)
	if err != nil {
		return nil, err
	}

	costsByID := make(map[string]domain.BatchCost, len(costs))
	for _, c := range costs {
		costsByID[c.BatchCostID] = c
	}
	byShipment := make(map[string][]domain.BatchCostAllocation)
	for _, a := range allocations {
		byShipment[a.ShipmentID] = append(byShipment[a.ShipmentID], a)
	}

	result := make([]domain.ShipmentProfitability, 0, len(shipments))
	for _, sh := range shipments {
		row := domain.ShipmentProfitability{
			ShipmentID:    sh.ShipmentID,
			Revenue:       sh.Revenue,
			Cost:          decimal.Zero,
			CostBreakdown: []domain.CostBreakdownItem{},
		}
		for _, a := range byShipment[sh.ShipmentID] {
			row.Cost = row.Cost.Add(a.AllocatedAmount)
			row.CostBreakdown = append(row.CostBreakdown, domain.CostBreakdownItem{
				BatchCostID: a.BatchCostID,
				Description: costsByID[a.BatchCostID].Description,
				Method:      a.Method,
				Amount:      a.AllocatedAmount,
			})
		}
		row.Profit = row.Revenue.Sub(row.Cost)
		row.Margin = accounting.Margin(row.Profit, row.Revenue)
		result = append(result, row)
	}
	return result, nil
}
