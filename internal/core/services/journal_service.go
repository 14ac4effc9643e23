package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

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

const journalEntrySequence = "journal_entry"

// JournalServiceOption configures optional collaborators of the journal service.
type JournalServiceOption func(*journalService)

// WithJournalMetrics records entry transitions on m.
func WithJournalMetrics(m *metrics.LedgerMetrics) JournalServiceOption {
	return func(s *journalService) {
		s.metrics = m
	}
}

// journalService owns the draft, posted, voided lifecycle of journal entries.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
	converter   portssvc.CurrencyConverterSvc
	periods     portssvc.PeriodGuardSvc
	sequencer   portsrepo.Sequencer
	txManager   portsrepo.TransactionManager
	metrics     *metrics.LedgerMetrics
}

// NewJournalService creates the journal ledger service.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	converter portssvc.CurrencyConverterSvc,
	periods portssvc.PeriodGuardSvc,
	sequencer portsrepo.Sequencer,
	txManager portsrepo.TransactionManager,
	opts ...JournalServiceOption,
) portssvc.JournalSvcFacade {
	s := &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		converter:   converter,
		periods:     periods,
		sequencer:   sequencer,
		txManager:   txManager,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateEntry validates the lines, converts them to base currency and stores a draft.
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	var created *domain.JournalEntry
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.createDraft(ctx, req, creatorUserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *journalService) createDraft(ctx context.Context, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: entry description is required", apperrors.ErrValidation)
	}
	if req.EntryDate.IsZero() {
		return nil, fmt.Errorf("%w: entry date is required", apperrors.ErrValidation)
	}
	refType, err := domain.ParseReferenceType(req.ReferenceType)
	if err != nil {
		return nil, err
	}
	if refType == domain.RefNone && req.ReferenceID != "" {
		return nil, fmt.Errorf("%w: reference id given without a reference type", apperrors.ErrValidation)
	}

	entryID := uuid.NewString()
	entryDate := domain.DateOnly(req.EntryDate)
	lines, err := s.buildLines(ctx, entryID, entryDate, req.Lines)
	if err != nil {
		return nil, err
	}

	seq, err := s.sequencer.Next(ctx, journalEntrySequence)
	if err != nil {
		s.LogError(ctx, err, "Failed to allocate journal entry number")
		return nil, fmt.Errorf("failed to allocate entry number: %w", err)
	}

	entry := domain.JournalEntry{
		EntryID:       entryID,
		EntryNumber:   fmt.Sprintf("JE-%06d", seq),
		EntryDate:     entryDate,
		Description:   description,
		Status:        domain.EntryDraft,
		ReferenceType: refType,
		ReferenceID:   req.ReferenceID,
		Lines:         lines,
		AuditFields:   domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.journalRepo.SaveEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save journal entry", slog.String("entry_number", entry.EntryNumber))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.Int("lines", len(lines)))
	return &entry, nil
}

// buildLines turns requested lines into ledger lines with base amounts at the rate effective on date.
func (s *journalService) buildLines(ctx context.Context, entryID string, date time.Time, reqLines []dto.JournalLineRequest) ([]domain.JournalLine, error) {
	if len(reqLines) == 0 {
		return nil, fmt.Errorf("%w: journal entry needs at least one line", apperrors.ErrValidation)
	}

	lines := make([]domain.JournalLine, len(reqLines))
	accountIDs := make([]string, 0, len(reqLines))
	for i, rl := range reqLines {
		lines[i] = domain.JournalLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			LineNumber:   i + 1,
			AccountID:    rl.AccountID,
			Debit:        rl.Debit,
			Credit:       rl.Credit,
			CurrencyCode: strings.ToUpper(strings.TrimSpace(rl.CurrencyCode)),
			Memo:         rl.Memo,
		}
		if err := accounting.ValidateLine(i, lines[i]); err != nil {
			return nil, err
		}
		if lines[i].CurrencyCode == "" {
			lines[i].CurrencyCode = s.converter.BaseCurrency()
		}
		scale := s.converter.Scale(lines[i].CurrencyCode)
		for _, amount := range []decimal.Decimal{lines[i].Debit, lines[i].Credit} {
			if !amount.Equal(amount.Round(scale)) {
				return nil, fmt.Errorf("%w: line %d amount %s has more than %d decimal places for %s",
					apperrors.ErrValidation, i+1, amount.String(), scale, lines[i].CurrencyCode)
			}
		}
		accountIDs = append(accountIDs, rl.AccountID)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load line accounts: %w", err)
	}

	baseScale := s.converter.Scale(s.converter.BaseCurrency())
	rates := make(map[string]decimal.Decimal)
	for i := range lines {
		line := &lines[i]
		account, ok := accounts[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: line %d references unknown account %s", apperrors.ErrValidation, i+1, line.AccountID)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: line %d references inactive account %s", apperrors.ErrValidation, i+1, account.Code)
		}

		rate, ok := rates[line.CurrencyCode]
		if !ok {
			rate, err = s.converter.Rate(ctx, line.CurrencyCode, date)
			if err != nil {
				return nil, err
			}
			rates[line.CurrencyCode] = rate
		}
		line.ExchangeRate = rate
		line.DebitBase = line.Debit.Mul(rate).Round(baseScale)
		line.CreditBase = line.Credit.Mul(rate).Round(baseScale)
	}
	return lines, nil
}

func (s *journalService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return s.journalRepo.FindEntryByID(ctx, entryID)
}

// ListEntries returns a page of entry headers.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	filter := domain.JournalFilter{
		From:        params.From,
		To:          params.To,
		ReferenceID: params.ReferenceID,
	}
	if params.Status != "" {
		status, err := domain.ParseEntryStatus(params.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}
	if params.ReferenceType != "" {
		refType, err := domain.ParseReferenceType(params.ReferenceType)
		if err != nil {
			return nil, err
		}
		filter.ReferenceType = refType
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, next, err := s.journalRepo.ListEntries(ctx, filter, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return &dto.ListEntriesResponse{Entries: entries, NextToken: next}, nil
}

// UpdateEntry changes the header and optionally replaces every line of a draft.
func (s *journalService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error) {
	var updated *domain.JournalEntry
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := s.journalRepo.FindEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.Status != domain.EntryDraft {
			return entryStateConflict(entry, "edited")
		}

		if req.EntryDate != nil {
			entry.EntryDate = domain.DateOnly(*req.EntryDate)
		}
		if req.Description != nil {
			description := strings.TrimSpace(*req.Description)
			if description == "" {
				return fmt.Errorf("%w: entry description is required", apperrors.ErrValidation)
			}
			entry.Description = description
		}
		// Lines carry base amounts at the entry date, so a date change re-converts them too.
		if req.Lines != nil || req.EntryDate != nil {
			source := req.Lines
			if source == nil {
				source = linesToRequests(entry.Lines)
			}
			lines, err := s.buildLines(ctx, entry.EntryID, entry.EntryDate, source)
			if err != nil {
				return err
			}
			entry.Lines = lines
		}
		entry.LastUpdatedAt = s.Now()
		entry.LastUpdatedBy = userID

		if err := s.journalRepo.UpdateDraftEntry(ctx, *entry); err != nil {
			return err
		}
		updated = entry
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, err, "Journal entry update failed", slog.String("entry_id", entryID))
		return nil, err
	}
	return updated, nil
}

// DeleteEntry removes a draft. Posted and voided entries are permanent.
func (s *journalService) DeleteEntry(ctx context.Context, entryID string, userID string) error {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.Status != domain.EntryDraft {
		return entryStateConflict(entry, "deleted")
	}
	if err := s.journalRepo.DeleteDraftEntry(ctx, entryID); err != nil {
		return err
	}
	s.LogInfo(ctx, "Draft journal entry deleted", slog.String("entry_id", entryID), slog.String("user_id", userID))
	return nil
}

// PostEntry makes a balanced draft count towards every balance and report.
func (s *journalService) PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	var entry *domain.JournalEntry
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := s.journalRepo.FindEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		entry = locked
		return s.post(ctx, entry, userID)
	})
	s.metrics.ObserveEntryTransition("post", err)
	if err != nil {
		s.LogWarn(ctx, err, "Journal entry posting failed", slog.String("entry_id", entryID))
		return nil, err
	}
	return entry, nil
}

func (s *journalService) post(ctx context.Context, entry *domain.JournalEntry, userID string) error {
	if entry.Status != domain.EntryDraft {
		return entryStateConflict(entry, "posted")
	}
	if err := s.checkPeriod(ctx, entry); err != nil {
		return err
	}
	if err := accounting.ValidateEntryBalance(entry.Lines); err != nil {
		return err
	}

	now := s.Now()
	err := s.journalRepo.TransitionEntry(ctx, domain.EntryTransition{
		EntryID: entry.EntryID,
		From:    domain.EntryDraft,
		To:      domain.EntryPosted,
		At:      now,
		By:      userID,
	})
	if err != nil {
		return err
	}

	entry.Status = domain.EntryPosted
	entry.PostedAt = &now
	entry.PostedBy = userID
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	s.LogInfo(ctx, "Journal entry posted", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	return nil
}

// VoidEntry reverses the effect of a posted entry on balances. The lines are kept.
func (s *journalService) VoidEntry(ctx context.Context, entryID string, reason string, userID string) (*domain.JournalEntry, error) {
	entry, err := s.void(ctx, entryID, reason, userID)
	s.metrics.ObserveEntryTransition("void", err)
	if err != nil {
		s.LogWarn(ctx, err, "Journal entry void failed", slog.String("entry_id", entryID))
		return nil, err
	}
	return entry, nil
}

func (s *journalService) void(ctx context.Context, entryID string, reason string, userID string) (*domain.JournalEntry, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a void reason is required", apperrors.ErrValidation)
	}
	var entry *domain.JournalEntry
	now := s.Now()
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := s.journalRepo.FindEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if locked.Status != domain.EntryPosted {
			return entryStateConflict(locked, "voided")
		}
		if err := s.checkPeriod(ctx, locked); err != nil {
			return err
		}
		entry = locked
		return s.journalRepo.TransitionEntry(ctx, domain.EntryTransition{
			EntryID: entry.EntryID,
			From:    domain.EntryPosted,
			To:      domain.EntryVoided,
			At:      now,
			By:      userID,
			Reason:  reason,
		})
	})
	if err != nil {
		return nil, err
	}

	entry.Status = domain.EntryVoided
	entry.VoidedAt = &now
	entry.VoidedBy = userID
	entry.VoidReason = reason
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	s.LogInfo(ctx, "Journal entry voided", slog.String("entry_id", entry.EntryID), slog.String("reason", reason))
	return entry, nil
}

func (s *journalService) checkPeriod(ctx context.Context, entry *domain.JournalEntry) error {
	postable, err := s.periods.IsPostable(ctx, entry.EntryDate)
	if err != nil {
		return err
	}
	if !postable {
		return fmt.Errorf("%w: entry %s is dated %s which is not in an open fiscal period",
			apperrors.ErrPeriodClosed, entry.EntryNumber, entry.EntryDate.Format(time.DateOnly))
	}
	return nil
}

// RecordEntry creates and posts an entry in one transaction; nothing is stored when posting fails.
func (s *journalService) RecordEntry(ctx context.Context, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error) {
	var recorded *domain.JournalEntry
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := s.createDraft(ctx, req, userID)
		if err != nil {
			return err
		}
		if err := s.post(ctx, entry, userID); err != nil {
			return err
		}
		recorded = entry
		return nil
	})
	s.metrics.ObserveEntryTransition("record", err)
	if err != nil {
		s.LogWarn(ctx, err, "Recording journal entry failed",
			slog.String("reference_type", req.ReferenceType),
			slog.String("reference_id", req.ReferenceID))
		return nil, err
	}
	return recorded, nil
}

// RecordApprovedExpense posts Dr expense account, Cr funding account for an approved expense.
// An expense is recorded at most once.
func (s *journalService) RecordApprovedExpense(ctx context.Context, req dto.RecordExpenseRequest, userID string) (*domain.JournalEntry, error) {
	if req.ExpenseID == "" {
		return nil, fmt.Errorf("%w: expense id is required", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: expense amount must be greater than zero", apperrors.ErrValidation)
	}

	existing, err := s.journalRepo.FindEntryByReference(ctx, domain.RefExpense, req.ExpenseID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up expense entry: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: expense %s is already recorded by entry %s", apperrors.ErrDuplicate, req.ExpenseID, existing.EntryNumber)
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "Expense: " + req.Category
	}
	return s.RecordEntry(ctx, dto.CreateEntryRequest{
		EntryDate:     req.ExpenseDate,
		Description:   description,
		ReferenceType: string(domain.RefExpense),
		ReferenceID:   req.ExpenseID,
		Lines: []dto.JournalLineRequest{
			{AccountID: req.ExpenseAccountID, Debit: req.Amount, CurrencyCode: req.CurrencyCode, Memo: req.Category},
			{AccountID: req.FundingAccountID, Credit: req.Amount, CurrencyCode: req.CurrencyCode, Memo: req.Category},
		},
	}, userID)
}

func entryStateConflict(entry *domain.JournalEntry, action string) error {
	switch entry.Status {
	case domain.EntryPosted:
		return fmt.Errorf("%w: entry %s is already posted and cannot be %s", apperrors.ErrConflict, entry.EntryNumber, action)
	case domain.EntryVoided:
		return fmt.Errorf("%w: entry %s is already voided and cannot be %s", apperrors.ErrConflict, entry.EntryNumber, action)
	default:
		return fmt.Errorf("%w: entry %s is %s and cannot be %s", apperrors.ErrConflict, entry.EntryNumber, entry.Status, action)
	}
}

func linesToRequests(lines []domain.JournalLine) []dto.JournalLineRequest {
	reqs := make([]dto.JournalLineRequest, len(lines))
	for i, l := range lines {
		reqs[i] = dto.JournalLineRequest{
			AccountID:    l.AccountID,
			Debit:        l.Debit,
			Credit:       l.Credit,
			CurrencyCode: l.CurrencyCode,
			Memo:         l.Memo,
		}
	}
	return reqs
}
