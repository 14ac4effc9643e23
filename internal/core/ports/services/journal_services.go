package services

import (
	"context"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	"github.com/SscSPs/logistics_ledger/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// JournalWriterSvc defines the journal entry lifecycle
type JournalWriterSvc interface {
	// CreateEntry stores a draft entry; balance is not required yet.
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)
	// UpdateEntry changes a draft; line replacement is atomic.
	UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error)
	DeleteEntry(ctx context.Context, entryID string, userID string) error
	PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)
	VoidEntry(ctx context.Context, entryID string, reason string, userID string) (*domain.JournalEntry, error)
}

// LedgerRecorderSvc records entries produced by other components, created and posted as one unit.
type LedgerRecorderSvc interface {
	RecordEntry(ctx context.Context, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error)
	RecordApprovedExpense(ctx context.Context, req dto.RecordExpenseRequest, userID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	LedgerRecorderSvc
}
