package repositories

import (
	"context"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindEntryByID retrieves an entry together with its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntryByIDForUpdate is FindEntryByID holding a row lock for the rest of the transaction.
	FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntryByReference returns the non-voided entry created for an external record, if any.
	FindEntryByReference(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of entry headers ordered by date then creation time, newest first.
	ListEntries(ctx context.Context, filter domain.JournalFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveEntry inserts an entry and all of its lines.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateDraftEntry rewrites header fields and replaces every line of a draft entry.
	// It returns apperrors.ErrConflict when the entry is no longer a draft.
	UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry) error

	// DeleteDraftEntry removes a draft entry and its lines; ErrConflict when not a draft.
	DeleteDraftEntry(ctx context.Context, entryID string) error

	// TransitionEntry applies a status change guarded by the expected current status.
	// Zero affected rows yield apperrors.ErrConflict.
	TransitionEntry(ctx context.Context, transition domain.EntryTransition) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
