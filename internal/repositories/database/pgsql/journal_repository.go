package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/logistics_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/logistics_ledger/internal/models"
	"github.com/SscSPs/logistics_ledger/internal/utils/mapping"
	"github.com/SscSPs/logistics_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `entry_id, entry_number, entry_date, description, status, reference_type, reference_id,
	posted_at, posted_by, voided_at, voided_by, void_reason,
	created_at, created_by, last_updated_at, last_updated_by`

const insertLineQuery = `
	INSERT INTO journal_lines (
		line_id, entry_id, line_number, account_id, debit, credit, currency_code,
		exchange_rate, debit_base, credit_base, memo
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Description,
		&m.Status,
		&m.ReferenceType,
		&m.ReferenceID,
		&m.PostedAt,
		&m.PostedBy,
		&m.VoidedAt,
		&m.VoidedBy,
		&m.VoidReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	return mapping.ToDomainJournalEntry(m)
}

// queueLines adds one insert per line to batch.
func queueLines(batch *pgx.Batch, lines []domain.JournalLine) {
	for _, line := range lines {
		m := mapping.ToModelJournalLine(line)
		batch.Queue(insertLineQuery,
			m.LineID,
			m.EntryID,
			m.LineNumber,
			m.AccountID,
			m.Debit,
			m.Credit,
			m.CurrencyCode,
			m.ExchangeRate,
			m.DebitBase,
			m.CreditBase,
			m.Memo,
		)
	}
}

// SaveEntry inserts the header and every line in a single batch.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO journal_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`,
		m.EntryID,
		m.EntryNumber,
		m.EntryDate,
		m.Description,
		m.Status,
		m.ReferenceType,
		m.ReferenceID,
		m.PostedAt,
		m.PostedBy,
		m.VoidedAt,
		m.VoidedBy,
		m.VoidReason,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	queueLines(batch, entry.Lines)

	br := r.db(ctx).SendBatch(ctx, batch)
	// Close reports the first failed command of the batch.
	if err := br.Close(); err != nil {
		return mapWriteError(err, "journal entry "+m.EntryNumber)
	}
	return nil
}

func (r *PgxJournalRepository) findLines(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, entry_id, line_number, account_id, debit, credit, currency_code,
		       exchange_rate, debit_base, credit_base, memo
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY line_number;
	`
	rows, err := r.db(ctx).Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	lines := []models.JournalLine{}
	for rows.Next() {
		var l models.JournalLine
		err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.LineNumber,
			&l.AccountID,
			&l.Debit,
			&l.Credit,
			&l.CurrencyCode,
			&l.ExchangeRate,
			&l.DebitBase,
			&l.CreditBase,
			&l.Memo,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for entry "+entryID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for entry "+entryID, err)
	}
	return mapping.ToDomainJournalLineSlice(lines), nil
}

// FindEntryByID retrieves an entry together with its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, entryID, "")
}

// FindEntryByIDForUpdate locks the entry header until the surrounding transaction ends.
func (r *PgxJournalRepository) FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, entryID, " FOR UPDATE")
}

func (r *PgxJournalRepository) findEntry(ctx context.Context, entryID string, lock string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1` + lock + `;`
	entry, err := scanEntry(r.db(ctx).QueryRow(ctx, query, entryID))
	if err != nil {
		return nil, mapReadError(err, "journal entry "+entryID)
	}
	lines, err := r.findLines(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return &entry, nil
}

// FindEntryByReference returns the newest non-voided entry for an external record.
func (r *PgxJournalRepository) FindEntryByReference(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE reference_type = $1 AND reference_id = $2 AND status <> 'voided'
		ORDER BY created_at DESC
		LIMIT 1;
	`
	entry, err := scanEntry(r.db(ctx).QueryRow(ctx, query, string(refType), refID))
	if err != nil {
		return nil, mapReadError(err, "journal entry for "+string(refType)+" "+refID)
	}
	lines, err := r.findLines(ctx, entry.EntryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return &entry, nil
}

// ListEntries retrieves a page of entry headers using token-based pagination.
// It returns the entries, a token for the next page, and an error.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, filter domain.JournalFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	var conditions []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conditions = append(conditions, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}
	if filter.Status != nil {
		add("status = ?", string(*filter.Status))
	}
	if filter.From != nil {
		add("entry_date >= ?", domain.DateOnly(*filter.From))
	}
	if filter.To != nil {
		add("entry_date <= ?", domain.DateOnly(*filter.To))
	}
	if filter.ReferenceType != domain.RefNone {
		add("reference_type = ?", string(filter.ReferenceType))
	}
	if filter.ReferenceID != "" {
		add("reference_id = ?", filter.ReferenceID)
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeEntryCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursor.EntryDate, cursor.CreatedAt, cursor.EntryID)
		conditions = append(conditions, fmt.Sprintf("(entry_date, created_at, entry_id) < ($%d, $%d, $%d)", len(args)-2, len(args)-1, len(args)))
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, fetchLimit)
	// created_at then entry_id break ties so the cursor comparison is total.
	query += " ORDER BY entry_date DESC, created_at DESC, entry_id DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list journal entries", err)
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal entry rows", err)
	}

	if len(entries) <= limit {
		return entries, nil, nil
	}
	// The token points to the last item included in this page.
	last := entries[limit-1]
	token := pagination.EntryCursor{EntryDate: last.EntryDate, CreatedAt: last.CreatedAt, EntryID: last.EntryID}.Encode()
	return entries[:limit], &token, nil
}

// UpdateDraftEntry rewrites the header and replaces the lines of a draft entry.
func (r *PgxJournalRepository) UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE journal_entries
		SET entry_date = $2, description = $3, reference_type = $4, reference_id = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE entry_id = $1 AND status = 'draft';`,
		m.EntryID,
		m.EntryDate,
		m.Description,
		m.ReferenceType,
		m.ReferenceID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "journal entry "+m.EntryNumber)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s is no longer a draft", apperrors.ErrConflict, m.EntryNumber)
	}

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM journal_lines WHERE entry_id = $1;`, m.EntryID)
	queueLines(batch, entry.Lines)
	if err := r.db(ctx).SendBatch(ctx, batch).Close(); err != nil {
		return mapWriteError(err, "lines of journal entry "+m.EntryNumber)
	}
	return nil
}

// DeleteDraftEntry removes a draft entry; lines go with it through ON DELETE CASCADE.
func (r *PgxJournalRepository) DeleteDraftEntry(ctx context.Context, entryID string) error {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1 AND status = 'draft';`, entryID)
	if err != nil {
		return mapWriteError(err, "journal entry "+entryID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s is not a draft", apperrors.ErrConflict, entryID)
	}
	return nil
}

// TransitionEntry changes the status only when the row still has the expected one.
func (r *PgxJournalRepository) TransitionEntry(ctx context.Context, t domain.EntryTransition) error {
	var query string
	args := []any{t.EntryID, string(t.From), string(t.To), t.At, t.By}
	switch t.To {
	case domain.EntryPosted:
		query = `
			UPDATE journal_entries
			SET status = $3, posted_at = $4, posted_by = $5, last_updated_at = $4, last_updated_by = $5
			WHERE entry_id = $1 AND status = $2;`
	case domain.EntryVoided:
		query = `
			UPDATE journal_entries
			SET status = $3, voided_at = $4, voided_by = $5, void_reason = $6, last_updated_at = $4, last_updated_by = $5
			WHERE entry_id = $1 AND status = $2;`
		args = append(args, t.Reason)
	default:
		return fmt.Errorf("%w: cannot move a journal entry to %s", apperrors.ErrValidation, t.To)
	}

	tag, err := r.db(ctx).Exec(ctx, query, args...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of journal entry "+t.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s is no longer %s", apperrors.ErrConflict, t.EntryID, t.From)
	}
	return nil
}
