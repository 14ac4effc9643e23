package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// EntryCursor is the position of the last journal entry on a page.
// Entries are listed newest first by entry date, then creation time, then ID.
type EntryCursor struct {
	EntryDate time.Time
	CreatedAt time.Time
	EntryID   string
}

// Encode renders the cursor as an opaque token that is safe inside a query string.
func (c EntryCursor) Encode() string {
	tokenStr := strings.Join([]string{c.EntryDate.Format(timeFormat), c.CreatedAt.Format(timeFormat), c.EntryID}, "|")
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeEntryCursor parses a token produced by EntryCursor.Encode.
func DecodeEntryCursor(token string) (EntryCursor, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	entryDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (entry date parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	return EntryCursor{EntryDate: entryDate, CreatedAt: createdAt, EntryID: parts[2]}, nil
}
