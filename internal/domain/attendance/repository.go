package attendance

import (
	"context"
	"time"
)

// RecordRepository defines data access for per-(user, date) attendance records.
// AppendEntry is the only write path for entries: it creates the record when
// absent, appends the entry, re-derives totals and status, and persists the
// result atomically. Implementations must serialize concurrent appends to the
// same (user, date) key; appends to different keys are independent.
type RecordRepository interface {
	// GetByUserAndDate returns the record for one calendar day, or nil when
	// the user produced no entries that day.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Record, error)

	// AppendEntry appends a clock event and returns the recomputed record.
	// Returns ErrConcurrentUpdate when conflicting appends exhaust retries.
	AppendEntry(ctx context.Context, userID string, date time.Time, entry Entry) (Record, error)

	// ListRange returns the records with at least one entry in [start, end],
	// ordered by date ascending. Days without a record are simply missing.
	ListRange(ctx context.Context, userID string, start time.Time, end time.Time) ([]Record, error)

	// UpdateNotes sets the free-text annotation on an existing record.
	UpdateNotes(ctx context.Context, userID string, date time.Time, notes *string) (Record, error)
}
