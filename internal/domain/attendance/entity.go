package attendance

import (
	"time"
)

// EntryType is the kind of clock event an employee punches.
type EntryType string

const (
	EntryCheckIn    EntryType = "check_in"
	EntryCheckOut   EntryType = "check_out"
	EntryBreakStart EntryType = "break_start"
	EntryBreakEnd   EntryType = "break_end"
)

// EntryTypes lists every accepted entry type, in punch order of a typical day.
var EntryTypes = []string{
	string(EntryCheckIn),
	string(EntryBreakStart),
	string(EntryBreakEnd),
	string(EntryCheckOut),
}

// Valid reports whether t is one of the accepted entry types.
func (t EntryType) Valid() bool {
	switch t {
	case EntryCheckIn, EntryCheckOut, EntryBreakStart, EntryBreakEnd:
		return true
	}
	return false
}

// Status is the derived state of a record after its latest entry.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusOnBreak Status = "on_break"
)

// Entry is a single typed, timestamped clock event. Timestamps are stored as
// absolute UTC instants; the calendar day they belong to is derived with the
// organizational timezone.
type Entry struct {
	ID        string
	Type      EntryType
	Timestamp time.Time
}

// Record is the per-(user, date) aggregate of entries plus derived totals.
// TotalWorkMinutes and TotalBreakMinutes are fully determined by Entries and
// are recomputed on every append, never set independently.
type Record struct {
	ID                string
	UserID            string
	Date              time.Time // calendar day at midnight in the org timezone
	Entries           []Entry
	Status            Status
	TotalWorkMinutes  int
	TotalBreakMinutes int
	Notes             *string
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// EarliestCheckIn returns the first check-in entry of the day by timestamp,
// or nil if the record has none.
func (r *Record) EarliestCheckIn() *Entry {
	var earliest *Entry
	for i := range r.Entries {
		e := &r.Entries[i]
		if e.Type != EntryCheckIn {
			continue
		}
		if earliest == nil || e.Timestamp.Before(earliest.Timestamp) {
			earliest = e
		}
	}
	return earliest
}
