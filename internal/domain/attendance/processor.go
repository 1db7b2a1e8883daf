package attendance

import (
	"math"
	"sort"
	"time"
)

// DerivedTotals is the output of folding an entry log: the fields of a Record
// that are never stored independently of its entries.
type DerivedTotals struct {
	TotalWorkMinutes  int
	TotalBreakMinutes int
	Status            Status
}

// Derive folds an entry log into accumulated work/break time and a status.
// It is a pure function of the entries: callers persist the result, nothing
// here mutates state.
//
// Entries may arrive in any order; they are stable-sorted by timestamp first,
// so two entries sharing an instant keep their insertion order. The fold then
// runs a single pass with at most one open work interval and one open break
// interval:
//
//   - check_in opens a work interval, superseding any dangling one
//   - check_out closes the open work interval; orphans are ignored
//   - break_start closes the open work interval and opens a break
//   - break_end closes the open break and immediately reopens work
//
// Unmatched events contribute no time and never raise an error. Totals
// accumulate at millisecond precision and round to whole minutes at the end.
// Status follows the last entry in chronological order; an empty log yields
// zero totals and absent, the state of a day nobody punched.
func Derive(entries []Entry) DerivedTotals {
	if len(entries) == 0 {
		return DerivedTotals{Status: StatusAbsent}
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var (
		workStart  *time.Time
		breakStart *time.Time
		totalWork  time.Duration
		totalBreak time.Duration
	)

	for i := range sorted {
		e := &sorted[i]
		ts := e.Timestamp

		switch e.Type {
		case EntryCheckIn:
			workStart = &ts

		case EntryCheckOut:
			if workStart != nil {
				totalWork += ts.Sub(*workStart)
				workStart = nil
			}

		case EntryBreakStart:
			if workStart != nil {
				totalWork += ts.Sub(*workStart)
				workStart = nil
			}
			breakStart = &ts

		case EntryBreakEnd:
			if breakStart != nil {
				totalBreak += ts.Sub(*breakStart)
				breakStart = nil
				workStart = &ts
			}
		}
	}

	return DerivedTotals{
		TotalWorkMinutes:  roundToMinutes(totalWork),
		TotalBreakMinutes: roundToMinutes(totalBreak),
		Status:            statusForEntry(sorted[len(sorted)-1].Type),
	}
}

func roundToMinutes(d time.Duration) int {
	return int(math.Round(float64(d.Milliseconds()) / 60000.0))
}

// statusForEntry maps the last applied entry type to a record status. The
// check_out -> absent mapping is deliberate: it mirrors the behavior the
// reporting layer was built against.
func statusForEntry(t EntryType) Status {
	switch t {
	case EntryCheckIn, EntryBreakEnd:
		return StatusPresent
	case EntryCheckOut:
		return StatusAbsent
	case EntryBreakStart:
		return StatusOnBreak
	}
	return StatusAbsent
}
