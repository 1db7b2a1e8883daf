// Package memory provides an in-process RecordRepository. It backs the unit
// tests and doubles as a storage mode for single-node deployments where
// attendance history does not need to outlive the process.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sowaboubacar/bearh-sub003/internal/domain/attendance"
)

type recordKey struct {
	userID string
	date   string
}

// slot owns one (user, date) record. Its mutex serializes appends per key;
// slots for different keys never contend with each other.
type slot struct {
	mu     sync.Mutex
	record attendance.Record
}

type RecordRepository struct {
	mu    sync.Mutex // guards slots map shape only
	slots map[recordKey]*slot
}

func NewRecordRepository() *RecordRepository {
	return &RecordRepository{
		slots: make(map[recordKey]*slot),
	}
}

func keyOf(userID string, date time.Time) recordKey {
	return recordKey{userID: userID, date: date.Format("2006-01-02")}
}

// GetByUserAndDate implements attendance.RecordRepository.
func (r *RecordRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	s, ok := r.slots[keyOf(userID, date)]
	r.mu.Unlock()
	if !ok {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	record := cloneRecord(s.record)
	return &record, nil
}

// AppendEntry implements attendance.RecordRepository.
func (r *RecordRepository) AppendEntry(ctx context.Context, userID string, date time.Time, entry attendance.Entry) (attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Record{}, err
	}
	if !entry.Type.Valid() {
		return attendance.Record{}, attendance.ErrInvalidEntryType
	}

	key := keyOf(userID, date)

	r.mu.Lock()
	s, ok := r.slots[key]
	if !ok {
		now := time.Now().UTC()
		s = &slot{record: attendance.Record{
			ID:        uuid.NewString(),
			UserID:    userID,
			Date:      time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
			Status:    attendance.StatusAbsent,
			CreatedAt: now,
			UpdatedAt: now,
		}}
		r.slots[key] = s
	}
	r.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.record.Entries = append(s.record.Entries, entry)
	derived := attendance.Derive(s.record.Entries)
	s.record.Status = derived.Status
	s.record.TotalWorkMinutes = derived.TotalWorkMinutes
	s.record.TotalBreakMinutes = derived.TotalBreakMinutes
	s.record.Version++
	s.record.UpdatedAt = time.Now().UTC()

	return cloneRecord(s.record), nil
}

// ListRange implements attendance.RecordRepository.
func (r *RecordRepository) ListRange(ctx context.Context, userID string, start time.Time, end time.Time) ([]attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	matched := make([]*slot, 0)
	for key, s := range r.slots {
		if key.userID != userID {
			continue
		}
		day, _ := time.Parse("2006-01-02", key.date)
		if day.Before(start) || day.After(end) {
			continue
		}
		matched = append(matched, s)
	}
	r.mu.Unlock()

	records := make([]attendance.Record, 0, len(matched))
	for _, s := range matched {
		s.mu.Lock()
		records = append(records, cloneRecord(s.record))
		s.mu.Unlock()
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	return records, nil
}

// UpdateNotes implements attendance.RecordRepository.
func (r *RecordRepository) UpdateNotes(ctx context.Context, userID string, date time.Time, notes *string) (attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Record{}, err
	}

	r.mu.Lock()
	s, ok := r.slots[keyOf(userID, date)]
	r.mu.Unlock()
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.record.Notes = notes
	s.record.UpdatedAt = time.Now().UTC()

	return cloneRecord(s.record), nil
}

// cloneRecord deep-copies a record so callers never alias the stored entries.
func cloneRecord(record attendance.Record) attendance.Record {
	out := record
	out.Entries = make([]attendance.Entry, len(record.Entries))
	copy(out.Entries, record.Entries)
	if record.Notes != nil {
		notes := *record.Notes
		out.Notes = &notes
	}
	return out
}
