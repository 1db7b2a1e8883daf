package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sowaboubacar/bearh-sub003/internal/domain/attendance"
	"github.com/sowaboubacar/bearh-sub003/internal/pkg/database"
)

// maxAppendRetries bounds how often a conflicting append is retried before
// the conflict is surfaced to the caller as a transient condition.
const maxAppendRetries = 3

type recordRepository struct {
	db *database.DB
}

func NewRecordRepository(db *database.DB) attendance.RecordRepository {
	return &recordRepository{db: db}
}

// GetByUserAndDate implements attendance.RecordRepository.
func (r *recordRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, date, status, total_work_minutes, total_break_minutes,
		       notes, version, created_at, updated_at
		FROM attendance_records
		WHERE user_id = $1
		  AND date = $2
		LIMIT 1
	`

	var record attendance.Record
	err := q.QueryRow(ctx, query, userID, date).Scan(
		&record.ID, &record.UserID, &record.Date, &record.Status,
		&record.TotalWorkMinutes, &record.TotalBreakMinutes,
		&record.Notes, &record.Version, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no entries that day
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}

	entries, err := r.loadEntries(ctx, q, []string{record.ID})
	if err != nil {
		return nil, err
	}
	record.Entries = entries[record.ID]

	return &record, nil
}

// AppendEntry implements attendance.RecordRepository. The record row is
// locked for the duration of the transaction, so two punches for the same
// (user, date) never interleave around the derive step. Creation of a brand
// new day can still race on the unique (user_id, date) index; losers of that
// race retry against the now-existing row.
func (r *recordRepository) AppendEntry(ctx context.Context, userID string, date time.Time, entry attendance.Entry) (attendance.Record, error) {
	if !entry.Type.Valid() {
		return attendance.Record{}, attendance.ErrInvalidEntryType
	}

	var out attendance.Record

	for attempt := 0; attempt < maxAppendRetries; attempt++ {
		err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
			record, err := r.lockRecord(ctx, tx, userID, date)
			if err != nil {
				if !errors.Is(err, pgx.ErrNoRows) {
					return err
				}
				record, err = r.createRecord(ctx, tx, userID, date)
				if err != nil {
					return err
				}
			}

			if _, err := tx.Exec(ctx, `
				INSERT INTO attendance_entries (id, record_id, entry_type, occurred_at, created_at)
				VALUES ($1, $2, $3, $4, NOW())
			`, entry.ID, record.ID, string(entry.Type), entry.Timestamp); err != nil {
				return fmt.Errorf("failed to insert attendance entry: %w", err)
			}

			entries, err := r.loadEntries(ctx, tx, []string{record.ID})
			if err != nil {
				return err
			}
			record.Entries = entries[record.ID]

			derived := attendance.Derive(record.Entries)
			record.Status = derived.Status
			record.TotalWorkMinutes = derived.TotalWorkMinutes
			record.TotalBreakMinutes = derived.TotalBreakMinutes

			if err := tx.QueryRow(ctx, `
				UPDATE attendance_records
				SET status = $1, total_work_minutes = $2, total_break_minutes = $3,
				    version = version + 1, updated_at = NOW()
				WHERE id = $4
				RETURNING version, updated_at
			`, string(record.Status), record.TotalWorkMinutes, record.TotalBreakMinutes, record.ID,
			).Scan(&record.Version, &record.UpdatedAt); err != nil {
				return fmt.Errorf("failed to update attendance record: %w", err)
			}

			out = record
			return nil
		})

		if err == nil {
			return out, nil
		}
		if isUniqueViolation(err) {
			continue
		}
		return attendance.Record{}, err
	}

	return attendance.Record{}, attendance.ErrConcurrentUpdate
}

// ListRange implements attendance.RecordRepository.
func (r *recordRepository) ListRange(ctx context.Context, userID string, start time.Time, end time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, date, status, total_work_minutes, total_break_minutes,
		       notes, version, created_at, updated_at
		FROM attendance_records
		WHERE user_id = $1
		  AND date >= $2
		  AND date <= $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	var recordIDs []string
	for rows.Next() {
		var record attendance.Record
		err := rows.Scan(
			&record.ID, &record.UserID, &record.Date, &record.Status,
			&record.TotalWorkMinutes, &record.TotalBreakMinutes,
			&record.Notes, &record.Version, &record.CreatedAt, &record.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, record)
		recordIDs = append(recordIDs, record.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	if len(recordIDs) == 0 {
		return records, nil
	}

	entries, err := r.loadEntries(ctx, q, recordIDs)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Entries = entries[records[i].ID]
	}

	return records, nil
}

// UpdateNotes implements attendance.RecordRepository.
func (r *recordRepository) UpdateNotes(ctx context.Context, userID string, date time.Time, notes *string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET notes = $1, updated_at = NOW()
		WHERE user_id = $2 AND date = $3
		RETURNING id
	`

	var id string
	if err := q.QueryRow(ctx, query, notes, userID, date).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance notes: %w", err)
	}

	record, err := r.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return attendance.Record{}, err
	}
	if record == nil {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}

	return *record, nil
}

// lockRecord selects the record row FOR UPDATE, serializing appends per key.
func (r *recordRepository) lockRecord(ctx context.Context, tx pgx.Tx, userID string, date time.Time) (attendance.Record, error) {
	query := `
		SELECT id, user_id, date, status, total_work_minutes, total_break_minutes,
		       notes, version, created_at, updated_at
		FROM attendance_records
		WHERE user_id = $1
		  AND date = $2
		FOR UPDATE
	`

	var record attendance.Record
	err := tx.QueryRow(ctx, query, userID, date).Scan(
		&record.ID, &record.UserID, &record.Date, &record.Status,
		&record.TotalWorkMinutes, &record.TotalBreakMinutes,
		&record.Notes, &record.Version, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}

	return record, nil
}

// createRecord lazily creates the day's record on its first entry.
func (r *recordRepository) createRecord(ctx context.Context, tx pgx.Tx, userID string, date time.Time) (attendance.Record, error) {
	record := attendance.Record{
		ID:     uuid.NewString(),
		UserID: userID,
		Date:   date,
		Status: attendance.StatusAbsent,
	}

	err := tx.QueryRow(ctx, `
		INSERT INTO attendance_records (
			id, user_id, date, status, total_work_minutes, total_break_minutes,
			version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, 0, 0, 0, NOW(), NOW())
		RETURNING version, created_at, updated_at
	`, record.ID, record.UserID, record.Date, string(record.Status),
	).Scan(&record.Version, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return record, nil
}

// loadEntries fetches entry logs for a set of records, ordered by timestamp
// with ties broken by insertion order.
func (r *recordRepository) loadEntries(ctx context.Context, q database.Querier, recordIDs []string) (map[string][]attendance.Entry, error) {
	query := `
		SELECT id, record_id, entry_type, occurred_at
		FROM attendance_entries
		WHERE record_id = ANY($1)
		ORDER BY occurred_at ASC, created_at ASC
	`

	rows, err := q.Query(ctx, query, recordIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance entries: %w", err)
	}
	defer rows.Close()

	entries := make(map[string][]attendance.Entry, len(recordIDs))
	for rows.Next() {
		var entry attendance.Entry
		var recordID string
		if err := rows.Scan(&entry.ID, &recordID, &entry.Type, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan attendance entry: %w", err)
		}
		entries[recordID] = append(entries[recordID], entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance entries: %w", err)
	}

	return entries, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
