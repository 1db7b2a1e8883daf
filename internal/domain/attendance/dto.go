package attendance

import (
	"time"

	"github.com/sowaboubacar/bearh-sub003/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type AddEntryRequest struct {
	UserID    string `json:"user_id,omitempty"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"` // RFC3339
}

func (r *AddEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Type, EntryTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of check_in, check_out, break_start, break_end",
		})
	}

	if validator.IsEmpty(r.Timestamp) {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp is required",
		})
	} else if _, ok := validator.IsValidDateTime(r.Timestamp); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp must be a valid RFC3339 instant",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ParsedTimestamp returns the punch instant in UTC. Call Validate first.
func (r *AddEntryRequest) ParsedTimestamp() time.Time {
	t, _ := validator.IsValidDateTime(r.Timestamp)
	return t.UTC()
}

type MetricsRequest struct {
	UserID           string `json:"user_id,omitempty"`
	StartDate        string `json:"start_date"` // YYYY-MM-DD
	EndDate          string `json:"end_date"`   // YYYY-MM-DD
	ReferenceCheckIn string `json:"reference_check_in,omitempty"` // HH:MM lateness cutoff
}

func (r *MetricsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if r.ReferenceCheckIn != "" {
		if _, ok := validator.IsValidTimeOfDay(r.ReferenceCheckIn); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "reference_check_in",
				Message: "reference_check_in must be in HH:MM format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TeamMetricsRequest struct {
	UserIDs          []string `json:"user_ids"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	ReferenceCheckIn string   `json:"reference_check_in,omitempty"`
}

func (r *TeamMetricsRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.UserIDs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "user_ids",
			Message: "at least one user_id is required",
		})
	}

	m := MetricsRequest{StartDate: r.StartDate, EndDate: r.EndDate, ReferenceCheckIn: r.ReferenceCheckIn}
	if err := m.Validate(); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, verrs...)
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateNotesRequest struct {
	UserID string  `json:"user_id,omitempty"`
	Date   string  `json:"date"` // YYYY-MM-DD
	Notes  *string `json:"notes"`
}

func (r *UpdateNotesRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// RESPONSES / READ MODELS
// ========================================

type EntryResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

type RecordResponse struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	Date              string          `json:"date"`
	Entries           []EntryResponse `json:"entries"`
	Status            string          `json:"status"`
	TotalWorkMinutes  int             `json:"total_work_minutes"`
	TotalBreakMinutes int             `json:"total_break_minutes"`
	Notes             *string         `json:"notes,omitempty"`
	CreatedAt         string          `json:"created_at"`
	UpdatedAt         string          `json:"updated_at"`
}

// DailySummary is the per-day projection used for range aggregation and
// charting. It is computed on read, never persisted.
type DailySummary struct {
	Date              string `json:"date"`
	TotalWorkMinutes  int    `json:"total_work_minutes"`
	TotalBreakMinutes int    `json:"total_break_minutes"`
	IsLate            bool   `json:"is_late"`
	IsAbsent          bool   `json:"is_absent"`
}

// OverallSummary folds a range of daily summaries. AverageWorkMinutes divides
// by the number of days that logged at least one entry, so empty days do not
// dilute the average.
type OverallSummary struct {
	TotalWorkMinutes   int `json:"total_work_minutes"`
	TotalBreakMinutes  int `json:"total_break_minutes"`
	LateCount          int `json:"late_count"`
	AbsentCount        int `json:"absent_count"`
	AverageWorkMinutes int `json:"average_work_minutes"`
}

type AggregatedMetricsResponse struct {
	DailySummaries []DailySummary `json:"daily_summaries"`
	OverallSummary OverallSummary `json:"overall_summary"`
}
