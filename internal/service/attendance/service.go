package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/sowaboubacar/bearh-sub003/internal/domain/attendance"
	"github.com/sowaboubacar/bearh-sub003/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendance.RecordRepository
	loc              *time.Location
	defaultReference string
}

func NewAttendanceService(
	recordRepo attendance.RecordRepository,
	loc *time.Location,
	defaultReference string,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		RecordRepository: recordRepo,
		loc:              loc,
		defaultReference: defaultReference,
	}
}

// resolveUserID prefers an explicit user id (admin reporting on someone else)
// and falls back to the authenticated user's claim.
func resolveUserID(ctx context.Context, requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}
	return userID, nil
}

// dateOf buckets an absolute instant into its calendar day in the
// organizational timezone. The day is carried as a date-only value.
func (s *AttendanceServiceImpl) dateOf(ts time.Time) time.Time {
	local := ts.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// AddEntry implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) AddEntry(ctx context.Context, req attendance.AddEntryRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	userID, err := resolveUserID(ctx, req.UserID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	ts := req.ParsedTimestamp()
	entry := attendance.Entry{
		ID:        uuid.NewString(),
		Type:      attendance.EntryType(req.Type),
		Timestamp: ts,
	}

	record, err := s.RecordRepository.AppendEntry(ctx, userID, s.dateOf(ts), entry)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to append attendance entry: %w", err)
	}

	return mapRecordToResponse(record), nil
}

// GetRecord implements attendance.AttendanceService. A day without entries is
// a valid state: it comes back as an empty absent record, not an error.
func (s *AttendanceServiceImpl) GetRecord(ctx context.Context, userID string, date string) (attendance.RecordResponse, error) {
	resolvedID, err := resolveUserID(ctx, userID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	day, ok := validator.IsValidDate(date)
	if !ok {
		return attendance.RecordResponse{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}

	record, err := s.RecordRepository.GetByUserAndDate(ctx, resolvedID, day)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	if record == nil {
		return attendance.RecordResponse{
			UserID:  resolvedID,
			Date:    day.Format("2006-01-02"),
			Entries: []attendance.EntryResponse{},
			Status:  string(attendance.StatusAbsent),
		}, nil
	}

	return mapRecordToResponse(*record), nil
}

// UpdateNotes implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateNotes(ctx context.Context, req attendance.UpdateNotesRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	userID, err := resolveUserID(ctx, req.UserID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	day, _ := validator.IsValidDate(req.Date)

	record, err := s.RecordRepository.UpdateNotes(ctx, userID, day, req.Notes)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return mapRecordToResponse(record), nil
}

// GetAggregatedMetrics implements attendance.AttendanceService. One record
// fetch covers the whole range; every calendar day in [start, end] produces
// exactly one DailySummary, so callers can zip the result against a date axis.
func (s *AttendanceServiceImpl) GetAggregatedMetrics(ctx context.Context, req attendance.MetricsRequest) (attendance.AggregatedMetricsResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AggregatedMetricsResponse{}, err
	}

	userID, err := resolveUserID(ctx, req.UserID)
	if err != nil {
		return attendance.AggregatedMetricsResponse{}, err
	}

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)
	if start.After(end) {
		return attendance.AggregatedMetricsResponse{}, attendance.ErrInvalidDateRange
	}

	reference := req.ReferenceCheckIn
	if reference == "" {
		reference = s.defaultReference
	}
	refTime, _ := validator.IsValidTimeOfDay(reference)
	refMinutes := refTime.Hour()*60 + refTime.Minute()

	records, err := s.RecordRepository.ListRange(ctx, userID, start, end)
	if err != nil {
		return attendance.AggregatedMetricsResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	byDate := make(map[string]*attendance.Record, len(records))
	for i := range records {
		byDate[records[i].Date.Format("2006-01-02")] = &records[i]
	}

	var dailies []attendance.DailySummary
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		// A cancelled report request stops here and discards partial results.
		if err := ctx.Err(); err != nil {
			return attendance.AggregatedMetricsResponse{}, err
		}

		dateStr := day.Format("2006-01-02")
		summary := attendance.DailySummary{Date: dateStr, IsAbsent: true}

		if record := byDate[dateStr]; record != nil {
			summary.TotalWorkMinutes = record.TotalWorkMinutes
			summary.TotalBreakMinutes = record.TotalBreakMinutes
			// Absence means a day with zero entries, not status == absent:
			// a checked-out day still logged real work.
			summary.IsAbsent = len(record.Entries) == 0
			summary.IsLate = s.isLate(record, refMinutes)
		}

		dailies = append(dailies, summary)
	}

	return attendance.AggregatedMetricsResponse{
		DailySummaries: dailies,
		OverallSummary: foldOverall(dailies),
	}, nil
}

// isLate compares the day's earliest check-in against the reference cutoff at
// minute granularity, in the organizational timezone. A day with no check-in
// is never late; it is already captured as absent.
func (s *AttendanceServiceImpl) isLate(record *attendance.Record, refMinutes int) bool {
	first := record.EarliestCheckIn()
	if first == nil {
		return false
	}
	local := first.Timestamp.In(s.loc)
	return local.Hour()*60+local.Minute() > refMinutes
}

// foldOverall folds daily summaries into the range-wide summary. Days with
// zero entries stay out of the average's denominator.
func foldOverall(dailies []attendance.DailySummary) attendance.OverallSummary {
	var overall attendance.OverallSummary
	activeDays := 0

	for _, d := range dailies {
		overall.TotalWorkMinutes += d.TotalWorkMinutes
		overall.TotalBreakMinutes += d.TotalBreakMinutes
		if d.IsLate {
			overall.LateCount++
		}
		if d.IsAbsent {
			overall.AbsentCount++
		} else {
			activeDays++
		}
	}

	if activeDays > 0 {
		overall.AverageWorkMinutes = int(math.Round(float64(overall.TotalWorkMinutes) / float64(activeDays)))
	}

	return overall
}

func mapRecordToResponse(record attendance.Record) attendance.RecordResponse {
	entries := make([]attendance.EntryResponse, 0, len(record.Entries))
	for _, e := range record.Entries {
		entries = append(entries, attendance.EntryResponse{
			ID:        e.ID,
			Type:      string(e.Type),
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
		})
	}

	return attendance.RecordResponse{
		ID:                record.ID,
		UserID:            record.UserID,
		Date:              record.Date.Format("2006-01-02"),
		Entries:           entries,
		Status:            string(record.Status),
		TotalWorkMinutes:  record.TotalWorkMinutes,
		TotalBreakMinutes: record.TotalBreakMinutes,
		Notes:             record.Notes,
		CreatedAt:         record.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:         record.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
