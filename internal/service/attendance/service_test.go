package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sowaboubacar/bearh-sub003/internal/domain/attendance"
	"github.com/sowaboubacar/bearh-sub003/internal/repository/memory"
)

const testUserID = "user-1"

// authedContext builds a request context carrying the user_id claim the way
// the jwtauth verifier middleware would.
func authedContext(t *testing.T, userID string) context.Context {
	tokenAuth := jwtauth.New("HS256", []byte("test-secret-key"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"type":    "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func newTestService(repo attendance.RecordRepository) attendance.AttendanceService {
	return NewAttendanceService(repo, time.UTC, "09:00")
}

func punch(t *testing.T, ctx context.Context, svc attendance.AttendanceService, entryType string, ts string) attendance.RecordResponse {
	rec, err := svc.AddEntry(ctx, attendance.AddEntryRequest{
		Type:      entryType,
		Timestamp: ts,
	})
	require.NoError(t, err)
	return rec
}

// ===== ADD ENTRY =====

func TestAddEntry_FullDay(t *testing.T) {
	t.Parallel()
	ctx := authedContext(t, testUserID)
	svc := newTestService(memory.NewRecordRepository())

	punch(t, ctx, svc, "check_in", "2025-03-10T09:00:00Z")
	punch(t, ctx, svc, "break_start", "2025-03-10T12:00:00Z")
	punch(t, ctx, svc, "break_end", "2025-03-10T13:00:00Z")
	rec := punch(t, ctx, svc, "check_out", "2025-03-10T17:00:00Z")

	assert.Equal(t, "2025-03-10", rec.Date)
	assert.Equal(t, 420, rec.TotalWorkMinutes)
	assert.Equal(t, 60, rec.TotalBreakMinutes)
	assert.Equal(t, "absent", rec.Status)
	assert.Len(t, rec.Entries, 4)
}

func TestAddEntry_StatusProgression(t *testing.T) {
	t.Parallel()
	ctx := authedContext(t, testUserID)
	svc := newTestService(memory.NewRecordRepository())

	rec := punch(t, ctx, svc, "check_in", "2025-03-10T09:00:00Z")
	assert.Equal(t, "present", rec.Status)

	rec = punch(t, ctx, svc, "break_start", "2025-03-10T12:00:00Z")
	assert.Equal(t, "on_break", rec.Status)

	rec = punch(t, ctx, svc, "break_end", "2025-03-10T13:00:00Z")
	assert.Equal(t, "present", rec.Status)
}

func TestAddEntry_InvalidType(t *testing.T) {
	t.Parallel()
	ctx := authedContext(t, testUserID)
	svc := newTestService(memory.NewRecordRepository())

	_, err := svc.AddEntry(ctx, attendance.AddEntryRequest{
		Type:      "lunch",
		Timestamp: "2025-03-10T09:00:00Z",
	})
	assert.Error(t, err)
}

func TestAddEntry_InvalidTimestamp(t *testing.T) {
	t.Parallel()
	ctx := authedContext(t, testUserID)
	svc := newTestService(memory.NewRecordRepository())

	_, err := svc.AddEntry(ctx, attendance.AddEntryRequest{
		Type:      "check_in",
		Timestamp: "2025-03-10 09:00",
	})
	assert.Error(t, err)
}

func TestAddEntry_BucketsByOrgTimezone(t *testing.T) {
	t.Parallel()
	ctx := authedContext(t, testUserID)

	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	svc := NewAttendanceService(memory.NewRecordRepository(), jakarta, "09:00")

	// 18:00 UTC is 01:00 the next day in UTC+7
	rec := punch(t, ctx, svc, "check_in", "2025-03-10T18:00:00Z")
	assert.Equal(t, "2025-03-11", rec.Date)
}

// ===== GET RECORD =====

func TestGetRecord_EmptyDayIsAbsentNotError(t *testing.T) {
	t.Parallel()
	ctx := authedContext(t, testUserID)
	svc := newTestService(memory.NewRecordRepository())

	rec, err := svc.GetRecord(ctx, "", "2025-03-10")
	require.NoError(t, err)

	assert.Equal(t, testUserID, rec.UserID)
	assert.Equal(t, "absent", rec.Status)
	assert.Equal(t, 0, rec.TotalWorkMinutes)
	assert.Empty(t, rec.Entries)
}

func TestGetRecord_InvalidDate(t *testing.T) {
	t.Parallel()
	ctx := authedContext(t, testUserID)
	svc := newTestService(memory.NewRecordRepository())

	_, err := svc.GetRecord(ctx, "", "10-03-2025")
	assert.Error(t, err)
}

// ===== UPDATE NOTES =====

func TestUpdateNotes(t *testing.T) {
	t.Parallel()
	ctx := authedContext(t, testUserID)
	svc := newTestService(memory.NewRecordRepository())

	punch(t, ctx, svc, "check_in", "2025-03-10T09:00:00Z")

	notes := "approved remote work"
	rec, err := svc.UpdateNotes(ctx, attendance.UpdateNotesRequest{
		Date:  "2025-03-10",
		Notes: &notes,
	})
	require.NoError(t, err)
	require.NotNil(t, rec.Notes)
	assert.Equal(t, notes, *rec.Notes)
}

func TestUpdateNotes_MissingRecord(t *testing.T) {
	t.Parallel()
	ctx := authedContext(t, testUserID)
	svc := newTestService(memory.NewRecordRepository())

	notes := "nothing to annotate"
	_, err := svc.UpdateNotes(ctx, attendance.UpdateNotesRequest{
		Date:  "2025-03-10",
		Notes: &notes,
	})
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
}

// ===== AGGREGATED METRICS =====

func TestGetAggregatedMetrics_RangeShape(t *testing.T) {
	t.Parallel()
	ctx := authedContext(t, testUserID)
	svc := newTestService(memory.NewRecordRepository())

	// Two working days inside a five-day range
	punch(t, ctx, svc, "check_in", "2025-03-10T09:00:00Z")
	punch(t, ctx, svc, "check_out", "2025-03-10T17:00:00Z")
	punch(t, ctx, svc, "check_in", "2025-03-12T10:15:00Z")
	punch(t, ctx, svc, "check_out", "2025-03-12T16:15:00Z")

	got, err := svc.GetAggregatedMetrics(ctx, attendance.MetricsRequest{
		StartDate:        "2025-03-10",
		EndDate:          "2025-03-14",
		ReferenceCheckIn: "10:00",
	})
	require.NoError(t, err)

	// One summary per calendar day, ascending, no gaps
	require.Len(t, got.DailySummaries, 5)
	for i, want := range []string{"2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13", "2025-03-14"} {
		assert.Equal(t, want, got.DailySummaries[i].Date)
	}

	day0 := got.DailySummaries[0]
	assert.Equal(t, 480, day0.TotalWorkMinutes)
	assert.False(t, day0.IsAbsent)
	assert.False(t, day0.IsLate) // 09:00 <= 10:00 cutoff

	day1 := got.DailySummaries[1]
	assert.True(t, day1.IsAbsent)
	assert.False(t, day1.IsLate)
	assert.Equal(t, 0, day1.TotalWorkMinutes)

	day2 := got.DailySummaries[2]
	assert.Equal(t, 360, day2.TotalWorkMinutes)
	assert.True(t, day2.IsLate) // 10:15 > 10:00 cutoff
	assert.False(t, day2.IsAbsent)
}

func TestGetAggregatedMetrics_Overall(t *testing.T) {
	t.Parallel()
	ctx := authedContext(t, testUserID)
	svc := newTestService(memory.NewRecordRepository())

	punch(t, ctx, svc, "check_in", "2025-03-10T09:00:00Z")
	punch(t, ctx, svc, "break_start", "2025-03-10T12:00:00Z")
	punch(t, ctx, svc, "break_end", "2025-03-10T12:30:00Z")
	punch(t, ctx, svc, "check_out", "2025-03-10T17:00:00Z")
	punch(t, ctx, svc, "check_in", "2025-03-12T10:15:00Z")
	punch(t, ctx, svc, "check_out", "2025-03-12T16:15:00Z")

	got, err := svc.GetAggregatedMetrics(ctx, attendance.MetricsRequest{
		StartDate:        "2025-03-10",
		EndDate:          "2025-03-14",
		ReferenceCheckIn: "10:00",
	})
	require.NoError(t, err)

	overall := got.OverallSummary

	// Range totals equal the sum of daily totals exactly
	var sumWork, sumBreak int
	for _, d := range got.DailySummaries {
		sumWork += d.TotalWorkMinutes
		sumBreak += d.TotalBreakMinutes
	}
	assert.Equal(t, sumWork, overall.TotalWorkMinutes)
	assert.Equal(t, sumBreak, overall.TotalBreakMinutes)

	assert.Equal(t, 1, overall.LateCount)
	assert.Equal(t, 3, overall.AbsentCount)

	// Average divides by the two days that logged entries, not by five
	assert.Equal(t, (450+360)/2, overall.AverageWorkMinutes)
}

func TestGetAggregatedMetrics_AverageSkipsEmptyDays(t *testing.T) {
	t.Parallel()
	ctx := authedContext(t, testUserID)
	svc := newTestService(memory.NewRecordRepository())

	punch(t, ctx, svc, "check_in", "2025-03-10T09:00:00Z")
	punch(t, ctx, svc, "check_out", "2025-03-10T17:00:00Z")

	got, err := svc.GetAggregatedMetrics(ctx, attendance.MetricsRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-11",
	})
	require.NoError(t, err)

	assert.Equal(t, 480, got.OverallSummary.AverageWorkMinutes)
}

func TestGetAggregatedMetrics_ExactReferenceNotLate(t *testing.T) {
	t.Parallel()
	ctx := authedContext(t, testUserID)
	svc := newTestService(memory.NewRecordRepository())

	punch(t, ctx, svc, "check_in", "2025-03-10T10:00:00Z")
	punch(t, ctx, svc, "check_out", "2025-03-10T18:00:00Z")

	got, err := svc.GetAggregatedMetrics(ctx, attendance.MetricsRequest{
		StartDate:        "2025-03-10",
		EndDate:          "2025-03-10",
		ReferenceCheckIn: "10:00",
	})
	require.NoError(t, err)

	assert.False(t, got.DailySummaries[0].IsLate)
}

func TestGetAggregatedMetrics_CheckedOutDayIsNotAbsent(t *testing.T) {
	t.Parallel()
	ctx := authedContext(t, testUserID)
	svc := newTestService(memory.NewRecordRepository())

	// Status ends up absent (check-out mapping), but real work was logged
	rec := punch(t, ctx, svc, "check_in", "2025-03-10T09:00:00Z")
	rec = punch(t, ctx, svc, "check_out", "2025-03-10T17:00:00Z")
	require.Equal(t, "absent", rec.Status)

	got, err := svc.GetAggregatedMetrics(ctx, attendance.MetricsRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-10",
	})
	require.NoError(t, err)

	assert.False(t, got.DailySummaries[0].IsAbsent)
}

func TestGetAggregatedMetrics_EmptyRange(t *testing.T) {
	t.Parallel()
	ctx := authedContext(t, "nobody-punched")
	svc := newTestService(memory.NewRecordRepository())

	got, err := svc.GetAggregatedMetrics(ctx, attendance.MetricsRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-12",
	})
	require.NoError(t, err)

	require.Len(t, got.DailySummaries, 3)
	for _, d := range got.DailySummaries {
		assert.True(t, d.IsAbsent)
		assert.False(t, d.IsLate)
		assert.Equal(t, 0, d.TotalWorkMinutes)
	}
	assert.Equal(t, attendance.OverallSummary{AbsentCount: 3}, got.OverallSummary)
}

func TestGetAggregatedMetrics_InvalidRange(t *testing.T) {
	t.Parallel()
	ctx := authedContext(t, testUserID)
	svc := newTestService(memory.NewRecordRepository())

	_, err := svc.GetAggregatedMetrics(ctx, attendance.MetricsRequest{
		StartDate: "2025-03-14",
		EndDate:   "2025-03-10",
	})
	assert.ErrorIs(t, err, attendance.ErrInvalidDateRange)
}

func TestGetAggregatedMetrics_CancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(authedContext(t, testUserID))
	cancel()
	svc := newTestService(memory.NewRecordRepository())

	_, err := svc.GetAggregatedMetrics(ctx, attendance.MetricsRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-12",
	})
	assert.Error(t, err)
}
