package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sowaboubacar/bearh-sub003/internal/domain/attendance"
	"github.com/sowaboubacar/bearh-sub003/internal/repository/memory"
	attendanceservice "github.com/sowaboubacar/bearh-sub003/internal/service/attendance"
)

func authedContext(t *testing.T, userID string) context.Context {
	tokenAuth := jwtauth.New("HS256", []byte("test-secret-key"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"type":    "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func seedDay(t *testing.T, ctx context.Context, svc attendance.AttendanceService, userID, in, out string) {
	_, err := svc.AddEntry(ctx, attendance.AddEntryRequest{UserID: userID, Type: "check_in", Timestamp: in})
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, attendance.AddEntryRequest{UserID: userID, Type: "check_out", Timestamp: out})
	require.NoError(t, err)
}

func TestGetAttendanceCharts(t *testing.T) {
	t.Parallel()
	ctx := authedContext(t, "user-1")

	attendanceSvc := attendanceservice.NewAttendanceService(memory.NewRecordRepository(), time.UTC, "09:00")
	svc := NewDashboardService(attendanceSvc)

	seedDay(t, ctx, attendanceSvc, "user-1", "2025-03-10T09:00:00Z", "2025-03-10T17:00:00Z")
	seedDay(t, ctx, attendanceSvc, "user-1", "2025-03-12T09:30:00Z", "2025-03-12T17:30:00Z")

	charts, err := svc.GetAttendanceCharts(ctx, attendance.MetricsRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-12",
	})
	require.NoError(t, err)

	// One line point per calendar day, work minutes expressed as hours
	require.Len(t, charts.WorkHoursLine, 3)
	assert.Equal(t, "2025-03-10", charts.WorkHoursLine[0].X)
	assert.InDelta(t, 8.0, charts.WorkHoursLine[0].Y, 0.001)
	assert.InDelta(t, 0.0, charts.WorkHoursLine[1].Y, 0.001)
	assert.InDelta(t, 8.0, charts.WorkHoursLine[2].Y, 0.001)

	require.Len(t, charts.LateAbsentBar, 2)
	assert.Equal(t, "late", charts.LateAbsentBar[0].Label)
	assert.Equal(t, 1, charts.LateAbsentBar[0].Value) // 09:30 past the 09:00 cutoff
	assert.Equal(t, "absent", charts.LateAbsentBar[1].Label)
	assert.Equal(t, 1, charts.LateAbsentBar[1].Value)

	require.Len(t, charts.WorkBreakPie, 2)
	assert.Equal(t, 960, charts.WorkBreakPie[0].Minutes)
	assert.InDelta(t, 100.0, charts.WorkBreakPie[0].Percent, 0.001)
	assert.Equal(t, 0, charts.WorkBreakPie[1].Minutes)
}

func TestGetAttendanceCharts_EmptyRangeHasNoPercents(t *testing.T) {
	t.Parallel()
	ctx := authedContext(t, "user-1")

	attendanceSvc := attendanceservice.NewAttendanceService(memory.NewRecordRepository(), time.UTC, "09:00")
	svc := NewDashboardService(attendanceSvc)

	charts, err := svc.GetAttendanceCharts(ctx, attendance.MetricsRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-11",
	})
	require.NoError(t, err)

	require.Len(t, charts.WorkBreakPie, 2)
	assert.Zero(t, charts.WorkBreakPie[0].Percent)
	assert.Zero(t, charts.WorkBreakPie[1].Percent)
}

func TestGetAttendanceCharts_PropagatesError(t *testing.T) {
	t.Parallel()
	ctx := authedContext(t, "user-1")

	attendanceSvc := attendanceservice.NewAttendanceService(memory.NewRecordRepository(), time.UTC, "09:00")
	svc := NewDashboardService(attendanceSvc)

	_, err := svc.GetAttendanceCharts(ctx, attendance.MetricsRequest{
		StartDate: "2025-03-14",
		EndDate:   "2025-03-10",
	})
	assert.ErrorIs(t, err, attendance.ErrInvalidDateRange)
}

func TestGetTeamOverview(t *testing.T) {
	t.Parallel()
	ctx := authedContext(t, "manager-1")

	attendanceSvc := attendanceservice.NewAttendanceService(memory.NewRecordRepository(), time.UTC, "09:00")
	svc := NewDashboardService(attendanceSvc)

	seedDay(t, ctx, attendanceSvc, "user-1", "2025-03-10T08:00:00Z", "2025-03-10T16:00:00Z")
	seedDay(t, ctx, attendanceSvc, "user-2", "2025-03-10T10:00:00Z", "2025-03-10T16:00:00Z")

	overview, err := svc.GetTeamOverview(ctx, attendance.TeamMetricsRequest{
		UserIDs:   []string{"user-1", "user-2", "user-3"},
		StartDate: "2025-03-10",
		EndDate:   "2025-03-10",
	})
	require.NoError(t, err)

	// Members come back in the requested order
	require.Len(t, overview.Members, 3)

	assert.Equal(t, "user-1", overview.Members[0].UserID)
	assert.Equal(t, 480, overview.Members[0].TotalWorkMinutes)
	assert.Equal(t, 0, overview.Members[0].LateCount)

	assert.Equal(t, "user-2", overview.Members[1].UserID)
	assert.Equal(t, 360, overview.Members[1].TotalWorkMinutes)
	assert.Equal(t, 1, overview.Members[1].LateCount)

	assert.Equal(t, "user-3", overview.Members[2].UserID)
	assert.Equal(t, 0, overview.Members[2].TotalWorkMinutes)
	assert.Equal(t, 1, overview.Members[2].AbsentCount)
}

func TestGetTeamOverview_EmptyTeam(t *testing.T) {
	t.Parallel()
	ctx := authedContext(t, "manager-1")

	attendanceSvc := attendanceservice.NewAttendanceService(memory.NewRecordRepository(), time.UTC, "09:00")
	svc := NewDashboardService(attendanceSvc)

	_, err := svc.GetTeamOverview(ctx, attendance.TeamMetricsRequest{
		UserIDs:   nil,
		StartDate: "2025-03-10",
		EndDate:   "2025-03-10",
	})
	assert.Error(t, err)
}
