package dashboard

import (
	"context"

	"github.com/sowaboubacar/bearh-sub003/internal/domain/attendance"
	"github.com/sowaboubacar/bearh-sub003/internal/domain/dashboard"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	attendanceService attendance.AttendanceService
}

func NewDashboardService(attendanceService attendance.AttendanceService) dashboard.DashboardService {
	return &DashboardServiceImpl{
		attendanceService: attendanceService,
	}
}

// GetAttendanceCharts implements dashboard.DashboardService. Pure reshaping
// of the aggregation result; no chart invents data of its own.
func (s *DashboardServiceImpl) GetAttendanceCharts(ctx context.Context, req attendance.MetricsRequest) (*dashboard.AttendanceChartsResponse, error) {
	metrics, err := s.attendanceService.GetAggregatedMetrics(ctx, req)
	if err != nil {
		return nil, err
	}

	line := make([]dashboard.LinePoint, 0, len(metrics.DailySummaries))
	for _, day := range metrics.DailySummaries {
		line = append(line, dashboard.LinePoint{
			X: day.Date,
			Y: float64(day.TotalWorkMinutes) / 60.0,
		})
	}

	overall := metrics.OverallSummary
	bar := []dashboard.BarBucket{
		{Label: "late", Value: overall.LateCount},
		{Label: "absent", Value: overall.AbsentCount},
	}

	pie := []dashboard.PieSlice{
		{Label: "work", Minutes: overall.TotalWorkMinutes},
		{Label: "break", Minutes: overall.TotalBreakMinutes},
	}
	if total := overall.TotalWorkMinutes + overall.TotalBreakMinutes; total > 0 {
		pie[0].Percent = float64(overall.TotalWorkMinutes) / float64(total) * 100
		pie[1].Percent = float64(overall.TotalBreakMinutes) / float64(total) * 100
	}

	return &dashboard.AttendanceChartsResponse{
		WorkHoursLine: line,
		LateAbsentBar: bar,
		WorkBreakPie:  pie,
	}, nil
}

// GetTeamOverview implements dashboard.DashboardService. Each member's range
// aggregation is independent, so they run as parallel goroutines; the first
// failure cancels the rest.
func (s *DashboardServiceImpl) GetTeamOverview(ctx context.Context, req attendance.TeamMetricsRequest) (*dashboard.TeamOverviewResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Each goroutine writes its own index, so no extra locking is needed.
	members := make([]dashboard.TeamMemberOverview, len(req.UserIDs))

	g, gCtx := errgroup.WithContext(ctx)
	for i, userID := range req.UserIDs {
		g.Go(func() error {
			metrics, err := s.attendanceService.GetAggregatedMetrics(gCtx, attendance.MetricsRequest{
				UserID:           userID,
				StartDate:        req.StartDate,
				EndDate:          req.EndDate,
				ReferenceCheckIn: req.ReferenceCheckIn,
			})
			if err != nil {
				return err
			}

			overall := metrics.OverallSummary
			members[i] = dashboard.TeamMemberOverview{
				UserID:             userID,
				TotalWorkMinutes:   overall.TotalWorkMinutes,
				TotalBreakMinutes:  overall.TotalBreakMinutes,
				LateCount:          overall.LateCount,
				AbsentCount:        overall.AbsentCount,
				AverageWorkMinutes: overall.AverageWorkMinutes,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dashboard.TeamOverviewResponse{Members: members}, nil
}
