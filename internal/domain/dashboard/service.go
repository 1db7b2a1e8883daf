package dashboard

import (
	"context"

	"github.com/sowaboubacar/bearh-sub003/internal/domain/attendance"
)

// DashboardService reshapes attendance summaries into chart-ready series
type DashboardService interface {
	// GetAttendanceCharts returns line/bar/pie series for one user's range
	GetAttendanceCharts(ctx context.Context, req attendance.MetricsRequest) (*AttendanceChartsResponse, error)

	// GetTeamOverview computes each member's overall summary in parallel
	GetTeamOverview(ctx context.Context, req attendance.TeamMetricsRequest) (*TeamOverviewResponse, error)
}
