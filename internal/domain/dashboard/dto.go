package dashboard

// ========== ATTENDANCE CHARTS ==========

// LinePoint is one sample of the work-hours line chart.
type LinePoint struct {
	X string  `json:"x"` // Format: "YYYY-MM-DD"
	Y float64 `json:"y"` // hours
}

// BarBucket is one bar of the late/absent comparison chart.
type BarBucket struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// PieSlice is one slice of the work-vs-break distribution chart.
type PieSlice struct {
	Label   string  `json:"label"`
	Minutes int     `json:"minutes"`
	Percent float64 `json:"percent"`
}

// AttendanceChartsResponse is the chart-ready reshaping of a user's
// aggregated metrics over a date range.
type AttendanceChartsResponse struct {
	WorkHoursLine []LinePoint `json:"work_hours_line"`
	LateAbsentBar []BarBucket `json:"late_absent_bar"`
	WorkBreakPie  []PieSlice  `json:"work_break_pie"`
}

// ========== TEAM OVERVIEW ==========

// TeamMemberOverview pairs a user with their range-wide summary fields.
type TeamMemberOverview struct {
	UserID             string `json:"user_id"`
	TotalWorkMinutes   int    `json:"total_work_minutes"`
	TotalBreakMinutes  int    `json:"total_break_minutes"`
	LateCount          int    `json:"late_count"`
	AbsentCount        int    `json:"absent_count"`
	AverageWorkMinutes int    `json:"average_work_minutes"`
}

// TeamOverviewResponse aggregates every requested team member, ordered as requested.
type TeamOverviewResponse struct {
	Members []TeamMemberOverview `json:"members"`
}
