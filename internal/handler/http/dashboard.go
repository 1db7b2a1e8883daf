package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sowaboubacar/bearh-sub003/internal/domain/attendance"
	"github.com/sowaboubacar/bearh-sub003/internal/domain/dashboard"
	"github.com/sowaboubacar/bearh-sub003/internal/handler/http/response"
)

type DashboardHandler interface {
	GetAttendanceCharts(w http.ResponseWriter, r *http.Request)
	GetTeamOverview(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{
		dashboardService: dashboardService,
	}
}

// GetAttendanceCharts implements DashboardHandler.
func (h *dashboardHandlerImpl) GetAttendanceCharts(w http.ResponseWriter, r *http.Request) {
	req := attendance.MetricsRequest{
		UserID:           r.URL.Query().Get("user_id"),
		StartDate:        r.URL.Query().Get("start_date"),
		EndDate:          r.URL.Query().Get("end_date"),
		ReferenceCheckIn: r.URL.Query().Get("reference_check_in"),
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dashboardService.GetAttendanceCharts(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetTeamOverview implements DashboardHandler.
func (h *dashboardHandlerImpl) GetTeamOverview(w http.ResponseWriter, r *http.Request) {
	var req attendance.TeamMetricsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode team overview payload", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.dashboardService.GetTeamOverview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
