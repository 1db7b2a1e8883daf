package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sowaboubacar/bearh-sub003/internal/domain/attendance"
	"github.com/sowaboubacar/bearh-sub003/internal/handler/http/response"
)

type AttendanceHandler interface {
	AddEntry(w http.ResponseWriter, r *http.Request)
	GetRecord(w http.ResponseWriter, r *http.Request)
	GetMetrics(w http.ResponseWriter, r *http.Request)
	UpdateNotes(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// AddEntry implements AttendanceHandler. Punches always target the
// authenticated user; the user_id claim wins over anything in the body.
func (h *attendanceHandlerImpl) AddEntry(w http.ResponseWriter, r *http.Request) {
	var req attendance.AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode entry payload", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.UserID = ""

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.AddEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Entry recorded", result)
}

// GetRecord implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetRecord(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		response.BadRequest(w, "Query parameter 'date' is required", nil)
		return
	}

	// Admins may read someone else's day; everyone else reads their own.
	userID := r.URL.Query().Get("user_id")

	result, err := h.attendanceService.GetRecord(r.Context(), userID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMetrics implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMetrics(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.attendanceService.GetAggregatedMetrics(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateNotes implements AttendanceHandler.
func (h *attendanceHandlerImpl) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode notes payload", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.UpdateNotes(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notes updated successfully", result)
}
