package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance time accounting
type AttendanceService interface {
	// AddEntry appends a clock event for the authenticated user and returns
	// the recomputed record for that day
	AddEntry(ctx context.Context, req AddEntryRequest) (RecordResponse, error)

	// GetRecord retrieves the record for one calendar day
	GetRecord(ctx context.Context, userID string, date string) (RecordResponse, error)

	// UpdateNotes annotates a day's record (admin/manager fix-up surface)
	UpdateNotes(ctx context.Context, req UpdateNotesRequest) (RecordResponse, error)

	// GetAggregatedMetrics computes daily summaries and the overall summary
	// for an inclusive date range against a lateness reference time
	GetAggregatedMetrics(ctx context.Context, req MetricsRequest) (AggregatedMetricsResponse, error)
}
