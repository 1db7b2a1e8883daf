package attendance

import "errors"

// Attendance domain errors
var (
	// Input errors
	ErrInvalidEntryType = errors.New("invalid entry type")
	ErrInvalidDateRange = errors.New("start date must not be after end date")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")

	// Concurrency conflicts: append retries exhausted, caller should try again
	ErrConcurrentUpdate = errors.New("attendance record was modified concurrently, please retry")
)
