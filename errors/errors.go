package errors

import (
	"errors"
	"fmt"
)

// ValidationError reports a row-level or file-level problem with demand input.
// Line is the 1-based input line (0 when the failure is not tied to a row) and
// Field names the offending column when known.
type ValidationError struct {
	Line   int
	Field  string
	Record []string
	Err    error
}

func (e *ValidationError) Error() string {
	switch {
	case e.Line > 0 && e.Field != "":
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Field, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// TimeLabelError is returned when a time label cannot be turned into an hour.
type TimeLabelError struct {
	Label  string
	Reason string
}

func (e *TimeLabelError) Error() string {
	return fmt.Sprintf("invalid time label %q: %s", e.Label, e.Reason)
}

// Is makes every TimeLabelError match ErrInvalidTimeLabel.
func (e *TimeLabelError) Is(target error) bool {
	return target == ErrInvalidTimeLabel
}

// Error kinds.
var (
	ErrValidation         = fmt.Errorf("validation error")
	ErrInvalidTimeLabel   = fmt.Errorf("invalid time label")
	ErrInvalidUtilization = fmt.Errorf("utilization must be in (0,1]")
	ErrInvalidCapacity    = fmt.Errorf("capacity must be >= 0")
)

// Reasons carried by ValidationError.
var (
	ErrInvalidFieldCount    = fmt.Errorf("invalid field count")
	ErrEmptyName            = fmt.Errorf("customer name is empty")
	ErrInvalidDuration      = fmt.Errorf("invalid duration")
	ErrInvalidStartTime     = fmt.Errorf("invalid start time")
	ErrInvalidEndTime       = fmt.Errorf("invalid end time")
	ErrInvalidWindow        = fmt.Errorf("end time must be after start time")
	ErrInvalidNumberOfCalls = fmt.Errorf("invalid number of calls")
	ErrInvalidPriority      = fmt.Errorf("invalid priority")
	ErrNoValidRows          = fmt.Errorf("no valid customer rows found")
	ErrMalformedInput       = fmt.Errorf("malformed input")
)

// Kind returns a short, stable label for err, suitable for metric labels and
// API error codes. Errors that are not recognised map to "unknown".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidFieldCount):
		return "field_count"
	case errors.Is(err, ErrEmptyName):
		return "empty_name"
	case errors.Is(err, ErrInvalidDuration):
		return "duration"
	case errors.Is(err, ErrInvalidStartTime):
		return "start_time"
	case errors.Is(err, ErrInvalidEndTime):
		return "end_time"
	case errors.Is(err, ErrInvalidWindow):
		return "window"
	case errors.Is(err, ErrInvalidNumberOfCalls):
		return "number_of_calls"
	case errors.Is(err, ErrInvalidPriority):
		return "priority"
	case errors.Is(err, ErrNoValidRows):
		return "no_valid_rows"
	case errors.Is(err, ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, ErrInvalidTimeLabel):
		return "time_label"
	case errors.Is(err, ErrInvalidUtilization):
		return "utilization"
	case errors.Is(err, ErrInvalidCapacity):
		return "capacity"
	default:
		return "unknown"
	}
}
