package parser

import (
	"agent-staffing/errors"
	"regexp"
	"strconv"
	"strings"
)

// timeLabelPattern accepts "9", "09:30", "9AM", "9:30 pm" and similar.
var timeLabelPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?(\s*[AaPp][Mm])?$`)

// ParseTimeLabel converts a time label into an hour in [0, 24].
//
// Labels with an AM/PM suffix use the 12-hour clock (12AM is 0, 12PM is 12);
// labels without one are read as a 24-hour clock where "24" is allowed. Minutes
// are validated but dropped, so "23:30" is hour 23.
func ParseTimeLabel(label string) (int, error) {
	m := timeLabelPattern.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return 0, &errors.TimeLabelError{Label: label, Reason: "expected H[:MM][AM|PM]"}
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, &errors.TimeLabelError{Label: label, Reason: err.Error()}
	}

	if m[2] != "" {
		minute, err := strconv.Atoi(m[2])
		if err != nil || minute < 0 || minute >= 60 {
			return 0, &errors.TimeLabelError{Label: label, Reason: "minutes must be in [0,59]"}
		}
	}

	suffix := strings.ToLower(strings.TrimSpace(m[3]))
	switch suffix {
	case "":
		if hour < 0 || hour > 24 {
			return 0, &errors.TimeLabelError{Label: label, Reason: "hour out of range for 24-hour time"}
		}
		return hour, nil
	case "am", "pm":
		if hour < 1 || hour > 12 {
			return 0, &errors.TimeLabelError{Label: label, Reason: "hour out of range for AM/PM time"}
		}
		if hour == 12 {
			hour = 0
		}
		if suffix == "pm" {
			hour += 12
		}
		return hour, nil
	default:
		return 0, &errors.TimeLabelError{Label: label, Reason: "invalid AM/PM suffix"}
	}
}
