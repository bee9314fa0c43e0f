package timelog

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tallyhq/tally/internal/domain/validate"
)

// Accepted date layouts, tried in order.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseHours validates that raw is a finite number greater than zero.
func parseHours(raw string) (float64, error) {
	var ve validate.Error
	hours, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) {
		ve.Add("hours", "must be a number")
		return 0, ve.Err()
	}
	if hours <= 0 {
		ve.Add("hours", "must be greater than zero")
		return 0, ve.Err()
	}
	return hours, nil
}

// parseDate accepts RFC 3339 timestamps or plain dates.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d, nil
		}
	}
	var ve validate.Error
	ve.Add("date", "must be an RFC 3339 timestamp or YYYY-MM-DD")
	return time.Time{}, ve.Err()
}

// validateCreate checks presence first, then values, so a request missing a
// field fails on the missing field rather than on an unparseable zero value.
func validateCreate(req CreateRequest) (hours float64, date time.Time, err error) {
	var ve validate.Error
	if strings.TrimSpace(req.TaskID) == "" {
		ve.Add("task", "is required")
	}
	if strings.TrimSpace(req.Hours) == "" {
		ve.Add("hours", "is required")
	}
	if strings.TrimSpace(req.Date) == "" {
		ve.Add("date", "is required")
	}
	if err := ve.Err(); err != nil {
		return 0, time.Time{}, err
	}

	hours, err = parseHours(req.Hours)
	if err != nil {
		return 0, time.Time{}, err
	}
	date, err = parseDate(req.Date)
	if err != nil {
		return 0, time.Time{}, err
	}
	return hours, date, nil
}
