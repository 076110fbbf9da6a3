package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// parseDateParam reads a YYYY-MM-DD day in loc; nil when empty.
func parseDateParam(value string, loc *time.Location) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(time.DateOnly, value, loc)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parseRange reads from/to as inclusive days and returns the half-open
// window [from, to+1d).
func parseRange(fromValue, toValue string, loc *time.Location) (*time.Time, *time.Time, error) {
	from, err := parseDateParam(fromValue, loc)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid from date")
	}
	to, err := parseDateParam(toValue, loc)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid to date")
	}
	if to != nil {
		end := to.AddDate(0, 0, 1)
		to = &end
	}
	if from != nil && to != nil && !from.Before(*to) {
		return nil, nil, fmt.Errorf("from must not be after to")
	}
	return from, to, nil
}

// monthRange defaults an open range to the current calendar month in loc.
func monthRange(from, to *time.Time, now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}
	return start, end
}

func parseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid int")
	}
	return parsed, nil
}

func parseBoolParam(value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(value)
}
