package service

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/univ-portal-api/pkg/errors"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

func validatePayload(v *validator.Validate, payload interface{}, message string) error {
	if err := v.Struct(payload); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}
	return nil
}

func validationError(message string) error {
	return appErrors.Clone(appErrors.ErrValidation, message)
}

func notFound(resource string) error {
	return appErrors.Clone(appErrors.ErrNotFound, resource+" not found")
}

// parseTimeRange checks a slot's date and HH:MM range, requiring end after start.
func parseTimeRange(date, start, end string) (time.Time, time.Time, error) {
	day, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, time.Time{}, validationError("date must use YYYY-MM-DD")
	}
	from, err := time.Parse(clockLayout, strings.TrimSpace(start))
	if err != nil {
		return time.Time{}, time.Time{}, validationError("start_time must use HH:MM")
	}
	to, err := time.Parse(clockLayout, strings.TrimSpace(end))
	if err != nil {
		return time.Time{}, time.Time{}, validationError("end_time must use HH:MM")
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, validationError("end_time must be after start_time")
	}
	offset := func(t time.Time) time.Duration {
		return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	}
	return day.Add(offset(from)), day.Add(offset(to)), nil
}

func checkDate(value string) error {
	if _, err := time.Parse(dateLayout, strings.TrimSpace(value)); err != nil {
		return validationError("date must use YYYY-MM-DD")
	}
	return nil
}

func checkClock(value string) error {
	if _, err := time.Parse(clockLayout, strings.TrimSpace(value)); err != nil {
		return validationError("time must use HH:MM")
	}
	return nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
