package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// DateLayout is the accepted format for calendar dates in requests.
const DateLayout = "2006-01-02"

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) ToMap() map[string]string {
	return map[string]string{e.Field: e.Message}
}

func ToMap(errs []ValidationError) map[string]string {
	result := make(map[string]string)
	for _, e := range errs {
		result[e.Field] = e.Message
	}
	return result
}

func ToResponse(errs []ValidationError) string {
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

func validateRequired(field, value string) []ValidationError {
	if strings.TrimSpace(value) == "" {
		return []ValidationError{{Field: field, Message: "is required"}}
	}
	return nil
}

func validatePositiveID(field string, id int64) []ValidationError {
	if id <= 0 {
		return []ValidationError{{Field: field, Message: "must be a positive id"}}
	}
	return nil
}

func validateNonNegative(field string, v int) []ValidationError {
	if v < 0 {
		return []ValidationError{{Field: field, Message: "must not be negative"}}
	}
	return nil
}

func validateCron(expr *string) []ValidationError {
	if expr == nil || strings.TrimSpace(*expr) == "" {
		return nil
	}
	if _, err := cron.ParseStandard(*expr); err != nil {
		return []ValidationError{{Field: "cron_logic", Message: "invalid cron expression: " + err.Error()}}
	}
	return nil
}

func validateFlag(field string, v *string) []ValidationError {
	if v == nil {
		return nil
	}
	switch strings.ToUpper(*v) {
	case "Y", "N":
		return nil
	}
	return []ValidationError{{Field: field, Message: "must be 'Y' or 'N'"}}
}

// parseDate reads an optional date; an invalid value yields a validation error.
func parseDate(field string, v *string) (*time.Time, []ValidationError) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, *v)
	if err != nil {
		return nil, []ValidationError{{Field: field, Message: "invalid date format (expected: YYYY-MM-DD)"}}
	}
	return &t, nil
}

func flagValue(v *string, def bool) bool {
	if v == nil {
		return def
	}
	return strings.EqualFold(*v, "Y")
}
