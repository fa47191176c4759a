package dto

import (
	"github.com/cesargomez89/ingestq/internal/app"
)

// ConfigRequest is the body of POST and PUT /api/configs.
type ConfigRequest struct {
	QueryString    string  `json:"query_string"`
	QueueType      string  `json:"queue_type"`
	Description    string  `json:"description"`
	Frequency      string  `json:"frequency"`
	CronLogic      *string `json:"cron_logic"`
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`
	Active         *string `json:"is_active_status"`
	SourceID       int64   `json:"source_id"`
	ScriptID       int64   `json:"script_id"`
	MaxCountPerDay int     `json:"maxcount_per_day"`
	Priority       int     `json:"priority"`
	InputCount     int     `json:"input_count"`
	TargetDays     int     `json:"target_days"`
}

func (r *ConfigRequest) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateRequired("query_string", r.QueryString)...)
	errs = append(errs, validatePositiveID("source_id", r.SourceID)...)
	errs = append(errs, validatePositiveID("script_id", r.ScriptID)...)
	errs = append(errs, validateNonNegative("priority", r.Priority)...)
	errs = append(errs, validateNonNegative("maxcount_per_day", r.MaxCountPerDay)...)
	errs = append(errs, validateNonNegative("input_count", r.InputCount)...)
	errs = append(errs, validateNonNegative("target_days", r.TargetDays)...)
	errs = append(errs, validateCron(r.CronLogic)...)
	errs = append(errs, validateFlag("is_active_status", r.Active)...)

	start, startErrs := parseDate("start_date", r.StartDate)
	end, endErrs := parseDate("end_date", r.EndDate)
	errs = append(errs, startErrs...)
	errs = append(errs, endErrs...)
	if start != nil && end != nil && end.Before(*start) {
		errs = append(errs, ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}
	return errs
}

// ToInput converts a validated request.
func (r *ConfigRequest) ToInput() app.ConfigInput {
	in := app.ConfigInput{
		SourceID:       r.SourceID,
		ScriptID:       r.ScriptID,
		QueryString:    r.QueryString,
		QueueType:      r.QueueType,
		Description:    r.Description,
		Frequency:      r.Frequency,
		MaxCountPerDay: r.MaxCountPerDay,
		Priority:       r.Priority,
		InputCount:     r.InputCount,
		TargetDays:     r.TargetDays,
	}
	if r.CronLogic != nil {
		in.CronLogic = *r.CronLogic
	}
	in.StartDate, _ = parseDate("start_date", r.StartDate)
	in.EndDate, _ = parseDate("end_date", r.EndDate)
	if r.Active != nil {
		active := flagValue(r.Active, true)
		in.Active = &active
	}
	return in
}
