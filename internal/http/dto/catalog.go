package dto

import "github.com/cesargomez89/ingestq/internal/app"

type SourceRequest struct {
	SourceName     string  `json:"source_name"`
	SourceDomain   string  `json:"source_domain"`
	Description    string  `json:"description"`
	Active         *string `json:"is_active_status"`
	MaxCountPerDay int     `json:"maxcount_per_day"`
}

func (r *SourceRequest) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateRequired("source_name", r.SourceName)...)
	errs = append(errs, validateNonNegative("maxcount_per_day", r.MaxCountPerDay)...)
	errs = append(errs, validateFlag("is_active_status", r.Active)...)
	return errs
}

func (r *SourceRequest) ToInput() app.SourceInput {
	return app.SourceInput{
		SourceName:     r.SourceName,
		SourceDomain:   r.SourceDomain,
		Description:    r.Description,
		MaxCountPerDay: r.MaxCountPerDay,
		Active:         flagValue(r.Active, true),
	}
}

type ScriptRequest struct {
	ScriptName            string  `json:"script_name"`
	SourceCodePath        string  `json:"source_code_path"`
	Version               string  `json:"version"`
	Description           string  `json:"description"`
	DependencyDescription string  `json:"dependency_description"`
	Active                *string `json:"is_active_status"`
	SourceID              int64   `json:"source_id"`
}

func (r *ScriptRequest) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateRequired("script_name", r.ScriptName)...)
	errs = append(errs, validatePositiveID("source_id", r.SourceID)...)
	errs = append(errs, validateFlag("is_active_status", r.Active)...)
	return errs
}

func (r *ScriptRequest) ToInput() app.ScriptInput {
	return app.ScriptInput{
		SourceID:              r.SourceID,
		ScriptName:            r.ScriptName,
		SourceCodePath:        r.SourceCodePath,
		Version:               r.Version,
		Description:           r.Description,
		DependencyDescription: r.DependencyDescription,
		Active:                flagValue(r.Active, true),
	}
}

type QueueInstanceRequest struct {
	QueueName     string  `json:"queue_name"`
	QueueType     string  `json:"queue_type"`
	ProcessStatus string  `json:"process_status"`
	QueueDate     *string `json:"queue_date"`
	ConfigID      int64   `json:"config_id"`
}

func (r *QueueInstanceRequest) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateRequired("queue_name", r.QueueName)...)
	errs = append(errs, validatePositiveID("config_id", r.ConfigID)...)
	_, dateErrs := parseDate("queue_date", r.QueueDate)
	errs = append(errs, dateErrs...)
	return errs
}

func (r *QueueInstanceRequest) ToInput() app.QueueInstanceInput {
	in := app.QueueInstanceInput{
		ConfigID:      r.ConfigID,
		QueueName:     r.QueueName,
		QueueType:     r.QueueType,
		ProcessStatus: r.ProcessStatus,
	}
	if d, _ := parseDate("queue_date", r.QueueDate); d != nil {
		in.QueueDate = *d
	}
	return in
}
