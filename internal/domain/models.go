package domain

import (
	"strings"
	"time"
)

// QueueConfiguration is a parameterized query scheduled for periodic execution.
type QueueConfiguration struct { //nolint:govet // field ordering follows the table layout
	ID              int64      `json:"id" db:"id"`
	ScriptID        int64      `json:"script_id" db:"script_id"`
	SourceID        int64      `json:"source_id" db:"source_id"`
	SourceName      string     `json:"source_name" db:"source_name"`
	QueryString     string     `json:"query_string" db:"query_string"`
	QueueType       string     `json:"queue_type" db:"queue_type"`
	Description     string     `json:"description" db:"description"`
	Frequency       string     `json:"frequency" db:"frequency"`
	CronLogic       string     `json:"cron_logic" db:"cron_logic"`
	StartDate       *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate         *time.Time `json:"end_date,omitempty" db:"end_date"`
	MaxCountPerDay  int        `json:"maxcount_per_day" db:"maxcount_per_day"`
	Priority        int        `json:"priority" db:"priority"`
	LiveStatus      LiveStatus `json:"live_process_status" db:"live_process_status"`
	PriorityUpdated Flag       `json:"is_priority_updated" db:"is_priority_updated"`
	Active          Flag       `json:"is_active_status" db:"is_active_status"`
	InputCount      int        `json:"input_count" db:"input_count"`
	TargetDays      int        `json:"target_days" db:"target_days"`
	ErrorString     *string    `json:"error_string,omitempty" db:"error_string"`
	ErrorDesc       *string    `json:"error_desc,omitempty" db:"error_desc"`
	CreatedBy       string     `json:"created_by" db:"created_by"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedBy       string     `json:"updated_by" db:"updated_by"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the configuration takes part in scheduling.
func (c *QueueConfiguration) IsActive() bool {
	return c.Active.Bool()
}

// DedupKey identifies configurations that would fetch the same data.
// Query text is compared case-insensitively.
func (c *QueueConfiguration) DedupKey() DedupKey {
	return DedupKey{
		SourceID: c.SourceID,
		ScriptID: c.ScriptID,
		Query:    strings.ToLower(c.QueryString),
	}
}

type DedupKey struct {
	Query    string
	SourceID int64
	ScriptID int64
}

// PriorityLogEntry is an append-only record of one priority change.
type PriorityLogEntry struct {
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	UpdatedBy   string    `json:"updated_by" db:"updated_by"`
	ID          int64     `json:"id" db:"id"`
	ConfigID    int64     `json:"config_id" db:"config_id"`
	OldPriority int       `json:"old_priority" db:"old_priority"`
	NewPriority int       `json:"new_priority" db:"new_priority"`
}

// Source is a data origin registered by an operator.
type Source struct {
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
	SourceName     string    `json:"source_name" db:"source_name"`
	SourceDomain   string    `json:"source_domain" db:"source_domain"`
	Description    string    `json:"description" db:"description"`
	Active         Flag      `json:"is_active_status" db:"is_active_status"`
	CreatedBy      string    `json:"created_by" db:"created_by"`
	UpdatedBy      string    `json:"updated_by" db:"updated_by"`
	ID             int64     `json:"id" db:"id"`
	MaxCountPerDay int       `json:"maxcount_per_day" db:"maxcount_per_day"`
}

// Script is the scraper/parser code that consumes a source's payloads.
type Script struct {
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time `json:"updated_at" db:"updated_at"`
	SourceCodePath        string    `json:"source_code_path" db:"source_code_path"`
	ScriptName            string    `json:"script_name" db:"script_name"`
	Version               string    `json:"version" db:"version"`
	Description           string    `json:"description" db:"description"`
	DependencyDescription string    `json:"dependency_description" db:"dependency_description"`
	Active                Flag      `json:"is_active_status" db:"is_active_status"`
	CreatedBy             string    `json:"created_by" db:"created_by"`
	UpdatedBy             string    `json:"updated_by" db:"updated_by"`
	ID                    int64     `json:"id" db:"id"`
	SourceID              int64     `json:"source_id" db:"source_id"`
}

// Payload is one input row produced by executing a configuration's query.
type Payload struct {
	QueueDate    time.Time `json:"queue_date" db:"queue_date"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
	PayloadInput string    `json:"payload_input" db:"payload_input"`
	CreatedBy    string    `json:"created_by" db:"created_by"`
	Queued       Flag      `json:"is_queued" db:"is_queued"`
	Aggregated   Flag      `json:"is_aggregated" db:"is_aggregated"`
	Parsed       Flag      `json:"is_parsed" db:"is_parsed"`
	Active       Flag      `json:"is_active_status" db:"is_active_status"`
	ID           int64     `json:"id" db:"id"`
	SourceID     int64     `json:"source_id" db:"source_id"`
	ScriptID     int64     `json:"script_id" db:"script_id"`
	ConfigID     int64     `json:"config_id" db:"config_id"`
	Priority     int       `json:"priority" db:"priority"`
}

// QueueInstance is a materialized queue built from a configuration's payloads.
type QueueInstance struct {
	QueueDate     time.Time `json:"queue_date" db:"queue_date"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
	SourceName    string    `json:"source_name" db:"source_name"`
	QueueName     string    `json:"queue_name" db:"queue_name"`
	QueueType     string    `json:"queue_type" db:"queue_type"`
	ProcessStatus string    `json:"process_status" db:"process_status"`
	ErrorDetails  string    `json:"error_details" db:"error_details"`
	CreatedBy     string    `json:"created_by" db:"created_by"`
	Queued        Flag      `json:"is_queued" db:"is_queued"`
	Aggregated    Flag      `json:"is_aggregated" db:"is_aggregated"`
	Parsed        Flag      `json:"is_parsed" db:"is_parsed"`
	Dropped       Flag      `json:"is_dropped" db:"is_dropped"`
	ID            int64     `json:"id" db:"id"`
	SourceID      int64     `json:"source_id" db:"source_id"`
	ScriptID      int64     `json:"script_id" db:"script_id"`
	ConfigID      int64     `json:"config_id" db:"config_id"`
	Priority      int       `json:"priority" db:"priority"`
	RetryCount    int       `json:"retry_count" db:"retry_count"`
}
