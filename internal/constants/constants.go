// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort             = "8080"
	DefaultDBDriver         = "sqlite"
	DefaultDBPath           = "ingestq.db"
	DefaultActor            = "system"
	DefaultReconcileTimeout = 30 * time.Second
	DefaultSweepSchedule    = "@every 5m"
	DefaultHTTPTimeout      = 30 * time.Second
	DefaultRetryCount       = 3
	DefaultRetryBase        = 1 * time.Second
	DefaultEmailAppName     = "strl_pipeline"
	DefaultEmailFrom        = "datasciencealert@sciera.com"
	DefaultShutdownTimeout  = 5 * time.Second
)

// Database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Database
const (
	QueueConfigsTable = "queue_configs"
	PriorityLogTable  = "priority_log"
	PayloadsTable     = "payloads"
	QueueMasterTable  = "queue_master"
	SourcesTable      = "sources"
	ScriptsTable      = "scripts"
	SettingsTable     = "settings"
)

// ReconcileLockKey is the Postgres advisory lock key that serializes reconciliation passes.
const ReconcileLockKey int64 = 0x51_7e_c0_4f

// Duplicate annotation written on deactivated configurations
const (
	DuplicateErrorString = "Duplicate config detected"
	DuplicateErrorDesc   = "Original config ID is %d"
)

// Email API
const (
	EmailAppPage = "auto-mailer"
	EmailType    = "STRL-Pipeline-Notification"
)

// UI/UX
const (
	MaxListResults = 200
	MaxLogResults  = 500
)
