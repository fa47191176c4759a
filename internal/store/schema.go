package store

const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS sources (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source_name TEXT NOT NULL,
	source_domain TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	maxcount_per_day INTEGER NOT NULL DEFAULT 0,
	is_active_status TEXT NOT NULL DEFAULT 'Y',
	created_by TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_by TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS scripts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source_id INTEGER NOT NULL,
	script_name TEXT NOT NULL,
	source_code_path TEXT NOT NULL DEFAULT '',
	version TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	dependency_description TEXT NOT NULL DEFAULT '',
	is_active_status TEXT NOT NULL DEFAULT 'Y',
	created_by TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_by TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS queue_configs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	script_id INTEGER NOT NULL,
	source_id INTEGER NOT NULL,
	source_name TEXT NOT NULL DEFAULT '',
	query_string TEXT NOT NULL,
	queue_type TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	frequency TEXT NOT NULL DEFAULT '',
	cron_logic TEXT NOT NULL DEFAULT '',
	start_date DATETIME,
	end_date DATETIME,
	maxcount_per_day INTEGER NOT NULL DEFAULT 0,
	priority INTEGER NOT NULL DEFAULT 0 CHECK (priority >= 0),
	live_process_status TEXT NOT NULL,
	is_priority_updated TEXT NOT NULL DEFAULT 'N',
	is_active_status TEXT NOT NULL DEFAULT 'Y',
	input_count INTEGER NOT NULL DEFAULT 0,
	target_days INTEGER NOT NULL DEFAULT 0,
	error_string TEXT,
	error_desc TEXT,
	created_by TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_by TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_queue_configs_active ON queue_configs(is_active_status, priority);

-- Append-only; rows outlive the configuration they describe
CREATE TABLE IF NOT EXISTS priority_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	config_id INTEGER NOT NULL,
	old_priority INTEGER NOT NULL,
	new_priority INTEGER NOT NULL,
	updated_by TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_priority_log_config ON priority_log(config_id);

CREATE TABLE IF NOT EXISTS payloads (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source_id INTEGER NOT NULL,
	script_id INTEGER NOT NULL,
	config_id INTEGER NOT NULL,
	payload_input TEXT NOT NULL,
	priority INTEGER NOT NULL DEFAULT 0,
	queue_date DATETIME NOT NULL,
	is_queued TEXT NOT NULL DEFAULT 'N',
	is_aggregated TEXT NOT NULL DEFAULT 'N',
	is_parsed TEXT NOT NULL DEFAULT 'N',
	is_active_status TEXT NOT NULL DEFAULT 'Y',
	created_by TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_payloads_config ON payloads(config_id);

CREATE TABLE IF NOT EXISTS queue_master (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source_id INTEGER NOT NULL,
	source_name TEXT NOT NULL DEFAULT '',
	script_id INTEGER NOT NULL,
	config_id INTEGER NOT NULL,
	queue_name TEXT NOT NULL,
	queue_type TEXT NOT NULL DEFAULT '',
	priority INTEGER NOT NULL DEFAULT 0,
	queue_date DATETIME NOT NULL,
	process_status TEXT NOT NULL DEFAULT '',
	error_details TEXT NOT NULL DEFAULT '',
	is_queued TEXT NOT NULL DEFAULT 'N',
	is_aggregated TEXT NOT NULL DEFAULT 'N',
	is_parsed TEXT NOT NULL DEFAULT 'N',
	is_dropped TEXT NOT NULL DEFAULT 'N',
	retry_count INTEGER NOT NULL DEFAULT 0,
	created_by TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_queue_master_config ON queue_master(config_id);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const PostgresSchema = `
CREATE TABLE IF NOT EXISTS sources (
	id BIGSERIAL PRIMARY KEY,
	source_name TEXT NOT NULL,
	source_domain TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	maxcount_per_day INTEGER NOT NULL DEFAULT 0,
	is_active_status CHAR(1) NOT NULL DEFAULT 'Y',
	created_by TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_by TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS scripts (
	id BIGSERIAL PRIMARY KEY,
	source_id BIGINT NOT NULL,
	script_name TEXT NOT NULL,
	source_code_path TEXT NOT NULL DEFAULT '',
	version TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	dependency_description TEXT NOT NULL DEFAULT '',
	is_active_status CHAR(1) NOT NULL DEFAULT 'Y',
	created_by TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_by TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS queue_configs (
	id BIGSERIAL PRIMARY KEY,
	script_id BIGINT NOT NULL,
	source_id BIGINT NOT NULL,
	source_name TEXT NOT NULL DEFAULT '',
	query_string TEXT NOT NULL,
	queue_type TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	frequency TEXT NOT NULL DEFAULT '',
	cron_logic TEXT NOT NULL DEFAULT '',
	start_date TIMESTAMPTZ,
	end_date TIMESTAMPTZ,
	maxcount_per_day INTEGER NOT NULL DEFAULT 0,
	priority INTEGER NOT NULL DEFAULT 0 CHECK (priority >= 0),
	live_process_status TEXT NOT NULL,
	is_priority_updated CHAR(1) NOT NULL DEFAULT 'N',
	is_active_status CHAR(1) NOT NULL DEFAULT 'Y',
	input_count INTEGER NOT NULL DEFAULT 0,
	target_days INTEGER NOT NULL DEFAULT 0,
	error_string TEXT,
	error_desc TEXT,
	created_by TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_by TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_queue_configs_active ON queue_configs(is_active_status, priority);

CREATE TABLE IF NOT EXISTS priority_log (
	id BIGSERIAL PRIMARY KEY,
	config_id BIGINT NOT NULL,
	old_priority INTEGER NOT NULL,
	new_priority INTEGER NOT NULL,
	updated_by TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_priority_log_config ON priority_log(config_id);

CREATE TABLE IF NOT EXISTS payloads (
	id BIGSERIAL PRIMARY KEY,
	source_id BIGINT NOT NULL,
	script_id BIGINT NOT NULL,
	config_id BIGINT NOT NULL,
	payload_input TEXT NOT NULL,
	priority INTEGER NOT NULL DEFAULT 0,
	queue_date TIMESTAMPTZ NOT NULL,
	is_queued CHAR(1) NOT NULL DEFAULT 'N',
	is_aggregated CHAR(1) NOT NULL DEFAULT 'N',
	is_parsed CHAR(1) NOT NULL DEFAULT 'N',
	is_active_status CHAR(1) NOT NULL DEFAULT 'Y',
	created_by TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_payloads_config ON payloads(config_id);

CREATE TABLE IF NOT EXISTS queue_master (
	id BIGSERIAL PRIMARY KEY,
	source_id BIGINT NOT NULL,
	source_name TEXT NOT NULL DEFAULT '',
	script_id BIGINT NOT NULL,
	config_id BIGINT NOT NULL,
	queue_name TEXT NOT NULL,
	queue_type TEXT NOT NULL DEFAULT '',
	priority INTEGER NOT NULL DEFAULT 0,
	queue_date TIMESTAMPTZ NOT NULL,
	process_status TEXT NOT NULL DEFAULT '',
	error_details TEXT NOT NULL DEFAULT '',
	is_queued CHAR(1) NOT NULL DEFAULT 'N',
	is_aggregated CHAR(1) NOT NULL DEFAULT 'N',
	is_parsed CHAR(1) NOT NULL DEFAULT 'N',
	is_dropped CHAR(1) NOT NULL DEFAULT 'N',
	retry_count INTEGER NOT NULL DEFAULT 0,
	created_by TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_queue_master_config ON queue_master(config_id);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`
