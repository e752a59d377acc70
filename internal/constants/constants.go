// Package constants provides centralized constant values used throughout grove.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

// Well-known identifiers.
const (
	// RootTaskID is the fixed identifier of the sentinel root task.
	// Every true top-level task is an immediate child of this task.
	// The root is bootstrapped lazily, and can never be moved or deleted.
	RootTaskID = "00000000-0000-0000-0000-000000000000"

	// RootTaskText is the text stored on the sentinel root task.
	RootTaskText = "root"
)

// Validation limits for task fields.
const (
	// MaxTaskTextLength is the maximum number of characters allowed in task text.
	MaxTaskTextLength = 500
)

// Document store constants.
const (
	// DocTypeTask is the document type tag stored with every task document.
	// The type index filters on this value so non-task documents sharing the
	// store are never returned by task queries.
	DocTypeTask = "task"

	// DBFileName is the name of the SQLite database file inside the grove home.
	DBFileName = "grove.db"

	// TaskSchemaVersion is the current version of the task document schema.
	// This enables forward-compatible schema migrations.
	TaskSchemaVersion = 1
)

// Directory and file names used by grove for organizing data.
const (
	// GroveHome is the hidden directory name where grove stores all its data.
	// This directory is created in the user's home directory.
	GroveHome = ".grove"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.grove/logs/grove.log
	CLILogFileName = "grove.log"

	// GlobalConfigName is the name of the global grove configuration file.
	// This file is located in the grove home directory.
	GlobalConfigName = "config.yaml"
)

// EnvPrefix is the prefix for environment variable configuration overrides.
// Example: GROVE_DB_PATH overrides the db.path config key.
const EnvPrefix = "GROVE"

// DueDateLayout is the date-only layout used for due dates in the YAML
// edit surface (YYYY-MM-DD).
const DueDateLayout = "2006-01-02"
