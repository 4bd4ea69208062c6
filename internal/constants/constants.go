// Package constants provides centralized constant values used throughout multipid.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import (
	"os"
	"time"
)

// AppName is the binary and directory name used by multipid.
const AppName = "multipid"

// EnvPrefix is the prefix for environment variable overrides (MULTIPID_LOCK_TIMEOUT, ...).
const EnvPrefix = "MULTIPID"

// HomeEnvVar overrides the directory holding the global config file.
const HomeEnvVar = "MULTIPID_HOME"

// File name suffixes for sidecar files next to a state file.
const (
	// LockSuffix is appended to a state file path to form its transaction lock file.
	LockSuffix = ".lock"

	// TempSuffix prefixes the random part of a temporary sibling used for atomic writes.
	TempSuffix = ".tmp-"
)

// Permissions for files and directories created by multipid.
const (
	// StateFilePerm is the mode of state and lock files. They are shared
	// between unrelated processes, so group and other may read.
	StateFilePerm os.FileMode = 0o644

	// DirPerm is the mode of directories created for logs and config.
	DirPerm os.FileMode = 0o750
)

// Lock and wait defaults.
const (
	// DefaultLockTimeout bounds how long a transaction waits for another
	// transaction on the same path to finish.
	DefaultLockTimeout = 8 * time.Second

	// DefaultLockRetryInterval is the pause between non-blocking lock attempts.
	DefaultLockRetryInterval = 50 * time.Millisecond

	// DefaultWaitInterval is the polling interval of the wait command.
	DefaultWaitInterval = time.Second
)

// Log file configuration.
const (
	// LogMaxSizeMB is the size in megabytes at which the log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files to keep.
	LogMaxBackups = 3

	// LogMaxAgeDays is the number of days to retain rotated log files.
	LogMaxAgeDays = 28

	// LogCompress enables gzip compression of rotated log files.
	LogCompress = true
)

// GlobalConfigName is the name of the global configuration file.
const GlobalConfigName = "config.yaml"
