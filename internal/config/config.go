// Package config provides layered configuration for multipid.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (MULTIPID_* prefix)
//  3. An explicit --config file
//  4. Global config (~/.config/multipid/config.yaml, or $MULTIPID_HOME/config.yaml)
//  5. Built-in defaults
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import any other internal packages.
package config

import "time"

// Config is the root configuration structure for multipid.
type Config struct {
	// Lock controls the per-transaction file lock.
	Lock LockConfig `yaml:"lock" json:"lock" mapstructure:"lock"`

	// Wait controls the wait command's polling.
	Wait WaitConfig `yaml:"wait" json:"wait" mapstructure:"wait"`

	// Log controls the optional rotating log file.
	Log LogConfig `yaml:"log" json:"log" mapstructure:"log"`
}

// LockConfig bounds how long a transaction waits for a concurrent transaction
// on the same path.
type LockConfig struct {
	// Timeout is the total time spent retrying the lock before giving up.
	// Default: 8s
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`

	// RetryInterval is the pause between lock attempts.
	// Default: 50ms
	RetryInterval time.Duration `yaml:"retry_interval" json:"retry_interval" mapstructure:"retry_interval"`
}

// WaitConfig controls how `multipid wait` polls a holder set.
type WaitConfig struct {
	// Interval is the pause between polls.
	// Default: 1s
	Interval time.Duration `yaml:"interval" json:"interval" mapstructure:"interval"`

	// Timeout ends the wait with an error. Zero waits forever.
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
}

// LogConfig enables a rotating log file in addition to stderr.
type LogConfig struct {
	// File is the log file path. Empty disables file logging.
	File string `yaml:"file" json:"file" mapstructure:"file"`

	// MaxSizeMB rotates the file once it reaches this size.
	MaxSizeMB int `yaml:"max_size_mb" json:"max_size_mb" mapstructure:"max_size_mb"`

	// MaxBackups is the number of rotated files kept.
	MaxBackups int `yaml:"max_backups" json:"max_backups" mapstructure:"max_backups"`
}
