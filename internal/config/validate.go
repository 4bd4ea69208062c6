package config

import (
	"github.com/mrz1836/multipid/internal/errors"
)

// Validate checks the configuration for invalid values and returns the first
// failure found.
//
// Validation rules:
//   - lock.timeout and lock.retry_interval must be positive
//   - wait.interval must be positive, wait.timeout must not be negative
//   - log.max_size_mb must be positive, log.max_backups must not be negative
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateLockConfig(&cfg.Lock); err != nil {
		return err
	}
	if err := validateWaitConfig(&cfg.Wait); err != nil {
		return err
	}
	return validateLogConfig(&cfg.Log)
}

func validateLockConfig(cfg *LockConfig) error {
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidLock,
			"lock.timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.RetryInterval <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidLock,
			"lock.retry_interval must be positive, got %s", cfg.RetryInterval)
	}
	return nil
}

func validateWaitConfig(cfg *WaitConfig) error {
	if cfg.Interval <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidWait,
			"wait.interval must be positive, got %s", cfg.Interval)
	}
	if cfg.Timeout < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidWait,
			"wait.timeout cannot be negative, got %s", cfg.Timeout)
	}
	return nil
}

func validateLogConfig(cfg *LogConfig) error {
	if cfg.MaxSizeMB <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidLog,
			"log.max_size_mb must be positive, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidLog,
			"log.max_backups cannot be negative, got %d", cfg.MaxBackups)
	}
	return nil
}
