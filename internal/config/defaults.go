package config

import (
	"github.com/mrz1836/multipid/internal/constants"
)

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Lock: LockConfig{
			// Eight seconds of retries is enough for a slow shared filesystem.
			Timeout:       constants.DefaultLockTimeout,
			RetryInterval: constants.DefaultLockRetryInterval,
		},
		Wait: WaitConfig{
			Interval: constants.DefaultWaitInterval,
			Timeout:  0,
		},
		Log: LogConfig{
			File:       "",
			MaxSizeMB:  constants.LogMaxSizeMB,
			MaxBackups: constants.LogMaxBackups,
		},
	}
}
