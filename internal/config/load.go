package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/multipid/internal/constants"
	"github.com/mrz1836/multipid/internal/errors"
)

// newViperInstance creates a Viper instance with the MULTIPID_ env prefix,
// the dotted-key replacer, and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults mirrors DefaultConfig. Keys must match the mapstructure tags,
// and every key needs a default for AutomaticEnv to see it on Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("lock.timeout", d.Lock.Timeout.String())
	v.SetDefault("lock.retry_interval", d.Lock.RetryInterval.String())

	v.SetDefault("wait.interval", d.Wait.Interval.String())
	v.SetDefault("wait.timeout", d.Wait.Timeout.String())

	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// viperDecoderOption decodes duration strings such as "8s" into time.Duration.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}

// Load reads configuration from the global file, an optional explicit
// configFile, the environment and defaults. A missing global file is not an
// error; a missing explicit file is.
func Load(ctx context.Context, configFile string) (*Config, error) {
	globalPath, err := GlobalConfigPath()
	if err != nil {
		// No home or config directory; run on env and defaults alone.
		globalPath = ""
	}
	return LoadFromPaths(ctx, globalPath, configFile)
}

// LoadFromPaths loads configuration from specific file paths. The explicit
// path merges over the global one. Either may be empty to skip it.
func LoadFromPaths(ctx context.Context, globalConfigPath, explicitConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		if err := readOptional(v, globalConfigPath); err != nil {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if explicitConfigPath != "" {
		v.SetConfigFile(explicitConfigPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, errors.NewExitCode2Error(
				errors.Wrapf(err, "failed to read config: %s", explicitConfigPath))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "config").
		Str("config_file", v.ConfigFileUsed()).
		Dur("lock.timeout", cfg.Lock.Timeout).
		Dur("lock.retry_interval", cfg.Lock.RetryInterval).
		Msg("configuration loaded")

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// readOptional merges path into v, ignoring a missing file.
func readOptional(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil //nolint:nilerr // absent global config is the common case
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return err
	}
	return nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides on
// top. Only non-zero override values are applied.
func LoadWithOverrides(ctx context.Context, configFile string, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx, configFile)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.NewExitCode2Error(errors.Wrap(err, "invalid configuration after overrides"))
	}
	return cfg, nil
}

// applyOverrides merges non-zero override values into the config.
// A zero wait.timeout override cannot be told apart from "unset"; the CLI
// handles an explicit --timeout 0 itself.
func applyOverrides(cfg, overrides *Config) {
	if overrides.Lock.Timeout != 0 {
		cfg.Lock.Timeout = overrides.Lock.Timeout
	}
	if overrides.Lock.RetryInterval != 0 {
		cfg.Lock.RetryInterval = overrides.Lock.RetryInterval
	}
	if overrides.Wait.Interval != 0 {
		cfg.Wait.Interval = overrides.Wait.Interval
	}
	if overrides.Wait.Timeout != 0 {
		cfg.Wait.Timeout = overrides.Wait.Timeout
	}
	if overrides.Log.File != "" {
		cfg.Log.File = overrides.Log.File
	}
}
