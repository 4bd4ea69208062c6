package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mrz1836/multipid/internal/config"
	"github.com/mrz1836/multipid/internal/constants"
	"github.com/mrz1836/multipid/internal/logging"
	"github.com/mrz1836/multipid/internal/tui"
)

// logFileWriter holds the log file writer for cleanup purposes.
var logFileWriter io.WriteCloser //nolint:gochecknoglobals // Needed for cleanup

// zerologConfigOnce ensures zerolog global settings are configured exactly once.
var zerologConfigOnce sync.Once //nolint:gochecknoglobals // One-time configuration

// zerologGlobalMu protects concurrent writes to the zerolog global logger.
var zerologGlobalMu sync.Mutex //nolint:gochecknoglobals // Protects zerolog global

// configureZerologGlobals uses sub-second timestamps so that entries from
// processes racing on the same lock can be ordered in a shared log file.
func configureZerologGlobals() {
	zerologConfigOnce.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano
	})
}

// InitLogger creates the CLI logger.
//
// Log levels are set as follows:
//   - verbose=true: Debug level (most detailed)
//   - quiet=true: Warn level (errors and warnings only)
//   - default: Info level
//
// Console output goes to console: a console writer on a TTY without
// NO_COLOR, JSON lines otherwise. When logCfg.File is set, entries are also
// appended to that file with rotation. A log file that cannot be opened is
// reported as a warning and logging continues on the console only.
func InitLogger(verbose, quiet bool, logCfg config.LogConfig, console io.Writer) zerolog.Logger {
	configureZerologGlobals()

	var writer io.Writer = selectOutput(console)
	var fileErr error
	if logCfg.File != "" {
		fw, err := createLogFileWriter(logCfg)
		if err != nil {
			fileErr = err
		} else {
			CloseLogFile()
			logFileWriter = fw
			writer = zerolog.MultiLevelWriter(writer, fw)
		}
	}

	logger := buildLogger(selectLevel(verbose, quiet), writer)
	setGlobalLogger(logger)

	if fileErr != nil {
		logger.Warn().Err(fileErr).Str("log_file", logCfg.File).Msg("file logging disabled")
	}
	return logger
}

// InitLoggerWithWriter creates a logger writing JSON lines to w.
// This is primarily intended for testing purposes.
func InitLoggerWithWriter(verbose, quiet bool, w io.Writer) zerolog.Logger {
	configureZerologGlobals()

	logger := buildLogger(selectLevel(verbose, quiet), w)
	setGlobalLogger(logger)
	return logger
}

func buildLogger(level zerolog.Level, writer io.Writer) zerolog.Logger {
	return zerolog.New(writer).Level(level).Hook(logging.NewProcessHook()).With().Timestamp().Logger()
}

// setGlobalLogger points the zerolog/log package logger at the CLI logger.
func setGlobalLogger(cliLogger zerolog.Logger) {
	zerologGlobalMu.Lock()
	defer zerologGlobalMu.Unlock()
	log.Logger = cliLogger
}

// CloseLogFile closes the log file writer if one was opened.
func CloseLogFile() {
	if logFileWriter != nil {
		_ = logFileWriter.Close()
		logFileWriter = nil
	}
}

// selectLevel determines the appropriate log level based on flags.
func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// selectOutput picks a human-friendly console writer for terminals.
func selectOutput(w io.Writer) io.Writer {
	if tui.IsTerminal(w) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
		}
	}
	return w
}

// createLogFileWriter opens a rotating log file.
func createLogFileWriter(cfg config.LogConfig) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.File), constants.DirPerm); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   constants.LogCompress,
	}, nil
}
