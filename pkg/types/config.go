package types

import "errors"

// Config holds parameters for Backend.Attach and logger construction.
type Config struct {
	DataDir     string `json:"data_dir" yaml:"data_dir"`
	LogLevel    string `json:"log_level" yaml:"log_level"`
	Development bool   `json:"development" yaml:"development"`
}

// DatabaseFile is the SQLite file name created inside Config.DataDir.
const DatabaseFile = "nutrio.db"

// Recognized log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Config validation errors.
var (
	ErrDataDirEmpty    = errors.New("data dir must not be empty")
	ErrLogLevelUnknown = errors.New("unknown log level")
)

var knownLogLevels = map[string]bool{
	LogLevelDebug: true,
	LogLevelInfo:  true,
	LogLevelWarn:  true,
	LogLevelError: true,
}

// Validate checks that the Config is well-formed. An empty LogLevel is
// accepted and means info.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.LogLevel != "" && !knownLogLevels[c.LogLevel] {
		return ErrLogLevelUnknown
	}
	return nil
}
