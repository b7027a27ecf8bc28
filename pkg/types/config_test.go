package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty data dir",
			config:  Config{DataDir: "", LogLevel: LogLevelInfo},
			wantErr: ErrDataDirEmpty,
		},
		{
			name:    "unknown log level",
			config:  Config{DataDir: "/tmp/nutrio", LogLevel: "verbose"},
			wantErr: ErrLogLevelUnknown,
		},
		{
			name:    "log level is case sensitive",
			config:  Config{DataDir: "/tmp/nutrio", LogLevel: "DEBUG"},
			wantErr: ErrLogLevelUnknown,
		},
		{
			name:   "empty log level means info",
			config: Config{DataDir: "/tmp/nutrio"},
		},
		{
			name:   "debug",
			config: Config{DataDir: "/tmp/nutrio", LogLevel: LogLevelDebug},
		},
		{
			name:   "info",
			config: Config{DataDir: "/tmp/nutrio", LogLevel: LogLevelInfo},
		},
		{
			name:   "warn",
			config: Config{DataDir: "/tmp/nutrio", LogLevel: LogLevelWarn},
		},
		{
			name:   "error in development",
			config: Config{DataDir: "/tmp/nutrio", LogLevel: LogLevelError, Development: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
