package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomWriter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "trailing newline is normalized",
			input:    "hello\n",
			expected: "hello\n",
		},
		{
			name:     "missing newline is appended",
			input:    "hello",
			expected: "hello\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.log")
			f, err := os.Create(path)
			require.NoError(t, err)

			cw := &CustomWriter{Writer: f}
			n, err := cw.Write([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, len(tt.input), n)
			require.NoError(t, f.Close())

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(content))
		})
	}
}

func TestSetGlobalLogLevel(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(originalLevel)

	tests := []struct {
		name     string
		logLevel string
		debug    bool
		expected zerolog.Level
	}{
		{
			name:     "explicit warn",
			logLevel: "warn",
			expected: zerolog.WarnLevel,
		},
		{
			name:     "explicit trace",
			logLevel: "trace",
			expected: zerolog.TraceLevel,
		},
		{
			name:     "invalid level falls back to info",
			logLevel: "loud",
			expected: zerolog.InfoLevel,
		},
		{
			name:     "verbose shortcut",
			debug:    true,
			expected: zerolog.DebugLevel,
		},
		{
			name:     "default is info",
			expected: zerolog.InfoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			LogLevel = tt.logLevel
			LogDebug = tt.debug
			defer func() {
				LogLevel = ""
				LogDebug = false
			}()

			SetGlobalLogLevel(&cobra.Command{})
			assert.Equal(t, tt.expected, zerolog.GlobalLevel())
		})
	}
}

func TestAddCommonFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	AddCommonFlags(cmd)

	for _, name := range []string{"json", "logfile", "verbose", "log-level", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing flag %s", name)
	}

	logfileFlag := cmd.PersistentFlags().Lookup("logfile")
	assert.Empty(t, logfileFlag.Shorthand)
}
