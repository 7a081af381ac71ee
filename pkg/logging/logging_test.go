package logging

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
	}{
		{
			name:    "verbose enabled",
			verbose: true,
		},
		{
			name:    "verbose disabled",
			verbose: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			originalLevel := zerolog.GlobalLevel()
			defer zerolog.SetGlobalLevel(originalLevel)

			SetLogLevel(tt.verbose)

			if tt.verbose && zerolog.GlobalLevel() != zerolog.DebugLevel {
				t.Errorf("Expected log level to be DebugLevel, got %v", zerolog.GlobalLevel())
			}
		})
	}
}

func TestStatusHookRegistration(t *testing.T) {
	defer RegisterStatusHook(nil)

	called := false
	RegisterStatusHook(func() *zerolog.Event {
		called = true
		logger := zerolog.New(io.Discard)
		return logger.Info()
	})

	event := GetStatusHook()()
	if !called {
		t.Error("Expected the registered hook to be called")
	}
	if event == nil {
		t.Error("Expected non-nil zerolog.Event")
	}
}

func TestStatusHookDefault(t *testing.T) {
	RegisterStatusHook(nil)

	hook := GetStatusHook()
	if hook == nil {
		t.Fatal("Expected a default status hook")
	}
	if hook() == nil {
		t.Error("Expected non-nil zerolog.Event from the default hook")
	}
}
