package logging

import (
	"sync"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func SetLogLevel(verbose bool) {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Debug().Msg("Verbose log output enabled")
	}
}

type ShortcutStatusFN func() *zerolog.Event

var (
	statusHookMutex sync.RWMutex
	statusHook      ShortcutStatusFN
)

// RegisterStatusHook allows commands to register a custom status function
func RegisterStatusHook(hook ShortcutStatusFN) {
	statusHookMutex.Lock()
	defer statusHookMutex.Unlock()
	statusHook = hook
}

// GetStatusHook returns the registered status hook or a default one
func GetStatusHook() ShortcutStatusFN {
	statusHookMutex.RLock()
	defer statusHookMutex.RUnlock()
	if statusHook != nil {
		return statusHook
	}
	return defaultStatusHook
}

func defaultStatusHook() *zerolog.Event {
	return log.Info().Str("status", "nothing to show")
}

func setLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
	log.Info().Str("logLevel", level.String()).Msg("New Log level")
}

// ShortcutListeners binds the interactive keyboard shortcuts: t/d/i/w/e
// switch the log level, s prints the status of the running command.
func ShortcutListeners() {
	err := keyboard.Listen(func(key keys.Key) (stop bool, err error) {
		switch key.Code {
		case keys.CtrlC, keys.Escape:
			return true, nil
		case keys.RuneKey:
			switch key.String() {
			case "t":
				setLevel(zerolog.TraceLevel)
			case "d":
				setLevel(zerolog.DebugLevel)
			case "i":
				setLevel(zerolog.InfoLevel)
			case "w":
				setLevel(zerolog.WarnLevel)
			case "e":
				setLevel(zerolog.ErrorLevel)
			case "s":
				currentHook := GetStatusHook()
				currentHook().Msg("Status")
			}
		}

		return false, nil
	})

	if err != nil {
		log.Error().Err(err).Msg("Failed hooking keyboard bindings")
	}
}
