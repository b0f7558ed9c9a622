package logtap

import (
	"strings"

	"github.com/rs/zerolog"
)

// ZerologHook returns a zerolog hook that buffers every event's message as
// "[LEVEL] <message>" alongside the logger's normal output:
//
//	logger := zerolog.New(os.Stderr).Hook(tap.ZerologHook())
func (t *Tap) ZerologHook() zerolog.Hook {
	return zerologHook{tap: t}
}

type zerologHook struct {
	tap *Tap
}

func (h zerologHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	name := "LOG"
	if level != zerolog.NoLevel {
		name = strings.ToUpper(level.String())
	}
	h.tap.capture(name, msg)
}
