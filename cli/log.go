package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// newLogger returns a text logger writing to w at the named level.
func newLogger(w io.Writer, level string) (*logrus.Logger, error) {
	lvl := logrus.WarnLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		lvl = parsed
	}

	colors := false
	if f, ok := w.(*os.File); ok {
		colors = term.IsTerminal(int(f.Fd()))
	}

	return &logrus.Logger{
		Out: w,
		Formatter: &logrus.TextFormatter{
			ForceColors:      colors,
			DisableColors:    !colors,
			DisableTimestamp: true,
		},
		Hooks: make(logrus.LevelHooks),
		Level: lvl,
	}, nil
}
